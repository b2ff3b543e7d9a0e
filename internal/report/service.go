package report

import (
	"context"
	"fmt"
	"time"

	"github.com/makehaven/yearreview/internal/constants"
	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/metrics"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// earliestReportYear predates every data source; anything before it is a typo.
const earliestReportYear = 2000

func validateYear(year int) error {
	if year < earliestReportYear || year > time.Now().Year() {
		return errors.NewValidationError("year out of report range", "year", year)
	}
	return nil
}

// Service is the engine's public surface: per-member reports, the community
// rollup, and the cache prewarm batch job. All provider access goes through
// injected dependencies; there are no ambient singletons.
type Service struct {
	aggregator *Aggregator
	ranks      *RankEstimator
	profiles   *ProfileBuilder
	community  *CommunityBuilder
	visits     VisitProvider
	membership MembershipProvider
	cache      Cache
	logger     *zap.Logger
	metrics    metrics.Collector
}

func NewService(
	aggregator *Aggregator,
	ranks *RankEstimator,
	profiles *ProfileBuilder,
	community *CommunityBuilder,
	visits VisitProvider,
	membership MembershipProvider,
	cache Cache,
	logger *zap.Logger,
	collector metrics.Collector,
) *Service {
	return &Service{
		aggregator: aggregator,
		ranks:      ranks,
		profiles:   profiles,
		community:  community,
		visits:     visits,
		membership: membership,
		cache:      cache,
		logger:     logger,
		metrics:    collector,
	}
}

func MemberStatsKey(memberID int64, year int) string {
	return fmt.Sprintf("%s%d:%d", constants.CacheKeys.MemberStatsPrefix, memberID, year)
}

func CommunityKey(year int) string {
	return fmt.Sprintf("%s%d", constants.CacheKeys.CommunityPrefix, year)
}

func memberTags(memberID int64) []string {
	return []string{
		fmt.Sprintf("member:%d", memberID),
		constants.CacheTags.Badges,
		constants.CacheTags.Appointments,
	}
}

func communityTags() []string {
	return []string{
		constants.CacheTags.Badges,
		constants.CacheTags.Events,
		constants.CacheTags.Profiles,
	}
}

// BuildMemberReport returns the member's year-in-review, from cache when
// possible. A member with zero activity gets a populated all-zero report and
// a nil persona, never an error.
func (s *Service) BuildMemberReport(ctx context.Context, memberID int64, year int) (*domain.MemberReport, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	key := MemberStatsKey(memberID, year)

	var cached domain.MemberReport
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		// A broken cache read is a miss, not a failure.
		s.logger.Warn("Member report cache read failed, recomputing",
			zap.String("key", key), zap.Error(err))
	}
	if hit && err == nil {
		s.metrics.IncCacheHit()
		return &cached, nil
	}
	s.metrics.IncCacheMiss()

	report := s.computeMemberReport(ctx, memberID, year)
	s.metrics.IncReportBuild("member")

	if err := s.cache.SetTagged(ctx, key, report, constants.CacheTTL.MemberStats, memberTags(memberID)); err != nil {
		s.logger.Warn("Member report cache write failed",
			zap.String("key", key), zap.Error(err))
	}

	return report, nil
}

func (s *Service) computeMemberReport(ctx context.Context, memberID int64, year int) *domain.MemberReport {
	stats := s.aggregator.Aggregate(ctx, memberID, year)
	prev := s.aggregator.Aggregate(ctx, memberID, year-1)

	report := &domain.MemberReport{
		Year:  year,
		Stats: stats,
		Prev:  prev,
		Deltas: domain.DeltaSet{
			Visits: Delta(stats.VisitDays, prev.VisitDays),
			Events: Delta(stats.EventCount, prev.EventCount),
			Badges: Delta(stats.BadgeCount(), prev.BadgeCount()),
			Loans:  Delta(stats.LoanCount, prev.LoanCount),
		},
		Ranks: domain.RankSet{
			Visits:   EstimateRank(stats.VisitDays, domain.MetricVisits),
			Badges:   EstimateRank(stats.BadgeCount(), domain.MetricBadges),
			Events:   EstimateRank(stats.EventCount, domain.MetricEvents),
			Loans:    EstimateRank(stats.LoanCount, domain.MetricLoans),
			Counting: s.ranks.CountingRanks(ctx, year, stats, stats.AppointmentCount),
		},
		Profile: s.profiles.Build(ctx, memberID),
	}

	entries, err := s.visits.FirstEntryTimes(ctx, memberID, year)
	if err != nil {
		s.logger.Warn("First-entry lookup failed, classifying without visit histogram",
			zap.Int64("member_id", memberID), zap.Error(err))
		entries = nil
	}
	report.Persona = ClassifyPersona(stats, entries)

	return report
}

// BuildCommunityReport returns the cached population rollup for a year,
// computing it on a miss. Concurrent first requests may each recompute; the
// last write wins, which is an accepted tradeoff.
func (s *Service) BuildCommunityReport(ctx context.Context, year int) (*domain.CommunityYearReport, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	key := CommunityKey(year)

	var cached domain.CommunityYearReport
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("Community report cache read failed, recomputing",
			zap.String("key", key), zap.Error(err))
	}
	if hit && err == nil {
		s.metrics.IncCacheHit()
		return &cached, nil
	}
	s.metrics.IncCacheMiss()

	report := s.community.Build(ctx, year)
	s.metrics.IncReportBuild("community")

	if err := s.cache.SetTagged(ctx, key, report, constants.CacheTTL.CommunityReport, communityTags()); err != nil {
		s.logger.Warn("Community report cache write failed",
			zap.String("key", key), zap.Error(err))
	}

	return report, nil
}

// Prewarm populates the per-member cache for every active member, skipping
// members that are already cached, so re-running it is safe and cheap. One
// member's failure is logged and the loop continues. Returns the number of
// members processed.
func (s *Service) Prewarm(ctx context.Context, year int) (int, error) {
	if err := validateYear(year); err != nil {
		return 0, err
	}
	ids, err := s.membership.ActiveMemberIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active members: %w", err)
	}

	s.logger.Info("Prewarm starting",
		zap.Int("year", year),
		zap.Int("active_members", len(ids)),
	)

	processed := 0
	computed := 0
	for _, memberID := range ids {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		key := MemberStatsKey(memberID, year)
		cached, err := s.cache.Exists(ctx, key)
		if err != nil {
			s.logger.Warn("Prewarm cache check failed, recomputing",
				zap.Int64("member_id", memberID), zap.Error(err))
		}

		if !cached {
			if _, err := s.BuildMemberReport(ctx, memberID, year); err != nil {
				s.logger.Error("Prewarm failed for member, continuing",
					zap.Int64("member_id", memberID),
					zap.Int("year", year),
					zap.Error(err),
				)
			} else {
				computed++
			}
		}

		processed++
		if processed%constants.Prewarm.ProgressInterval == 0 {
			s.logger.Info("Prewarm progress",
				zap.Int("processed", processed),
				zap.Int("computed", computed),
			)
		}
	}

	s.metrics.AddPrewarmProcessed(processed)
	s.logger.Info("Prewarm complete",
		zap.Int("year", year),
		zap.Int("processed", processed),
		zap.Int("computed", computed),
	)
	return processed, nil
}
