package report

import (
	"context"
	"strings"

	"github.com/makehaven/yearreview/internal/domain"
	"go.uber.org/zap"
)

type rankTier struct {
	threshold int
	label     string
}

// rankTables are a content decision, not derived data. Tiers are walked in
// descending order and the first threshold at or below the value wins; the
// lowest tier of each table is a plain participation label.
var rankTables = map[domain.Metric][]rankTier{
	domain.MetricVisits: {
		{100, "Top 1%"},
		{50, "Top 5%"},
		{25, "Top 10%"},
		{12, "Top 25%"},
		{1, "Active Visitor"},
	},
	domain.MetricBadges: {
		{10, "Top 1%"},
		{5, "Top 5%"},
		{3, "Top 10%"},
		{1, "Badge Earner"},
	},
	domain.MetricEvents: {
		{20, "Top 1%"},
		{10, "Top 5%"},
		{5, "Top 10%"},
		{1, "Event Attendee"},
	},
	domain.MetricLoans: {
		{20, "Top 1%"},
		{10, "Top 5%"},
		{5, "Top 10%"},
		{1, "Tool Borrower"},
	},
}

// EstimateRank is the coarse threshold-bucket strategy: no population query,
// just the fixed per-metric table. Nil means no activity, unranked.
func EstimateRank(value int, metric domain.Metric) *domain.RankResult {
	if value == 0 {
		return nil
	}

	for _, tier := range rankTables[metric] {
		if value >= tier.threshold {
			return &domain.RankResult{
				Label: tier.label,
				IsTop: strings.HasPrefix(tier.label, "Top"),
			}
		}
	}
	return nil
}

// RankEstimator is the exact counting strategy: a member's rank is one plus
// the number of active members with a strictly greater value. Ties share a
// rank. Each metric is counted independently against its own data source.
type RankEstimator struct {
	visits       PopulationCounter
	badges       PopulationCounter
	appointments PopulationCounter
	membership   MembershipProvider
	logger       *zap.Logger
}

func NewRankEstimator(visits, badges, appointments PopulationCounter, membership MembershipProvider, logger *zap.Logger) *RankEstimator {
	return &RankEstimator{
		visits:       visits,
		badges:       badges,
		appointments: appointments,
		membership:   membership,
		logger:       logger,
	}
}

// CountingRanks computes the per-metric counting ranks for one member's
// stats. A failed population query degrades to the unranked sentinel.
func (e *RankEstimator) CountingRanks(ctx context.Context, year int, stats domain.MemberYearStats, appointmentCount int) domain.CountingRanks {
	return domain.CountingRanks{
		Visits:       e.countingRank(ctx, e.visits, "visits", year, stats.VisitDays),
		Badges:       e.countingRank(ctx, e.badges, "badges", year, stats.BadgeCount()),
		Appointments: e.countingRank(ctx, e.appointments, "appointments", year, appointmentCount),
	}
}

func (e *RankEstimator) countingRank(ctx context.Context, counter PopulationCounter, metric string, year, value int) int {
	if value == 0 {
		return 0
	}

	ahead, err := counter.CountMembersAbove(ctx, year, value)
	if err != nil {
		e.logger.Warn("Counting rank query failed, leaving unranked",
			zap.String("metric", metric),
			zap.Int("year", year),
			zap.Error(err),
		)
		return 0
	}
	return ahead + 1
}

// SeniorityRank ranks a member by effective join date against the active
// population: one plus the number of members who joined strictly earlier.
// The earliest-joined active member is rank 1.
func (e *RankEstimator) SeniorityRank(ctx context.Context, profile domain.MemberProfile) int {
	earlier, err := e.membership.CountJoinedBefore(ctx, profile.EffectiveJoinDate())
	if err != nil {
		e.logger.Warn("Seniority rank query failed, leaving unranked",
			zap.Int64("member_id", profile.MemberID),
			zap.Error(err),
		)
		return 0
	}
	return earlier + 1
}
