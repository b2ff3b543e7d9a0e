package report

import (
	"context"
	"strconv"
	"strings"

	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/metrics"
	"go.uber.org/zap"
)

// CommunityBuilder computes the population-wide rollup: headline counts,
// distributions, time series, and leaderboards. Every sub-aggregate tolerates
// provider failure by degrading to its zero value; one failing chart must not
// blank out the rest of the report.
type CommunityBuilder struct {
	visits          VisitProvider
	events          EventProvider
	badges          BadgeProvider
	loans           LoanProvider
	appointments    AppointmentProvider
	membership      MembershipProvider
	leaderboardSize int
	systemAccountID int64
	logger          *zap.Logger
	metrics         metrics.Collector
}

func NewCommunityBuilder(
	visits VisitProvider,
	events EventProvider,
	badges BadgeProvider,
	loans LoanProvider,
	appointments AppointmentProvider,
	membership MembershipProvider,
	leaderboardSize int,
	systemAccountID int64,
	logger *zap.Logger,
	collector metrics.Collector,
) *CommunityBuilder {
	return &CommunityBuilder{
		visits:          visits,
		events:          events,
		badges:          badges,
		loans:           loans,
		appointments:    appointments,
		membership:      membership,
		leaderboardSize: leaderboardSize,
		systemAccountID: systemAccountID,
		logger:          logger,
		metrics:         collector,
	}
}

func (b *CommunityBuilder) Build(ctx context.Context, year int) *domain.CommunityYearReport {
	daily := b.dailyEntries(ctx, year)

	report := &domain.CommunityYearReport{
		Year:  year,
		Stats: b.buildStats(ctx, year, daily),
	}
	report.Charts = b.buildCharts(ctx, year, daily)
	report.Leaderboards = b.buildLeaderboards(ctx, year)
	return report
}

func (b *CommunityBuilder) buildStats(ctx context.Context, year int, daily map[string]int) domain.CommunityStats {
	var stats domain.CommunityStats

	stats.TotalJoins = b.intStat("total_joins", func() (int, error) {
		return b.membership.NewJoins(ctx, year)
	})
	stats.WorkshopsHeld = b.intStat("workshops_held", func() (int, error) {
		return b.events.WorkshopsHeld(ctx, year)
	})
	stats.WorkshopRegistrations = b.intStat("workshop_registrations", func() (int, error) {
		return b.events.WorkshopRegistrations(ctx, year)
	})
	stats.Appointments = b.intStat("appointments", func() (int, error) {
		return b.appointments.TotalForYear(ctx, year)
	})
	stats.BadgesEarned = b.intStat("badges_earned", func() (int, error) {
		return b.badges.TotalEarned(ctx, year)
	})
	stats.ToolLoans = b.toolLoans(ctx, year)

	prefix := strconv.Itoa(year)
	for date, count := range daily {
		if strings.HasPrefix(date, prefix) {
			stats.TotalVisits += count
		}
	}

	return stats
}

// toolLoans reconstructs the year's loan total by summing the monthly
// lending-history series clipped to the year.
func (b *CommunityBuilder) toolLoans(ctx context.Context, year int) int {
	history, err := b.loans.MonthlyHistory(ctx)
	if err != nil {
		b.degrade("tool_loans", err)
		return 0
	}

	prefix := strconv.Itoa(year) + "-"
	total := 0
	for _, mc := range history {
		if strings.HasPrefix(mc.Month, prefix) {
			total += mc.Count
		}
	}
	return total
}

func (b *CommunityBuilder) buildCharts(ctx context.Context, year int, daily map[string]int) domain.CommunityCharts {
	charts := domain.CommunityCharts{
		BadgeDistribution: b.badgeDistribution(ctx, year),
		MonthlyVisits:     monthlyVisits(daily, year),
	}

	if issuance, err := b.badges.MonthlyIssuance(ctx, year); err != nil {
		b.degrade("monthly_badge_issuance", err)
	} else {
		charts.MonthlyBadgeIssuance = issuance
	}

	charts.WeekdayTimeBuckets = b.weekdayTimeBuckets(ctx, year)
	charts.Heatmap = heatmapConfig(charts.WeekdayTimeBuckets)

	return charts
}

// badgeDistributionBuckets are the fixed histogram bars for "members by
// badges earned this year". Every member with at least one badge lands in
// exactly one bucket.
var badgeDistributionBuckets = []struct {
	label string
	min   int
	max   int // inclusive; 0 means unbounded
}{
	{"1", 1, 1},
	{"2", 2, 2},
	{"3", 3, 3},
	{"4", 4, 4},
	{"5–9", 5, 9},
	{"10+", 10, 0},
}

func (b *CommunityBuilder) badgeDistribution(ctx context.Context, year int) []domain.BadgeBucket {
	buckets := make([]domain.BadgeBucket, len(badgeDistributionBuckets))
	for i, def := range badgeDistributionBuckets {
		buckets[i] = domain.BadgeBucket{Label: def.label}
	}

	counts, err := b.badges.PerMemberCounts(ctx, year)
	if err != nil {
		b.degrade("badge_distribution", err)
		return buckets
	}

	for _, count := range counts {
		for i, def := range badgeDistributionBuckets {
			if count >= def.min && (def.max == 0 || count <= def.max) {
				buckets[i].Members++
				break
			}
		}
	}
	return buckets
}

// monthlyVisits sums daily unique-entry counts per month. Entries whose date
// string does not start with the target year are skipped; this string-prefix
// filter (not calendar math) is deliberate, matching how the access log
// handles timezone bleed into adjacent years.
func monthlyVisits(daily map[string]int, year int) domain.MonthlySeries {
	var series domain.MonthlySeries
	prefix := strconv.Itoa(year)

	for date, count := range daily {
		if !strings.HasPrefix(date, prefix) || len(date) < 7 {
			continue
		}
		month, err := strconv.Atoi(date[5:7])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		series[month-1] += count
	}
	return series
}

// weekdayTimeBuckets re-indexes the provider's Sunday-first matrix to the
// Monday-first display order.
func (b *CommunityBuilder) weekdayTimeBuckets(ctx context.Context, year int) domain.WeekdayTimeBuckets {
	var display domain.WeekdayTimeBuckets

	source, err := b.visits.WeekdayBuckets(ctx, year)
	if err != nil {
		b.degrade("weekday_time_buckets", err)
		return display
	}

	for i := 0; i < 7; i++ {
		display[i] = source[(i+1)%7]
	}
	return display
}

func heatmapConfig(buckets domain.WeekdayTimeBuckets) domain.HeatmapConfig {
	cfg := domain.HeatmapConfig{
		WeekdayLabels: [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	}
	for i, bucket := range domain.TimeBuckets {
		cfg.BucketLabels[i] = bucket.Label
	}
	for _, day := range buckets {
		for _, count := range day {
			if count > cfg.MaxValue {
				cfg.MaxValue = count
			}
		}
	}
	return cfg
}

func (b *CommunityBuilder) buildLeaderboards(ctx context.Context, year int) domain.CommunityLeaderboards {
	boards := domain.CommunityLeaderboards{
		BadgesThisYear: []domain.LeaderboardEntry{},
		VisitsThisYear: []domain.LeaderboardEntry{},
		BadgesAllTime:  []domain.LeaderboardEntry{},
	}

	if entries, err := b.badges.TopEarners(ctx, year, b.leaderboardSize, b.systemAccountID); err != nil {
		b.degrade("leaderboard_badges_year", err)
	} else if entries != nil {
		boards.BadgesThisYear = entries
	}

	if entries, err := b.visits.TopVisitors(ctx, year, b.leaderboardSize, b.systemAccountID); err != nil {
		b.degrade("leaderboard_visits_year", err)
	} else if entries != nil {
		boards.VisitsThisYear = entries
	}

	if entries, err := b.badges.TopEarnersAllTime(ctx, b.leaderboardSize, b.systemAccountID); err != nil {
		b.degrade("leaderboard_badges_all_time", err)
	} else if entries != nil {
		boards.BadgesAllTime = entries
	}

	return boards
}

func (b *CommunityBuilder) dailyEntries(ctx context.Context, year int) map[string]int {
	daily, err := b.visits.DailyUniqueEntries(ctx, year)
	if err != nil {
		b.degrade("daily_entries", err)
		return map[string]int{}
	}
	return daily
}

func (b *CommunityBuilder) intStat(name string, fetch func() (int, error)) int {
	value, err := fetch()
	if err != nil {
		b.degrade(name, err)
		return 0
	}
	return value
}

func (b *CommunityBuilder) degrade(aggregate string, err error) {
	b.metrics.IncProviderFailure(aggregate)
	b.logger.Warn("Community sub-aggregate failed, degrading to zero",
		zap.String("aggregate", aggregate),
		zap.Error(err),
	)
}
