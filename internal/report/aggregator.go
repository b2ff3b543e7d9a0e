package report

import (
	"context"

	"github.com/makehaven/yearreview/internal/constants"
	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/metrics"
	"github.com/makehaven/yearreview/internal/util"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Aggregator assembles the unified per-member stat record for one year. The
// five providers are mutually independent, so they are dispatched
// concurrently; each failure is isolated and its metric defaults to zero.
type Aggregator struct {
	visits       VisitProvider
	events       EventProvider
	badges       BadgeProvider
	loans        LoanProvider
	appointments AppointmentProvider
	logger       *zap.Logger
	metrics      metrics.Collector
}

func NewAggregator(
	visits VisitProvider,
	events EventProvider,
	badges BadgeProvider,
	loans LoanProvider,
	appointments AppointmentProvider,
	logger *zap.Logger,
	collector metrics.Collector,
) *Aggregator {
	return &Aggregator{
		visits:       visits,
		events:       events,
		badges:       badges,
		loans:        loans,
		appointments: appointments,
		logger:       logger,
		metrics:      collector,
	}
}

// Aggregate never fails: a provider error is logged, counted, and the metric
// stays at its zero value. Each goroutine writes a distinct field, so no
// locking is needed.
func (a *Aggregator) Aggregate(ctx context.Context, memberID int64, year int) domain.MemberYearStats {
	stats := domain.MemberYearStats{
		MemberID:    memberID,
		Year:        year,
		EventTitles: []string{},
		BadgeTitles: []string{},
	}

	p := pool.New().WithMaxGoroutines(constants.Aggregate.ProviderConcurrency)

	p.Go(func() {
		days, err := a.visits.VisitDays(ctx, memberID, year)
		if err != nil {
			a.degrade("visits", memberID, year, err)
			return
		}
		stats.VisitDays = days
	})

	p.Go(func() {
		attendance, err := a.events.Attendance(ctx, memberID, year)
		if err != nil {
			a.degrade("events", memberID, year, err)
			return
		}
		stats.EventTitles = attendance.Titles
		stats.EventCount = len(attendance.Titles)
	})

	p.Go(func() {
		titles, err := a.badges.Titles(ctx, memberID, year)
		if err != nil {
			a.degrade("badges", memberID, year, err)
			return
		}
		stats.BadgeTitles = util.UniqueStrings(titles)
	})

	p.Go(func() {
		count, err := a.loans.LoanCount(ctx, memberID, year)
		if err != nil {
			a.degrade("loans", memberID, year, err)
			return
		}
		stats.LoanCount = count
	})

	p.Go(func() {
		count, err := a.appointments.Count(ctx, memberID, year)
		if err != nil {
			a.degrade("appointments", memberID, year, err)
			return
		}
		stats.AppointmentCount = count
	})

	p.Wait()

	if stats.EventTitles == nil {
		stats.EventTitles = []string{}
	}
	if stats.BadgeTitles == nil {
		stats.BadgeTitles = []string{}
	}

	return stats
}

func (a *Aggregator) degrade(provider string, memberID int64, year int, err error) {
	a.metrics.IncProviderFailure(provider)
	a.logger.Warn("Provider failed, metric defaults to zero",
		zap.String("provider", provider),
		zap.Int64("member_id", memberID),
		zap.Int("year", year),
		zap.Error(err),
	)
}
