package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/makehaven/yearreview/internal/domain"
	"go.uber.org/zap"
)

func TestEstimateRank(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		metric    domain.Metric
		wantNil   bool
		wantLabel string
		wantTop   bool
	}{
		{"zero visits unranked", 0, domain.MetricVisits, true, "", false},
		{"one visit", 1, domain.MetricVisits, false, "Active Visitor", false},
		{"visits top quarter boundary", 12, domain.MetricVisits, false, "Top 25%", true},
		{"visits just under top ten", 24, domain.MetricVisits, false, "Top 25%", true},
		{"visits top one percent", 100, domain.MetricVisits, false, "Top 1%", true},
		{"one badge", 1, domain.MetricBadges, false, "Badge Earner", false},
		{"badges top ten", 3, domain.MetricBadges, false, "Top 10%", true},
		{"badges top one percent", 10, domain.MetricBadges, false, "Top 1%", true},
		{"events top ten boundary", 5, domain.MetricEvents, false, "Top 10%", true},
		{"loans top one percent", 20, domain.MetricLoans, false, "Top 1%", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateRank(tt.value, tt.metric)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("EstimateRank(%d, %s) = %+v, want nil", tt.value, tt.metric, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("EstimateRank(%d, %s) = nil, want %q", tt.value, tt.metric, tt.wantLabel)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.IsTop != tt.wantTop {
				t.Errorf("IsTop = %v, want %v", got.IsTop, tt.wantTop)
			}
		})
	}
}

func TestCountingRanks(t *testing.T) {
	visits := &fakeCounter{above: func(_, _ int) (int, error) { return 4, nil }}
	badges := &fakeCounter{above: func(_, _ int) (int, error) { return 0, nil }}
	appointments := &fakeCounter{}

	e := NewRankEstimator(visits, badges, appointments, &fakeMembership{}, zap.NewNop())

	stats := domain.MemberYearStats{
		VisitDays:   10,
		BadgeTitles: []string{"Laser Cutter", "Wood Lathe"},
	}
	ranks := e.CountingRanks(context.Background(), 2025, stats, 0)

	if ranks.Visits != 5 {
		t.Errorf("visits rank = %d, want 5", ranks.Visits)
	}
	if ranks.Badges != 1 {
		t.Errorf("badges rank = %d, want 1", ranks.Badges)
	}
	if ranks.Appointments != 0 {
		t.Errorf("appointments rank = %d, want 0 for zero activity", ranks.Appointments)
	}
	if appointments.calls != 0 {
		t.Errorf("appointment counter queried %d times for a zero value, want 0", appointments.calls)
	}
}

func TestCountingRanksQueryFailure(t *testing.T) {
	visits := &fakeCounter{above: func(_, _ int) (int, error) {
		return 0, errors.New("connection reset")
	}}
	e := NewRankEstimator(visits, &fakeCounter{}, &fakeCounter{}, &fakeMembership{}, zap.NewNop())

	ranks := e.CountingRanks(context.Background(), 2025, domain.MemberYearStats{VisitDays: 3}, 0)
	if ranks.Visits != 0 {
		t.Errorf("visits rank = %d, want unranked sentinel 0 on query failure", ranks.Visits)
	}
}

func TestSeniorityRank(t *testing.T) {
	joined := time.Date(2019, 3, 10, 0, 0, 0, 0, time.UTC)

	var asked time.Time
	membership := &fakeMembership{
		joinedBefore: func(effective time.Time) (int, error) {
			asked = effective
			return 41, nil
		},
	}
	e := NewRankEstimator(&fakeCounter{}, &fakeCounter{}, &fakeCounter{}, membership, zap.NewNop())

	profile := domain.MemberProfile{MemberID: 7, JoinDate: &joined}
	if got := e.SeniorityRank(context.Background(), profile); got != 42 {
		t.Errorf("SeniorityRank = %d, want 42", got)
	}
	if !asked.Equal(joined) {
		t.Errorf("queried join date %v, want declared date %v", asked, joined)
	}
}

func TestSeniorityRankEarliestMember(t *testing.T) {
	membership := &fakeMembership{
		joinedBefore: func(time.Time) (int, error) { return 0, nil },
	}
	e := NewRankEstimator(&fakeCounter{}, &fakeCounter{}, &fakeCounter{}, membership, zap.NewNop())

	if got := e.SeniorityRank(context.Background(), domain.MemberProfile{}); got != 1 {
		t.Errorf("SeniorityRank = %d, want 1 for the earliest member", got)
	}
}

func TestSeniorityRankQueryFailure(t *testing.T) {
	membership := &fakeMembership{
		joinedBefore: func(time.Time) (int, error) { return 0, errors.New("timeout") },
	}
	e := NewRankEstimator(&fakeCounter{}, &fakeCounter{}, &fakeCounter{}, membership, zap.NewNop())

	if got := e.SeniorityRank(context.Background(), domain.MemberProfile{}); got != 0 {
		t.Errorf("SeniorityRank = %d, want 0 on query failure", got)
	}
}
