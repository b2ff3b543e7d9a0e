package report

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/makehaven/yearreview/internal/constants"
	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/metrics"
	"go.uber.org/zap"
)

type serviceFixture struct {
	visits       *fakeVisits
	events       *fakeEvents
	badges       *fakeBadges
	loans        *fakeLoans
	appointments *fakeAppointments
	membership   *fakeMembership
	cache        *fakeCache
	service      *Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		visits:       &fakeVisits{},
		events:       &fakeEvents{},
		badges:       &fakeBadges{},
		loans:        &fakeLoans{},
		appointments: &fakeAppointments{},
		membership:   &fakeMembership{},
		cache:        newFakeCache(),
	}

	logger := zap.NewNop()
	collector := metrics.NewNoop()

	aggregator := NewAggregator(f.visits, f.events, f.badges, f.loans, f.appointments, logger, collector)
	ranks := NewRankEstimator(f.visits, f.badges, f.appointments, f.membership, logger)
	profiles := NewProfileBuilder(f.membership, ranks, logger)
	community := NewCommunityBuilder(
		f.visits, f.events, f.badges, f.loans, f.appointments, f.membership,
		10, 1, logger, collector,
	)

	f.service = NewService(aggregator, ranks, profiles, community, f.visits, f.membership, f.cache, logger, collector)
	return f
}

func TestBuildMemberReportCacheHit(t *testing.T) {
	f := newServiceFixture()

	cached := &domain.MemberReport{
		Year:  2025,
		Stats: domain.MemberYearStats{MemberID: 7, Year: 2025, VisitDays: 12},
	}
	if err := f.cache.SetTagged(context.Background(), MemberStatsKey(7, 2025), cached, time.Hour, nil); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	var providerCalls int32
	f.visits.visitDays = func(int64, int) (int, error) {
		atomic.AddInt32(&providerCalls, 1)
		return 0, nil
	}

	got, err := f.service.BuildMemberReport(context.Background(), 7, 2025)
	if err != nil {
		t.Fatalf("BuildMemberReport: %v", err)
	}
	if got.Stats.VisitDays != 12 {
		t.Errorf("VisitDays = %d, want the cached 12", got.Stats.VisitDays)
	}
	if atomic.LoadInt32(&providerCalls) != 0 {
		t.Errorf("providers queried %d times on a cache hit, want 0", providerCalls)
	}
}

func TestBuildMemberReportCacheMissComputesAndWrites(t *testing.T) {
	f := newServiceFixture()
	f.visits.visitDays = func(_ int64, year int) (int, error) {
		if year == 2025 {
			return 30, nil
		}
		return 0, nil
	}
	f.badges.titles = func(_ int64, year int) ([]string, error) {
		if year == 2025 {
			return []string{"Laser Cutter"}, nil
		}
		return nil, nil
	}

	got, err := f.service.BuildMemberReport(context.Background(), 7, 2025)
	if err != nil {
		t.Fatalf("BuildMemberReport: %v", err)
	}

	if got.Stats.VisitDays != 30 {
		t.Errorf("VisitDays = %d, want 30", got.Stats.VisitDays)
	}
	if got.Deltas.Visits != "+100%" {
		t.Errorf("visits delta = %q, want +100%% from a zero prior year", got.Deltas.Visits)
	}
	if got.Ranks.Badges == nil || got.Ranks.Badges.Label != "Badge Earner" {
		t.Errorf("badge rank = %+v, want Badge Earner", got.Ranks.Badges)
	}

	key := MemberStatsKey(7, 2025)
	if _, ok := f.cache.store[key]; !ok {
		t.Fatalf("report not written to cache under %q", key)
	}
	if got := f.cache.ttls[key]; got != constants.CacheTTL.MemberStats {
		t.Errorf("cache TTL = %v, want %v", got, constants.CacheTTL.MemberStats)
	}

	tags := f.cache.tags[key]
	wantTags := map[string]bool{"member:7": false, constants.CacheTags.Badges: false, constants.CacheTags.Appointments: false}
	for _, tag := range tags {
		if _, ok := wantTags[tag]; ok {
			wantTags[tag] = true
		}
	}
	for tag, seen := range wantTags {
		if !seen {
			t.Errorf("cache entry missing tag %q (got %v)", tag, tags)
		}
	}
}

func TestBuildMemberReportSurvivesCacheFailures(t *testing.T) {
	f := newServiceFixture()
	f.cache.getErr = errors.New("redis down")
	f.cache.setErr = errors.New("redis down")
	f.visits.visitDays = func(int64, int) (int, error) { return 4, nil }

	got, err := f.service.BuildMemberReport(context.Background(), 7, 2025)
	if err != nil {
		t.Fatalf("BuildMemberReport: %v", err)
	}
	if got.Stats.VisitDays != 4 {
		t.Errorf("VisitDays = %d, want fresh computation despite broken cache", got.Stats.VisitDays)
	}
}

func TestBuildCommunityReportCachesResult(t *testing.T) {
	f := newServiceFixture()
	f.membership.newJoins = func(int) (int, error) { return 120, nil }

	first, err := f.service.BuildCommunityReport(context.Background(), 2025)
	if err != nil {
		t.Fatalf("BuildCommunityReport: %v", err)
	}
	if first.Stats.TotalJoins != 120 {
		t.Errorf("TotalJoins = %d, want 120", first.Stats.TotalJoins)
	}

	if got := f.cache.ttls[CommunityKey(2025)]; got != constants.CacheTTL.CommunityReport {
		t.Errorf("community TTL = %v, want %v", got, constants.CacheTTL.CommunityReport)
	}

	// Second call must come from cache, not a recount.
	f.membership.newJoins = func(int) (int, error) { return 0, errors.New("should not be called") }
	second, err := f.service.BuildCommunityReport(context.Background(), 2025)
	if err != nil {
		t.Fatalf("BuildCommunityReport (cached): %v", err)
	}
	if second.Stats.TotalJoins != 120 {
		t.Errorf("cached TotalJoins = %d, want 120", second.Stats.TotalJoins)
	}
}

func TestPrewarmSkipsCachedMembers(t *testing.T) {
	f := newServiceFixture()
	f.membership.activeIDs = func() ([]int64, error) { return []int64{1, 2, 3}, nil }

	var computed int32
	f.visits.visitDays = func(memberID int64, _ int) (int, error) {
		atomic.AddInt32(&computed, 1)
		return int(memberID), nil
	}

	// Member 2 is already warm.
	seed := &domain.MemberReport{Year: 2025, Stats: domain.MemberYearStats{MemberID: 2}}
	if err := f.cache.SetTagged(context.Background(), MemberStatsKey(2, 2025), seed, time.Hour, nil); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	processed, err := f.service.Prewarm(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Prewarm: %v", err)
	}
	if processed != 3 {
		t.Errorf("processed = %d, want 3", processed)
	}
	// Each uncached member aggregates the target year and the prior year.
	if got := atomic.LoadInt32(&computed); got != 4 {
		t.Errorf("visit provider called %d times, want 4 (two members, two years each)", got)
	}

	// Every member is warm now; a second run computes nothing.
	atomic.StoreInt32(&computed, 0)
	processed, err = f.service.Prewarm(context.Background(), 2025)
	if err != nil {
		t.Fatalf("Prewarm (second run): %v", err)
	}
	if processed != 3 {
		t.Errorf("second run processed = %d, want 3", processed)
	}
	if got := atomic.LoadInt32(&computed); got != 0 {
		t.Errorf("second run recomputed %d member-years, want 0", got)
	}
}

func TestBuildMemberReportRejectsImplausibleYear(t *testing.T) {
	f := newServiceFixture()

	for _, year := range []int{1987, time.Now().Year() + 1} {
		if _, err := f.service.BuildMemberReport(context.Background(), 7, year); err == nil {
			t.Errorf("BuildMemberReport accepted year %d, want validation error", year)
		}
	}
	if _, err := f.service.Prewarm(context.Background(), 1500); err == nil {
		t.Error("Prewarm accepted year 1500, want validation error")
	}
}

func TestPrewarmFailsWithoutMemberList(t *testing.T) {
	f := newServiceFixture()
	f.membership.activeIDs = func() ([]int64, error) { return nil, errors.New("db down") }

	if _, err := f.service.Prewarm(context.Background(), 2025); err == nil {
		t.Fatal("Prewarm should fail when the active member list is unavailable")
	}
}

func TestPrewarmStopsOnCanceledContext(t *testing.T) {
	f := newServiceFixture()
	f.membership.activeIDs = func() ([]int64, error) { return []int64{1, 2, 3}, nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processed, err := f.service.Prewarm(ctx, 2025)
	if err == nil {
		t.Fatal("Prewarm should surface the canceled context")
	}
	if processed != 0 {
		t.Errorf("processed = %d, want 0 after immediate cancellation", processed)
	}
}
