package report

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/makehaven/yearreview/internal/domain"
)

// Hand-written fakes for the provider interfaces. A nil func field answers
// with zero values, so each test only wires the behavior it cares about.

type fakeVisits struct {
	visitDays    func(memberID int64, year int) (int, error)
	firstEntries func(memberID int64, year int) ([]time.Time, error)
	daily        func(year int) (map[string]int, error)
	weekday      func(year int) ([7][6]int, error)
	above        func(year, visitDays int) (int, error)
	top          func(year, limit int, exclude int64) ([]domain.LeaderboardEntry, error)
}

func (f *fakeVisits) VisitDays(_ context.Context, memberID int64, year int) (int, error) {
	if f.visitDays == nil {
		return 0, nil
	}
	return f.visitDays(memberID, year)
}

func (f *fakeVisits) FirstEntryTimes(_ context.Context, memberID int64, year int) ([]time.Time, error) {
	if f.firstEntries == nil {
		return nil, nil
	}
	return f.firstEntries(memberID, year)
}

func (f *fakeVisits) DailyUniqueEntries(_ context.Context, year int) (map[string]int, error) {
	if f.daily == nil {
		return map[string]int{}, nil
	}
	return f.daily(year)
}

func (f *fakeVisits) WeekdayBuckets(_ context.Context, year int) ([7][6]int, error) {
	if f.weekday == nil {
		return [7][6]int{}, nil
	}
	return f.weekday(year)
}

func (f *fakeVisits) CountMembersAbove(_ context.Context, year, visitDays int) (int, error) {
	if f.above == nil {
		return 0, nil
	}
	return f.above(year, visitDays)
}

func (f *fakeVisits) TopVisitors(_ context.Context, year, limit int, exclude int64) ([]domain.LeaderboardEntry, error) {
	if f.top == nil {
		return nil, nil
	}
	return f.top(year, limit, exclude)
}

type fakeEvents struct {
	attendance    func(memberID int64, year int) (domain.EventAttendance, error)
	held          func(year int) (int, error)
	registrations func(year int) (int, error)
}

func (f *fakeEvents) Attendance(_ context.Context, memberID int64, year int) (domain.EventAttendance, error) {
	if f.attendance == nil {
		return domain.EventAttendance{}, nil
	}
	return f.attendance(memberID, year)
}

func (f *fakeEvents) WorkshopsHeld(_ context.Context, year int) (int, error) {
	if f.held == nil {
		return 0, nil
	}
	return f.held(year)
}

func (f *fakeEvents) WorkshopRegistrations(_ context.Context, year int) (int, error) {
	if f.registrations == nil {
		return 0, nil
	}
	return f.registrations(year)
}

type fakeBadges struct {
	titles     func(memberID int64, year int) ([]string, error)
	above      func(year, badgeCount int) (int, error)
	perMember  func(year int) ([]int, error)
	issuance   func(year int) (domain.MonthlySeries, error)
	total      func(year int) (int, error)
	topYear    func(year, limit int, exclude int64) ([]domain.LeaderboardEntry, error)
	topAllTime func(limit int, exclude int64) ([]domain.LeaderboardEntry, error)
}

func (f *fakeBadges) Titles(_ context.Context, memberID int64, year int) ([]string, error) {
	if f.titles == nil {
		return nil, nil
	}
	return f.titles(memberID, year)
}

func (f *fakeBadges) CountMembersAbove(_ context.Context, year, badgeCount int) (int, error) {
	if f.above == nil {
		return 0, nil
	}
	return f.above(year, badgeCount)
}

func (f *fakeBadges) PerMemberCounts(_ context.Context, year int) ([]int, error) {
	if f.perMember == nil {
		return nil, nil
	}
	return f.perMember(year)
}

func (f *fakeBadges) MonthlyIssuance(_ context.Context, year int) (domain.MonthlySeries, error) {
	if f.issuance == nil {
		return domain.MonthlySeries{}, nil
	}
	return f.issuance(year)
}

func (f *fakeBadges) TotalEarned(_ context.Context, year int) (int, error) {
	if f.total == nil {
		return 0, nil
	}
	return f.total(year)
}

func (f *fakeBadges) TopEarners(_ context.Context, year, limit int, exclude int64) ([]domain.LeaderboardEntry, error) {
	if f.topYear == nil {
		return nil, nil
	}
	return f.topYear(year, limit, exclude)
}

func (f *fakeBadges) TopEarnersAllTime(_ context.Context, limit int, exclude int64) ([]domain.LeaderboardEntry, error) {
	if f.topAllTime == nil {
		return nil, nil
	}
	return f.topAllTime(limit, exclude)
}

type fakeLoans struct {
	count   func(memberID int64, year int) (int, error)
	history func() ([]domain.MonthlyCount, error)
}

func (f *fakeLoans) LoanCount(_ context.Context, memberID int64, year int) (int, error) {
	if f.count == nil {
		return 0, nil
	}
	return f.count(memberID, year)
}

func (f *fakeLoans) MonthlyHistory(_ context.Context) ([]domain.MonthlyCount, error) {
	if f.history == nil {
		return nil, nil
	}
	return f.history()
}

type fakeAppointments struct {
	count func(memberID int64, year int) (int, error)
	above func(year, appointments int) (int, error)
	total func(year int) (int, error)
}

func (f *fakeAppointments) Count(_ context.Context, memberID int64, year int) (int, error) {
	if f.count == nil {
		return 0, nil
	}
	return f.count(memberID, year)
}

func (f *fakeAppointments) CountMembersAbove(_ context.Context, year, appointments int) (int, error) {
	if f.above == nil {
		return 0, nil
	}
	return f.above(year, appointments)
}

func (f *fakeAppointments) TotalForYear(_ context.Context, year int) (int, error) {
	if f.total == nil {
		return 0, nil
	}
	return f.total(year)
}

type fakeMembership struct {
	profile      func(memberID int64) (*domain.MemberProfile, error)
	activeCount  func() (int, error)
	activeIDs    func() ([]int64, error)
	isActive     func(memberID int64) (bool, error)
	joinedBefore func(effective time.Time) (int, error)
	newJoins     func(year int) (int, error)
}

func (f *fakeMembership) Profile(_ context.Context, memberID int64) (*domain.MemberProfile, error) {
	if f.profile == nil {
		return nil, nil
	}
	return f.profile(memberID)
}

func (f *fakeMembership) CountActiveMembers(_ context.Context) (int, error) {
	if f.activeCount == nil {
		return 0, nil
	}
	return f.activeCount()
}

func (f *fakeMembership) ActiveMemberIDs(_ context.Context) ([]int64, error) {
	if f.activeIDs == nil {
		return nil, nil
	}
	return f.activeIDs()
}

func (f *fakeMembership) IsActive(_ context.Context, memberID int64) (bool, error) {
	if f.isActive == nil {
		return false, nil
	}
	return f.isActive(memberID)
}

func (f *fakeMembership) CountJoinedBefore(_ context.Context, effective time.Time) (int, error) {
	if f.joinedBefore == nil {
		return 0, nil
	}
	return f.joinedBefore(effective)
}

func (f *fakeMembership) NewJoins(_ context.Context, year int) (int, error) {
	if f.newJoins == nil {
		return 0, nil
	}
	return f.newJoins(year)
}

type fakeCounter struct {
	above func(year, value int) (int, error)
	calls int
}

func (f *fakeCounter) CountMembersAbove(_ context.Context, year, value int) (int, error) {
	f.calls++
	if f.above == nil {
		return 0, nil
	}
	return f.above(year, value)
}

// fakeCache is an in-memory tag-aware cache that round-trips values through
// JSON the way the real store does.
type fakeCache struct {
	mu     sync.Mutex
	store  map[string][]byte
	tags   map[string][]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		store: map[string][]byte{},
		tags:  map[string][]string{},
		ttls:  map[string]time.Duration{},
	}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.store[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeCache) SetTagged(_ context.Context, key string, value any, ttl time.Duration, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = raw
	f.tags[key] = tags
	f.ttls[key] = ttl
	f.sets++
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.store[key]
	return ok, nil
}
