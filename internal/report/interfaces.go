package report

import (
	"context"
	"time"

	"github.com/makehaven/yearreview/internal/domain"
)

// The engine defines the provider surfaces it consumes; the SQL repositories
// in internal/provider satisfy them. Providers are black boxes with possible
// transient failure; every call site degrades to a zero value.

type VisitProvider interface {
	VisitDays(ctx context.Context, memberID int64, year int) (int, error)
	FirstEntryTimes(ctx context.Context, memberID int64, year int) ([]time.Time, error)
	DailyUniqueEntries(ctx context.Context, year int) (map[string]int, error)
	WeekdayBuckets(ctx context.Context, year int) ([7][6]int, error)
	CountMembersAbove(ctx context.Context, year int, visitDays int) (int, error)
	TopVisitors(ctx context.Context, year int, limit int, excludeMemberID int64) ([]domain.LeaderboardEntry, error)
}

type EventProvider interface {
	Attendance(ctx context.Context, memberID int64, year int) (domain.EventAttendance, error)
	WorkshopsHeld(ctx context.Context, year int) (int, error)
	WorkshopRegistrations(ctx context.Context, year int) (int, error)
}

type BadgeProvider interface {
	Titles(ctx context.Context, memberID int64, year int) ([]string, error)
	CountMembersAbove(ctx context.Context, year int, badgeCount int) (int, error)
	PerMemberCounts(ctx context.Context, year int) ([]int, error)
	MonthlyIssuance(ctx context.Context, year int) (domain.MonthlySeries, error)
	TotalEarned(ctx context.Context, year int) (int, error)
	TopEarners(ctx context.Context, year int, limit int, excludeMemberID int64) ([]domain.LeaderboardEntry, error)
	TopEarnersAllTime(ctx context.Context, limit int, excludeMemberID int64) ([]domain.LeaderboardEntry, error)
}

type LoanProvider interface {
	LoanCount(ctx context.Context, memberID int64, year int) (int, error)
	MonthlyHistory(ctx context.Context) ([]domain.MonthlyCount, error)
}

type AppointmentProvider interface {
	Count(ctx context.Context, memberID int64, year int) (int, error)
	CountMembersAbove(ctx context.Context, year int, appointments int) (int, error)
	TotalForYear(ctx context.Context, year int) (int, error)
}

type MembershipProvider interface {
	Profile(ctx context.Context, memberID int64) (*domain.MemberProfile, error)
	CountActiveMembers(ctx context.Context) (int, error)
	ActiveMemberIDs(ctx context.Context) ([]int64, error)
	IsActive(ctx context.Context, memberID int64) (bool, error)
	CountJoinedBefore(ctx context.Context, effectiveJoin time.Time) (int, error)
	NewJoins(ctx context.Context, year int) (int, error)
}

// PopulationCounter is the slice of a provider the counting-rank strategy
// needs: "how many active members are strictly ahead of this value".
type PopulationCounter interface {
	CountMembersAbove(ctx context.Context, year int, value int) (int, error)
}

// Cache is the key/TTL/tag store shared by per-member and community results.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	SetTagged(ctx context.Context, key string, value any, ttl time.Duration, tags []string) error
	Exists(ctx context.Context, key string) (bool, error)
}
