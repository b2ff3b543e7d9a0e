package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/service/database"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// VisitRepository reads the door access log. Timestamps are stored in UTC and
// bucketed in shop-local time at query time.
type VisitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewVisitRepository(postgres *database.PostgresService, logger *zap.Logger) *VisitRepository {
	return &VisitRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

const shopTZ = "America/New_York"

// VisitDays counts the unique local days a member badged in during a year.
func (r *VisitRepository) VisitDays(ctx context.Context, memberID int64, year int) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT (a.entered_at AT TIME ZONE '%s')::date)
		FROM access_log a
		WHERE a.member_id = $1
		  AND a.granted
		  AND EXTRACT(YEAR FROM a.entered_at AT TIME ZONE '%s') = $2
	`, shopTZ, shopTZ)

	var days int
	if err := r.db.QueryRowContext(ctx, query, memberID, year).Scan(&days); err != nil {
		return 0, errors.NewProviderError("failed to count visit days", "visits", "visit_days", err)
	}
	return days, nil
}

// FirstEntryTimes returns the first badge-in per visit day, in shop-local time.
func (r *VisitRepository) FirstEntryTimes(ctx context.Context, memberID int64, year int) ([]time.Time, error) {
	query := fmt.Sprintf(`
		SELECT MIN(a.entered_at AT TIME ZONE '%s')
		FROM access_log a
		WHERE a.member_id = $1
		  AND a.granted
		  AND EXTRACT(YEAR FROM a.entered_at AT TIME ZONE '%s') = $2
		GROUP BY (a.entered_at AT TIME ZONE '%s')::date
		ORDER BY 1
	`, shopTZ, shopTZ, shopTZ)

	rows, err := r.db.QueryContext(ctx, query, memberID, year)
	if err != nil {
		return nil, errors.NewProviderError("failed to query first entries", "visits", "first_entries", err)
	}
	defer rows.Close()

	var entries []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			r.logger.Warn("Failed to scan first entry row", zap.Error(err))
			continue
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// DailyUniqueEntries maps local date strings ("2006-01-02") to the number of
// distinct members who badged in that day. The caller applies the year-prefix
// filter; timezone bleed at year boundaries is expected here.
func (r *VisitRepository) DailyUniqueEntries(ctx context.Context, year int) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT to_char(a.entered_at AT TIME ZONE '%s', 'YYYY-MM-DD') AS visit_date,
		       COUNT(DISTINCT a.member_id)
		FROM access_log a
		WHERE a.granted
		  AND EXTRACT(YEAR FROM a.entered_at) = $1
		GROUP BY visit_date
	`, shopTZ)

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, errors.NewProviderError("failed to query daily entries", "visits", "daily_entries", err)
	}
	defer rows.Close()

	entries := make(map[string]int)
	for rows.Next() {
		var date string
		var count int
		if err := rows.Scan(&date, &count); err != nil {
			r.logger.Warn("Failed to scan daily entry row", zap.Error(err))
			continue
		}
		entries[date] = count
	}
	return entries, rows.Err()
}

// WeekdayBuckets tallies first-entries-of-day into a Sunday-first weekday x
// time-bucket matrix for the whole population.
func (r *VisitRepository) WeekdayBuckets(ctx context.Context, year int) ([7][6]int, error) {
	var buckets [7][6]int

	query := fmt.Sprintf(`
		SELECT EXTRACT(DOW FROM f.first_entry)::int,
		       EXTRACT(HOUR FROM f.first_entry)::int,
		       COUNT(*)
		FROM (
			SELECT MIN(a.entered_at AT TIME ZONE '%s') AS first_entry
			FROM access_log a
			WHERE a.granted
			  AND EXTRACT(YEAR FROM a.entered_at AT TIME ZONE '%s') = $1
			GROUP BY a.member_id, (a.entered_at AT TIME ZONE '%s')::date
		) f
		GROUP BY 1, 2
	`, shopTZ, shopTZ, shopTZ)

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return buckets, errors.NewProviderError("failed to query weekday buckets", "visits", "weekday_buckets", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dow, hour, count int
		if err := rows.Scan(&dow, &hour, &count); err != nil {
			r.logger.Warn("Failed to scan weekday bucket row", zap.Error(err))
			continue
		}
		if dow < 0 || dow > 6 {
			continue
		}
		buckets[dow][domain.BucketIndexForHour(hour)] += count
	}
	return buckets, rows.Err()
}

// CountMembersAbove counts active members with strictly more visit days than
// the given value in the year.
func (r *VisitRepository) CountMembersAbove(ctx context.Context, year int, visitDays int) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM (
			SELECT a.member_id
			FROM access_log a
			JOIN members m ON m.id = a.member_id
			WHERE a.granted
			  AND EXTRACT(YEAR FROM a.entered_at AT TIME ZONE '%s') = $1
			  AND %s
			GROUP BY a.member_id
			HAVING COUNT(DISTINCT (a.entered_at AT TIME ZONE '%s')::date) > $2
		) ahead
	`, shopTZ, activeMemberCond, shopTZ)

	var count int
	if err := r.db.QueryRowContext(ctx, query, year, visitDays).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count members above visit days", "visits", "count_above", err)
	}
	return count, nil
}

// TopVisitors returns the visit-day leaderboard for a year, active members
// only, excluding the reserved system account.
func (r *VisitRepository) TopVisitors(ctx context.Context, year int, limit int, excludeMemberID int64) ([]domain.LeaderboardEntry, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.display_name, m.photo_url,
		       COUNT(DISTINCT (a.entered_at AT TIME ZONE '%s')::date) AS visit_days
		FROM access_log a
		JOIN members m ON m.id = a.member_id
		WHERE a.granted
		  AND EXTRACT(YEAR FROM a.entered_at AT TIME ZONE '%s') = $1
		  AND m.id <> $2
		  AND %s
		GROUP BY m.id, m.display_name, m.photo_url
		ORDER BY visit_days DESC, m.id
		LIMIT $3
	`, shopTZ, shopTZ, activeMemberCond)

	rows, err := r.db.QueryContext(ctx, query, year, excludeMemberID, limit)
	if err != nil {
		return nil, errors.NewProviderError("failed to query top visitors", "visits", "top_visitors", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows, r.logger)
}
