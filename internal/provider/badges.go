package provider

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/service/database"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// BadgeRepository reads earned tool badges.
type BadgeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewBadgeRepository(postgres *database.PostgresService, logger *zap.Logger) *BadgeRepository {
	return &BadgeRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// Titles returns the badges a member earned in a year, in award order.
func (r *BadgeRepository) Titles(ctx context.Context, memberID int64, year int) ([]string, error) {
	query := `
		SELECT b.title
		FROM badge_awards b
		WHERE b.member_id = $1
		  AND EXTRACT(YEAR FROM b.awarded_at) = $2
		ORDER BY b.awarded_at
	`

	rows, err := r.db.QueryContext(ctx, query, memberID, year)
	if err != nil {
		return nil, errors.NewProviderError("failed to query badges", "badges", "titles", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			r.logger.Warn("Failed to scan badge row", zap.Error(err))
			continue
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// CountMembersAbove counts active members who earned strictly more badges
// than the given value in the year.
func (r *BadgeRepository) CountMembersAbove(ctx context.Context, year int, badgeCount int) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM (
			SELECT b.member_id
			FROM badge_awards b
			JOIN members m ON m.id = b.member_id
			WHERE EXTRACT(YEAR FROM b.awarded_at) = $1
			  AND %s
			GROUP BY b.member_id
			HAVING COUNT(*) > $2
		) ahead
	`, activeMemberCond)

	var count int
	if err := r.db.QueryRowContext(ctx, query, year, badgeCount).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count members above badges", "badges", "count_above", err)
	}
	return count, nil
}

// PerMemberCounts returns one badge count per member that earned at least one
// badge in the year. The engine buckets these into the distribution histogram.
func (r *BadgeRepository) PerMemberCounts(ctx context.Context, year int) ([]int, error) {
	query := `
		SELECT COUNT(*)
		FROM badge_awards b
		WHERE EXTRACT(YEAR FROM b.awarded_at) = $1
		GROUP BY b.member_id
	`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, errors.NewProviderError("failed to query badge distribution", "badges", "per_member_counts", err)
	}
	defer rows.Close()

	var counts []int
	for rows.Next() {
		var count int
		if err := rows.Scan(&count); err != nil {
			r.logger.Warn("Failed to scan badge count row", zap.Error(err))
			continue
		}
		counts = append(counts, count)
	}
	return counts, rows.Err()
}

// MonthlyIssuance returns badge awards per month for the year.
func (r *BadgeRepository) MonthlyIssuance(ctx context.Context, year int) (domain.MonthlySeries, error) {
	var series domain.MonthlySeries

	query := `
		SELECT EXTRACT(MONTH FROM b.awarded_at)::int, COUNT(*)
		FROM badge_awards b
		WHERE EXTRACT(YEAR FROM b.awarded_at) = $1
		GROUP BY 1
	`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return series, errors.NewProviderError("failed to query monthly issuance", "badges", "monthly_issuance", err)
	}
	defer rows.Close()

	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			r.logger.Warn("Failed to scan monthly issuance row", zap.Error(err))
			continue
		}
		if month >= 1 && month <= 12 {
			series[month-1] = count
		}
	}
	return series, rows.Err()
}

// TotalEarned counts all badge awards in the year.
func (r *BadgeRepository) TotalEarned(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM badge_awards b
		WHERE EXTRACT(YEAR FROM b.awarded_at) = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count badges earned", "badges", "total_earned", err)
	}
	return count, nil
}

// TopEarners returns the badge leaderboard for a year, active members only,
// excluding the reserved system account.
func (r *BadgeRepository) TopEarners(ctx context.Context, year int, limit int, excludeMemberID int64) ([]domain.LeaderboardEntry, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.display_name, m.photo_url, COUNT(*) AS badges
		FROM badge_awards b
		JOIN members m ON m.id = b.member_id
		WHERE EXTRACT(YEAR FROM b.awarded_at) = $1
		  AND m.id <> $2
		  AND %s
		GROUP BY m.id, m.display_name, m.photo_url
		ORDER BY badges DESC, m.id
		LIMIT $3
	`, activeMemberCond)

	rows, err := r.db.QueryContext(ctx, query, year, excludeMemberID, limit)
	if err != nil {
		return nil, errors.NewProviderError("failed to query top earners", "badges", "top_earners", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows, r.logger)
}

// TopEarnersAllTime is the all-history badge leaderboard.
func (r *BadgeRepository) TopEarnersAllTime(ctx context.Context, limit int, excludeMemberID int64) ([]domain.LeaderboardEntry, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.display_name, m.photo_url, COUNT(*) AS badges
		FROM badge_awards b
		JOIN members m ON m.id = b.member_id
		WHERE m.id <> $1
		  AND %s
		GROUP BY m.id, m.display_name, m.photo_url
		ORDER BY badges DESC, m.id
		LIMIT $2
	`, activeMemberCond)

	rows, err := r.db.QueryContext(ctx, query, excludeMemberID, limit)
	if err != nil {
		return nil, errors.NewProviderError("failed to query all-time top earners", "badges", "top_earners_all_time", err)
	}
	defer rows.Close()

	return scanLeaderboard(rows, r.logger)
}
