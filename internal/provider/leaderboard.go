package provider

import (
	"database/sql"

	"github.com/makehaven/yearreview/internal/domain"
	"go.uber.org/zap"
)

// scanLeaderboard reads (id, display_name, photo_url, count) rows. Rows that
// fail to scan are skipped, not fatal.
func scanLeaderboard(rows *sql.Rows, logger *zap.Logger) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var (
			id       int64
			name     string
			photoURL sql.NullString
			count    int
		)
		if err := rows.Scan(&id, &name, &photoURL, &count); err != nil {
			logger.Warn("Failed to scan leaderboard row", zap.Error(err))
			continue
		}

		entry := domain.LeaderboardEntry{
			MemberID:    id,
			DisplayName: name,
			Count:       count,
		}
		if photoURL.Valid {
			entry.PhotoURL = &photoURL.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
