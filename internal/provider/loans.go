package provider

import (
	"context"
	"database/sql"

	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/service/database"
	"github.com/makehaven/yearreview/internal/util"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// LoanRepository reads the lending library transaction log.
type LoanRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewLoanRepository(postgres *database.PostgresService, logger *zap.Logger) *LoanRepository {
	return &LoanRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// LoanCount counts a member's borrows within the year. borrowed_on is a plain
// date column, so the comparison is by date bounds.
func (r *LoanRepository) LoanCount(ctx context.Context, memberID int64, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM library_loans l
		WHERE l.member_id = $1
		  AND l.borrowed_on >= $2
		  AND l.borrowed_on < $3
	`

	yearStart, yearEnd := util.YearRange(year)
	start := yearStart.Format("2006-01-02")
	end := yearEnd.Format("2006-01-02")

	var count int
	if err := r.db.QueryRowContext(ctx, query, memberID, start, end).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count loans", "loans", "loan_count", err)
	}
	return count, nil
}

// MonthlyHistory returns the full lending history as a month-keyed series
// ("2006-01"). The community builder clips it to the target year.
func (r *LoanRepository) MonthlyHistory(ctx context.Context) ([]domain.MonthlyCount, error) {
	query := `
		SELECT to_char(l.borrowed_on, 'YYYY-MM') AS month, COUNT(*)
		FROM library_loans l
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewProviderError("failed to query lending history", "loans", "monthly_history", err)
	}
	defer rows.Close()

	var series []domain.MonthlyCount
	for rows.Next() {
		var mc domain.MonthlyCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			r.logger.Warn("Failed to scan lending history row", zap.Error(err))
			continue
		}
		series = append(series, mc)
	}
	return series, rows.Err()
}
