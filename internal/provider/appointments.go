package provider

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/makehaven/yearreview/internal/service/database"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// AppointmentRepository reads volunteer/help appointments.
type AppointmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewAppointmentRepository(postgres *database.PostgresService, logger *zap.Logger) *AppointmentRepository {
	return &AppointmentRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// Count counts a member's appointments in the year.
func (r *AppointmentRepository) Count(ctx context.Context, memberID int64, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments ap
		WHERE ap.member_id = $1
		  AND EXTRACT(YEAR FROM ap.scheduled_at) = $2
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, memberID, year).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count appointments", "appointments", "count", err)
	}
	return count, nil
}

// CountMembersAbove counts active members with strictly more appointments
// than the given value in the year.
func (r *AppointmentRepository) CountMembersAbove(ctx context.Context, year int, appointments int) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM (
			SELECT ap.member_id
			FROM appointments ap
			JOIN members m ON m.id = ap.member_id
			WHERE EXTRACT(YEAR FROM ap.scheduled_at) = $1
			  AND %s
			GROUP BY ap.member_id
			HAVING COUNT(*) > $2
		) ahead
	`, activeMemberCond)

	var count int
	if err := r.db.QueryRowContext(ctx, query, year, appointments).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count members above appointments", "appointments", "count_above", err)
	}
	return count, nil
}

// TotalForYear counts all appointments across the population for the year.
func (r *AppointmentRepository) TotalForYear(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments ap
		WHERE EXTRACT(YEAR FROM ap.scheduled_at) = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count yearly appointments", "appointments", "total_for_year", err)
	}
	return count, nil
}
