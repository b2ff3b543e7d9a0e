package provider

import (
	"context"
	"database/sql"

	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/service/database"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// EventRepository reads workshop/event registrations.
type EventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewEventRepository(postgres *database.PostgresService, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// Attendance returns the events a member registered for or attended in a
// year, most recent first. Test events are excluded.
func (r *EventRepository) Attendance(ctx context.Context, memberID int64, year int) (domain.EventAttendance, error) {
	query := `
		SELECT e.title
		FROM event_registrations reg
		JOIN events e ON e.id = reg.event_id
		WHERE reg.member_id = $1
		  AND reg.status IN ('registered', 'attended')
		  AND NOT e.is_test
		  AND EXTRACT(YEAR FROM e.starts_at) = $2
		ORDER BY e.starts_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, memberID, year)
	if err != nil {
		return domain.EventAttendance{Titles: []string{}}, errors.NewProviderError("failed to query attendance", "events", "attendance", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			r.logger.Warn("Failed to scan event row", zap.Error(err))
			continue
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return domain.EventAttendance{Titles: []string{}}, err
	}

	return domain.EventAttendance{Count: len(titles), Titles: titles}, nil
}

// WorkshopsHeld counts non-test workshops that started in the year.
func (r *EventRepository) WorkshopsHeld(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM events e
		WHERE e.is_workshop
		  AND NOT e.is_test
		  AND EXTRACT(YEAR FROM e.starts_at) = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count workshops", "events", "workshops_held", err)
	}
	return count, nil
}

// WorkshopRegistrations counts registrations across all workshops in the year.
func (r *EventRepository) WorkshopRegistrations(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM event_registrations reg
		JOIN events e ON e.id = reg.event_id
		WHERE e.is_workshop
		  AND NOT e.is_test
		  AND reg.status IN ('registered', 'attended')
		  AND EXTRACT(YEAR FROM e.starts_at) = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count workshop registrations", "events", "workshop_registrations", err)
	}
	return count, nil
}
