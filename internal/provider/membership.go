package provider

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/makehaven/yearreview/internal/domain"
	"github.com/makehaven/yearreview/internal/service/database"
	"github.com/makehaven/yearreview/pkg/errors"
	"go.uber.org/zap"
)

// MembershipRepository reads member accounts, profiles, and the active-member
// population.
type MembershipRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewMembershipRepository(postgres *database.PostgresService, logger *zap.Logger) *MembershipRepository {
	return &MembershipRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// Profile loads the raw profile row for a member. Returns nil when the member
// does not exist.
func (r *MembershipRepository) Profile(ctx context.Context, memberID int64) (*domain.MemberProfile, error) {
	query := `
		SELECT m.id, m.display_name, m.created_at, m.photo_url, p.join_date,
		       COALESCE(ARRAY(SELECT g.goal FROM member_goals g WHERE g.member_id = m.id ORDER BY g.goal), '{}'),
		       COALESCE(ARRAY(SELECT i.interest FROM member_interests i WHERE i.member_id = m.id ORDER BY i.interest), '{}')
		FROM members m
		LEFT JOIN member_profiles p ON p.member_id = m.id
		WHERE m.id = $1
		LIMIT 1
	`

	var (
		profile   domain.MemberProfile
		photoURL  sql.NullString
		joinDate  sql.NullTime
		goals     pq.StringArray
		interests pq.StringArray
	)

	err := r.db.QueryRowContext(ctx, query, memberID).Scan(
		&profile.MemberID, &profile.DisplayName, &profile.Created,
		&photoURL, &joinDate, &goals, &interests,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewProviderError("failed to query member profile", "membership", "profile", err)
	}

	if photoURL.Valid {
		profile.PhotoURL = &photoURL.String
	}
	if joinDate.Valid {
		d := joinDate.Time
		profile.JoinDate = &d
	}
	profile.GoalKeys = goals
	profile.Interests = interests

	return &profile, nil
}

// CountActiveMembers sizes the active population used for rank context.
func (r *MembershipRepository) CountActiveMembers(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM members m
		WHERE %s
	`, activeMemberCond)

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count active members", "membership", "count_active", err)
	}
	return count, nil
}

// ActiveMemberIDs lists the active population, in id order so a re-run walks
// members in the same sequence.
func (r *MembershipRepository) ActiveMemberIDs(ctx context.Context) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT m.id
		FROM members m
		WHERE %s
		ORDER BY m.id
	`, activeMemberCond)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewProviderError("failed to query active members", "membership", "active_ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			r.logger.Warn("Failed to scan member id", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsActive reports whether a single member is in the active population.
func (r *MembershipRepository) IsActive(ctx context.Context, memberID int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM members m
			WHERE m.id = $1 AND %s
		)
	`, activeMemberCond)

	var active bool
	if err := r.db.QueryRowContext(ctx, query, memberID).Scan(&active); err != nil {
		return false, errors.NewProviderError("failed to query member active state", "membership", "is_active", err)
	}
	return active, nil
}

// CountJoinedBefore counts active members whose effective join date is
// strictly earlier than the given date. Members with a declared join date
// compare by that date; members without one compare by their account-creation
// day. The two cases must not be conflated, hence the per-member COALESCE.
func (r *MembershipRepository) CountJoinedBefore(ctx context.Context, effectiveJoin time.Time) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM members m
		LEFT JOIN member_profiles p ON p.member_id = m.id
		WHERE COALESCE(p.join_date, m.created_at::date) < $1::date
		  AND %s
	`, activeMemberCond)

	var count int
	if err := r.db.QueryRowContext(ctx, query, effectiveJoin.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count earlier joins", "membership", "joined_before", err)
	}
	return count, nil
}

// NewJoins counts members whose effective join date falls in the year.
func (r *MembershipRepository) NewJoins(ctx context.Context, year int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM members m
		LEFT JOIN member_profiles p ON p.member_id = m.id
		WHERE EXTRACT(YEAR FROM COALESCE(p.join_date, m.created_at::date)) = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&count); err != nil {
		return 0, errors.NewProviderError("failed to count new joins", "membership", "new_joins", err)
	}
	return count, nil
}
