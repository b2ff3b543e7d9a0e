package report

import (
	"context"
	"time"

	"github.com/makehaven/yearreview/internal/domain"
	"go.uber.org/zap"
)

// ProfileBuilder assembles the presentation-ready profile block: tenure,
// goals, and seniority against the active population.
type ProfileBuilder struct {
	membership MembershipProvider
	ranks      *RankEstimator
	logger     *zap.Logger
	now        func() time.Time
}

func NewProfileBuilder(membership MembershipProvider, ranks *RankEstimator, logger *zap.Logger) *ProfileBuilder {
	return &ProfileBuilder{
		membership: membership,
		ranks:      ranks,
		logger:     logger,
		now:        time.Now,
	}
}

// Build degrades to a zero ProfileInfo rather than failing the report when
// profile data is unavailable.
func (b *ProfileBuilder) Build(ctx context.Context, memberID int64) domain.ProfileInfo {
	info := domain.ProfileInfo{
		Goals:           []domain.Goal{},
		AreasOfInterest: []string{},
	}

	profile, err := b.membership.Profile(ctx, memberID)
	if err != nil || profile == nil {
		if err != nil {
			b.logger.Warn("Profile lookup failed",
				zap.Int64("member_id", memberID), zap.Error(err))
		}
		return info
	}

	if total, err := b.membership.CountActiveMembers(ctx); err != nil {
		b.logger.Warn("Active member count failed", zap.Error(err))
	} else {
		info.TotalMembers = total
	}

	joined := profile.EffectiveJoinDate()
	info.JoinYear = joined.Year()
	info.TenureYears, info.TenureLabel = domain.TenureLabel(joined, b.now())
	info.SeniorityRank = b.ranks.SeniorityRank(ctx, *profile)
	info.PhotoURL = profile.PhotoURL

	for _, key := range profile.GoalKeys {
		info.Goals = append(info.Goals, domain.GoalForKey(key))
	}
	info.AreasOfInterest = append(info.AreasOfInterest, profile.Interests...)

	return info
}
