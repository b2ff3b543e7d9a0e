package domain

import (
	"fmt"
	"math"
	"time"
)

// Goal pairs a stored goal key with its display label.
type Goal struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// goalLabels maps profile goal keys to display labels. Content decision,
// reproduced literally.
var goalLabels = map[string]string{
	"artist":        "Create art",
	"skill_builder": "Build skills",
	"hobbyist":      "Practice a hobby",
	"inventor":      "Develop a prototype/product",
	"entrepreneur":  "Business entrepreneurship",
	"seller":        "Produce products/art to sell",
	"networker":     "Connect with others",
	"other":         "Other",
}

// GoalForKey resolves a stored goal key; unknown keys keep the raw key as label.
func GoalForKey(key string) Goal {
	if label, ok := goalLabels[key]; ok {
		return Goal{Key: key, Label: label}
	}
	return Goal{Key: key, Label: key}
}

// MemberProfile is the raw profile row as the membership provider returns it.
// JoinDate is the profile-declared join date; Created is the account-creation
// fallback used when no date was declared.
type MemberProfile struct {
	MemberID    int64
	DisplayName string
	Created     time.Time
	JoinDate    *time.Time
	GoalKeys    []string
	Interests   []string
	PhotoURL    *string
}

// EffectiveJoinDate applies the documented fallback precedence:
// declared join date, else account creation.
func (p MemberProfile) EffectiveJoinDate() time.Time {
	if p.JoinDate != nil {
		return *p.JoinDate
	}
	return p.Created
}

// ProfileInfo is the presentation-ready profile block of a member report.
type ProfileInfo struct {
	JoinYear        int      `json:"join_year"`
	TenureYears     float64  `json:"tenure_years"`
	TenureLabel     string   `json:"tenure_label"`
	Goals           []Goal   `json:"goals"`
	AreasOfInterest []string `json:"areas_of_interest"`
	SeniorityRank   int      `json:"seniority_rank"`
	TotalMembers    int      `json:"total_members"`
	PhotoURL        *string  `json:"photo_url"`
}

// TenureLabel renders membership length the way the profile page does:
// under a month is "Just joined!", under a year is counted in months,
// everything else in (fractional) years.
func TenureLabel(joined, now time.Time) (float64, string) {
	elapsed := now.Sub(joined)
	years := math.Round(elapsed.Hours()/(365*24)*10) / 10

	if years < 1 {
		months := int(math.Round(elapsed.Hours() / (30 * 24)))
		if months < 1 {
			return years, "Just joined!"
		}
		return years, fmt.Sprintf("%d Months", months)
	}
	return years, fmt.Sprintf("%g Years", years)
}
