package domain

// Metric identifies one of the ranked activity categories.
type Metric string

const (
	MetricVisits Metric = "visits"
	MetricBadges Metric = "badges"
	MetricEvents Metric = "events"
	MetricLoans  Metric = "loans"
)

// MemberYearStats is the unified per-member activity record for one year.
// It is assembled fresh per request and immutable once built.
type MemberYearStats struct {
	MemberID         int64    `json:"member_id"`
	Year             int      `json:"year"`
	VisitDays        int      `json:"visit_days"`
	EventCount       int      `json:"event_count"`
	EventTitles      []string `json:"event_titles"`
	BadgeTitles      []string `json:"badge_titles"`
	LoanCount        int      `json:"loan_count"`
	AppointmentCount int      `json:"appointment_count"`
}

func (s MemberYearStats) BadgeCount() int {
	return len(s.BadgeTitles)
}

// HasActivity reports whether the member did anything at all this year.
func (s MemberYearStats) HasActivity() bool {
	return s.VisitDays > 0 || s.EventCount > 0 || len(s.BadgeTitles) > 0 ||
		s.LoanCount > 0 || s.AppointmentCount > 0
}

// EventAttendance is the event provider's per-member answer.
type EventAttendance struct {
	Count  int      `json:"count"`
	Titles []string `json:"titles"`
}

// DeltaSet holds the user-facing year-over-year change labels.
type DeltaSet struct {
	Visits string `json:"visits"`
	Events string `json:"events"`
	Badges string `json:"badges"`
	Loans  string `json:"loans"`
}

// RankResult is the threshold-bucket rank label. A nil RankResult means the
// member had no activity in that metric and is unranked.
type RankResult struct {
	Label string `json:"label"`
	IsTop bool   `json:"is_top"`
}

// CountingRanks carries the 1-based "you are Nth" ranks against the active
// population. Zero is the sentinel for "no activity, unranked".
type CountingRanks struct {
	Visits       int `json:"visits"`
	Badges       int `json:"badges"`
	Appointments int `json:"appointments"`
}

// RankSet bundles both rank strategies for presentation.
type RankSet struct {
	Visits   *RankResult   `json:"visits"`
	Badges   *RankResult   `json:"badges"`
	Events   *RankResult   `json:"events"`
	Loans    *RankResult   `json:"loans"`
	Counting CountingRanks `json:"counting"`
}

// PersonaResult is the single behavioral label assigned to a member for the
// year. At most one persona per member per request.
type PersonaResult struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Range       string `json:"range"`
}

// MemberReport is the full assembled year-in-review payload for one member.
type MemberReport struct {
	Year    int             `json:"year"`
	Stats   MemberYearStats `json:"stats"`
	Prev    MemberYearStats `json:"prev"`
	Deltas  DeltaSet        `json:"deltas"`
	Ranks   RankSet         `json:"ranks"`
	Persona *PersonaResult  `json:"persona"`
	Profile ProfileInfo     `json:"profile"`
}
