package domain

// CommunityStats are the population-wide headline counts for a year.
type CommunityStats struct {
	TotalJoins            int `json:"total_joins"`
	WorkshopsHeld         int `json:"workshops_held"`
	WorkshopRegistrations int `json:"workshop_registrations"`
	Appointments          int `json:"appointments"`
	ToolLoans             int `json:"tool_loans"`
	BadgesEarned          int `json:"badges_earned"`
	TotalVisits           int `json:"total_visits"`
}

// BadgeBucket is one bar of the "members by badges earned" histogram.
type BadgeBucket struct {
	Label   string `json:"label"`
	Members int    `json:"members"`
}

// MonthlySeries is a January-first twelve-month count series.
type MonthlySeries [12]int

// WeekdayTimeBuckets is the Monday-first weekday x time-of-day visit matrix.
// The six columns follow the persona time bucket order.
type WeekdayTimeBuckets [7][6]int

// HeatmapConfig carries the axis labels and scale for rendering the weekday
// matrix. Built for visualization, not classification.
type HeatmapConfig struct {
	WeekdayLabels [7]string `json:"weekday_labels"`
	BucketLabels  [6]string `json:"bucket_labels"`
	MaxValue      int       `json:"max_value"`
}

// LeaderboardEntry is one row of a community leaderboard.
type LeaderboardEntry struct {
	MemberID    int64   `json:"member_id"`
	DisplayName string  `json:"display_name"`
	Count       int     `json:"count"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

// CommunityCharts groups the distribution and time-series blocks.
type CommunityCharts struct {
	Heatmap              HeatmapConfig      `json:"heatmap_config"`
	BadgeDistribution    []BadgeBucket      `json:"badge_distribution"`
	MonthlyBadgeIssuance MonthlySeries      `json:"monthly_badge_issuance"`
	MonthlyVisits        MonthlySeries      `json:"monthly_visits"`
	WeekdayTimeBuckets   WeekdayTimeBuckets `json:"weekday_time_buckets"`
}

// CommunityLeaderboards are the top-N lists, active members only.
type CommunityLeaderboards struct {
	BadgesThisYear []LeaderboardEntry `json:"badges_this_year"`
	VisitsThisYear []LeaderboardEntry `json:"visits_this_year"`
	BadgesAllTime  []LeaderboardEntry `json:"badges_all_time"`
}

// CommunityYearReport is the cached population-wide rollup for one year.
type CommunityYearReport struct {
	Year         int                   `json:"year"`
	Stats        CommunityStats        `json:"stats"`
	Charts       CommunityCharts       `json:"charts"`
	Leaderboards CommunityLeaderboards `json:"leaderboards"`
}

// MonthlyCount is one point of the lending-history series, keyed "2006-01".
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}
