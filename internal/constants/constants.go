package constants

import "time"

// Closed-year member stats are immutable, so they can live for a long time;
// the community rollup absorbs new data daily.
var CacheTTL = struct {
	MemberStats     time.Duration
	CommunityReport time.Duration
}{
	MemberStats:     365 * 24 * time.Hour,
	CommunityReport: 24 * time.Hour,
}

var Prewarm = struct {
	ProgressInterval int
}{
	ProgressInterval: 50,
}

var Aggregate = struct {
	ProviderConcurrency int
}{
	ProviderConcurrency: 5,
}

var CacheKeys = struct {
	MemberStatsPrefix string
	CommunityPrefix   string
	TagPrefix         string
}{
	MemberStatsPrefix: "yir:member:",
	CommunityPrefix:   "yir:community:",
	TagPrefix:         "yir:tag:",
}

// Invalidation tags tied to the underlying content categories.
var CacheTags = struct {
	Badges       string
	Events       string
	Appointments string
	Profiles     string
}{
	Badges:       "badges",
	Events:       "events",
	Appointments: "appointments",
	Profiles:     "profiles",
}
