package report

import (
	"time"

	"github.com/makehaven/yearreview/internal/domain"
)

// visitHistogram tallies a member's first-entry-of-day times into the six
// fixed local-time buckets, plus the weekend share of visit days.
type visitHistogram struct {
	buckets      [6]int
	visitDays    int
	weekendDays  int
	weekendRatio float64
}

func buildVisitHistogram(firstEntries []time.Time) visitHistogram {
	var h visitHistogram
	for _, entry := range firstEntries {
		h.buckets[domain.BucketIndexForHour(entry.Hour())]++
		h.visitDays++
		if wd := entry.Weekday(); wd == time.Saturday || wd == time.Sunday {
			h.weekendDays++
		}
	}
	if h.visitDays > 0 {
		h.weekendRatio = float64(h.weekendDays) / float64(h.visitDays)
	}
	return h
}

type personaRule struct {
	matches func(stats domain.MemberYearStats, h visitHistogram) bool
	result  domain.PersonaResult
}

// personaRules is a priority chain, not a scoring system: the first match
// wins and everything below it, including the histogram fallback, is skipped.
var personaRules = []personaRule{
	{
		matches: func(s domain.MemberYearStats, _ visitHistogram) bool {
			return s.BadgeCount() >= 8
		},
		result: domain.PersonaResult{
			Label:       "Master Badge Earner",
			Description: "You collected tool badges like they were going out of style. Few members unlock this much equipment in a single year.",
			Icon:        "🏅",
			Range:       "8+ badges earned",
		},
	},
	{
		matches: func(s domain.MemberYearStats, _ visitHistogram) bool {
			return s.EventCount >= 10
		},
		result: domain.PersonaResult{
			Label:       "Workshop Enthusiast",
			Description: "If there was a class, you were in it. You made the workshop calendar your own.",
			Icon:        "🎓",
			Range:       "10+ workshops attended",
		},
	},
	{
		matches: func(s domain.MemberYearStats, h visitHistogram) bool {
			return s.VisitDays >= 5 && h.weekendRatio > 0.6
		},
		result: domain.PersonaResult{
			Label:       "Weekend Warrior",
			Description: "Saturdays and Sundays are your shop days. The weekday crowd barely knows you exist.",
			Icon:        "⚔️",
			Range:       "60%+ weekend visits",
		},
	},
	{
		matches: func(s domain.MemberYearStats, _ visitHistogram) bool {
			return s.LoanCount >= 15
		},
		result: domain.PersonaResult{
			Label:       "Tool Specialist",
			Description: "The lending library is practically your second toolbox.",
			Icon:        "🧰",
			Range:       "15+ tool loans",
		},
	},
}

// ClassifyPersona assigns at most one behavioral persona for the year.
// Returns nil for a member with no activity at all. When no priority rule
// matches, the busiest time-of-day bucket becomes the persona; ties resolve
// to the earlier bucket in declaration order.
func ClassifyPersona(stats domain.MemberYearStats, firstEntries []time.Time) *domain.PersonaResult {
	if !stats.HasActivity() {
		return nil
	}

	h := buildVisitHistogram(firstEntries)

	for _, rule := range personaRules {
		if rule.matches(stats, h) {
			result := rule.result
			return &result
		}
	}

	best := 0
	for i, count := range h.buckets {
		if count > h.buckets[best] {
			best = i
		}
	}
	if h.buckets[best] == 0 {
		// Activity without any recorded visits: nothing to classify on.
		return nil
	}

	bucket := domain.TimeBuckets[best]
	return &domain.PersonaResult{
		Label:       bucket.Label,
		Description: bucket.Description,
		Icon:        bucket.Icon,
		Range:       bucket.Range,
	}
}
