package report

import (
	"fmt"
	"math"
)

// Delta renders a year-over-year change as a signed integer percentage.
// A prior year of zero is special-cased: going from nothing to something is
// capped at "+100%" rather than dividing by zero, and nothing-to-nothing is
// "0%". Positive results carry a "+" prefix; zero and negatives do not.
// The exact rounding and sign policy is user-facing and must not change.
func Delta(current, previous int) string {
	if previous == 0 {
		if current > 0 {
			return "+100%"
		}
		return "0%"
	}

	percent := int(math.Round(float64(current-previous) / float64(previous) * 100))
	if percent > 0 {
		return fmt.Sprintf("+%d%%", percent)
	}
	return fmt.Sprintf("%d%%", percent)
}
