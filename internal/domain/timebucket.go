package domain

// TimeBucket is one of the six fixed local-time windows used for persona
// classification and the weekday heatmap. End is exclusive; a bucket whose
// Start exceeds its End wraps past midnight.
type TimeBucket struct {
	Label       string
	Description string
	Icon        string
	Range       string
	Start       int
	End         int
}

// TimeBuckets is declaration-ordered; persona ties resolve to the earlier
// bucket, so the order is part of the contract.
var TimeBuckets = [6]TimeBucket{
	{"Early Bird", "First through the door. Your best work happens before most people find parking.", "🌅", "5am – 9am", 5, 9},
	{"Morning Maker", "Coffee in hand, project on the bench. Mornings are your making hours.", "☕", "9am – 12pm", 9, 12},
	{"Lunch Crew", "You turn the middle of the day into shop time.", "🥪", "12pm – 2pm", 12, 14},
	{"Afternoon Artisan", "The afternoon is when your projects take shape.", "🎨", "2pm – 6pm", 14, 18},
	{"Evening Regular", "After hours is your time. The evening shop crowd knows you well.", "🌆", "6pm – 10pm", 18, 22},
	{"Night Owl", "When the shop goes quiet, you get loud. Late nights are your element.", "🦉", "10pm – 5am", 22, 5},
}

// BucketIndexForHour maps a local-time hour to its time bucket. Hours before
// 5am belong to the wrapped Night Owl window.
func BucketIndexForHour(hour int) int {
	for i, b := range TimeBuckets {
		if b.Start < b.End {
			if hour >= b.Start && hour < b.End {
				return i
			}
		} else if hour >= b.Start || hour < b.End {
			return i
		}
	}
	// Unreachable: the buckets cover all 24 hours.
	return len(TimeBuckets) - 1
}
