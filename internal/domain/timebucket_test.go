package domain

import "testing"

func TestBucketIndexForHour(t *testing.T) {
	want := map[int]string{
		0:  "Night Owl",
		4:  "Night Owl",
		5:  "Early Bird",
		8:  "Early Bird",
		9:  "Morning Maker",
		11: "Morning Maker",
		12: "Lunch Crew",
		13: "Lunch Crew",
		14: "Afternoon Artisan",
		17: "Afternoon Artisan",
		18: "Evening Regular",
		21: "Evening Regular",
		22: "Night Owl",
		23: "Night Owl",
	}

	for hour, label := range want {
		got := TimeBuckets[BucketIndexForHour(hour)].Label
		if got != label {
			t.Errorf("hour %d = %q, want %q", hour, got, label)
		}
	}
}

func TestBucketsCoverAllHours(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		idx := BucketIndexForHour(hour)
		if idx < 0 || idx >= len(TimeBuckets) {
			t.Fatalf("hour %d mapped to out-of-range bucket %d", hour, idx)
		}
	}
}
