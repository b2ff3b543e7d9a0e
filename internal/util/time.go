package util

import "time"

// The space is in New Haven; all visit bucketing happens in shop-local time.
var shopLocation *time.Location

func init() {
	var err error
	shopLocation, err = time.LoadLocation("America/New_York")
	if err != nil {
		shopLocation = time.FixedZone("EST", -5*60*60)
	}
}

func ToShopTime(t time.Time) time.Time {
	return t.In(shopLocation)
}

// YearRange returns the inclusive start and exclusive end of a calendar year
// in shop-local time.
func YearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, shopLocation)
	return start, start.AddDate(1, 0, 0)
}
