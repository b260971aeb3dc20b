package utils

import (
	"log"
	"time"
)

// DateLayout is the calendar-day key used on attendance records.
const DateLayout = "2006-01-02"

// LoadOrgLocation loads the organizational timezone. Attendance days are
// bucketed in this zone, never in the server host timezone.
func LoadOrgLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️ Unknown timezone %q, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// DateKey returns the local calendar date for t in the given zone.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
