package timeutil

import (
	"time"
)

// Paris is the Europe/Paris location (CET/CEST)
var Paris *time.Location

func init() {
	var err error
	Paris, err = time.LoadLocation("Europe/Paris")
	if err != nil {
		// Fallback: fixed CET if tzdata is not available
		Paris = time.FixedZone("CET", 1*60*60)
	}
}

// Now returns the current time in Paris time
func Now() time.Time {
	return time.Now().In(Paris)
}

// ToParis converts any time to Paris time
func ToParis(t time.Time) time.Time {
	return t.In(Paris)
}

// CurrentYear returns the calendar year used for invoice numbering
func CurrentYear() int {
	return Now().Year()
}

// StartOfDay returns the start of day (00:00:00) in Paris time for the given time
func StartOfDay(t time.Time) time.Time {
	p := t.In(Paris)
	return time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, Paris)
}

// Common layouts for display formatting
const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04"
)
