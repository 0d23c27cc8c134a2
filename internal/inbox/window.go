package inbox

import (
	"time"

	"github.com/mikey/inbox-radio/internal/core"
)

// CalendarWindow returns the [start, end) range of events a digest covers.
// Morning covers today. Evening covers the next day, and on Fridays and
// Saturdays runs through the end of Monday.
func CalendarWindow(mode core.Mode, now time.Time) (time.Time, time.Time) {
	day := func(offset int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()+offset, 0, 0, 0, 0, now.Location())
	}

	if mode != core.ModeEvening {
		return day(0), day(1)
	}

	switch now.Weekday() {
	case time.Friday:
		return day(1), day(4)
	case time.Saturday:
		return day(1), day(3)
	default:
		return day(1), day(2)
	}
}
