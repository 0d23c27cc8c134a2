package script

import (
	"time"

	"github.com/mikey/inbox-radio/internal/core"
)

// Style holds the framing phrases that differ between digest modes
type Style struct {
	Greeting        string
	Tone            string
	EmailFraming    string
	CalendarFraming string
	Closing         string
}

// StyleFor returns the narration style for a concrete mode. Evening framing
// depends on the day: Friday looks ahead to the weekend and Monday, the
// weekend looks ahead to Monday, other evenings look ahead to tomorrow.
func StyleFor(mode core.Mode, weekday time.Weekday) Style {
	if mode != core.ModeEvening {
		return Style{
			Greeting:        "Good morning",
			Tone:            "warm, upbeat and energizing, like a friendly assistant getting you ready for the day",
			EmailFraming:    "Here's what's waiting in your inbox this morning",
			CalendarFraming: "Looking at your day",
			Closing:         "That's your morning brief, you're set to go.",
		}
	}

	style := Style{
		Greeting:     "Good evening",
		Tone:         "calm, reflective and unhurried, helping you wind down from the day",
		EmailFraming: "Here's what came in today that still needs you",
	}
	switch weekday {
	case time.Friday:
		style.CalendarFraming = "Looking ahead to the weekend and to Monday"
		style.Closing = "That's a wrap on the week. Enjoy your weekend."
	case time.Saturday, time.Sunday:
		style.CalendarFraming = "Looking ahead to Monday"
		style.Closing = "Enjoy the rest of your weekend, Monday will be here soon."
	default:
		style.CalendarFraming = "Looking ahead to tomorrow"
		style.Closing = "That's your evening wrap-up. Rest up for tomorrow."
	}
	return style
}
