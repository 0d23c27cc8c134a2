// Package spoken renders clock times, durations and small numbers in the
// word form a narrator would read aloud.
package spoken

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ones = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = []string{"", "", "twenty", "thirty", "forty", "fifty"}

// minuteWords covers the five-minute marks
var minuteWords = map[int]string{
	5:  "oh-five",
	10: "ten",
	15: "fifteen",
	20: "twenty",
	25: "twenty-five",
	30: "thirty",
	35: "thirty-five",
	40: "forty",
	45: "forty-five",
	50: "fifty",
	55: "fifty-five",
}

// Number spells out 0-59. Other values are returned as digits.
func Number(n int) string {
	switch {
	case n < 0 || n > 59:
		return strconv.Itoa(n)
	case n < 20:
		return ones[n]
	case n%10 == 0:
		return tens[n/10]
	default:
		return tens[n/10] + "-" + ones[n%10]
	}
}

// Time renders a 24-hour clock reading as narration, without an am/pm marker
func Time(hour, minute int) string {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Sprintf("%d:%02d", hour, minute)
	}
	if minute == 0 {
		switch hour {
		case 12:
			return "noon"
		case 0:
			return "midnight"
		}
	}

	h := hour % 12
	if h == 0 {
		h = 12
	}
	hourWord := ones[h]

	switch {
	case minute == 0:
		return hourWord
	case minuteWords[minute] != "":
		return hourWord + " " + minuteWords[minute]
	case minute < 10:
		return hourWord + " oh-" + ones[minute]
	default:
		return hourWord + " " + Number(minute)
	}
}

var clockPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*([ap])?\.?\s*(m\.?)?\s*$`)

// Clock converts strings like "2:30 PM", "9 AM" or "14:05" to narration.
// Anything it cannot read is returned unchanged.
func Clock(s string) string {
	hour, minute, ok := ParseClock(s)
	if !ok {
		return s
	}
	return Time(hour, minute)
}

// ParseClock reads a 12- or 24-hour clock string into 24-hour fields
func ParseClock(s string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, 0, false
	}

	switch meridiem := strings.ToLower(m[3]); meridiem {
	case "a", "p":
		if hour < 1 || hour > 12 {
			return 0, 0, false
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "p" {
			hour += 12
		}
	default:
		if m[2] == "" || hour > 23 {
			return 0, 0, false
		}
	}
	return hour, minute, true
}

// Duration renders a length of time given in minutes
func Duration(totalMinutes int) string {
	if totalMinutes < 0 {
		return strconv.Itoa(totalMinutes) + " minutes"
	}
	return hoursAndMinutes(totalMinutes/60, totalMinutes%60)
}

func hoursAndMinutes(hours, minutes int) string {
	switch {
	case hours == 0:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes == 0:
		return pluralHours(hours)
	default:
		return fmt.Sprintf("%s and %d minutes", pluralHours(hours), minutes)
	}
}

func pluralHours(n int) string {
	if n == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", n)
}
