package core

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects the narration framing of a digest
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeMorning Mode = "morning"
	ModeEvening Mode = "evening"
)

// DefaultEveningCutoffHour is the local hour from which auto resolves to evening
const DefaultEveningCutoffHour = 17

// ParseMode validates a caller-supplied mode. An empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeMorning:
		return ModeMorning, nil
	case ModeEvening:
		return ModeEvening, nil
	default:
		return "", fmt.Errorf("%w: %q (expected auto, morning or evening)", ErrInvalidMode, s)
	}
}

// ResolveMode turns auto into a concrete mode using the wall clock
func ResolveMode(mode Mode, now time.Time, cutoffHour int) Mode {
	if mode != ModeAuto && mode != "" {
		return mode
	}
	if now.Hour() >= cutoffHour {
		return ModeEvening
	}
	return ModeMorning
}
