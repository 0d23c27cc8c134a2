package normalize

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/spoken"
)

const (
	untitledEvent = "Untitled Event"
	allDay        = "all day"
	clockLayout   = "3:04 PM"
	dateLayout    = "2006-01-02"
)

// EventNormalizer implements core.EventNormalizer
type EventNormalizer struct {
	location *time.Location
	logger   *zap.Logger
}

// NewEventNormalizer creates an event normalizer that renders times in loc
func NewEventNormalizer(loc *time.Location, logger *zap.Logger) *EventNormalizer {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventNormalizer{location: loc, logger: logger}
}

// NormalizeEvent converts a raw event into its spoken display record
func (n *EventNormalizer) NormalizeEvent(raw *core.RawCalendarEvent) (core.CalendarSummary, error) {
	if raw == nil {
		return core.CalendarSummary{}, errors.New("nil event")
	}
	start, startAllDay, err := n.parseTime(raw.Start)
	if err != nil {
		return core.CalendarSummary{}, fmt.Errorf("invalid start of event %q: %w", raw.ID, err)
	}

	summary := core.CalendarSummary{
		Title:    raw.Summary,
		Location: raw.Location,
	}
	if summary.Title == "" {
		summary.Title = untitledEvent
	}

	if startAllDay {
		summary.Time = allDay
	} else {
		summary.Time = spoken.Clock(start.Format(clockLayout))
	}

	if end, _, err := n.parseTime(raw.End); err == nil {
		minutes := int(math.Round(end.Sub(start).Minutes()))
		summary.Duration = spoken.Duration(max(minutes, 0))
	} else {
		n.logger.Debug("Event has no usable end time",
			zap.String("event_id", raw.ID),
			zap.Error(err))
	}

	for _, a := range raw.Attendees {
		name := a.DisplayName
		if name == "" {
			name = a.Email
		}
		if name != "" {
			summary.Attendees = append(summary.Attendees, name)
		}
	}
	return summary, nil
}

// parseTime prefers the date-time field and falls back to the all-day date
func (n *EventNormalizer) parseTime(et core.EventTime) (time.Time, bool, error) {
	if et.DateTime != "" {
		t, err := time.Parse(time.RFC3339, et.DateTime)
		if err != nil {
			return time.Time{}, false, err
		}
		return t.In(n.location), false, nil
	}
	if et.Date != "" {
		t, err := time.ParseInLocation(dateLayout, et.Date, n.location)
		if err != nil {
			return time.Time{}, true, err
		}
		return t, true, nil
	}
	return time.Time{}, false, errors.New("no date or time")
}
