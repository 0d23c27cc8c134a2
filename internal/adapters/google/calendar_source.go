package google

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mikey/inbox-radio/internal/core"
)

// CalendarSource reads events from Google Calendar
type CalendarSource struct {
	srv        *calendar.Service
	calendarID string
	logger     *zap.Logger
}

// NewCalendarSource creates a Google Calendar source authorized with a bearer token
func NewCalendarSource(ctx context.Context, accessToken, calendarID string, logger *zap.Logger, opts ...option.ClientOption) (*CalendarSource, error) {
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}
	return NewCalendarSourceFromService(srv, calendarID, logger), nil
}

// NewCalendarSourceFromService wraps an existing Calendar service
func NewCalendarSourceFromService(srv *calendar.Service, calendarID string, logger *zap.Logger) *CalendarSource {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &CalendarSource{srv: srv, calendarID: calendarID, logger: logger}
}

// ListEvents lists single events in the window ordered by start time
func (s *CalendarSource) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]core.RawCalendarEvent, error) {
	resp, err := s.srv.Events.List(s.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list calendar events: %w", err)
	}

	events := make([]core.RawCalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item != nil {
			events = append(events, ConvertEvent(item))
		}
	}
	s.logger.Debug("Listed calendar events",
		zap.String("calendar_id", s.calendarID),
		zap.Time("time_min", timeMin),
		zap.Time("time_max", timeMax),
		zap.Int("count", len(events)))
	return events, nil
}

// ConvertEvent maps a Calendar API event onto a RawCalendarEvent
func ConvertEvent(e *calendar.Event) core.RawCalendarEvent {
	ev := core.RawCalendarEvent{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Status:      e.Status,
		Start:       convertTime(e.Start),
		End:         convertTime(e.End),
	}
	for _, a := range e.Attendees {
		if a == nil {
			continue
		}
		ev.Attendees = append(ev.Attendees, core.Attendee{
			Email:          a.Email,
			DisplayName:    a.DisplayName,
			ResponseStatus: a.ResponseStatus,
		})
	}
	return ev
}

func convertTime(t *calendar.EventDateTime) core.EventTime {
	if t == nil {
		return core.EventTime{}
	}
	return core.EventTime{DateTime: t.DateTime, Date: t.Date, TimeZone: t.TimeZone}
}
