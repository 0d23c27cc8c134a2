package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/inbox-radio/internal/core"
)

func TestNormalizeEvent(t *testing.T) {
	n := NewEventNormalizer(time.UTC, zaptest.NewLogger(t))

	tests := []struct {
		name string
		raw  core.RawCalendarEvent
		want core.CalendarSummary
	}{
		{
			name: "half hour meeting",
			raw: core.RawCalendarEvent{
				ID:      "e1",
				Summary: "Design review",
				Start:   core.EventTime{DateTime: "2024-03-04T14:00:00Z"},
				End:     core.EventTime{DateTime: "2024-03-04T14:30:00Z"},
				Attendees: []core.Attendee{
					{Email: "ann@example.com", DisplayName: "Ann"},
					{Email: "ben@example.com"},
				},
				Location: "Room 2",
			},
			want: core.CalendarSummary{
				Title:     "Design review",
				Time:      "two",
				Duration:  "30 minutes",
				Attendees: []string{"Ann", "ben@example.com"},
				Location:  "Room 2",
			},
		},
		{
			name: "two hour block",
			raw: core.RawCalendarEvent{
				ID:      "e2",
				Summary: "Workshop",
				Start:   core.EventTime{DateTime: "2024-03-04T09:00:00Z"},
				End:     core.EventTime{DateTime: "2024-03-04T11:00:00Z"},
			},
			want: core.CalendarSummary{Title: "Workshop", Time: "nine", Duration: "2 hours"},
		},
		{
			name: "offset converted to location",
			raw: core.RawCalendarEvent{
				ID:      "e3",
				Summary: "Sync",
				Start:   core.EventTime{DateTime: "2024-03-04T12:45:00-02:00"},
				End:     core.EventTime{DateTime: "2024-03-04T14:00:00-02:00"},
			},
			want: core.CalendarSummary{Title: "Sync", Time: "two forty-five", Duration: "1 hour and 15 minutes"},
		},
		{
			name: "noon and untitled",
			raw: core.RawCalendarEvent{
				ID:    "e4",
				Start: core.EventTime{DateTime: "2024-03-04T12:00:00Z"},
				End:   core.EventTime{DateTime: "2024-03-04T12:20:00Z"},
			},
			want: core.CalendarSummary{Title: "Untitled Event", Time: "noon", Duration: "20 minutes"},
		},
		{
			name: "all day",
			raw: core.RawCalendarEvent{
				ID:      "e5",
				Summary: "Offsite",
				Start:   core.EventTime{Date: "2024-03-04"},
				End:     core.EventTime{Date: "2024-03-05"},
			},
			want: core.CalendarSummary{Title: "Offsite", Time: "all day", Duration: "24 hours"},
		},
		{
			name: "missing end",
			raw: core.RawCalendarEvent{
				ID:      "e6",
				Summary: "Call",
				Start:   core.EventTime{DateTime: "2024-03-04T08:05:00Z"},
			},
			want: core.CalendarSummary{Title: "Call", Time: "eight oh-five"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.NormalizeEvent(&tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeEventInvalidStart(t *testing.T) {
	n := NewEventNormalizer(time.UTC, nil)

	_, err := n.NormalizeEvent(&core.RawCalendarEvent{ID: "bad", Start: core.EventTime{DateTime: "yesterday"}})
	assert.Error(t, err)

	_, err = n.NormalizeEvent(&core.RawCalendarEvent{ID: "empty"})
	assert.Error(t, err)

	_, err = n.NormalizeEvent(nil)
	assert.Error(t, err)
}
