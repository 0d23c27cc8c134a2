package ports

import (
	"context"
	"time"

	"github.com/mikey/inbox-radio/internal/core"
)

// CalendarSource defines the interface for reading calendar events
type CalendarSource interface {
	// ListEvents returns single events starting in [timeMin, timeMax), ordered by start
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]core.RawCalendarEvent, error)
}
