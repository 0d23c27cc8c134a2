package inbox

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/mute"
	"github.com/mikey/inbox-radio/internal/ports"
)

// Defaults for mail fetching
const (
	DefaultMaxResults   = 8
	DefaultLookbackDays = 3
)

// FetchOptions control one fetch of digest inputs
type FetchOptions struct {
	// Mode must already be resolved to morning or evening
	Mode         core.Mode
	Now          time.Time
	MaxResults   int
	LookbackDays int
}

// Fetcher gathers raw mail and events from the configured sources
type Fetcher struct {
	mail     ports.MailSource
	calendar ports.CalendarSource
	mute     *mute.Checker
	logger   *zap.Logger
}

// NewFetcher creates a new fetcher. Either source may be nil.
func NewFetcher(mail ports.MailSource, calendar ports.CalendarSource, muteChecker *mute.Checker, logger *zap.Logger) *Fetcher {
	if muteChecker == nil {
		muteChecker = mute.NewChecker(nil, logger)
	}
	return &Fetcher{
		mail:     mail,
		calendar: calendar,
		mute:     muteChecker,
		logger:   logger,
	}
}

// Fetch returns unread mail from the lookback window and the events of the
// mode's calendar window. A message that cannot be retrieved is logged and
// skipped; listing failures are returned.
func (f *Fetcher) Fetch(ctx context.Context, opts FetchOptions) ([]core.RawEmail, []core.RawCalendarEvent, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}

	emails, err := f.fetchMail(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	var events []core.RawCalendarEvent
	if f.calendar != nil {
		start, end := CalendarWindow(opts.Mode, opts.Now)
		events, err = f.calendar.ListEvents(ctx, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch calendar events: %w", err)
		}
	}

	f.logger.Info("Fetched digest inputs",
		zap.String("mode", string(opts.Mode)),
		zap.Int("emails", len(emails)),
		zap.Int("events", len(events)))
	return emails, events, nil
}

func (f *Fetcher) fetchMail(ctx context.Context, opts FetchOptions) ([]core.RawEmail, error) {
	if f.mail == nil {
		return nil, nil
	}

	since := opts.Now.AddDate(0, 0, -opts.LookbackDays)
	refs, err := f.mail.ListUnread(ctx, opts.MaxResults, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread mail: %w", err)
	}

	emails := make([]core.RawEmail, 0, len(refs))
	for _, ref := range refs {
		email, err := f.mail.GetFull(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.logger.Warn("Skipping message that could not be fetched",
				zap.String("email_id", ref),
				zap.Error(err))
			continue
		}
		if email == nil {
			f.logger.Warn("Skipping message with no content", zap.String("email_id", ref))
			continue
		}
		if from := fromHeader(email); f.mute.IsMuted(from) {
			f.logger.Debug("Dropping message from muted sender",
				zap.String("email_id", ref),
				zap.String("from", from))
			continue
		}
		emails = append(emails, *email)
	}
	return emails, nil
}

// FilterMuted drops messages whose sender is muted
func (f *Fetcher) FilterMuted(emails []core.RawEmail) []core.RawEmail {
	out := make([]core.RawEmail, 0, len(emails))
	for i := range emails {
		if !f.mute.IsMuted(fromHeader(&emails[i])) {
			out = append(out, emails[i])
		}
	}
	return out
}

func fromHeader(email *core.RawEmail) string {
	for _, h := range email.Payload.Headers {
		if strings.EqualFold(h.Name, "From") {
			return h.Value
		}
	}
	return ""
}
