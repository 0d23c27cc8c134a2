// Package normalize turns raw provider messages and calendar events into the
// canonical records the digest pipeline works on.
package normalize

import (
	"errors"
	"net/mail"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

// LabelUnread marks a message the user has not read
const LabelUnread = "UNREAD"

// ErrMalformedMessage is returned for messages that cannot be identified
var ErrMalformedMessage = errors.New("malformed message")

// EmailNormalizer implements core.EmailNormalizer
type EmailNormalizer struct {
	cleaner *Cleaner
	logger  *zap.Logger
}

// NewEmailNormalizer creates a new email normalizer
func NewEmailNormalizer(cleaner *Cleaner, logger *zap.Logger) *EmailNormalizer {
	if cleaner == nil {
		cleaner = NewCleaner(DefaultCleanOptions(), nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailNormalizer{cleaner: cleaner, logger: logger}
}

// NormalizeEmail converts a raw message into its canonical form
func (n *EmailNormalizer) NormalizeEmail(raw *core.RawEmail) (core.NormalizedEmail, error) {
	if raw == nil {
		return core.NormalizedEmail{}, ErrMalformedMessage
	}
	if raw.ID == "" {
		return core.NormalizedEmail{}, errors.Join(ErrMalformedMessage, errors.New("message has no id"))
	}

	headers := raw.Payload.Headers
	from := headerValue(headers, "From")
	subject := headerValue(headers, "Subject")

	text, source := extractBody(&raw.Payload, raw.Snippet)
	body := n.cleaner.Clean(text)

	n.logger.Debug("Normalized email",
		zap.String("email_id", raw.ID),
		zap.String("body_source", string(source)),
		zap.Int("raw_length", len(text)),
		zap.Int("clean_length", len(body)))

	return core.NormalizedEmail{
		ID:       raw.ID,
		From:     from,
		To:       headerValue(headers, "To"),
		Subject:  subject,
		Body:     body,
		Date:     messageDate(raw),
		Snippet:  raw.Snippet,
		IsUnread: slices.Contains(raw.LabelIDs, LabelUnread),
		Forward:  detectForward(subject, from, headers, text, raw.Snippet),
	}, nil
}

func messageDate(raw *core.RawEmail) time.Time {
	if raw.InternalDate > 0 {
		return time.UnixMilli(raw.InternalDate)
	}
	if d := headerValue(raw.Payload.Headers, "Date"); d != "" {
		if t, err := mail.ParseDate(d); err == nil {
			return t
		}
	}
	return time.Time{}
}
