package ports

import (
	"context"
	"time"

	"github.com/mikey/inbox-radio/internal/core"
)

// MailSource defines the interface for reading unread mail
type MailSource interface {
	// ListUnread returns references to at most max unread messages newer than since
	ListUnread(ctx context.Context, max int, since time.Time) ([]string, error)

	// GetFull retrieves one message with its complete MIME tree
	GetFull(ctx context.Context, ref string) (*core.RawEmail, error)
}
