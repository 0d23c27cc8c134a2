package ports

import (
	"context"

	"github.com/mikey/inbox-radio/internal/core"
)

// DigestRunner defines the interface for producing a spoken digest
type DigestRunner interface {
	// RunDigest executes one pipeline run over already fetched inputs
	RunDigest(ctx context.Context, emails []core.RawEmail, events []core.RawCalendarEvent, opts core.RunOptions) (*core.DigestResult, error)

	// ProviderName returns the name of the active TTS backend
	ProviderName() string
}
