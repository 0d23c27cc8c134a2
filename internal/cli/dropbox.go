package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/smtpinbox"
	"github.com/mikey/inbox-radio/internal/core"
	"github.com/mikey/inbox-radio/internal/inbox"
	"github.com/mikey/inbox-radio/internal/ports"
)

// dropboxDigest turns the unread mail of an SMTP drop-box into digest files
type dropboxDigest struct {
	mailbox    *smtpinbox.Mailbox
	fetcher    *inbox.Fetcher
	runner     ports.DigestRunner
	opts       core.RunOptions
	cutoffHour int
	maxResults int
	outputDir  string
	now        func() time.Time
	logger     *zap.Logger
}

// Run digests the current unread mail and marks it read. It returns the
// base path of the written files, or "" when there was nothing to read.
func (d *dropboxDigest) Run(ctx context.Context) (string, error) {
	now := d.now()
	mode := core.ResolveMode(d.opts.Mode, now, d.cutoffHour)

	emails, _, err := d.fetcher.Fetch(ctx, inbox.FetchOptions{
		Mode:       mode,
		Now:        now,
		MaxResults: d.maxResults,
	})
	if err != nil {
		return "", err
	}
	if len(emails) == 0 {
		d.logger.Info("No unread drop-box mail", zap.Int("stored", d.mailbox.Len()))
		return "", nil
	}
	d.logger.Info("Digesting drop-box mail",
		zap.Int("unread", len(emails)),
		zap.Int("stored", d.mailbox.Len()))

	opts := d.opts
	opts.Mode = mode
	res, err := d.runner.RunDigest(ctx, emails, nil, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	base := filepath.Join(d.outputDir, fmt.Sprintf("digest-%s-%s", now.Format("20060102-150405"), mode))
	text, err := os.Create(base + ".md")
	if err != nil {
		return "", fmt.Errorf("failed to create digest file: %w", err)
	}
	defer text.Close()

	paths := outputPaths{Audio: base + ".mp3", Script: base + ".txt", JSON: base + ".json"}
	if err := writeOutputs(text, res, paths, now, d.logger); err != nil {
		return "", err
	}

	ids := make([]string, 0, len(emails))
	for _, e := range emails {
		ids = append(ids, e.ID)
	}
	d.mailbox.MarkRead(ids...)

	d.logger.Info("Drop-box digest written",
		zap.String("run_id", res.RunID),
		zap.String("path", base),
		zap.Int("emails", len(ids)))
	return base, nil
}
