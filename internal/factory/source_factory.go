package factory

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/google"
	"github.com/mikey/inbox-radio/internal/config"
)

// ErrNoAccessToken is returned when the Google sources are requested without a token
var ErrNoAccessToken = errors.New("google access token is required")

// SourceFactory creates the Gmail and Calendar sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailSource creates a Gmail mail source
func (f *SourceFactory) CreateMailSource(ctx context.Context) (*google.MailSource, error) {
	googleCfg := f.cfg.GetGoogle()
	if googleCfg.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return google.NewMailSource(ctx, googleCfg.AccessToken, googleCfg.Query, f.logger)
}

// CreateCalendarSource creates a Google Calendar source
func (f *SourceFactory) CreateCalendarSource(ctx context.Context) (*google.CalendarSource, error) {
	googleCfg := f.cfg.GetGoogle()
	if googleCfg.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return google.NewCalendarSource(ctx, googleCfg.AccessToken, googleCfg.CalendarID, f.logger)
}
