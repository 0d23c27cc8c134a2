// Package extract asks an LLM to score and summarize a batch of emails.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

// Options tune the extraction completion call
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Extractor implements core.SummaryExtractor
type Extractor struct {
	llm    core.LLMClient
	opts   Options
	logger *zap.Logger
}

// NewExtractor creates a new extractor backed by llm
func NewExtractor(llm core.LLMClient, opts Options, logger *zap.Logger) *Extractor {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{llm: llm, opts: opts, logger: logger}
}

// Extract summarizes every email with a single completion call
func (e *Extractor) Extract(ctx context.Context, emails []core.NormalizedEmail) ([]core.EmailSummary, error) {
	if len(emails) == 0 {
		return []core.EmailSummary{}, nil
	}

	system, user := BuildPrompt(emails)
	e.logger.Debug("Requesting email extraction",
		zap.Int("emails", len(emails)),
		zap.Int("prompt_length", len(user)))

	resp, err := e.llm.Complete(ctx, system, user, core.CompletionOptions{
		MaxTokens:   e.opts.MaxTokens,
		Temperature: e.opts.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, &core.ExtractionError{Err: err}
	}

	summaries, err := ParseSummaries(resp)
	if err != nil {
		e.logger.Error("Failed to parse extraction response",
			zap.Error(err),
			zap.String("response", resp))
		return nil, err
	}

	e.logger.Debug("Extracted email summaries",
		zap.Int("emails", len(emails)),
		zap.Int("summaries", len(summaries)))
	return summaries, nil
}
