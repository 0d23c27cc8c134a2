// Package script asks an LLM to write the narration for a digest.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/core"
)

var errEmptyScript = errors.New("model returned an empty script")

// Options tune the script completion call
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Generator implements core.ScriptWriter
type Generator struct {
	llm    core.LLMClient
	opts   Options
	logger *zap.Logger
}

// NewGenerator creates a new script generator backed by llm
func NewGenerator(llm core.LLMClient, opts Options, logger *zap.Logger) *Generator {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{llm: llm, opts: opts, logger: logger}
}

// Generate writes the narration script. mode must already be resolved to
// morning or evening.
func (g *Generator) Generate(
	ctx context.Context,
	emails []core.EmailSummary,
	calendar []core.CalendarSummary,
	mode core.Mode,
	now time.Time,
) (string, error) {
	if mode != core.ModeMorning && mode != core.ModeEvening {
		return "", &core.ScriptGenerationError{Err: fmt.Errorf("%w: %q is not a concrete mode", core.ErrInvalidMode, mode)}
	}

	style := StyleFor(mode, now.Weekday())
	system, user := BuildPrompt(emails, calendar, mode, style)

	g.logger.Debug("Requesting narration script",
		zap.String("mode", string(mode)),
		zap.Int("emails", len(emails)),
		zap.Int("events", len(calendar)))

	text, err := g.llm.Complete(ctx, system, user, core.CompletionOptions{
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
	})
	if err != nil {
		return "", &core.ScriptGenerationError{Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &core.ScriptGenerationError{Err: errEmptyScript}
	}
	return text, nil
}
