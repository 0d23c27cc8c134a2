package core

import (
	"context"
	"time"
)

// CompletionOptions tune a single chat completion
type CompletionOptions struct {
	MaxTokens   int
	Temperature float32
	JSONMode    bool
}

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Complete sends a system and user prompt and returns the model's text
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error)
}

// TTSProvider converts speech-ready text into audio
type TTSProvider interface {
	// Name identifies the backend in logs and errors
	Name() string

	// Synthesize returns encoded audio; voiceID may be empty
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// EmailNormalizer maps a raw message onto its canonical form
type EmailNormalizer interface {
	NormalizeEmail(raw *RawEmail) (NormalizedEmail, error)
}

// EventNormalizer maps a raw calendar event onto its spoken display form
type EventNormalizer interface {
	NormalizeEvent(raw *RawCalendarEvent) (CalendarSummary, error)
}

// SummaryExtractor scores and summarizes a batch of emails
type SummaryExtractor interface {
	Extract(ctx context.Context, emails []NormalizedEmail) ([]EmailSummary, error)
}

// ScriptWriter produces the narration script for a resolved mode
type ScriptWriter interface {
	Generate(ctx context.Context, emails []EmailSummary, calendar []CalendarSummary, mode Mode, now time.Time) (string, error)
}

// SpeechFormatter turns script markup into speech-ready text
type SpeechFormatter interface {
	ToSpeechText(script string) string
}

// RunObserver receives stage timings and run outcomes
type RunObserver interface {
	ObserveStage(stage Stage, elapsed time.Duration, err error)
	ObserveRun(status string)
	ObserveWarning(stage Stage)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(Stage, time.Duration, error) {}
func (nopObserver) ObserveRun(string)                        {}
func (nopObserver) ObserveWarning(Stage)                     {}
