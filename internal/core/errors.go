package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoProviderConfigured is returned when no TTS credential is available
	ErrNoProviderConfigured = errors.New("no TTS provider configured: set ELEVEN_LABS_KEY or OPENAI_API_KEY")
	// ErrInvalidMode is returned for digest modes other than auto, morning and evening
	ErrInvalidMode = errors.New("invalid digest mode")
)

// NormalizationWarning records one input item that was skipped
type NormalizationWarning struct {
	ItemID string
	Err    error
}

func (w *NormalizationWarning) Error() string {
	return fmt.Sprintf("skipped item %q: %v", w.ItemID, w.Err)
}

func (w *NormalizationWarning) Unwrap() error { return w.Err }

// ExtractionError is returned when the extraction LLM call fails
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("email extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractionFormatError is returned when the extraction response is not a JSON array
type ExtractionFormatError struct {
	Reason string
	Raw    string
}

func (e *ExtractionFormatError) Error() string {
	return "extraction response is not a JSON array of summaries: " + e.Reason
}

// ScriptGenerationError is returned when the narration script cannot be produced
type ScriptGenerationError struct {
	Err error
}

func (e *ScriptGenerationError) Error() string {
	return fmt.Sprintf("script generation failed: %v", e.Err)
}

func (e *ScriptGenerationError) Unwrap() error { return e.Err }

// TTSProviderError is returned when a speech backend rejects or fails a request
type TTSProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TTSProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s TTS error (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s TTS error: %v", e.Provider, e.Err)
}

func (e *TTSProviderError) Unwrap() error { return e.Err }

// RunError is the terminal failure of a digest run
type RunError struct {
	Stage Stage
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("digest run failed at %s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
