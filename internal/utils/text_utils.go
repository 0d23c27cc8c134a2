package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// TextProcessor provides utilities for processing text
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextProcessor{
		logger: logger,
	}
}

// Truncate cuts text to at most maxRunes characters without splitting a
// multi-byte sequence. A non-positive limit disables truncation.
func (tp *TextProcessor) Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	n := 0
	for i := range text {
		if n == maxRunes {
			tp.logger.Debug("Text truncated",
				zap.Int("original_runes", utf8.RuneCountInString(text)),
				zap.Int("max_runes", maxRunes))
			return text[:i]
		}
		n++
	}
	return text
}

// Limit applies the two-step length rule used for message bodies: text longer
// than rawLimit runes is first cut to prefix runes.
func (tp *TextProcessor) Limit(text string, rawLimit, prefix int) string {
	if rawLimit > 0 && utf8.RuneCountInString(text) > rawLimit {
		return tp.Truncate(text, prefix)
	}
	return text
}

// SanitizeUTF8 drops invalid byte sequences and normalizes to NFC
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if !utf8.ValidString(text) {
		cleaned := strings.ToValidUTF8(text, "")
		tp.logger.Debug("Text sanitized",
			zap.Int("original_size", len(text)),
			zap.Int("sanitized_size", len(cleaned)))
		text = cleaned
	}
	return norm.NFC.String(text)
}

// ProcessText sanitizes and then truncates text in one operation
func (tp *TextProcessor) ProcessText(text string, maxRunes int) string {
	return tp.Truncate(tp.SanitizeUTF8(text), maxRunes)
}
