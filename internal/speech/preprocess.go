// Package speech rewrites narration markup into text a speech engine reads well.
package speech

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mikey/inbox-radio/internal/spoken"
)

// PauseStrategy selects how a long pause is rendered
type PauseStrategy string

const (
	// PauseParagraph renders a long pause as a blank line
	PauseParagraph PauseStrategy = "paragraph"
	// PauseEllipsis renders a long pause as an ellipsis
	PauseEllipsis PauseStrategy = "ellipsis"
)

// ParsePauseStrategy validates a configured strategy name. Empty means paragraph.
func ParsePauseStrategy(s string) (PauseStrategy, error) {
	switch PauseStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PauseParagraph:
		return PauseParagraph, nil
	case PauseEllipsis:
		return PauseEllipsis, nil
	default:
		return "", fmt.Errorf("unknown pause strategy %q (expected paragraph or ellipsis)", s)
	}
}

var (
	longPause      = regexp.MustCompile(`(?i)\[\s*pause\s*:\s*long\s*\]`)
	shortPause     = regexp.MustCompile(`(?i)\[\s*pause\s*:\s*short\s*\]`)
	emphasis       = regexp.MustCompile(`\*([^*\n]+?)\*`)
	stageDirection = regexp.MustCompile(`(?i)\((warm|brighter|matter-of-fact|quick smile|soft|energetic)\)[ \t]*,?[ \t]*`)
	meridiemClock  = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m\b`)
	hourClock      = regexp.MustCompile(`\b(\d{1,2}):00\b`)
	spaceRuns      = regexp.MustCompile(`[ \t]+`)
	lineEdges      = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
	spaceBefore    = regexp.MustCompile(`[ \t]+([,.!?])`)
	spacedRepeat   = regexp.MustCompile(`([,.…])([ \t]*[,.…])+`)
	tightRepeat    = regexp.MustCompile(`([,.—…])[,.—…]+`)
	leadingComma   = regexp.MustCompile(`(?m)^[,.][ \t]*`)
	openParagraph  = regexp.MustCompile(`([\p{L}\p{N})\]])\n\n`)
)

// Preprocessor implements core.SpeechFormatter
type Preprocessor struct {
	Strategy PauseStrategy
	// TerminalPunctuation adds a period to paragraphs that end without one
	TerminalPunctuation bool
}

// NewPreprocessor creates a preprocessor with terminal punctuation enabled
func NewPreprocessor(strategy PauseStrategy) *Preprocessor {
	if strategy == "" {
		strategy = PauseParagraph
	}
	return &Preprocessor{Strategy: strategy, TerminalPunctuation: true}
}

// ToSpeechText converts pause markers, emphasis and stray clock times into
// plain punctuation and words. Applying it to its own output changes nothing.
func (p *Preprocessor) ToSpeechText(script string) string {
	text := strings.ReplaceAll(script, "\r\n", "\n")

	long := "\n\n"
	if p.Strategy == PauseEllipsis {
		long = "… "
	}
	text = longPause.ReplaceAllLiteralString(text, long)
	text = shortPause.ReplaceAllLiteralString(text, ", ")
	text = emphasis.ReplaceAllString(text, "— $1 —")
	text = stageDirection.ReplaceAllString(text, "($1), ")
	text = spokenClocks(text)

	text = spaceRuns.ReplaceAllString(text, " ")
	text = lineEdges.ReplaceAllString(text, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")

	text = spaceBefore.ReplaceAllString(text, "$1")
	text = spacedRepeat.ReplaceAllString(text, "$1")
	text = tightRepeat.ReplaceAllString(text, "$1")
	text = leadingComma.ReplaceAllString(text, "")

	if p.TerminalPunctuation {
		text = openParagraph.ReplaceAllString(text, "$1.\n\n")
	}
	return strings.TrimSpace(text)
}

// spokenClocks rewrites "2:30 PM", "9am" and bare "14:00" as words
func spokenClocks(text string) string {
	text = meridiemClock.ReplaceAllStringFunc(text, func(m string) string {
		parts := meridiemClock.FindStringSubmatch(m)
		clock := parts[1]
		if parts[2] != "" {
			clock += ":" + parts[2]
		}
		hour, minute, ok := spoken.ParseClock(clock + " " + parts[3] + "m")
		if !ok {
			return m
		}
		return spoken.Time(hour, minute)
	})
	return hourClock.ReplaceAllStringFunc(text, func(m string) string {
		hour, err := strconv.Atoi(strings.TrimSuffix(m, ":00"))
		if err != nil || hour > 23 {
			return m
		}
		return spoken.Time(hour, 0)
	})
}
