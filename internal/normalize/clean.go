package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mikey/inbox-radio/internal/utils"
)

// CleanOptions bound how much text survives cleaning
type CleanOptions struct {
	// RawLimit is the length above which content is cut to RawPrefix before cleaning
	RawLimit  int
	RawPrefix int
	// MaxContent caps the cleaned result
	MaxContent int
}

// DefaultCleanOptions returns the standard cleaning limits
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{RawLimit: 3000, RawPrefix: 1000, MaxContent: 600}
}

const (
	minCleanedLength = 20
	minRawLength     = 50
	fallbackPrefix   = 200
)

var signatureContains = []string{
	"sent from my iphone",
	"sent from my ipad",
	"sent from my android",
	"sent from my phone",
	"sent from my mobile",
	"get outlook for ios",
	"get outlook for android",
	"confidential and proprietary",
	"if you no longer wish to receive",
	"unsubscribe",
	"please consider the environment before printing",
}

var closingLine = regexp.MustCompile(`^(thanks?|thank you|many thanks|cheers|best|best regards?|kind regards?|warm regards?|regards|sincerely|sincerely yours?|yours truly)\s*[,!.]?\s*$`)

var leakedHeaders = []string{"from:", "to:", "sent:", "date:", "subject:", "cc:", "bcc:", "reply-to:"}

var (
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	spaceRuns   = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
)

// Cleaner strips quoted replies, signatures and other boilerplate from a
// message body
type Cleaner struct {
	opts CleanOptions
	tp   *utils.TextProcessor
}

// NewCleaner creates a cleaner. Zero option fields fall back to defaults.
func NewCleaner(opts CleanOptions, tp *utils.TextProcessor) *Cleaner {
	def := DefaultCleanOptions()
	if opts.RawLimit <= 0 {
		opts.RawLimit = def.RawLimit
	}
	if opts.RawPrefix <= 0 {
		opts.RawPrefix = def.RawPrefix
	}
	if opts.MaxContent <= 0 {
		opts.MaxContent = def.MaxContent
	}
	if tp == nil {
		tp = utils.NewTextProcessor(nil)
	}
	return &Cleaner{opts: opts, tp: tp}
}

// Clean returns the readable part of a raw message body
func (c *Cleaner) Clean(raw string) string {
	if raw == "" {
		return ""
	}
	content := strings.ReplaceAll(c.tp.SanitizeUTF8(raw), "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = c.tp.Limit(content, c.opts.RawLimit, c.opts.RawPrefix)

	lines := strings.Split(content, "\n")
	kept := lines[:0:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), ">") {
			continue
		}
		kept = append(kept, line)
	}
	kept = kept[:signatureStart(kept)]

	body := make([]string, 0, len(kept))
	for i, line := range kept {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if isLeakedHeader(trimmed) || (trimmed == "" && i < 3) {
			continue
		}
		body = append(body, strings.TrimRight(line, " \t"))
	}

	cleaned := strings.Join(body, "\n")
	cleaned = html.UnescapeString(cleaned)
	cleaned = spaceRuns.ReplaceAllString(cleaned, " ")
	cleaned = blankRuns.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	if utf8.RuneCountInString(cleaned) < minCleanedLength && utf8.RuneCountInString(content) > minRawLength {
		cleaned = c.firstSentences(content)
	}
	return c.tp.ProcessText(cleaned, c.opts.MaxContent)
}

// signatureStart returns the index of the first signature or footer line, or
// len(lines) if there is none
func signatureStart(lines []string) int {
	for i, line := range lines {
		l := strings.ToLower(strings.TrimSpace(line))
		if l == "--" {
			return i
		}
		if strings.Contains(l, "©") && strings.Contains(l, "all rights reserved") {
			return i
		}
		if closingLine.MatchString(l) {
			return i
		}
		for _, marker := range signatureContains {
			if strings.Contains(l, marker) {
				return i
			}
		}
	}
	return len(lines)
}

func isLeakedHeader(line string) bool {
	for _, h := range leakedHeaders {
		if strings.HasPrefix(line, h) {
			return true
		}
	}
	return false
}

// firstSentences recovers the opening of over-cleaned content
func (c *Cleaner) firstSentences(content string) string {
	parts := sentenceEnd.Split(content, -1)
	var sentences []string
	for _, p := range parts {
		if s := strings.Join(strings.Fields(p), " "); s != "" {
			sentences = append(sentences, s)
		}
		if len(sentences) == 2 {
			break
		}
	}
	if len(sentences) < 2 {
		return strings.TrimSpace(c.tp.Truncate(content, fallbackPrefix))
	}
	return strings.Join(sentences, ". ") + "."
}
