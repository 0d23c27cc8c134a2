package normalize

import (
	"encoding/base64"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikey/inbox-radio/internal/core"
)

const (
	mimeTextPlain = "text/plain"
	mimeTextHTML  = "text/html"
)

// bodySource records which rule produced the body text
type bodySource string

const (
	sourceInline  bodySource = "inline"
	sourcePlain   bodySource = "text/plain"
	sourceHTML    bodySource = "text/html"
	sourceSnippet bodySource = "snippet"
	sourceNone    bodySource = "none"
)

// extractBody finds the most useful text in a message. The inline payload
// body wins, then the first text/plain part, then the first text/html part,
// then the snippet. Parts whose data cannot be decoded are passed over.
func extractBody(payload *core.MessagePart, snippet string) (string, bodySource) {
	if payload.Body.Data != "" {
		if text, ok := decodePart(payload); ok && strings.TrimSpace(text) != "" {
			return text, sourceInline
		}
	}

	if text, ok := findPart(payload.Parts, mimeTextPlain); ok {
		return text, sourcePlain
	}
	if text, ok := findPart(payload.Parts, mimeTextHTML); ok {
		return text, sourceHTML
	}
	if snippet != "" {
		return snippet, sourceSnippet
	}
	return "", sourceNone
}

// findPart walks the part tree depth first and returns the decoded text of
// the first part with the given MIME type and a non-empty body.
func findPart(parts []core.MessagePart, mimeType string) (string, bool) {
	for i := range parts {
		part := &parts[i]
		if baseMimeType(part.MimeType) == mimeType && part.Body.Data != "" {
			if text, ok := decodePart(part); ok && strings.TrimSpace(text) != "" {
				return text, true
			}
		}
		if text, ok := findPart(part.Parts, mimeType); ok {
			return text, true
		}
	}
	return "", false
}

func decodePart(part *core.MessagePart) (string, bool) {
	data, ok := decodeBase64(part.Body.Data)
	if !ok {
		return "", false
	}
	if baseMimeType(part.MimeType) == mimeTextHTML {
		return htmlToText(data), true
	}
	return data, true
}

// decodeBase64 accepts base64url with or without padding, and standard base64
func decodeBase64(data string) (string, bool) {
	data = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, data)
	trimmed := strings.TrimRight(data, "=")

	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.RawStdEncoding} {
		if b, err := enc.DecodeString(trimmed); err == nil {
			return string(b), true
		}
	}
	return "", false
}

func baseMimeType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

var blockSelectors = "p, div, li, tr, h1, h2, h3, h4, h5, h6, blockquote, table"

// htmlToText strips markup and decodes entities, keeping block boundaries
// as line breaks
func htmlToText(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	doc.Find("script, style, head, title").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return strings.TrimSpace(doc.Text())
}
