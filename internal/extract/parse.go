package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/mikey/inbox-radio/internal/core"
)

// wrapperKey is the object key a model may wrap the summary array under
const wrapperKey = "emails"

// ParseSummaries decodes a model response into summaries. The response must
// be a JSON array or an object holding an array under "emails"; any other
// shape is an *core.ExtractionFormatError. Prose around the JSON is ignored.
func ParseSummaries(raw string) ([]core.EmailSummary, error) {
	data := bytes.TrimSpace([]byte(stripCodeFence(raw)))
	if len(data) == 0 {
		return nil, &core.ExtractionFormatError{Reason: "empty response", Raw: raw}
	}
	if data[0] != '[' && data[0] != '{' {
		if embedded := embeddedJSON(data); embedded != nil {
			data = embedded
		}
	}

	switch data[0] {
	case '[':
		return decodeArray(data, raw)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, &core.ExtractionFormatError{Reason: "invalid JSON object: " + err.Error(), Raw: raw}
		}
		inner, ok := obj[wrapperKey]
		if !ok {
			return nil, &core.ExtractionFormatError{Reason: `object has no "emails" key`, Raw: raw}
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) == 0 || inner[0] != '[' {
			return nil, &core.ExtractionFormatError{Reason: `"emails" is not an array`, Raw: raw}
		}
		return decodeArray(inner, raw)
	default:
		return nil, &core.ExtractionFormatError{Reason: "response is not a JSON array or object", Raw: raw}
	}
}

func decodeArray(data []byte, raw string) ([]core.EmailSummary, error) {
	var summaries []core.EmailSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, &core.ExtractionFormatError{Reason: "invalid summary array: " + err.Error(), Raw: raw}
	}
	if summaries == nil {
		summaries = []core.EmailSummary{}
	}
	return summaries, nil
}

// embeddedJSON returns the span from the first '[' or '{' to the last
// matching closer, or nil when the text holds no such span.
func embeddedJSON(data []byte) []byte {
	start := bytes.IndexAny(data, "[{")
	if start < 0 {
		return nil
	}
	closer := byte(']')
	if data[start] == '{' {
		closer = '}'
	}
	end := bytes.LastIndexByte(data, closer)
	if end <= start {
		return nil
	}
	return data[start : end+1]
}

// stripCodeFence removes a surrounding markdown code fence, if any
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
