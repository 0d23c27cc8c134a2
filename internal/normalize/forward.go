package normalize

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/mikey/inbox-radio/internal/core"
)

var (
	forwardSubject   = regexp.MustCompile(`(?i)^\s*(fwd?|forwarded)\s*:`)
	namedAddress     = regexp.MustCompile(`^\s*"?([^"<]*?)"?\s*<([^>]+)>\s*$`)
	forwardedBlock   = regexp.MustCompile(`(?i)-{2,}\s*forwarded message\s*-{2,}`)
	fromLine         = regexp.MustCompile(`(?im)^[\s*>]*from:\**\s*(.+?)\s*$`)
	originallySentBy = regexp.MustCompile(`(?im)^[\s*>]*originally sent by:\**\s*(.+?)\s*$`)
)

// IsForwardedSubject reports whether a subject carries a forwarding prefix
func IsForwardedSubject(subject string) bool {
	return forwardSubject.MatchString(subject)
}

// detectForward derives forwarding details from the subject, the sender and
// the available text. texts are scanned in order for an original sender line.
func detectForward(subject, from string, headers []core.Header, texts ...string) core.ForwardInfo {
	if !IsForwardedSubject(subject) {
		return core.ForwardInfo{}
	}
	info := core.ForwardInfo{
		IsForwarded: true,
		ForwardedBy: DisplayName(from),
	}

	for _, name := range []string{"X-Original-Sender", "X-Forwarded-For"} {
		if v := headerValue(headers, name); v != "" {
			info.OriginalSender = DisplayName(v)
			return info
		}
	}
	for _, text := range texts {
		if sender := scanOriginalSender(text); sender != "" {
			info.OriginalSender = sender
			return info
		}
	}
	return info
}

func scanOriginalSender(text string) string {
	if text == "" {
		return ""
	}
	if loc := forwardedBlock.FindStringIndex(text); loc != nil {
		if m := fromLine.FindStringSubmatch(text[loc[1]:]); m != nil {
			return DisplayName(m[1])
		}
	}
	if m := originallySentBy.FindStringSubmatch(text); m != nil {
		return DisplayName(m[1])
	}
	if m := fromLine.FindStringSubmatch(text); m != nil {
		return DisplayName(m[1])
	}
	return ""
}

// DisplayName reduces an address header value to something a person would
// say: the display name of "Name <addr>", the local part of a bare address,
// or the trimmed input.
func DisplayName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if m := namedAddress.FindStringSubmatch(value); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
		value = m[2]
	}
	if addr, err := mail.ParseAddress(value); err == nil {
		if addr.Name != "" {
			return addr.Name
		}
		value = addr.Address
	}
	if at := strings.IndexByte(value, '@'); at > 0 && !strings.ContainsAny(value, " \t") {
		return value[:at]
	}
	return value
}

// headerValue returns the first header matching name case-insensitively
func headerValue(headers []core.Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
