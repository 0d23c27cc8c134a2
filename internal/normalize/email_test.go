package normalize

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/inbox-radio/internal/core"
)

func enc(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func newNormalizer(t *testing.T) *EmailNormalizer {
	return NewEmailNormalizer(NewCleaner(DefaultCleanOptions(), nil), zaptest.NewLogger(t))
}

func TestNormalizeEmailHeadersAndFlags(t *testing.T) {
	raw := &core.RawEmail{
		ID:       "m1",
		Snippet:  "snippet text",
		LabelIDs: []string{"INBOX", "UNREAD"},
		Payload: core.MessagePart{
			Headers: []core.Header{
				{Name: "FROM", Value: "Bob <bob@example.com>"},
				{Name: "from", Value: "second@example.com"},
				{Name: "Subject", Value: "Quarterly numbers"},
			},
			Body: core.MessageBody{Data: enc("Please review the attached quarterly numbers before Friday.")},
		},
		InternalDate: 1700000000000,
	}

	got, err := newNormalizer(t).NormalizeEmail(raw)
	require.NoError(t, err)

	assert.Equal(t, "m1", got.ID)
	assert.Equal(t, "Bob <bob@example.com>", got.From)
	assert.Equal(t, "", got.To)
	assert.Equal(t, "Quarterly numbers", got.Subject)
	assert.Equal(t, "Please review the attached quarterly numbers before Friday.", got.Body)
	assert.True(t, got.IsUnread)
	assert.True(t, got.Date.Equal(time.UnixMilli(1700000000000)))
	assert.False(t, got.Forward.IsForwarded)
}

func TestNormalizeEmailDateHeaderFallback(t *testing.T) {
	raw := &core.RawEmail{
		ID: "m2",
		Payload: core.MessagePart{Headers: []core.Header{
			{Name: "Date", Value: "Mon, 02 Jan 2006 15:04:05 -0700"},
		}},
	}
	got, err := newNormalizer(t).NormalizeEmail(raw)
	require.NoError(t, err)
	assert.Equal(t, 2006, got.Date.Year())
	assert.False(t, got.IsUnread)
}

func TestNormalizeEmailRejectsMissingID(t *testing.T) {
	n := newNormalizer(t)

	_, err := n.NormalizeEmail(nil)
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = n.NormalizeEmail(&core.RawEmail{})
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestNormalizeEmailForwarded(t *testing.T) {
	raw := &core.RawEmail{
		ID: "fwd",
		Payload: core.MessagePart{
			Headers: []core.Header{
				{Name: "From", Value: "Carol Jones <carol@example.com>"},
				{Name: "Subject", Value: "Fwd: Budget"},
			},
			Body: core.MessageBody{Data: enc("FYI see below.\n\nFrom: Alice Smith\nThe budget is due Thursday.")},
		},
	}

	got, err := newNormalizer(t).NormalizeEmail(raw)
	require.NoError(t, err)

	assert.True(t, got.Forward.IsForwarded)
	assert.Equal(t, "Carol Jones", got.Forward.ForwardedBy)
	assert.Equal(t, "Alice Smith", got.Forward.OriginalSender)
	assert.NotContains(t, got.Body, "From:")
}

func TestDetectForward(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		from     string
		headers  []core.Header
		text     string
		expected core.ForwardInfo
	}{
		{
			name:     "not forwarded",
			subject:  "Lunch?",
			from:     "a@example.com",
			text:     "From: Someone",
			expected: core.ForwardInfo{},
		},
		{
			name:    "original sender header wins",
			subject: "  FW: report",
			from:    "dave@example.com",
			headers: []core.Header{
				{Name: "X-Forwarded-For", Value: "ignored@example.com"},
				{Name: "x-original-sender", Value: "Erin Park <erin@example.com>"},
			},
			text:     "From: Somebody Else",
			expected: core.ForwardInfo{IsForwarded: true, ForwardedBy: "dave", OriginalSender: "Erin Park"},
		},
		{
			name:     "forwarded for header",
			subject:  "Forwarded: invite",
			from:     "\"Frank Lee\" <frank@example.com>",
			headers:  []core.Header{{Name: "X-Forwarded-For", Value: "grace@example.com"}},
			expected: core.ForwardInfo{IsForwarded: true, ForwardedBy: "Frank Lee", OriginalSender: "grace"},
		},
		{
			name:    "forwarded message block",
			subject: "Fwd: contract",
			from:    "Hank <hank@example.com>",
			text: "Hi\nFrom: not this one\n---------- Forwarded message ---------\n" +
				"From: Ivy Chen <ivy@example.com>\nDate: Tue\n",
			expected: core.ForwardInfo{IsForwarded: true, ForwardedBy: "Hank", OriginalSender: "Ivy Chen"},
		},
		{
			name:     "originally sent by",
			subject:  "fwd: notes",
			from:     "raw sender",
			text:     "Originally sent by: Jack Moss",
			expected: core.ForwardInfo{IsForwarded: true, ForwardedBy: "raw sender", OriginalSender: "Jack Moss"},
		},
		{
			name:     "no original sender found",
			subject:  "Fwd: hello",
			from:     "kim@example.com",
			text:     "nothing to see",
			expected: core.ForwardInfo{IsForwarded: true, ForwardedBy: "kim"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detectForward(tt.subject, tt.from, tt.headers, tt.text))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice Smith", DisplayName("Alice Smith <alice@example.com>"))
	assert.Equal(t, "Alice Smith", DisplayName(`"Alice Smith" <alice@example.com>`))
	assert.Equal(t, "alice", DisplayName("alice@example.com"))
	assert.Equal(t, "alice", DisplayName("<alice@example.com>"))
	assert.Equal(t, "Just A Name", DisplayName("  Just A Name "))
	assert.Equal(t, "", DisplayName(""))
}

func TestIsForwardedSubject(t *testing.T) {
	for _, s := range []string{"Fwd: x", "FW: x", "fw : x", " forwarded: x"} {
		assert.True(t, IsForwardedSubject(s), s)
	}
	for _, s := range []string{"Re: fwd: x", "Forward planning", "x"} {
		assert.False(t, IsForwardedSubject(s), s)
	}
}

func TestNormalizeEmailTruncatesLongContent(t *testing.T) {
	sentence := "This sentence repeats to make a very long newsletter body. "
	raw := &core.RawEmail{
		ID:      "long",
		Payload: core.MessagePart{Body: core.MessageBody{Data: enc(strings.Repeat(sentence, 100))}},
	}
	got, err := newNormalizer(t).NormalizeEmail(raw)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(got.Body)), DefaultCleanOptions().MaxContent)
}
