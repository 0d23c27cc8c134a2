package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	c := NewCleaner(CleanOptions{}, nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "quoted reply lines are removed",
			in:   "Sounds good, see you at the meeting.\n> On Monday you wrote:\n> earlier text",
			want: "Sounds good, see you at the meeting.",
		},
		{
			name: "cut at signature separator",
			in:   "The deploy is scheduled for tonight.\n--\nBob\nEngineering",
			want: "The deploy is scheduled for tonight.",
		},
		{
			name: "cut at mobile boilerplate",
			in:   "Running ten minutes late to standup.\n\nSent from my iPhone",
			want: "Running ten minutes late to standup.",
		},
		{
			name: "cut at standalone closing",
			in:   "Can you send the slides before lunch?\nThanks,\nAmy",
			want: "Can you send the slides before lunch?",
		},
		{
			name: "closing word inside a sentence is kept",
			in:   "Thanks for the quick turnaround on the review.",
			want: "Thanks for the quick turnaround on the review.",
		},
		{
			name: "copyright footer",
			in:   "New features shipped this week in the app.\n© 2024 Acme Inc. All rights reserved.",
			want: "New features shipped this week in the app.",
		},
		{
			name: "leaked headers and entities",
			in:   "From: someone\nSubject: hi\nR&amp;D review moved to &quot;Room 4&quot;.\r\n",
			want: "R&D review moved to \"Room 4\".",
		},
		{
			name: "entities that decode to combining marks are composed",
			in:   "Cafe&#769; lunch moved to Friday at noon.",
			want: "Caf\u00e9 lunch moved to Friday at noon.",
		},
		{
			name: "whitespace and blank runs collapse",
			in:   "Line   one\t\there\n\n\n\n\nLine two follows here",
			want: "Line one here\n\nLine two follows here",
		},
		{
			name: "over-cleaned content falls back to first sentences",
			in:   "Thanks\nThe real content is here. It has a second sentence! And a third one.",
			want: "Thanks The real content is here. It has a second sentence.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Clean(tt.in))
		})
	}
}

func TestCleanLengthGovernance(t *testing.T) {
	c := NewCleaner(CleanOptions{RawLimit: 100, RawPrefix: 30, MaxContent: 500}, nil)

	long := strings.Repeat("a", 40) + " " + strings.Repeat("b", 80)
	assert.Equal(t, strings.Repeat("a", 30), c.Clean(long))

	short := strings.Repeat("c", 90)
	assert.Equal(t, short, c.Clean(short))

	capped := NewCleaner(CleanOptions{MaxContent: 10}, nil)
	assert.Equal(t, "0123456789", capped.Clean("0123456789abcdefghijklmnopqrstuvwxyz"))
}
