package script

import (
	"fmt"
	"strings"

	"github.com/mikey/inbox-radio/internal/core"
)

// shortDigestItems is the item count at or below which a one-minute script is requested
const shortDigestItems = 3

const systemPrompt = `You are an expert podcast scriptwriter who creates short, personal daily briefings.
Your scripts sound natural, conversational and easy to follow when spoken aloud.
You write in a warm, professional style that feels like a friendly assistant, never robotic.
You insert pause markers ([PAUSE:short], [PAUSE:long]) to shape the rhythm of the speech.`

const promptFormat = `Write a %s spoken briefing script for a busy professional, based on their unread emails and calendar.
Target length: %s.
Tone: %s.

EMAILS (already in priority order, highest first):
%s

CALENDAR (%s):
%s

SCRIPT REQUIREMENTS:
- Open with "%s" and a quick comment on how busy things look.
- Cover EVERY email, in exactly the order given, with at least two sentences each.
- Introduce the emails with something like "%s".
- Then cover the calendar events in the order given, introduced with something like "%s".
- Close with "%s"
- Write every time and number in words: "two thirty", "nine", "four forty-five". Never write digits, and never say AM or PM.
- Spell acronyms letter by letter with spaces, for example "Q B R" or "A P I".
- Insert [PAUSE:short] after introducing a topic and between related items.
- Insert [PAUSE:long] between major sections, always at the transition from emails to calendar.
- Mark the single most important word of a sentence with *asterisks* when emphasis helps.
- Never mention priority labels or scores.
- Address the listener as "you" and use contractions.

Your output is the exact script and nothing else.`

// BuildPrompt renders the system and user prompts for the script call
func BuildPrompt(emails []core.EmailSummary, calendar []core.CalendarSummary, mode core.Mode, style Style) (system, user string) {
	length := "about 300-350 words, roughly two minutes"
	if len(emails)+len(calendar) <= shortDigestItems {
		length = "about 150 words, roughly one minute"
	}

	return systemPrompt, fmt.Sprintf(promptFormat,
		mode,
		length,
		style.Tone,
		formatEmails(emails),
		style.CalendarFraming,
		formatCalendar(calendar),
		style.Greeting,
		style.EmailFraming,
		style.CalendarFraming,
		style.Closing,
	)
}

func formatEmails(emails []core.EmailSummary) string {
	if len(emails) == 0 {
		return "No unread emails."
	}
	var b strings.Builder
	for i, e := range emails {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s: %s", i+1, e.Sender, e.Summary)
		if e.Subject != "" {
			fmt.Fprintf(&b, " (subject: %s)", e.Subject)
		}
		if e.IsForwarded {
			fmt.Fprintf(&b, " [forwarded by %s", e.ForwardedBy)
			if e.OriginalSender != "" {
				fmt.Fprintf(&b, ", originally from %s", e.OriginalSender)
			}
			b.WriteByte(']')
		}
		if e.DeadlineISO != "" {
			fmt.Fprintf(&b, " [deadline %s]", e.DeadlineISO)
		}
	}
	return b.String()
}

func formatCalendar(events []core.CalendarSummary) string {
	if len(events) == 0 {
		return "No calendar events."
	}
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s - %s", ev.Time, ev.Title)
		if ev.Duration != "" {
			fmt.Fprintf(&b, " (%s)", ev.Duration)
		}
		if ev.Location != "" {
			fmt.Fprintf(&b, " at %s", ev.Location)
		}
		if len(ev.Attendees) > 0 {
			fmt.Fprintf(&b, " with %s", strings.Join(ev.Attendees, ", "))
		}
	}
	return b.String()
}
