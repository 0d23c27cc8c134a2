package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/inbox-radio/internal/core"
)

// TextDigest renders a digest as markdown with emails grouped by urgency
func TextDigest(d core.Digest, mode core.Mode, now time.Time) string {
	var sb strings.Builder

	title := "Your Morning Digest"
	calendarHeading := "Today's Calendar"
	if mode == core.ModeEvening {
		title = "Your Evening Digest"
		calendarHeading = "Coming Up"
	}
	fmt.Fprintf(&sb, "# %s - %s\n\n", title, now.Format("Monday, January 2, 2006"))

	sb.WriteString("## Emails (Sorted by Urgency)\n\n")
	if len(d.Emails) == 0 {
		sb.WriteString("No unread emails.\n\n")
	}
	groups := core.GroupByUrgency(d.Emails)
	writeGroup(&sb, "Urgent", groups.Urgent)
	writeGroup(&sb, "Important", groups.Important)
	writeGroup(&sb, "General", groups.General)

	if len(d.Calendar) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", calendarHeading)
		for _, ev := range d.Calendar {
			fmt.Fprintf(&sb, "**%s** - %s", ev.Time, ev.Title)
			if ev.Duration != "" {
				fmt.Fprintf(&sb, " (%s)", ev.Duration)
			}
			if ev.Location != "" {
				fmt.Fprintf(&sb, " at %s", ev.Location)
			}
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString("---\n\n*Generated by inbox-radio*\n")
	return sb.String()
}

func writeGroup(sb *strings.Builder, name string, emails []core.EmailSummary) {
	if len(emails) == 0 {
		return
	}
	fmt.Fprintf(sb, "### %s (%d)\n", name, len(emails))
	for _, e := range emails {
		fmt.Fprintf(sb, "**%s**: %s *(Urgency: %d/10)*", e.Sender, e.Summary, e.ImportanceScore)
		if e.IsForwarded && e.ForwardedBy != "" {
			fmt.Fprintf(sb, " *(forwarded by %s)*", e.ForwardedBy)
		}
		sb.WriteString("\n\n")
	}
}
