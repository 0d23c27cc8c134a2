package extract

import (
	"fmt"
	"strings"

	"github.com/mikey/inbox-radio/internal/core"
)

const systemPrompt = "You are an expert email assistant that converts emails to structured JSON. " +
	"Always return a valid JSON array with no additional text."

const promptFormat = `Analyze the following emails and convert them to structured JSON format.

For each email, provide:
- sender: Clean sender name (no email addresses)
- subject: Email subject line
- summary: 1-2 sentence summary of key points and actions needed
- category: "urgent", "important", or "general"
- importance_score: Rate 1-10 based on the scoring criteria below
- deadline_iso: ISO date if a deadline is mentioned (optional)
- is_forwarded, forwarded_by, original_sender: copy these from the email when it was forwarded

SCORING CRITERIA:
- 10: Same-day deadline, critical approvals, emergency
- 8-9: This week deadline, important meetings, time-sensitive decisions
- 6-7: Next week deadline, significant updates, important but not urgent
- 4-5: General work updates, announcements, moderate importance
- 1-3: Newsletters, social media, personal emails, low priority

CATEGORY ASSIGNMENT:
- urgent: scores 7-10
- important: scores 4-6
- general: scores 1-3

Return ONLY a JSON array, or an object with the array under the key "emails", with no additional text.

%s`

// BuildPrompt renders the system and user prompts for one batch of emails
func BuildPrompt(emails []core.NormalizedEmail) (system, user string) {
	var b strings.Builder
	for i, e := range emails {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "EMAIL %d:\n", i+1)
		fmt.Fprintf(&b, "From: %s\n", e.From)
		fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
		if !e.Date.IsZero() {
			fmt.Fprintf(&b, "Date: %s\n", e.Date.Format("2006-01-02"))
		}
		if e.Forward.IsForwarded {
			fmt.Fprintf(&b, "Forwarded by: %s\n", e.Forward.ForwardedBy)
			if e.Forward.OriginalSender != "" {
				fmt.Fprintf(&b, "Original sender: %s\n", e.Forward.OriginalSender)
			}
		}
		fmt.Fprintf(&b, "Content: %s\n---", e.Body)
	}
	return systemPrompt, fmt.Sprintf(promptFormat, b.String())
}
