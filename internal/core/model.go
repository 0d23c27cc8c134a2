package core

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Header is a single message header
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MessageBody holds the encoded body of a message part
type MessageBody struct {
	Data string `json:"data,omitempty"` // base64url
	Size int    `json:"size,omitempty"`
}

// MessagePart is a node in the MIME tree of a message
type MessagePart struct {
	PartID   string        `json:"partId,omitempty"`
	MimeType string        `json:"mimeType,omitempty"`
	Filename string        `json:"filename,omitempty"`
	Headers  []Header      `json:"headers,omitempty"`
	Body     MessageBody   `json:"body"`
	Parts    []MessagePart `json:"parts,omitempty"`
}

// RawEmail is a message as delivered by a mail source
type RawEmail struct {
	ID           string      `json:"id"`
	ThreadID     string      `json:"threadId,omitempty"`
	Snippet      string      `json:"snippet,omitempty"`
	LabelIDs     []string    `json:"labelIds,omitempty"`
	Payload      MessagePart `json:"payload"`
	InternalDate int64       `json:"internalDate,string,omitempty"` // epoch millis
}

// ForwardInfo describes a message relayed by a second party
type ForwardInfo struct {
	IsForwarded    bool
	ForwardedBy    string
	OriginalSender string
}

// NormalizedEmail is the canonical form of a RawEmail for one run
type NormalizedEmail struct {
	ID       string
	From     string
	To       string
	Subject  string
	Body     string
	Date     time.Time
	Snippet  string
	IsUnread bool
	Forward  ForwardInfo
}

// EventTime is either a date-time with offset or an all-day date
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Attendee is a calendar event participant
type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus,omitempty"`
}

// Event statuses
const (
	EventConfirmed = "confirmed"
	EventTentative = "tentative"
	EventCancelled = "cancelled"
)

// RawCalendarEvent is an event as delivered by a calendar source
type RawCalendarEvent struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Location    string     `json:"location,omitempty"`
	Status      string     `json:"status,omitempty"`
}

// CalendarSummary is the spoken-form display record of an event
type CalendarSummary struct {
	Title     string   `json:"title"`
	Time      string   `json:"time"`
	Duration  string   `json:"duration"`
	Attendees []string `json:"attendees,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// Category is the urgency label the extraction step assigns to an email
type Category string

const (
	CategoryUrgent    Category = "urgent"
	CategoryImportant Category = "important"
	CategoryGeneral   Category = "general"
)

// EmailSummary is the LLM's structured judgment of one email
type EmailSummary struct {
	Sender          string   `json:"sender"`
	Subject         string   `json:"subject"`
	Summary         string   `json:"summary"`
	Category        Category `json:"category"`
	ImportanceScore int      `json:"importance_score"`
	DeadlineISO     string   `json:"deadline_iso,omitempty"`
	IsForwarded     bool     `json:"is_forwarded,omitempty"`
	ForwardedBy     string   `json:"forwarded_by,omitempty"`
	OriginalSender  string   `json:"original_sender,omitempty"`
}

// UnmarshalJSON accepts the legacy urgency_score key and scores sent as floats
func (s *EmailSummary) UnmarshalJSON(data []byte) error {
	type plain EmailSummary
	var aux struct {
		plain
		ImportanceScore json.Number `json:"importance_score"`
		UrgencyScore    json.Number `json:"urgency_score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = EmailSummary(aux.plain)

	raw := aux.ImportanceScore
	if raw == "" {
		raw = aux.UrgencyScore
	}
	if raw == "" {
		return nil
	}
	score, err := raw.Float64()
	if err != nil {
		return fmt.Errorf("invalid importance score %q: %w", raw.String(), err)
	}
	s.ImportanceScore = int(math.Round(score))
	return nil
}

// Digest is the structured outcome of one run
type Digest struct {
	Emails      []EmailSummary    `json:"emails"`
	Calendar    []CalendarSummary `json:"calendar"`
	TotalEmails int               `json:"total_emails"`
	TotalEvents int               `json:"total_events"`
}

// RunOptions are the per-run caller choices
type RunOptions struct {
	VoiceID string
	Mode    Mode
}

// DigestResult is everything a successful run produces
type DigestResult struct {
	RunID      string
	Mode       Mode
	Script     string
	SpeechText string
	Audio      []byte
	Provider   string
	Digest     Digest
}
