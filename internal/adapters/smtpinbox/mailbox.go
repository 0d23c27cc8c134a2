package smtpinbox

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mikey/inbox-radio/internal/adapters/mimeparse"
	"github.com/mikey/inbox-radio/internal/core"
)

type entry struct {
	email    core.RawEmail
	received time.Time
	unread   bool
}

// Mailbox is an in-memory store of delivered messages. It serves as the mail
// source for digests of drop-box mail.
type Mailbox struct {
	mu      sync.RWMutex
	entries []*entry
	byID    map[string]*entry
	now     func() time.Time
}

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{byID: make(map[string]*entry), now: time.Now}
}

// Deliver stores a message as unread. A message whose id is already present
// replaces the stored copy.
func (m *Mailbox) Deliver(email core.RawEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()

	received := m.now()
	if email.InternalDate == 0 {
		email.InternalDate = received.UnixMilli()
	}
	if e, ok := m.byID[email.ID]; ok {
		e.email, e.received, e.unread = email, received, true
		return
	}
	e := &entry{email: email, received: received, unread: true}
	m.entries = append(m.entries, e)
	m.byID[email.ID] = e
}

// Len returns the number of stored messages
func (m *Mailbox) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ListUnread returns ids of unread messages received at or after since,
// newest first
func (m *Mailbox) ListUnread(ctx context.Context, max int, since time.Time) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for _, e := range slices.Backward(m.entries) {
		if !e.unread || e.received.Before(since) {
			continue
		}
		ids = append(ids, e.email.ID)
		if max > 0 && len(ids) == max {
			break
		}
	}
	return ids, nil
}

// GetFull returns a copy of a stored message
func (m *Mailbox) GetFull(ctx context.Context, ref string) (*core.RawEmail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byID[ref]
	if !ok {
		return nil, fmt.Errorf("message %s not found", ref)
	}
	email := e.email
	email.LabelIDs = slices.DeleteFunc(slices.Clone(email.LabelIDs), func(l string) bool {
		return l == mimeparse.LabelUnread
	})
	if e.unread {
		email.LabelIDs = append(email.LabelIDs, mimeparse.LabelUnread)
	}
	return &email, nil
}

// MarkRead flags messages as read so later digests skip them
func (m *Mailbox) MarkRead(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if e, ok := m.byID[id]; ok {
			e.unread = false
		}
	}
}
