package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mikey/inbox-radio/internal/core"
)

const user = "me"

// DefaultQuery selects unread mail in the primary category
const DefaultQuery = "is:unread category:primary"

// MailSource reads unread mail from Gmail
type MailSource struct {
	srv    *gmail.Service
	query  string
	logger *zap.Logger
}

// NewMailSource creates a Gmail mail source authorized with a bearer token
func NewMailSource(ctx context.Context, accessToken, query string, logger *zap.Logger, opts ...option.ClientOption) (*MailSource, error) {
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return NewMailSourceFromService(srv, query, logger), nil
}

// NewMailSourceFromService wraps an existing Gmail service
func NewMailSourceFromService(srv *gmail.Service, query string, logger *zap.Logger) *MailSource {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}
	return &MailSource{srv: srv, query: query, logger: logger}
}

// Query builds the search expression for messages newer than since
func (s *MailSource) Query(since time.Time) string {
	if since.IsZero() {
		return s.query
	}
	return fmt.Sprintf("%s after:%s", s.query, since.Format("2006/01/02"))
}

// ListUnread lists message ids matching the unread query
func (s *MailSource) ListUnread(ctx context.Context, max int, since time.Time) ([]string, error) {
	q := s.Query(since)
	call := s.srv.Users.Messages.List(user).Q(q).Context(ctx)
	if max > 0 {
		call = call.MaxResults(int64(max))
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	s.logger.Debug("Listed unread messages", zap.String("query", q), zap.Int("count", len(ids)))
	return ids, nil
}

// GetFull retrieves one message in full format
func (s *MailSource) GetFull(ctx context.Context, ref string) (*core.RawEmail, error) {
	msg, err := s.srv.Users.Messages.Get(user, ref).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message %s: %w", ref, err)
	}
	raw := ConvertMessage(msg)
	return &raw, nil
}

// ConvertMessage maps a Gmail API message onto a RawEmail
func ConvertMessage(msg *gmail.Message) core.RawEmail {
	raw := core.RawEmail{
		ID:           msg.Id,
		ThreadID:     msg.ThreadId,
		Snippet:      msg.Snippet,
		LabelIDs:     msg.LabelIds,
		InternalDate: msg.InternalDate,
	}
	if msg.Payload != nil {
		raw.Payload = convertPart(msg.Payload)
	}
	return raw
}

func convertPart(p *gmail.MessagePart) core.MessagePart {
	part := core.MessagePart{
		PartID:   p.PartId,
		MimeType: p.MimeType,
		Filename: p.Filename,
	}
	for _, h := range p.Headers {
		part.Headers = append(part.Headers, core.Header{Name: h.Name, Value: h.Value})
	}
	if p.Body != nil {
		part.Body = core.MessageBody{Data: p.Body.Data, Size: int(p.Body.Size)}
	}
	for _, child := range p.Parts {
		if child != nil {
			part.Parts = append(part.Parts, convertPart(child))
		}
	}
	return part
}
