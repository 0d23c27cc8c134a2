package smtpinbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/inbox-radio/internal/adapters/mimeparse"
	"github.com/mikey/inbox-radio/internal/core"
)

// Options configure the SMTP listener
type Options struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
	MaxRecipients   int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// Server accepts mail over SMTP into a Mailbox
type Server struct {
	mailbox  *Mailbox
	opts     Options
	logger   *zap.Logger
	server   *smtp.Server
	listener net.Listener
}

// NewServer creates a new SMTP drop-box server
func NewServer(mailbox *Mailbox, opts Options, logger *zap.Logger) *Server {
	if opts.Domain == "" {
		opts.Domain = "localhost"
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 10 * 1024 * 1024
	}
	if opts.MaxRecipients <= 0 {
		opts.MaxRecipients = 50
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	s := &Server{mailbox: mailbox, opts: opts, logger: logger}
	s.server = smtp.NewServer(&smtpBackend{server: s})
	s.server.Addr = opts.ListenAddress
	s.server.Domain = opts.Domain
	s.server.ReadTimeout = opts.ReadTimeout
	s.server.WriteTimeout = opts.WriteTimeout
	s.server.MaxMessageBytes = opts.MaxMessageBytes
	s.server.MaxRecipients = opts.MaxRecipients
	return s
}

// Start listens on the configured address and serves in the background
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.ListenAddress, err)
	}
	s.listener = l

	s.logger.Info("SMTP drop-box starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := s.server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			s.logger.Error("SMTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound listen address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.opts.ListenAddress
	}
	return s.listener.Addr().String()
}

// Stop stops the SMTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// deliver parses a received message and stores it in the mailbox
func (s *Server) deliver(sender string, recipients []string, data []byte) (core.RawEmail, error) {
	email, err := mimeparse.ParseBytes(uuid.NewString(), data)
	if err != nil {
		return core.RawEmail{}, err
	}
	if sender != "" && !hasHeader(email.Payload.Headers, "From") {
		email.Payload.Headers = append(email.Payload.Headers, core.Header{Name: "From", Value: sender})
	}
	if len(recipients) > 0 && !hasHeader(email.Payload.Headers, "To") {
		email.Payload.Headers = append(email.Payload.Headers, core.Header{Name: "To", Value: strings.Join(recipients, ", ")})
	}
	s.mailbox.Deliver(email)
	return email, nil
}

func hasHeader(headers []core.Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	server *Server
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{server: b.server}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	server     *Server
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data stores the message
func (s *smtpSession) Data(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		s.server.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	email, err := s.server.deliver(s.sender, s.recipients, buf.Bytes())
	if err != nil {
		s.server.logger.Warn("Rejecting unparseable message",
			zap.String("sender", s.sender),
			zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Message could not be parsed",
		}
	}

	s.server.logger.Info("Accepted message",
		zap.String("email_id", email.ID),
		zap.String("sender", s.sender),
		zap.Int("recipients", len(s.recipients)),
		zap.Int("bytes", buf.Len()))
	return nil
}
