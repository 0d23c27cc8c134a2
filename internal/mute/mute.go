package mute

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker decides whether a sender belongs to a muted domain
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new mute checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
		if domain != "" {
			normalizedDomains = append(normalizedDomains, domain)
		}
	}

	if len(normalizedDomains) > 0 {
		logger.Info("Initialized mute list", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// Domains returns the normalized muted domains
func (c *Checker) Domains() []string {
	return c.domains
}

// IsMuted checks if the sender's domain, or a parent of it, is muted.
// from may be a bare address or a "Name <address>" header value.
func (c *Checker) IsMuted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := senderDomain(from)
	if domain == "" {
		return false
	}

	for _, muted := range c.domains {
		if domain == muted || strings.HasSuffix(domain, "."+muted) {
			c.logger.Debug("Sender domain is muted",
				zap.String("domain", domain),
				zap.String("from", from))
			return true
		}
	}

	return false
}

func senderDomain(from string) string {
	address := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return strings.ToLower(strings.Trim(address[at+1:], "> "))
}
