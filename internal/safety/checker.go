package safety

import (
	"strings"

	"go.uber.org/zap"
)

// Checker answers the whitelist and protected-label questions for the policy
// engine. All entries are normalized once at construction; the predicates are
// pure and safe for concurrent use.
type Checker struct {
	senders   map[string]struct{}
	domains   []string
	protected map[string]struct{}
	logger    *zap.Logger
}

// NewChecker creates a new safety checker from the configured whitelists
func NewChecker(whitelistSenders, whitelistDomains, neverTouchLabels []string, logger *zap.Logger) *Checker {
	senders := make(map[string]struct{}, len(whitelistSenders))
	for _, s := range whitelistSenders {
		senders[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	domains := make([]string, 0, len(whitelistDomains))
	for _, d := range whitelistDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}

	protected := make(map[string]struct{}, len(neverTouchLabels))
	for _, l := range neverTouchLabels {
		protected[strings.ToUpper(strings.TrimSpace(l))] = struct{}{}
	}

	if logger != nil && (len(senders) > 0 || len(domains) > 0) {
		logger.Info("Initialized safety checker",
			zap.Int("whitelisted_senders", len(senders)),
			zap.Strings("whitelisted_domains", domains))
	}

	return &Checker{
		senders:   senders,
		domains:   domains,
		protected: protected,
		logger:    logger,
	}
}

// IsSenderWhitelisted checks the sender address against the whitelists. The
// address matches on exact (case-insensitive, trimmed) equality, or when its
// domain part equals or is a sub-domain of a whitelisted domain. An address
// without "@" never domain-matches.
func (c *Checker) IsSenderWhitelisted(from string) bool {
	sender := strings.ToLower(strings.TrimSpace(from))
	if sender == "" {
		return false
	}

	if _, ok := c.senders[sender]; ok {
		return true
	}

	at := strings.LastIndex(sender, "@")
	if at < 0 {
		return false
	}
	domain := sender[at+1:]

	for _, d := range c.domains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			if c.logger != nil {
				c.logger.Debug("Sender domain is whitelisted",
					zap.String("domain", domain),
					zap.String("sender", sender))
			}
			return true
		}
	}

	return false
}

// IsProtected reports whether any of the message labels is in the
// never-touch set. The comparison is case-insensitive.
func (c *Checker) IsProtected(labels []string) bool {
	if len(c.protected) == 0 {
		return false
	}
	for _, l := range labels {
		if _, ok := c.protected[strings.ToUpper(l)]; ok {
			return true
		}
	}
	return false
}
