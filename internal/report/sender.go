package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/tidymail/tidymail/internal/core"
	"go.uber.org/zap"
)

// Sender delivers a rendered report to its recipient
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// GatewaySender delivers the report through the mailbox gateway itself
type GatewaySender struct {
	gateway   core.MailboxGateway
	recipient string
}

// NewGatewaySender creates a sender that uses the gateway's send capability
func NewGatewaySender(gateway core.MailboxGateway, recipient string) *GatewaySender {
	return &GatewaySender{gateway: gateway, recipient: recipient}
}

// Send delivers the report via the mailbox provider
func (s *GatewaySender) Send(ctx context.Context, subject, body string) error {
	return s.gateway.SendEmail(ctx, s.recipient, subject, body)
}

// SMTPSender delivers the report through a plain SMTP relay
type SMTPSender struct {
	address   string
	username  string
	password  string
	from      string
	recipient string
	logger    *zap.Logger
}

// NewSMTPSender creates a sender that submits via an SMTP relay
func NewSMTPSender(address, username, password, from, recipient string, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		address:   address,
		username:  username,
		password:  password,
		from:      from,
		recipient: recipient,
		logger:    logger,
	}
}

// Send submits the report to the relay. The report body is plain text.
func (s *SMTPSender) Send(ctx context.Context, subject, body string) error {
	var auth sasl.Client
	if s.username != "" {
		auth = sasl.NewPlainClient("", s.username, s.password)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, s.recipient, subject, body)

	if err := smtp.SendMail(s.address, auth, s.from, []string{s.recipient}, strings.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.recipient, err)
	}

	s.logger.Info("Report sent via SMTP",
		zap.String("relay", s.address),
		zap.String("recipient", s.recipient))
	return nil
}

// NoopSender discards the report, used when delivery is disabled
type NoopSender struct{}

// Send does nothing
func (NoopSender) Send(ctx context.Context, subject, body string) error {
	return nil
}
