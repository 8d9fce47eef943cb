package factory

import (
	"fmt"

	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/report"
	"go.uber.org/zap"
)

// SenderFactory creates report senders based on configuration
type SenderFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSenderFactory creates a new sender factory
func NewSenderFactory(cfg *config.Config, logger *zap.Logger) *SenderFactory {
	return &SenderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSender creates the configured report sender. The gateway may be nil
// when report delivery does not go through the mailbox provider.
func (f *SenderFactory) CreateSender(gateway core.MailboxGateway) (report.Sender, error) {
	reportCfg := f.cfg.GetReport()

	switch reportCfg.Delivery {
	case "none", "":
		return report.NoopSender{}, nil
	case "gmail":
		if reportCfg.Recipient == "" {
			return nil, fmt.Errorf("report.recipient is required for gmail delivery")
		}
		if gateway == nil {
			return nil, fmt.Errorf("gmail report delivery requires a mailbox gateway")
		}
		return report.NewGatewaySender(gateway, reportCfg.Recipient), nil
	case "smtp":
		if reportCfg.Recipient == "" {
			return nil, fmt.Errorf("report.recipient is required for smtp delivery")
		}
		return report.NewSMTPSender(
			reportCfg.SMTP.Address,
			reportCfg.SMTP.Username,
			reportCfg.SMTP.Password,
			reportCfg.SMTP.From,
			reportCfg.Recipient,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported report delivery: %s", reportCfg.Delivery)
	}
}
