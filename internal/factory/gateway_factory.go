package factory

import (
	"context"

	"github.com/tidymail/tidymail/internal/adapters/gmailapi"
	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/utils"
	"go.uber.org/zap"
)

// GatewayFactory creates mailbox gateways
type GatewayFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *GatewayFactory {
	return &GatewayFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateGateway authenticates against Gmail and returns the gateway
func (f *GatewayFactory) CreateGateway(ctx context.Context) (core.MailboxGateway, error) {
	gmailCfg := f.cfg.GetGmail()
	svc, err := gmailapi.NewService(ctx, gmailCfg.CredentialsPath, gmailCfg.TokenPath)
	if err != nil {
		return nil, err
	}
	return gmailapi.NewGateway(svc, f.logger, f.textProcessor), nil
}
