package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/factory"
	"github.com/tidymail/tidymail/internal/logging"
	"github.com/tidymail/tidymail/internal/report"
	"github.com/tidymail/tidymail/internal/safety"
	"github.com/tidymail/tidymail/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewAuditFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGatewayFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSenderFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register audit store
	if err := container.Provide(func(f *factory.AuditFactory) (core.AuditStore, error) {
		return f.CreateAuditStore()
	}); err != nil {
		return nil, err
	}

	// Register mailbox gateway
	if err := container.Provide(func(f *factory.GatewayFactory) (core.MailboxGateway, error) {
		return f.CreateGateway(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register safety checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.SafetyPolicy {
		safetyCfg := cfg.GetSafety()
		return safety.NewChecker(
			safetyCfg.WhitelistSenders,
			safetyCfg.WhitelistDomains,
			safetyCfg.NeverTouchLabels,
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register triage options
	if err := container.Provide(func(cfg *config.Config) core.TriageOptions {
		mode := cfg.GetMode()
		limits := cfg.GetLimits()
		llm := cfg.GetLLM()
		return core.TriageOptions{
			DryRun:             mode.DryRun,
			DefaultAction:      mode.Action,
			QuarantineLabel:    mode.QuarantineLabel,
			PreserveDays:       mode.PreserveDays,
			MaxMessagesPerRun:  int64(limits.MaxMessagesPerRun),
			FetchWindowHours:   limits.FetchWindowHours,
			LLMEnabled:         llm.Enabled,
			MinTrashConfidence: llm.MinTrashConfidence,
		}
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register report sender
	if err := container.Provide(func(f *factory.SenderFactory, gateway core.MailboxGateway) (report.Sender, error) {
		return f.CreateSender(gateway)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
