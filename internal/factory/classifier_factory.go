package factory

import (
	"fmt"

	"github.com/tidymail/tidymail/internal/adapters/bedrock"
	"github.com/tidymail/tidymail/internal/adapters/gemini"
	"github.com/tidymail/tidymail/internal/adapters/openai"
	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates classifier clients
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a classifier based on the configuration. When the
// classifier is disabled, it returns nil and the policy fallback applies.
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	llmCfg := f.cfg.GetLLM()
	if !llmCfg.Enabled {
		f.logger.Info("Classifier disabled; policy fallback only")
		return nil, nil
	}

	switch llmCfg.Provider {
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmCfg.Provider)
	}
}
