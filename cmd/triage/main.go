package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"github.com/tidymail/tidymail/internal/factory"
	"github.com/tidymail/tidymail/internal/logging"
	"github.com/tidymail/tidymail/internal/report"
	"github.com/tidymail/tidymail/internal/safety"
	"go.uber.org/zap"
)

var (
	// LLM provider flags
	provider     = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock)")
	noLLM        = flag.Bool("no-llm", false, "Disable the classifier; policy rules and fallback only")
	maxBodyChars = flag.Int("max-body-chars", 2000, "Maximum email body size to send to the classifier")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Triage flags
	dryRun           = flag.Bool("dry-run", true, "Compute decisions without touching the mailbox")
	maxMessages      = flag.Int("max-messages", 50, "Maximum messages to triage in this run")
	fetchWindow      = flag.Int("fetch-window-hours", 24, "Only consider messages newer than this many hours")
	minTrash         = flag.Float64("min-trash-confidence", 0.85, "Confidence floor for classifier trash suggestions")
	whitelistSenders = flag.String("whitelist-senders", "", "Comma-separated list of whitelisted sender addresses")
	whitelistDomains = flag.String("whitelist-domains", "", "Comma-separated list of whitelisted domains")

	// Gmail flags
	credentialsPath = flag.String("credentials", "data/google/credentials.json", "Path to OAuth client secrets")
	tokenPath       = flag.String("token", "data/google/token.json", "Path to cached OAuth token")

	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := createConfigFromFlags()
	ctx := context.Background()

	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()

	gateway, err := factory.NewGatewayFactory(cfg, logger, textProcessor).CreateGateway(ctx)
	if err != nil {
		logger.Fatal("Failed to create Gmail gateway", zap.Error(err))
	}

	classifier, err := factory.NewClassifierFactory(cfg, logger, textProcessor).CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	safetyCfg := cfg.GetSafety()
	checker := safety.NewChecker(
		safetyCfg.WhitelistSenders,
		safetyCfg.WhitelistDomains,
		safetyCfg.NeverTouchLabels,
		logger,
	)

	mode := cfg.GetMode()
	limits := cfg.GetLimits()
	llm := cfg.GetLLM()
	service := core.NewTriageService(gateway, classifier, nil, checker, logger, core.TriageOptions{
		DryRun:             mode.DryRun,
		DefaultAction:      mode.Action,
		QuarantineLabel:    mode.QuarantineLabel,
		PreserveDays:       mode.PreserveDays,
		MaxMessagesPerRun:  int64(limits.MaxMessagesPerRun),
		FetchWindowHours:   limits.FetchWindowHours,
		LLMEnabled:         llm.Enabled,
		MinTrashConfidence: llm.MinTrashConfidence,
	})

	fmt.Printf("=== Triage Run ===\n")
	fmt.Printf("Dry run: %t\n", mode.DryRun)
	fmt.Printf("Provider: %s\n", llm.Provider)
	fmt.Printf("Max messages: %d\n", limits.MaxMessagesPerRun)
	fmt.Printf("\n")

	startTime := time.Now()
	runReport := service.ProcessInbox(ctx, startTime)

	fmt.Print(report.BuildMarkdown(runReport, mode.DryRun, mode.Action))
	fmt.Printf("\nProcessing time: %v\n", time.Since(startTime))

	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("mode.dry_run", *dryRun)
	v.Set("limits.max_messages_per_run", *maxMessages)
	v.Set("limits.fetch_window_hours", *fetchWindow)

	v.Set("llm.enabled", !*noLLM)
	v.Set("llm.provider", *provider)
	v.Set("llm.max_body_chars", *maxBodyChars)
	v.Set("llm.min_trash_confidence", *minTrash)

	switch *provider {
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
	}

	v.Set("safety.whitelist_senders", splitList(*whitelistSenders))
	v.Set("safety.whitelist_domains", splitList(*whitelistDomains))

	v.Set("gmail.credentials_path", *credentialsPath)
	v.Set("gmail.token_path", *tokenPath)

	return config.NewFromViper(v)
}

// splitList parses a comma-separated flag value into trimmed entries
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
