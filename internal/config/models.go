package config

// ModeConfig controls how decisions are applied to the mailbox
type ModeConfig struct {
	DryRun          bool
	Action          string
	QuarantineLabel string
	PreserveDays    int
}

// LimitsConfig bounds one triage run
type LimitsConfig struct {
	MaxMessagesPerRun int
	FetchWindowHours  int
}

// LLMConfig represents the configuration for the classifier
type LLMConfig struct {
	Enabled            bool
	Provider           string
	MaxBodyChars       int
	MinTrashConfidence float64
}

// SafetyConfig holds the whitelists and protected labels
type SafetyConfig struct {
	WhitelistSenders []string
	WhitelistDomains []string
	NeverTouchLabels []string
}

// ScheduleConfig holds the daily run schedule
type ScheduleConfig struct {
	Time     string
	Timezone string
}

// GmailConfig holds credential locations for the Gmail gateway
type GmailConfig struct {
	CredentialsPath string
	TokenPath       string
}

// ReportConfig controls where run reports go
type ReportConfig struct {
	SaveDir   string
	Recipient string
	Delivery  string
	SMTP      SMTPConfig
}

// SMTPConfig holds relay settings for SMTP report delivery
type SMTPConfig struct {
	Address  string
	Username string
	Password string
	From     string
}

// AuditConfig selects and configures the audit store backend
type AuditConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetMode returns the mode configuration
func (c *Config) GetMode() ModeConfig {
	return ModeConfig{
		DryRun:          c.GetBool("mode.dry_run"),
		Action:          c.GetString("mode.action"),
		QuarantineLabel: c.GetString("mode.quarantine_label"),
		PreserveDays:    c.GetInt("mode.preserve_days"),
	}
}

// GetLimits returns the run limits configuration
func (c *Config) GetLimits() LimitsConfig {
	return LimitsConfig{
		MaxMessagesPerRun: c.GetInt("limits.max_messages_per_run"),
		FetchWindowHours:  c.GetInt("limits.fetch_window_hours"),
	}
}

// GetLLM returns the classifier configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Enabled:            c.GetBool("llm.enabled"),
		Provider:           c.GetString("llm.provider"),
		MaxBodyChars:       c.GetInt("llm.max_body_chars"),
		MinTrashConfidence: c.GetFloat64("llm.min_trash_confidence"),
	}
}

// GetSafety returns the safety configuration
func (c *Config) GetSafety() SafetyConfig {
	return SafetyConfig{
		WhitelistSenders: c.GetStringSlice("safety.whitelist_senders"),
		WhitelistDomains: c.GetStringSlice("safety.whitelist_domains"),
		NeverTouchLabels: c.GetStringSlice("safety.never_touch_labels"),
	}
}

// GetSchedule returns the schedule configuration
func (c *Config) GetSchedule() ScheduleConfig {
	return ScheduleConfig{
		Time:     c.GetString("schedule.time"),
		Timezone: c.GetString("schedule.timezone"),
	}
}

// GetGmail returns the Gmail gateway configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		CredentialsPath: c.GetString("gmail.credentials_path"),
		TokenPath:       c.GetString("gmail.token_path"),
	}
}

// GetReport returns the report configuration
func (c *Config) GetReport() ReportConfig {
	return ReportConfig{
		SaveDir:   c.GetString("report.save_dir"),
		Recipient: c.GetString("report.recipient"),
		Delivery:  c.GetString("report.delivery"),
		SMTP: SMTPConfig{
			Address:  c.GetString("report.smtp.address"),
			Username: c.GetString("report.smtp.username"),
			Password: c.GetString("report.smtp.password"),
			From:     c.GetString("report.smtp.from"),
		},
	}
}

// GetAudit returns the audit store configuration
func (c *Config) GetAudit() AuditConfig {
	return AuditConfig{
		Type:       c.GetString("audit.type"),
		SQLitePath: c.GetString("audit.sqlite_path"),
		MySQLDSN:   c.GetString("audit.mysql_dsn"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}
