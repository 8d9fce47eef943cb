package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/tidymail/")
	v.AddConfigPath("$HOME/.tidymail")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("TIDYMAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	cfg := &Config{v: v}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Mode defaults
	v.SetDefault("mode.dry_run", true)
	v.SetDefault("mode.action", "trash")
	v.SetDefault("mode.quarantine_label", "ToReview")
	v.SetDefault("mode.preserve_days", 7)

	// Limits defaults
	v.SetDefault("limits.max_messages_per_run", 500)
	v.SetDefault("limits.fetch_window_hours", 24)

	// LLM provider defaults
	v.SetDefault("llm.enabled", true)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.max_body_chars", 2000)
	v.SetDefault("llm.min_trash_confidence", 0.85)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("openai.top_p", 0.9)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.temperature", 0.0)
	v.SetDefault("gemini.top_p", 0.9)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.temperature", 0.0)
	v.SetDefault("bedrock.top_p", 0.9)

	// Safety defaults
	v.SetDefault("safety.whitelist_senders", []string{})
	v.SetDefault("safety.whitelist_domains", []string{})
	v.SetDefault("safety.never_touch_labels", []string{"STARRED"})

	// Schedule defaults
	v.SetDefault("schedule.time", "22:00")
	v.SetDefault("schedule.timezone", "UTC")

	// Gmail defaults
	v.SetDefault("gmail.credentials_path", "data/google/credentials.json")
	v.SetDefault("gmail.token_path", "data/google/token.json")

	// Report defaults
	v.SetDefault("report.save_dir", "reports")
	v.SetDefault("report.recipient", "")
	v.SetDefault("report.delivery", "none")
	v.SetDefault("report.smtp.address", "localhost:587")
	v.SetDefault("report.smtp.username", "")
	v.SetDefault("report.smtp.password", "")
	v.SetDefault("report.smtp.from", "")

	// Audit defaults
	v.SetDefault("audit.type", "sqlite")
	v.SetDefault("audit.sqlite_path", "data/tidymail.db")
	v.SetDefault("audit.mysql_dsn", "user:password@tcp(localhost:3306)/tidymail")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate performs the basic sanity checks the core relies on so that
// invalid values never reach it.
func (c *Config) Validate() error {
	if n := c.GetInt("limits.max_messages_per_run"); n < 1 {
		return fmt.Errorf("limits.max_messages_per_run must be >= 1, got %d", n)
	}
	if n := c.GetInt("limits.fetch_window_hours"); n < 1 {
		return fmt.Errorf("limits.fetch_window_hours must be >= 1, got %d", n)
	}
	if n := c.GetInt("mode.preserve_days"); n < 0 {
		return fmt.Errorf("mode.preserve_days must be >= 0, got %d", n)
	}
	if f := c.GetFloat64("llm.min_trash_confidence"); f < 0.0 || f > 1.0 {
		return fmt.Errorf("llm.min_trash_confidence must be in [0,1], got %f", f)
	}
	if n := c.GetInt("llm.max_body_chars"); n < 100 {
		return fmt.Errorf("llm.max_body_chars must be >= 100, got %d", n)
	}
	if t := c.GetString("schedule.time"); t != "" {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("schedule.time must be HH:MM, got %q", t)
		}
	}
	switch action := c.GetString("mode.action"); action {
	case "trash", "quarantine":
	default:
		return fmt.Errorf("mode.action must be trash or quarantine, got %q", action)
	}
	return nil
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
