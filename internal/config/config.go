package config

import (
	"market-daily/pkg/config"
	"market-daily/pkg/mailer"
)

// Database holds SQLite configuration.
type Database struct {
	Path            string `mapstructure:"path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// AI selects the narrative-analysis provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// OpenAI holds the configuration for an OpenAI-compatible chat API.
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// NewsAPI holds the configuration for the NewsAPI provider. The provider
// is enabled purely by the presence of its API key.
type NewsAPI struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Finnhub holds the configuration for the Finnhub provider.
type Finnhub struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Email holds SMTP and digest configuration.
type Email struct {
	mailer.Config `mapstructure:",squash"`
	AdminEmail    string `mapstructure:"admin_email"`
	UseEnhanced   bool   `mapstructure:"use_enhanced"`
}

// NewsSource describes one scrape target for the refresh job.
type NewsSource struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Type     string `mapstructure:"type"` // html or rss
	Selector string `mapstructure:"selector"`
}

// News holds refresh-pipeline configuration. Keywords extend the
// built-in financial terms used by the relevance filter.
type News struct {
	Sources       []NewsSource `mapstructure:"sources"`
	RetentionDays int          `mapstructure:"retention_days"`
	MaxPerSource  int          `mapstructure:"max_per_source"`
	Keywords      []string     `mapstructure:"keywords"`
}

// Scheduler holds cron expressions for the background jobs.
type Scheduler struct {
	DigestCron  string `mapstructure:"digest_cron"`
	RefreshCron string `mapstructure:"refresh_cron"`
	CleanupCron string `mapstructure:"cleanup_cron"`
}

// Config holds the full configuration for the service.
type Config struct {
	App       config.App    `mapstructure:"app"`
	Logger    config.Logger `mapstructure:"logger"`
	Server    config.Server `mapstructure:"server"`
	Database  Database      `mapstructure:"database"`
	AI        AI            `mapstructure:"ai"`
	OpenAI    OpenAI        `mapstructure:"openai"`
	Gemini    Gemini        `mapstructure:"gemini"`
	NewsAPI   NewsAPI       `mapstructure:"newsapi"`
	Finnhub   Finnhub       `mapstructure:"finnhub"`
	Email     Email         `mapstructure:"email"`
	News      News          `mapstructure:"news"`
	Scheduler Scheduler     `mapstructure:"scheduler"`
}

// Load loads the service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
