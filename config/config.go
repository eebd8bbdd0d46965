package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Render   RenderConfig
	Exchange ExchangeConfig
	OpenAI   OpenAIConfig
	Scrape   ScrapeConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RenderConfig holds rendering-proxy configuration
type RenderConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Country string        `mapstructure:"country"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// ExchangeConfig holds exchange-rate lookup configuration
type ExchangeConfig struct {
	BaseURL      string  `mapstructure:"base_url"`
	FallbackRate float64 `mapstructure:"fallback_rate"`
}

// OpenAIConfig holds text-generation service configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// ScrapeConfig holds marketplace pacing configuration
type ScrapeConfig struct {
	MinDelay  time.Duration `mapstructure:"min_delay"`
	MaxDelay  time.Duration `mapstructure:"max_delay"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Secrets default to empty so env lookups bind during Unmarshal;
	// validate() rejects them when still unset.
	v.SetDefault("render.api_key", "")
	v.SetDefault("openai.api_key", "")

	// Render proxy defaults
	v.SetDefault("render.base_url", "https://api.renderproxy.io")
	v.SetDefault("render.country", "pl")
	v.SetDefault("render.timeout", "45s")
	v.SetDefault("render.retries", 3)

	// Exchange defaults
	v.SetDefault("exchange.base_url", "https://api.exchangerate.host")
	v.SetDefault("exchange.fallback_rate", 0.23)

	// OpenAI defaults
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4-turbo")

	// Scrape pacing defaults
	v.SetDefault("scrape.min_delay", "1s")
	v.SetDefault("scrape.max_delay", "3s")
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
}

// validate validates the configuration. The two API keys are the only
// secrets and their absence must fail at startup, not mid-pipeline.
func validate(config *Config) error {
	if config.Render.APIKey == "" {
		return fmt.Errorf("render proxy API key is required (set PRICELENS_RENDER_API_KEY)")
	}

	if config.OpenAI.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required (set PRICELENS_OPENAI_API_KEY)")
	}

	if config.Render.Retries <= 0 {
		return fmt.Errorf("render retries must be positive, got: %d", config.Render.Retries)
	}

	if config.Render.Timeout <= 0 {
		return fmt.Errorf("render timeout must be positive, got: %s", config.Render.Timeout)
	}

	if config.Exchange.FallbackRate <= 0 {
		return fmt.Errorf("exchange fallback rate must be positive, got: %v", config.Exchange.FallbackRate)
	}

	if config.Scrape.MaxDelay < config.Scrape.MinDelay {
		return fmt.Errorf("scrape max_delay must be >= min_delay")
	}

	return nil
}
