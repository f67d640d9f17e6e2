package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// AI providers.
const (
	ProviderAuto   = "auto"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds all configuration for the application
type Config struct {
	Environment string       `mapstructure:"environment"`
	LogLevel    string       `mapstructure:"log_level"`
	Currency    string       `mapstructure:"currency"`
	Server      ServerConfig `mapstructure:"server"`
	AI          AIConfig     `mapstructure:"ai"`
	AMQP        AMQPConfig   `mapstructure:"amqp"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// AIConfig selects and configures the audit report generator.
type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AMQPConfig configures ledger event publishing. An empty URL disables it.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// ResolvedProvider picks the provider when set to auto: OpenAI if its key is
// present, then Gemini, else none.
func (c AIConfig) ResolvedProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p != "" && p != ProviderAuto {
		return p
	}
	switch {
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.GeminiAPIKey != "":
		return ProviderGemini
	}
	return ProviderNone
}

// Load reads .env (if present), then BARSTOCK_* environment variables and an
// optional barstock.yaml in ./config. OPENAI_API_KEY, GEMINI_API_KEY and
// AMQP_URL are honoured without the prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BARSTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.openai_api_key", "BARSTOCK_AI_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv("ai.gemini_api_key", "BARSTOCK_AI_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}
	if err := v.BindEnv("amqp.url", "BARSTOCK_AMQP_URL", "AMQP_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	v.SetConfigName("barstock")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("unknown currency code %q", c.Currency)
	}
	switch c.AI.ResolvedProvider() {
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.AI.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("unknown AI provider %q (valid: auto, openai, gemini, none)", c.AI.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("log_level", "info")
	v.SetDefault("currency", "BRL")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("ai.provider", ProviderAuto)
	v.SetDefault("ai.openai_api_key", "")
	v.SetDefault("ai.gemini_api_key", "")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.timeout", 45*time.Second)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "barstock.events")
}
