package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
)

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-3-haiku-20240307",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderOpenAI:     "gpt-4o-mini",
}

type Config struct {
	Port     string `env:"PORT, default=3001"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AI AIConfig

	// Audit trail, disabled when empty
	AuditDBPath string `env:"AUDIT_DB_PATH"`

	// S3 document archive, disabled when the endpoint is empty
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3BucketName      string `env:"S3_BUCKET_NAME, default=imports"`
	S3UseSSL          bool   `env:"S3_USE_SSL, default=false"`
	S3Region          string `env:"S3_REGION, default=us-east-1"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE, default=5242880"`
}

type AIConfig struct {
	Provider         string `env:"AI_PROVIDER, default=anthropic"`
	Model            string `env:"AI_MODEL"`
	ClaudeAPIKey     string `env:"CLAUDE_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`

	// Upstream throttling, zero disables it
	RatePerMinute int `env:"AI_RATE_PER_MINUTE, default=0"`
	RateBurst     int `env:"AI_RATE_BURST, default=5"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return load(envconfig.OsLookuper())
}

func load(lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	model, ok := defaultModels[cfg.AI.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AI.Provider)
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = model
	}

	if cfg.AI.RatePerMinute < 0 {
		return nil, fmt.Errorf("AI_RATE_PER_MINUTE must not be negative")
	}
	if cfg.AI.RatePerMinute > 0 && cfg.AI.RateBurst < 1 {
		return nil, fmt.Errorf("AI_RATE_BURST must be at least 1 when rate limiting is on")
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}

	return &cfg, nil
}

// APIKey returns the credential of the selected provider. An empty key
// means the gateway runs in degraded mode.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.ClaudeAPIKey
	}
}
