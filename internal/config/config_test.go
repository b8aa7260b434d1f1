package config

import (
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AI.Model)
	assert.Empty(t, cfg.AI.APIKey())
	assert.Empty(t, cfg.AuditDBPath)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadSize)
}

func TestLoad_SelectsProviderCredential(t *testing.T) {
	cfg, err := load(envconfig.MapLookuper(map[string]string{
		"AI_PROVIDER":        "OpenRouter",
		"CLAUDE_API_KEY":     "claude-key",
		"OPENROUTER_API_KEY": "router-key",
	}))
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenRouter, cfg.AI.Provider)
	assert.Equal(t, "router-key", cfg.AI.APIKey())
	assert.Equal(t, "openai/gpt-4o-mini", cfg.AI.Model)
}

func TestLoad_ModelOverride(t *testing.T) {
	cfg, err := load(envconfig.MapLookuper(map[string]string{
		"AI_MODEL": "claude-3-5-sonnet-latest",
	}))
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.AI.Model)
}

func TestLoad_UnknownProvider(t *testing.T) {
	_, err := load(envconfig.MapLookuper(map[string]string{
		"AI_PROVIDER": "palm",
	}))
	require.Error(t, err)
}

func TestLoad_NegativeRate(t *testing.T) {
	_, err := load(envconfig.MapLookuper(map[string]string{
		"AI_RATE_PER_MINUTE": "-1",
	}))
	require.Error(t, err)
}

func TestLoad_RateNeedsBurst(t *testing.T) {
	_, err := load(envconfig.MapLookuper(map[string]string{
		"AI_RATE_PER_MINUTE": "30",
		"AI_RATE_BURST":      "0",
	}))
	assert.Error(t, err)

	cfg, err := load(envconfig.MapLookuper(map[string]string{"AI_RATE_PER_MINUTE": "30"}))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.AI.RatePerMinute)
	assert.Equal(t, 5, cfg.AI.RateBurst)
}
