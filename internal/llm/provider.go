// Package llm holds the completion providers the AI gateway talks to.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/feedbackge/ai-backend/internal/config"
)

// CompletionProvider turns a prompt into raw completion text.
// Implementations must be safe for concurrent use.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// UpstreamError reports a failed call to the completion provider: transport
// errors, timeouts, non-2xx answers and empty completions.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s upstream: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

var errEmptyCompletion = errors.New("empty completion")

// New builds the provider selected in cfg. It returns (nil, nil) when the
// provider's credential is absent, which puts the gateway in degraded mode.
func New(ctx context.Context, cfg config.AIConfig) (CompletionProvider, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(key, cfg.Model, AnthropicBaseURL), nil
	case config.ProviderOpenRouter:
		return NewOpenRouter(key, cfg.Model, OpenRouterBaseURL), nil
	case config.ProviderOpenAI:
		return NewOpenAI(ctx, key, cfg.Model, cfg.OpenAIBaseURL)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
