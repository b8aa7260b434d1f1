package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

type openRouterProvider struct {
	model  string
	client *resty.Client
}

type OpenRouterRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenRouterResponse struct {
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

// NewOpenRouter returns a provider for OpenRouter's chat completions API.
func NewOpenRouter(apiKey, model, baseURL string) CompletionProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://feedback.ge").
		SetHeader("X-Title", "FeedbackGe").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &openRouterProvider{
		model:  model,
		client: client,
	}
}

func (p *openRouterProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var out OpenRouterResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(OpenRouterRequest{
			Model:     p.model,
			MaxTokens: maxTokens,
			Messages:  []Message{{Role: "user", Content: prompt}},
		}).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", &UpstreamError{Provider: "openrouter", Err: err}
	}
	if resp.IsError() {
		msg := resp.String()
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", &UpstreamError{Provider: "openrouter", StatusCode: resp.StatusCode(), Err: errors.New(msg)}
	}

	// OpenRouter may report provider failures inside a 200 body.
	if out.Error != nil {
		return "", &UpstreamError{Provider: "openrouter", StatusCode: resp.StatusCode(), Err: errors.New(out.Error.Message)}
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", &UpstreamError{Provider: "openrouter", Err: errEmptyCompletion}
	}

	return out.Choices[0].Message.Content, nil
}
