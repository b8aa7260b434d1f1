package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
)

const (
	AnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

type anthropicProvider struct {
	model  string
	client *resty.Client
}

type anthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropic returns a provider for the Anthropic Messages API.
func NewAnthropic(apiKey, model, baseURL string) CompletionProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60*time.Second).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &anthropicProvider{
		model:  model,
		client: client,
	}
}

func (p *anthropicProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var out anthropicResponse
	var apiErr anthropicError

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(anthropicRequest{
			Model:     p.model,
			MaxTokens: maxTokens,
			Messages:  []Message{{Role: "user", Content: prompt}},
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", &UpstreamError{Provider: "anthropic", Err: err}
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return "", &UpstreamError{Provider: "anthropic", StatusCode: resp.StatusCode(), Err: errors.New(msg)}
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &UpstreamError{Provider: "anthropic", Err: errEmptyCompletion}
	}

	return sb.String(), nil
}
