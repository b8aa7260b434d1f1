package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type openAIProvider struct {
	chatModel model.ChatModel
}

// NewOpenAI returns a provider for any OpenAI-compatible chat endpoint.
// An empty baseURL targets api.openai.com.
func NewOpenAI(ctx context.Context, apiKey, modelName, baseURL string) (CompletionProvider, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &openAIProvider{chatModel: chatModel}, nil
}

func (p *openAIProvider) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := p.chatModel.Generate(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", &UpstreamError{Provider: "openai", Err: err}
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", &UpstreamError{Provider: "openai", Err: errEmptyCompletion}
	}

	return resp.Content, nil
}
