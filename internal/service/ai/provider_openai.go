package ai

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbjinsurance/advisor/backend/internal/config"
	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

// openAIProvider talks to any OpenAI-compatible {base}/v1/chat/completions endpoint.
type openAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIProvider(cfg config.AIConfig) *openAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL + "/v1"
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	p := &openAIProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}
	if cfg.MaxTokens != nil {
		p.maxTokens = *cfg.MaxTokens
	}
	return p
}

func (p *openAIProvider) name() string {
	return string(config.ProviderOpenAI)
}

func (p *openAIProvider) generate(ctx context.Context, system string, history []chat.Turn, user string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == chat.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Messages:    messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
