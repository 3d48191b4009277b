package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

// einoProvider runs ChatTemplate -> ChatModel as a compiled eino chain.
type einoProvider struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

func newEinoProvider(ctx context.Context, chatModel model.ChatModel) (*einoProvider, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &einoProvider{chain: runnable}, nil
}

func (p *einoProvider) name() string {
	return "eino"
}

func (p *einoProvider) generate(ctx context.Context, system string, history []chat.Turn, user string) (string, error) {
	response, err := p.chain.Invoke(ctx, map[string]any{
		"system":  system,
		"history": historyMessages(history),
		"query":   user,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}
	if response == nil {
		return "", ErrEmptyCompletion
	}
	return response.Content, nil
}

func historyMessages(history []chat.Turn) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	messages := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return messages
}
