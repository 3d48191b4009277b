package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/kbjinsurance/advisor/backend/internal/config"
	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

// geminiProvider calls Google's Gemini API through the genai SDK.
type geminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

func newGeminiProvider(ctx context.Context, cfg config.AIConfig) (*geminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	p := &geminiProvider{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
	}
	if cfg.MaxTokens != nil {
		p.maxTokens = int32(*cfg.MaxTokens)
	}
	return p, nil
}

func (p *geminiProvider) name() string {
	return string(config.ProviderGemini)
}

func (p *geminiProvider) generate(ctx context.Context, system string, history []chat.Turn, user string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(p.temperature),
	}
	if p.maxTokens > 0 {
		genCfg.MaxOutputTokens = p.maxTokens
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(history, user), genCfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyCompletion
	}
	return resp.Text(), nil
}

// geminiContents maps transcript roles onto Gemini's user/model roles.
func geminiContents(history []chat.Turn, user string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == chat.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return append(contents, genai.NewContentFromText(user, genai.RoleUser))
}
