package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"

	"github.com/kbjinsurance/advisor/backend/internal/config"
	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

var (
	// ErrEmptyCompletion is returned when the model answers with no text.
	ErrEmptyCompletion = errors.New("model returned an empty completion")
	// ErrProviderUnsupported is returned for an unknown provider name.
	ErrProviderUnsupported = errors.New("unsupported model provider")
	// ErrNotConfigured is returned when the provider lacks its base URL or credential.
	ErrNotConfigured = errors.New("model provider not configured")
)

// provider is one chat-completion backend.
type provider interface {
	name() string
	generate(ctx context.Context, system string, history []chat.Turn, user string) (string, error)
}

// Service sends the site prompt, history and user turn to the configured model.
type Service struct {
	provider provider
	system   string
	logger   *zap.Logger
}

// NewService builds the provider selected by cfg.
func NewService(ctx context.Context, cfg config.AIConfig, routes site.Routes, logger *zap.Logger) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%s: %w", cfg.Provider, ErrNotConfigured)
	}

	var (
		p   provider
		err error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		p = newOpenAIProvider(cfg)
	case config.ProviderGemini:
		p, err = newGeminiProvider(ctx, cfg)
	case config.ProviderArk:
		var chatModel model.ChatModel
		chatModel, err = cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		p, err = newEinoProvider(ctx, chatModel)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Provider, ErrProviderUnsupported)
	}
	if err != nil {
		return nil, err
	}

	return newService(p, routes, logger), nil
}

// NewServiceWithChatModel wires an arbitrary eino chat model behind the site prompt.
func NewServiceWithChatModel(ctx context.Context, chatModel model.ChatModel, routes site.Routes, logger *zap.Logger) (*Service, error) {
	p, err := newEinoProvider(ctx, chatModel)
	if err != nil {
		return nil, err
	}
	return newService(p, routes, logger), nil
}

func newService(p provider, routes site.Routes, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: p,
		system:   DefaultSitePrompt(routes).Build(),
		logger:   logger.Named("ai"),
	}
}

// Provider returns the backend name, for logs and metrics.
func (s *Service) Provider() string {
	return s.provider.name()
}

// SystemPrompt returns the prompt sent ahead of every conversation.
func (s *Service) SystemPrompt() string {
	return s.system
}

// Complete asks the model for the next assistant turn. Invalid history turns are dropped.
func (s *Service) Complete(ctx context.Context, history []chat.Turn, user string) (string, error) {
	reply, err := s.provider.generate(ctx, s.system, chat.Sanitize(history), user)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", s.provider.name(), err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyCompletion
	}

	s.logger.Debug("model replied",
		zap.String("provider", s.provider.name()),
		zap.Int("history", len(history)),
		zap.Int("length", len(reply)),
	)
	return reply, nil
}
