package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	faqmatch "github.com/kbjinsurance/advisor/backend/internal/analysis/faq"
	"github.com/kbjinsurance/advisor/backend/internal/analysis/intent"
	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
	"github.com/kbjinsurance/advisor/backend/internal/service/ai"
)

// DefaultModelTimeout bounds a model call when Options.Timeout is unset.
const DefaultModelTimeout = 10 * time.Second

// Completer produces the next assistant turn from an external model.
type Completer interface {
	Complete(ctx context.Context, history []chat.Turn, user string) (string, error)
}

// Options tunes the orchestration.
type Options struct {
	// Model is optional; nil skips the model stage.
	Model      Completer
	Timeout    time.Duration
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

// Reply is the answer to one chat turn.
type Reply struct {
	Text   string
	Source chat.Source
	// Intent is set for rule replies only.
	Intent intent.Label
	// FAQIndex is the matched entry for FAQ replies, -1 otherwise.
	FAQIndex int
}

// Service answers chat turns: FAQ bank first, then the model, then the keyword rules.
// It holds no per-conversation state and is safe for concurrent use.
type Service struct {
	matcher *faqmatch.Matcher
	rules   *intent.Responder
	model   Completer
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics
}

// NewService builds the orchestrator over a fixed FAQ bank.
func NewService(store faq.Store, routes site.Routes, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}

	return &Service{
		matcher: faqmatch.NewMatcher(store.List()),
		rules:   intent.NewResponder(routes),
		model:   opts.Model,
		timeout: timeout,
		logger:  logger.Named("advisor"),
		metrics: newMetrics(opts.Registerer),
	}
}

// ModelEnabled reports whether the model stage will be attempted.
func (s *Service) ModelEnabled() bool {
	return s.model != nil
}

// Respond answers user given the prior history. It never fails; the rule
// responder is the floor for every path.
func (s *Service) Respond(ctx context.Context, history []chat.Turn, user string) Reply {
	if match := s.matcher.Match(user); match.Matched {
		return s.finish(Reply{Text: match.Answer, Source: chat.SourceFAQ, FAQIndex: match.Index})
	}

	if text, ok := s.tryModel(ctx, history, user); ok {
		return s.finish(Reply{Text: text, Source: chat.SourceModel, FAQIndex: -1})
	}

	rule := s.rules.Respond(user)
	return s.finish(Reply{Text: rule.Text, Source: chat.SourceRule, Intent: rule.Intent, FAQIndex: -1})
}

// Fallback returns the default rule reply. Handlers use it when a request body
// cannot be read at all.
func (s *Service) Fallback() Reply {
	rule := s.rules.Respond("")
	return s.finish(Reply{Text: rule.Text, Source: chat.SourceRule, Intent: rule.Intent, FAQIndex: -1})
}

func (s *Service) tryModel(ctx context.Context, history []chat.Turn, user string) (string, bool) {
	if s.model == nil {
		s.metrics.failures.WithLabelValues(FailureUnconfigured).Inc()
		return "", false
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.model.Complete(callCtx, history, user)
	latency := time.Since(start)
	s.metrics.modelLatency.Observe(latency.Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = ai.ErrEmptyCompletion
	}
	if err != nil {
		reason := failureReason(err)
		s.metrics.failures.WithLabelValues(reason).Inc()
		s.logger.Warn("model stage failed, falling back to rules",
			zap.String("reason", reason),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return "", false
	}

	return strings.TrimSpace(text), true
}

func (s *Service) finish(reply Reply) Reply {
	s.metrics.replies.WithLabelValues(string(reply.Source)).Inc()
	s.logger.Debug("reply produced",
		zap.String("source", string(reply.Source)),
		zap.String("intent", string(reply.Intent)),
		zap.Int("faq_index", reply.FAQIndex),
	)
	return reply
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, ai.ErrEmptyCompletion):
		return FailureEmpty
	default:
		return FailureError
	}
}
