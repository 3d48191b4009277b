package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbjinsurance/advisor/backend/internal/analysis/intent"
	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

const testBase = "https://example.test"

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	calls   int
	history []chat.Turn
	user    string
}

func (f *fakeCompleter) Complete(ctx context.Context, history []chat.Turn, user string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.history = history
	f.user = user
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestService(t *testing.T, model Completer, timeout time.Duration) (*Service, []faq.Entry) {
	t.Helper()
	routes := site.NewRoutes(testBase)
	entries, err := faq.Seed(routes)
	require.NoError(t, err)

	svc := NewService(faq.NewMemoryStore(entries), routes, Options{
		Model:      model,
		Timeout:    timeout,
		Registerer: prometheus.NewRegistry(),
	})
	return svc, entries
}

func TestRespondFAQHitSkipsModel(t *testing.T) {
	model := &fakeCompleter{reply: "should not be used"}
	svc, entries := newTestService(t, model, time.Second)

	reply := svc.Respond(context.Background(), nil, "What is term life insurance?")

	assert.Equal(t, chat.SourceFAQ, reply.Source)
	assert.Equal(t, 1, reply.FAQIndex)
	assert.Equal(t, entries[1].Answer, reply.Text)
	assert.Zero(t, model.callCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.replies.WithLabelValues("faq")))
}

func TestRespondEveryQuestionVerbatimNeverCallsModel(t *testing.T) {
	model := &fakeCompleter{reply: "nope"}
	svc, entries := newTestService(t, model, time.Second)

	for i, entry := range entries {
		reply := svc.Respond(context.Background(), nil, entry.Question)
		require.Equal(t, chat.SourceFAQ, reply.Source, "question %d", i)
		require.Equal(t, entry.Answer, reply.Text, "question %d", i)
	}
	assert.Zero(t, model.callCount())
}

func TestRespondUnconfiguredModelFallsToDefault(t *testing.T) {
	svc, _ := newTestService(t, nil, 0)

	reply := svc.Respond(context.Background(), nil, "asdkjasjdk")

	assert.Equal(t, chat.SourceRule, reply.Source)
	assert.Equal(t, intent.Learn, reply.Intent)
	assert.Equal(t, intent.DefaultMessage(site.NewRoutes(testBase)), reply.Text)
	assert.False(t, svc.ModelEnabled())
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.failures.WithLabelValues(FailureUnconfigured)))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.replies.WithLabelValues("rule")))
}

func TestRespondUsesModelWithFullHistory(t *testing.T) {
	model := &fakeCompleter{reply: "  Let's start with an audit: https://example.test/free-audit  "}
	svc, _ := newTestService(t, model, time.Second)

	history := []chat.Turn{chat.AssistantTurn("Welcome!"), chat.UserTurn("hello")}
	reply := svc.Respond(context.Background(), history, "asdkjasjdk")

	assert.Equal(t, chat.SourceModel, reply.Source)
	assert.Equal(t, "Let's start with an audit: https://example.test/free-audit", reply.Text)
	assert.Equal(t, -1, reply.FAQIndex)
	assert.Equal(t, 1, model.callCount())
	assert.Equal(t, history, model.history)
	assert.Equal(t, "asdkjasjdk", model.user)
}

func TestRespondEmptyUtteranceGoesToModel(t *testing.T) {
	model := &fakeCompleter{reply: "How can I help?"}
	svc, _ := newTestService(t, model, time.Second)

	reply := svc.Respond(context.Background(), nil, "")

	assert.Equal(t, chat.SourceModel, reply.Source)
	assert.Equal(t, 1, model.callCount())
}

func TestRespondModelFailuresFallBackToRules(t *testing.T) {
	tests := []struct {
		name   string
		model  *fakeCompleter
		reason string
	}{
		{name: "error", model: &fakeCompleter{err: errors.New("status 502")}, reason: FailureError},
		{name: "empty", model: &fakeCompleter{reply: "   "}, reason: FailureEmpty},
		{name: "timeout", model: &fakeCompleter{block: true}, reason: FailureTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService(t, tc.model, 20*time.Millisecond)

			reply := svc.Respond(context.Background(), nil, "Can I schedule something?")

			assert.Equal(t, chat.SourceRule, reply.Source)
			assert.Equal(t, intent.Contact, reply.Intent)
			assert.Equal(t, "Book a quick call here: https://example.test/contact", reply.Text)
			assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.failures.WithLabelValues(tc.reason)))
		})
	}
}

func TestRespondQuoteBeatsAudit(t *testing.T) {
	svc, _ := newTestService(t, nil, 0)

	reply := svc.Respond(context.Background(), nil, "Can I get a quote and an audit?")

	assert.Equal(t, chat.SourceRule, reply.Source)
	assert.Equal(t, intent.GetQuote, reply.Intent)
	assert.Equal(t, "I can get you started now: https://example.test/quote-and-apply", reply.Text)
}

func TestNewServiceWithoutRegisterer(t *testing.T) {
	routes := site.NewRoutes("")
	svc := NewService(faq.NewMemoryStore(nil), routes, Options{})

	reply := svc.Respond(context.Background(), nil, "what is term life")
	assert.Equal(t, chat.SourceRule, reply.Source)
	assert.NotEmpty(t, reply.Text)
}
