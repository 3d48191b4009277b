package widget

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

// DefaultRequestTimeout bounds one responder call from the widget.
const DefaultRequestTimeout = 15 * time.Second

// Request is what the widget sends for one turn.
type Request struct {
	ConversationID string
	History        []chat.Turn
	User           string
}

// Responder returns the assistant's next turn. Any error is a transport failure.
type Responder interface {
	Reply(ctx context.Context, req Request) (string, error)
}

// LeadSubmitter forwards a callback request to the form-processing service.
type LeadSubmitter interface {
	SubmitLead(ctx context.Context, conversationID string, lead Lead) error
}

// Snapshot is the view model rendered after every change.
type Snapshot struct {
	ConversationID  string
	State           State
	Transcript      []chat.Turn
	InputEnabled    bool
	StartersOffered bool
	Starters        []string
	Notice          string
}

// View renders the widget. Calls are serialized and must not re-enter the Controller.
type View interface {
	Render(Snapshot)
	ScrollToLatest()
}

// Options configures a Controller.
type Options struct {
	// Script defaults to DefaultScript for the public site.
	Script  Script
	Leads   LeadSubmitter
	View    View
	Timeout time.Duration
	Logger  *zap.Logger
	// ConversationID overrides the generated id.
	ConversationID string
}

// Controller runs the widget state machine against real transports. One
// Controller belongs to one browser; it issues at most one request at a time.
type Controller struct {
	mu             sync.Mutex
	script         Script
	session        Session
	responder      Responder
	leads          LeadSubmitter
	view           View
	timeout        time.Duration
	conversationID string
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	logger         *zap.Logger
}

// NewController creates a closed widget.
func NewController(responder Responder, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	script := opts.Script
	if script.Welcome == "" {
		script = DefaultScript(site.NewRoutes(""))
	}
	conversationID := opts.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	return &Controller{
		script:         script,
		responder:      responder,
		leads:          opts.Leads,
		view:           opts.View,
		timeout:        timeout,
		conversationID: conversationID,
		logger:         logger.Named("widget").With(zap.String("conversation_id", conversationID)),
	}
}

// ConversationID is stable for the Controller's lifetime, across close and reopen.
func (c *Controller) ConversationID() string {
	return c.conversationID
}

func (c *Controller) Open()                { c.dispatch(Open{}) }
func (c *Controller) Close()               { c.dispatch(Close{}) }
func (c *Controller) Submit(text string)   { c.dispatch(Submit{Text: text}) }
func (c *Controller) ChooseStarter(i int)  { c.dispatch(ChooseStarter{Index: i}) }
func (c *Controller) RequestCallback()     { c.dispatch(LeadOptIn{}) }
func (c *Controller) SubmitLead(lead Lead) { c.dispatch(LeadSubmit{Lead: lead}) }
func (c *Controller) CancelLead()          { c.dispatch(LeadCancel{}) }

// Snapshot returns the current view model.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every request goroutine has delivered its outcome.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.session
	next, effects := c.script.Transition(prev, ev)
	c.session = next

	scroll := false
	for _, effect := range effects {
		switch effect := effect.(type) {
		case SendRequest:
			c.startReply(effect)
		case SubmitLead:
			c.startLead(effect)
		case CancelInFlight:
			if c.cancel != nil {
				c.cancel()
				c.cancel = nil
			}
		case ScrollToLatest:
			scroll = true
		}
	}

	if prev.State != next.State {
		c.logger.Debug("widget transition",
			zap.Stringer("from", prev.State),
			zap.Stringer("to", next.State),
		)
	}

	if c.view != nil && (len(effects) > 0 || !sameSession(prev, next)) {
		c.view.Render(c.snapshotLocked())
		if scroll {
			c.view.ScrollToLatest()
		}
	}
}

func (c *Controller) startReply(req SendRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		text, err := c.responder.Reply(ctx, Request{
			ConversationID: c.conversationID,
			History:        req.History,
			User:           req.User,
		})
		if err != nil {
			c.logger.Warn("responder unreachable", zap.Uint64("ticket", req.Ticket), zap.Error(err))
			c.dispatch(TransportFailed{Ticket: req.Ticket, Err: err})
			return
		}
		c.dispatch(ReplyReceived{Ticket: req.Ticket, Text: text})
	}()
}

func (c *Controller) startLead(req SubmitLead) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		var err error
		if c.leads == nil {
			err = ErrTransport
		} else {
			err = c.leads.SubmitLead(ctx, c.conversationID, req.Lead)
		}
		if err != nil {
			c.logger.Warn("lead submission failed", zap.Error(err))
		}
		c.dispatch(LeadResult{Ticket: req.Ticket, Err: err})
	}()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		ConversationID:  c.conversationID,
		State:           c.session.State,
		Transcript:      slices.Clone(c.session.Transcript),
		InputEnabled:    c.session.InputEnabled(),
		StartersOffered: c.session.StartersOffered(),
		Notice:          c.session.Notice,
	}
	if snap.StartersOffered {
		for _, starter := range c.script.Starters {
			snap.Starters = append(snap.Starters, starter.Prompt)
		}
	}
	return snap
}

func sameSession(a, b Session) bool {
	return a.State == b.State && a.Ticket == b.Ticket && a.Notice == b.Notice && len(a.Transcript) == len(b.Transcript)
}
