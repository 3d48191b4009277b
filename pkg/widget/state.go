package widget

import (
	"errors"
	"net/mail"
	"slices"
	"strings"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

// ErrLeadInvalid is reported when a lead lacks a name or a usable email.
var ErrLeadInvalid = errors.New("please provide your name and a valid email")

// State is the widget's position in its lifecycle.
type State int

const (
	StateClosed State = iota
	StateOpenIdle
	StateOpenAwaitingReply
	StateOpenLeadCapture
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpenIdle:
		return "open-idle"
	case StateOpenAwaitingReply:
		return "open-awaiting-reply"
	case StateOpenLeadCapture:
		return "open-lead-capture"
	default:
		return "unknown"
	}
}

// Lead is the contact form content.
type Lead struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Validate checks the fields the agent needs to call back.
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrLeadInvalid
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(l.Email)); err != nil {
		return ErrLeadInvalid
	}
	return nil
}

// Session is one open-to-close lifetime of the widget. Transition never
// mutates the Session it is given.
type Session struct {
	State      State
	Transcript []chat.Turn
	// Ticket identifies the outstanding request; zero when none is in flight.
	Ticket uint64
	// LastTicket is the most recently issued ticket. It survives close so a
	// reopened session never reuses a ticket.
	LastTicket uint64
	// Notice is a transient validation message for the lead form.
	Notice string
}

// InputEnabled reports whether free text may be submitted.
func (s Session) InputEnabled() bool {
	return s.State == StateOpenIdle
}

// StartersOffered reports whether the canned openings are shown. They are
// offered only while the transcript holds the welcome turn alone.
func (s Session) StartersOffered() bool {
	return s.State == StateOpenIdle && len(s.Transcript) == 1
}

// Event is user or network input to the state machine.
type Event interface{ isEvent() }

type (
	// Open shows the widget.
	Open struct{}
	// Close hides the widget and discards the transcript.
	Close struct{}
	// Submit sends free text.
	Submit struct{ Text string }
	// ChooseStarter picks a canned opening by index.
	ChooseStarter struct{ Index int }
	// ReplyReceived carries the responder's answer for Ticket.
	ReplyReceived struct {
		Ticket uint64
		Text   string
	}
	// TransportFailed reports that the request for Ticket never produced a reply.
	TransportFailed struct {
		Ticket uint64
		Err    error
	}
	// LeadOptIn opens the callback form on request.
	LeadOptIn struct{}
	// LeadSubmit sends the callback form.
	LeadSubmit struct{ Lead Lead }
	// LeadResult reports the outcome of the lead submission for Ticket.
	LeadResult struct {
		Ticket uint64
		Err    error
	}
	// LeadCancel dismisses the callback form.
	LeadCancel struct{}
)

func (Open) isEvent()            {}
func (Close) isEvent()           {}
func (Submit) isEvent()          {}
func (ChooseStarter) isEvent()   {}
func (ReplyReceived) isEvent()   {}
func (TransportFailed) isEvent() {}
func (LeadOptIn) isEvent()       {}
func (LeadSubmit) isEvent()      {}
func (LeadResult) isEvent()      {}
func (LeadCancel) isEvent()      {}

// Effect is work the runtime performs after a transition.
type Effect interface{ isEffect() }

type (
	// SendRequest asks the responder for the next assistant turn.
	SendRequest struct {
		Ticket  uint64
		History []chat.Turn
		User    string
	}
	// SubmitLead forwards the callback form.
	SubmitLead struct {
		Ticket uint64
		Lead   Lead
	}
	// CancelInFlight abandons the outstanding request.
	CancelInFlight struct{}
	// ScrollToLatest keeps the newest turn in view.
	ScrollToLatest struct{}
)

func (SendRequest) isEffect()    {}
func (SubmitLead) isEffect()     {}
func (CancelInFlight) isEffect() {}
func (ScrollToLatest) isEffect() {}

// Transition applies ev to s. Events that do not apply in the current state
// return s unchanged with no effects.
func (sc Script) Transition(s Session, ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case Open:
		if s.State != StateClosed {
			return s, nil
		}
		return Session{
			State:      StateOpenIdle,
			Transcript: []chat.Turn{chat.AssistantTurn(sc.Welcome)},
			LastTicket: s.LastTicket,
		}, []Effect{ScrollToLatest{}}

	case Close:
		if s.State == StateClosed {
			return s, nil
		}
		var effects []Effect
		if s.Ticket != 0 {
			effects = append(effects, CancelInFlight{})
		}
		return Session{State: StateClosed, LastTicket: s.LastTicket}, effects

	case Submit:
		text := strings.TrimSpace(ev.Text)
		if s.State != StateOpenIdle || text == "" {
			return s, nil
		}
		history := slices.Clone(s.Transcript)
		next := s.issue()
		next.State = StateOpenAwaitingReply
		next.Transcript = appendTurns(s.Transcript, chat.UserTurn(text))
		return next, []Effect{
			SendRequest{Ticket: next.Ticket, History: history, User: text},
			ScrollToLatest{},
		}

	case ChooseStarter:
		if !s.StartersOffered() || ev.Index < 0 || ev.Index >= len(sc.Starters) {
			return s, nil
		}
		starter := sc.Starters[ev.Index]
		s.Transcript = appendTurns(s.Transcript, chat.UserTurn(starter.Prompt), chat.AssistantTurn(starter.Reply))
		return s, []Effect{ScrollToLatest{}}

	case ReplyReceived:
		if s.State != StateOpenAwaitingReply || ev.Ticket != s.Ticket {
			return s, nil
		}
		text := strings.TrimSpace(ev.Text)
		if text == "" {
			text = sc.Unavailable
		}
		s.Ticket = 0
		s.State = StateOpenIdle
		if sc.asksForLead(text) {
			s.State = StateOpenLeadCapture
		}
		s.Transcript = appendTurns(s.Transcript, chat.AssistantTurn(text))
		return s, []Effect{ScrollToLatest{}}

	case TransportFailed:
		if s.State != StateOpenAwaitingReply || ev.Ticket != s.Ticket {
			return s, nil
		}
		s.Ticket = 0
		s.State = StateOpenIdle
		s.Transcript = appendTurns(s.Transcript, chat.AssistantTurn(sc.Apology))
		return s, []Effect{ScrollToLatest{}}

	case LeadOptIn:
		if s.State != StateOpenIdle {
			return s, nil
		}
		s.State = StateOpenLeadCapture
		s.Notice = ""
		return s, []Effect{ScrollToLatest{}}

	case LeadSubmit:
		if s.State != StateOpenLeadCapture || s.Ticket != 0 {
			return s, nil
		}
		if err := ev.Lead.Validate(); err != nil {
			s.Notice = err.Error()
			return s, nil
		}
		next := s.issue()
		next.Notice = ""
		return next, []Effect{SubmitLead{Ticket: next.Ticket, Lead: ev.Lead}}

	case LeadResult:
		if s.State != StateOpenLeadCapture || ev.Ticket != s.Ticket || s.Ticket == 0 {
			return s, nil
		}
		reply := sc.LeadThanks
		if ev.Err != nil {
			reply = sc.LeadApology
		}
		s.Ticket = 0
		s.State = StateOpenIdle
		s.Transcript = appendTurns(s.Transcript, chat.AssistantTurn(reply))
		return s, []Effect{ScrollToLatest{}}

	case LeadCancel:
		if s.State != StateOpenLeadCapture {
			return s, nil
		}
		var effects []Effect
		if s.Ticket != 0 {
			effects = append(effects, CancelInFlight{})
		}
		s.Ticket = 0
		s.Notice = ""
		s.State = StateOpenIdle
		return s, effects
	}

	return s, nil
}

func (s Session) issue() Session {
	s.LastTicket++
	s.Ticket = s.LastTicket
	return s
}

// appendTurns never writes into the backing array of transcript.
func appendTurns(transcript []chat.Turn, turns ...chat.Turn) []chat.Turn {
	return append(slices.Clip(transcript), turns...)
}
