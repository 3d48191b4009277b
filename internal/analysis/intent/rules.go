package intent

import (
	"fmt"
	"strings"

	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

// Reply is the outcome of the rule-based responder.
type Reply struct {
	Intent Label
	Text   string
	// Keyword is the trigger that selected the branch; empty for the default reply.
	Keyword string
}

type rule struct {
	intent   Label
	keywords []string
	reply    func(site.Routes) string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{
		intent:   GetQuote,
		keywords: []string{"quote"},
		reply: func(r site.Routes) string {
			return fmt.Sprintf("I can get you started now: %s", r.Quote)
		},
	},
	{
		intent:   AuditPolicy,
		keywords: []string{"audit", "review"},
		reply: func(r site.Routes) string {
			return fmt.Sprintf("Upload your policy for a free audit: %s", r.Audit)
		},
	},
	{
		intent:   BudgetFirst,
		keywords: []string{"budget"},
		reply: func(r site.Routes) string {
			return fmt.Sprintf("Try the Budget‑First tool: %s", r.Solutions)
		},
	},
	{
		intent:   Contact,
		keywords: []string{"call", "contact", "schedule"},
		reply: func(r site.Routes) string {
			return fmt.Sprintf("Book a quick call here: %s", r.Contact)
		},
	},
	{
		intent:   GetQuote,
		keywords: []string{"ethos"},
		reply: func(r site.Routes) string {
			return fmt.Sprintf("Ethos is a modern life insurer we can quote. To compare options, start here: %s", r.Quote)
		},
	},
}

// Responder routes text to a canned reply by keyword. It never fails.
type Responder struct {
	routes site.Routes
}

// NewResponder binds the canned replies to routes.
func NewResponder(routes site.Routes) *Responder {
	return &Responder{routes: routes}
}

// Respond returns the reply of the first matching rule, or the default
// message listing every primary route.
func (r *Responder) Respond(text string) Reply {
	normalized := strings.ToLower(text)
	for _, candidate := range rules {
		for _, keyword := range candidate.keywords {
			if strings.Contains(normalized, keyword) {
				return Reply{Intent: candidate.intent, Text: candidate.reply(r.routes), Keyword: keyword}
			}
		}
	}
	return Reply{Intent: Learn, Text: DefaultMessage(r.routes)}
}

// DefaultMessage enumerates the primary routes.
func DefaultMessage(routes site.Routes) string {
	return fmt.Sprintf(
		"Here are quick paths: Free Audit → %s · Budget‑First → %s · Get a Quote → %s · Talk to Kevin → %s",
		routes.Audit, routes.Solutions, routes.Quote, routes.Contact,
	)
}
