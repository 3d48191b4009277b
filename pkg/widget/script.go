package widget

import (
	"strings"

	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

// Starter is a canned opening offered under the welcome turn. Choosing one
// answers locally without calling the responder.
type Starter struct {
	Prompt string
	Reply  string
}

// Script holds the fixed copy the widget shows.
type Script struct {
	Welcome string
	// Unavailable replaces a blank responder reply.
	Unavailable string
	// Apology is appended once when the responder cannot be reached.
	Apology      string
	LeadThanks   string
	LeadApology  string
	Starters     []Starter
	LeadTriggers []string
}

// DefaultScript returns the site copy with links bound to routes.
func DefaultScript(routes site.Routes) Script {
	return Script{
		Welcome:     "Welcome! I'm the Strategic Advisor for Kevin Brown Jr. Insurance. How can I help you today? You can ask about quotes, policy audits, or our solutions.",
		Unavailable: "Sorry, I'm having trouble connecting. Please try again later.",
		Apology:     "Sorry, something went wrong. Please try again.",
		LeadThanks:  "Thank you! An agent will be in touch with you soon.",
		LeadApology: "Sorry, there was an error submitting your information. Please try again later.",
		Starters: []Starter{
			{
				Prompt: "I need a new policy.",
				Reply:  routes.Expand("Understood. Our Quote & Apply tool gives you a full, transparent view of the market. You can access it here: {quote}"),
			},
			{
				Prompt: "I want to review my current policy.",
				Reply:  routes.Expand("Excellent. A strategic audit is the best way to find hidden savings and gaps. You can start the free, confidential process here: {audit}"),
			},
			{
				Prompt: "I have a general question.",
				Reply:  "Ask away. I will pull the answer from our Legacy Playbook.",
			},
		},
		LeadTriggers: []string{
			"Please provide your details in the form",
			"What is your name, email, and phone number?",
		},
	}
}

// asksForLead reports whether an assistant reply is asking for contact details.
func (s Script) asksForLead(reply string) bool {
	for _, trigger := range s.LeadTriggers {
		if trigger != "" && strings.Contains(reply, trigger) {
			return true
		}
	}
	return false
}
