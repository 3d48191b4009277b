package ai

import (
	"fmt"
	"strings"

	"github.com/kbjinsurance/advisor/backend/internal/analysis/intent"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

// LeadCapturePhrase is the exact reply that makes the widget open its callback form.
const LeadCapturePhrase = "I can have an agent reach out. Please provide your details in the form."

// SitePrompt describes the identity and rules the model must follow.
type SitePrompt struct {
	Identity string
	Tone     string
	Tagline  string
	Goal     string
	Routes   site.Routes
}

// DefaultSitePrompt returns the advisor persona bound to routes.
func DefaultSitePrompt(routes site.Routes) SitePrompt {
	return SitePrompt{
		Identity: `You are the "Strategic Advisor" for Kevin Brown Jr. Insurance.`,
		Tone:     "confident, empathetic, slightly provocative",
		Tagline:  "More Than a Policy. A Partnership.",
		Goal:     "guide visitors to the right next step with clear links, not long essays.",
		Routes:   routes,
	}
}

// Build renders the system prompt sent ahead of the conversation history.
func (p SitePrompt) Build() string {
	labels := intent.Labels()
	names := make([]string, len(labels))
	for i, label := range labels {
		names[i] = string(label)
	}

	return fmt.Sprintf(`%s
Tone: %s. Tagline: "%s"
Primary goal: %s

Routes:
- Quote & Apply: %s
- Free Policy Audit: %s
- Solutions (Budget-First tool): %s
- Contact / Book: %s
- Articles: %s
- Founder Profile: %s

Rules: Identify intent {%s}, give concise next steps + 1–2 links. Answer in 2–6 sentences.
If the visitor asks to talk to a human, reply only with: "%s"`,
		p.Identity,
		p.Tone,
		p.Tagline,
		p.Goal,
		p.Routes.Quote,
		p.Routes.Audit,
		p.Routes.Solutions,
		p.Routes.Contact,
		p.Routes.Articles,
		p.Routes.Founder,
		strings.Join(names, "|"),
		LeadCapturePhrase,
	)
}
