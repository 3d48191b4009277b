package intent

// Label is one of the closed set of visitor intents the advisor recognizes.
type Label string

const (
	GetQuote    Label = "get_quote"
	AuditPolicy Label = "audit_policy"
	BudgetFirst Label = "budget_first"
	Contact     Label = "contact"
	Learn       Label = "learn"
)

// Labels lists every intent in prompt order.
func Labels() []Label {
	return []Label{GetQuote, AuditPolicy, BudgetFirst, Contact, Learn}
}
