package chat

// Source names the stage that produced a reply.
type Source string

const (
	SourceFAQ   Source = "faq"
	SourceModel Source = "model"
	SourceRule  Source = "rule"
)

// AdvisorRequest is the body accepted by the advisor endpoint. Message is an
// alias for User kept for widget builds that post {message: ...}.
type AdvisorRequest struct {
	History        []Turn `json:"history"`
	User           string `json:"user"`
	Message        string `json:"message,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Utterance returns the user text, preferring User over the Message alias.
func (r AdvisorRequest) Utterance() string {
	if r.User != "" {
		return r.User
	}
	return r.Message
}

// AdvisorResponse is returned on every handled path.
type AdvisorResponse struct {
	Reply  string `json:"reply"`
	Source Source `json:"source,omitempty"`
}
