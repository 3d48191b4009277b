package chat

import "strings"

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of a conversation transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a user turn.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Valid reports whether the turn has a known role and non-blank content.
func (t Turn) Valid() bool {
	if t.Role != RoleUser && t.Role != RoleAssistant {
		return false
	}
	return strings.TrimSpace(t.Content) != ""
}

// Sanitize drops turns that cannot be forwarded to a model. Consecutive
// same-role turns are kept as-is.
func Sanitize(history []Turn) []Turn {
	if len(history) == 0 {
		return nil
	}

	cleaned := make([]Turn, 0, len(history))
	for _, turn := range history {
		if turn.Valid() {
			cleaned = append(cleaned, turn)
		}
	}
	return cleaned
}
