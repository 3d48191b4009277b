package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

// ErrTransport marks a failure to reach the responder or the form service.
var ErrTransport = errors.New("transport failed")

// DefaultLeadFormName is the form the site's form-processing service files chat leads under.
const DefaultLeadFormName = "chat-lead"

const maxReplyBytes = 1 << 20

// HTTPResponder posts turns to the advisor endpoint.
type HTTPResponder struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPResponder targets endpoint, e.g. https://host/api/advisor.
func NewHTTPResponder(endpoint string, client *http.Client) *HTTPResponder {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResponder{Endpoint: endpoint, Client: client}
}

// Reply implements Responder. A non-200 status or an unreadable body is a
// transport failure; a readable body with a blank reply is returned as "".
func (r *HTTPResponder) Reply(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chat.AdvisorRequest{
		History:        req.History,
		User:           req.User,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return "", fmt.Errorf("encode advisor request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build advisor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
		return "", fmt.Errorf("%w: advisor returned status %d", ErrTransport, resp.StatusCode)
	}

	var out chat.AdvisorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode advisor reply: %w", ErrTransport, err)
	}
	return out.Reply, nil
}

// FormLeadSubmitter posts leads as a url-encoded form with the form-name and
// honeypot fields the site's form-processing service expects.
type FormLeadSubmitter struct {
	Endpoint string
	FormName string
	Client   *http.Client
}

// NewFormLeadSubmitter targets endpoint with DefaultLeadFormName.
func NewFormLeadSubmitter(endpoint string, client *http.Client) *FormLeadSubmitter {
	if client == nil {
		client = http.DefaultClient
	}
	return &FormLeadSubmitter{Endpoint: endpoint, FormName: DefaultLeadFormName, Client: client}
}

// SubmitLead implements LeadSubmitter. Any 2xx status is success.
func (s *FormLeadSubmitter) SubmitLead(ctx context.Context, conversationID string, lead Lead) error {
	form := url.Values{}
	form.Set("form-name", s.FormName)
	form.Set("bot-field", "")
	form.Set("name", strings.TrimSpace(lead.Name))
	form.Set("email", strings.TrimSpace(lead.Email))
	form.Set("phone", strings.TrimSpace(lead.Phone))
	form.Set("message", strings.TrimSpace(lead.Message))
	form.Set("conversation-id", conversationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build lead request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: form service returned status %d", ErrTransport, resp.StatusCode)
	}
	return nil
}
