package advisor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbjinsurance/advisor/backend/internal/analysis/intent"
	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
	advisorService "github.com/kbjinsurance/advisor/backend/internal/service/advisor"
)

var testRoutes = site.NewRoutes("https://example.test")

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	entries, err := faq.Seed(testRoutes)
	require.NoError(t, err)

	svc := advisorService.NewService(faq.NewMemoryStore(entries), testRoutes, advisorService.Options{})
	handler := New(svc, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postAdvisor(t *testing.T, r http.Handler, body []byte) chat.AdvisorResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/advisor", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var out chat.AdvisorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Reply)
	return out
}

func TestAdvisorFAQReply(t *testing.T) {
	r := setupRouter(t)
	payload, _ := json.Marshal(chat.AdvisorRequest{
		History: []chat.Turn{chat.AssistantTurn("Welcome!")},
		User:    "What is term life insurance?",
	})

	out := postAdvisor(t, r, payload)

	assert.Equal(t, chat.SourceFAQ, out.Source)
	assert.Contains(t, out.Reply, "https://example.test/quote-and-apply")
}

func TestAdvisorDefaultReplyWithoutModel(t *testing.T) {
	r := setupRouter(t)

	out := postAdvisor(t, r, []byte(`{"history":[],"user":"asdkjasjdk"}`))

	assert.Equal(t, chat.SourceRule, out.Source)
	assert.Equal(t, intent.DefaultMessage(testRoutes), out.Reply)
}

func TestAdvisorAcceptsMessageAlias(t *testing.T) {
	r := setupRouter(t)

	out := postAdvisor(t, r, []byte(`{"message":"I want to review my budget","conversationId":"c-1"}`))

	assert.Equal(t, chat.SourceRule, out.Source)
	assert.Equal(t, "Upload your policy for a free audit: https://example.test/free-audit", out.Reply)
}

func TestAdvisorMalformedBodyStillReplies(t *testing.T) {
	r := setupRouter(t)

	out := postAdvisor(t, r, []byte(`{"history": [`))

	assert.Equal(t, chat.SourceRule, out.Source)
	assert.Equal(t, intent.DefaultMessage(testRoutes), out.Reply)
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func frameType(t *testing.T, frame map[string]json.RawMessage) string {
	t.Helper()
	var typ string
	require.NoError(t, json.Unmarshal(frame["type"], &typ))
	return typ
}

func TestWebSocketRepliesPerMessage(t *testing.T) {
	srv := httptest.NewServer(setupRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/advisor/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, frameReady, frameType(t, readFrame(t, conn)))

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	assert.Equal(t, framePong, frameType(t, readFrame(t, conn)))

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":           "message",
		"conversationId": "c-42",
		"history":        []chat.Turn{chat.AssistantTurn("Welcome!")},
		"user":           "Can I get a quote?",
	}))
	frame := readFrame(t, conn)
	require.Equal(t, frameReply, frameType(t, frame))

	var conversationID string
	require.NoError(t, json.Unmarshal(frame["conversationId"], &conversationID))
	assert.Equal(t, "c-42", conversationID)

	var reply chat.AdvisorResponse
	require.NoError(t, json.Unmarshal(frame["data"], &reply))
	assert.Equal(t, "I can get you started now: https://example.test/quote-and-apply", reply.Reply)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "audio"}))
	assert.Equal(t, frameError, frameType(t, readFrame(t, conn)))
}
