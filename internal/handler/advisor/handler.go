package advisor

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
	advisorService "github.com/kbjinsurance/advisor/backend/internal/service/advisor"
	"github.com/kbjinsurance/advisor/backend/pkg/utils"
)

// Responder answers one chat turn.
type Responder interface {
	Respond(ctx context.Context, history []chat.Turn, user string) advisorService.Reply
	Fallback() advisorService.Reply
}

// Handler serves the advisor endpoints.
type Handler struct {
	svc      Responder
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// New creates the advisor handler.
func New(svc Responder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		logger: logger.Named("handler.advisor"),
		upgrader: websocket.Upgrader{
			// The widget is embedded on page-builder hosts we do not control.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// RegisterRoutes mounts the advisor routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/advisor", h.handleAdvisor)
	r.Get("/advisor/ws", h.handleWebSocket)
}

// handleAdvisor answers {history, user} with {reply, source}. Every handled
// path is a 200, including an unreadable body.
func (h *Handler) handleAdvisor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := h.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))

	var payload chat.AdvisorRequest
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		logger.Warn("unreadable advisor request, sending default reply", zap.Error(err))
		reply := h.svc.Fallback()
		utils.RespondJSON(w, http.StatusOK, chat.AdvisorResponse{Reply: reply.Text, Source: reply.Source})
		return
	}

	reply := h.svc.Respond(r.Context(), payload.History, payload.Utterance())

	logger.Info("advisor reply",
		zap.String("conversation_id", payload.ConversationID),
		zap.String("source", string(reply.Source)),
		zap.String("intent", string(reply.Intent)),
		zap.Int("history", len(payload.History)),
		zap.Duration("latency", time.Since(start)),
	)

	utils.RespondJSON(w, http.StatusOK, chat.AdvisorResponse{Reply: reply.Text, Source: reply.Source})
}
