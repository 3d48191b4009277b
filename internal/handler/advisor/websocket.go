package advisor

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kbjinsurance/advisor/backend/internal/model/chat"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 54 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// Frame types exchanged on the advisor websocket.
const (
	frameMessage = "message"
	framePing    = "ping"
	frameReply   = "reply"
	framePong    = "pong"
	frameError   = "error"
	frameReady   = "connected"
)

type inboundFrame struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversationId,omitempty"`
	History        []chat.Turn `json:"history"`
	User           string      `json:"user"`
	Message        string      `json:"message,omitempty"`
}

type outgoingFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Data           any    `json:"data,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// handleWebSocket answers one reply frame per inbound message frame. Frames are
// processed in order, so a connection never has two turns in flight.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := h.logger.With(zap.String("connection_id", connID))
	logger.Debug("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	go pingLoop(ctx, conn)

	h.send(conn, logger, outgoingFrame{Type: frameReady, Data: map[string]string{"connectionId": connID}})

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Info("websocket read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch frame.Type {
		case framePing:
			h.send(conn, logger, outgoingFrame{Type: framePong, ConversationID: frame.ConversationID})
		case frameMessage:
			user := frame.User
			if user == "" {
				user = frame.Message
			}
			reply := h.svc.Respond(ctx, frame.History, user)
			logger.Info("advisor reply",
				zap.String("conversation_id", frame.ConversationID),
				zap.String("source", string(reply.Source)),
			)
			h.send(conn, logger, outgoingFrame{
				Type:           frameReply,
				ConversationID: frame.ConversationID,
				Data:           chat.AdvisorResponse{Reply: reply.Text, Source: reply.Source},
			})
		default:
			h.send(conn, logger, outgoingFrame{
				Type:           frameError,
				ConversationID: frame.ConversationID,
				Data:           map[string]string{"message": "unsupported frame type: " + frame.Type},
			})
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, logger *zap.Logger, frame outgoingFrame) {
	frame.Timestamp = time.Now().Unix()
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		logger.Warn("websocket write failed", zap.String("type", frame.Type), zap.Error(err))
	}
}

// pingLoop keeps idle connections alive. WriteControl is safe to call
// concurrently with the reader loop's writes.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
