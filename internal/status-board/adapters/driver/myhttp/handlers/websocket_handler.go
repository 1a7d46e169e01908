package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"iitk-connect/internal/mylogger"
	"iitk-connect/internal/status-board/core/domain/dto"
	websocketdto "iitk-connect/internal/status-board/core/domain/websocket_dto"
	"iitk-connect/internal/status-board/core/myerrors"
	"iitk-connect/internal/status-board/core/ports/driver"

	"github.com/gorilla/websocket"
)

const (
	authTimeout  = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	maxFrameSize = 4 << 10
)

const (
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeInternal       = "internal"
)

// WebSocketHandler lets the driver app send codes over one long-lived
// connection. Every status frame gets exactly one status_ack.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	auth     driver.IAuthService
	status   driver.IStatusService
	mylog    mylogger.Logger
}

func NewWebSocketHandler(auth driver.IAuthService, status driver.IStatusService, mylog mylogger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		auth:   auth,
		status: status,
		mylog:  mylog,
	}
}

func (h *WebSocketHandler) HandleDriver(w http.ResponseWriter, r *http.Request) {
	mylog := LoggerFrom(r.Context(), h.mylog).Action("driver_ws")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		mylog.Debug("upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	claims, ok := h.authenticate(conn, mylog)
	if !ok {
		return
	}
	mylog = mylog.With("phone", claims.Phone)
	mylog.Info("driver connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go h.handlePingPong(ctx, conn)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				mylog.Debug("connection dropped", "error", err.Error())
			}
			mylog.Info("driver disconnected")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if err := h.handleFrame(ctx, conn, claims.Phone, message, mylog); err != nil {
			return
		}
	}
}

// authenticate expects {type:"auth", token} as the first frame within authTimeout.
func (h *WebSocketHandler) authenticate(conn *websocket.Conn, mylog mylogger.Logger) (dto.TokenClaims, bool) {
	conn.SetReadDeadline(time.Now().Add(authTimeout))

	var msg websocketdto.AuthMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != websocketdto.MessageTypeAuth {
		mylog.Debug("no auth frame")
		_ = writeError(conn, ErrCodeUnauthorized, "first message must be an auth frame")
		return dto.TokenClaims{}, false
	}

	token := strings.TrimSpace(msg.Token)
	if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = "Bearer " + token
	}
	claims, err := h.auth.VerifyToken(token)
	if err != nil {
		code := ErrCodeForbidden
		if errors.Is(err, myerrors.ErrUnauthorized) {
			code = ErrCodeUnauthorized
		}
		mylog.Debug("auth frame rejected", "error", err.Error())
		_ = writeError(conn, code, "invalid token")
		return dto.TokenClaims{}, false
	}

	if err := writeJSON(conn, websocketdto.WebSocketMessage{Type: websocketdto.MessageTypeAuthOK}); err != nil {
		return dto.TokenClaims{}, false
	}
	return claims, true
}

// handleFrame only returns an error when the connection can no longer be written to.
func (h *WebSocketHandler) handleFrame(ctx context.Context, conn *websocket.Conn, phone string, message []byte, mylog mylogger.Logger) error {
	var msg websocketdto.StatusMessage
	if err := json.Unmarshal(message, &msg); err != nil || msg.Type != websocketdto.MessageTypeStatus {
		return writeError(conn, ErrCodeInvalidMessage, "expected a status frame")
	}

	opCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
	defer cancel()

	res, err := h.status.ApplyUpdate(opCtx, phone, msg.Code)
	if err != nil && !errors.Is(err, myerrors.ErrInvalidCode) && !errors.Is(err, myerrors.ErrDriverNotFound) {
		mylog.Error("status update failed", err)
		return writeError(conn, ErrCodeInternal, MsgInternalError)
	}

	return writeJSON(conn, websocketdto.StatusAckMessage{
		WebSocketMessage: websocketdto.WebSocketMessage{Type: websocketdto.MessageTypeStatusAck},
		Success:          err == nil,
		Message:          res.Message,
	})
}

func (h *WebSocketHandler) handlePingPong(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func writeError(conn *websocket.Conn, code, message string) error {
	return writeJSON(conn, websocketdto.ErrorMessage{
		WebSocketMessage: websocketdto.WebSocketMessage{Type: websocketdto.MessageTypeError},
		ErrorCode:        code,
		ErrorMessage:     message,
	})
}
