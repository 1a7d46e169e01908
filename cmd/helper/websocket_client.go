package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type WebSocketClient struct {
	conn   *websocket.Conn
	ctx    context.Context
	logger *Logger
}

func NewWebSocketClient(ctx context.Context, logger *Logger) *WebSocketClient {
	return &WebSocketClient{
		ctx:    ctx,
		logger: logger,
	}
}

func (w *WebSocketClient) Connect(url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(w.ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connecting to websocket: %w", err)
	}

	w.conn = conn
	w.logger.WebSocket("WebSocket connected to %s", url)
	return nil
}

func (w *WebSocketClient) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

func (w *WebSocketClient) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

// Receive reads one JSON frame into v.
func (w *WebSocketClient) Receive(v interface{}) error {
	if err := w.conn.ReadJSON(v); err != nil {
		return fmt.Errorf("reading message: %w", err)
	}
	return nil
}
