package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// generateWebSocketHandler serves real-time code generation over a
// WebSocket. Each text message carries one GenerateRequest; each reply
// is a GenerateResponse with the PNG base64-encoded.
func (s *Server) generateWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage renders one request and writes the response.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req GenerateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, fmt.Sprintf("failed to parse request: %v", err))
		return
	}

	result, _, err := s.renderFromWire(&req)
	if err != nil {
		s.sendWebSocketError(conn, err.Error())
		return
	}

	resp := GenerateResponse{
		Success: true,
		PNG:     base64.StdEncoding.EncodeToString(result.PNG),
		Width:   result.Width,
		Height:  result.Height,
		Format:  result.Format.String(),
		Style:   result.Style.String(),
	}
	s.sendWebSocketResponse(conn, resp)
}

// sendWebSocketResponse writes a JSON response over the connection.
func (s *Server) sendWebSocketResponse(conn *websocket.Conn, resp GenerateResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Error("Failed to write WebSocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError writes a JSON error response over the connection.
func (s *Server) sendWebSocketError(conn *websocket.Conn, message string) {
	s.sendWebSocketResponse(conn, GenerateResponse{Success: false, Error: message})
}
