package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestWebSocket(t *testing.T, server *Server) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(server.generateWebSocketHandler))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/generate"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_GenerateRoundTrip(t *testing.T) {
	server := newTestServer(t)
	conn := dialTestWebSocket(t, server)

	req := GenerateRequest{Data: "ws-payload", Style: "dots", Size: 96}
	require.NoError(t, conn.WriteJSON(req))

	var resp GenerateResponse
	require.NoError(t, conn.ReadJSON(&resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 96, resp.Width)
	assert.Equal(t, 96, resp.Height)
	assert.Equal(t, "dots", resp.Style)

	raw, err := base64.StdEncoding.DecodeString(resp.PNG)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestWebSocket_InvalidJSON(t *testing.T) {
	server := newTestServer(t)
	conn := dialTestWebSocket(t, server)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{bad json")))

	var resp GenerateResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "parse")
}

func TestWebSocket_RenderError(t *testing.T) {
	server := newTestServer(t)
	conn := dialTestWebSocket(t, server)

	require.NoError(t, conn.WriteJSON(GenerateRequest{Data: "abc", Format: "ean8"}))

	var resp GenerateResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestWebSocket_SendResponseMarshals(t *testing.T) {
	resp := GenerateResponse{Success: true, Format: "qr", Style: "standard"}
	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"success":true`)
	assert.NotContains(t, string(payload), "error")
}
