package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/config"
	"github.com/lox/holdem-engine/internal/game"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(typ, data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func receive(t *testing.T, conn *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	table, err := NewTable(config.Default())
	require.NoError(t, err)
	srv := NewServer("", table, testLogger())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestWebsocketChat(t *testing.T) {
	t.Parallel()
	table := startTable(t, "")
	ts := httptest.NewServer(NewServer("", table, testLogger()).Handler())
	defer ts.Close()

	conn := dial(t, ts)
	send(t, conn, MessageTypeAuth, AuthData{Name: "alice"})

	msg := receive(t, conn)
	require.Equal(t, MessageTypeAuthResponse, msg.Type)
	var auth AuthResponseData
	require.NoError(t, msg.Decode(&auth))
	assert.Equal(t, "alice", auth.Name)
	assert.NotEmpty(t, auth.PlayerID)

	msg = receive(t, conn)
	require.Equal(t, MessageTypeInfo, msg.Type)

	send(t, conn, MessageTypeChat, ChatData{Text: "::buyin 500"})
	msg = receive(t, conn)
	require.Equal(t, MessageTypeEvent, msg.Type)
	var joined struct {
		Name    game.EventType         `json:"name"`
		Payload game.PlayerJoinedEvent `json:"payload"`
	}
	require.NoError(t, msg.Decode(&joined))
	assert.Equal(t, game.EventTypePlayerJoined, joined.Name)
	assert.Equal(t, auth.PlayerID, joined.Payload.PlayerID)
	assert.Equal(t, 500, joined.Payload.Money)

	send(t, conn, MessageTypeChat, ChatData{Text: "::start"})
	msg = receive(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)
	var e ErrorData
	require.NoError(t, msg.Decode(&e))
	assert.Equal(t, CodeRejected, e.Code)
	assert.Contains(t, e.Message, "table needs")
}

func TestWebsocketProtocolErrors(t *testing.T) {
	t.Parallel()
	table := startTable(t, "")
	ts := httptest.NewServer(NewServer("", table, testLogger()).Handler())
	defer ts.Close()

	tests := []struct {
		name string
		typ  MessageType
		data any
		code string
	}{
		{"chat before auth", MessageTypeChat, ChatData{Text: "fold"}, CodeNotAuthenticated},
		{"empty name", MessageTypeAuth, AuthData{}, CodeInvalidAuth},
		{"unknown type", MessageType("dance"), struct{}{}, CodeUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, ts)
			send(t, conn, tt.typ, tt.data)
			msg := receive(t, conn)
			require.Equal(t, MessageTypeError, msg.Type)
			var e ErrorData
			require.NoError(t, msg.Decode(&e))
			assert.Equal(t, tt.code, e.Code)
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	table, err := NewTable(config.Default())
	require.NoError(t, err)
	srv := NewServer("", table, testLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
