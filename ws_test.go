package irctk

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylef/irctk/irc"
)

func TestWithDefaultPort(t *testing.T) {
	tests := []struct {
		addr   string
		useTLS bool
		want   string
	}{
		{"irc.example.com", true, "irc.example.com:6697"},
		{"irc.example.com", false, "irc.example.com:6667"},
		{"irc.example.com:7000", true, "irc.example.com:7000"},
		{"[::1]", true, "[::1]:6697"},
		{"[::1]:7000", false, "[::1]:7000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withDefaultPort(tt.addr, tt.useTLS))
	}
}

// newWebSocketServer echoes every frame back, prefixed with "ECHO ".
func newWebSocketServer(t *testing.T, received chan<- string) *httptest.Server {
	upgrader := websocket.Upgrader{
		Subprotocols: []string{wsSubprotocol},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, b, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- string(b)
			if err := ws.WriteMessage(websocket.TextMessage, []byte("ECHO :"+string(b))); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebSocketConn(t *testing.T) {
	received := make(chan string, 8)
	srv := newWebSocketServer(t, received)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := dialWebSocket(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("NICK kylef\r\nUSER kylef 0 * :kylef\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "NICK kylef", <-received)
	assert.Equal(t, "USER kylef 0 * :kylef", <-received)

	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ECHO :NICK kylef\n", line)
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ECHO :USER kylef 0 * :kylef\n", line)
}

func TestWebSocketChanInOut(t *testing.T) {
	received := make(chan string, 8)
	srv := newWebSocketServer(t, received)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := dialWebSocket(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)

	in, out := irc.ChanInOut(conn, irc.ConnParams{KeepAlive: -1})
	out <- irc.NewMessage(irc.CmdPing, "irctk")
	assert.Equal(t, "PING irctk", <-received)

	select {
	case msg := <-in:
		assert.Equal(t, "ECHO", msg.Command)
		assert.Equal(t, []string{"PING irctk"}, msg.Params)
	case <-ctx.Done():
		t.Fatal("no message received")
	}

	close(out)
	for range in {
	}
}
