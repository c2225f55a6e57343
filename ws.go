package irctk

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// wsSubprotocol carries one IRC line per text frame, without CRLF.
const wsSubprotocol = "text.ircv3.net"

// wsConn exposes an IRC WebSocket as a line-oriented net.Conn, so that
// irc.ChanInOut can run on top of it.
type wsConn struct {
	ws      *websocket.Conn
	pending []byte
}

func dialWebSocket(ctx context.Context, addr string) (net.Conn, error) {
	dialer := websocket.Dialer{
		NetDialContext:   contextDialer().DialContext,
		HandshakeTimeout: dialTimeout,
		Subprotocols:     []string{wsSubprotocol},
	}

	ws, resp, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return &wsConn{ws: ws}, nil
}

func (c *wsConn) Read(b []byte) (int, error) {
	for len(c.pending) == 0 {
		typ, r, err := c.ws.NextReader()
		if err != nil {
			return 0, err
		}
		if typ != websocket.TextMessage && typ != websocket.BinaryMessage {
			continue
		}
		line, err := io.ReadAll(r)
		if err != nil {
			return 0, err
		}
		c.pending = append(line, '\n')
	}
	n := copy(b, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *wsConn) Write(b []byte) (int, error) {
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

func (c *wsConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.ws.Close()
}

func (c *wsConn) LocalAddr() net.Addr  { return c.ws.LocalAddr() }
func (c *wsConn) RemoteAddr() net.Addr { return c.ws.RemoteAddr() }

func (c *wsConn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}

func (c *wsConn) SetReadDeadline(t time.Time) error  { return c.ws.SetReadDeadline(t) }
func (c *wsConn) SetWriteDeadline(t time.Time) error { return c.ws.SetWriteDeadline(t) }
