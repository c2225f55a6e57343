package irc

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func receive(t *testing.T, in <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-in:
		require.True(t, ok, "connection closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return Message{}
}

func TestChanInOut(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	in, out := ChanInOut(client, ConnParams{
		KeepAlive: -1,
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	})
	r := bufio.NewReader(server)

	go server.Write([]byte("this line is @bad\r\n:irc.example.com PING :hello\r\nNOTICE * :no cr\n"))
	msg := receive(t, in)
	assert.Equal(t, "THIS", msg.Command)
	msg = receive(t, in)
	assert.Equal(t, "PING", msg.Command)
	assert.Equal(t, []string{"hello"}, msg.Params)
	msg = receive(t, in)
	assert.Equal(t, "NOTICE", msg.Command)
	assert.Equal(t, "no cr", msg.Params[1])

	out <- NewMessage("PONG", "hello")
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "PONG hello\r\n", line)

	close(out)
	_, err = r.ReadString('\n')
	assert.Error(t, err)

	select {
	case _, ok := <-in:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("in was not closed")
	}
}

func TestChanInOutDropsMalformed(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	in, out := ChanInOut(client, ConnParams{KeepAlive: -1})
	defer close(out)

	go server.Write([]byte("@unterminated\r\n\r\nPING :after\r\n"))
	msg := receive(t, in)
	assert.Equal(t, "PING", msg.Command)
}

func TestChanInOutFeedsSession(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()

	in, out := ChanInOut(client, ConnParams{KeepAlive: -1})
	r := bufio.NewReader(server)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s := NewSession(out, SessionParams{Nickname: "kylef"})
		defer s.Close()
		for msg := range in {
			if _, err := s.HandleMessage(msg); err != nil {
				t.Error(err)
			}
			if s.Registered() {
				return
			}
		}
	}()

	for _, expected := range []string{"CAP LS\r\n", "NICK kylef\r\n", "USER kylef 0 * :kylef\r\n"} {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		assert.Equal(t, expected, line)
	}

	go server.Write([]byte(":irc.example.com 001 kylef :Welcome\r\n"))
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "WHO kylef\r\n", line)

	<-done
}
