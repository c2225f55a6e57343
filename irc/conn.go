package irc

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/ergochat/irc-go/ircreader"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const chanCapacity = 64

const (
	defaultKeepAlive = 30 * time.Second
	maxRTT           = 10 * time.Second
)

// ConnParams tunes ChanInOut.
type ConnParams struct {
	// KeepAlive is the idle time after which a PING is sent. Zero means 30
	// seconds, a negative value disables keepalive.
	KeepAlive time.Duration

	// Limiter throttles outgoing lines. Nil means no throttling.
	Limiter *rate.Limiter

	Logger zerolog.Logger
}

// ChanInOut runs the reading and writing loops of conn. in is closed when
// the connection ends; closing out closes the connection.
func ChanInOut(conn net.Conn, params ConnParams) (in <-chan Message, out chan<- Message) {
	in_ := make(chan Message, chanCapacity)
	out_ := make(chan Message, chanCapacity)

	keepAlive := params.KeepAlive
	if keepAlive == 0 {
		keepAlive = defaultKeepAlive
	}
	logger := params.Logger
	var last atomic.Int64
	last.Store(time.Now().UnixNano())

	go func() {
		r := ircreader.NewIRCReader(conn)
		for {
			b, err := r.ReadLine()
			if err != nil {
				logger.Debug().Err(err).Msg("connection read ended")
				break
			}
			line := string(bytes.TrimSuffix(b, []byte{'\r'}))
			line = strings.ToValidUTF8(line, string([]rune{unicode.ReplacementChar}))
			msg, err := ParseMessage(line)
			if err != nil {
				logger.Debug().Err(err).Str("line", line).Msg("dropping malformed line")
				continue
			}
			now := time.Now()
			last.Store(now.UnixNano())
			if keepAlive > 0 {
				conn.SetReadDeadline(now.Add(keepAlive + maxRTT))
			}
			in_ <- msg
		}
		close(in_)
	}()

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
	outer:
		for {
			select {
			case msg, ok := <-out_:
				if !ok {
					break outer
				}
				if params.Limiter != nil {
					if err := params.Limiter.Wait(context.Background()); err != nil {
						logger.Warn().Err(err).Msg("flood limiter")
					}
				}

				last.Store(time.Now().UnixNano())
				_, err := fmt.Fprintf(conn, "%s\r\n", msg.String())
				if err != nil {
					logger.Debug().Err(err).Msg("connection write failed")
					break outer
				}
			case <-t.C:
				if keepAlive < 0 {
					continue
				}
				now := time.Now()
				lastAt := time.Unix(0, last.Load())
				if lastAt.Add(keepAlive).After(now) {
					continue
				}
				if lastAt.Add(keepAlive + maxRTT).Before(now) {
					// probably out of sleep, reset connection
					conn.Close()
					continue
				}
				last.Store(now.UnixNano())
				_, err := fmt.Fprint(conn, "PING _\r\n")
				if err != nil {
					break outer
				}
			}
		}
		_ = conn.Close()
	}()

	return in_, out_
}
