package irctk

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

const dialTimeout = 10 * time.Second

// contextDialer honours the ALL_PROXY and NO_PROXY environment variables.
func contextDialer() proxy.ContextDialer {
	dialer := &net.Dialer{
		Timeout: dialTimeout,
	}
	return proxy.FromEnvironmentUsing(dialer).(proxy.ContextDialer)
}

// withDefaultPort appends the IRC port matching useTLS when addr has none.
func withDefaultPort(addr string, useTLS bool) string {
	colonIdx := strings.LastIndexByte(addr, ':')
	bracketIdx := strings.LastIndexByte(addr, ']')
	if colonIdx > bracketIdx {
		return addr
	}
	// either colonIdx < 0, or the last colon is before a ']' (end
	// of IPv6 address). -> missing port
	if useTLS {
		return addr + ":6697"
	}
	return addr + ":6667"
}

// dial opens the connection described by cfg: plain TCP, TLS or a
// WebSocket, through the environment proxy if any.
func dial(ctx context.Context, cfg Config) (conn net.Conn, err error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if cfg.WebSocket {
		return dialWebSocket(ctx, cfg.Addr)
	}

	addr := withDefaultPort(cfg.Addr, cfg.TLS)
	conn, err = contextDialer().DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect: %v", err)
	}

	if cfg.TLS {
		host, _, _ := net.SplitHostPort(addr) // should succeed since net.Dial did.
		tlsConn := tls.Client(conn, &tls.Config{
			ServerName: host,
			NextProtos: []string{"irc"},
		})
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("tls handshake: %v", err)
		}
		conn = tlsConn
	}

	return conn, nil
}
