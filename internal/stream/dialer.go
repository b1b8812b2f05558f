package stream

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// Conn is one open transport handle.
type Conn interface {
	// ReadMessage blocks until the next frame arrives or the connection fails.
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens transport handles.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials with gorilla/websocket.
type WebsocketDialer struct {
	Dialer *websocket.Dialer
	Header http.Header
}

func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, url, d.Header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// URL derives the stream endpoint from the REST base: one trailing slash is
// dropped, http becomes ws and https becomes wss, then path is appended.
func URL(base, path string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	lower := strings.ToLower(base)
	switch {
	case strings.HasPrefix(lower, "https:"):
		base = "wss:" + base[len("https:"):]
	case strings.HasPrefix(lower, "http:"):
		base = "ws:" + base[len("http:"):]
	}
	return base + path
}
