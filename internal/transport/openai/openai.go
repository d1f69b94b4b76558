// Package openai provides the realtime transport factory for OpenAI's
// realtime websocket endpoint. It is the only place that knows the wire is a
// websocket; the manager sees nothing but realtime.Transport.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nyralabs/nyra-realtime/internal/realtime"
)

const (
	handshakeTimeout = 15 * time.Second
	writeTimeout     = 5 * time.Second
	userAgent        = "nyra-realtime/1.0"
)

// ErrMissingAPIKey is returned by NewFactory when no credential is supplied.
var ErrMissingAPIKey = errors.New("openai transport requires an api key")

// NewFactory returns a realtime.TransportFactory that dials the realtime
// endpoint with a Bearer credential. The key is captured by the closure and
// never logged.
func NewFactory(apiKey, url string) (realtime.TransportFactory, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if url == "" {
		url = realtime.DefaultURL
	}

	return func(ctx context.Context) (realtime.Transport, error) {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+apiKey)
		header.Set("User-Agent", userAgent)

		dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

		log.Info().Str("module", "transport.openai").Str("url", url).Msg("opening realtime websocket")
		conn, resp, err := dialer.DialContext(ctx, url, header)
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("dial realtime endpoint (status %d): %w", resp.StatusCode, err)
			}
			return nil, fmt.Errorf("dial realtime endpoint: %w", err)
		}
		return NewTransport(conn), nil
	}, nil
}

// wsTransport adapts one *websocket.Conn to realtime.Transport. Audio flows
// as binary frames in both directions.
type wsTransport struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewTransport wraps an already-established websocket connection. Exposed so
// tests and demo harnesses can drive the adapter against an in-process
// server.
func NewTransport(conn *websocket.Conn) realtime.Transport {
	return &wsTransport{conn: conn}
}

func (t *wsTransport) Send(ctx context.Context, frame realtime.Frame) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := t.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (t *wsTransport) Recv(ctx context.Context) (realtime.Frame, error) {
	// gorilla reads don't take a context; the manager unblocks a pending
	// read by closing the transport.
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, realtime.ErrTransportClosed
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return realtime.Frame(data), nil
}

func (t *wsTransport) Close() error {
	t.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(2*time.Second))
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}
