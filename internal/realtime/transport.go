package realtime

import (
	"context"
	"errors"
)

// ErrTransportClosed signals that the remote end closed the connection
// gracefully. Recv returns it instead of a frame; callers check it with
// errors.Is and must not treat it as an I/O failure.
var ErrTransportClosed = errors.New("transport closed")

// Frame is a raw binary payload (e.g., an audio frame). The manager never
// interprets its contents — encoding and decoding live in internal/audio.
type Frame []byte

// Transport is the contract every realtime backend must satisfy.
// The manager only ever talks to this interface — it never imports
// gorilla/websocket or anything concrete.
type Transport interface {
	// Send delivers one frame to the remote side.
	Send(ctx context.Context, frame Frame) error

	// Recv blocks until the next frame arrives. A graceful remote close
	// is reported as ErrTransportClosed; any other error is a wire failure.
	Recv(ctx context.Context) (Frame, error)

	// Close shuts the transport down. Safe to call multiple times.
	Close() error
}

// TransportFactory creates a connected Transport. The manager invokes it
// once per connect attempt and owns the returned handle until disconnect.
type TransportFactory func(ctx context.Context) (Transport, error)
