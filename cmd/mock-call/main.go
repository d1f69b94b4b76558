// mock-call drives the realtime manager end to end against an in-process
// mock transport. No network, no API key — it demonstrates how the manager
// is constructed, how audio is queued, and how voice frames come back.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nyralabs/nyra-realtime/internal/realtime"
)

// mockTransport buffers sends and replays scripted voice frames.
type mockTransport struct {
	sent chan realtime.Frame
	recv chan realtime.Frame
}

func (t *mockTransport) Send(ctx context.Context, f realtime.Frame) error {
	select {
	case t.sent <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *mockTransport) Recv(ctx context.Context) (realtime.Frame, error) {
	select {
	case f, ok := <-t.recv:
		if !ok {
			return nil, realtime.ErrTransportClosed
		}
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *mockTransport) Close() error { return nil }

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	mock := &mockTransport{
		sent: make(chan realtime.Frame, 16),
		recv: make(chan realtime.Frame, 16),
	}
	mgr := realtime.NewManager(realtime.Options{
		Factory: func(ctx context.Context) (realtime.Transport, error) {
			return mock, nil
		},
	})

	fmt.Println("Connecting to mock realtime endpoint (local demo, no network used)")
	if err := mgr.Connect(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("connect failed")
	}

	// simulate remote TTS arriving shortly after connect
	go func() {
		time.Sleep(50 * time.Millisecond)
		mock.recv <- realtime.Frame("mock-tts-frame-1")
		time.Sleep(30 * time.Millisecond)
		mock.recv <- realtime.Frame("mock-tts-frame-2")
	}()

	mgr.SendAudio(realtime.Frame("pcm-frame-1"))
	mgr.SendAudio(realtime.Frame("pcm-frame-2"))

	for i := 0; i < 2; i++ {
		frame, err := mgr.ReceiveVoice(context.Background(), time.Second)
		if err != nil {
			log.Fatal().Err(err).Msg("receive failed")
		}
		fmt.Println("received:", string(frame))
	}

	for i := 0; i < 2; i++ {
		fmt.Println("endpoint saw:", string(<-mock.sent))
	}

	mgr.Disconnect()
}
