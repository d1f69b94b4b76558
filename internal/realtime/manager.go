package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultURL is the realtime endpoint dialed when none is configured.
// The manager itself only keeps it for diagnostics — the factory dials.
const DefaultURL = "wss://api.openai.com/v1/realtime"

var (
	// ErrNoFactory means the manager was asked to connect without a
	// transport factory. This is a configuration error: it is surfaced to
	// the caller and never retried.
	ErrNoFactory = errors.New("no transport factory configured")

	// ErrReceiveTimeout is returned by ReceiveVoice when no frame arrives
	// within the requested timeout. It is recoverable — the connection is
	// unaffected.
	ErrReceiveTimeout = errors.New("receive voice timed out")
)

// State is the connection state of a Manager. There is no intermediate
// "connecting" state — Connect is synchronous from the caller's view.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
)

func (s State) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "disconnected"
}

// DefaultBackoff is the reconnect schedule used when none is configured.
var DefaultBackoff = []time.Duration{
	100 * time.Millisecond,
	200 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
}

// Options configures a Manager. Everything is optional except Factory,
// which Connect requires.
type Options struct {
	// APIKey is an opaque credential kept for the factory's benefit. It is
	// never logged.
	APIKey string

	// URL is the endpoint, kept for diagnostics only.
	URL string

	// Factory creates the transport on each connect attempt.
	Factory TransportFactory

	// Backoff is the reconnect schedule consulted by RunForever after
	// failed connect attempts. The last entry repeats indefinitely.
	Backoff []time.Duration
}

// Manager keeps one persistent, bidirectional streaming connection to a
// realtime voice endpoint alive for the lifetime of a call. Application code
// talks to the queues (SendAudio / ReceiveVoice) and never touches the
// transport; two background loops move frames between the queues and the
// wire, and RunForever re-establishes the connection when it drops.
type Manager struct {
	apiKey  string
	url     string
	factory TransportFactory
	backoff []time.Duration

	// state is read by both loops and mutated by the control methods.
	// All Connected -> Disconnected failure transitions go through
	// dropConnection so there is exactly one writer per transition.
	state atomic.Int32

	// ctl serializes Connect and Disconnect. A Disconnect issued while a
	// connect attempt is in flight waits for the attempt and then tears it
	// down, and loops.Add never overlaps loops.Wait.
	ctl sync.Mutex

	mu         sync.Mutex // guards transport and loopCancel
	transport  Transport
	loopCancel context.CancelFunc

	// loops tracks the sender and receiver goroutines of the current
	// connection. Add and Wait only run under ctl.
	loops sync.WaitGroup

	outbound *frameQueue
	inbound  *frameQueue

	callbacks callbackRegistry

	attempts atomic.Int64
}

// NewManager creates a disconnected manager. Queues are created once and
// survive reconnects.
func NewManager(opts Options) *Manager {
	url := opts.URL
	if url == "" {
		url = DefaultURL
	}
	backoff := opts.Backoff
	if len(backoff) == 0 {
		backoff = DefaultBackoff
	}
	return &Manager{
		apiKey:   opts.APIKey,
		url:      url,
		factory:  opts.Factory,
		backoff:  backoff,
		outbound: newFrameQueue(),
		inbound:  newFrameQueue(),
	}
}

// State reports the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// ConnectAttempts reports how many connect attempts have been made, for
// observability and tests.
func (m *Manager) ConnectAttempts() int64 {
	return m.attempts.Load()
}

// Connect makes a single connection attempt via the factory and starts the
// sender and receiver loops. It is idempotent: when already connected it
// returns immediately with no side effects. A factory error is returned to
// the caller as-is. ctx governs only the connection attempt, not the
// connection's lifetime. Connect and Disconnect are serialized with each
// other.
func (m *Manager) Connect(ctx context.Context) error {
	m.ctl.Lock()
	defer m.ctl.Unlock()

	if m.State() == StateConnected {
		return nil
	}
	if m.factory == nil {
		return ErrNoFactory
	}

	attempt := m.attempts.Add(1)
	log.Info().Str("module", "realtime").Int64("attempt", attempt).Str("url", m.url).Msg("connecting")

	t, err := m.factory(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	loopCtx, cancel := context.WithCancel(context.Background())
	m.transport = t
	m.loopCancel = cancel
	m.state.Store(int32(StateConnected))
	m.loops.Add(2)
	go m.senderLoop(loopCtx, t)
	go m.receiverLoop(loopCtx, t)
	m.mu.Unlock()

	m.callbacks.notifyConnected()
	return nil
}

// Disconnect stops both loops, closes the transport (errors swallowed) and
// notifies on_disconnected subscribers with a nil error. Idempotent; queued
// frames are kept for the next connection. A Disconnect that races a connect
// attempt queues behind it, so the manager is always disconnected when
// Disconnect returns.
func (m *Manager) Disconnect() {
	m.ctl.Lock()
	defer m.ctl.Unlock()

	log.Info().Str("module", "realtime").Msg("disconnecting")

	// State flips first so the loops observe the change promptly.
	m.state.Store(int32(StateDisconnected))

	m.mu.Lock()
	if m.loopCancel != nil {
		m.loopCancel()
		m.loopCancel = nil
	}
	t := m.transport
	m.transport = nil
	m.mu.Unlock()

	if t != nil {
		if err := t.Close(); err != nil {
			log.Warn().Str("module", "realtime").Err(err).Msg("error closing transport")
		}
	}
	m.loops.Wait()

	m.callbacks.notifyDisconnected(nil)
}

// SendAudio queues audio bytes for delivery to the realtime endpoint. It
// never blocks on transport I/O and never fails; the sender loop drains the
// queue in call order.
func (m *Manager) SendAudio(data Frame) {
	m.outbound.Push(data)
}

// ReceiveVoice returns the next voice frame received from the endpoint,
// waiting until one arrives. With timeout > 0 it returns ErrReceiveTimeout
// if the wait elapses first; with timeout 0 it waits until ctx is done.
func (m *Manager) ReceiveVoice(ctx context.Context, timeout time.Duration) (Frame, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	f, err := m.inbound.Pop(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrReceiveTimeout
		}
		return nil, err
	}
	return f, nil
}

// OnConnected registers a subscriber invoked after every successful connect.
func (m *Manager) OnConnected(cb func()) {
	m.callbacks.addConnected(cb)
}

// OnDisconnected registers a subscriber invoked on every disconnect. The
// error is nil for a deliberate or remote-initiated clean close and non-nil
// for wire failures and failed connect attempts inside RunForever.
func (m *Manager) OnDisconnected(cb func(error)) {
	m.callbacks.addDisconnected(cb)
}

// OnMessage registers a subscriber invoked for every received frame, after
// the frame is queued for ReceiveVoice.
func (m *Manager) OnMessage(cb func(Frame)) {
	m.callbacks.addMessage(cb)
}

// senderLoop drains the outbound queue onto the transport while connected.
// A frame that fails to send is not requeued.
func (m *Manager) senderLoop(ctx context.Context, t Transport) {
	defer m.loops.Done()

	for m.State() == StateConnected {
		frame, err := m.outbound.Pop(ctx)
		if err != nil {
			// cancelled by Disconnect or dropConnection
			log.Debug().Str("module", "realtime").Msg("sender loop cancelled")
			return
		}
		if err := t.Send(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Str("module", "realtime").Err(err).Msg("sender loop transport error")
			m.dropConnection(err)
			return
		}
	}
}

// receiverLoop reads frames off the transport into the inbound queue while
// connected and fans each one out to on_message subscribers.
func (m *Manager) receiverLoop(ctx context.Context, t Transport) {
	defer m.loops.Done()

	for m.State() == StateConnected {
		frame, err := t.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Debug().Str("module", "realtime").Msg("receiver loop cancelled")
				return
			}
			if errors.Is(err, ErrTransportClosed) {
				log.Info().Str("module", "realtime").Msg("remote end closed transport")
				m.dropConnection(nil)
				return
			}
			log.Error().Str("module", "realtime").Err(err).Msg("receiver loop transport error")
			m.dropConnection(err)
			return
		}
		m.inbound.Push(frame)
		m.callbacks.notifyMessage(frame)
	}
}

// dropConnection is the single failure transition Connected -> Disconnected.
// Whichever loop hits the wire error first wins; the loser sees the CAS fail
// and exits without a duplicate notification. The transport is closed here
// so the peer loop unblocks and no handle leaks before the next reconnect.
func (m *Manager) dropConnection(err error) {
	if !m.state.CompareAndSwap(int32(StateConnected), int32(StateDisconnected)) {
		return
	}

	m.mu.Lock()
	if m.loopCancel != nil {
		m.loopCancel()
		m.loopCancel = nil
	}
	t := m.transport
	m.transport = nil
	m.mu.Unlock()

	if t != nil {
		if cerr := t.Close(); cerr != nil {
			log.Warn().Str("module", "realtime").Err(cerr).Msg("error closing transport after drop")
		}
	}

	m.callbacks.notifyDisconnected(err)
}
