package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// callbackRegistry holds the three subscriber lists. Subscribers are invoked
// synchronously in registration order; a panicking subscriber is logged and
// skipped so it can never destabilize the manager or starve later
// subscribers.
type callbackRegistry struct {
	mu           sync.RWMutex
	connected    []func()
	disconnected []func(error)
	message      []func(Frame)
}

func (r *callbackRegistry) addConnected(cb func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected = append(r.connected, cb)
}

func (r *callbackRegistry) addDisconnected(cb func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnected = append(r.disconnected, cb)
}

func (r *callbackRegistry) addMessage(cb func(Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = append(r.message, cb)
}

func (r *callbackRegistry) notifyConnected() {
	r.mu.RLock()
	cbs := make([]func(), len(r.connected))
	copy(cbs, r.connected)
	r.mu.RUnlock()
	for _, cb := range cbs {
		guard("on_connected", func() { cb() })
	}
}

func (r *callbackRegistry) notifyDisconnected(err error) {
	r.mu.RLock()
	cbs := make([]func(error), len(r.disconnected))
	copy(cbs, r.disconnected)
	r.mu.RUnlock()
	for _, cb := range cbs {
		guard("on_disconnected", func() { cb(err) })
	}
}

func (r *callbackRegistry) notifyMessage(f Frame) {
	r.mu.RLock()
	cbs := make([]func(Frame), len(r.message))
	copy(cbs, r.message)
	r.mu.RUnlock()
	for _, cb := range cbs {
		guard("on_message", func() { cb(f) })
	}
}

// guard isolates one subscriber invocation.
func guard(name string, fn func()) {
	defer func() {
		if v := recover(); v != nil {
			log.Error().Str("module", "realtime").Str("callback", name).Any("panic", v).Msg("subscriber callback panicked")
		}
	}()
	fn()
}
