// Package conversation tracks per-call turn-taking state: who is speaking,
// last activity and silence detection. Barge-in handling hooks in here.
package conversation

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultSilenceTimeout = 3 * time.Second

type State struct {
	CallID         string
	NyraSpeaking   bool
	CallerSpeaking bool
	SilenceTimeout time.Duration

	mu           sync.Mutex
	lastActivity time.Time
}

func newState(callID string) *State {
	return &State{
		CallID:         callID,
		SilenceTimeout: defaultSilenceTimeout,
		lastActivity:   time.Now(),
	}
}

// Touch records activity on the call.
func (s *State) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// IsSilent reports whether the call has been inactive longer than the
// silence timeout.
func (s *State) IsSilent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity) > s.SilenceTimeout
}

// TurnManager owns the conversation state of every active call.
type TurnManager struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

func NewTurnManager() *TurnManager {
	return &TurnManager{sessions: make(map[string]*State)}
}

func (m *TurnManager) StartSession(callID string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := newState(callID)
	m.sessions[callID] = st
	log.Info().Str("module", "conversation").Str("call_id", callID).Msg("start session")
	return st
}

func (m *TurnManager) EndSession(callID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callID)
}

func (m *TurnManager) Get(callID string) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[callID]
	return st, ok
}
