package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// connectedPollInterval is how often RunForever re-checks a live connection.
const connectedPollInterval = 50 * time.Millisecond

// RunForever maintains a live connection until ctx is cancelled.
//
// A failed connect attempt notifies on_disconnected subscribers with the
// error and waits the next duration from the backoff schedule (the last
// entry repeats). A drop of a previously live connection resets the schedule
// and retries immediately — the drop already identified the failure mode and
// a live call wants rapid recovery, whereas repeated failures to even
// establish a connection should back off.
//
// RunForever never gives up on connection errors. It returns ErrNoFactory
// when the manager is unconfigured (fatal, not retried) and nil after a
// cancellation, always attempting a final graceful disconnect on the way
// out so no transport leaks.
func (m *Manager) RunForever(ctx context.Context) error {
	defer m.Disconnect()

	backoffIdx := 0
	for ctx.Err() == nil {
		err := m.Connect(ctx)
		if errors.Is(err, ErrNoFactory) {
			return err
		}
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error().Str("module", "realtime").Err(err).Msg("connect attempt failed")
			// The loops never started, so nobody else reports this drop.
			m.callbacks.notifyDisconnected(err)

			wait := m.backoff[min(backoffIdx, len(m.backoff)-1)]
			backoffIdx++
			select {
			case <-ctx.Done():
			case <-time.After(wait):
			}
			continue
		}

		backoffIdx = 0
		for m.State() == StateConnected && ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-time.After(connectedPollInterval):
			}
		}
	}
	return nil
}
