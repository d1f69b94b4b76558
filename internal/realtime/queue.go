package realtime

import (
	"context"
	"sync"
)

// frameQueue is an unbounded FIFO of frames. Both directions of the manager
// use one: SendAudio pushes onto the outbound queue and ReceiveVoice pops
// from the inbound queue. Contents survive a reconnect — frames queued for
// sending before a drop are delivered on the next live connection.
//
// There is no backpressure here. A bounded queue with an explicit overflow
// policy would be safer for long outages; see DESIGN.md.
type frameQueue struct {
	mu     sync.Mutex
	frames []Frame
	wake   chan struct{}
}

func newFrameQueue() *frameQueue {
	return &frameQueue{wake: make(chan struct{}, 1)}
}

// Push appends a frame. It never blocks.
func (q *frameQueue) Push(f Frame) {
	q.mu.Lock()
	q.frames = append(q.frames, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest frame, blocking until one is available
// or ctx is done.
func (q *frameQueue) Pop(ctx context.Context) (Frame, error) {
	for {
		// A cancelled waiter must not steal a frame it will never process.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.mu.Lock()
		if len(q.frames) > 0 {
			f := q.frames[0]
			q.frames = q.frames[1:]
			if len(q.frames) > 0 {
				// keep the signal armed for the next waiter
				select {
				case q.wake <- struct{}{}:
				default:
				}
			}
			q.mu.Unlock()
			return f, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.wake:
		}
	}
}

// Len reports how many frames are currently queued.
func (q *frameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}
