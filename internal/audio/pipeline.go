// Package audio holds the telephony audio pipeline: framing, jitter
// buffering and the encode/decode boundary between Twilio media chunks and
// realtime endpoint frames. Encoder and Decoder are currently pass-throughs;
// the realtime manager treats frames as opaque either way.
package audio

import "sync"

type Frame struct {
	TimestampMS int64
	Data        []byte
	SampleRate  int
}

const defaultSampleRate = 8000

// NewFrame builds a frame with the telephony default sample rate.
func NewFrame(timestampMS int64, data []byte) Frame {
	return Frame{TimestampMS: timestampMS, Data: data, SampleRate: defaultSampleRate}
}

// JitterBuffer smooths out network arrival jitter. Frames are released in
// push order; when the buffered span exceeds MaxMS the oldest frames are
// dropped to bound playback latency.
type JitterBuffer struct {
	MaxMS int64

	mu    sync.Mutex
	queue []Frame
}

func NewJitterBuffer(maxMS int64) *JitterBuffer {
	if maxMS <= 0 {
		maxMS = 500
	}
	return &JitterBuffer{MaxMS: maxMS}
}

func (b *JitterBuffer) Push(f Frame) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue = append(b.queue, f)
	for len(b.queue) > 1 && b.queue[len(b.queue)-1].TimestampMS-b.queue[0].TimestampMS > b.MaxMS {
		b.queue = b.queue[1:]
	}
}

// Pop returns the oldest buffered frame, or ok=false when empty.
func (b *JitterBuffer) Pop() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return Frame{}, false
	}
	f := b.queue[0]
	b.queue = b.queue[1:]
	return f, true
}

func (b *JitterBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Encoder converts PCM frames into the realtime endpoint's upload format.
type Encoder struct{}

func (Encoder) Encode(f Frame) []byte {
	return f.Data
}

// Decoder converts endpoint bytes back into playable frames.
type Decoder struct{}

func (Decoder) Decode(data []byte, timestampMS int64) Frame {
	return NewFrame(timestampMS, data)
}
