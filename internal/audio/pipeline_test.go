package audio

import (
	"bytes"
	"testing"
)

func TestJitterBufferReleasesInOrder(t *testing.T) {
	b := NewJitterBuffer(500)
	b.Push(NewFrame(0, []byte("f0")))
	b.Push(NewFrame(20, []byte("f1")))
	b.Push(NewFrame(40, []byte("f2")))

	for i, want := range []string{"f0", "f1", "f2"} {
		f, ok := b.Pop()
		if !ok {
			t.Fatalf("Pop %d: buffer empty", i)
		}
		if string(f.Data) != want {
			t.Fatalf("Pop %d = %q, want %q", i, f.Data, want)
		}
	}
	if _, ok := b.Pop(); ok {
		t.Fatal("Pop on drained buffer should report empty")
	}
}

func TestJitterBufferDropsOldestPastMaxSpan(t *testing.T) {
	b := NewJitterBuffer(100)
	b.Push(NewFrame(0, []byte("stale")))
	b.Push(NewFrame(50, []byte("mid")))
	b.Push(NewFrame(200, []byte("fresh")))

	// both older frames sit more than MaxMS behind ts 200 and are dropped
	if got := b.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1 after dropping stale frames", got)
	}
	f, _ := b.Pop()
	if string(f.Data) != "fresh" {
		t.Fatalf("surviving frame = %q, want %q", f.Data, "fresh")
	}
}

func TestJitterBufferKeepsFramesAtExactSpan(t *testing.T) {
	b := NewJitterBuffer(100)
	b.Push(NewFrame(0, []byte("edge")))
	b.Push(NewFrame(100, []byte("newest")))

	if got := b.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2: a span equal to MaxMS is within budget", got)
	}
}

func TestNewFrameDefaultsSampleRate(t *testing.T) {
	f := NewFrame(10, []byte("pcm"))
	if f.SampleRate != 8000 {
		t.Fatalf("SampleRate = %d, want 8000", f.SampleRate)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := NewFrame(30, []byte("mulaw-bytes"))

	wire := Encoder{}.Encode(src)
	got := Decoder{}.Decode(wire, src.TimestampMS)

	if !bytes.Equal(got.Data, src.Data) || got.TimestampMS != src.TimestampMS {
		t.Fatalf("round trip = %+v, want %+v", got, src)
	}
}
