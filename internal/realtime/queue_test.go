package realtime

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFrameQueueFIFO(t *testing.T) {
	q := newFrameQueue()
	for _, s := range []string{"a", "b", "c"} {
		q.Push(Frame(s))
	}
	if got := q.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Pop(context.Background())
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if string(got) != want {
			t.Fatalf("Pop = %q, want %q", got, want)
		}
	}
	if got := q.Len(); got != 0 {
		t.Fatalf("Len after drain = %d, want 0", got)
	}
}

func TestFrameQueuePopBlocksUntilPush(t *testing.T) {
	q := newFrameQueue()

	got := make(chan Frame, 1)
	go func() {
		f, err := q.Pop(context.Background())
		if err != nil {
			return
		}
		got <- f
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(Frame("late"))

	select {
	case f := <-got:
		if string(f) != "late" {
			t.Fatalf("Pop = %q, want %q", f, "late")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not wake after Push")
	}
}

func TestFrameQueuePopHonorsContext(t *testing.T) {
	q := newFrameQueue()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Pop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Pop = %v, want deadline exceeded", err)
	}
}

func TestFrameQueueCancelledWaiterLeavesFrames(t *testing.T) {
	q := newFrameQueue()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Push(Frame("keep"))

	// a pop with a dead context must not consume the frame
	if _, err := q.Pop(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Pop with cancelled ctx = %v, want canceled", err)
	}

	got, err := q.Pop(context.Background())
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if string(got) != "keep" {
		t.Fatalf("frame lost to a cancelled waiter: got %q", got)
	}
}
