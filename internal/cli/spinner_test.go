package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Analyzing paper.pdf...")
	s.Start()
	time.Sleep(2 * spinnerTick)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Analyzing paper.pdf...") {
		t.Errorf("output missing message: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared on stop: %q", got)
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after caller Stop")
	}
}

func TestSpinnerUpdate(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Analyzing...")
	s.Start()
	s.Update("Laying out...")
	time.Sleep(2 * spinnerTick)
	s.Stop()

	if !strings.Contains(out.String(), "Laying out...") {
		t.Errorf("updated message never drawn: %q", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"Cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"Timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var out syncBuffer
			s := newSpinnerTo(ctx, &out, "Working...")
			s.Start()
			<-ctx.Done()
			s.Stop()

			if !s.Cancelled() {
				t.Error("Cancelled() = false after parent context ended")
			}
		})
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Working...")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	// Never started: Stop must not block.
	idle := newSpinnerTo(context.Background(), &out, "Idle")
	idle.Stop()
}
