package paint

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/example/paintapp/internal/shape"
)

func newTestHost(t *testing.T, opts ...HostOption) *Host {
	t.Helper()
	c, err := New(WithSize(32, 32))
	if err != nil {
		t.Fatalf("new canvas: %v", err)
	}
	h := NewHost(c, opts...)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHostRunsInOrder(t *testing.T) {
	h := newTestHost(t)
	var order []int
	var results []<-chan error
	for i := 0; i < 20; i++ {
		i := i
		results = append(results, h.Post(func(*Canvas) error {
			order = append(order, i)
			return nil
		}))
	}
	for _, r := range results {
		if err := <-r; err != nil {
			t.Fatalf("command: %v", err)
		}
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("commands ran out of order: %v", order)
		}
	}
}

func TestHostPointerAfterUndoSeesRestoredPixels(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()
	if err := h.Do(ctx, func(c *Canvas) error {
		c.SelectTool(shape.Rectangle)
		if err := c.PointerDown(image.Pt(0, 0)); err != nil {
			return err
		}
		return c.PointerUp(image.Pt(31, 31))
	}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	undo := h.Post(func(c *Canvas) error {
		_, err := c.Undo()
		return err
	})
	var depth int
	down := h.Post(func(c *Canvas) error {
		depth = c.UndoDepth()
		return c.PointerDown(image.Pt(4, 4))
	})
	if err := <-undo; err != nil {
		t.Fatalf("undo: %v", err)
	}
	if err := <-down; err != nil {
		t.Fatalf("down: %v", err)
	}
	if depth != 1 {
		t.Fatalf("pointer-down ran before undo finished, depth %d", depth)
	}
}

func TestHostCommandError(t *testing.T) {
	h := newTestHost(t)
	want := errors.New("boom")
	if err := h.Do(context.Background(), func(*Canvas) error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestHostRecoversPanic(t *testing.T) {
	h := newTestHost(t)
	if err := h.Do(context.Background(), func(*Canvas) error { panic("bad") }); err == nil {
		t.Fatalf("expected panic to surface as error")
	}
	if _, err := h.State(context.Background()); err != nil {
		t.Fatalf("host stopped after panic: %v", err)
	}
}

func TestHostClosed(t *testing.T) {
	h := newTestHost(t)
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := <-h.Post(func(*Canvas) error { return nil }); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestHostDoContextCancel(t *testing.T) {
	h := newTestHost(t)
	release := make(chan struct{})
	blocked := h.Post(func(*Canvas) error {
		<-release
		return nil
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := h.Do(ctx, func(*Canvas) error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	close(release)
	if err := <-blocked; err != nil {
		t.Fatalf("blocked command: %v", err)
	}
}

func TestHostChangeListener(t *testing.T) {
	var mu sync.Mutex
	var states []State
	h := newTestHost(t, WithChangeListener(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}))
	if err := h.Do(context.Background(), func(c *Canvas) error {
		c.SelectTool(shape.Circle)
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}
	// The listener runs after the result is sent; a second round trip
	// guarantees it has finished for the first command.
	if _, err := h.State(context.Background()); err != nil {
		t.Fatalf("state: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(states) == 0 || states[0].Tool != shape.Circle {
		t.Fatalf("listener did not see tool change: %+v", states)
	}
}

func TestHostState(t *testing.T) {
	h := newTestHost(t)
	st, err := h.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Width != 32 || st.Height != 32 || st.UndoDepth != 1 || st.Tool != shape.None {
		t.Fatalf("unexpected state %+v", st)
	}
}
