package paint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
)

// ErrClosed is returned for commands submitted to a stopped Host.
var ErrClosed = errors.New("paint: host closed")

// Command runs against the canvas on the host goroutine.
type Command func(*Canvas) error

type request struct {
	fn     Command
	result chan error
}

// Host serializes every operation on a Canvas through one goroutine, in the
// order they were submitted. Undo, redo and image loads finish their restore
// before the next command starts, so a pointer-down submitted behind one of
// them always sees the restored pixels.
type Host struct {
	canvas   *Canvas
	requests chan request
	quit     chan struct{}
	done     chan struct{}
	once     sync.Once
	onChange func(State)

	mu     sync.RWMutex
	closed bool
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithChangeListener registers fn to run on the host goroutine after every
// command, with the resulting state.
func WithChangeListener(fn func(State)) HostOption {
	return func(h *Host) { h.onChange = fn }
}

// NewHost takes ownership of c and starts its command loop.
func NewHost(c *Canvas, opts ...HostOption) *Host {
	h := &Host{
		canvas:   c,
		requests: make(chan request, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	go h.loop()
	return h
}

func (h *Host) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			return
		case req := <-h.requests:
			err := h.run(req.fn)
			req.result <- err
			if h.onChange != nil {
				h.onChange(h.canvas.State())
			}
		}
	}
}

func (h *Host) run(fn Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("paint: command panicked: %v", r)
			err = fmt.Errorf("paint: command panicked: %v", r)
		}
	}()
	return fn(h.canvas)
}

// Post queues fn and returns a channel that receives its result.
func (h *Host) Post(fn Command) <-chan error {
	req := request{fn: fn, result: make(chan error, 1)}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		req.result <- ErrClosed
		return req.result
	}
	h.requests <- req
	return req.result
}

// Do runs fn and waits for it to finish. If ctx ends first Do returns its
// error; fn still runs in its turn.
func (h *Host) Do(ctx context.Context, fn Command) error {
	res := h.Post(fn)
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the canvas state as seen after every earlier command.
func (h *Host) State(ctx context.Context) (State, error) {
	var st State
	err := h.Do(ctx, func(c *Canvas) error {
		st = c.State()
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// Close stops the loop and releases the canvas. Commands still queued are
// answered with ErrClosed.
func (h *Host) Close() error {
	var err error
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		close(h.quit)
		<-h.done
	drain:
		for {
			select {
			case req := <-h.requests:
				req.result <- ErrClosed
			default:
				break drain
			}
		}
		err = h.canvas.Close()
	})
	return err
}

// State is a read-only view of a canvas.
type State struct {
	Tool      shape.Tool  `json:"tool"`
	Style     style.Style `json:"-"`
	UndoDepth int         `json:"undoDepth"`
	RedoDepth int         `json:"redoDepth"`
	Dragging  bool        `json:"dragging"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
}

// State captures the current view.
func (c *Canvas) State() State {
	b := c.Bounds()
	return State{
		Tool:      c.tool,
		Style:     c.style,
		UndoDepth: c.hist.UndoDepth(),
		RedoDepth: c.hist.RedoDepth(),
		Dragging:  c.session.Active,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}
}
