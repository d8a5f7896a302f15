// Package watch re-applies a brush style file to a canvas whenever the file
// changes on disk.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/paintapp/internal/config"
	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/style"
)

// DefaultDebounce is the default quiet period before a changed file is read.
const DefaultDebounce = 250 * time.Millisecond

// applyTimeout bounds how long a reload waits for the canvas host.
const applyTimeout = 5 * time.Second

// Watcher applies the style file at path to a host's canvas on change.
type Watcher struct {
	path     string
	host     *paint.Host
	debounce time.Duration
	onError  func(error)
	onApply  func(style.Style)

	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithErrorHandler receives read, validation and watch errors. The default
// logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithApplied is called with the new style after each successful reload.
func WithApplied(fn func(style.Style)) Option {
	return func(w *Watcher) { w.onApply = fn }
}

// New watches the directory holding path so editors that save by rename are
// seen too. The file does not need to exist yet.
func New(path string, host *paint.Host, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:      abs,
		host:      host,
		debounce:  DefaultDebounce,
		onError:   func(err error) { log.Printf("style watch: %v", err) },
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.watcher = fw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Reload reads the file and applies it on top of the current style. A file
// with any invalid value changes nothing.
func (w *Watcher) Reload(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}
	var applied style.Style
	err = w.host.Do(ctx, func(c *paint.Canvas) error {
		next, err := config.ParseStyle(bytes.NewReader(data), c.Style())
		if err != nil {
			return err
		}
		if err := c.SetStyle(next); err != nil {
			return err
		}
		applied = next
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(w.path), err)
	}
	if w.onApply != nil {
		w.onApply(applied)
	}
	return nil
}

// Start begins watching in a goroutine.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.loop()
}

// Stop ends the watch and waits for the loop to exit. A watcher that was
// never started just releases its resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()
	if !running {
		_ = w.watcher.Close()
		return
	}
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Watcher) loop() {
	defer close(w.stoppedCh)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
			if err := w.Reload(ctx); err != nil {
				w.onError(err)
			}
			cancel()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	return err == nil && abs == w.path
}
