// Package appstate runs the desktop paint window. All canvas work goes
// through a paint.Host; the window only translates input and repaints.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/paintapp/internal/notify"
	canvas "github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/theme"
)

const (
	windowTitle     = "Paint App"
	messageDuration = 2 * time.Second
)

// AppState holds application configuration for the UI.
type AppState struct {
	Output   string
	Theme    *theme.Theme
	Notifier *notify.Notifier

	host     *canvas.Host
	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the path written by Save.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the window colors.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithNotifier sets the desktop notifier for save, copy and paste.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers fn to run once when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

func New(opts ...Option) *AppState {
	a := &AppState{
		Output:   "drawing.png",
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// OnCanvasChange requests a repaint. It has the shape of a host change
// listener so the window follows edits made by any client of the host.
func (a *AppState) OnCanvasChange(canvas.State) {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop for host using shiny's driver.
func (a *AppState) Run(host *canvas.Host) {
	a.host = host
	driver.Main(a.Main)
}

// statusEvent carries a status message into the event loop.
type statusEvent struct{ text string }

func (a *AppState) Main(s screen.Screen) {
	st, err := a.host.State(context.Background())
	if err != nil {
		log.Printf("canvas state: %v", err)
		return
	}
	canvasSize := image.Pt(st.Width, st.Height)
	win := windowSize(canvasSize)
	width, height := win.X, win.Y

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: windowTitle})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	ctl := &controller{
		host:     a.host,
		output:   a.Output,
		notifier: a.Notifier,
		say:      func(msg string) { w.Send(statusEvent{msg}) },
	}
	report := func(err error) {
		if err != nil {
			ctl.message("%v", err)
		}
	}

	quit := false
	keys := newKeymap()
	for _, t := range []struct {
		tool shape.Tool
		r    rune
	}{
		{shape.None, 'f'},
		{shape.Rectangle, 'r'},
		{shape.Circle, 'o'},
		{shape.Line, 'l'},
		{shape.Triangle, 't'},
	} {
		t := t
		keys.register(actionTool+t.tool.String(), shortcutList{{Rune: t.r}}, func() { ctl.selectTool(t.tool) })
	}
	keys.register(actionUndo, shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() { report(ctl.undo()) })
	keys.register(actionRedo, shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() { report(ctl.redo()) })
	keys.register(actionNew, shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, func() { report(ctl.newPage()) })
	keys.register(actionClear, shortcutList{{Code: key.CodeDeleteForward, Modifiers: key.ModControl}}, func() { report(ctl.clear()) })
	keys.register(actionSave, shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() { report(ctl.save()) })
	keys.register(actionCopy, shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() { report(ctl.copyImage()) })
	keys.register(actionPaste, shortcutList{{Rune: 'v', Modifiers: key.ModControl}}, func() {
		go func() { report(ctl.paste()) }()
	})
	keys.register(actionCancel, shortcutList{{Code: key.CodeEscape}}, ctl.cancel)
	keys.register(actionQuit, shortcutList{{Rune: 'q'}}, func() { quit = true })

	buttons := func() []*CacheButton {
		return toolButtons(a.Theme, ctl.selectTool, keys.actions)
	}
	l := newLayout(width, height, canvasSize, buttons())

	var (
		hover, pressed hit
		dragging       bool
		message        string
		messageUntil   time.Time
	)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	bd := &backdrop{}
	paintCh := make(chan frameState, 1)
	go func() {
		for fs := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			img, cs, err := ctl.snapshot(ctx)
			if err == nil {
				fs.image, fs.state = img, cs
				drawFrame(ctx, s, w, bd, fs)
			} else if ctx.Err() == nil {
				log.Printf("snapshot: %v", err)
			}
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case statusEvent:
			message = e.text
			messageUntil = time.Now().Add(messageDuration)
			time.AfterFunc(messageDuration, func() { w.Send(paint.Event{}) })
			w.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
			if dragging && e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				dragging = false
				ctl.cancel()
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			l = newLayout(width, height, canvasSize, buttons())
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			fs := frameState{
				layout:       l,
				theme:        a.Theme,
				hover:        hover,
				pressed:      pressed,
				message:      message,
				messageUntil: messageUntil,
			}
			select {
			case <-paintCh:
			default:
			}
			paintCh <- fs
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			h := l.hitTest(p)
			switch e.Direction {
			case mouse.DirPress:
				if dragging {
					continue
				}
				switch h.kind {
				case hitCanvas:
					if e.Button == mouse.ButtonLeft {
						dragging = true
						ctl.pointerDown(l.toCanvas(p))
					}
				case hitSwatch:
					name := palette[h.index].Name
					if e.Button == mouse.ButtonRight {
						report(ctl.setFill(name))
					} else {
						report(ctl.setColor(name))
					}
				case hitWidth:
					report(ctl.setWidth(widthOptions[h.index]))
				case hitButton:
					pressed = h
					w.Send(paint.Event{})
				}
			case mouse.DirRelease:
				if dragging && e.Button == mouse.ButtonLeft {
					dragging = false
					ctl.pointerUp(l.toCanvas(p))
				}
				if pressed.kind == hitButton {
					if h == pressed {
						l.buttons[h.index].Activate()
					}
					pressed = hit{}
					w.Send(paint.Event{})
				}
			case mouse.DirNone:
				if dragging {
					ctl.pointerMove(l.toCanvas(p))
				}
				if h.kind == hitCanvas {
					h = hit{}
				}
				if h != hover {
					hover = h
					w.Send(paint.Event{})
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if name, ok := keys.lookup(e); ok {
				keys.trigger(name)
			}
		}
		if quit {
			return
		}
	}
}
