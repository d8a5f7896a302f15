// Package paint implements the drawing session on top of a surface and its
// undo history.
package paint

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/example/paintapp/internal/history"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
	"github.com/example/paintapp/internal/surface"
)

// DefaultFilename is the suggested name for an exported drawing.
const DefaultFilename = "drawing.png"

var pageWhite = color.RGBA{255, 255, 255, 255}

// Session is the in-flight drag. Tool is captured on pointer-down so a tool
// change mid-drag does not change what the drag produces.
type Session struct {
	Active bool
	Anchor image.Point
	Last   image.Point
	Tool   shape.Tool
}

// Canvas owns a surface, its history, the brush style and the current drag.
// It is not safe for concurrent use; see Host.
type Canvas struct {
	surf    *surface.Surface
	hist    *history.Store
	style   style.Style
	tool    shape.Tool
	session Session

	width, height int
	limit         int
}

// Option configures a Canvas during creation.
type Option func(*Canvas)

// WithSize sets the surface dimensions. They are fixed for the canvas lifetime.
func WithSize(width, height int) Option {
	return func(c *Canvas) { c.width, c.height = width, height }
}

// WithStyle sets the initial brush style.
func WithStyle(st style.Style) Option { return func(c *Canvas) { c.style = st } }

// WithTool sets the initially selected tool.
func WithTool(t shape.Tool) Option { return func(c *Canvas) { c.tool = t } }

// WithHistoryLimit caps the undo depth. Zero keeps every snapshot.
func WithHistoryLimit(n int) Option { return func(c *Canvas) { c.limit = n } }

// New creates a canvas painted with the style background and records that
// as the history baseline.
func New(opts ...Option) (*Canvas, error) {
	c := &Canvas{
		style:  style.Default(),
		width:  surface.DefaultWidth,
		height: surface.DefaultHeight,
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.style.Validate(); err != nil {
		return nil, err
	}
	surf, err := surface.New(c.width, c.height)
	if err != nil {
		return nil, err
	}
	c.surf = surf
	c.surf.Fill(c.style.BackgroundColor)
	c.surf.SetOpacity(c.style.Opacity)
	c.hist = history.New(c.limit)
	if err := c.hist.Initialize(c.surf); err != nil {
		_ = surf.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the surface.
func (c *Canvas) Close() error {
	return c.surf.Close()
}

func (c *Canvas) Style() style.Style { return c.style }

func (c *Canvas) Tool() shape.Tool { return c.tool }

func (c *Canvas) Session() Session { return c.session }

// Dragging reports whether a pointer-down is waiting for its release.
func (c *Canvas) Dragging() bool { return c.session.Active }

func (c *Canvas) UndoDepth() int { return c.hist.UndoDepth() }

func (c *Canvas) RedoDepth() int { return c.hist.RedoDepth() }

func (c *Canvas) Bounds() image.Rectangle { return c.surf.Bounds() }

// Image returns a copy of the current pixels.
func (c *Canvas) Image() *image.RGBA { return c.surf.Image() }

// At returns the pixel at (x, y).
func (c *Canvas) At(x, y int) color.RGBA { return c.surf.At(x, y) }

// SelectTool changes the active tool. An idle session is reset; a drag in
// progress finishes with the tool it started with.
func (c *Canvas) SelectTool(t shape.Tool) {
	c.tool = t
	if !c.session.Active {
		c.session = Session{Tool: t}
	}
}

// ApplyStyle validates and applies settings form updates. Nothing is applied
// when any update is rejected. Style changes are never recorded in history.
func (c *Canvas) ApplyStyle(updates ...style.Update) (style.Style, error) {
	next, err := style.ApplyAll(c.style, updates...)
	if err != nil {
		return c.style, err
	}
	c.setStyle(next)
	return next, nil
}

// SetStyle replaces the whole style after validating it.
func (c *Canvas) SetStyle(st style.Style) error {
	if err := st.Validate(); err != nil {
		return err
	}
	c.setStyle(st)
	return nil
}

func (c *Canvas) setStyle(st style.Style) {
	c.style = st
	c.surf.SetOpacity(st.Opacity)
}

// PointerDown starts a drag at p. It is ignored while a drag is active.
func (c *Canvas) PointerDown(p image.Point) error {
	if c.session.Active {
		return nil
	}
	c.session = Session{Active: true, Anchor: p, Last: p, Tool: c.tool}
	if c.session.Tool == shape.None {
		c.surf.BeginPath(p)
	}
	return nil
}

// PointerMove extends a freehand drag to p and strokes the path so far.
// Shape drags paint nothing until release.
func (c *Canvas) PointerMove(p image.Point) error {
	if !c.session.Active {
		return nil
	}
	c.session.Last = p
	if c.session.Tool != shape.None {
		return nil
	}
	c.surf.LineTo(p)
	if err := c.surf.StrokePath(c.strokePaint()); err != nil {
		return fmt.Errorf("freehand stroke: %w", err)
	}
	return nil
}

// PointerUp ends the drag at p. Freehand closes its path; shape tools stamp
// the shape spanning the anchor and p. Either way the result is committed
// and redo history is dropped.
func (c *Canvas) PointerUp(p image.Point) error {
	if !c.session.Active {
		return nil
	}
	sess := c.session
	c.session = Session{Tool: c.tool}

	if sess.Tool == shape.None {
		c.surf.ClosePath()
		c.surf.EndPath()
		if sess.Last == sess.Anchor {
			if err := c.surf.Dot(sess.Anchor, c.strokePaint()); err != nil {
				return c.abandon(fmt.Errorf("freehand dot: %w", err))
			}
		}
	} else if err := shape.Apply(c.surf, shape.Render(sess.Tool, sess.Anchor, p, c.style)); err != nil {
		return c.abandon(fmt.Errorf("render %s: %w", sess.Tool, err))
	}
	return c.hist.Commit(c.surf)
}

// Cancel abandons an active drag and repaints the last committed state.
func (c *Canvas) Cancel() error {
	if !c.session.Active {
		return nil
	}
	c.session = Session{Tool: c.tool}
	return c.abandon(nil)
}

// abandon discards uncommitted painting by restoring the history top.
func (c *Canvas) abandon(cause error) error {
	c.surf.EndPath()
	top, ok := c.hist.Top()
	if !ok {
		return cause
	}
	if err := c.surf.Restore(top); err != nil && cause == nil {
		return err
	}
	return cause
}

// Undo steps back one commit. It reports false when there is nothing to undo.
func (c *Canvas) Undo() (bool, error) {
	if err := c.Cancel(); err != nil {
		return false, err
	}
	return c.hist.Undo(c.surf)
}

// Redo steps forward one undone commit. It reports false when there is
// nothing to redo.
func (c *Canvas) Redo() (bool, error) {
	if err := c.Cancel(); err != nil {
		return false, err
	}
	return c.hist.Redo(c.surf)
}

// SetHistoryLimit caps the undo depth from now on.
func (c *Canvas) SetHistoryLimit(n int) {
	c.limit = n
	c.hist.SetLimit(n)
}

// ExportPNG writes the whole surface as PNG without changing anything.
func (c *Canvas) ExportPNG(w io.Writer) error {
	if err := c.surf.EncodePNG(w); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}

func (c *Canvas) strokePaint() surface.Paint {
	return surface.Paint{Color: c.style.StrokeColor, Width: c.style.StrokeWidth}
}
