package appstate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/theme"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateActive
	buttonStates
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [buttonStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [buttonStates]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// stateOf picks the drawing state for b given the pointer and the canvas
// tool.
func stateOf(b *CacheButton, hovered, pressed bool, tool shape.Tool) ButtonState {
	switch {
	case pressed:
		return StatePressed
	case hovered:
		return StateHover
	}
	if tb, ok := b.Button.(*ToolButton); ok && tb.tool == tool {
		return StateActive
	}
	return StateDefault
}

func drawLabel(dst *image.RGBA, th *theme.Theme, rect image.Rectangle, label string, state ButtonState) {
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	case StateActive:
		bg, fg = th.ButtonActive, th.ButtonTextActive
	}
	draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawRect(dst, rect, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(rect.Min.X+4, rect.Min.Y+(rect.Dy()+10)/2)}
	d.DrawString(label)
}

// ToolButton represents a toolbar button that selects a drawing tool.
type ToolButton struct {
	label string
	tool  shape.Tool
	theme *theme.Theme
	rect  image.Rectangle
	// onSelect is called when the button is activated.
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	drawLabel(dst, tb.theme, tb.rect, tb.label, state)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// ActionButton runs a one-shot action such as undo or save.
type ActionButton struct {
	label      string
	theme      *theme.Theme
	rect       image.Rectangle
	onActivate func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	drawLabel(dst, ab.theme, ab.rect, ab.label, state)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) { ab.rect = r }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// separator is an inert gap between toolbar groups.
type separator struct {
	theme *theme.Theme
	rect  image.Rectangle
}

func (s *separator) Draw(dst *image.RGBA, _ ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{s.theme.ToolbarBackground}, image.Point{}, draw.Src)
	mid := s.rect.Min.Y + s.rect.Dy()/2
	draw.Draw(dst, image.Rect(s.rect.Min.X, mid, s.rect.Max.X, mid+1), &image.Uniform{s.theme.ToolbarSeparator}, image.Point{}, draw.Src)
}

func (s *separator) Rect() image.Rectangle { return s.rect }

func (s *separator) SetRect(r image.Rectangle) { s.rect = r }

func (s *separator) Activate() {}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}
