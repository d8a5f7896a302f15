package appstate

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/theme"
)

const (
	toolbarWidth   = 76
	buttonHeight   = 22
	buttonGap      = 2
	swatchSize     = 18
	widthRowHeight = 16
	statusHeight   = 24
	toolbarPad     = 4
	canvasMargin   = 8
	minZoom        = 0.1
)

// PaletteColor is a toolbar swatch. Name is accepted by style.ParseColor.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"black", colornames.Black},
	{"white", colornames.White},
	{"red", colornames.Red},
	{"lime", colornames.Lime},
	{"blue", colornames.Blue},
	{"yellow", colornames.Yellow},
	{"cyan", colornames.Cyan},
	{"magenta", colornames.Magenta},
	{"maroon", colornames.Maroon},
	{"green", colornames.Green},
	{"navy", colornames.Navy},
	{"olive", colornames.Olive},
	{"teal", colornames.Teal},
	{"purple", colornames.Purple},
	{"silver", colornames.Silver},
	{"gray", colornames.Gray},
}

var widthOptions = []int{3, 5, 8, 12, 20}

// Palette returns a copy of the toolbar swatches.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// WidthOptions returns a copy of the toolbar stroke widths.
func WidthOptions() []int {
	out := make([]int, len(widthOptions))
	copy(out, widthOptions)
	return out
}

type hitKind int

const (
	hitNone hitKind = iota
	hitButton
	hitSwatch
	hitWidth
	hitCanvas
)

// hit identifies what lies under a window position.
type hit struct {
	kind  hitKind
	index int
}

// layout positions the toolbar and the scaled canvas for one window size.
type layout struct {
	width, height int
	canvasSize    image.Point

	buttons  []*CacheButton
	swatches []image.Rectangle
	widths   []image.Rectangle

	canvas image.Rectangle // destination of the scaled surface
	zoom   float64
}

func newLayout(width, height int, canvasSize image.Point, buttons []*CacheButton) *layout {
	l := &layout{width: width, height: height, canvasSize: canvasSize, buttons: buttons}

	y := toolbarPad
	for _, b := range buttons {
		if _, ok := b.Button.(*separator); ok {
			b.SetRect(image.Rect(toolbarPad, y, toolbarWidth-toolbarPad, y+buttonGap*3))
			y += buttonGap * 3
			continue
		}
		b.SetRect(image.Rect(toolbarPad, y, toolbarWidth-toolbarPad, y+buttonHeight))
		y += buttonHeight + buttonGap
	}

	y += toolbarPad
	cols := (toolbarWidth - 2*toolbarPad) / swatchSize
	for i := range palette {
		x0 := toolbarPad + (i%cols)*swatchSize
		y0 := y + (i/cols)*swatchSize
		l.swatches = append(l.swatches, image.Rect(x0, y0, x0+swatchSize, y0+swatchSize))
	}
	y += ((len(palette) + cols - 1) / cols) * swatchSize

	y += toolbarPad
	for range widthOptions {
		l.widths = append(l.widths, image.Rect(toolbarPad, y, toolbarWidth-toolbarPad, y+widthRowHeight))
		y += widthRowHeight
	}

	l.zoom = fitZoom(canvasSize, width, height)
	w := int(float64(canvasSize.X) * l.zoom)
	h := int(float64(canvasSize.Y) * l.zoom)
	x0 := toolbarWidth + canvasMargin
	y0 := canvasMargin
	l.canvas = image.Rect(x0, y0, x0+w, y0+h)
	return l
}

// windowSize is the window that shows the canvas unscaled.
func windowSize(canvasSize image.Point) image.Point {
	return image.Pt(canvasSize.X+toolbarWidth+2*canvasMargin, canvasSize.Y+statusHeight+2*canvasMargin)
}

func fitZoom(canvasSize image.Point, winW, winH int) float64 {
	if canvasSize.X <= 0 || canvasSize.Y <= 0 {
		return 1
	}
	availW := winW - toolbarWidth - 2*canvasMargin
	availH := winH - statusHeight - 2*canvasMargin
	z := math.Min(float64(availW)/float64(canvasSize.X), float64(availH)/float64(canvasSize.Y))
	if z < minZoom {
		return minZoom
	}
	return z
}

// toCanvas maps a window position to surface coordinates. Positions outside
// the canvas map outside the surface bounds.
func (l *layout) toCanvas(p image.Point) image.Point {
	return image.Pt(
		int(math.Floor(float64(p.X-l.canvas.Min.X)/l.zoom)),
		int(math.Floor(float64(p.Y-l.canvas.Min.Y)/l.zoom)),
	)
}

func (l *layout) statusRect() image.Rectangle {
	return image.Rect(toolbarWidth, l.height-statusHeight, l.width, l.height)
}

func (l *layout) hitTest(p image.Point) hit {
	if p.X < toolbarWidth {
		for i, b := range l.buttons {
			if _, ok := b.Button.(*separator); !ok && p.In(b.Rect()) {
				return hit{hitButton, i}
			}
		}
		for i, r := range l.swatches {
			if p.In(r) {
				return hit{hitSwatch, i}
			}
		}
		for i, r := range l.widths {
			if p.In(r) {
				return hit{hitWidth, i}
			}
		}
		return hit{}
	}
	if p.In(l.canvas) {
		return hit{kind: hitCanvas}
	}
	return hit{}
}

// toolButtons builds the toolbar in display order.
func toolButtons(th *theme.Theme, onTool func(shape.Tool), actions map[string]func()) []*CacheButton {
	var out []*CacheButton
	labels := map[shape.Tool]string{
		shape.None:      "F:Free",
		shape.Rectangle: "R:Rect",
		shape.Circle:    "O:Circle",
		shape.Line:      "L:Line",
		shape.Triangle:  "T:Tri",
	}
	for _, t := range shape.Tools() {
		t := t
		out = append(out, &CacheButton{Button: &ToolButton{
			label:    labels[t],
			tool:     t,
			theme:    th,
			onSelect: func() { onTool(t) },
		}})
	}
	out = append(out, &CacheButton{Button: &separator{theme: th}})
	for _, a := range []struct{ label, action string }{
		{"Undo", actionUndo},
		{"Redo", actionRedo},
		{"New", actionNew},
		{"Clear", actionClear},
		{"Save", actionSave},
		{"Copy", actionCopy},
		{"Paste", actionPaste},
	} {
		out = append(out, &CacheButton{Button: &ActionButton{label: a.label, theme: th, onActivate: actions[a.action]}})
	}
	return out
}
