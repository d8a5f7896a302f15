package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/render"
	"github.com/example/paintapp/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

type frameState struct {
	layout       *layout
	theme        *theme.Theme
	image        *image.RGBA
	state        paint.State
	hover        hit
	pressed      hit
	message      string
	messageUntil time.Time
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// backdrop caches the window background for one size and theme.
type backdrop struct {
	img   *image.RGBA
	theme *theme.Theme
	rect  image.Rectangle
}

func (b *backdrop) draw(dst *image.RGBA, l *layout, th *theme.Theme) {
	if b.img == nil || b.img.Bounds() != dst.Bounds() || b.theme != th || b.rect != l.canvas {
		b.img = image.NewRGBA(dst.Bounds())
		draw.Draw(b.img, b.img.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
		render.DropShadow(b.img, l.canvas, render.DefaultShadowOptions())
		drawCheckerboard(b.img, l.canvas, 8, th.CheckerLight, th.CheckerDark)
		drawRect(b.img, l.canvas.Inset(-1), th.CanvasBorder, 1)
		b.theme, b.rect = th, l.canvas
	}
	draw.Draw(dst, dst.Bounds(), b.img, image.Point{}, draw.Src)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, bd *backdrop, st frameState) {
	l := st.layout
	b, err := s.NewBuffer(image.Point{l.width, l.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	bd.draw(b.RGBA(), l, st.theme)
	if ctx.Err() != nil {
		return
	}

	if st.image != nil {
		scaler := xdraw.Interpolator(xdraw.NearestNeighbor)
		if l.zoom < 1 {
			scaler = xdraw.ApproxBiLinear
		}
		scaler.Scale(b.RGBA(), l.canvas, st.image, st.image.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(b.RGBA(), st)
	drawStatus(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(b.RGBA(), st)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawToolbar(dst *image.RGBA, st frameState) {
	l, th := st.layout, st.theme
	bar := image.Rect(0, 0, toolbarWidth, l.height)
	draw.Draw(dst, bar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(toolbarWidth-1, 0, toolbarWidth, l.height), &image.Uniform{th.ToolbarSeparator}, image.Point{}, draw.Src)

	for i, b := range l.buttons {
		hovered := st.hover == (hit{hitButton, i})
		pressed := st.pressed == (hit{hitButton, i})
		b.Draw(dst, stateOf(b, hovered, pressed, st.state.Tool))
	}

	for i, r := range l.swatches {
		pc := palette[i]
		draw.Draw(dst, r.Inset(2), &image.Uniform{pc.Color}, image.Point{}, draw.Src)
		switch {
		case st.state.Style.StrokeColor == pc.Color:
			drawRect(dst, r, th.ButtonActive, 2)
		case st.hover == (hit{hitSwatch, i}):
			drawRect(dst, r, th.ButtonBackgroundHover, 2)
		default:
			drawRect(dst, r.Inset(1), th.ButtonBorder, 1)
		}
		if st.state.Style.FillColor == pc.Color {
			c := r.Min.Add(image.Pt(r.Dx()/2, r.Dy()/2))
			draw.Draw(dst, image.Rect(c.X-2, c.Y-2, c.X+2, c.Y+2), &image.Uniform{th.ButtonTextActive}, image.Point{}, draw.Src)
			drawRect(dst, image.Rect(c.X-3, c.Y-3, c.X+3, c.Y+3), th.ButtonText, 1)
		}
	}

	for i, r := range l.widths {
		width := widthOptions[i]
		bg, fg := th.ToolbarBackground, th.ButtonText
		if int(st.state.Style.StrokeWidth) == width {
			bg, fg = th.ButtonActive, th.ButtonTextActive
		} else if st.hover == (hit{hitWidth, i}) {
			bg = th.ButtonBackgroundHover
		}
		draw.Draw(dst, r, &image.Uniform{bg}, image.Point{}, draw.Src)
		thick := width / 2
		if thick < 1 {
			thick = 1
		}
		if limit := r.Dy() - 6; thick > limit {
			thick = limit
		}
		mid := r.Min.Y + r.Dy()/2
		bar := image.Rect(r.Min.X+24, mid-thick/2, r.Max.X-4, mid-thick/2+thick)
		draw.Draw(dst, bar, &image.Uniform{fg}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
			Dot: fixed.P(r.Min.X+2, r.Min.Y+12)}
		d.DrawString(fmt.Sprint(width))
	}
}

func statusText(st paint.State) string {
	return fmt.Sprintf("%s  width %g  opacity %d%%  undo %d  redo %d  %dx%d",
		st.Tool, st.Style.StrokeWidth, st.Style.OpacityPercent(), st.UndoDepth, st.RedoDepth, st.Width, st.Height)
}

func drawStatus(dst *image.RGBA, st frameState) {
	r := st.layout.statusRect()
	draw.Draw(dst, r, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), &image.Uniform{st.theme.ToolbarSeparator}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(r.Min.X+6, r.Min.Y+16)}
	d.DrawString(statusText(st.state))
}

func drawMessage(dst *image.RGBA, st frameState) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: messageFace}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	c := st.layout.canvas
	px := c.Min.X + (c.Dx()-wmsg)/2
	py := c.Min.Y + (c.Dy()-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := st.theme.Background
	draw.Draw(dst, rect, &image.Uniform{color.NRGBA{bg.R, bg.G, bg.B, 230}}, image.Point{}, draw.Over)
	drawRect(dst, rect, st.theme.Foreground, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}
