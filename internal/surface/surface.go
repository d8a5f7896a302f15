// Package surface wraps the fixed-size raster the canvas paints on.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/gg"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Paint is the brush used by a single stroke or fill.
type Paint struct {
	Color color.RGBA
	Width float64
}

// Surface is a pixel buffer with a current path and a global opacity that
// scales every stroke, fill and image blit. It is not safe for concurrent use.
type Surface struct {
	dc      *gg.Context
	opacity float64
}

// SetLogger routes rasterizer diagnostics through l.
func SetLogger(l *slog.Logger) {
	gg.SetLogger(l)
}

// New returns a transparent surface of the given size.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Surface{dc: dc, opacity: 1}, nil
}

// Close releases rasterizer resources.
func (s *Surface) Close() error {
	return s.dc.Close()
}

func (s *Surface) Width() int { return s.dc.Width() }

func (s *Surface) Height() int { return s.dc.Height() }

func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.dc.Width(), s.dc.Height())
}

// Opacity returns the global alpha in [0,1].
func (s *Surface) Opacity() float64 { return s.opacity }

// SetOpacity sets the global alpha. Values outside [0,1] are clamped.
func (s *Surface) SetOpacity(a float64) {
	if math.IsNaN(a) {
		return
	}
	s.opacity = math.Max(0, math.Min(1, a))
}

// Fill replaces every pixel with c, ignoring opacity.
func (s *Surface) Fill(c color.RGBA) {
	s.dc.ClearWithColor(gg.FromColor(c))
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	s.dc.Clear()
}

// At returns the stored bytes of the pixel at (x, y).
func (s *Surface) At(x, y int) color.RGBA {
	if !image.Pt(x, y).In(s.Bounds()) {
		return color.RGBA{}
	}
	_ = s.dc.FlushGPU()
	data := s.dc.ResizeTarget().Data()
	i := (y*s.dc.Width() + x) * 4
	return color.RGBA{data[i], data[i+1], data[i+2], data[i+3]}
}

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.RGBA {
	_ = s.dc.FlushGPU()
	return s.dc.ResizeTarget().ToImage()
}

// EncodePNG writes the full surface as PNG. The surface is not modified.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.dc.FlushGPU(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return s.dc.EncodePNG(w)
}

// DrawImage blits img unscaled with its top-left corner at at. Pixels
// outside the surface are dropped. gg reads a zero image opacity as opaque,
// so nothing is drawn while the global opacity is zero.
func (s *Surface) DrawImage(img image.Image, at image.Point) {
	if img == nil || img.Bounds().Empty() || s.opacity == 0 {
		return
	}
	s.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             float64(at.X),
		Y:             float64(at.Y),
		Interpolation: gg.InterpNearest,
		Opacity:       s.opacity,
		BlendMode:     gg.BlendNormal,
	})
}

func (s *Surface) setPaint(p Paint) {
	s.dc.SetRGBA(
		float64(p.Color.R)/255,
		float64(p.Color.G)/255,
		float64(p.Color.B)/255,
		float64(p.Color.A)/255*s.opacity,
	)
	if p.Width > 0 {
		s.dc.SetLineWidth(p.Width)
	}
}
