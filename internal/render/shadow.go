// Package render holds raster effects for the window chrome.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow painted behind a rectangle.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	Color   color.RGBA
}

// DefaultShadowOptions returns a soft shadow suited to the canvas frame.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(3, 3),
		Opacity: 0.35,
		Color:   color.RGBA{0, 0, 0, 255},
	}
}

// ShadowBounds reports the area DropShadow may touch for rect.
func ShadowBounds(rect image.Rectangle, opts ShadowOptions) image.Rectangle {
	if opts.Radius < 0 {
		opts.Radius = 0
	}
	return rect.Inset(-opts.Radius).Add(opts.Offset)
}

// DropShadow composites a blurred copy of rect, moved by opts.Offset, over
// dst. Pixels inside rect are left for the caller to cover.
func DropShadow(dst *image.RGBA, rect image.Rectangle, opts ShadowOptions) {
	if dst == nil || rect.Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	// The mask carries a radius margin on every side so the blur can spread.
	padded := rect.Inset(-radius)
	mask := image.NewGray(padded.Sub(padded.Min))
	inner := rect.Sub(padded.Min)
	draw.Draw(mask, inner, image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	blurred := blurGray(mask, radius)

	target := padded.Add(opts.Offset)
	clipped := target.Intersect(dst.Bounds())
	if clipped.Empty() {
		return
	}
	c := opts.Color
	a := uint8(opacity*255 + 0.5)
	src := image.NewUniform(color.NRGBA{c.R, c.G, c.B, a})
	draw.DrawMask(dst, clipped, src, image.Point{}, blurred, clipped.Min.Sub(target.Min), draw.Over)
}

// blurGray applies a separable box blur of the given radius.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	dst := image.NewGray(b)

	boxPass(w, h, func(i, j int) int { return int(src.Pix[j*src.Stride+i]) },
		func(i, j int, v uint8) { tmp.Pix[j*tmp.Stride+i] = v }, radius)
	boxPass(h, w, func(i, j int) int { return int(tmp.Pix[i*tmp.Stride+j]) },
		func(i, j int, v uint8) { dst.Pix[i*dst.Stride+j] = v }, radius)
	return dst
}

// boxPass averages along the first axis of an n by lines grid using a
// running prefix sum.
func boxPass(n, lines int, get func(i, j int) int, set func(i, j int, v uint8), radius int) {
	prefix := make([]int, n+1)
	for j := 0; j < lines; j++ {
		for i := 0; i < n; i++ {
			prefix[i+1] = prefix[i] + get(i, j)
		}
		for i := 0; i < n; i++ {
			lo, hi := i-radius, i+radius
			if lo < 0 {
				lo = 0
			}
			if hi >= n {
				hi = n - 1
			}
			set(i, j, uint8((prefix[hi+1]-prefix[lo])/(hi-lo+1)))
		}
	}
}
