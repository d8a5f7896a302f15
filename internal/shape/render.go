package shape

import (
	"fmt"
	"image"
	"math"

	"github.com/example/paintapp/internal/style"
	"github.com/example/paintapp/internal/surface"
)

// Op is the painting operation of a Call.
type Op int

const (
	Stroke Op = iota
	Fill
)

func (o Op) String() string {
	if o == Fill {
		return "fill"
	}
	return "stroke"
}

// Geometry is one of Rect, Disc or Polygon.
type Geometry interface {
	geometry()
}

// Rect spans Origin to Origin+Size. Size may be negative.
type Rect struct {
	Origin image.Point
	Size   image.Point
}

// Disc is centered on Center.
type Disc struct {
	Center image.Point
	Radius float64
}

// Polygon joins Points in order, back to the first one when Closed.
type Polygon struct {
	Points []image.Point
	Closed bool
}

func (Rect) geometry()    {}
func (Disc) geometry()    {}
func (Polygon) geometry() {}

// Call is a single surface draw.
type Call struct {
	Op       Op
	Geometry Geometry
	Paint    surface.Paint
}

// Render computes the draw calls for tool dragged from anchor to end. It has
// no side effects. Freehand yields no calls.
func Render(tool Tool, anchor, end image.Point, st style.Style) []Call {
	stroke := surface.Paint{Color: st.StrokeColor, Width: st.StrokeWidth}
	fill := surface.Paint{Color: st.FillColor, Width: st.StrokeWidth}

	switch tool {
	case Rectangle:
		g := Rect{Origin: anchor, Size: end.Sub(anchor)}
		return []Call{{Stroke, g, stroke}, {Fill, g, fill}}
	case Circle:
		d := end.Sub(anchor)
		g := Disc{Center: anchor, Radius: math.Hypot(float64(d.X), float64(d.Y))}
		return []Call{{Stroke, g, stroke}, {Fill, g, fill}}
	case Line:
		return []Call{{Stroke, Polygon{Points: []image.Point{anchor, end}}, stroke}}
	case Triangle:
		g := Polygon{Points: TrianglePoints(anchor, end), Closed: true}
		return []Call{{Stroke, g, stroke}, {Fill, g, fill}}
	}
	return nil
}

// TrianglePoints returns the isosceles triangle with apex anchor whose base
// runs through end, mirrored about the apex.
func TrianglePoints(anchor, end image.Point) []image.Point {
	return []image.Point{anchor, end, {X: 2*anchor.X - end.X, Y: end.Y}}
}

// Target is the subset of *surface.Surface that calls draw on.
type Target interface {
	StrokeRect(x, y, w, h float64, p surface.Paint) error
	FillRect(x, y, w, h float64, p surface.Paint) error
	StrokeCircle(cx, cy, r float64, p surface.Paint) error
	FillCircle(cx, cy, r float64, p surface.Paint) error
	StrokePolyline(pts []image.Point, closed bool, p surface.Paint) error
	FillPolygon(pts []image.Point, p surface.Paint) error
}

// Apply executes calls on dst in order and stops at the first error.
func Apply(dst Target, calls []Call) error {
	for i, c := range calls {
		if err := apply(dst, c); err != nil {
			return fmt.Errorf("call %d (%s): %w", i, c.Op, err)
		}
	}
	return nil
}

func apply(dst Target, c Call) error {
	switch g := c.Geometry.(type) {
	case Rect:
		x, y := float64(g.Origin.X), float64(g.Origin.Y)
		w, h := float64(g.Size.X), float64(g.Size.Y)
		if c.Op == Fill {
			return dst.FillRect(x, y, w, h, c.Paint)
		}
		return dst.StrokeRect(x, y, w, h, c.Paint)
	case Disc:
		x, y := float64(g.Center.X), float64(g.Center.Y)
		if c.Op == Fill {
			return dst.FillCircle(x, y, g.Radius, c.Paint)
		}
		return dst.StrokeCircle(x, y, g.Radius, c.Paint)
	case Polygon:
		if c.Op == Fill {
			return dst.FillPolygon(g.Points, c.Paint)
		}
		return dst.StrokePolyline(g.Points, g.Closed, c.Paint)
	}
	return fmt.Errorf("unsupported geometry %T", c.Geometry)
}
