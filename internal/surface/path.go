package surface

import "image"

// BeginPath discards the current path and starts a new one at p.
func (s *Surface) BeginPath(p image.Point) {
	s.dc.ClearPath()
	s.dc.MoveTo(float64(p.X), float64(p.Y))
}

// LineTo extends the current path to p.
func (s *Surface) LineTo(p image.Point) {
	s.dc.LineTo(float64(p.X), float64(p.Y))
}

// ClosePath closes the current subpath.
func (s *Surface) ClosePath() {
	s.dc.ClosePath()
}

// EndPath drops the current path without painting it.
func (s *Surface) EndPath() {
	s.dc.ClearPath()
}

// StrokePath strokes the current path and keeps it for further extension.
func (s *Surface) StrokePath(p Paint) error {
	s.setPaint(p)
	return s.dc.StrokePreserve()
}

// StrokeRect outlines the rectangle spanning (x, y) to (x+w, y+h). Negative
// sizes extend up or left. A rectangle with no area draws nothing.
func (s *Surface) StrokeRect(x, y, w, h float64, p Paint) error {
	if w == 0 && h == 0 {
		return nil
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.rectPath(x, y, w, h)
	return s.dc.Stroke()
}

// FillRect fills the rectangle spanning (x, y) to (x+w, y+h).
func (s *Surface) FillRect(x, y, w, h float64, p Paint) error {
	if w == 0 || h == 0 {
		return nil
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.rectPath(x, y, w, h)
	return s.dc.Fill()
}

func (s *Surface) rectPath(x, y, w, h float64) {
	s.dc.MoveTo(x, y)
	s.dc.LineTo(x+w, y)
	s.dc.LineTo(x+w, y+h)
	s.dc.LineTo(x, y+h)
	s.dc.ClosePath()
}

// StrokeCircle outlines the full circle of radius r around (cx, cy).
func (s *Surface) StrokeCircle(cx, cy, r float64, p Paint) error {
	if !(r > 0) {
		return nil
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.dc.DrawCircle(cx, cy, r)
	return s.dc.Stroke()
}

// FillCircle fills the full circle of radius r around (cx, cy).
func (s *Surface) FillCircle(cx, cy, r float64, p Paint) error {
	if !(r > 0) {
		return nil
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.dc.DrawCircle(cx, cy, r)
	return s.dc.Fill()
}

// Dot paints the round cap a zero-length stroke at pt leaves behind.
func (s *Surface) Dot(pt image.Point, p Paint) error {
	if !(p.Width > 0) {
		return nil
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.dc.DrawCircle(float64(pt.X), float64(pt.Y), p.Width/2)
	return s.dc.Fill()
}

// StrokePolyline strokes the segments joining pts, closing back to the first
// point when closed is set. Coinciding points leave a single dot.
func (s *Surface) StrokePolyline(pts []image.Point, closed bool, p Paint) error {
	if len(pts) == 0 {
		return nil
	}
	if degenerate(pts) {
		return s.Dot(pts[0], p)
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.polyPath(pts, closed)
	return s.dc.Stroke()
}

// FillPolygon fills the closed polygon through pts.
func (s *Surface) FillPolygon(pts []image.Point, p Paint) error {
	if len(pts) < 3 || degenerate(pts) {
		return nil
	}
	s.setPaint(p)
	s.dc.ClearPath()
	s.polyPath(pts, true)
	return s.dc.Fill()
}

func (s *Surface) polyPath(pts []image.Point, closed bool) {
	s.dc.MoveTo(float64(pts[0].X), float64(pts[0].Y))
	for _, pt := range pts[1:] {
		s.dc.LineTo(float64(pt.X), float64(pt.Y))
	}
	if closed {
		s.dc.ClosePath()
	}
}

// degenerate reports whether every point coincides.
func degenerate(pts []image.Point) bool {
	if len(pts) < 2 {
		return true
	}
	for _, pt := range pts[1:] {
		if pt != pts[0] {
			return false
		}
	}
	return true
}
