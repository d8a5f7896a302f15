package surface

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

func newTestSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewRejectsBadSize(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestFillAndAt(t *testing.T) {
	s := newTestSurface(t, 8, 4)
	s.Fill(white)
	if got := s.At(3, 2); got != white {
		t.Fatalf("expected white, got %+v", got)
	}
	if got := s.At(100, 100); got != (color.RGBA{}) {
		t.Fatalf("expected zero value outside bounds, got %+v", got)
	}
	s.Clear()
	if got := s.At(3, 2); got != (color.RGBA{}) {
		t.Fatalf("expected transparent after clear, got %+v", got)
	}
}

func TestSnapshotRestoreIsExact(t *testing.T) {
	s := newTestSurface(t, 64, 32)
	s.Fill(white)
	if err := s.StrokeRect(4, 4, 30, 20, Paint{Color: red, Width: 5}); err != nil {
		t.Fatalf("stroke: %v", err)
	}
	before := s.Image()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	s.Fill(color.RGBA{0, 0, 255, 255})
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !bytes.Equal(before.Pix, s.Image().Pix) {
		t.Fatalf("restored pixels differ from snapshot")
	}
}

func TestSnapshotRestoreKeepsTranslucentPixels(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	s.Fill(color.RGBA{10, 20, 30, 40})
	before := s.Image()
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	s.Clear()
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !bytes.Equal(before.Pix, s.Image().Pix) {
		t.Fatalf("translucent pixels changed across restore")
	}
}

func TestRestoreCorruptLeavesSurface(t *testing.T) {
	s := newTestSurface(t, 8, 8)
	s.Fill(red)
	err := s.Restore(NewSnapshot([]byte("not a png")))
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if got := s.At(0, 0); got != red {
		t.Fatalf("surface modified by failed restore: %+v", got)
	}
}

func TestRestoreSizeMismatch(t *testing.T) {
	small := newTestSurface(t, 2, 2)
	snap, err := small.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	s := newTestSurface(t, 4, 4)
	err = s.Restore(snap)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestRestoreKeepsOpacity(t *testing.T) {
	s := newTestSurface(t, 4, 4)
	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	s.SetOpacity(0.3)
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if s.Opacity() != 0.3 {
		t.Fatalf("expected opacity 0.3 after restore, got %v", s.Opacity())
	}
}

func TestSnapshotBytesAreCopies(t *testing.T) {
	snap := NewSnapshot([]byte{1, 2, 3})
	b := snap.Bytes()
	b[0] = 9
	if snap.Bytes()[0] != 1 {
		t.Fatalf("snapshot mutated through Bytes")
	}
}

func TestZeroAreaRectDrawsNothing(t *testing.T) {
	s := newTestSurface(t, 16, 16)
	s.Fill(white)
	before := s.Image()
	if err := s.StrokeRect(8, 8, 0, 0, Paint{Color: red, Width: 5}); err != nil {
		t.Fatalf("stroke: %v", err)
	}
	if err := s.FillRect(8, 8, 0, 0, Paint{Color: red}); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if !bytes.Equal(before.Pix, s.Image().Pix) {
		t.Fatalf("zero area rect changed pixels")
	}
}

func TestZeroLengthLineLeavesDot(t *testing.T) {
	s := newTestSurface(t, 16, 16)
	s.Fill(white)
	pts := []image.Point{{8, 8}, {8, 8}}
	if err := s.StrokePolyline(pts, false, Paint{Color: red, Width: 6}); err != nil {
		t.Fatalf("stroke: %v", err)
	}
	if got := s.At(8, 8); got.R < 250 || got.G > 5 {
		t.Fatalf("expected red dot, got %+v", got)
	}
	if got := s.At(1, 1); got != white {
		t.Fatalf("dot spread to the corner: %+v", got)
	}
}

func TestFillCirclePaintsCenter(t *testing.T) {
	s := newTestSurface(t, 32, 32)
	s.Fill(white)
	if err := s.FillCircle(16, 16, 8, Paint{Color: red}); err != nil {
		t.Fatalf("fill: %v", err)
	}
	got := s.At(16, 16)
	if got.R < 250 || got.G > 5 || got.B > 5 {
		t.Fatalf("expected red center, got %+v", got)
	}
	if got := s.At(1, 1); got != white {
		t.Fatalf("corner should stay white, got %+v", got)
	}
}

func TestOpacityScalesFill(t *testing.T) {
	s := newTestSurface(t, 8, 8)
	s.Fill(white)
	s.SetOpacity(0.5)
	if err := s.FillRect(0, 0, 8, 8, Paint{Color: color.RGBA{0, 0, 0, 255}}); err != nil {
		t.Fatalf("fill: %v", err)
	}
	got := s.At(4, 4)
	if got.R < 100 || got.R > 155 {
		t.Fatalf("expected half blended gray, got %+v", got)
	}
}

func TestDrawImageAtOrigin(t *testing.T) {
	s := newTestSurface(t, 8, 8)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetRGBA(1, 1, red)
	s.DrawImage(img, image.Point{})
	if got := s.At(1, 1); got.R < 250 || got.G > 5 || got.A < 250 {
		t.Fatalf("expected red at (1,1), got %+v", got)
	}
	if got := s.At(0, 0); got.G < 250 || got.A < 250 {
		t.Fatalf("expected white at (0,0), got %+v", got)
	}
	if got := s.At(3, 3); got.A != 0 {
		t.Fatalf("expected untouched pixel outside image, got %+v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	s := newTestSurface(t, 12, 7)
	s.Fill(white)
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 7 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
}
