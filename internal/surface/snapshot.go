package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// Snapshot is an immutable PNG capture of an entire surface.
type Snapshot struct {
	data []byte
}

// NewSnapshot wraps encoded image bytes. data is copied.
func NewSnapshot(data []byte) Snapshot {
	return Snapshot{data: append([]byte(nil), data...)}
}

// Bytes returns a copy of the encoded image.
func (s Snapshot) Bytes() []byte {
	return append([]byte(nil), s.data...)
}

// Len is the encoded size in bytes.
func (s Snapshot) Len() int { return len(s.data) }

// IsZero reports whether s holds no data.
func (s Snapshot) IsZero() bool { return len(s.data) == 0 }

// ErrSizeMismatch is wrapped by a DecodeError when a restored image does not
// match the surface dimensions.
var ErrSizeMismatch = errors.New("image size does not match surface")

// DecodeError reports an image or snapshot that could not be decoded. The
// surface is never modified when one is returned.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Snapshot captures every pixel. The raw buffer is stored as non-premultiplied
// RGBA so a later Restore reproduces it byte for byte.
func (s *Surface) Snapshot() (Snapshot, error) {
	if err := s.dc.FlushGPU(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: flush: %w", err)
	}
	w, h := s.dc.Width(), s.dc.Height()
	raw := &image.NRGBA{
		Pix:    append([]byte(nil), s.dc.ResizeTarget().Data()...),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, raw); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: encode: %w", err)
	}
	return Snapshot{data: buf.Bytes()}, nil
}

// Restore replaces the surface pixels with snap. The current path is
// discarded. Decoding happens before anything is touched, so a failure leaves
// the surface as it was. The global opacity is forced to 1 while the pixels
// are written and put back afterwards.
func (s *Surface) Restore(snap Snapshot) error {
	if snap.IsZero() {
		return &DecodeError{Op: "restore", Err: errors.New("empty snapshot")}
	}
	img, err := png.Decode(bytes.NewReader(snap.data))
	if err != nil {
		return &DecodeError{Op: "restore", Err: err}
	}
	w, h := s.dc.Width(), s.dc.Height()
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		return &DecodeError{Op: "restore", Err: fmt.Errorf("%w: got %v, want %dx%d", ErrSizeMismatch, img.Bounds().Size(), w, h)}
	}
	pix := rawPixels(img, w, h)

	prev := s.opacity
	s.opacity = 1
	defer func() { s.opacity = prev }()

	if err := s.dc.FlushGPU(); err != nil {
		return fmt.Errorf("restore: flush: %w", err)
	}
	s.dc.ClearPath()
	copy(s.dc.ResizeTarget().Data(), pix)
	return nil
}

func rawPixels(img image.Image, w, h int) []byte {
	switch m := img.(type) {
	case *image.NRGBA:
		if m.Stride == w*4 && m.Rect.Min == (image.Point{}) {
			return m.Pix
		}
	case *image.RGBA:
		// Only produced by the PNG decoder for fully opaque pixels, where
		// premultiplied and straight alpha coincide.
		if m.Stride == w*4 && m.Rect.Min == (image.Point{}) {
			return m.Pix
		}
	}
	n := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(n, n.Bounds(), img, img.Bounds().Min, draw.Src)
	return n.Pix
}
