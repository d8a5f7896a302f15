package paint

import (
	"bytes"
	"image"
	"io"

	// Decoders accepted by LoadImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/paintapp/internal/surface"
)

// NewPage paints the surface opaque white and discards all history.
func (c *Canvas) NewPage() error {
	c.session = Session{Tool: c.tool}
	c.surf.EndPath()
	c.surf.Fill(pageWhite)
	return c.hist.Reset(c.surf)
}

// Clear paints the style background over everything and commits it, so it
// can be undone.
func (c *Canvas) Clear() error {
	if err := c.Cancel(); err != nil {
		return err
	}
	c.surf.Fill(c.style.BackgroundColor)
	return c.hist.Commit(c.surf)
}

// LoadImage decodes data and draws it unscaled at the top-left corner of a
// cleared surface, then commits. Parts outside the surface are cropped. A
// decode failure returns *surface.DecodeError and changes nothing.
func (c *Canvas) LoadImage(data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return &surface.DecodeError{Op: "load image", Err: err}
	}
	return c.PlaceImage(img)
}

// LoadImageFrom reads r fully and passes it to LoadImage.
func (c *Canvas) LoadImageFrom(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return c.LoadImage(data)
}

// PlaceImage replaces the surface content with an already decoded image.
func (c *Canvas) PlaceImage(img image.Image) error {
	if err := c.Cancel(); err != nil {
		return err
	}
	c.surf.Clear()
	prev := c.surf.Opacity()
	c.surf.SetOpacity(1)
	c.surf.DrawImage(img, image.Point{})
	c.surf.SetOpacity(prev)
	return c.hist.Commit(c.surf)
}
