// Package clipboard moves PNG drawings between the canvas and the desktop
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"os"
)

var (
	// ErrEmpty reports a clipboard that holds no image.
	ErrEmpty = errors.New("clipboard does not contain image data")

	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errNotPNG    = errors.New("clipboard: data is not a PNG image")
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func checkPNG(data []byte) error {
	if !bytes.HasPrefix(data, pngSignature) {
		return errNotPNG
	}
	return nil
}
