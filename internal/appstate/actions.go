package appstate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/paintapp/internal/clipboard"
	"github.com/example/paintapp/internal/notify"
	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
)

// commandTimeout bounds how long the window waits on the canvas host.
const commandTimeout = 5 * time.Second

var (
	writeClipboard = clipboard.WritePNG
	readClipboard  = clipboard.ReadPNG
)

// controller turns window input into canvas commands.
type controller struct {
	host     *paint.Host
	output   string
	notifier *notify.Notifier
	// say reports a short status message.
	say func(string)
}

func (c *controller) message(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Print(msg)
	if c.say != nil {
		c.say(msg)
	}
}

func (c *controller) do(fn paint.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return c.host.Do(ctx, fn)
}

// post queues fn without waiting. Pointer input goes through here so the
// event loop never blocks on rendering.
func (c *controller) post(fn paint.Command) {
	res := c.host.Post(fn)
	go func() {
		if err := <-res; err != nil {
			log.Printf("paint: %v", err)
		}
	}()
}

func (c *controller) pointerDown(p image.Point) {
	c.post(func(cv *paint.Canvas) error { return cv.PointerDown(p) })
}

func (c *controller) pointerMove(p image.Point) {
	c.post(func(cv *paint.Canvas) error { return cv.PointerMove(p) })
}

func (c *controller) pointerUp(p image.Point) {
	c.post(func(cv *paint.Canvas) error { return cv.PointerUp(p) })
}

func (c *controller) cancel() {
	c.post(func(cv *paint.Canvas) error { return cv.Cancel() })
}

func (c *controller) selectTool(t shape.Tool) {
	c.post(func(cv *paint.Canvas) error {
		cv.SelectTool(t)
		return nil
	})
	c.message("tool %s", t)
}

func (c *controller) applyStyle(updates ...style.Update) error {
	err := c.do(func(cv *paint.Canvas) error {
		_, err := cv.ApplyStyle(updates...)
		return err
	})
	var verr *style.ValidationError
	if errors.As(err, &verr) {
		c.message("%s", verr.Message)
	}
	return err
}

func (c *controller) setColor(name string) error {
	return c.applyStyle(style.Update{Field: style.FieldColor, Value: name})
}

func (c *controller) setFill(name string) error {
	return c.applyStyle(style.Update{Field: style.FieldFill, Value: name})
}

func (c *controller) setWidth(w int) error {
	return c.applyStyle(style.Update{Field: style.FieldWidth, Value: strconv.Itoa(w)})
}

func (c *controller) undo() error {
	var ok bool
	err := c.do(func(cv *paint.Canvas) (err error) {
		ok, err = cv.Undo()
		return err
	})
	if err == nil && !ok {
		c.message("nothing to undo")
	}
	return err
}

func (c *controller) redo() error {
	var ok bool
	err := c.do(func(cv *paint.Canvas) (err error) {
		ok, err = cv.Redo()
		return err
	})
	if err == nil && !ok {
		c.message("nothing to redo")
	}
	return err
}

func (c *controller) newPage() error {
	if err := c.do(func(cv *paint.Canvas) error { return cv.NewPage() }); err != nil {
		return err
	}
	c.message("new page")
	return nil
}

func (c *controller) clear() error {
	return c.do(func(cv *paint.Canvas) error { return cv.Clear() })
}

// encode exports the canvas as PNG along with the pixels it was made from.
func (c *controller) encode() ([]byte, *image.RGBA, error) {
	var (
		buf bytes.Buffer
		img *image.RGBA
	)
	err := c.do(func(cv *paint.Canvas) error {
		img = cv.Image()
		return cv.ExportPNG(&buf)
	})
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), img, nil
}

func (c *controller) save() error {
	data, img, err := c.encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	c.message("saved %s", c.output)
	if c.notifier != nil {
		c.notifier.Save(notify.Drawing{Name: c.output, Image: img})
	}
	return nil
}

func (c *controller) copyImage() error {
	data, img, err := c.encode()
	if err != nil {
		return err
	}
	if err := writeClipboard(data); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	c.message("copied to clipboard")
	if c.notifier != nil {
		c.notifier.Copy(notify.Drawing{Name: "drawing", Image: img})
	}
	return nil
}

// paste loads the clipboard image. The read may wait on another
// application, so callers run it off the event loop.
func (c *controller) paste() error {
	data, err := readClipboard()
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	var img *image.RGBA
	err = c.do(func(cv *paint.Canvas) error {
		if err := cv.LoadImage(data); err != nil {
			return err
		}
		img = cv.Image()
		return nil
	})
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	c.message("pasted image")
	if c.notifier != nil {
		c.notifier.Load(notify.Drawing{Name: "clipboard", Image: img})
	}
	return nil
}

// snapshot returns a copy of the surface pixels and the state for one frame.
func (c *controller) snapshot(ctx context.Context) (*image.RGBA, paint.State, error) {
	var (
		img *image.RGBA
		st  paint.State
	)
	err := c.host.Do(ctx, func(cv *paint.Canvas) error {
		img = cv.Image()
		st = cv.State()
		return nil
	})
	return img, st, err
}
