package appstate

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	canvas "github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) say(msg string) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return ""
	}
	return r.msgs[len(r.msgs)-1]
}

func newTestController(t *testing.T) (*controller, *recorder) {
	t.Helper()
	c, err := canvas.New(canvas.WithSize(32, 24))
	if err != nil {
		t.Fatalf("new canvas: %v", err)
	}
	h := canvas.NewHost(c)
	t.Cleanup(func() { _ = h.Close() })
	rec := &recorder{}
	return &controller{
		host:   h,
		output: filepath.Join(t.TempDir(), "drawing.png"),
		say:    rec.say,
	}, rec
}

func state(t *testing.T, c *controller) canvas.State {
	t.Helper()
	st, err := c.host.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	return st
}

func pngOf(t *testing.T, w, h int, col color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, col)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestControllerPointerSession(t *testing.T) {
	c, _ := newTestController(t)
	c.selectTool(shape.Rectangle)
	c.pointerDown(image.Pt(2, 2))
	c.pointerMove(image.Pt(10, 10))
	c.pointerUp(image.Pt(20, 20))
	st := state(t, c)
	if st.Tool != shape.Rectangle || st.Dragging || st.UndoDepth != 2 {
		t.Fatalf("unexpected state after drag %+v", st)
	}
	if err := c.undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if err := c.redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if st := state(t, c); st.UndoDepth != 2 || st.RedoDepth != 0 {
		t.Fatalf("unexpected depths %+v", st)
	}
}

func TestControllerCancel(t *testing.T) {
	c, _ := newTestController(t)
	c.pointerDown(image.Pt(2, 2))
	c.pointerMove(image.Pt(8, 8))
	c.cancel()
	if st := state(t, c); st.Dragging || st.UndoDepth != 1 {
		t.Fatalf("cancel left %+v", st)
	}
}

func TestControllerEmptyHistory(t *testing.T) {
	c, rec := newTestController(t)
	if err := c.undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if rec.last() != "nothing to undo" {
		t.Fatalf("unexpected message %q", rec.last())
	}
	if err := c.redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if rec.last() != "nothing to redo" {
		t.Fatalf("unexpected message %q", rec.last())
	}
}

func TestControllerStyle(t *testing.T) {
	c, rec := newTestController(t)
	if err := c.setColor("red"); err != nil {
		t.Fatalf("color: %v", err)
	}
	if err := c.setFill("blue"); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if err := c.setWidth(12); err != nil {
		t.Fatalf("width: %v", err)
	}
	st := state(t, c)
	if st.Style.StrokeColor != (color.RGBA{255, 0, 0, 255}) || st.Style.FillColor != (color.RGBA{0, 0, 255, 255}) || st.Style.StrokeWidth != 12 {
		t.Fatalf("unexpected style %+v", st.Style)
	}
	if st.UndoDepth != 1 {
		t.Fatalf("style change committed, depth %d", st.UndoDepth)
	}

	err := c.setWidth(40)
	var verr *style.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if rec.last() != "Width must be between 3 and 20" {
		t.Fatalf("unexpected message %q", rec.last())
	}
	if st := state(t, c); st.Style.StrokeWidth != 12 {
		t.Fatalf("rejected width applied: %v", st.Style.StrokeWidth)
	}
}

func TestControllerSave(t *testing.T) {
	c, rec := newTestController(t)
	if err := c.save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	f, err := os.Open(c.output)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if rec.last() != "saved "+c.output {
		t.Fatalf("unexpected message %q", rec.last())
	}
}

func TestControllerSaveError(t *testing.T) {
	c, _ := newTestController(t)
	c.output = filepath.Join(t.TempDir(), "missing", "drawing.png")
	if err := c.save(); err == nil {
		t.Fatalf("expected error writing to missing directory")
	}
}

func TestControllerCopy(t *testing.T) {
	c, _ := newTestController(t)
	var got []byte
	orig := writeClipboard
	writeClipboard = func(data []byte) error {
		got = data
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	if err := c.copyImage(); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(got)); err != nil {
		t.Fatalf("clipboard did not receive a PNG: %v", err)
	}
}

func TestControllerPaste(t *testing.T) {
	c, _ := newTestController(t)
	orig := readClipboard
	t.Cleanup(func() { readClipboard = orig })

	readClipboard = func() ([]byte, error) { return pngOf(t, 4, 4, color.RGBA{255, 0, 0, 255}), nil }
	if err := c.paste(); err != nil {
		t.Fatalf("paste: %v", err)
	}
	var px color.RGBA
	if err := c.do(func(cv *canvas.Canvas) error {
		px = cv.At(1, 1)
		return nil
	}); err != nil {
		t.Fatalf("read pixel: %v", err)
	}
	if px.R < 250 || px.G > 5 {
		t.Fatalf("expected pasted red pixel, got %+v", px)
	}
	if st := state(t, c); st.UndoDepth != 2 {
		t.Fatalf("paste did not commit, depth %d", st.UndoDepth)
	}

	readClipboard = func() ([]byte, error) { return []byte("not an image"), nil }
	if err := c.paste(); err == nil {
		t.Fatalf("expected decode error")
	}
	if st := state(t, c); st.UndoDepth != 2 {
		t.Fatalf("failed paste changed history, depth %d", st.UndoDepth)
	}

	want := errors.New("no owner")
	readClipboard = func() ([]byte, error) { return nil, want }
	if err := c.paste(); !errors.Is(err, want) {
		t.Fatalf("expected wrapped clipboard error, got %v", err)
	}
}

func TestControllerNewPageAndClear(t *testing.T) {
	c, _ := newTestController(t)
	c.pointerDown(image.Pt(1, 1))
	c.pointerUp(image.Pt(9, 9))
	if err := c.clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if st := state(t, c); st.UndoDepth != 3 {
		t.Fatalf("clear not committed, depth %d", st.UndoDepth)
	}
	if err := c.newPage(); err != nil {
		t.Fatalf("new page: %v", err)
	}
	if st := state(t, c); st.UndoDepth != 1 || st.RedoDepth != 0 {
		t.Fatalf("new page kept history %+v", st)
	}
}

func TestControllerSnapshot(t *testing.T) {
	c, _ := newTestController(t)
	img, st, err := c.snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 24) || st.Width != 32 {
		t.Fatalf("unexpected snapshot %v %+v", img.Bounds(), st)
	}
}
