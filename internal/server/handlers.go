package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
	"github.com/example/paintapp/internal/surface"
)

// stateResponse is the JSON view of paint.State.
type stateResponse struct {
	paint.State
	Style map[style.Field]string `json:"style"`
}

func newStateResponse(st paint.State) stateResponse {
	return stateResponse{State: st, Style: st.Style.Fields()}
}

// pointerEvent is one pointer sample. A request carries either a single
// event or a batch under "events", applied in order.
type pointerEvent struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type pointerRequest struct {
	pointerEvent
	Events []pointerEvent `json:"events"`
}

type toolRequest struct {
	Tool string `json:"tool"`
}

type styleRequest struct {
	Field   string            `json:"field"`
	Value   string            `json:"value"`
	Updates map[string]string `json:"updates"`
}

// badRequest marks client errors that are not validation failures.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(*paint.Canvas) error { return nil })
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if !s.decode(w, r, &req) {
		return
	}
	events := req.Events
	if len(events) == 0 {
		events = []pointerEvent{req.pointerEvent}
	}
	for _, ev := range events {
		switch ev.Type {
		case "down", "move", "up", "cancel":
		default:
			s.fail(w, r, badRequest{fmt.Errorf("unknown pointer event %q", ev.Type)})
			return
		}
	}
	s.respond(w, r, func(c *paint.Canvas) error {
		bounds := c.Bounds()
		for _, ev := range events {
			p := clampPoint(image.Pt(ev.X, ev.Y), bounds)
			var err error
			switch ev.Type {
			case "down":
				err = c.PointerDown(p)
			case "move":
				err = c.PointerMove(p)
			case "up":
				err = c.PointerUp(p)
			case "cancel":
				err = c.Cancel()
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// clampPoint pins p to the last pixel inside b so a drag that leaves the
// canvas ends on its border.
func clampPoint(p image.Point, b image.Rectangle) image.Point {
	p.X = min(max(p.X, b.Min.X), b.Max.X-1)
	p.Y = min(max(p.Y, b.Min.Y), b.Max.Y-1)
	return p
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	var req toolRequest
	if !s.decode(w, r, &req) {
		return
	}
	tool, err := shape.ParseTool(req.Tool)
	if err != nil {
		s.fail(w, r, badRequest{err})
		return
	}
	s.respond(w, r, func(c *paint.Canvas) error {
		c.SelectTool(tool)
		return nil
	})
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	var req styleRequest
	if !s.decode(w, r, &req) {
		return
	}
	fields := make(map[style.Field]string, len(req.Updates)+1)
	for name, value := range req.Updates {
		f, err := style.ParseField(name)
		if err != nil {
			s.fail(w, r, badRequest{err})
			return
		}
		fields[f] = value
	}
	if req.Field != "" {
		f, err := style.ParseField(req.Field)
		if err != nil {
			s.fail(w, r, badRequest{err})
			return
		}
		fields[f] = req.Value
	}
	// Apply in form order so the first rejection is stable.
	var updates []style.Update
	for _, f := range style.FieldNames() {
		if v, ok := fields[f]; ok {
			updates = append(updates, style.Update{Field: f, Value: v})
		}
	}
	if len(updates) == 0 {
		s.fail(w, r, badRequest{errors.New("no style field given")})
		return
	}
	s.respond(w, r, func(c *paint.Canvas) error {
		_, err := c.ApplyStyle(updates...)
		return err
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(c *paint.Canvas) error {
		_, err := c.Undo()
		return err
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(c *paint.Canvas) error {
		_, err := c.Redo()
		return err
	})
}

func (s *Server) handleNewPage(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, (*paint.Canvas).NewPage)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, (*paint.Canvas).Clear)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var loaded *image.RGBA
	ok := s.respond(w, r, func(c *paint.Canvas) error {
		if err := c.LoadImage(data); err != nil {
			return err
		}
		if s.onLoad != nil {
			loaded = c.Image()
		}
		return nil
	})
	if ok && s.onLoad != nil {
		s.onLoad(loaded)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var (
		buf      bytes.Buffer
		exported *image.RGBA
	)
	err := s.host.Do(r.Context(), func(c *paint.Canvas) error {
		if s.onSave != nil {
			exported = c.Image()
		}
		return c.ExportPNG(&buf)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("inline") == "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": paint.DefaultFilename}))
	}
	_, _ = buf.WriteTo(w)
	if s.onSave != nil && r.URL.Query().Get("inline") == "" {
		s.onSave(exported)
	}
}

// readUpload accepts raw image bytes or a multipart form with a "file" field.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, badRequest{fmt.Errorf("upload: %w", err)}
	}
	defer f.Close()
	return io.ReadAll(f)
}

// respond runs fn on the host and writes the resulting state. It reports
// whether fn succeeded.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, fn paint.Command) bool {
	var st paint.State
	err := s.host.Do(r.Context(), func(c *paint.Canvas) error {
		if err := fn(c); err != nil {
			return err
		}
		st = c.State()
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return false
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
	return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.fail(w, r, badRequest{fmt.Errorf("invalid request body: %w", err)})
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *style.ValidationError
		derr   *surface.DecodeError
		maxErr *http.MaxBytesError
		bad    badRequest
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": verr.Message, "field": string(verr.Field)})
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, err)
	case errors.As(err, &derr), errors.As(err, &bad):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, paint.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
