// Package server exposes a paint.Host to the browser: an embedded page plus a
// small JSON API that forwards pointer, tool and style events.
package server

import (
	"context"
	"embed"
	"errors"
	"image"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/paintapp/internal/paint"
)

//go:embed static
var staticFS embed.FS

// DefaultMaxBody caps request bodies, image uploads included.
const DefaultMaxBody = 32 << 20

const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to the canvas host.
type Server struct {
	host    *paint.Host
	logger  *slog.Logger
	maxBody int64
	onSave  func(image.Image)
	onLoad  func(image.Image)
	router  *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request errors.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxBody overrides DefaultMaxBody.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithHooks registers callbacks run after a successful export or image load.
// Each receives a copy of the canvas at that moment.
func WithHooks(onSave, onLoad func(image.Image)) Option {
	return func(s *Server) { s.onSave, s.onLoad = onSave, onLoad }
}

// New builds the router. The host stays owned by the caller.
func New(host *paint.Host, opts ...Option) *Server {
	s := &Server{host: host, logger: slog.Default(), maxBody: DefaultMaxBody}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.FileServerFS(staticFS))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Get("/state", s.handleState)
		r.Post("/pointer", s.handlePointer)
		r.Post("/tool", s.handleTool)
		r.Post("/style", s.handleStyle)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Post("/new", s.handleNewPage)
		r.Post("/clear", s.handleClear)
		r.Post("/image", s.handleImage)
		r.Get("/"+paint.DefaultFilename, s.handleExport)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}
	s.logger.Info("paint server listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("paint server stopped")
	return nil
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	f, err := staticFS.Open("static/index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.Copy(w, f)
}
