package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/example/paintapp/internal/config"
	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/server"
	"github.com/example/paintapp/internal/surface"
	"github.com/example/paintapp/internal/watch"
)

type serveCmd struct {
	*root
	fs        *flag.FlagSet
	addr      string
	styleFile string
	maxBody   int64
	verbose   bool
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.addr, "addr", "", "listen address (default from PAINTAPP_ADDR or config)")
	fs.StringVar(&s.styleFile, "style-file", "", "style file to watch and apply")
	fs.Int64Var(&s.maxBody, "max-body", server.DefaultMaxBody, "largest accepted request body in bytes")
	fs.BoolVar(&s.verbose, "v", false, "log at debug level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	if s.maxBody <= 0 {
		return nil, fmt.Errorf("max-body must be positive")
	}
	return s, nil
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

// listenAddr applies flag > env > config precedence.
func (s *serveCmd) listenAddr() string {
	if s.addr != "" {
		return s.addr
	}
	if v := strings.TrimSpace(os.Getenv("PAINTAPP_ADDR")); v != "" {
		return v
	}
	if s.config != nil && s.config.Server.Addr != "" {
		return s.config.Server.Addr
	}
	return config.DefaultAddr
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (s *serveCmd) Run() error {
	logger := newLogger(s.verbose)
	surface.SetLogger(logger)

	c, err := s.newCanvas()
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	host := paint.NewHost(c)
	defer func() {
		if err := host.Close(); err != nil {
			logger.Warn("close canvas", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := startStyleWatch(ctx, s.resolveStyleFile(s.styleFile), host, func(err error) {
		logger.Warn("style file rejected", "err", err)
	})
	if err != nil {
		return err
	}
	if w != nil {
		defer w.Stop()
	}

	srv := server.New(host,
		server.WithLogger(logger),
		server.WithMaxBody(s.maxBody),
		server.WithHooks(
			func(img image.Image) { s.notifySave(paint.DefaultFilename, img) },
			func(img image.Image) { s.notifyLoad("upload", img) },
		),
	)
	addr := s.listenAddr()
	logger.Info("serving", "addr", addr)
	return srv.ListenAndServe(ctx, addr)
}

// startStyleWatch applies path once and then follows its changes. An empty
// path disables watching.
func startStyleWatch(ctx context.Context, path string, host *paint.Host, onError func(error)) (*watch.Watcher, error) {
	if path == "" {
		return nil, nil
	}
	w, err := watch.New(path, host, watch.WithErrorHandler(onError))
	if err != nil {
		return nil, fmt.Errorf("watch style file: %w", err)
	}
	if err := w.Reload(ctx); err != nil && !errors.Is(err, os.ErrNotExist) {
		onError(err)
	}
	w.Start()
	return w, nil
}
