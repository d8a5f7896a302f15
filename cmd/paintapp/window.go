package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/paintapp/internal/appstate"
	"github.com/example/paintapp/internal/paint"
)

type windowCmd struct {
	*root
	fs        *flag.FlagSet
	output    string
	file      string
	styleFile string
}

func parseWindowCmd(args []string, r *root) (*windowCmd, error) {
	fs := flag.NewFlagSet("window", flag.ExitOnError)
	w := &windowCmd{root: r, fs: fs}
	fs.Usage = usageFunc(w)
	fs.StringVar(&w.output, "output", "", "file written by Save (default drawing.png in save_dir)")
	fs.StringVar(&w.file, "file", "", "image to open on the canvas")
	fs.StringVar(&w.styleFile, "style-file", "", "style file to watch and apply")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

func (w *windowCmd) FlagSet() *flag.FlagSet {
	return w.fs
}

func (w *windowCmd) outputPath() string {
	if w.output != "" {
		return w.output
	}
	if w.config != nil && w.config.SaveDir != "" {
		return filepath.Join(w.config.SaveDir, paint.DefaultFilename)
	}
	return paint.DefaultFilename
}

func (w *windowCmd) Run() error {
	c, err := w.newCanvas()
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	if w.file != "" {
		data, err := os.ReadFile(w.file)
		if err != nil {
			_ = c.Close()
			return err
		}
		if err := c.LoadImage(data); err != nil {
			_ = c.Close()
			return fmt.Errorf("open %s: %w", w.file, err)
		}
	}

	app := appstate.New(
		appstate.WithOutput(w.outputPath()),
		appstate.WithTheme(w.activeTheme),
		appstate.WithNotifier(w.notifier),
	)
	host := paint.NewHost(c, paint.WithChangeListener(app.OnCanvasChange))
	defer func() {
		if err := host.Close(); err != nil {
			log.Printf("close canvas: %v", err)
		}
	}()

	watcher, err := startStyleWatch(context.Background(), w.resolveStyleFile(w.styleFile), host, func(err error) {
		log.Printf("style file rejected: %v", err)
	})
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	app.Run(host)
	return nil
}
