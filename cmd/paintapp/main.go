package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/paintapp/internal/config"
	"github.com/example/paintapp/internal/notify"
	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	saveAlerts  bool
	copyAlerts  bool
	loadAlerts  bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		saveAlerts:  r.saveAlerts,
		copyAlerts:  r.copyAlerts,
		loadAlerts:  r.loadAlerts,
		themeName:   r.themeName,
		activeTheme: r.activeTheme,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func configPath() string {
	if v := strings.TrimSpace(os.Getenv("PAINTAPP_CONFIG")); v != "" {
		return v
	}
	return configPathOverride
}

// notifyPreferences layers the config [notify] wording and then the
// environment over the built-in defaults.
func notifyPreferences(cfg *config.Config) notify.Preferences {
	fromConfig := notify.Preferences{
		Title: cfg.Notify.Title,
		Templates: map[notify.Event]string{
			notify.EventSave: cfg.Notify.SaveText,
			notify.EventCopy: cfg.Notify.CopyText,
			notify.EventLoad: cfg.Notify.LoadText,
		},
		Thumbnail: cfg.Notify.Thumbnail,
	}
	return notify.DefaultPreferences().Merge(fromConfig).Merge(notify.FromEnv(os.Getenv))
}

func newRoot() *root {
	loader := config.NewLoader(version, configPath())
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	prefs := notifyPreferences(cfg)

	r := &root{
		fs:       flag.NewFlagSet("paintapp", flag.ExitOnError),
		program:  "paintapp",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.loadAlerts, "notify-load", cfg.Notify.Load, "show a desktop notification after loading an image")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "window color theme ("+strings.Join(theme.Names(), ", ")+")")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventLoad, r.loadAlerts)
	}

	t, terr := theme.NewLoader().Resolve(r.config.Themes, r.themeName, os.Getenv("PAINTAPP_THEME"), r.config.Theme)
	if terr != nil {
		fmt.Fprintf(os.Stderr, "warning: %v. using default.\n", terr)
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "serve":
		cmd, err = parseServeCmd(subArgs, r.subcommand(cmdName))
	case "window":
		cmd, err = parseWindowCmd(subArgs, r.subcommand(cmdName))
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r.subcommand(cmdName))
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r.subcommand(cmdName))
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r.subcommand(cmdName))
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r.subcommand(cmdName))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand(cmdName))
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCanvas builds a canvas from the configured size, style and history
// limit.
func (r *root) newCanvas() (*paint.Canvas, error) {
	cfg := config.New()
	if r != nil && r.config != nil {
		cfg = r.config
	}
	return paint.New(
		paint.WithSize(cfg.Canvas.Width, cfg.Canvas.Height),
		paint.WithStyle(cfg.Style),
		paint.WithHistoryLimit(cfg.History.Limit),
	)
}

// resolveStyleFile picks the watched style file: flag first, then config.
func (r *root) resolveStyleFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if r != nil && r.config != nil {
		return r.config.StyleFile
	}
	return ""
}

func (r *root) notifySave(path string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(notify.Drawing{Name: path, Image: img})
}

func (r *root) notifyCopy(name string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(notify.Drawing{Name: name, Image: img})
}

func (r *root) notifyLoad(name string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Load(notify.Drawing{Name: name, Image: img})
}
