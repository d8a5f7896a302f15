package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/paintapp/internal/style"
	"github.com/example/paintapp/internal/surface"
	"github.com/example/paintapp/internal/theme"
)

// DefaultAddr is the listen address of the browser front end.
const DefaultAddr = "127.0.0.1:8080"

// Notify holds notification settings. Empty text keeps the built-in wording.
type Notify struct {
	Save      bool
	Copy      bool
	Load      bool
	Title     string
	SaveText  string
	CopyText  string
	LoadText  string
	Thumbnail int
}

// Canvas holds the surface size.
type Canvas struct {
	Width  int
	Height int
}

// History holds undo settings.
type History struct {
	Limit int // 0 keeps every snapshot
}

// Server holds browser front end settings.
type Server struct {
	Addr string
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	StyleFile string
	Style     style.Style
	Canvas    Canvas
	History   History
	Server    Server
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Style: style.Default(),
		Canvas: Canvas{
			Width:  surface.DefaultWidth,
			Height: surface.DefaultHeight,
		},
		Server: Server{Addr: DefaultAddr},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.StyleFile != "" {
		fmt.Fprintf(&sb, "style_file = %s\n", c.StyleFile)
	}
	sb.WriteString("\n")

	sb.WriteString("[style]\n")
	fields := c.Style.Fields()
	for _, f := range style.FieldNames() {
		fmt.Fprintf(&sb, "%s = %s\n", f, fields[f])
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "limit = %d\n", c.History.Limit)
	sb.WriteString("\n")

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	for _, kv := range [][2]string{
		{"title", c.Notify.Title},
		{"save_text", c.Notify.SaveText},
		{"copy_text", c.Notify.CopyText},
		{"load_text", c.Notify.LoadText},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv[0], kv[1])
		}
	}
	if c.Notify.Thumbnail > 0 {
		fmt.Fprintf(&sb, "thumbnail = %d\n", c.Notify.Thumbnail)
	}
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}
