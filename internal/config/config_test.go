package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/paintapp/internal/style"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/drawings

[style]
color = red
width = 8
opacity = 40
fill = "#00FF00"

[canvas]
width = 640
height = 480

[history]
limit = 25

[server]
addr = :9000

[notify]
save = true
copy = false
load = true

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.Style.StrokeColor != (color.RGBA{255, 0, 0, 255}) || cfg.Style.StrokeWidth != 8 || cfg.Style.Opacity != 0.4 {
		t.Errorf("Unexpected style: %v", cfg.Style)
	}
	if cfg.Style.FillColor != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Unexpected fill: %+v", cfg.Style.FillColor)
	}
	if cfg.Canvas.Width != 640 || cfg.Canvas.Height != 480 {
		t.Errorf("Unexpected canvas: %+v", cfg.Canvas)
	}
	if cfg.History.Limit != 25 {
		t.Errorf("Unexpected history limit: %d", cfg.History.Limit)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Unexpected addr: %q", cfg.Server.Addr)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy || !cfg.Notify.Load {
		t.Errorf("Unexpected notify: %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Style != style.Default() {
		t.Errorf("Expected default style, got %v", cfg.Style)
	}
	if cfg.Canvas.Width != 1280 || cfg.Canvas.Height != 720 {
		t.Errorf("Expected 1280x720, got %+v", cfg.Canvas)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Expected default addr, got %q", cfg.Server.Addr)
	}
}

func TestParseRejectsInvalidStyle(t *testing.T) {
	_, err := Parse(strings.NewReader("[style]\nwidth = 30\n"))
	var verr *style.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected line number in %q", err)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, input := range []string{
		"[canvas]\nwidth = 0\n",
		"[history]\nlimit = -1\n",
		"[notify]\nsave = maybe\n",
		"[style]\nsize = 4\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestParseNotifyText(t *testing.T) {
	input := "[notify]\nload = yes\n"
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatalf("expected invalid boolean error")
	}
	input = "[notify]\ntitle = Sketchpad\ncopy_text = Copied {size}\nload_text = Opened {name}\nthumbnail = 64\n"
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Notify{Title: "Sketchpad", CopyText: "Copied {size}", LoadText: "Opened {name}", Thumbnail: 64}
	if cfg.Notify != want {
		t.Errorf("Unexpected notify: %+v", cfg.Notify)
	}
	if _, err := Parse(strings.NewReader("[notify]\nthumbnail = 0\n")); err == nil {
		t.Errorf("expected thumbnail to be rejected")
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/drawings
style_file = /home/user/brush.rc

[style]
color = navy
width = 12
opacity = 75
background = #FAFAFA

[history]
limit = 10

[notify]
save = true
copy = false
title = Sketchpad
save_text = Wrote {name}
thumbnail = 96

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.StyleFile != cfg2.StyleFile {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Style != cfg2.Style {
		t.Errorf("Style mismatch: %v vs %v", cfg.Style, cfg2.Style)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.History != cfg2.History || cfg.Server != cfg2.Server {
		t.Errorf("Section mismatch")
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestParseStyle(t *testing.T) {
	base := style.Default()
	got, err := ParseStyle(strings.NewReader("color = blue\nwidth = 9\n"), base)
	if err != nil {
		t.Fatalf("ParseStyle: %v", err)
	}
	if got.StrokeColor != (color.RGBA{0, 0, 255, 255}) || got.StrokeWidth != 9 {
		t.Errorf("Unexpected style %v", got)
	}

	full := "theme = dark\n[server]\naddr = :1\n[style]\nopacity = 10\n[notify]\nsave = true\n"
	got, err = ParseStyle(strings.NewReader(full), base)
	if err != nil {
		t.Fatalf("ParseStyle full config: %v", err)
	}
	if got.Opacity != 0.1 || got.StrokeWidth != base.StrokeWidth {
		t.Errorf("Unexpected style %v", got)
	}

	got, err = ParseStyle(strings.NewReader("color = blue\nopacity = 0\n"), base)
	if err == nil {
		t.Fatalf("Expected rejection")
	}
	if got != base {
		t.Errorf("Rejected file changed style: %v", got)
	}
}

func TestLoaderSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(wd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	l := NewLoader("dev", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("Expected no config, got %q", got)
	}

	xdg := filepath.Join(home, ".config", "paintapp", "config.rc")
	if err := os.MkdirAll(filepath.Dir(xdg), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xdg, []byte("theme = a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != xdg {
		t.Fatalf("Expected %q, got %q", xdg, got)
	}

	local := filepath.Join(wd, ".paintapprc")
	if err := os.WriteFile(local, []byte("theme = b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != local {
		t.Fatalf("Expected dev config %q, got %q", local, got)
	}
	if got := NewLoader("1.0.0", "").GetConfigPath(); got != xdg {
		t.Fatalf("Release build should skip dev config, got %q", got)
	}

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "b" {
		t.Fatalf("Expected theme b, got %q", cfg.Theme)
	}
}

func TestLoaderSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "paintapp.rc")
	l := NewLoader("1.0.0", path)
	cfg := New()
	cfg.Theme = "dark"
	written, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != path {
		t.Fatalf("Expected %q, got %q", path, written)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "dark" {
		t.Fatalf("Expected dark, got %q", loaded.Theme)
	}
}
