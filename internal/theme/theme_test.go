package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# comment
Name: Mine
Background: #101010
buttonactive: teal
Unknown: #FFFFFF
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "Mine" {
		t.Errorf("name %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x10, 0x10, 255}) {
		t.Errorf("background %+v", th.Background)
	}
	if th.ButtonActive != (color.RGBA{0, 128, 128, 255}) {
		t.Errorf("button active %+v", th.ButtonActive)
	}
	if th.Foreground != Default().Foreground {
		t.Errorf("missing key should keep default")
	}
}

func TestParseInvalidColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: #12")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	src := Default()
	src.Name = "Round"
	src.CanvasBorder = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if err := Format(&buf, src); err != nil {
		t.Fatalf("format: %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *got != *src {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", got, src)
	}
}

func TestEmbeddedThemesParse(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("no embedded themes")
	}
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	for _, n := range names {
		if _, err := l.Load(n); err != nil {
			t.Errorf("theme %s: %v", n, err)
		}
	}
}

func TestLoaderOrder(t *testing.T) {
	cfgDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(cfgDir, "mine.theme"), []byte("Name: FromConfig\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: cfgDir, SystemDir: t.TempDir()}
	th, err := l.Load("mine")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if th.Name != "FromConfig" {
		t.Fatalf("name %q", th.Name)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatalf("expected missing theme error")
	}
}

func TestResolve(t *testing.T) {
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	defined := map[string]*Theme{"dark": {Name: "Override"}}
	th, err := l.Resolve(defined, "", "dark")
	if err != nil || th.Name != "Override" {
		t.Fatalf("expected config theme to win, got %v %v", th, err)
	}
	th, err = l.Resolve(nil, "", "")
	if err != nil || th.Name != "Default" {
		t.Fatalf("expected default, got %v %v", th, err)
	}
}
