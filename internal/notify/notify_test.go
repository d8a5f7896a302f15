package notify

import (
	"errors"
	"image"
	"os"
	"testing"

	"github.com/example/paintapp/internal/platform"
)

func recordingNotifier(t *testing.T, prefs Preferences) (*Notifier, *[]platform.Message) {
	t.Helper()
	var got []platform.Message
	n := New(prefs)
	n.send = func(m platform.Message) error {
		got = append(got, m)
		return nil
	}
	return n, &got
}

func canvasImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n, got := recordingNotifier(t, DefaultPreferences())
	n.Save(Drawing{Name: "a.png"})
	n.Copy(Drawing{})
	n.Load(Drawing{Name: "b.png"})
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %+v", *got)
	}
}

func TestBodyTemplates(t *testing.T) {
	n := New(DefaultPreferences())
	cases := []struct {
		event Event
		d     Drawing
		want  string
	}{
		{EventSave, Drawing{Name: "drawing.png", Image: canvasImage(1280, 720)}, "Saved drawing.png (1280x720)"},
		{EventCopy, Drawing{Image: canvasImage(64, 48)}, "Copied 64x48 drawing to the clipboard"},
		{EventLoad, Drawing{Name: "  "}, "Loaded drawing onto the canvas"},
		{EventSave, Drawing{Name: "x.png"}, "Saved x.png (unknown size)"},
	}
	for _, tc := range cases {
		if got := n.Body(tc.event, tc.d); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.event, tc.want, got)
		}
	}
}

func TestSaveSendsTaggedMessageWithThumbnail(t *testing.T) {
	n, got := recordingNotifier(t, DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save(Drawing{Name: "drawing.png", Image: canvasImage(400, 100)})
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	m := (*got)[0]
	if m.Title != "Paint App" || m.Tag != "save" || m.Category != "transfer.complete" {
		t.Fatalf("unexpected message %+v", m)
	}
	if m.IconPath == "" {
		t.Fatalf("expected thumbnail icon")
	}
	if _, err := os.Stat(m.IconPath); !os.IsNotExist(err) {
		t.Fatalf("thumbnail %s not cleaned up: %v", m.IconPath, err)
	}
}

func TestWithoutImageHasNoIcon(t *testing.T) {
	n, got := recordingNotifier(t, DefaultPreferences())
	n.Enable(EventLoad, true)
	n.Load(Drawing{Name: "upload"})
	if len(*got) != 1 || (*got)[0].IconPath != "" {
		t.Fatalf("unexpected notifications %+v", *got)
	}
}

func TestThumbnailKeepsAspect(t *testing.T) {
	cases := []struct {
		w, h, limit int
		want        image.Point
	}{
		{1280, 720, 128, image.Pt(128, 72)},
		{100, 400, 128, image.Pt(32, 128)},
		{64, 48, 128, image.Pt(64, 48)},
		{1000, 1, 100, image.Pt(100, 1)},
	}
	for _, tc := range cases {
		got := thumbnail(canvasImage(tc.w, tc.h), tc.limit).Bounds().Size()
		if got != tc.want {
			t.Errorf("%dx%d limit %d: expected %v, got %v", tc.w, tc.h, tc.limit, tc.want, got)
		}
	}
}

func TestMergeLayers(t *testing.T) {
	fromConfig := Preferences{
		Title:     "Sketchpad",
		Templates: map[Event]string{EventSave: "Wrote {name}", EventCopy: ""},
		Thumbnail: 64,
	}
	env := map[string]string{
		"PAINTAPP_NOTIFY_SAVE_TEXT": "Stored {name}",
		"PAINTAPP_NOTIFY_LOAD_TEXT": "Opened {name}",
	}
	prefs := DefaultPreferences().Merge(fromConfig).Merge(FromEnv(func(k string) string { return env[k] }))

	if prefs.Title != "Sketchpad" || prefs.Thumbnail != 64 {
		t.Fatalf("unexpected prefs %+v", prefs)
	}
	if prefs.Templates[EventSave] != "Stored {name}" {
		t.Errorf("env should win over config, got %q", prefs.Templates[EventSave])
	}
	if prefs.Templates[EventCopy] != DefaultPreferences().Templates[EventCopy] {
		t.Errorf("empty config text should keep the default, got %q", prefs.Templates[EventCopy])
	}
	if prefs.Templates[EventLoad] != "Opened {name}" {
		t.Errorf("load template %q", prefs.Templates[EventLoad])
	}
}

func TestMergeDoesNotShareTemplates(t *testing.T) {
	base := DefaultPreferences()
	merged := base.Merge(Preferences{Templates: map[Event]string{EventSave: "changed"}})
	if base.Templates[EventSave] == "changed" || merged.Templates[EventSave] != "changed" {
		t.Fatalf("merge mutated its receiver")
	}
}

func TestSendErrorIsLogged(t *testing.T) {
	n := New(DefaultPreferences())
	n.send = func(platform.Message) error { return errors.New("no bus") }
	n.Enable(EventCopy, true)
	n.Copy(Drawing{Name: "drawing"})
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Enable(EventSave, true)
	n.Save(Drawing{})
	n.Copy(Drawing{})
	n.Load(Drawing{})
}
