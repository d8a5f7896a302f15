// Package notify raises desktop notifications when a drawing is saved,
// copied to the clipboard or loaded onto the canvas.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/example/paintapp/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	EventSave Event = "save"
	EventCopy Event = "copy"
	EventLoad Event = "load"
)

// Events lists every trigger in display order.
func Events() []Event { return []Event{EventSave, EventCopy, EventLoad} }

var categories = map[Event]string{
	EventSave: "transfer.complete",
	EventCopy: "transfer.complete",
	EventLoad: "transfer",
}

// DefaultThumbnail is the longest side of the icon built from the drawing.
const DefaultThumbnail = 128

// Preferences holds the notification title, a body template per event and
// the icon size. Templates may use {name} and {size}.
type Preferences struct {
	Title     string
	Templates map[Event]string
	Thumbnail int
}

// DefaultPreferences returns the built-in wording.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Paint App",
		Templates: map[Event]string{
			EventSave: "Saved {name} ({size})",
			EventCopy: "Copied {size} drawing to the clipboard",
			EventLoad: "Loaded {name} onto the canvas",
		},
		Thumbnail: DefaultThumbnail,
	}
}

// Merge returns p with every non-empty value of o applied on top.
func (p Preferences) Merge(o Preferences) Preferences {
	out := Preferences{Title: p.Title, Thumbnail: p.Thumbnail, Templates: make(map[Event]string, len(p.Templates))}
	for e, t := range p.Templates {
		out.Templates[e] = t
	}
	if v := strings.TrimSpace(o.Title); v != "" {
		out.Title = v
	}
	if o.Thumbnail > 0 {
		out.Thumbnail = o.Thumbnail
	}
	for e, t := range o.Templates {
		if t = strings.TrimSpace(t); t != "" {
			out.Templates[e] = t
		}
	}
	return out
}

// FromEnv reads PAINTAPP_NOTIFY_TITLE and PAINTAPP_NOTIFY_<EVENT>_TEXT.
// Unset variables leave the matching field empty so Merge skips them.
func FromEnv(getenv func(string) string) Preferences {
	p := Preferences{Title: getenv("PAINTAPP_NOTIFY_TITLE"), Templates: map[Event]string{}}
	for _, e := range Events() {
		if v := getenv("PAINTAPP_NOTIFY_" + strings.ToUpper(string(e)) + "_TEXT"); v != "" {
			p.Templates[e] = v
		}
	}
	return p
}

// Drawing is what a notification reports on. Image may be nil.
type Drawing struct {
	Name  string
	Image image.Image
}

func (d Drawing) size() string {
	if d.Image == nil {
		return "unknown size"
	}
	b := d.Image.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}

// Notifier sends desktop notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    func(platform.Message) error
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	return &Notifier{
		prefs:   DefaultPreferences().Merge(prefs),
		enabled: make(map[Event]bool),
		send:    platform.Notify,
	}
}

// Enable toggles the notifier for event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save reports a drawing written to disk.
func (n *Notifier) Save(d Drawing) { n.dispatch(EventSave, d) }

// Copy reports a drawing placed on the clipboard.
func (n *Notifier) Copy(d Drawing) { n.dispatch(EventCopy, d) }

// Load reports an image that replaced the canvas.
func (n *Notifier) Load(d Drawing) { n.dispatch(EventLoad, d) }

// Body renders the message text for event.
func (n *Notifier) Body(event Event, d Drawing) string {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = "drawing"
	}
	r := strings.NewReplacer("{name}", name, "{size}", d.size())
	return strings.TrimSpace(r.Replace(n.prefs.Templates[event]))
}

func (n *Notifier) dispatch(event Event, d Drawing) {
	if n == nil || !n.enabled[event] {
		return
	}
	body := n.Body(event, d)
	if body == "" {
		return
	}
	msg := platform.Message{
		Title:    n.prefs.Title,
		Body:     body,
		Tag:      string(event),
		Category: categories[event],
	}
	if d.Image != nil {
		path, err := writeThumbnail(d.Image, n.prefs.Thumbnail)
		if err != nil {
			log.Printf("notification thumbnail: %v", err)
		} else {
			defer removeThumbnail(path)
			msg.IconPath = path
		}
	}
	if err := n.send(msg); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// thumbnail scales img so its longest side is at most limit pixels.
func thumbnail(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit <= 0 || (w <= limit && h <= limit) || w == 0 || h == 0 {
		return img
	}
	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func writeThumbnail(img image.Image, limit int) (string, error) {
	f, err := os.CreateTemp("", "paintapp-thumb-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if err := png.Encode(f, thumbnail(img, limit)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func removeThumbnail(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove thumbnail: %v", err)
	}
}
