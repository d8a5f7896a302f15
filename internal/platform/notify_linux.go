//go:build linux

package platform

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = notifyDest + ".Notify"
	urgencyLow   = byte(0)
)

var (
	replaceMu sync.Mutex
	replaceID = map[string]uint32{}
)

// Notify sends m over the session bus. Messages sharing a tag reuse the id
// the server returned for the previous one.
func Notify(m Message) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	replaceMu.Lock()
	prev := replaceID[m.Tag]
	replaceMu.Unlock()

	hints := map[string]dbus.Variant{"urgency": dbus.MakeVariant(urgencyLow)}
	if m.Category != "" {
		hints["category"] = dbus.MakeVariant(m.Category)
	}

	var id uint32
	err = conn.Object(notifyDest, notifyPath).Call(notifyMethod, 0,
		appName, prev, m.IconPath, m.Title, m.Body, []string{}, hints,
		int32(m.timeout().Milliseconds())).Store(&id)
	if err != nil {
		return err
	}
	if m.Tag != "" {
		replaceMu.Lock()
		replaceID[m.Tag] = id
		replaceMu.Unlock()
	}
	return nil
}
