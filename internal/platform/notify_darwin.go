//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify shows m in Notification Center. Notification Center decides how
// long it stays up and has no replacement, so Timeout and Tag are ignored.
func Notify(m Message) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", m.Body, appName, m.Title)
	return exec.Command("osascript", "-e", script).Run()
}
