//go:build !linux && !darwin && !windows

package platform

// Notify drops m; this platform has no notification center.
func Notify(m Message) error { return nil }
