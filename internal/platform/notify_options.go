package platform

import "time"

// appName identifies the sender to notification centers that group by app.
const appName = "Paint App"

// DefaultTimeout is how long a notification stays up when Message.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// Message is one desktop notification.
type Message struct {
	Title string
	Body  string
	// IconPath points to an image shown next to the text where supported.
	IconPath string
	// Tag groups messages; a new message replaces the last one with the same
	// tag on platforms that support it.
	Tag string
	// Category is a freedesktop category hint such as "transfer.complete".
	Category string
	Timeout  time.Duration
}

func (m Message) timeout() time.Duration {
	if m.Timeout <= 0 {
		return DefaultTimeout
	}
	return m.Timeout
}
