// Package shape turns a drag gesture into the stroke and fill calls that
// stamp a shape on the surface.
package shape

import (
	"fmt"
	"strings"
)

// Tool selects what a drag produces.
type Tool int

const (
	// None is freehand drawing.
	None Tool = iota
	Rectangle
	Circle
	Line
	Triangle
)

var toolNames = [...]string{
	None:      "none",
	Rectangle: "rectangle",
	Circle:    "circle",
	Line:      "line",
	Triangle:  "triangle",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// IsShape reports whether t stamps a shape on release rather than drawing
// freehand.
func (t Tool) IsShape() bool {
	return t > None && int(t) < len(toolNames)
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{None, Rectangle, Circle, Line, Triangle}
}

// ParseTool resolves a tool name. The empty string selects freehand.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "free", "freehand", "pen", "draw":
		return None, nil
	case "rectangle", "rect":
		return Rectangle, nil
	case "circle":
		return Circle, nil
	case "line":
		return Line, nil
	case "triangle":
		return Triangle, nil
	}
	return None, fmt.Errorf("unknown tool %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tool) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
