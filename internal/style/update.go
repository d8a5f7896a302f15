package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a single settings form input.
type Field string

const (
	FieldColor      Field = "color"
	FieldWidth      Field = "width"
	FieldOpacity    Field = "opacity"
	FieldFill       Field = "fill"
	FieldBackground Field = "background"
)

const (
	widthMessage   = "Width must be between 3 and 20"
	opacityMessage = "Opacity must be between 1 and 100"
)

// FieldNames lists the form inputs in display order.
func FieldNames() []Field {
	return []Field{FieldColor, FieldWidth, FieldOpacity, FieldFill, FieldBackground}
}

// ParseField resolves a form field name, accepting a few long spellings.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "color", "stroke", "line", "linecolor", "stroke_color":
		return FieldColor, nil
	case "width", "linewidth", "stroke_width":
		return FieldWidth, nil
	case "opacity", "alpha", "lineopacity":
		return FieldOpacity, nil
	case "fill", "fillcolor", "fill_color":
		return FieldFill, nil
	case "background", "bg", "backgroundcolor", "background_color":
		return FieldBackground, nil
	}
	return "", fmt.Errorf("unknown style field %q", name)
}

// Update is a single edit coming from the settings form.
type Update struct {
	Field Field
	Value string
}

// ValidationError rejects an update. Message is suitable for display next to
// the offending form input.
type ValidationError struct {
	Field   Field
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Apply returns s with u applied. s is left untouched when u is rejected.
func Apply(s Style, u Update) (Style, error) {
	value := strings.TrimSpace(u.Value)
	switch u.Field {
	case FieldColor, FieldFill, FieldBackground:
		c, err := ParseColor(value)
		if err != nil {
			return s, &ValidationError{Field: u.Field, Value: value, Message: "invalid color", Err: err}
		}
		switch u.Field {
		case FieldColor:
			s.StrokeColor = c
		case FieldFill:
			s.FillColor = c
		default:
			s.BackgroundColor = c
		}
	case FieldWidth:
		w, err := strconv.Atoi(value)
		if err != nil || !inRange(float64(w), MinWidth, MaxWidth) {
			return s, &ValidationError{Field: u.Field, Value: value, Message: widthMessage, Err: err}
		}
		s.StrokeWidth = float64(w)
	case FieldOpacity:
		pct, err := strconv.Atoi(value)
		if err != nil || !inRange(float64(pct), MinOpacityPercent, MaxOpacityPercent) {
			return s, &ValidationError{Field: u.Field, Value: value, Message: opacityMessage, Err: err}
		}
		s.Opacity = float64(pct) / 100
	default:
		return s, &ValidationError{Field: u.Field, Value: value, Message: "unknown field"}
	}
	return s, nil
}

// ApplyAll applies updates in order and stops at the first rejection.
func ApplyAll(s Style, updates ...Update) (Style, error) {
	next := s
	for _, u := range updates {
		var err error
		next, err = Apply(next, u)
		if err != nil {
			return s, err
		}
	}
	return next, nil
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
