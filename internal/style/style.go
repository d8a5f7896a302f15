// Package style holds the validated brush settings used by the canvas.
package style

import (
	"fmt"
	"image/color"
	"strconv"
)

const (
	MinWidth = 3
	MaxWidth = 20

	// Opacity is edited as a whole percentage.
	MinOpacityPercent = 1
	MaxOpacityPercent = 100
)

// Style is the brush state applied to every stroke and fill.
type Style struct {
	StrokeColor     color.RGBA
	StrokeWidth     float64
	Opacity         float64
	FillColor       color.RGBA
	BackgroundColor color.RGBA
}

// Default returns the settings a fresh canvas starts with.
func Default() Style {
	return Style{
		StrokeColor:     color.RGBA{0, 0, 0, 255},
		StrokeWidth:     5,
		Opacity:         0.6,
		FillColor:       color.RGBA{255, 255, 255, 255},
		BackgroundColor: color.RGBA{255, 255, 255, 255},
	}
}

// Validate reports the first setting that is out of range.
func (s Style) Validate() error {
	if !inRange(s.StrokeWidth, MinWidth, MaxWidth) {
		return &ValidationError{Field: FieldWidth, Value: formatFloat(s.StrokeWidth), Message: widthMessage}
	}
	pct := s.Opacity * 100
	if !inRange(pct, MinOpacityPercent-1e-9, MaxOpacityPercent+1e-9) {
		return &ValidationError{Field: FieldOpacity, Value: formatFloat(pct), Message: opacityMessage}
	}
	return nil
}

// OpacityPercent returns the opacity as shown in the settings form.
func (s Style) OpacityPercent() int {
	return int(s.Opacity*100 + 0.5)
}

// Fields returns the current settings keyed by form field name.
func (s Style) Fields() map[Field]string {
	return map[Field]string{
		FieldColor:      Hex(s.StrokeColor),
		FieldWidth:      formatFloat(s.StrokeWidth),
		FieldOpacity:    strconv.Itoa(s.OpacityPercent()),
		FieldFill:       Hex(s.FillColor),
		FieldBackground: Hex(s.BackgroundColor),
	}
}

func (s Style) String() string {
	return fmt.Sprintf("color=%s width=%s opacity=%d%% fill=%s background=%s",
		Hex(s.StrokeColor), formatFloat(s.StrokeWidth), s.OpacityPercent(), Hex(s.FillColor), Hex(s.BackgroundColor))
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
