package style

import (
	"errors"
	"image/color"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.StrokeWidth != 5 {
		t.Errorf("expected width 5, got %v", s.StrokeWidth)
	}
	if s.Opacity != 0.6 {
		t.Errorf("expected opacity 0.6, got %v", s.Opacity)
	}
	if s.StrokeColor != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("unexpected stroke color %+v", s.StrokeColor)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
}

func TestApplyWidthBounds(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"2", false},
		{"3", true},
		{"12", true},
		{"12.5", false},
		{"20", true},
		{"21", false},
		{"abc", false},
		{"NaN", false},
		{"", false},
	}
	for _, tc := range cases {
		before := Default()
		after, err := Apply(before, Update{Field: FieldWidth, Value: tc.value})
		if tc.ok {
			if err != nil {
				t.Errorf("width %q: unexpected error %v", tc.value, err)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("width %q: expected validation error, got %v", tc.value, err)
			continue
		}
		if verr.Message != "Width must be between 3 and 20" {
			t.Errorf("width %q: unexpected message %q", tc.value, verr.Message)
		}
		if after != before {
			t.Errorf("width %q: style changed on rejection", tc.value)
		}
	}
}

func TestApplyOpacityPercent(t *testing.T) {
	s, err := Apply(Default(), Update{Field: FieldOpacity, Value: "25"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Opacity != 0.25 {
		t.Fatalf("expected 0.25, got %v", s.Opacity)
	}
	if got := s.OpacityPercent(); got != 25 {
		t.Fatalf("expected 25%%, got %d", got)
	}
	for _, v := range []string{"0", "101", "-5"} {
		_, err := Apply(Default(), Update{Field: FieldOpacity, Value: v})
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Message != "Opacity must be between 1 and 100" {
			t.Errorf("opacity %q: expected range error, got %v", v, err)
		}
	}
}

func TestApplyColors(t *testing.T) {
	s, err := ApplyAll(Default(),
		Update{Field: FieldColor, Value: "red"},
		Update{Field: FieldFill, Value: "#0f0"},
		Update{Field: FieldBackground, Value: "#11223344"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.StrokeColor != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("stroke: %+v", s.StrokeColor)
	}
	if s.FillColor != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("fill: %+v", s.FillColor)
	}
	if s.BackgroundColor != (color.RGBA{0x11, 0x22, 0x33, 0x44}) {
		t.Errorf("background: %+v", s.BackgroundColor)
	}
}

func TestApplyAllStopsAtFirstError(t *testing.T) {
	before := Default()
	after, err := ApplyAll(before,
		Update{Field: FieldColor, Value: "blue"},
		Update{Field: FieldWidth, Value: "50"},
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	if after != before {
		t.Fatalf("expected original style back, got %+v", after)
	}
}

func TestParseColorRejects(t *testing.T) {
	for _, v := range []string{"", "#12", "#12345", "notacolor", "#zzzzzz"} {
		if _, err := ParseColor(v); err == nil {
			t.Errorf("expected error for %q", v)
		}
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("lineWidth")
	if err != nil || f != FieldWidth {
		t.Fatalf("expected width, got %q %v", f, err)
	}
	if _, err := ParseField("size"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestHex(t *testing.T) {
	if got := Hex(color.RGBA{255, 255, 255, 255}); got != "#FFFFFF" {
		t.Errorf("got %s", got)
	}
	if got := Hex(color.RGBA{1, 2, 3, 4}); got != "#01020304" {
		t.Errorf("got %s", got)
	}
}
