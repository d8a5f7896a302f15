package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strings"

	"github.com/example/paintapp/internal/style"
)

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: color" pair per line. Colors use the same syntax as
// brush colors, so CSS names work as well as #RRGGBB and #RRGGBBAA.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := t.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return t, scanner.Err()
}

// Set assigns one field by name, ignoring case. Unknown keys are ignored so
// older binaries can read newer theme files.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	field, ok := t.field(key)
	if !ok || field.Type() != rgbaType {
		return nil
	}
	col, err := style.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	field.Set(reflect.ValueOf(col))
	return nil
}

// Fields returns the color field names in declaration order.
func Fields() []string {
	typ := rgbaFields()
	names := make([]string, len(typ))
	for i, f := range typ {
		names[i] = f.Name
	}
	return names
}

// Color returns the named color field.
func (t *Theme) Color(key string) (color.RGBA, bool) {
	field, ok := t.field(key)
	if !ok || field.Type() != rgbaType {
		return color.RGBA{}, false
	}
	return field.Interface().(color.RGBA), true
}

func (t *Theme) field(key string) (reflect.Value, bool) {
	val := reflect.ValueOf(t).Elem()
	for _, f := range rgbaFields() {
		if strings.EqualFold(f.Name, key) {
			return val.FieldByIndex(f.Index), true
		}
	}
	return reflect.Value{}, false
}

func rgbaFields() []reflect.StructField {
	typ := reflect.TypeOf(Theme{})
	var out []reflect.StructField
	for i := 0; i < typ.NumField(); i++ {
		if f := typ.Field(i); f.Type == rgbaType {
			out = append(out, f)
		}
	}
	return out
}

// Format writes t in the format Parse reads.
func Format(w io.Writer, t *Theme) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", t.Name); err != nil {
		return err
	}
	for _, name := range Fields() {
		c, _ := t.Color(name)
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, style.Hex(c)); err != nil {
			return err
		}
	}
	return nil
}
