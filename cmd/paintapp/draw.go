package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/paintapp/internal/clipboard"
	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
)

var writeClipboardFn = clipboard.WritePNG

// drawCmd replays one pointer session on an image and saves the result.
type drawCmd struct {
	file        string
	output      string
	toClipboard bool
	colorSpec   string
	fillSpec    string
	width       string
	opacity     string
	tool        shape.Tool
	points      []image.Point
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", "", "stroke color name or hex value")
	fs.StringVar(&d.fillSpec, "fill", "", "shape fill color name or hex value")
	fs.StringVar(&d.width, "width", "", "stroke width between 3 and 20")
	fs.StringVar(&d.opacity, "opacity", "", "opacity percentage between 1 and 100")

	flagArgs, positionals := splitDrawArgs(fs, args)
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}

	name := strings.ToLower(positionals[0])
	coords, err := parseInts(positionals[1:])
	if err != nil {
		return nil, err
	}
	switch name {
	case "freehand", "free":
		if len(coords) < 4 || len(coords)%2 != 0 {
			return nil, fmt.Errorf("freehand requires at least two x y pairs")
		}
		d.tool = shape.None
	default:
		d.tool, err = shape.ParseTool(name)
		if err != nil || !d.tool.IsShape() {
			return nil, fmt.Errorf("unsupported shape %q", positionals[0])
		}
		if len(coords) != 4 {
			return nil, fmt.Errorf("%s requires 4 integer arguments", d.tool)
		}
	}
	for i := 0; i+1 < len(coords); i += 2 {
		d.points = append(d.points, image.Pt(coords[i], coords[i+1]))
	}

	if d.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	if d.output == "" {
		d.output = d.file
	}
	return d, nil
}

// styleUpdates collects the style flags that were set, in style field order.
func (d *drawCmd) styleUpdates() []style.Update {
	values := map[style.Field]string{
		style.FieldColor:   d.colorSpec,
		style.FieldWidth:   d.width,
		style.FieldOpacity: d.opacity,
		style.FieldFill:    d.fillSpec,
	}
	var updates []style.Update
	for _, f := range style.FieldNames() {
		if v := values[f]; v != "" {
			updates = append(updates, style.Update{Field: f, Value: v})
		}
	}
	return updates
}

func (d *drawCmd) Run() error {
	data, err := os.ReadFile(d.file)
	if err != nil {
		return err
	}
	c, err := d.newCanvas()
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	defer c.Close()

	if err := c.LoadImage(data); err != nil {
		return fmt.Errorf("load %s: %w", d.file, err)
	}
	if _, err := c.ApplyStyle(d.styleUpdates()...); err != nil {
		return err
	}
	if err := replay(c, d.tool, d.points); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.ExportPNG(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(d.output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	drawing := c.Image()
	d.root.notifySave(saved, drawing)

	if d.toClipboard {
		if err := writeClipboardFn(buf.Bytes()); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail, drawing)
	}
	return nil
}

// replay runs a full pointer session: down at the first point, a move to
// every later point and up at the last, so freehand reaches the final point.
func replay(c *paint.Canvas, tool shape.Tool, pts []image.Point) error {
	if len(pts) < 2 {
		return fmt.Errorf("a drag needs at least two points")
	}
	c.SelectTool(tool)
	if err := c.PointerDown(pts[0]); err != nil {
		return err
	}
	for _, p := range pts[1:] {
		if err := c.PointerMove(p); err != nil {
			return err
		}
	}
	return c.PointerUp(pts[len(pts)-1])
}

func parseInts(args []string) ([]int, error) {
	vals := make([]int, len(args))
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

type boolFlag interface {
	IsBoolFlag() bool
}

// splitDrawArgs separates the flags known to fs from positional arguments
// so flags may follow the shape and negative coordinates stay positional.
func splitDrawArgs(fs *flag.FlagSet, args []string) ([]string, []string) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		name = strings.ToLower(name)
		f := fs.Lookup(name)
		if f == nil {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + name
		if hasValue {
			flags = append(flags, norm+"="+value)
			continue
		}
		if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
			flags = append(flags, norm)
			continue
		}
		flags = append(flags, norm)
		if i+1 < len(args) {
			flags = append(flags, args[i+1])
			i++
		}
	}
	return flags, positionals
}
