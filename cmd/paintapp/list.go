package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/paintapp/internal/appstate"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
)

type toolsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	cmd := &toolsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *toolsCmd) Run() error {
	fmt.Fprintln(c.out, "available tools (* marks the default tool):")
	for _, t := range shape.Tools() {
		marker := " "
		if t == shape.None {
			marker = "*"
		}
		kind := "freehand, painted while dragging"
		if t.IsShape() {
			kind = "shape, stamped on release"
		}
		fmt.Fprintf(c.out, "%s %-10s %s\n", marker, t, kind)
	}
	return nil
}

func (c *toolsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *toolsCmd) Template() string {
	return "tools.txt"
}

type colorsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	palette := appstate.Palette()
	def := style.Default().StrokeColor
	if c.config != nil {
		def = c.config.Style.StrokeColor
	}
	fmt.Fprintln(c.out, "palette colors (* marks the default stroke color):")
	for idx, entry := range palette {
		marker := " "
		if entry.Color == def {
			marker = "*"
		}
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.out, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, style.Hex(entry.Color), block)
	}
	fmt.Fprintln(c.out, "any CSS color name or #RGB, #RRGGBB, #RRGGBBAA value is also accepted")
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}
