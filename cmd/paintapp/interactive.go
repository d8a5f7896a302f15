package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/paintapp/internal/paint"
	"github.com/example/paintapp/internal/shape"
	"github.com/example/paintapp/internal/style"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd drives one canvas from line commands.
type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	canvas *paint.Canvas
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute a command without prompting (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func (i *interactiveCmd) Run() error {
	c, err := i.newCanvas()
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}
	i.canvas = c
	defer c.Close()

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

const interactiveHelp = `commands:
  tool <none|rectangle|circle|line|triangle>
  down x y | move x y | up x y | cancel
  style <field> <value>    fields: color width opacity fill background
  undo | redo | new | clear
  load <file> | save [file] | copy
  state | help | exit`

// executeLine runs one command. It reports true when the session should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return false, nil
	}
	c := i.canvas
	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(i.stdout, interactiveHelp)
	case "tool":
		name := ""
		if len(rest) > 0 {
			name = rest[0]
		}
		t, err := shape.ParseTool(name)
		if err != nil {
			return false, err
		}
		c.SelectTool(t)
		fmt.Fprintf(i.stdout, "tool %s\n", t)
	case "down", "move", "up":
		p, err := parsePoint(cmd, rest)
		if err != nil {
			return false, err
		}
		switch cmd {
		case "down":
			err = c.PointerDown(p)
		case "move":
			err = c.PointerMove(p)
		default:
			err = c.PointerUp(p)
		}
		if err != nil {
			return false, err
		}
	case "cancel":
		return false, c.Cancel()
	case "style":
		if len(rest) < 2 {
			return false, fmt.Errorf("style requires a field and a value")
		}
		field, err := style.ParseField(rest[0])
		if err != nil {
			return false, err
		}
		st, err := c.ApplyStyle(style.Update{Field: field, Value: strings.Join(rest[1:], " ")})
		if err != nil {
			return false, err
		}
		fmt.Fprintln(i.stdout, st)
	case "undo":
		ok, err := c.Undo()
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(i.stdout, "nothing to undo")
		}
	case "redo":
		ok, err := c.Redo()
		if err != nil {
			return false, err
		}
		if !ok {
			fmt.Fprintln(i.stdout, "nothing to redo")
		}
	case "new":
		return false, c.NewPage()
	case "clear":
		return false, c.Clear()
	case "load":
		if len(rest) != 1 {
			return false, fmt.Errorf("load requires a file")
		}
		data, err := os.ReadFile(rest[0])
		if err != nil {
			return false, err
		}
		if err := c.LoadImage(data); err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "loaded %s\n", rest[0])
		i.root.notifyLoad(filepath.Base(rest[0]), c.Image())
	case "save":
		path := paint.DefaultFilename
		if len(rest) > 0 {
			path = rest[0]
		}
		var buf bytes.Buffer
		if err := c.ExportPNG(&buf); err != nil {
			return false, err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "saved %s\n", path)
		i.root.notifySave(path, c.Image())
	case "copy":
		var buf bytes.Buffer
		if err := c.ExportPNG(&buf); err != nil {
			return false, err
		}
		if err := writeClipboardFn(buf.Bytes()); err != nil {
			return false, fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(i.stdout, "copied drawing to clipboard")
		i.root.notifyCopy("drawing", c.Image())
	case "state":
		return false, writeState(i.stdout, c.State())
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

func parsePoint(cmd string, args []string) (image.Point, error) {
	if len(args) != 2 {
		return image.Point{}, fmt.Errorf("%s requires x y", cmd)
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid integer %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid integer %q", args[1])
	}
	return image.Pt(x, y), nil
}

func writeState(w io.Writer, st paint.State) error {
	out := struct {
		paint.State
		Style map[style.Field]string `json:"style"`
	}{st, st.Style.Fields()}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}
