package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/numbit/internal/clipboard"
	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/export"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/store"
	"github.com/example/numbit/internal/tool"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd edits one session from line-based commands.
type interactiveCmd struct {
	r      *root
	fs     *flag.FlagSet
	execs  commandList
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	colors clipboard.Colors

	ctx    context.Context
	store  store.Store
	editor *editor.Editor
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	i := &interactiveCmd{r: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, colors: clipboard.System}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute a command and exit (may be specified multiple times)")
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

func (i *interactiveCmd) Program() string {
	return i.r.Program()
}

// open restores the session and returns a function releasing the store.
func (i *interactiveCmd) open() (func(), error) {
	i.ctx = context.Background()
	st, closeStore, err := i.r.openStore(i.ctx)
	if err != nil {
		return nil, err
	}
	e, err := i.r.openEditor(i.ctx, st, i.r.storeKey)
	if err != nil {
		closeStore()
		return nil, err
	}
	i.store, i.editor = st, e
	return closeStore, nil
}

func (i *interactiveCmd) Run() error {
	closeStore, err := i.open()
	if err != nil {
		return err
	}
	defer closeStore()

	if len(i.execs) > 0 {
		for _, cmd := range i.execs {
			done, err := i.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
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

// executeLine runs one command. done is true when the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return false, nil
	}
	e := i.editor
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(i.stdout, "commands: tool color brush fill click drag dblclick undo redo resize reset clear bg addcolor copycolor pastecolor show save export exit")
	case "tool":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: tool <name>")
		}
		t, err := tool.Parse(rest[0])
		if err != nil {
			return false, err
		}
		e.SetActiveTool(t)
	case "color":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: color <value>")
		}
		c, err := grid.ParseColor(rest[0])
		if err != nil {
			return false, err
		}
		if c == grid.Empty {
			return false, fmt.Errorf("the active color cannot be transparent")
		}
		e.SetActiveColor(c)
	case "brush":
		n, err := intArg(rest, "brush <1-8>")
		if err != nil {
			return false, err
		}
		e.SetBrushSize(n)
	case "fill":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: fill filled|outline|dashed")
		}
		m, err := raster.ParseFillMode(rest[0])
		if err != nil {
			return false, err
		}
		e.SetShapeFillMode(m)
	case "click", "drag":
		points, err := parsePoints(rest)
		if err != nil {
			return false, err
		}
		if name == "click" && len(points) != 1 {
			return false, fmt.Errorf("usage: click <x> <y>")
		}
		cells, err := indexes(e.Size(), points)
		if err != nil {
			return false, err
		}
		stroke(e, e.ActiveTool(), cells)
		if e.ActiveTool().Kind() == tool.KindPicker {
			fmt.Fprintf(i.stdout, "picked %s\n", e.ActiveColor())
		}
	case "dblclick":
		points, err := parsePoints(rest)
		if err != nil || len(points) != 1 {
			return false, fmt.Errorf("usage: dblclick <x> <y>")
		}
		cells, err := indexes(e.Size(), points)
		if err != nil {
			return false, err
		}
		e.DoubleClick(cells[0])
	case "undo":
		if !e.Undo() {
			fmt.Fprintln(i.stdout, "nothing to undo")
		}
	case "redo":
		if !e.Redo() {
			fmt.Fprintln(i.stdout, "nothing to redo")
		}
	case "resize":
		n, err := intArg(rest, "resize <4-64>")
		if err != nil {
			return false, err
		}
		if !grid.ValidSize(n) {
			return false, fmt.Errorf("%w: %d", grid.ErrSize, n)
		}
		e.Resize(n)
	case "reset":
		e.ResetSize()
	case "clear":
		e.Clear()
	case "bg":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: bg <value>|none")
		}
		c, err := grid.ParseColor(rest[0])
		if err != nil {
			return false, err
		}
		e.SetBackground(c)
	case "addcolor":
		c := e.ActiveColor()
		if len(rest) == 1 {
			if c, err = grid.ParseColor(rest[0]); err != nil {
				return false, err
			}
		}
		if c == grid.Empty {
			return false, fmt.Errorf("transparent cannot be added")
		}
		if !e.AddCustomColor(c) {
			fmt.Fprintf(i.stdout, "%s is already in the palette\n", c)
		}
	case "copycolor":
		c := e.ActiveColor()
		if err := i.colorClipboard().WriteColor(c); err != nil {
			return false, fmt.Errorf("copy color: %w", err)
		}
		fmt.Fprintf(i.stdout, "copied %s\n", c)
		i.r.notifyCopy(string(c))
	case "pastecolor":
		c, err := i.colorClipboard().ReadColor()
		if err != nil {
			return false, fmt.Errorf("paste color: %w", err)
		}
		if c == grid.Empty {
			return false, fmt.Errorf("the active color cannot be transparent")
		}
		e.SetActiveColor(c)
		fmt.Fprintf(i.stdout, "color %s\n", c)
	case "show":
		return false, writeGrid(i.stdout, e.Grid(), e.Background(), len(rest) == 1 && rest[0] == "plain")
	case "save":
		if err := i.r.saveNow(i.ctx, i.store, i.r.storeKey, e); err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "saved %s\n", i.r.storeKey)
	case "export":
		if len(rest) != 1 {
			return false, fmt.Errorf("usage: export <file>")
		}
		f, err := export.FormatFromPath(rest[0])
		if err != nil {
			return false, err
		}
		cmd := &exportCmd{root: i.r, scale: i.r.config.Export.Scale, gridLines: i.r.config.Export.GridLines}
		opts, err := cmd.options(e)
		if err != nil {
			return false, err
		}
		return false, cmd.write(e.Grid(), f, rest[0], opts)
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

func (i *interactiveCmd) colorClipboard() clipboard.Colors {
	if i.colors == nil {
		return clipboard.System
	}
	return i.colors
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}
