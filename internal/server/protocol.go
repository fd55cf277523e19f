package server

import (
	"fmt"
	"strings"

	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/grid"
	"github.com/example/numbit/internal/raster"
	"github.com/example/numbit/internal/tool"
)

// Request is one client message. Fields other than Op are read only by the
// operations that need them.
type Request struct {
	Op    string `json:"op"`
	Tool  string `json:"tool,omitempty"`
	Index int    `json:"index"`
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
	Mode  string `json:"mode,omitempty"`
}

// State is the reply to every successful request.
type State struct {
	Session      string       `json:"session"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	Pixels       []grid.Color `json:"pixels"`
	CanUndo      bool         `json:"canUndo"`
	CanRedo      bool         `json:"canRedo"`
	Color        grid.Color   `json:"color"`
	Tool         string       `json:"tool"`
	Background   grid.Color   `json:"background"`
	BrushSize    int          `json:"brushSize"`
	FillMode     string       `json:"fillMode"`
	CustomColors []grid.Color `json:"customColors"`
}

// ErrorReply reports a request that could not be applied.
type ErrorReply struct {
	Error string `json:"error"`
}

// Snapshot describes e for the client.
func Snapshot(id string, e *editor.Editor) State {
	g := e.Grid()
	return State{
		Session:      id,
		Width:        g.Width(),
		Height:       g.Height(),
		Pixels:       e.DisplayGrid(),
		CanUndo:      e.CanUndo(),
		CanRedo:      e.CanRedo(),
		Color:        e.ActiveColor(),
		Tool:         e.ActiveTool().String(),
		Background:   e.Background(),
		BrushSize:    e.BrushSize(),
		FillMode:     e.FillMode().String(),
		CustomColors: e.CustomColors(),
	}
}

// Apply runs req against e.
func Apply(e *editor.Editor, req Request) error {
	switch strings.ToLower(req.Op) {
	case "begin":
		t := e.ActiveTool()
		if req.Tool != "" {
			var err error
			if t, err = tool.Parse(req.Tool); err != nil {
				return err
			}
		}
		e.BeginGesture(t, req.Index)
	case "continue":
		e.ContinueGesture(req.Index)
	case "end":
		e.EndGesture()
	case "dblclick":
		e.DoubleClick(req.Index)
	case "undo":
		e.Undo()
	case "redo":
		e.Redo()
	case "resize":
		if !grid.ValidSize(req.Size) {
			return fmt.Errorf("%w: %d", grid.ErrSize, req.Size)
		}
		e.Resize(req.Size)
	case "reset":
		e.ResetSize()
	case "clear":
		e.Clear()
	case "tool":
		t, err := tool.Parse(req.Tool)
		if err != nil {
			return err
		}
		e.SetActiveTool(t)
	case "color":
		c, err := grid.ParseColor(req.Color)
		if err != nil {
			return err
		}
		e.SetActiveColor(c)
	case "bg":
		c, err := grid.ParseColor(req.Color)
		if err != nil {
			return err
		}
		e.SetBackground(c)
	case "addcolor":
		c := e.ActiveColor()
		if req.Color != "" {
			var err error
			if c, err = grid.ParseColor(req.Color); err != nil {
				return err
			}
		}
		e.AddCustomColor(c)
	case "brush":
		e.SetBrushSize(req.Size)
	case "fill":
		m, err := raster.ParseFillMode(req.Mode)
		if err != nil {
			return err
		}
		e.SetShapeFillMode(m)
	case "state":
	default:
		return fmt.Errorf("unknown op %q", req.Op)
	}
	return nil
}
