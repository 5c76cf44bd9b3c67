package overlay

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/surface"
)

// ErrUnknownCommand is returned for actions and kinds the overlay does not
// understand.
var ErrUnknownCommand = errors.New("unknown command")

// Kind identifies a command.
type Kind int

const (
	KindPointerDown Kind = iota + 1
	KindPointerMove
	KindPointerUp
	KindSetColor
	KindSetWidth
	KindToggleEraser
	KindSetEraserMode
	KindTogglePause
	KindUndo
	KindRedo
	KindClear
	KindShow
	KindHide
	KindToggleVisibility
	KindRefresh
	KindDisplaysChanged
	KindStatus
)

var kindNames = map[Kind]string{
	KindPointerDown:      "pointer_down",
	KindPointerMove:      "pointer_move",
	KindPointerUp:        "pointer_up",
	KindSetColor:         "color",
	KindSetWidth:         "width",
	KindToggleEraser:     "eraser",
	KindSetEraserMode:    "eraser_mode",
	KindTogglePause:      "toggle_pause",
	KindUndo:             "undo",
	KindRedo:             "redo",
	KindClear:            "clear",
	KindShow:             "show",
	KindHide:             "hide",
	KindToggleVisibility: "toggle",
	KindRefresh:          "refresh",
	KindDisplaysChanged:  "displays_changed",
	KindStatus:           "status",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is a request for the overlay loop. Only the fields relevant to
// Kind are read.
type Command struct {
	Kind     Kind
	Display  string
	Point    ink.Point
	Color    color.NRGBA
	Width    float64
	Mode     surface.EraserMode
	Displays []display.Monitor
	// Reply receives the status snapshot for KindStatus. It should be
	// buffered; the loop never blocks on it.
	Reply chan<- Status
}

// Action names accepted by ParseAction, shared by hotkeys, the tray menu
// and IPC clients.
const (
	ActionTogglePause = "toggle_pause"
	ActionClear       = "clear"
	ActionToggle      = "toggle"
	ActionShow        = "show"
	ActionHide        = "hide"
	ActionUndo        = "undo"
	ActionRedo        = "redo"
	ActionEraser      = "eraser"
	ActionEraserMode  = "eraser_mode"
	ActionColor       = "color"
	ActionWidth       = "width"
	ActionRefresh     = "refresh"
	ActionStatus      = "status"
	// ActionQuit is handled by the process, never by the overlay.
	ActionQuit = "quit"
)

var actionAliases = map[string]string{
	"pause":          ActionTogglePause,
	"clear_all":      ActionClear,
	"toggle_overlay": ActionToggle,
	"toggle_eraser":  ActionEraser,
}

// ParseAction builds a command from an action name and optional argument.
// The argument may also be given inline as "color:blue".
func ParseAction(action, arg string) (Command, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if name, inline, ok := strings.Cut(action, ":"); ok && arg == "" {
		action, arg = name, inline
	}
	if alias, ok := actionAliases[action]; ok {
		action = alias
	}

	switch action {
	case ActionTogglePause:
		return Command{Kind: KindTogglePause}, nil
	case ActionClear:
		return Command{Kind: KindClear}, nil
	case ActionToggle:
		return Command{Kind: KindToggleVisibility}, nil
	case ActionShow:
		return Command{Kind: KindShow}, nil
	case ActionHide:
		return Command{Kind: KindHide}, nil
	case ActionUndo:
		return Command{Kind: KindUndo}, nil
	case ActionRedo:
		return Command{Kind: KindRedo}, nil
	case ActionRefresh:
		return Command{Kind: KindRefresh}, nil
	case ActionStatus:
		return Command{Kind: KindStatus}, nil
	case ActionEraser:
		if arg == "" {
			return Command{Kind: KindToggleEraser}, nil
		}
		fallthrough
	case ActionEraserMode:
		m, err := surface.ParseEraserMode(arg)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindSetEraserMode, Mode: m}, nil
	case ActionColor:
		c, err := ink.ParseColor(arg)
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: KindSetColor, Color: c}, nil
	case ActionWidth:
		w, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid width %q: %w", arg, err)
		}
		if w <= 0 {
			return Command{}, fmt.Errorf("width must be positive, got %g", w)
		}
		return Command{Kind: KindSetWidth, Width: w}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, action)
	}
}

// Apply executes cmd on c.
func (c *Coordinator) Apply(cmd Command) error {
	switch cmd.Kind {
	case KindPointerDown:
		c.PointerDown(cmd.Display, cmd.Point)
	case KindPointerMove:
		c.PointerMove(cmd.Display, cmd.Point)
	case KindPointerUp:
		c.PointerUp(cmd.Display, cmd.Point)
	case KindSetColor:
		c.SetColor(cmd.Color)
	case KindSetWidth:
		c.SetStrokeWidth(cmd.Width)
	case KindToggleEraser:
		c.ToggleEraser()
	case KindSetEraserMode:
		c.SetEraserMode(cmd.Mode)
	case KindTogglePause:
		c.TogglePause()
	case KindUndo:
		c.Undo()
	case KindRedo:
		c.Redo()
	case KindClear:
		c.ClearAll()
	case KindShow:
		c.Show()
	case KindHide:
		c.Hide()
	case KindToggleVisibility:
		c.ToggleVisibility()
	case KindRefresh:
		c.Refresh()
	case KindDisplaysChanged:
		c.DisplaysChanged(cmd.Displays)
	case KindStatus:
	default:
		return fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Kind)
	}

	if cmd.Reply != nil {
		select {
		case cmd.Reply <- c.Status():
		default:
		}
	}
	return nil
}
