package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/overlay"
)

// StatusPanel renders an overlay status snapshot.
type StatusPanel struct {
	Status *ipc.StatusInfo
	Width  int
}

// View renders the status panel
func (p *StatusPanel) View() string {
	st := p.Status
	var b strings.Builder

	visibility := "Overlay hidden"
	if st.Visible {
		visibility = "Overlay shown"
	}
	b.WriteString(TitleStyle.Render("InkTop"))
	b.WriteString("  ")
	b.WriteString(FormatStatus(st.Visible, visibility))
	if st.Paused {
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render(IconPaused + " paused"))
	}
	b.WriteString("\n\n")

	swatch := ""
	if c, err := ink.ParseColor(st.Color); err == nil {
		swatch = Swatch(c) + " "
	}
	icon := IconPen
	if st.EraserEnabled {
		icon = IconEraser
	}
	fmt.Fprintf(&b, "%s %s\n", SubtleStyle.Render("Tool:  "), TextStyle.Render(icon+" "+st.Tool))
	fmt.Fprintf(&b, "%s %s%s\n", SubtleStyle.Render("Color: "), swatch, TextStyle.Render(st.Color))
	fmt.Fprintf(&b, "%s %s\n", SubtleStyle.Render("Width: "), TextStyle.Render(fmt.Sprintf("%g pt", st.Width)))
	fmt.Fprintf(&b, "%s %s\n", SubtleStyle.Render("Eraser:"), TextStyle.Render(st.EraserMode+" mode"))

	b.WriteString("\n")
	b.WriteString(SubheaderStyle.Render(fmt.Sprintf("Surfaces (%d):", len(st.Surfaces))))
	b.WriteString("\n")
	if len(st.Surfaces) == 0 {
		b.WriteString(MutedStyle.Render("  No displays attached"))
	}
	for i, s := range st.Surfaces {
		line := fmt.Sprintf("%s %dx%d @%gx  %d strokes, %d undone",
			s.Name, s.Width, s.Height, s.Scale, s.Strokes, s.Undone)
		b.WriteString(FormatListItem(line, s.ID == st.Active))
		if s.Failed {
			b.WriteString(" " + ErrorStyle.Render(IconError+" "+s.Error))
		}
		if i < len(st.Surfaces)-1 {
			b.WriteString("\n")
		}
	}

	style := BoxStyle
	if p.Width > 0 {
		style = style.Width(p.Width)
	}
	return style.Render(b.String())
}

// MonitorInfo displays monitor configuration
type MonitorInfo struct {
	Monitors []*display.Monitor
	Width    int
}

// View renders the monitor info
func (m *MonitorInfo) View() string {
	var b strings.Builder

	b.WriteString(SubheaderStyle.Render(fmt.Sprintf("Detected %d monitor(s):", len(m.Monitors))))
	b.WriteString("\n\n")

	for i, mon := range m.Monitors {
		name := mon.Name
		if mon.Primary {
			name += " " + InfoStyle.Render("(primary)")
		}

		fmt.Fprintf(&b, "%d. %s\n", i+1, BoldStyle.Render(name))
		fmt.Fprintf(&b, "   %s at %s, scale %g\n",
			TextStyle.Render(fmt.Sprintf("%dx%d", mon.Width, mon.Height)),
			SubtleStyle.Render(fmt.Sprintf("%d,%d", mon.X, mon.Y)),
			mon.Scale)

		if i < len(m.Monitors)-1 {
			b.WriteString("\n")
		}
	}

	style := BoxStyle
	if m.Width > 0 {
		style = style.Width(m.Width)
	}
	return style.Render(b.String())
}

// Control represents a keyboard control
type Control struct {
	Key  string
	Desc string
}

var actionDescriptions = map[string]string{
	overlay.ActionTogglePause: "Pause or resume drawing",
	overlay.ActionClear:       "Clear all drawings",
	overlay.ActionToggle:      "Show or hide the overlay",
	overlay.ActionShow:        "Show the overlay",
	overlay.ActionHide:        "Hide the overlay",
	overlay.ActionUndo:        "Undo",
	overlay.ActionRedo:        "Redo",
	overlay.ActionEraser:      "Toggle the eraser",
	overlay.ActionRefresh:     "Redraw every display",
	overlay.ActionQuit:        "Quit",
}

// DescribeAction returns a human description of a hotkey action.
func DescribeAction(action string) string {
	if d, ok := actionDescriptions[action]; ok {
		return d
	}
	name, arg, _ := strings.Cut(action, ":")
	switch name {
	case overlay.ActionColor:
		return "Color: " + arg
	case overlay.ActionWidth:
		return "Stroke width: " + arg
	case overlay.ActionEraserMode:
		return "Eraser mode: " + arg
	}
	return action
}

// Shortcuts lists hotkey bindings sorted by accelerator.
func Shortcuts(bindings map[string]string) []Control {
	controls := make([]Control, 0, len(bindings))
	for accel, action := range bindings {
		controls = append(controls, Control{Key: accel, Desc: DescribeAction(action)})
	}
	sort.Slice(controls, func(i, j int) bool { return controls[i].Key < controls[j].Key })
	return controls
}

// ControlsHelp displays keyboard controls
type ControlsHelp struct {
	Title    string
	Controls []Control
	Width    int
}

// View renders the controls help
func (c *ControlsHelp) View() string {
	var b strings.Builder

	title := c.Title
	if title == "" {
		title = "Keyboard Shortcuts:"
	}
	b.WriteString(SubheaderStyle.Render(title))
	b.WriteString("\n\n")

	maxKeyLen := 0
	for _, ctrl := range c.Controls {
		if len(ctrl.Key) > maxKeyLen {
			maxKeyLen = len(ctrl.Key)
		}
	}

	for i, ctrl := range c.Controls {
		key := ControlKeyStyle.Width(maxKeyLen).Render(ctrl.Key)
		desc := ControlDescStyle.Render(ctrl.Desc)
		fmt.Fprintf(&b, "  %s  %s", key, desc)
		if i < len(c.Controls)-1 {
			b.WriteString("\n")
		}
	}

	style := BoxStyle
	if c.Width > 0 {
		style = style.Width(c.Width)
	}
	return style.Render(b.String())
}

// ShortcutsText is the plain listing shown by the tray menu.
func ShortcutsText(bindings map[string]string) string {
	var b strings.Builder
	for _, c := range Shortcuts(bindings) {
		fmt.Fprintf(&b, "%-16s %s\n", c.Key, c.Desc)
	}
	return strings.TrimRight(b.String(), "\n")
}
