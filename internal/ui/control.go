package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/overlay"
)

// Commander sends actions to a running overlay.
type Commander interface {
	SendCommand(action, arg string) (*ipc.StatusInfo, error)
	SendStatus() (*ipc.StatusInfo, error)
}

// StatusMsg carries the reply of an overlay request.
type StatusMsg struct {
	Status *ipc.StatusInfo
	Err    error
	Action string
}

type pollMsg time.Time

type controlKeys struct {
	Pause     key.Binding
	Toggle    key.Binding
	NextColor key.Binding
	PrevColor key.Binding
	Wider     key.Binding
	Narrower  key.Binding
	Eraser    key.Binding
	Mode      key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Clear     key.Binding
	Shortcuts key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newControlKeys() controlKeys {
	return controlKeys{
		Pause:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
		Toggle:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "show/hide")),
		NextColor: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next color")),
		PrevColor: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "prev color")),
		Wider:     key.NewBinding(key.WithKeys("]", "+"), key.WithHelp("]", "wider")),
		Narrower:  key.NewBinding(key.WithKeys("[", "-"), key.WithHelp("[", "narrower")),
		Eraser:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "eraser")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "eraser mode")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "redo")),
		Clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Shortcuts: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "global shortcuts")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k controlKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Toggle, k.NextColor, k.Undo, k.Help, k.Quit}
}

func (k controlKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Toggle, k.Clear},
		{k.NextColor, k.PrevColor, k.Wider, k.Narrower},
		{k.Eraser, k.Mode, k.Undo, k.Redo},
		{k.Shortcuts, k.Help, k.Quit},
	}
}

// ControlModel is the remote control TUI for a running overlay.
type ControlModel struct {
	client   Commander
	keys     controlKeys
	help     help.Model
	spinner  spinner.Model
	palette  []string
	widths   []float64
	bindings map[string]string
	interval time.Duration

	status        *ipc.StatusInfo
	err           error
	showShortcuts bool
	width         int

	message       string
	messageOK     bool
	messageExpiry time.Time
}

// NewControlModel creates the control model. Status is polled every
// interval, zero disables polling.
func NewControlModel(client Commander, palette []string, widths []float64, bindings map[string]string, interval time.Duration) *ControlModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &ControlModel{
		client:   client,
		keys:     newControlKeys(),
		help:     help.New(),
		spinner:  s,
		palette:  palette,
		widths:   widths,
		bindings: bindings,
		interval: interval,
		width:    80,
	}
}

// Init initializes the control model
func (m *ControlModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchStatus(), m.poll())
}

func (m *ControlModel) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		info, err := m.client.SendStatus()
		return StatusMsg{Status: info, Err: err}
	}
}

func (m *ControlModel) send(action, arg string) tea.Cmd {
	return func() tea.Msg {
		info, err := m.client.SendCommand(action, arg)
		label := action
		if arg != "" {
			label += " " + arg
		}
		return StatusMsg{Status: info, Err: err, Action: label}
	}
}

func (m *ControlModel) poll() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

// Update handles messages for the control model
func (m *ControlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case StatusMsg:
		if msg.Err != nil {
			m.err = msg.Err
			if msg.Action != "" {
				m.setMessage(false, msg.Action+": "+msg.Err.Error())
			}
			return m, nil
		}
		m.err = nil
		m.status = msg.Status
		if msg.Action != "" {
			m.setMessage(true, msg.Action)
		}

	case pollMsg:
		if !m.messageExpiry.IsZero() && time.Time(msg).After(m.messageExpiry) {
			m.message = ""
			m.messageExpiry = time.Time{}
		}
		return m, tea.Batch(m.fetchStatus(), m.poll())

	case spinner.TickMsg:
		if m.status == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m *ControlModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Shortcuts):
		m.showShortcuts = !m.showShortcuts
		return nil
	case key.Matches(msg, m.keys.Pause):
		return m.send(overlay.ActionTogglePause, "")
	case key.Matches(msg, m.keys.Toggle):
		return m.send(overlay.ActionToggle, "")
	case key.Matches(msg, m.keys.Clear):
		return m.send(overlay.ActionClear, "")
	case key.Matches(msg, m.keys.Undo):
		return m.send(overlay.ActionUndo, "")
	case key.Matches(msg, m.keys.Redo):
		return m.send(overlay.ActionRedo, "")
	case key.Matches(msg, m.keys.Eraser):
		return m.send(overlay.ActionEraser, "")
	case key.Matches(msg, m.keys.Mode):
		mode := "pixel"
		if m.status != nil && m.status.EraserMode == "pixel" {
			mode = "stroke"
		}
		return m.send(overlay.ActionEraserMode, mode)
	case key.Matches(msg, m.keys.NextColor):
		return m.cycleColor(1)
	case key.Matches(msg, m.keys.PrevColor):
		return m.cycleColor(-1)
	case key.Matches(msg, m.keys.Wider):
		return m.stepWidth(true)
	case key.Matches(msg, m.keys.Narrower):
		return m.stepWidth(false)
	}
	return nil
}

func (m *ControlModel) cycleColor(step int) tea.Cmd {
	if len(m.palette) == 0 {
		return nil
	}
	next := 0
	if m.status != nil {
		if i := slices.Index(m.palette, m.status.Color); i >= 0 {
			next = (i + step + len(m.palette)) % len(m.palette)
		}
	}
	return m.send(overlay.ActionColor, m.palette[next])
}

func (m *ControlModel) stepWidth(wider bool) tea.Cmd {
	if len(m.widths) == 0 {
		return nil
	}
	current := 0.0
	if m.status != nil {
		current = m.status.Width
	}
	widths := slices.Clone(m.widths)
	slices.Sort(widths)

	target := -1.0
	if wider {
		for _, w := range widths {
			if w > current {
				target = w
				break
			}
		}
	} else {
		for i := len(widths) - 1; i >= 0; i-- {
			if widths[i] < current {
				target = widths[i]
				break
			}
		}
	}
	if target < 0 {
		m.setMessage(false, "no further stroke width")
		return nil
	}
	return m.send(overlay.ActionWidth, strconv.FormatFloat(target, 'g', -1, 64))
}

func (m *ControlModel) setMessage(ok bool, message string) {
	m.message = message
	m.messageOK = ok
	m.messageExpiry = time.Now().Add(3 * time.Second)
}

// View renders the control UI
func (m *ControlModel) View() string {
	var b strings.Builder

	switch {
	case m.err != nil && m.status == nil:
		b.WriteString(FormatResult(false, fmt.Sprintf("Overlay not reachable: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render("Start it with: inktop run"))
	case m.status == nil:
		b.WriteString(m.spinner.View() + " " + TextStyle.Render("Connecting to overlay..."))
	default:
		panel := StatusPanel{Status: m.status, Width: min(m.width, 72)}
		b.WriteString(panel.View())
	}

	if m.showShortcuts && len(m.bindings) > 0 {
		b.WriteString("\n")
		h := ControlsHelp{Title: "Global shortcuts:", Controls: Shortcuts(m.bindings), Width: min(m.width, 72)}
		b.WriteString(h.View())
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(FormatResult(m.messageOK, m.message))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
