package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ipc"
)

func TestStatusPanel(t *testing.T) {
	tests := []struct {
		name     string
		status   ipc.StatusInfo
		mustHave []string
	}{
		{
			name: "visible with surfaces",
			status: ipc.StatusInfo{
				Visible: true, Color: "blue", Width: 5, Tool: "pen", EraserMode: "stroke", Active: "DP-1",
				Surfaces: []ipc.SurfaceInfo{
					{ID: "DP-1", Name: "DP-1", Width: 1920, Height: 1080, Scale: 2, Strokes: 4, Undone: 1},
				},
			},
			mustHave: []string{"Overlay shown", "blue", "5 pt", "DP-1 1920x1080 @2x", "4 strokes, 1 undone"},
		},
		{
			name:     "hidden and paused",
			status:   ipc.StatusInfo{Paused: true, Color: "#123456", Width: 3, Tool: "pixel eraser", EraserEnabled: true, EraserMode: "pixel"},
			mustHave: []string{"Overlay hidden", "paused", "#123456", "pixel eraser", "No displays attached"},
		},
		{
			name: "failed surface",
			status: ipc.StatusInfo{
				Color: "red", Width: 3, Tool: "pen", EraserMode: "stroke",
				Surfaces: []ipc.SurfaceInfo{{ID: "HDMI-A-1", Name: "HDMI-A-1", Width: 10, Height: 10, Scale: 1, Failed: true, Error: "buffer too large"}},
			},
			mustHave: []string{"HDMI-A-1", "buffer too large"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := StatusPanel{Status: &tt.status, Width: 80}
			view := p.View()
			for _, s := range tt.mustHave {
				assert.Contains(t, view, s)
			}
		})
	}
}

func TestMonitorInfo(t *testing.T) {
	m := MonitorInfo{Monitors: []*display.Monitor{
		{ID: "DP-1", Name: "DP-1", Width: 2560, Height: 1440, Scale: 1.5, Primary: true},
		{ID: "HDMI-A-1", Name: "HDMI-A-1", X: 2560, Width: 1920, Height: 1080, Scale: 1},
	}}
	view := m.View()

	assert.Contains(t, view, "Detected 2 monitor(s)")
	assert.Contains(t, view, "(primary)")
	assert.Contains(t, view, "2560x1440")
	assert.Contains(t, view, "2560,0")
}

func TestShortcuts(t *testing.T) {
	controls := Shortcuts(map[string]string{
		"ctrl+z":       "undo",
		"ctrl+shift+1": "color:red",
		"ctrl+shift+d": "toggle_pause",
		"f9":           "width:8",
		"f10":          "dance",
	})
	require.Len(t, controls, 5)

	assert.Equal(t, Control{Key: "ctrl+shift+1", Desc: "Color: red"}, controls[0])
	assert.Equal(t, Control{Key: "ctrl+shift+d", Desc: "Pause or resume drawing"}, controls[1])
	assert.Equal(t, Control{Key: "ctrl+z", Desc: "Undo"}, controls[2])
	assert.Equal(t, Control{Key: "f10", Desc: "dance"}, controls[3])
	assert.Equal(t, Control{Key: "f9", Desc: "Stroke width: 8"}, controls[4])
}

func TestControlsHelp(t *testing.T) {
	h := ControlsHelp{Controls: []Control{{Key: "ctrl+z", Desc: "Undo"}, {Key: "escape", Desc: "Quit"}}}
	view := h.View()

	assert.Contains(t, view, "Keyboard Shortcuts:")
	assert.Contains(t, view, "ctrl+z")
	assert.Contains(t, view, "Quit")
}

func TestShortcutsText(t *testing.T) {
	text := ShortcutsText(map[string]string{"ctrl+z": "undo", "escape": "quit"})
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ctrl+z"))
	assert.True(t, strings.HasSuffix(lines[1], "Quit"))
}
