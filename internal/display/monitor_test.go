package display

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wlrRandrJSON = `[
  {
    "name": "eDP-1",
    "enabled": true,
    "modes": [
      {"width": 1920, "height": 1080, "refresh": 60.0, "preferred": false, "current": false},
      {"width": 2880, "height": 1800, "refresh": 90.0, "preferred": true, "current": true}
    ],
    "position": {"x": 0, "y": 0},
    "transform": "normal",
    "scale": 2.0
  },
  {
    "name": "DP-2",
    "enabled": true,
    "modes": [{"width": 2560, "height": 1440, "refresh": 144.0, "current": true}],
    "position": {"x": 1440, "y": 0},
    "transform": "90",
    "scale": 1.0
  },
  {
    "name": "HDMI-A-1",
    "enabled": false,
    "modes": [{"width": 1920, "height": 1080, "current": true}],
    "position": {"x": 0, "y": 0},
    "scale": 1.0
  }
]`

const wlrRandrText = `eDP-1 "Sharp Corporation 0x1516 (eDP-1)"
  Physical size: 300x190 mm
  Enabled: yes
  Modes:
    1920x1080 px, 60.000000 Hz
    2880x1800 px, 90.000000 Hz (preferred, current)
  Position: 0,0
  Transform: normal
  Scale: 2.000000
HDMI-A-1 "Unknown"
  Enabled: no
  Modes:
    1920x1080 px, 60.000000 Hz (current)
  Position: 1440,0
DP-2 "Dell Inc. DELL U2720Q"
  Enabled: yes
  Modes:
    3840x2160 px, 59.997002 Hz (preferred, current)
  Position: 1440,0
  Scale: 1.500000
`

func TestParseWlrRandrJSON(t *testing.T) {
	monitors, err := parseWlrRandrJSON([]byte(wlrRandrJSON))
	require.NoError(t, err)
	require.Len(t, monitors, 2)

	assert.Equal(t, Monitor{ID: "eDP-1", Name: "eDP-1", Width: 2880, Height: 1800, Scale: 2, Primary: true}, *monitors[0])
	assert.Equal(t, "DP-2", monitors[1].ID)
	assert.Equal(t, int32(1440), monitors[1].Width, "rotated output swaps dimensions")
	assert.Equal(t, int32(2560), monitors[1].Height)
	assert.False(t, monitors[1].Primary)

	_, err = parseWlrRandrJSON([]byte(`[]`))
	assert.ErrorIs(t, err, ErrNoMonitors)

	_, err = parseWlrRandrJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseWlrRandrText(t *testing.T) {
	monitors, err := parseWlrRandrText(wlrRandrText)
	require.NoError(t, err)
	require.Len(t, monitors, 2)

	assert.Equal(t, Monitor{ID: "eDP-1", Name: "eDP-1", Width: 2880, Height: 1800, Scale: 2, Primary: true}, *monitors[0])
	assert.Equal(t, Monitor{ID: "DP-2", Name: "DP-2", X: 1440, Width: 3840, Height: 2160, Scale: 1.5}, *monitors[1])

	_, err = parseWlrRandrText("")
	assert.ErrorIs(t, err, ErrNoMonitors)
}

func TestWlrRandrBackendFallsBackToText(t *testing.T) {
	b := &wlrRandrBackend{run: func(args ...string) ([]byte, error) {
		if len(args) > 0 {
			return []byte("unknown option --json"), errors.New("exit status 1")
		}
		return []byte(wlrRandrText), nil
	}}

	monitors, err := b.GetMonitors()
	require.NoError(t, err)
	assert.Len(t, monitors, 2)
}

func TestPrimaryFallbacks(t *testing.T) {
	monitors := []*Monitor{
		{ID: "a", X: 1920, Width: 100, Height: 100},
		{ID: "b", X: 0, Width: 100, Height: 100},
	}
	determinePrimaryMonitor(monitors)
	assert.Equal(t, "b", Primary(monitors).ID, "origin monitor is primary")

	offset := []*Monitor{{ID: "x", X: 10}, {ID: "y", X: 20}}
	determinePrimaryMonitor(offset)
	assert.Equal(t, "x", Primary(offset).ID)

	assert.Nil(t, Primary(nil))
}

func TestPointSize(t *testing.T) {
	m := Monitor{Width: 2880, Height: 1800, Scale: 2}
	w, h := m.PointSize(1)
	assert.Equal(t, 1440.0, w)
	assert.Equal(t, 900.0, h)

	unscaled := Monitor{Width: 1000, Height: 500}
	w, _ = unscaled.PointSize(2)
	assert.Equal(t, 500.0, w)
}

type scriptedBackend struct {
	mu      sync.Mutex
	layouts [][]*Monitor
	calls   int
}

func (s *scriptedBackend) GetMonitors() ([]*Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.layouts)-1)
	s.calls++
	return s.layouts[i], nil
}

func (s *scriptedBackend) Close() error { return nil }

func TestWatchReportsChanges(t *testing.T) {
	one := []*Monitor{{ID: "DP-1", Width: 100, Height: 100, Scale: 1, Primary: true}}
	two := []*Monitor{
		{ID: "DP-1", Width: 100, Height: 100, Scale: 1, Primary: true},
		{ID: "DP-2", X: 100, Width: 100, Height: 100, Scale: 1},
	}
	d, err := New(&scriptedBackend{layouts: [][]*Monitor{one, one, two}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []*Monitor, 4)
	go d.Watch(ctx, 5*time.Millisecond, func(m []*Monitor) { changes <- m })

	select {
	case got := <-changes:
		assert.Len(t, got, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("layout change not reported")
	}
}

func TestStaticBackend(t *testing.T) {
	b := NewStaticBackend([]*Monitor{{Name: "left", X: -1920, Width: 1920, Height: 1080}, {Name: "main", Width: 2560, Height: 1440}})
	monitors, err := b.GetMonitors()
	require.NoError(t, err)
	require.Len(t, monitors, 2)
	assert.Equal(t, "left", monitors[0].ID, "id defaults to name")
	assert.True(t, monitors[1].Primary)

	_, err = NewStaticBackend(nil).GetMonitors()
	assert.ErrorIs(t, err, ErrNoMonitors)

	d, err := Open(BackendStatic, []*Monitor{{Name: "main", Width: 100, Height: 100}})
	require.NoError(t, err)
	assert.Equal(t, "main", d.GetPrimaryMonitor().ID)

	_, err = Open("xrandr", nil)
	assert.Error(t, err)
}
