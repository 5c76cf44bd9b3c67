// Package display detects the physical outputs the overlay covers and
// reports changes to their layout.
package display

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/bnema/inktop/internal/logger"
)

// ErrNoMonitors is returned when a backend finds no usable output.
var ErrNoMonitors = errors.New("no active monitors found")

// Monitor represents a physical display. ID is the output name and stays
// stable across reconfigurations. Width and Height are in device pixels.
type Monitor struct {
	ID      string
	Name    string
	X       int32 // Position in global coordinate space
	Y       int32
	Width   int32
	Height  int32
	Primary bool
	Scale   float64
}

// Bounds returns the monitor's boundaries
func (m *Monitor) Bounds() (x1, y1, x2, y2 int32) {
	return m.X, m.Y, m.X + m.Width, m.Y + m.Height
}

// Contains checks if a point is within this monitor
func (m *Monitor) Contains(x, y int32) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// EffectiveScale returns the monitor scale, or fallback when the backend
// reported none.
func (m *Monitor) EffectiveScale(fallback float64) float64 {
	if m.Scale > 0 {
		return m.Scale
	}
	return fallback
}

// PointSize returns the logical size of the monitor.
func (m *Monitor) PointSize(fallbackScale float64) (w, h float64) {
	s := m.EffectiveScale(fallbackScale)
	return float64(m.Width) / s, float64(m.Height) / s
}

func (m *Monitor) String() string {
	return fmt.Sprintf("%s %dx%d+%d+%d@%g", m.ID, m.Width, m.Height, m.X, m.Y, m.Scale)
}

// Backend is a source of monitor layouts.
type Backend interface {
	GetMonitors() ([]*Monitor, error)
	Close() error
}

// Display manages monitor configuration
type Display struct {
	monitors []*Monitor
	backend  Backend
}

// New queries backend once and wraps it.
func New(backend Backend) (*Display, error) {
	monitors, err := backend.GetMonitors()
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &Display{monitors: monitors, backend: backend}, nil
}

// GetMonitors returns all detected monitors
func (d *Display) GetMonitors() []*Monitor {
	return d.monitors
}

// GetPrimaryMonitor returns the primary monitor
func (d *Display) GetPrimaryMonitor() *Monitor {
	return Primary(d.monitors)
}

// GetMonitorAt returns the monitor containing the given coordinates
func (d *Display) GetMonitorAt(x, y int32) *Monitor {
	for _, m := range d.monitors {
		if m.Contains(x, y) {
			return m
		}
	}
	return nil
}

// Refresh queries the backend again. It reports whether the layout changed.
func (d *Display) Refresh() (bool, error) {
	monitors, err := d.backend.GetMonitors()
	if err != nil {
		return false, err
	}
	if Equal(d.monitors, monitors) {
		return false, nil
	}
	d.monitors = monitors
	return true, nil
}

// Watch polls the backend every interval and calls onChange with each new
// layout. It returns when ctx is done. Detection errors are logged and the
// previous layout is kept.
func (d *Display) Watch(ctx context.Context, interval time.Duration, onChange func([]*Monitor)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := d.Refresh()
			if err != nil {
				logger.Warn("Display detection failed", "error", err)
				continue
			}
			if changed {
				logger.Info("Display layout changed", "monitors", len(d.monitors))
				onChange(slices.Clone(d.monitors))
			}
		}
	}
}

// Close cleans up resources
func (d *Display) Close() error {
	if d.backend != nil {
		return d.backend.Close()
	}
	return nil
}

// Primary returns the primary monitor, falling back to the first one.
func Primary(monitors []*Monitor) *Monitor {
	for _, m := range monitors {
		if m.Primary {
			return m
		}
	}
	if len(monitors) > 0 {
		return monitors[0]
	}
	return nil
}

// Equal reports whether two layouts describe the same monitors in the same
// order.
func Equal(a, b []*Monitor) bool {
	return slices.EqualFunc(a, b, func(x, y *Monitor) bool { return *x == *y })
}

// determinePrimaryMonitor marks a primary when the backend did not: the
// monitor at (0,0), or else the first one.
func determinePrimaryMonitor(monitors []*Monitor) {
	for _, m := range monitors {
		if m.Primary {
			return
		}
	}
	for _, m := range monitors {
		if m.X == 0 && m.Y == 0 {
			m.Primary = true
			return
		}
	}
	if len(monitors) > 0 {
		monitors[0].Primary = true
	}
}
