package overlay

import (
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/surface"
)

// SurfaceStatus describes one surface.
type SurfaceStatus struct {
	ID      string
	Name    string
	Width   int32
	Height  int32
	Scale   float64
	Strokes int
	Undone  int
	Drawing bool
	Failed  bool
	Error   string
}

// Status is a point-in-time snapshot of the overlay.
type Status struct {
	Settings surface.ToolSettings
	Visible  bool
	Active   string
	Primary  string
	Surfaces []SurfaceStatus
}

// ColorName returns the display name of the current pen colour.
func (s Status) ColorName() string {
	return ink.ColorName(s.Settings.Color)
}

// Status snapshots the overlay state.
func (c *Coordinator) Status() Status {
	st := Status{
		Settings: c.settings,
		Visible:  c.visible,
		Active:   c.active,
		Primary:  c.primary,
	}
	c.each(func(s *slot) {
		ss := SurfaceStatus{
			ID:      s.id,
			Name:    s.monitor.Name,
			Width:   s.monitor.Width,
			Height:  s.monitor.Height,
			Scale:   s.ctrl.Geometry().Scale,
			Strokes: s.ctrl.History().Len(),
			Undone:  s.ctrl.History().UndoLen(),
			Drawing: s.ctrl.Drawing(),
			Failed:  s.ctrl.Failed(),
		}
		if err := s.ctrl.Err(); err != nil {
			ss.Error = err.Error()
		}
		st.Surfaces = append(st.Surfaces, ss)
	})
	return st
}
