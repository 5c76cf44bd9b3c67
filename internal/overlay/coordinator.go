// Package overlay owns every surface controller and applies tool commands
// across them. All of its state is confined to the goroutine running the
// command queue.
package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/logger"
	"github.com/bnema/inktop/internal/rendercache"
	"github.com/bnema/inktop/internal/surface"
)

// DefaultScale is used for displays that report no scale.
const DefaultScale = 2.0

// Presenter receives surface lifecycle and redisplay notifications.
type Presenter interface {
	SurfaceAdded(m display.Monitor)
	SurfaceRemoved(id string)
	SetVisible(id string, visible bool)
	NeedsRedisplay(id string)
}

// Options configure a coordinator.
type Options struct {
	DefaultScale float64
	Surface      surface.Options
}

type slot struct {
	id      string
	monitor display.Monitor
	ctrl    *surface.Controller
}

// Coordinator is an arena of surface controllers keyed by display id.
type Coordinator struct {
	opts      Options
	presenter Presenter
	settings  surface.ToolSettings

	slots []*slot
	free  []int
	index map[string]int
	order []string

	primary string
	active  string
	visible bool
}

// NewCoordinator creates a coordinator without surfaces. A nil presenter
// discards notifications.
func NewCoordinator(settings surface.ToolSettings, presenter Presenter, opts Options) *Coordinator {
	if opts.DefaultScale <= 0 {
		opts.DefaultScale = DefaultScale
	}
	return &Coordinator{
		opts:      opts,
		presenter: presenter,
		settings:  settings,
		index:     make(map[string]int),
	}
}

// SetPresenter replaces the notification target.
func (c *Coordinator) SetPresenter(p Presenter) {
	c.presenter = p
}

func (c *Coordinator) lookup(id string) *slot {
	i, ok := c.index[id]
	if !ok {
		return nil
	}
	return c.slots[i]
}

func (c *Coordinator) geometry(m display.Monitor) rendercache.Geometry {
	w, h := m.PointSize(c.opts.DefaultScale)
	return rendercache.Geometry{Width: w, Height: h, Scale: m.EffectiveScale(c.opts.DefaultScale)}
}

// DisplaysChanged replaces the surface set with monitors. Surfaces for
// vanished displays are dropped with their history, new displays get fresh
// surfaces with the current settings and displays whose geometry changed
// are resized in place.
func (c *Coordinator) DisplaysChanged(monitors []display.Monitor) {
	seen := make(map[string]bool, len(monitors))
	var wanted []display.Monitor
	for _, m := range monitors {
		if m.ID == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		wanted = append(wanted, m)
	}

	for _, id := range c.order {
		if !seen[id] {
			c.retire(id)
		}
	}

	order := make([]string, 0, len(wanted))
	for _, m := range wanted {
		order = append(order, m.ID)
		if s := c.lookup(m.ID); s != nil {
			if c.geometry(s.monitor) != c.geometry(m) {
				s.ctrl.Resize(c.geometry(m))
			}
			s.monitor = m
			continue
		}
		c.allocate(m)
	}
	c.order = order

	ptrs := make([]*display.Monitor, len(wanted))
	for i := range wanted {
		ptrs[i] = &wanted[i]
	}
	c.primary = ""
	if p := display.Primary(ptrs); p != nil {
		c.primary = p.ID
	}
	if c.lookup(c.active) == nil {
		c.active = c.primary
	}
	logger.Debug("Surfaces reconfigured", "surfaces", len(c.order), "primary", c.primary, "active", c.active)
}

func (c *Coordinator) allocate(m display.Monitor) {
	id := m.ID
	opts := c.opts.Surface
	opts.OnRedisplay = func() { c.needsRedisplay(id) }

	s := &slot{id: id, monitor: m, ctrl: surface.New(c.geometry(m), c.settings, opts)}
	var i int
	if n := len(c.free); n > 0 {
		i = c.free[n-1]
		c.free = c.free[:n-1]
		c.slots[i] = s
	} else {
		i = len(c.slots)
		c.slots = append(c.slots, s)
	}
	c.index[id] = i
	logger.Debug("Surface added", "display", id, "geometry", c.geometry(m))

	if c.presenter != nil {
		c.presenter.SurfaceAdded(m)
		if c.visible {
			c.presenter.SetVisible(id, true)
		}
	}
	c.needsRedisplay(id)
}

func (c *Coordinator) retire(id string) {
	i, ok := c.index[id]
	if !ok {
		return
	}
	c.slots[i] = nil
	c.free = append(c.free, i)
	delete(c.index, id)
	logger.Debug("Surface removed", "display", id)
	if c.presenter != nil {
		c.presenter.SurfaceRemoved(id)
	}
}

func (c *Coordinator) needsRedisplay(id string) {
	if c.presenter != nil {
		c.presenter.NeedsRedisplay(id)
	}
}

func (c *Coordinator) each(fn func(*slot)) {
	for _, id := range c.order {
		if s := c.lookup(id); s != nil {
			fn(s)
		}
	}
}

// PointerDown routes a press to surface id and makes it the active surface.
func (c *Coordinator) PointerDown(id string, p ink.Point) {
	s := c.lookup(id)
	if s == nil {
		return
	}
	c.active = id
	s.ctrl.PointerDown(p)
}

// PointerMove routes a motion event to surface id.
func (c *Coordinator) PointerMove(id string, p ink.Point) {
	if s := c.lookup(id); s != nil {
		s.ctrl.PointerMove(p)
	}
}

// PointerUp routes a release to surface id.
func (c *Coordinator) PointerUp(id string, p ink.Point) {
	if s := c.lookup(id); s != nil {
		s.ctrl.PointerUp(p)
	}
}

func (c *Coordinator) broadcast() {
	settings := c.settings
	c.each(func(s *slot) { s.ctrl.ApplySettings(settings) })
}

// SetColor changes the pen colour on every surface.
func (c *Coordinator) SetColor(col color.NRGBA) {
	c.settings.Color = col
	c.broadcast()
}

// SetStrokeWidth changes the pen width. Non-positive widths are ignored.
func (c *Coordinator) SetStrokeWidth(w float64) {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return
	}
	c.settings.Width = w
	c.broadcast()
}

// ToggleEraser flips the eraser on every surface.
func (c *Coordinator) ToggleEraser() {
	c.settings.EraserEnabled = !c.settings.EraserEnabled
	c.broadcast()
}

// SetEraserMode selects stroke or pixel erasing without enabling the eraser.
func (c *Coordinator) SetEraserMode(m surface.EraserMode) {
	if m != surface.EraserStroke && m != surface.EraserPixel {
		return
	}
	c.settings.EraserMode = m
	c.broadcast()
}

// TogglePause flips whether pointer input draws.
func (c *Coordinator) TogglePause() {
	c.settings.Paused = !c.settings.Paused
	c.broadcast()
}

// Undo reverts the newest stroke on the active surface.
func (c *Coordinator) Undo() {
	if s := c.lookup(c.active); s != nil {
		s.ctrl.Undo()
	}
}

// Redo recommits on the active surface.
func (c *Coordinator) Redo() {
	if s := c.lookup(c.active); s != nil {
		s.ctrl.Redo()
	}
}

// ClearAll empties every surface.
func (c *Coordinator) ClearAll() {
	c.each(func(s *slot) { s.ctrl.ClearAll() })
}

// Show makes every surface visible.
func (c *Coordinator) Show() {
	if c.visible {
		return
	}
	c.visible = true
	c.each(func(s *slot) {
		if c.presenter != nil {
			c.presenter.SetVisible(s.id, true)
		}
		c.needsRedisplay(s.id)
	})
}

// Hide hides every surface.
func (c *Coordinator) Hide() {
	if !c.visible {
		return
	}
	c.visible = false
	c.each(func(s *slot) {
		if c.presenter != nil {
			c.presenter.SetVisible(s.id, false)
		}
	})
}

// ToggleVisibility shows hidden surfaces and hides visible ones.
func (c *Coordinator) ToggleVisibility() {
	if c.visible {
		c.Hide()
	} else {
		c.Show()
	}
}

// Refresh re-presents every surface while the overlay is visible.
func (c *Coordinator) Refresh() {
	if !c.visible {
		return
	}
	c.each(func(s *slot) {
		if c.presenter != nil {
			c.presenter.SetVisible(s.id, true)
		}
		c.needsRedisplay(s.id)
	})
}

// CompositedFrame returns the current frame of surface id, or nil when the
// surface is unknown or failed.
func (c *Coordinator) CompositedFrame(id string) *image.RGBA {
	s := c.lookup(id)
	if s == nil {
		return nil
	}
	return s.ctrl.CompositedFrame()
}

// Controller returns the controller of surface id.
func (c *Coordinator) Controller(id string) (*surface.Controller, bool) {
	s := c.lookup(id)
	if s == nil {
		return nil, false
	}
	return s.ctrl, true
}

// Surfaces returns the display ids in display order.
func (c *Coordinator) Surfaces() []string {
	return append([]string(nil), c.order...)
}

func (c *Coordinator) Settings() surface.ToolSettings { return c.settings }
func (c *Coordinator) Visible() bool                  { return c.visible }
func (c *Coordinator) Active() string                 { return c.active }
func (c *Coordinator) Primary() string                { return c.primary }
