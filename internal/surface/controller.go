// Package surface implements the drawing engine of a single overlay
// surface: pointer handling, the in-progress stroke and the two-layer frame.
package surface

import (
	"errors"
	"fmt"
	"image"

	"github.com/bnema/inktop/internal/history"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/logger"
	"github.com/bnema/inktop/internal/rendercache"
)

// ErrSurfaceFailed marks a surface whose pixel buffer could not be created.
var ErrSurfaceFailed = errors.New("surface failed")

// DefaultPixelEraserFactor widens pixel-eraser strokes relative to the pen.
const DefaultPixelEraserFactor = 2.0

// Options tune a controller. Zero values select defaults.
type Options struct {
	HitThreshold      float64
	PixelEraserFactor float64
	MaxPixels         int
	// OnRedisplay is called whenever the surface needs to be presented again.
	OnRedisplay func()
}

func (o Options) withDefaults() Options {
	if o.HitThreshold <= 0 {
		o.HitThreshold = history.DefaultHitThreshold
	}
	if o.PixelEraserFactor <= 0 {
		o.PixelEraserFactor = DefaultPixelEraserFactor
	}
	if o.MaxPixels <= 0 {
		o.MaxPixels = rendercache.DefaultMaxPixels
	}
	return o
}

// Controller owns one surface's history, render cache and point buffer.
// It is not safe for concurrent use; the overlay command loop is its only
// caller.
type Controller struct {
	opts     Options
	geom     rendercache.Geometry
	history  *history.History
	cache    *rendercache.Cache
	settings ToolSettings

	drawing bool
	points  []ink.Point

	err error
}

// New creates a controller. It never fails: when the buffer cannot be
// allocated the controller is created in the failed state.
func New(geom rendercache.Geometry, settings ToolSettings, opts Options) *Controller {
	c := &Controller{
		opts:     opts.withDefaults(),
		geom:     geom,
		history:  history.New(),
		settings: settings,
	}
	cache, err := rendercache.New(geom, c.opts.MaxPixels)
	if err != nil {
		c.fail(err)
		return c
	}
	c.cache = cache
	return c
}

func (c *Controller) fail(err error) {
	c.err = fmt.Errorf("%w: %w", ErrSurfaceFailed, err)
	c.cache = nil
	c.drawing = false
	c.points = c.points[:0]
	logger.Error("Surface disabled", "geometry", c.geom, "error", err)
}

// Failed reports whether the surface has no usable buffer.
func (c *Controller) Failed() bool { return c.cache == nil }

// Err returns the reason the surface failed, or nil.
func (c *Controller) Err() error { return c.err }

// Geometry returns the current surface geometry.
func (c *Controller) Geometry() rendercache.Geometry { return c.geom }

// Settings returns the tool settings in effect.
func (c *Controller) Settings() ToolSettings { return c.settings }

// Drawing reports whether a stroke is in progress.
func (c *Controller) Drawing() bool { return c.drawing }

// History exposes the stroke history for read access.
func (c *Controller) History() *history.History { return c.history }

// CacheStats returns the render cache counters.
func (c *Controller) CacheStats() rendercache.Stats {
	if c.cache == nil {
		return rendercache.Stats{}
	}
	return c.cache.Stats()
}

func (c *Controller) acceptsInput() bool {
	return c.cache != nil && !c.settings.Paused
}

func (c *Controller) redisplay() {
	if c.opts.OnRedisplay != nil {
		c.opts.OnRedisplay()
	}
}

// PointerDown starts a stroke, or erases under p in stroke-eraser mode.
func (c *Controller) PointerDown(p ink.Point) {
	if !c.acceptsInput() {
		return
	}
	if c.settings.StrokeEraser() {
		c.eraseAt(p)
		return
	}
	c.drawing = true
	c.points = append(c.points[:0], p)
	c.redisplay()
}

// PointerMove extends the live stroke or keeps erasing. Hover is ignored.
func (c *Controller) PointerMove(p ink.Point) {
	if !c.acceptsInput() {
		return
	}
	if c.settings.StrokeEraser() {
		c.eraseAt(p)
		return
	}
	if !c.drawing {
		return
	}
	c.points = append(c.points, p)
	c.redisplay()
}

// PointerUp commits the live stroke.
func (c *Controller) PointerUp(p ink.Point) {
	if !c.acceptsInput() {
		return
	}
	if c.settings.StrokeEraser() || !c.drawing {
		c.drawing = false
		return
	}

	c.points = append(c.points, p)
	s := c.newStroke(c.points)
	c.history.AddStroke(s)
	c.cache.AppendIncremental(s)
	c.drawing = false
	c.points = c.points[:0]
	logger.Debug("Stroke committed", "id", s.ID(), "points", s.Len(), "eraser", s.IsEraser())
	c.redisplay()
}

func (c *Controller) newStroke(points []ink.Point) ink.Stroke {
	width := c.settings.Width
	eraser := c.settings.PixelEraser()
	if eraser {
		width *= c.opts.PixelEraserFactor
	}
	return ink.NewStroke(points, c.settings.Color, width, eraser)
}

// preview is the live stroke drawn over the cache on every frame.
func (c *Controller) preview() ink.Stroke {
	width := c.settings.Width
	eraser := c.settings.PixelEraser()
	if eraser {
		width *= c.opts.PixelEraserFactor
	}
	return ink.Preview(c.points, c.settings.Color, width, eraser)
}

func (c *Controller) eraseAt(p ink.Point) {
	i, ok := c.history.FindStrokeAt(p, c.opts.HitThreshold)
	if !ok {
		return
	}
	c.history.RemoveStroke(i)
	c.cache.MarkDirty()
	c.redisplay()
}

// Undo reverts the newest stroke.
func (c *Controller) Undo() {
	if c.cache == nil || !c.history.Undo() {
		return
	}
	c.cache.MarkDirty()
	c.redisplay()
}

// Redo recommits the most recently undone stroke.
func (c *Controller) Redo() {
	if c.cache == nil || !c.history.Redo() {
		return
	}
	c.cache.MarkDirty()
	c.redisplay()
}

// ClearAll drops every stroke, including the live one.
func (c *Controller) ClearAll() {
	c.history.ClearAll()
	c.drawing = false
	c.points = c.points[:0]
	if c.cache == nil {
		return
	}
	c.cache.Reset()
	c.redisplay()
}

// ApplySettings replaces the tool settings. Pausing, or switching to the
// stroke eraser, drops the live stroke.
func (c *Controller) ApplySettings(s ToolSettings) {
	prev := c.settings
	c.settings = s
	if (s.Paused || s.StrokeEraser()) && c.drawing {
		c.drawing = false
		c.points = c.points[:0]
		c.redisplay()
		return
	}
	if s.Paused != prev.Paused {
		c.redisplay()
	}
}

// Resize adopts a new geometry. The live stroke is dropped; committed
// strokes are kept and repainted on the next frame. A failed surface gets a
// fresh allocation attempt.
func (c *Controller) Resize(geom rendercache.Geometry) {
	c.drawing = false
	c.points = c.points[:0]
	c.geom = geom

	if c.cache == nil {
		cache, err := rendercache.New(geom, c.opts.MaxPixels)
		if err != nil {
			c.fail(err)
			return
		}
		c.cache = cache
		c.cache.MarkDirty()
		c.err = nil
		logger.Info("Surface recovered", "geometry", geom)
		c.redisplay()
		return
	}

	if err := c.cache.Resize(geom); err != nil {
		c.fail(err)
		return
	}
	logger.Debug("Surface resized", "geometry", geom, "strokes", c.history.Len())
	c.redisplay()
}

// CompositedFrame returns the committed strokes with the live stroke painted
// on top. The cache is rebuilt first if it is stale. A failed surface
// returns nil.
func (c *Controller) CompositedFrame() *image.RGBA {
	if c.cache == nil {
		return nil
	}
	if c.cache.Dirty() {
		c.cache.RebuildFull(c.history.Strokes())
		logger.Debug("Render cache rebuilt", "strokes", c.history.Len())
	}
	frame := c.cache.Snapshot()
	if c.drawing && !c.settings.Paused {
		c.preview().Render(frame, c.geom.Scale)
	}
	return frame
}
