// Package rendercache keeps a surface's committed strokes rasterised in a
// device-pixel buffer so frames do not have to replay the whole history.
package rendercache

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/logger"
)

// DefaultMaxPixels caps a single buffer at 8192x8192 device pixels.
const DefaultMaxPixels = 8192 * 8192

// ErrBufferAlloc is returned when a pixel buffer cannot be created.
var ErrBufferAlloc = errors.New("render buffer allocation failed")

// Geometry describes a surface in points plus its pixel density.
type Geometry struct {
	Width  float64
	Height float64
	Scale  float64
}

// PixelSize returns the buffer dimensions, rounded up.
func (g Geometry) PixelSize() (int, int) {
	return int(math.Ceil(g.Width * g.Scale)), int(math.Ceil(g.Height * g.Scale))
}

func (g Geometry) String() string {
	w, h := g.PixelSize()
	return fmt.Sprintf("%gx%g@%g (%dx%d px)", g.Width, g.Height, g.Scale, w, h)
}

// Stats counts how the buffer has been brought up to date.
type Stats struct {
	Appends  int
	Rebuilds int
}

// Cache is a transparent RGBA buffer holding the committed strokes.
// When dirty, its contents are stale and must be rebuilt before use.
type Cache struct {
	img       *image.RGBA
	geom      Geometry
	dirty     bool
	maxPixels int
	stats     Stats
}

// New allocates a transparent buffer for geom. maxPixels <= 0 selects
// DefaultMaxPixels.
func New(geom Geometry, maxPixels int) (*Cache, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	img, err := allocate(geom, maxPixels)
	if err != nil {
		return nil, err
	}
	return &Cache{img: img, geom: geom, maxPixels: maxPixels}, nil
}

func allocate(geom Geometry, maxPixels int) (img *image.RGBA, err error) {
	if geom.Scale <= 0 || math.IsNaN(geom.Scale) || math.IsInf(geom.Scale, 0) {
		return nil, fmt.Errorf("%w: invalid scale %g", ErrBufferAlloc, geom.Scale)
	}
	w, h := geom.PixelSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty geometry %s", ErrBufferAlloc, geom)
	}
	if w > maxPixels/h {
		return nil, fmt.Errorf("%w: %s exceeds %d pixels", ErrBufferAlloc, geom, maxPixels)
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: %v", ErrBufferAlloc, r)
		}
	}()
	img = image.NewRGBA(image.Rect(0, 0, w, h))
	logger.Debugf("Allocated render buffer %s", geom)
	return img, nil
}

// AppendIncremental paints s on top of the current contents. It does
// nothing while the cache is dirty; the next rebuild will include s.
func (c *Cache) AppendIncremental(s ink.Stroke) {
	if c.dirty {
		return
	}
	s.Render(c.img, c.geom.Scale)
	c.stats.Appends++
}

// RebuildFull clears the buffer, repaints strokes in order and clears the
// dirty flag.
func (c *Cache) RebuildFull(strokes []ink.Stroke) {
	clear(c.img.Pix)
	for _, s := range strokes {
		s.Render(c.img, c.geom.Scale)
	}
	c.dirty = false
	c.stats.Rebuilds++
}

// Reset clears the buffer to transparent. An empty buffer is never stale.
func (c *Cache) Reset() {
	clear(c.img.Pix)
	c.dirty = false
}

// Resize replaces the buffer with a transparent one for geom and marks it
// dirty. On failure the old buffer and geometry are kept.
func (c *Cache) Resize(geom Geometry) error {
	img, err := allocate(geom, c.maxPixels)
	if err != nil {
		return err
	}
	c.img = img
	c.geom = geom
	c.dirty = true
	return nil
}

// MarkDirty flags the contents as stale.
func (c *Cache) MarkDirty() { c.dirty = true }

// Dirty reports whether a rebuild is pending.
func (c *Cache) Dirty() bool { return c.dirty }

// Image returns the live buffer. Callers must not keep it across mutations.
func (c *Cache) Image() *image.RGBA { return c.img }

// Geometry returns the geometry the buffer was allocated for.
func (c *Cache) Geometry() Geometry { return c.geom }

// Snapshot returns a copy of the buffer.
func (c *Cache) Snapshot() *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(c.img.Pix)),
		Stride: c.img.Stride,
		Rect:   c.img.Rect,
	}
	copy(out.Pix, c.img.Pix)
	return out
}

// Stats returns the append and rebuild counters.
func (c *Cache) Stats() Stats { return c.stats }
