package view

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/overlay"
)

// SurfaceCanvas shows the composited frame of one surface and turns
// primary-button drags into pointer commands.
type SurfaceCanvas struct {
	widget.BaseWidget
	id   string
	post func(overlay.Command)
	img  *canvas.Image

	mu      sync.Mutex
	drawing bool
}

var _ fyne.Widget = (*SurfaceCanvas)(nil)
var _ fyne.Draggable = (*SurfaceCanvas)(nil)
var _ desktop.Mouseable = (*SurfaceCanvas)(nil)

// NewSurfaceCanvas creates the widget for surface id.
func NewSurfaceCanvas(id string, post func(overlay.Command)) *SurfaceCanvas {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest

	c := &SurfaceCanvas{id: id, post: post, img: img}
	c.ExtendBaseWidget(c)
	return c
}

// SetFrame swaps the displayed frame. Must run on the fyne goroutine.
func (c *SurfaceCanvas) SetFrame(frame *image.RGBA) {
	c.img.Image = frame
	c.img.Refresh()
}

// Frame returns the displayed frame.
func (c *SurfaceCanvas) Frame() image.Image {
	return c.img.Image
}

func (c *SurfaceCanvas) send(kind overlay.Kind, pos fyne.Position) {
	c.post(overlay.Command{
		Kind:    kind,
		Display: c.id,
		Point:   ink.Pt(float64(pos.X), float64(pos.Y)),
	})
}

func (c *SurfaceCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.mu.Lock()
	c.drawing = true
	c.mu.Unlock()
	c.send(overlay.KindPointerDown, e.Position)
}

func (c *SurfaceCanvas) Dragged(e *fyne.DragEvent) {
	c.mu.Lock()
	drawing := c.drawing
	c.mu.Unlock()
	if drawing {
		c.send(overlay.KindPointerMove, e.Position)
	}
}

func (c *SurfaceCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.finish(e.Position)
}

// DragEnd carries no position, the last move already recorded it.
func (c *SurfaceCanvas) DragEnd() {}

func (c *SurfaceCanvas) finish(pos fyne.Position) {
	c.mu.Lock()
	drawing := c.drawing
	c.drawing = false
	c.mu.Unlock()
	if drawing {
		c.send(overlay.KindPointerUp, pos)
	}
}

func (c *SurfaceCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.img)
}
