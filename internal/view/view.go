// Package view presents overlay surfaces as fyne windows, one per display.
package view

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/logger"
	"github.com/bnema/inktop/internal/overlay"
)

// Options configures the presenter.
type Options struct {
	Fullscreen   bool
	DefaultScale float64
	Palette      []string
	Widths       []float64
	Shortcuts    string               // Text for the shortcuts window
	Post         func(overlay.Command) // Pointer events
	Dispatch     func(action string)   // Tray and window key actions
}

type surfaceWindow struct {
	win    fyne.Window
	canvas *SurfaceCanvas
}

// Overlay implements overlay.View on top of a fyne app. Its View methods
// may be called from any goroutine; window work is handed to fyne.Do.
type Overlay struct {
	app  fyne.App
	opts Options
	tray *Tray

	mu      sync.Mutex
	windows map[string]*surfaceWindow
}

var _ overlay.View = (*Overlay)(nil)

// New creates the presenter and installs the tray menu when the driver
// supports one.
func New(a fyne.App, opts Options) *Overlay {
	if opts.DefaultScale <= 0 {
		opts.DefaultScale = overlay.DefaultScale
	}
	if opts.Post == nil {
		opts.Post = func(overlay.Command) {}
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(string) {}
	}

	o := &Overlay{
		app:     a,
		opts:    opts,
		windows: make(map[string]*surfaceWindow),
	}
	o.tray = NewTray(opts.Dispatch, opts.Palette, opts.Widths, o.ShowShortcuts)
	if desk, ok := a.(desktop.App); ok {
		desk.SetSystemTrayMenu(o.tray.Menu)
	} else {
		logger.Debug("Driver has no system tray, menu disabled")
	}
	return o
}

// Tray returns the tray menu.
func (o *Overlay) Tray() *Tray {
	return o.tray
}

// SyncStatus refreshes the tray from a status snapshot.
func (o *Overlay) SyncStatus(st overlay.Status) {
	fyne.Do(func() { o.tray.Sync(st) })
}

func (o *Overlay) SurfaceAdded(m display.Monitor) {
	c := NewSurfaceCanvas(m.ID, o.opts.Post)
	w, h := m.PointSize(o.opts.DefaultScale)

	fyne.Do(func() {
		win := o.app.NewWindow("InkTop " + m.Name)
		win.SetPadded(false)
		win.SetContent(c)
		win.Resize(fyne.NewSize(float32(w), float32(h)))
		win.SetFullScreen(o.opts.Fullscreen)
		win.SetCloseIntercept(func() { o.opts.Dispatch(overlay.ActionHide) })
		win.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
			if k.Name == fyne.KeyEscape {
				o.opts.Dispatch(overlay.ActionQuit)
			}
		})

		o.mu.Lock()
		if old, ok := o.windows[m.ID]; ok {
			old.win.Close()
		}
		o.windows[m.ID] = &surfaceWindow{win: win, canvas: c}
		o.mu.Unlock()
		logger.Debugf("Window created for %s (%gx%g pt)", m.ID, w, h)
	})
}

func (o *Overlay) SurfaceRemoved(id string) {
	fyne.Do(func() {
		o.mu.Lock()
		sw, ok := o.windows[id]
		delete(o.windows, id)
		o.mu.Unlock()
		if ok {
			sw.win.Close()
			logger.Debugf("Window closed for %s", id)
		}
	})
}

func (o *Overlay) SetVisible(id string, visible bool) {
	fyne.Do(func() {
		sw := o.window(id)
		if sw == nil {
			return
		}
		if visible {
			sw.win.Show()
		} else {
			sw.win.Hide()
		}
	})
}

func (o *Overlay) Present(id string, frame *image.RGBA) {
	if frame == nil {
		return
	}
	fyne.Do(func() {
		if sw := o.window(id); sw != nil {
			sw.canvas.SetFrame(frame)
		}
	})
}

func (o *Overlay) window(id string) *surfaceWindow {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.windows[id]
}

// Canvas returns the widget of surface id.
func (o *Overlay) Canvas(id string) (*SurfaceCanvas, bool) {
	sw := o.window(id)
	if sw == nil {
		return nil, false
	}
	return sw.canvas, true
}

// ShowShortcuts opens the keyboard shortcuts window.
func (o *Overlay) ShowShortcuts() {
	w := o.app.NewWindow("Keyboard Shortcuts")
	text := o.opts.Shortcuts
	if text == "" {
		text = "No shortcuts configured"
	}
	w.SetContent(widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true}))
	w.Show()
}

// CloseAll closes every surface window.
func (o *Overlay) CloseAll() {
	o.mu.Lock()
	windows := o.windows
	o.windows = make(map[string]*surfaceWindow)
	o.mu.Unlock()
	fyne.Do(func() {
		for _, sw := range windows {
			sw.win.Close()
		}
	})
}
