package view

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"

	"github.com/bnema/inktop/internal/overlay"
	"github.com/bnema/inktop/internal/surface"
)

// Tray is the system tray menu mirroring the overlay tools.
type Tray struct {
	Menu *fyne.Menu

	dispatch func(action string)
	palette  []string
	widths   []float64

	toggle      *fyne.MenuItem
	colors      []*fyne.MenuItem
	sizes       []*fyne.MenuItem
	eraser      *fyne.MenuItem
	strokeMode  *fyne.MenuItem
	pixelMode   *fyne.MenuItem
	pause       *fyne.MenuItem
	shortcuts   *fyne.MenuItem
	onShortcuts func()
}

// NewTray builds the menu. Every item sends its action through dispatch.
func NewTray(dispatch func(action string), palette []string, widths []float64, onShortcuts func()) *Tray {
	t := &Tray{
		dispatch:    dispatch,
		palette:     palette,
		widths:      widths,
		onShortcuts: onShortcuts,
	}

	t.toggle = fyne.NewMenuItem("Show Overlay", t.action(overlay.ActionToggle))

	colorMenu := fyne.NewMenuItem("Color", nil)
	var colorItems []*fyne.MenuItem
	for _, name := range palette {
		item := fyne.NewMenuItem(name, t.action(overlay.ActionColor+":"+name))
		t.colors = append(t.colors, item)
		colorItems = append(colorItems, item)
	}
	colorMenu.ChildMenu = fyne.NewMenu("Color", colorItems...)

	widthMenu := fyne.NewMenuItem("Stroke Width", nil)
	var widthItems []*fyne.MenuItem
	for _, w := range widths {
		arg := strconv.FormatFloat(w, 'g', -1, 64)
		item := fyne.NewMenuItem(fmt.Sprintf("%s pt", arg), t.action(overlay.ActionWidth+":"+arg))
		t.sizes = append(t.sizes, item)
		widthItems = append(widthItems, item)
	}
	widthMenu.ChildMenu = fyne.NewMenu("Stroke Width", widthItems...)

	t.eraser = fyne.NewMenuItem("Enable Eraser", t.action(overlay.ActionEraser))
	t.strokeMode = fyne.NewMenuItem("Stroke Eraser", t.action(overlay.ActionEraserMode+":stroke"))
	t.pixelMode = fyne.NewMenuItem("Pixel Eraser", t.action(overlay.ActionEraserMode+":pixel"))
	eraserMenu := fyne.NewMenuItem("Eraser", nil)
	eraserMenu.ChildMenu = fyne.NewMenu("Eraser", t.eraser, fyne.NewMenuItemSeparator(), t.strokeMode, t.pixelMode)

	t.pause = fyne.NewMenuItem("Pause Drawing", t.action(overlay.ActionTogglePause))
	t.shortcuts = fyne.NewMenuItem("Keyboard Shortcuts", func() {
		if t.onShortcuts != nil {
			t.onShortcuts()
		}
	})
	quit := fyne.NewMenuItem("Quit", t.action(overlay.ActionQuit))
	quit.IsQuit = true

	t.Menu = fyne.NewMenu("InkTop",
		t.toggle,
		fyne.NewMenuItemSeparator(),
		colorMenu,
		widthMenu,
		eraserMenu,
		fyne.NewMenuItemSeparator(),
		t.pause,
		fyne.NewMenuItem("Clear All", t.action(overlay.ActionClear)),
		fyne.NewMenuItem("Undo", t.action(overlay.ActionUndo)),
		fyne.NewMenuItem("Redo", t.action(overlay.ActionRedo)),
		fyne.NewMenuItemSeparator(),
		t.shortcuts,
		quit,
	)
	return t
}

func (t *Tray) action(action string) func() {
	return func() { t.dispatch(action) }
}

// Sync updates labels and check marks from a status snapshot. Must run on
// the fyne goroutine.
func (t *Tray) Sync(st overlay.Status) {
	if st.Visible {
		t.toggle.Label = "Hide Overlay"
	} else {
		t.toggle.Label = "Show Overlay"
	}

	current := st.ColorName()
	for i, item := range t.colors {
		item.Checked = t.palette[i] == current
	}
	for i, item := range t.sizes {
		item.Checked = t.widths[i] == st.Settings.Width
	}

	t.eraser.Checked = st.Settings.EraserEnabled
	t.strokeMode.Checked = st.Settings.EraserMode == surface.EraserStroke
	t.pixelMode.Checked = !t.strokeMode.Checked
	t.pause.Checked = st.Settings.Paused

	t.Menu.Refresh()
}
