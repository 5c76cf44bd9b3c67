package view

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/overlay"
	"github.com/bnema/inktop/internal/surface"
)

type recorder struct {
	mu       sync.Mutex
	commands []overlay.Command
	actions  []string
}

func (r *recorder) post(cmd overlay.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func (r *recorder) dispatch(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestSurfaceCanvasPointerCommands(t *testing.T) {
	r := &recorder{}
	c := NewSurfaceCanvas("DP-1", r.post)

	c.Dragged(drag(1, 1)) // not drawing yet
	c.MouseDown(mouse(10, 20, desktop.MouseButtonPrimary))
	c.Dragged(drag(15, 25))
	c.Dragged(drag(20, 30))
	c.DragEnd()
	c.MouseUp(mouse(21, 31, desktop.MouseButtonPrimary))
	c.MouseUp(mouse(22, 32, desktop.MouseButtonPrimary)) // already finished

	require.Len(t, r.commands, 4)
	assert.Equal(t, overlay.Command{Kind: overlay.KindPointerDown, Display: "DP-1", Point: ink.Pt(10, 20)}, r.commands[0])
	assert.Equal(t, overlay.KindPointerMove, r.commands[1].Kind)
	assert.Equal(t, ink.Pt(20, 30), r.commands[2].Point)
	assert.Equal(t, overlay.Command{Kind: overlay.KindPointerUp, Display: "DP-1", Point: ink.Pt(21, 31)}, r.commands[3])
}

func TestSurfaceCanvasIgnoresSecondaryButton(t *testing.T) {
	r := &recorder{}
	c := NewSurfaceCanvas("DP-1", r.post)

	c.MouseDown(mouse(1, 1, desktop.MouseButtonSecondary))
	c.Dragged(drag(2, 2))
	c.MouseUp(mouse(3, 3, desktop.MouseButtonSecondary))

	assert.Empty(t, r.commands)
}

func TestSurfaceCanvasSetFrame(t *testing.T) {
	test.NewTempApp(t)
	c := NewSurfaceCanvas("DP-1", func(overlay.Command) {})
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	frame.Set(1, 1, color.RGBA{R: 255, A: 255})

	c.SetFrame(frame)

	assert.Same(t, frame, c.Frame())
}

func TestTrayDispatchesActions(t *testing.T) {
	r := &recorder{}
	tray := NewTray(r.dispatch, []string{"red", "blue"}, []float64{3, 8}, nil)

	labels := make([]string, 0, len(tray.Menu.Items))
	for _, item := range tray.Menu.Items {
		if item.IsSeparator {
			continue
		}
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{
		"Show Overlay", "Color", "Stroke Width", "Eraser",
		"Pause Drawing", "Clear All", "Undo", "Redo",
		"Keyboard Shortcuts", "Quit",
	}, labels)

	tray.colors[1].Action()
	tray.sizes[1].Action()
	tray.pixelMode.Action()
	tray.pause.Action()
	tray.Menu.Items[len(tray.Menu.Items)-1].Action()

	assert.Equal(t, []string{"color:blue", "width:8", "eraser_mode:pixel", "toggle_pause", "quit"}, r.actions)
	assert.True(t, tray.Menu.Items[len(tray.Menu.Items)-1].IsQuit)
}

func TestTraySync(t *testing.T) {
	test.NewTempApp(t)
	tray := NewTray(func(string) {}, []string{"red", "blue"}, []float64{3, 8}, nil)

	st := overlay.Status{Visible: true, Settings: surface.DefaultSettings()}
	st.Settings.Color = ink.Blue
	st.Settings.Width = 8
	st.Settings.Paused = true
	st.Settings.EraserMode = surface.EraserPixel
	tray.Sync(st)

	assert.Equal(t, "Hide Overlay", tray.toggle.Label)
	assert.False(t, tray.colors[0].Checked)
	assert.True(t, tray.colors[1].Checked)
	assert.True(t, tray.sizes[1].Checked)
	assert.True(t, tray.pixelMode.Checked)
	assert.False(t, tray.strokeMode.Checked)
	assert.True(t, tray.pause.Checked)
	assert.False(t, tray.eraser.Checked)
}

func TestOverlayWindows(t *testing.T) {
	a := test.NewTempApp(t)
	r := &recorder{}
	o := New(a, Options{Post: r.post, Dispatch: r.dispatch, Shortcuts: "ctrl+z  Undo"})

	o.SurfaceAdded(display.Monitor{ID: "DP-1", Name: "DP-1", Width: 800, Height: 600, Scale: 2})
	require.Eventually(t, func() bool {
		_, ok := o.Canvas("DP-1")
		return ok
	}, time.Second, 10*time.Millisecond)

	frame := image.NewRGBA(image.Rect(0, 0, 800, 600))
	o.Present("DP-1", frame)
	o.Present("missing", frame)
	c, _ := o.Canvas("DP-1")
	assert.Eventually(t, func() bool { return c.Frame() == image.Image(frame) }, time.Second, 10*time.Millisecond)

	o.SetVisible("DP-1", true)
	o.SurfaceRemoved("DP-1")
	assert.Eventually(t, func() bool {
		_, ok := o.Canvas("DP-1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
