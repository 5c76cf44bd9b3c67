package overlay

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/surface"
)

type fakeView struct {
	mu       sync.Mutex
	added    []string
	removed  []string
	visible  map[string]bool
	presents map[string]int
	frames   map[string]*image.RGBA
}

func newFakeView() *fakeView {
	return &fakeView{visible: map[string]bool{}, presents: map[string]int{}, frames: map[string]*image.RGBA{}}
}

func (v *fakeView) SurfaceAdded(m display.Monitor) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.added = append(v.added, m.ID)
}

func (v *fakeView) SurfaceRemoved(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removed = append(v.removed, id)
}

func (v *fakeView) SetVisible(id string, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.visible[id] = visible
}

func (v *fakeView) Present(id string, frame *image.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.presents[id]++
	v.frames[id] = frame
}

func (v *fakeView) presentCount(id string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.presents[id]
}

func startLoop(t *testing.T) (*Queue, *fakeView) {
	t.Helper()
	q := NewQueue(0)
	view := newFakeView()
	coord := NewCoordinator(surface.DefaultSettings(), nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- q.Run(ctx, coord, view) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
	return q, view
}

func TestQueueAppliesInOrder(t *testing.T) {
	q, view := startLoop(t)
	ctx := context.Background()

	monitors := []display.Monitor{monitor("DP-1", 0, true), monitor("DP-2", 200, false)}
	require.NoError(t, q.Post(ctx, Command{Kind: KindDisplaysChanged, Displays: monitors}))
	require.NoError(t, q.Post(ctx, Command{Kind: KindSetColor, Color: ink.Green}))
	require.NoError(t, q.Post(ctx, Command{Kind: KindPointerDown, Display: "DP-2", Point: ink.Pt(10, 10)}))
	require.NoError(t, q.Post(ctx, Command{Kind: KindPointerMove, Display: "DP-2", Point: ink.Pt(30, 10)}))
	require.NoError(t, q.Post(ctx, Command{Kind: KindPointerUp, Display: "DP-2", Point: ink.Pt(50, 10)}))
	require.NoError(t, q.Post(ctx, Command{Kind: KindShow}))

	st, err := q.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Visible)
	assert.Equal(t, "DP-2", st.Active)
	assert.Equal(t, "green", st.ColorName())
	require.Len(t, st.Surfaces, 2)
	assert.Equal(t, 0, st.Surfaces[0].Strokes)
	assert.Equal(t, 1, st.Surfaces[1].Strokes)

	view.mu.Lock()
	assert.Equal(t, []string{"DP-1", "DP-2"}, view.added)
	assert.True(t, view.visible["DP-1"])
	view.mu.Unlock()
}

func TestQueueCoalescesRedisplay(t *testing.T) {
	q, view := startLoop(t)
	ctx := context.Background()

	_, err := q.Do(ctx, Command{Kind: KindDisplaysChanged, Displays: []display.Monitor{monitor("DP-1", 0, true)}})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return view.presentCount("DP-1") == 1 }, time.Second, time.Millisecond)

	for i := 0; i < 20; i++ {
		require.NoError(t, q.Post(ctx, Command{Kind: KindPointerMove, Display: "DP-1", Point: ink.Pt(float64(i), 5)}))
	}
	_, err = q.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.presentCount("DP-1"), "hover produces no redisplay")

	require.NoError(t, q.Post(ctx, Command{Kind: KindPointerDown, Display: "DP-1", Point: ink.Pt(10, 10)}))
	for i := 0; i < 50; i++ {
		require.NoError(t, q.Post(ctx, Command{Kind: KindPointerMove, Display: "DP-1", Point: ink.Pt(10+float64(i), 10)}))
	}
	require.NoError(t, q.Post(ctx, Command{Kind: KindPointerUp, Display: "DP-1", Point: ink.Pt(60, 10)}))
	_, err = q.Status(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		view.mu.Lock()
		defer view.mu.Unlock()
		f := view.frames["DP-1"]
		return f != nil && f.RGBAAt(40, 10).A > 200
	}, time.Second, time.Millisecond)
	assert.LessOrEqual(t, view.presentCount("DP-1"), 1+52, "at most one present per drained batch")
}

func TestQueueClose(t *testing.T) {
	q := NewQueue(1)
	coord := NewCoordinator(surface.DefaultSettings(), nil, Options{})

	done := make(chan error, 1)
	go func() { done <- q.Run(context.Background(), coord, newFakeView()) }()

	q.Close()
	q.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}

	assert.ErrorIs(t, q.Post(context.Background(), Command{Kind: KindUndo}), ErrQueueClosed)
	_, err := q.Status(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueuePostRespectsContext(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Post(context.Background(), Command{Kind: KindUndo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Post(ctx, Command{Kind: KindRedo}), context.DeadlineExceeded)
}

func TestBatcherPresentsOncePerFlush(t *testing.T) {
	view := newFakeView()
	b := newBatcher(view)
	coord := NewCoordinator(surface.DefaultSettings(), b, Options{})
	coord.DisplaysChanged([]display.Monitor{monitor("DP-1", 0, true), monitor("DP-2", 200, false)})

	coord.PointerDown("DP-1", ink.Pt(10, 10))
	for i := 0; i < 10; i++ {
		coord.PointerMove("DP-1", ink.Pt(20+float64(i), 10))
	}
	coord.PointerUp("DP-1", ink.Pt(40, 10))
	b.flush(coord)

	assert.Equal(t, 1, view.presentCount("DP-1"))
	assert.Equal(t, 1, view.presentCount("DP-2"), "new surfaces are presented once")

	b.flush(coord)
	assert.Equal(t, 1, view.presentCount("DP-1"), "nothing pending")

	coord.DisplaysChanged([]display.Monitor{monitor("DP-1", 0, true)})
	coord.Undo()
	b.flush(coord)
	assert.Equal(t, 2, view.presentCount("DP-1"))
	assert.Equal(t, 1, view.presentCount("DP-2"), "removed surfaces are never presented")
}
