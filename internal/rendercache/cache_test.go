package rendercache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/inktop/internal/ink"
)

func testStrokes() []ink.Stroke {
	return []ink.Stroke{
		ink.NewStroke([]ink.Point{ink.Pt(5, 5), ink.Pt(40, 20), ink.Pt(60, 5)}, ink.Red, 4, false),
		ink.NewStroke([]ink.Point{ink.Pt(10, 30), ink.Pt(70, 30)}, ink.Blue, 6, false),
		ink.NewStroke([]ink.Point{ink.Pt(30, 0), ink.Pt(30, 40)}, ink.Black, 8, true),
		ink.NewStroke([]ink.Point{ink.Pt(0, 0), ink.Pt(80, 40)}, ink.Yellow, 2, false),
	}
}

func TestNewIsTransparent(t *testing.T) {
	c, err := New(Geometry{Width: 40, Height: 20, Scale: 2}, 0)
	require.NoError(t, err)

	assert.Equal(t, 80, c.Image().Bounds().Dx())
	assert.Equal(t, 40, c.Image().Bounds().Dy())
	assert.False(t, c.Dirty())
	for _, v := range c.Image().Pix {
		require.Zero(t, v)
	}
}

func TestIncrementalMatchesFullRebuild(t *testing.T) {
	geom := Geometry{Width: 80, Height: 40, Scale: 1.5}
	strokes := testStrokes()

	inc, err := New(geom, 0)
	require.NoError(t, err)
	for _, s := range strokes {
		inc.AppendIncremental(s)
	}

	full, err := New(geom, 0)
	require.NoError(t, err)
	full.RebuildFull(strokes)

	assert.Equal(t, full.Image().Pix, inc.Image().Pix)
	assert.Equal(t, Stats{Appends: len(strokes)}, inc.Stats())
	assert.Equal(t, Stats{Rebuilds: 1}, full.Stats())
}

func TestDirtyCacheSkipsAppends(t *testing.T) {
	c, err := New(Geometry{Width: 80, Height: 40, Scale: 1}, 0)
	require.NoError(t, err)

	c.MarkDirty()
	c.AppendIncremental(testStrokes()[0])
	assert.Zero(t, c.Stats().Appends)
	assert.True(t, c.Dirty())

	c.RebuildFull(testStrokes()[:1])
	assert.False(t, c.Dirty())
	assert.Equal(t, 1, c.Stats().Rebuilds)
}

func TestReset(t *testing.T) {
	c, err := New(Geometry{Width: 80, Height: 40, Scale: 1}, 0)
	require.NoError(t, err)
	c.AppendIncremental(testStrokes()[1])
	c.MarkDirty()

	c.Reset()

	assert.False(t, c.Dirty())
	for _, v := range c.Image().Pix {
		require.Zero(t, v)
	}
}

func TestResize(t *testing.T) {
	c, err := New(Geometry{Width: 80, Height: 40, Scale: 1}, 0)
	require.NoError(t, err)

	require.NoError(t, c.Resize(Geometry{Width: 80, Height: 40, Scale: 2}))
	assert.True(t, c.Dirty())
	assert.Equal(t, 160, c.Image().Bounds().Dx())

	err = c.Resize(Geometry{Width: 0, Height: 40, Scale: 2})
	require.ErrorIs(t, err, ErrBufferAlloc)
	assert.Equal(t, 160, c.Image().Bounds().Dx(), "failed resize keeps the old buffer")
}

func TestAllocationLimits(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		max  int
	}{
		{name: "zero scale", geom: Geometry{Width: 10, Height: 10}},
		{name: "negative size", geom: Geometry{Width: -5, Height: 10, Scale: 1}},
		{name: "over the pixel cap", geom: Geometry{Width: 200, Height: 200, Scale: 1}, max: 100 * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.geom, tt.max)
			assert.ErrorIs(t, err, ErrBufferAlloc)
		})
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	c, err := New(Geometry{Width: 20, Height: 20, Scale: 1}, 0)
	require.NoError(t, err)

	snap := c.Snapshot()
	c.AppendIncremental(ink.NewStroke([]ink.Point{ink.Pt(0, 10), ink.Pt(20, 10)}, ink.Red, 4, false))

	assert.Zero(t, snap.RGBAAt(10, 10).A)
	assert.NotZero(t, c.Image().RGBAAt(10, 10).A)
}

func TestPixelSizeRoundsUp(t *testing.T) {
	w, h := Geometry{Width: 10.2, Height: 3, Scale: 1.5}.PixelSize()
	assert.Equal(t, 16, w)
	assert.Equal(t, 5, h)
}
