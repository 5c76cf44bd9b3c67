// Package ink holds the stroke model: points, the smoothed path built from
// recorded samples and the rasterisation of a stroke into a pixel buffer.
package ink

import (
	"image/color"
	"math"
	"slices"

	"github.com/google/uuid"
)

// Point is a position in surface-local coordinates (points, not pixels).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the midpoint of p and q.
func (p Point) Mid(q Point) Point {
	return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
}

// Stroke is a recorded free-hand path with its paint style. Once built it is
// never modified: erasing removes the whole value from history.
type Stroke struct {
	id       string
	points   []Point
	color    color.NRGBA
	width    float64
	isEraser bool
}

// NewStroke copies points into a new stroke with a fresh id. Strokes with
// fewer than two points are valid and render nothing.
func NewStroke(points []Point, c color.NRGBA, width float64, isEraser bool) Stroke {
	return Stroke{
		id:       uuid.NewString(),
		points:   slices.Clone(points),
		color:    c,
		width:    width,
		isEraser: isEraser,
	}
}

// Preview wraps points without copying them and without an id. It is meant
// for the live stroke that is redrawn every frame and never committed.
func Preview(points []Point, c color.NRGBA, width float64, isEraser bool) Stroke {
	return Stroke{
		points:   points,
		color:    c,
		width:    width,
		isEraser: isEraser,
	}
}

// ID identifies the stroke in logs. Preview strokes have no id.
func (s Stroke) ID() string { return s.id }

// Color returns the paint colour.
func (s Stroke) Color() color.NRGBA { return s.color }

// Width returns the line width in points.
func (s Stroke) Width() float64 { return s.width }

// IsEraser reports whether the stroke clears the pixels it covers.
func (s Stroke) IsEraser() bool { return s.isEraser }

// Len returns the number of recorded points.
func (s Stroke) Len() int { return len(s.points) }

// Points returns a copy of the recorded points in temporal order.
func (s Stroke) Points() []Point { return slices.Clone(s.points) }

// Near reports whether any recorded point lies within threshold of p.
func (s Stroke) Near(p Point, threshold float64) bool {
	for _, q := range s.points {
		if p.Dist(q) <= threshold {
			return true
		}
	}
	return false
}
