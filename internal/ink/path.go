package ink

// SegmentKind distinguishes straight from quadratic segments.
type SegmentKind int

const (
	SegmentLine SegmentKind = iota
	SegmentQuad
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentLine:
		return "line"
	case SegmentQuad:
		return "quad"
	default:
		return "unknown"
	}
}

// Segment continues a path from the current position to To. Ctrl is only
// used by quadratic segments.
type Segment struct {
	Kind SegmentKind
	Ctrl Point
	To   Point
}

// Path is a single open subpath.
type Path struct {
	Start    Point
	Segments []Segment
}

// BuildPath turns recorded samples into the smoothed stroke path:
//
//   - fewer than 2 points: no path
//   - 2 points: one straight segment
//   - otherwise each interior point becomes the control point of a quadratic
//     curve ending at the midpoint to its successor, and a final straight
//     segment reaches the last sample.
func BuildPath(points []Point) (Path, bool) {
	n := len(points)
	if n < 2 {
		return Path{}, false
	}

	p := Path{Start: points[0]}
	if n == 2 {
		p.Segments = []Segment{{Kind: SegmentLine, To: points[1]}}
		return p, true
	}

	p.Segments = make([]Segment, 0, n-1)
	for i := 1; i < n-1; i++ {
		p.Segments = append(p.Segments, Segment{
			Kind: SegmentQuad,
			Ctrl: points[i],
			To:   points[i].Mid(points[i+1]),
		})
	}
	p.Segments = append(p.Segments, Segment{Kind: SegmentLine, To: points[n-1]})
	return p, true
}

// bounds returns the box spanned by the path's start, control and end
// points. Quadratic curves stay inside the hull of their control points, so
// this box contains the whole centre line.
func (p Path) bounds() (min, max Point) {
	min, max = p.Start, p.Start
	grow := func(q Point) {
		if q.X < min.X {
			min.X = q.X
		}
		if q.Y < min.Y {
			min.Y = q.Y
		}
		if q.X > max.X {
			max.X = q.X
		}
		if q.Y > max.Y {
			max.Y = q.Y
		}
	}
	for _, s := range p.Segments {
		if s.Kind == SegmentQuad {
			grow(s.Ctrl)
		}
		grow(s.To)
	}
	return min, max
}
