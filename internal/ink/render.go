package ink

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

const (
	miterLimit = 4
	// kappa places cubic control points for a quarter circle.
	kappa = 0.5522847498
)

// Render paints the stroke into dst with round caps and joins. scale maps
// surface points to dst pixels. Eraser strokes clear the covered pixels in
// proportion to coverage instead of blending colour over them.
func (s Stroke) Render(dst *image.RGBA, scale float64) {
	path, ok := BuildPath(s.points)
	if !ok || s.width <= 0 || scale <= 0 {
		return
	}

	lw := s.width * scale
	lo, hi := path.bounds()
	pad := lw/2 + 2
	area := image.Rect(
		int(math.Floor(lo.X*scale-pad)), int(math.Floor(lo.Y*scale-pad)),
		int(math.Ceil(hi.X*scale+pad)), int(math.Ceil(hi.Y*scale+pad)),
	).Intersect(dst.Bounds())
	if area.Empty() {
		return
	}

	mask := coverage(path, lw, scale, area)
	if s.isEraser {
		draw.DrawMask(dst, area, image.Transparent, image.Point{}, mask, image.Point{}, draw.Src)
		return
	}
	draw.DrawMask(dst, area, image.NewUniform(s.color), image.Point{}, mask, image.Point{}, draw.Over)
}

// coverage rasterises the stroked path into an alpha mask covering area.
// Mask pixel (0,0) corresponds to area.Min in the destination.
func coverage(p Path, lw, scale float64, area image.Rectangle) *image.Alpha {
	w, h := area.Dx(), area.Dy()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, mask, mask.Bounds())

	local := func(q Point) (float64, float64) {
		return q.X*scale - float64(area.Min.X), q.Y*scale - float64(area.Min.Y)
	}
	toFixed := func(q Point) fixed.Point26_6 {
		return rasterx.ToFixedP(local(q))
	}

	ops := fixedOps(p, toFixed)
	if len(ops) == 0 {
		// Zero-length geometry: a round cap on both ends collapses to a dot.
		filler := rasterx.NewFiller(w, h, scanner)
		filler.SetColor(color.Opaque)
		cx, cy := local(p.Start)
		addDot(filler, cx, cy, lw/2)
		filler.Draw()
		return mask
	}

	stroker := rasterx.NewStroker(w, h, scanner)
	stroker.SetStroke(toFixedLen(lw), toFixedLen(miterLimit),
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	stroker.SetColor(color.Opaque)
	stroker.Start(toFixed(p.Start))
	for _, o := range ops {
		if o.quad {
			stroker.QuadBezier(o.ctrl, o.to)
		} else {
			stroker.Line(o.to)
		}
	}
	stroker.Stop(false)
	stroker.Draw()
	return mask
}

type fixedOp struct {
	quad     bool
	ctrl, to fixed.Point26_6
}

// fixedOps converts the path to fixed point, dropping segments that do not
// move the pen at that resolution.
func fixedOps(p Path, toFixed func(Point) fixed.Point26_6) []fixedOp {
	pen := toFixed(p.Start)
	ops := make([]fixedOp, 0, len(p.Segments))
	for _, s := range p.Segments {
		to := toFixed(s.To)
		if s.Kind == SegmentQuad {
			ctrl := toFixed(s.Ctrl)
			if to == pen && ctrl == pen {
				continue
			}
			ops = append(ops, fixedOp{quad: true, ctrl: ctrl, to: to})
		} else {
			if to == pen {
				continue
			}
			ops = append(ops, fixedOp{to: to})
		}
		pen = to
	}
	return ops
}

func addDot(f *rasterx.Filler, cx, cy, r float64) {
	k := kappa * r
	pt := rasterx.ToFixedP
	f.Start(pt(cx+r, cy))
	f.CubeBezier(pt(cx+r, cy+k), pt(cx+k, cy+r), pt(cx, cy+r))
	f.CubeBezier(pt(cx-k, cy+r), pt(cx-r, cy+k), pt(cx-r, cy))
	f.CubeBezier(pt(cx-r, cy-k), pt(cx-k, cy-r), pt(cx, cy-r))
	f.CubeBezier(pt(cx+k, cy-r), pt(cx+r, cy-k), pt(cx+r, cy))
	f.Stop(true)
}

func toFixedLen(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
