// Package history keeps the committed and undone strokes of one surface.
package history

import (
	"slices"

	"github.com/bnema/inktop/internal/ink"
)

// DefaultHitThreshold is the stroke-eraser hit radius in points.
const DefaultHitThreshold = 10.0

// History is an undo/redo log of strokes. Committed strokes are in paint
// order, oldest first. Undone strokes are a stack whose last element is the
// next one to redo. It is not safe for concurrent use.
type History struct {
	committed []ink.Stroke
	undone    []ink.Stroke
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// AddStroke commits s and invalidates the redo stack.
func (h *History) AddStroke(s ink.Stroke) {
	h.committed = append(h.committed, s)
	h.undone = h.undone[:0]
}

// Undo moves the newest committed stroke onto the redo stack. It reports
// false when there is nothing to undo.
func (h *History) Undo() bool {
	n := len(h.committed)
	if n == 0 {
		return false
	}
	s := h.committed[n-1]
	h.committed = h.committed[:n-1]
	h.undone = append(h.undone, s)
	return true
}

// Redo recommits the most recently undone stroke.
func (h *History) Redo() bool {
	n := len(h.undone)
	if n == 0 {
		return false
	}
	s := h.undone[n-1]
	h.undone = h.undone[:n-1]
	h.committed = append(h.committed, s)
	return true
}

// ClearAll empties both sequences. It cannot be undone.
func (h *History) ClearAll() {
	h.committed = nil
	h.undone = nil
}

// RemoveStroke deletes the committed stroke at i. The redo stack is left
// alone. It reports false for an out-of-range index.
func (h *History) RemoveStroke(i int) bool {
	if i < 0 || i >= len(h.committed) {
		return false
	}
	h.committed = slices.Delete(h.committed, i, i+1)
	return true
}

// FindStrokeAt returns the index of the topmost committed stroke that has a
// recorded point within threshold of p.
func (h *History) FindStrokeAt(p ink.Point, threshold float64) (int, bool) {
	for i := len(h.committed) - 1; i >= 0; i-- {
		if h.committed[i].Near(p, threshold) {
			return i, true
		}
	}
	return -1, false
}

// Strokes returns the committed strokes in paint order.
func (h *History) Strokes() []ink.Stroke {
	return slices.Clone(h.committed)
}

// Last returns the newest committed stroke.
func (h *History) Last() (ink.Stroke, bool) {
	if len(h.committed) == 0 {
		return ink.Stroke{}, false
	}
	return h.committed[len(h.committed)-1], true
}

func (h *History) Len() int      { return len(h.committed) }
func (h *History) UndoLen() int  { return len(h.undone) }
func (h *History) CanUndo() bool { return len(h.committed) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }
