package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/bnema/inktop/internal/ink"
)

// EraserMode selects what the eraser removes.
type EraserMode int

const (
	// EraserStroke removes whole strokes under the pointer.
	EraserStroke EraserMode = iota
	// EraserPixel paints clearing strokes.
	EraserPixel
)

func (m EraserMode) String() string {
	switch m {
	case EraserStroke:
		return "stroke"
	case EraserPixel:
		return "pixel"
	default:
		return fmt.Sprintf("EraserMode(%d)", int(m))
	}
}

// ParseEraserMode accepts "stroke" or "pixel".
func ParseEraserMode(s string) (EraserMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stroke":
		return EraserStroke, nil
	case "pixel":
		return EraserPixel, nil
	default:
		return EraserStroke, fmt.Errorf("unknown eraser mode %q", s)
	}
}

// ToolSettings is the drawing state shared by every surface. It is always
// passed by value.
type ToolSettings struct {
	Color         color.NRGBA
	Width         float64
	EraserEnabled bool
	EraserMode    EraserMode
	Paused        bool
}

// DefaultSettings is red, 3 points wide, eraser off.
func DefaultSettings() ToolSettings {
	return ToolSettings{
		Color:      ink.Red,
		Width:      3,
		EraserMode: EraserStroke,
	}
}

// StrokeEraser reports whether pointer input removes whole strokes.
func (t ToolSettings) StrokeEraser() bool {
	return t.EraserEnabled && t.EraserMode == EraserStroke
}

// PixelEraser reports whether new strokes clear pixels.
func (t ToolSettings) PixelEraser() bool {
	return t.EraserEnabled && t.EraserMode == EraserPixel
}

// Tool names the effective tool for status output.
func (t ToolSettings) Tool() string {
	switch {
	case t.StrokeEraser():
		return "stroke eraser"
	case t.PixelEraser():
		return "pixel eraser"
	default:
		return "pen"
	}
}
