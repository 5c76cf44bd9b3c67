package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/overlay"
	"github.com/bnema/inktop/internal/surface"
)

// fallbackMonitor is used when nothing is detected and no static layout is
// configured.
var fallbackMonitor = display.Monitor{
	ID: "default", Name: "default", Width: 1920, Height: 1080, Scale: 1, Primary: true,
}

// toolSettings builds the initial tool state from the config.
func toolSettings(tc config.ToolsConfig) (surface.ToolSettings, error) {
	s := surface.DefaultSettings()

	c, err := ink.ParseColor(tc.Color)
	if err != nil {
		return s, fmt.Errorf("invalid tools.color: %w", err)
	}
	mode, err := surface.ParseEraserMode(tc.EraserMode)
	if err != nil {
		return s, fmt.Errorf("invalid tools.eraser_mode: %w", err)
	}
	s.Color = c
	s.Width = tc.Width
	s.EraserMode = mode
	return s, nil
}

func overlayOptions(cfg *config.Config) overlay.Options {
	return overlay.Options{
		DefaultScale: cfg.Overlay.DefaultScale,
		Surface: surface.Options{
			HitThreshold:      cfg.Tools.HitThreshold,
			PixelEraserFactor: cfg.Tools.PixelEraserFactor,
			MaxPixels:         cfg.Overlay.MaxSurfacePixels,
		},
	}
}

func staticMonitors(cfg *config.Config) []*display.Monitor {
	if len(cfg.Display.Static) == 0 {
		m := fallbackMonitor
		return []*display.Monitor{&m}
	}
	monitors := make([]*display.Monitor, 0, len(cfg.Display.Static))
	for _, s := range cfg.Display.Static {
		id := s.ID
		if id == "" {
			id = s.Name
		}
		monitors = append(monitors, &display.Monitor{
			ID:      id,
			Name:    s.Name,
			X:       s.X,
			Y:       s.Y,
			Width:   s.Width,
			Height:  s.Height,
			Scale:   s.Scale,
			Primary: s.Primary,
		})
	}
	return monitors
}

func openDisplay(cfg *config.Config) (*display.Display, error) {
	return display.Open(cfg.Display.Backend, staticMonitors(cfg))
}

// monitorValues copies the detected monitors for a DisplaysChanged command.
func monitorValues(monitors []*display.Monitor) []display.Monitor {
	out := make([]display.Monitor, len(monitors))
	for i, m := range monitors {
		out[i] = *m
	}
	return out
}

func newClient() *ipc.Client {
	return ipc.NewClientWithTimeout(config.Get().IPC.SocketPath, 3*time.Second)
}
