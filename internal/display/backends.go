package display

import (
	"fmt"

	"github.com/bnema/inktop/internal/logger"
)

// Backend names accepted by Open.
const (
	BackendAuto     = "auto"
	BackendWlrRandr = "wlr-randr"
	BackendStatic   = "static"
)

// staticBackend serves a fixed layout from configuration.
type staticBackend struct {
	monitors []*Monitor
}

// NewStaticBackend returns a backend that always reports monitors.
func NewStaticBackend(monitors []*Monitor) Backend {
	cloned := make([]*Monitor, len(monitors))
	for i, m := range monitors {
		c := *m
		if c.ID == "" {
			c.ID = c.Name
		}
		cloned[i] = &c
	}
	determinePrimaryMonitor(cloned)
	return &staticBackend{monitors: cloned}
}

func (s *staticBackend) GetMonitors() ([]*Monitor, error) {
	if len(s.monitors) == 0 {
		return nil, ErrNoMonitors
	}
	out := make([]*Monitor, len(s.monitors))
	for i, m := range s.monitors {
		c := *m
		out[i] = &c
	}
	return out, nil
}

func (s *staticBackend) Close() error {
	return nil
}

// Open builds a display manager for the named backend. auto tries
// wlr-randr first and falls back to the static layout.
func Open(name string, static []*Monitor) (*Display, error) {
	var candidates []string
	switch name {
	case "", BackendAuto:
		candidates = []string{BackendWlrRandr, BackendStatic}
	case BackendWlrRandr, BackendStatic:
		candidates = []string{name}
	default:
		return nil, fmt.Errorf("unknown display backend %q", name)
	}

	var lastErr error
	for _, c := range candidates {
		var backend Backend
		switch c {
		case BackendWlrRandr:
			backend, lastErr = newWlrRandrBackend()
		case BackendStatic:
			backend = NewStaticBackend(static)
			lastErr = nil
		}
		if lastErr != nil {
			logger.Debugf("Display backend %s unavailable: %v", c, lastErr)
			continue
		}

		d, err := New(backend)
		if err != nil {
			logger.Debugf("Display backend %s failed: %v", c, err)
			lastErr = err
			continue
		}
		logger.Debugf("Using display backend %s", c)
		return d, nil
	}
	return nil, fmt.Errorf("no display backend available: %w", lastErr)
}
