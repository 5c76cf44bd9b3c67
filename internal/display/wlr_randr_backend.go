package display

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/inktop/internal/logger"
)

// wlrRandrBackend uses wlr-randr for display detection
type wlrRandrBackend struct {
	run func(args ...string) ([]byte, error)
}

func newWlrRandrBackend() (Backend, error) {
	if _, err := exec.LookPath("wlr-randr"); err != nil {
		return nil, fmt.Errorf("wlr-randr not found. Please install wlr-randr: https://gitlab.freedesktop.org/emersion/wlr-randr")
	}
	return &wlrRandrBackend{run: runWlrRandr}, nil
}

func runWlrRandr(args ...string) ([]byte, error) {
	return exec.Command("wlr-randr", args...).CombinedOutput()
}

func (w *wlrRandrBackend) GetMonitors() ([]*Monitor, error) {
	output, err := w.run("--json")
	if err == nil {
		monitors, perr := parseWlrRandrJSON(output)
		if perr == nil {
			return monitors, nil
		}
		logger.Debugf("wlr-randr JSON unusable, falling back to text parsing: %v", perr)
	} else if len(output) > 0 {
		logger.Debugf("wlr-randr --json error: %s", string(output))
	}

	output, err = w.run()
	if err != nil {
		if len(output) > 0 {
			logger.Errorf("wlr-randr error: %s", string(output))
		}
		return nil, fmt.Errorf("failed to run wlr-randr: %w", err)
	}
	return parseWlrRandrText(string(output))
}

func (w *wlrRandrBackend) Close() error {
	return nil
}

type wlrRandrOutput struct {
	Name    string  `json:"name"`
	Enabled bool    `json:"enabled"`
	Scale   float64 `json:"scale"`
	Modes   []struct {
		Width   int     `json:"width"`
		Height  int     `json:"height"`
		Refresh float64 `json:"refresh"`
		Current bool    `json:"current"`
	} `json:"modes"`
	Position struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"position"`
	Transform string `json:"transform"`
}

func parseWlrRandrJSON(data []byte) ([]*Monitor, error) {
	var outputs []wlrRandrOutput
	if err := json.Unmarshal(data, &outputs); err != nil {
		return nil, fmt.Errorf("failed to decode wlr-randr output: %w", err)
	}

	var monitors []*Monitor
	for _, o := range outputs {
		if !o.Enabled {
			continue
		}
		width, height := 0, 0
		for _, mode := range o.Modes {
			if mode.Current {
				width, height = mode.Width, mode.Height
				break
			}
		}
		// Rotated outputs swap their mode dimensions.
		if o.Transform == "90" || o.Transform == "270" || o.Transform == "flipped-90" || o.Transform == "flipped-270" {
			width, height = height, width
		}
		if width == 0 || height == 0 {
			logger.Warnf("Skipping monitor %s with invalid dimensions: %dx%d", o.Name, width, height)
			continue
		}
		scale := o.Scale
		if scale <= 0 {
			scale = 1.0
		}
		monitors = append(monitors, &Monitor{
			ID:     o.Name,
			Name:   o.Name,
			X:      int32(o.Position.X),
			Y:      int32(o.Position.Y),
			Width:  int32(width),
			Height: int32(height),
			Scale:  scale,
		})
	}

	if len(monitors) == 0 {
		return nil, ErrNoMonitors
	}
	determinePrimaryMonitor(monitors)
	return monitors, nil
}

// parseWlrRandrText reads the human readable form:
//
//	DP-1 "Dell Inc. U2720Q"
//	  Enabled: yes
//	  Modes:
//	    3840x2160 px, 59.997002 Hz (preferred, current)
//	  Position: 0,0
//	  Scale: 2.000000
func parseWlrRandrText(out string) ([]*Monitor, error) {
	var monitors []*Monitor
	var current *Monitor
	enabled := false

	flush := func() {
		if current != nil && enabled && current.Width > 0 && current.Height > 0 {
			monitors = append(monitors, current)
		}
		current = nil
		enabled = false
	}

	for _, raw := range strings.Split(out, "\n") {
		if raw == "" {
			continue
		}
		if raw[0] != ' ' && raw[0] != '\t' {
			flush()
			fields := strings.Fields(raw)
			current = &Monitor{ID: fields[0], Name: fields[0], Scale: 1.0}
			continue
		}
		if current == nil {
			continue
		}

		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "Enabled:"):
			enabled = strings.TrimSpace(strings.TrimPrefix(line, "Enabled:")) == "yes"
		case strings.HasPrefix(line, "Position:"):
			coords := strings.Split(strings.TrimSpace(strings.TrimPrefix(line, "Position:")), ",")
			if len(coords) == 2 {
				x, _ := strconv.Atoi(coords[0])
				y, _ := strconv.Atoi(coords[1])
				current.X, current.Y = int32(x), int32(y)
			}
		case strings.HasPrefix(line, "Scale:"):
			if s, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "Scale:")), 64); err == nil && s > 0 {
				current.Scale = s
			}
		case strings.Contains(line, " px,") && strings.Contains(line, "current"):
			dims := strings.Split(strings.Fields(line)[0], "x")
			if len(dims) == 2 {
				w, _ := strconv.Atoi(dims[0])
				h, _ := strconv.Atoi(dims[1])
				current.Width, current.Height = int32(w), int32(h)
			}
		}
	}
	flush()

	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors detected from wlr-randr output: %w", ErrNoMonitors)
	}
	determinePrimaryMonitor(monitors)
	return monitors, nil
}
