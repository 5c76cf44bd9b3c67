// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Tools   ToolsConfig       `mapstructure:"tools"`
	Overlay OverlayConfig     `mapstructure:"overlay"`
	Display DisplayConfig     `mapstructure:"display"`
	Hotkeys map[string]string `mapstructure:"hotkeys"`
	IPC     IPCConfig         `mapstructure:"ipc"`
	Logging LoggingConfig     `mapstructure:"logging"`
}

// ToolsConfig holds the initial drawing tool and the menu choices.
type ToolsConfig struct {
	Color             string    `mapstructure:"color"` // Palette name or #rrggbb[aa]
	Width             float64   `mapstructure:"width"`
	EraserMode        string    `mapstructure:"eraser_mode"` // stroke or pixel
	Palette           []string  `mapstructure:"palette"`
	Widths            []float64 `mapstructure:"widths"`
	PixelEraserFactor float64   `mapstructure:"pixel_eraser_factor"`
	HitThreshold      float64   `mapstructure:"hit_threshold"`
}

// OverlayConfig controls the surfaces.
type OverlayConfig struct {
	DefaultScale     float64 `mapstructure:"default_scale"`      // Used when a display reports no scale
	MaxSurfacePixels int     `mapstructure:"max_surface_pixels"` // Per-surface buffer ceiling
	Fullscreen       bool    `mapstructure:"fullscreen"`
	StartVisible     bool    `mapstructure:"start_visible"`
}

// DisplayConfig selects how displays are detected.
type DisplayConfig struct {
	Backend      string          `mapstructure:"backend"`       // auto, wlr-randr or static
	PollInterval int             `mapstructure:"poll_interval"` // Seconds, 0 disables polling
	Static       []StaticMonitor `mapstructure:"static"`
}

// StaticMonitor describes a display for the static backend.
type StaticMonitor struct {
	ID      string  `mapstructure:"id"`
	Name    string  `mapstructure:"name"`
	X       int32   `mapstructure:"x"`
	Y       int32   `mapstructure:"y"`
	Width   int32   `mapstructure:"width"`
	Height  int32   `mapstructure:"height"`
	Scale   float64 `mapstructure:"scale"`
	Primary bool    `mapstructure:"primary"`
}

// IPCConfig contains the control socket settings
type IPCConfig struct {
	SocketPath string `mapstructure:"socket_path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	FileLogging bool   `mapstructure:"file_logging"` // Enable/disable file logging
	LogLevel    string `mapstructure:"log_level"`    // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Tools: ToolsConfig{
			Color:             "red",
			Width:             3,
			EraserMode:        "stroke",
			Palette:           []string{"red", "blue", "green", "yellow", "black", "white", "orange", "purple"},
			Widths:            []float64{1, 2, 3, 5, 8, 12, 16, 20},
			PixelEraserFactor: 2,
			HitThreshold:      10,
		},
		Overlay: OverlayConfig{
			DefaultScale:     2.0,
			MaxSurfacePixels: 8192 * 8192,
			Fullscreen:       true,
			StartVisible:     false,
		},
		Display: DisplayConfig{
			Backend:      "auto",
			PollInterval: 5,
		},
		Hotkeys: DefaultHotkeys(),
		IPC: IPCConfig{
			SocketPath: DefaultSocketPath(),
		},
		Logging: LoggingConfig{
			FileLogging: false,
			LogLevel:    "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// DefaultHotkeys mirrors the classic InkTop shortcuts.
func DefaultHotkeys() map[string]string {
	return map[string]string{
		"ctrl+shift+d": "toggle_pause",
		"ctrl+shift+c": "clear",
		"ctrl+shift+o": "toggle",
		"ctrl+shift+1": "color:red",
		"ctrl+shift+2": "color:blue",
		"ctrl+shift+3": "color:green",
		"ctrl+shift+4": "color:yellow",
		"ctrl+z":       "undo",
		"ctrl+shift+z": "redo",
		"escape":       "quit",
	}
}

// DefaultSocketPath returns the per-user control socket path.
func DefaultSocketPath() string {
	name := "user"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("inktop-%s.sock", name))
}

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("inktop")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "inktop"))
		}
		viper.AddConfigPath(".")
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist yet is not an error either.
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	c.Validate()
	cfg = c
	return nil
}

// setDefaults registers individual keys so partial files merge properly.
func setDefaults() {
	setKeys(viper.SetDefault, DefaultConfig)
}

func setKeys(set func(key string, value any), c Config) {
	set("tools.color", c.Tools.Color)
	set("tools.width", c.Tools.Width)
	set("tools.eraser_mode", c.Tools.EraserMode)
	set("tools.palette", c.Tools.Palette)
	set("tools.widths", c.Tools.Widths)
	set("tools.pixel_eraser_factor", c.Tools.PixelEraserFactor)
	set("tools.hit_threshold", c.Tools.HitThreshold)

	set("overlay.default_scale", c.Overlay.DefaultScale)
	set("overlay.max_surface_pixels", c.Overlay.MaxSurfacePixels)
	set("overlay.fullscreen", c.Overlay.Fullscreen)
	set("overlay.start_visible", c.Overlay.StartVisible)

	set("display.backend", c.Display.Backend)
	set("display.poll_interval", c.Display.PollInterval)
	if len(c.Display.Static) > 0 {
		static := make([]map[string]any, len(c.Display.Static))
		for i, m := range c.Display.Static {
			static[i] = map[string]any{
				"id": m.ID, "name": m.Name,
				"x": m.X, "y": m.Y, "width": m.Width, "height": m.Height,
				"scale": m.Scale, "primary": m.Primary,
			}
		}
		set("display.static", static)
	}

	set("hotkeys", c.Hotkeys)

	set("ipc.socket_path", c.IPC.SocketPath)

	set("logging.file_logging", c.Logging.FileLogging)
	set("logging.log_level", c.Logging.LogLevel)
}

// Validate replaces values the overlay cannot use with their defaults.
func (c *Config) Validate() {
	d := DefaultConfig

	if c.Tools.Color == "" {
		c.Tools.Color = d.Tools.Color
	}
	if c.Tools.Width <= 0 {
		c.Tools.Width = d.Tools.Width
	}
	switch strings.ToLower(c.Tools.EraserMode) {
	case "stroke", "pixel":
		c.Tools.EraserMode = strings.ToLower(c.Tools.EraserMode)
	default:
		c.Tools.EraserMode = d.Tools.EraserMode
	}
	if len(c.Tools.Palette) == 0 {
		c.Tools.Palette = slices.Clone(d.Tools.Palette)
	}
	c.Tools.Widths = slices.DeleteFunc(c.Tools.Widths, func(w float64) bool { return w <= 0 })
	if len(c.Tools.Widths) == 0 {
		c.Tools.Widths = slices.Clone(d.Tools.Widths)
	}
	if c.Tools.PixelEraserFactor <= 0 {
		c.Tools.PixelEraserFactor = d.Tools.PixelEraserFactor
	}
	if c.Tools.HitThreshold <= 0 {
		c.Tools.HitThreshold = d.Tools.HitThreshold
	}

	if c.Overlay.DefaultScale <= 0 {
		c.Overlay.DefaultScale = d.Overlay.DefaultScale
	}
	if c.Overlay.MaxSurfacePixels <= 0 {
		c.Overlay.MaxSurfacePixels = d.Overlay.MaxSurfacePixels
	}

	switch c.Display.Backend {
	case "auto", "wlr-randr", "static":
	default:
		c.Display.Backend = d.Display.Backend
	}
	if c.Display.PollInterval < 0 {
		c.Display.PollInterval = 0
	}

	if c.Hotkeys == nil {
		c.Hotkeys = DefaultHotkeys()
	}
	if c.IPC.SocketPath == "" {
		c.IPC.SocketPath = d.IPC.SocketPath
	}
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save writes the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	setKeys(viper.Set, *Get())

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "inktop.toml"
	}
	return filepath.Join(home, ".config", "inktop", "inktop.toml")
}

// LogFilePath returns where file logging writes.
func LogFilePath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "inktop", "inktop.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "inktop.log")
	}
	return filepath.Join(home, ".local", "state", "inktop", "inktop.log")
}
