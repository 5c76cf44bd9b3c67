package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/logger"
	"github.com/bnema/inktop/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage InkTop configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		logger.Info("Current Configuration:")
		logger.Infof("Config file: %s\n", config.GetConfigPath())

		logger.Info("[Tools]")
		logger.Infof("  Color: %s", cfg.Tools.Color)
		logger.Infof("  Width: %g", cfg.Tools.Width)
		logger.Infof("  Eraser Mode: %s", cfg.Tools.EraserMode)
		logger.Infof("  Palette: %s", strings.Join(cfg.Tools.Palette, ", "))
		logger.Infof("  Widths: %v", cfg.Tools.Widths)
		logger.Infof("  Pixel Eraser Factor: %g", cfg.Tools.PixelEraserFactor)
		logger.Infof("  Hit Threshold: %g", cfg.Tools.HitThreshold)

		logger.Info("\n[Overlay]")
		logger.Infof("  Default Scale: %g", cfg.Overlay.DefaultScale)
		logger.Infof("  Max Surface Pixels: %d", cfg.Overlay.MaxSurfacePixels)
		logger.Infof("  Fullscreen: %v", cfg.Overlay.Fullscreen)
		logger.Infof("  Start Visible: %v", cfg.Overlay.StartVisible)

		logger.Info("\n[Display]")
		logger.Infof("  Backend: %s", cfg.Display.Backend)
		logger.Infof("  Poll Interval: %d seconds", cfg.Display.PollInterval)
		for _, m := range cfg.Display.Static {
			logger.Infof("  Static: %s %dx%d+%d+%d@%g", m.Name, m.Width, m.Height, m.X, m.Y, m.Scale)
		}

		logger.Info("\n[IPC]")
		logger.Infof("  Socket: %s", cfg.IPC.SocketPath)

		logger.Info("\n[Logging]")
		logger.Infof("  File Logging: %v", cfg.Logging.FileLogging)
		logger.Infof("  Log Level: %s", cfg.Logging.LogLevel)

		logger.Info("\n[Hotkeys]")
		for _, c := range ui.Shortcuts(cfg.Hotkeys) {
			logger.Infof("  %s: %s", c.Key, c.Desc)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				logger.Infof("Configuration file already exists at: %s", configPath)
				logger.Info("Use --force to overwrite")
				return nil
			}
		}

		c := *config.Get()
		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
			if err := runConfigForm(&c); err != nil {
				return err
			}
		}
		c.Validate()
		config.Set(&c)

		if err := config.Save(); err != nil {
			return err
		}

		logger.Infof("Configuration initialized at: %s", configPath)
		logger.Info("\nYou can now:")
		logger.Info("  - Edit the configuration file directly")
		logger.Info("  - Use 'inktop config show' to view current settings")
		logger.Info("  - Start the overlay with 'inktop run'")
		return nil
	},
}

// runConfigForm asks for the common settings.
func runConfigForm(c *config.Config) error {
	colorOptions := make([]huh.Option[string], len(c.Tools.Palette))
	for i, name := range c.Tools.Palette {
		colorOptions[i] = huh.NewOption(name, name)
	}
	widthOptions := make([]huh.Option[float64], len(c.Tools.Widths))
	for i, w := range c.Tools.Widths {
		widthOptions[i] = huh.NewOption(strconv.FormatFloat(w, 'g', -1, 64)+" pt", w)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pen color").
				Options(colorOptions...).
				Value(&c.Tools.Color),
			huh.NewSelect[float64]().
				Title("Stroke width").
				Options(widthOptions...).
				Value(&c.Tools.Width),
			huh.NewSelect[string]().
				Title("Eraser mode").
				Options(
					huh.NewOption("Stroke - remove whole strokes", "stroke"),
					huh.NewOption("Pixel - rub out ink", "pixel"),
				).
				Value(&c.Tools.EraserMode),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display detection").
				Options(
					huh.NewOption("Automatic", "auto"),
					huh.NewOption("wlr-randr", "wlr-randr"),
					huh.NewOption("Static layout from the config file", "static"),
				).
				Value(&c.Display.Backend),
			huh.NewConfirm().
				Title("Open surfaces fullscreen?").
				Value(&c.Overlay.Fullscreen),
			huh.NewConfirm().
				Title("Show the overlay on start?").
				Value(&c.Overlay.StartVisible),
			huh.NewConfirm().
				Title("Write a log file?").
				Value(&c.Logging.FileLogging),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("configuration cancelled: %w", err)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "Force overwrite existing configuration")
	configInitCmd.Flags().BoolP("interactive", "i", false, "Choose settings interactively")

	rootCmd.AddCommand(configCmd)
}
