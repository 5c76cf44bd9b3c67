package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/logger"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configFile string

	rootCmd = &cobra.Command{
		Use:   "inktop",
		Short: "InkTop - draw on top of your screens",
		Long: `InkTop is a screen annotation overlay. It opens one transparent drawing
surface per display and lets you sketch over anything with a pen or an eraser.

Start the overlay with 'inktop run', then drive it from the tray menu, the
global hotkeys or the remote commands (inktop color red, inktop undo, ...).`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	defer logger.Close()
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.config/inktop/inktop.toml)")
}

func initConfig(cmd *cobra.Command, args []string) error {
	config.SetConfigPath(configFile)
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg := config.Get()
	if cfg.Logging.LogLevel != "" {
		if err := logger.SetLevel(cfg.Logging.LogLevel); err != nil {
			logger.Warnf("Ignoring log level: %v", err)
		}
	}
	if cfg.Logging.FileLogging {
		if err := logger.EnableFileLogging(config.LogFilePath()); err != nil {
			logger.Warnf("File logging disabled: %v", err)
		}
	}
	return nil
}
