package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/ui"
)

var controlInterval time.Duration

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive remote control for the running overlay",
	Long: `Open a terminal UI that shows the overlay state and changes tools with
single keys. Press ? for the full key list.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		model := ui.NewControlModel(newClient(), cfg.Tools.Palette, cfg.Tools.Widths, cfg.Hotkeys, controlInterval)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		err := ui.NewProgramRunner(ui.DefaultProgramConfig()).Run(ctx, model)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	controlCmd.Flags().DurationVar(&controlInterval, "interval", time.Second, "Status refresh interval")
	rootCmd.AddCommand(controlCmd)
}
