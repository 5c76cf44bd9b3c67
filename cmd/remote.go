package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/logger"
	"github.com/bnema/inktop/internal/overlay"
	"github.com/bnema/inktop/internal/ui"
)

// remoteCommand describes a one-shot command sent to the running overlay.
type remoteCommand struct {
	use    string
	short  string
	action string
	args   cobra.PositionalArgs
}

var remoteCommands = []remoteCommand{
	{use: "color <name|#rrggbb>", short: "Set the pen color", action: overlay.ActionColor, args: cobra.ExactArgs(1)},
	{use: "width <points>", short: "Set the stroke width", action: overlay.ActionWidth, args: cobra.ExactArgs(1)},
	{use: "pause", short: "Pause or resume drawing", action: overlay.ActionTogglePause, args: cobra.NoArgs},
	{use: "undo", short: "Undo the last stroke on the active display", action: overlay.ActionUndo, args: cobra.NoArgs},
	{use: "redo", short: "Redo the last undone stroke on the active display", action: overlay.ActionRedo, args: cobra.NoArgs},
	{use: "clear", short: "Clear every display", action: overlay.ActionClear, args: cobra.NoArgs},
	{use: "toggle", short: "Show or hide the overlay", action: overlay.ActionToggle, args: cobra.NoArgs},
	{use: "show", short: "Show the overlay", action: overlay.ActionShow, args: cobra.NoArgs},
	{use: "hide", short: "Hide the overlay", action: overlay.ActionHide, args: cobra.NoArgs},
	{use: "refresh", short: "Redraw every display", action: overlay.ActionRefresh, args: cobra.NoArgs},
}

var eraserMode string

var eraserCmd = &cobra.Command{
	Use:   "eraser",
	Short: "Toggle the eraser, or pick its mode with --mode",
	Long: `Toggle the eraser on the running overlay.

With --mode the eraser kind is changed instead:
  stroke  removes whole strokes under the pointer
  pixel   rubs out ink along the pointer path`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if eraserMode != "" {
			return sendAction(overlay.ActionEraserMode, eraserMode)
		}
		return sendAction(overlay.ActionEraser, "")
	},
}

func init() {
	for _, rc := range remoteCommands {
		rootCmd.AddCommand(newRemoteCmd(rc))
	}
	eraserCmd.Flags().StringVar(&eraserMode, "mode", "", "Eraser mode: stroke or pixel")
	rootCmd.AddCommand(eraserCmd)
}

func newRemoteCmd(rc remoteCommand) *cobra.Command {
	return &cobra.Command{
		Use:   rc.use,
		Short: rc.short,
		Args:  rc.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendAction(rc.action, strings.Join(args, " "))
		},
	}
}

func sendAction(action, arg string) error {
	logger.Debugf("Sending %s %s", action, arg)
	info, err := newClient().SendCommand(action, arg)
	if err != nil {
		if errors.Is(err, ipc.ErrNotRunning) {
			return fmt.Errorf("%w, start it with 'inktop run'", err)
		}
		return fmt.Errorf("%s failed: %w", action, err)
	}
	fmt.Println(ui.FormatResult(true, summarize(info)))
	return nil
}

// summarize renders a status snapshot on one line.
func summarize(info *ipc.StatusInfo) string {
	tool := fmt.Sprintf("%s, %g pt", info.Tool, info.Width)
	if !info.EraserEnabled {
		tool = fmt.Sprintf("%s, %s, %g pt", info.Tool, info.Color, info.Width)
	}
	parts := []string{tool}
	if info.Paused {
		parts = append(parts, "paused")
	}
	if info.Visible {
		parts = append(parts, "visible")
	} else {
		parts = append(parts, "hidden")
	}
	for _, s := range info.Surfaces {
		if s.ID == info.Active {
			parts = append(parts, fmt.Sprintf("%s: %d strokes", s.Name, s.Strokes))
		}
	}
	return strings.Join(parts, " | ")
}
