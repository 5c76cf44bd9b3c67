package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/ui"
)

var (
	statusKeys bool
	statusJSON bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the running overlay",
	Long:  `Show the current tool, visibility and per-display history of the running overlay.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newClient().SendStatus()
		if errors.Is(err, ipc.ErrNotRunning) {
			fmt.Println(ui.FormatStatus(false, "InkTop is not running"))
			if statusKeys {
				fmt.Println(shortcutsView())
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get overlay status: %w", err)
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		panel := ui.StatusPanel{Status: info}
		fmt.Println(panel.View())
		if statusKeys {
			fmt.Println(shortcutsView())
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusKeys, "keys", false, "Also list the global keyboard shortcuts")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

func shortcutsView() string {
	h := ui.ControlsHelp{Controls: ui.Shortcuts(config.Get().Hotkeys)}
	return h.View()
}
