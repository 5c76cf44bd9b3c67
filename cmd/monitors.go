package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/ui"
)

// DisplayInfo represents the display information output
type DisplayInfo struct {
	Monitors []MonitorInfo `json:"monitors"`
	Error    string        `json:"error,omitempty"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	X       int32   `json:"x"`
	Y       int32   `json:"y"`
	Width   int32   `json:"width"`
	Height  int32   `json:"height"`
	Primary bool    `json:"primary"`
	Scale   float64 `json:"scale"`
}

var jsonOutput bool

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "Show the detected displays",
	Long:  `Show the displays InkTop would open a drawing surface on.`,
	Args:  cobra.NoArgs,
	RunE:  runMonitors,
}

func init() {
	monitorsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddCommand(monitorsCmd)
}

func runMonitors(cmd *cobra.Command, args []string) error {
	disp, err := openDisplay(config.Get())
	if err != nil {
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(DisplayInfo{Error: err.Error()})
		}
		return fmt.Errorf("failed to initialize display detection: %w", err)
	}
	defer disp.Close()

	monitors := disp.GetMonitors()

	if jsonOutput {
		info := DisplayInfo{Monitors: make([]MonitorInfo, len(monitors))}
		for i, mon := range monitors {
			info.Monitors[i] = MonitorInfo{
				ID:      mon.ID,
				Name:    mon.Name,
				X:       mon.X,
				Y:       mon.Y,
				Width:   mon.Width,
				Height:  mon.Height,
				Primary: mon.Primary,
				Scale:   mon.Scale,
			}
		}
		return json.NewEncoder(os.Stdout).Encode(info)
	}

	if len(monitors) == 0 {
		fmt.Println("No monitors detected")
		return nil
	}
	view := ui.MonitorInfo{Monitors: monitors}
	fmt.Println(view.View())
	return nil
}
