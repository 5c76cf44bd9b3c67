package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/ink"
	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/surface"
)

// Helper function to execute cobra commands in tests
func executeCommand(root *cobra.Command, args ...string) error {
	root.SetArgs(args)
	return root.Execute()
}

// testConfig writes a config file pointing the control socket at a fresh
// directory and returns the config and socket paths.
func testConfig(t *testing.T) (cfgPath, sock string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "inktop-cmd")
	require.NoError(t, err)
	t.Cleanup(func() {
		os.RemoveAll(dir)
		viper.Reset()
		config.Set(nil)
		config.SetConfigPath("")
		configFile = ""
	})

	sock = filepath.Join(dir, "s.sock")
	cfgPath = filepath.Join(dir, "inktop.toml")
	contents := fmt.Sprintf("[ipc]\nsocket_path = %q\n", sock)
	require.NoError(t, os.WriteFile(cfgPath, []byte(contents), 0644))
	viper.Reset()
	return cfgPath, sock
}

type recordingHandler struct {
	mu       sync.Mutex
	commands [][2]string
}

func (h *recordingHandler) HandleCommand(action, arg string) (*ipc.StatusInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = append(h.commands, [2]string{action, arg})
	return &ipc.StatusInfo{Color: "blue", Width: 3, Tool: "pen", Visible: true}, nil
}

func (h *recordingHandler) HandleStatus() (*ipc.StatusInfo, error) {
	return &ipc.StatusInfo{Color: "red", Width: 3, Tool: "pen", EraserMode: "stroke"}, nil
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inktop.toml")
	t.Cleanup(func() {
		viper.Reset()
		config.Set(nil)
		config.SetConfigPath("")
		configFile = ""
	})

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		viper.Reset()
		require.NoError(t, executeCommand(rootCmd, "--config", path, "config", "init"))
		_, err := os.Stat(path)
		assert.NoError(t, err, "config file was not created")
	})

	t.Run("keeps existing config without force", func(t *testing.T) {
		viper.Reset()
		require.NoError(t, os.WriteFile(path, []byte("[tools]\ncolor = \"blue\"\n"), 0644))
		require.NoError(t, executeCommand(rootCmd, "--config", path, "config", "init"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[tools]\ncolor = \"blue\"\n", string(content))
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		viper.Reset()
		require.NoError(t, executeCommand(rootCmd, "--config", path, "config", "init", "--force"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "socket_path")
		assert.Contains(t, string(content), "blue", "values from the existing file are kept")
	})
}

func TestConfigShowAndPath(t *testing.T) {
	cfgPath, _ := testConfig(t)

	assert.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "config", "show"))
	assert.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "config", "path"))
	assert.Equal(t, cfgPath, config.GetConfigPath())
}

func TestRemoteCommandsNeedRunningOverlay(t *testing.T) {
	cfgPath, _ := testConfig(t)

	err := executeCommand(rootCmd, "--config", cfgPath, "undo")
	require.Error(t, err)
	assert.ErrorIs(t, err, ipc.ErrNotRunning)

	assert.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "status"), "status reports a stopped overlay without failing")
}

func TestRemoteCommandsReachOverlay(t *testing.T) {
	cfgPath, sock := testConfig(t)
	h := &recordingHandler{}
	srv := ipc.NewSocketServer(sock, h)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	require.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "color", "blue"))
	require.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "width", "8"))
	require.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "eraser", "--mode", "pixel"))
	require.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "clear"))
	require.NoError(t, executeCommand(rootCmd, "--config", cfgPath, "status", "--keys"))

	assert.Error(t, executeCommand(rootCmd, "--config", cfgPath, "color"), "color needs an argument")

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, [][2]string{
		{"color", "blue"},
		{"width", "8"},
		{"eraser_mode", "pixel"},
		{"clear", ""},
	}, h.commands)
}

func TestToolSettings(t *testing.T) {
	s, err := toolSettings(config.ToolsConfig{Color: "#00ff00", Width: 7, EraserMode: "pixel"})
	require.NoError(t, err)
	assert.Equal(t, ink.Green, s.Color)
	assert.Equal(t, 7.0, s.Width)
	assert.Equal(t, surface.EraserPixel, s.EraserMode)
	assert.False(t, s.EraserEnabled)

	_, err = toolSettings(config.ToolsConfig{Color: "mauve", Width: 3, EraserMode: "stroke"})
	assert.Error(t, err)
}

func TestStaticMonitors(t *testing.T) {
	cfg := config.DefaultConfig
	ms := staticMonitors(&cfg)
	require.Len(t, ms, 1)
	assert.Equal(t, "default", ms[0].ID)

	cfg.Display.Static = []config.StaticMonitor{{Name: "HDMI-A-1", Width: 1920, Height: 1080, Scale: 1}}
	ms = staticMonitors(&cfg)
	require.Len(t, ms, 1)
	assert.Equal(t, "HDMI-A-1", ms[0].ID, "name doubles as id")

	values := monitorValues(ms)
	values[0].Width = 1
	assert.Equal(t, int32(1920), ms[0].Width, "values are copies")
}

func TestSummarize(t *testing.T) {
	info := &ipc.StatusInfo{
		Tool: "pen", Color: "red", Width: 3, Visible: true, Active: "DP-1",
		Surfaces: []ipc.SurfaceInfo{{ID: "DP-1", Name: "DP-1", Strokes: 2}, {ID: "DP-2", Name: "DP-2"}},
	}
	assert.Equal(t, "pen, red, 3 pt | visible | DP-1: 2 strokes", summarize(info))

	info = &ipc.StatusInfo{Tool: "pixel eraser", EraserEnabled: true, Width: 3, Paused: true}
	assert.Equal(t, "pixel eraser, 3 pt | paused | hidden", summarize(info))
}
