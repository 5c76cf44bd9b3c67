package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"github.com/bnema/inktop/internal/config"
	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/hotkey"
	"github.com/bnema/inktop/internal/ipc"
	"github.com/bnema/inktop/internal/logger"
	"github.com/bnema/inktop/internal/overlay"
	"github.com/bnema/inktop/internal/ui"
	"github.com/bnema/inktop/internal/view"
)

const appID = "io.github.bnema.inktop"

var (
	runFullscreen bool
	runHidden     bool
	runNoHotkeys  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the drawing overlay",
	Long: `Start the drawing overlay: one surface per display, the tray menu, the
global hotkeys and the control socket used by the other inktop commands.`,
	RunE: runOverlay,
}

func init() {
	runCmd.Flags().BoolVar(&runFullscreen, "fullscreen", false, "Open surfaces fullscreen (overrides overlay.fullscreen)")
	runCmd.Flags().BoolVar(&runHidden, "hidden", false, "Start with the overlay hidden (overrides overlay.start_visible)")
	runCmd.Flags().BoolVar(&runNoHotkeys, "no-hotkeys", false, "Do not register global hotkeys")
	rootCmd.AddCommand(runCmd)
}

func runOverlay(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cmd.Flags().Changed("fullscreen") {
		cfg.Overlay.Fullscreen = runFullscreen
	}
	startVisible := cfg.Overlay.StartVisible
	if cmd.Flags().Changed("hidden") {
		startVisible = !runHidden
	}

	settings, err := toolSettings(cfg.Tools)
	if err != nil {
		return err
	}

	if newClient().IsRunning() {
		return fmt.Errorf("inktop is already running (socket %s)", cfg.IPC.SocketPath)
	}

	disp, err := openDisplay(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize display detection: %w", err)
	}
	defer disp.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	queue := overlay.NewQueue(0)
	coord := overlay.NewCoordinator(settings, nil, overlayOptions(cfg))

	post := func(c overlay.Command) {
		if err := queue.Post(ctx, c); err != nil && !errors.Is(err, overlay.ErrQueueClosed) && ctx.Err() == nil {
			logger.Warnf("Dropped %s: %v", c.Kind, err)
		}
	}

	a := app.NewWithID(appID)
	var ov *view.Overlay
	dispatch := func(action string) {
		if action == overlay.ActionQuit {
			logger.Info("Quit requested")
			cancel()
			return
		}
		c, err := overlay.ParseAction(action, "")
		if err != nil {
			logger.Warnf("Ignoring action %q: %v", action, err)
			return
		}
		// Tray and hotkey callbacks must not block on the loop.
		go func() {
			st, err := queue.Do(ctx, c)
			if err != nil {
				logger.Debugf("Action %s not applied: %v", action, err)
				return
			}
			ov.SyncStatus(st)
		}()
	}

	ov = view.New(a, view.Options{
		Fullscreen:   cfg.Overlay.Fullscreen,
		DefaultScale: cfg.Overlay.DefaultScale,
		Palette:      cfg.Tools.Palette,
		Widths:       cfg.Tools.Widths,
		Shortcuts:    ui.ShortcutsText(cfg.Hotkeys),
		Post:         post,
		Dispatch:     dispatch,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := queue.Run(ctx, coord, ov); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("Overlay loop stopped: %v", err)
		}
	}()

	monitors := disp.GetMonitors()
	for _, m := range monitors {
		logger.Infof("Display %s", m)
	}
	post(overlay.Command{Kind: overlay.KindDisplaysChanged, Displays: monitorValues(monitors)})
	if startVisible {
		post(overlay.Command{Kind: overlay.KindShow})
	}
	if st, err := queue.Status(ctx); err == nil {
		ov.SyncStatus(st)
	}

	if interval := time.Duration(cfg.Display.PollInterval) * time.Second; interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			disp.Watch(ctx, interval, func(ms []*display.Monitor) {
				post(overlay.Command{Kind: overlay.KindDisplaysChanged, Displays: monitorValues(ms)})
			})
		}()
	}

	srv := ipc.NewSocketServer(cfg.IPC.SocketPath, &ipc.QueueHandler{Queue: queue})
	if err := srv.Start(); err != nil {
		cancel()
		wg.Wait()
		return fmt.Errorf("failed to start control socket: %w", err)
	}
	defer srv.Stop()

	if !runNoHotkeys {
		keys := hotkey.NewManager(dispatch)
		if err := keys.Register(cfg.Hotkeys); err != nil {
			logger.Warnf("Some hotkeys are unavailable: %v", err)
		}
		logger.Debugf("Registered %d hotkey(s)", keys.Count())
		defer keys.Unregister()
	}

	go func() {
		<-ctx.Done()
		queue.Close()
		ov.CloseAll()
		fyne.Do(a.Quit)
	}()

	logger.Infof("InkTop running, control socket %s", cfg.IPC.SocketPath)
	a.Run()

	cancel()
	wg.Wait()
	logger.Info("InkTop stopped")
	return nil
}
