package ui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/inktop/internal/logger"
)

// ProgramConfig holds configuration for running a UI program
type ProgramConfig struct {
	AltScreen   bool
	QuitTimeout time.Duration // Wait before killing an unresponsive program
	Input       io.Reader     // Defaults to stdin
	Output      io.Writer     // Defaults to stdout
}

// DefaultProgramConfig returns default configuration
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		AltScreen:   true,
		QuitTimeout: 2 * time.Second,
	}
}

// ProgramRunner manages the lifecycle of a Bubble Tea program
type ProgramRunner struct {
	config  ProgramConfig
	program *tea.Program
}

// NewProgramRunner creates a new program runner
func NewProgramRunner(config ProgramConfig) *ProgramRunner {
	if config.QuitTimeout <= 0 {
		config.QuitTimeout = DefaultProgramConfig().QuitTimeout
	}
	return &ProgramRunner{config: config}
}

// Run starts the program and stops it when ctx is cancelled.
func (r *ProgramRunner) Run(ctx context.Context, model tea.Model) error {
	var opts []tea.ProgramOption
	if r.config.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if r.config.Input != nil {
		opts = append(opts, tea.WithInput(r.config.Input))
	}
	if r.config.Output != nil {
		opts = append(opts, tea.WithOutput(r.config.Output))
	}
	r.program = tea.NewProgram(model, opts...)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.program.Run()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		r.program.Quit()
		select {
		case err := <-errCh:
			return err
		case <-time.After(r.config.QuitTimeout):
			logger.Warn("UI did not quit in time, killing it")
			r.program.Kill()
			<-errCh
			return ctx.Err()
		}
	}
}

// Send sends a message to the running program
func (r *ProgramRunner) Send(msg tea.Msg) {
	if r.program != nil {
		r.program.Send(msg)
	}
}
