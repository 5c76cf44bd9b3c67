package ipc

import (
	"context"
	"time"

	"github.com/bnema/inktop/internal/overlay"
)

// QueueHandler serves IPC requests by posting them to the overlay queue.
type QueueHandler struct {
	Queue   *overlay.Queue
	Timeout time.Duration
}

func (h *QueueHandler) context() (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// HandleCommand parses and applies a tool action.
func (h *QueueHandler) HandleCommand(action, arg string) (*StatusInfo, error) {
	cmd, err := overlay.ParseAction(action, arg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := h.context()
	defer cancel()

	st, err := h.Queue.Do(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return StatusFromOverlay(st), nil
}

// HandleStatus returns the current overlay status.
func (h *QueueHandler) HandleStatus() (*StatusInfo, error) {
	ctx, cancel := h.context()
	defer cancel()

	st, err := h.Queue.Status(ctx)
	if err != nil {
		return nil, err
	}
	return StatusFromOverlay(st), nil
}
