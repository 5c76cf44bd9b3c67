package overlay

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/bnema/inktop/internal/display"
	"github.com/bnema/inktop/internal/logger"
)

// ErrQueueClosed is returned by Post after Close.
var ErrQueueClosed = errors.New("command queue closed")

// DefaultQueueSize buffers a burst of pointer motion.
const DefaultQueueSize = 256

// View is the window layer. Present receives a frame the view may keep.
type View interface {
	SurfaceAdded(m display.Monitor)
	SurfaceRemoved(id string)
	SetVisible(id string, visible bool)
	Present(id string, frame *image.RGBA)
}

// Queue is the single-consumer command queue in front of a coordinator.
// Any goroutine may Post; only Run touches overlay state.
type Queue struct {
	ch        chan Command
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue returns a queue buffering size commands.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:   make(chan Command, size),
		done: make(chan struct{}),
	}
}

// Post enqueues cmd, blocking until it is accepted, ctx is done or the
// queue is closed.
func (q *Queue) Post(ctx context.Context, cmd Command) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- cmd:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status asks the loop for a snapshot.
func (q *Queue) Status(ctx context.Context) (Status, error) {
	return q.Do(ctx, Command{Kind: KindStatus})
}

// Do posts cmd and waits for it to be applied, returning the status after.
func (q *Queue) Do(ctx context.Context, cmd Command) (Status, error) {
	reply := make(chan Status, 1)
	cmd.Reply = reply
	if err := q.Post(ctx, cmd); err != nil {
		return Status{}, err
	}
	select {
	case st := <-reply:
		return st, nil
	case <-q.done:
		return Status{}, ErrQueueClosed
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Close stops accepting commands and ends Run.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Run applies commands in arrival order until ctx is done or the queue is
// closed. Redisplay requests raised while a burst of queued commands is
// drained are collected and every affected surface is presented once.
func (q *Queue) Run(ctx context.Context, coord *Coordinator, view View) error {
	b := newBatcher(view)
	coord.SetPresenter(b)
	defer coord.SetPresenter(nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return nil
		case cmd := <-q.ch:
			q.apply(coord, cmd)
		drain:
			for {
				select {
				case cmd := <-q.ch:
					q.apply(coord, cmd)
				default:
					break drain
				}
			}
			b.flush(coord)
		}
	}
}

func (q *Queue) apply(coord *Coordinator, cmd Command) {
	if err := coord.Apply(cmd); err != nil {
		logger.Warn("Command rejected", "kind", cmd.Kind, "error", err)
	}
}

// batcher forwards lifecycle calls to the view immediately and defers
// redisplays until flush.
type batcher struct {
	view    View
	pending []string
	queued  map[string]bool
}

func newBatcher(view View) *batcher {
	return &batcher{view: view, queued: make(map[string]bool)}
}

func (b *batcher) SurfaceAdded(m display.Monitor) {
	b.view.SurfaceAdded(m)
}

func (b *batcher) SurfaceRemoved(id string) {
	delete(b.queued, id)
	b.view.SurfaceRemoved(id)
}

func (b *batcher) SetVisible(id string, visible bool) {
	b.view.SetVisible(id, visible)
}

func (b *batcher) NeedsRedisplay(id string) {
	if b.queued[id] {
		return
	}
	b.queued[id] = true
	b.pending = append(b.pending, id)
}

func (b *batcher) flush(coord *Coordinator) {
	for _, id := range b.pending {
		if !b.queued[id] {
			continue
		}
		delete(b.queued, id)
		if frame := coord.CompositedFrame(id); frame != nil {
			b.view.Present(id, frame)
		}
	}
	b.pending = b.pending[:0]
}
