// Package worker applies queued reducer commands one at a time, giving the
// service a single logical thread of control.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/realm/internal/adapters/mq/queue"
	"github.com/okian/realm/internal/domain/realm"
	"github.com/okian/realm/pkg/logger"
	"github.com/okian/realm/pkg/metrics"
)

// Applier applies one action and returns the resulting state.
type Applier interface {
	Apply(ctx context.Context, a realm.Action) (realm.State, error)
}

// Queue defines how the worker receives commands.
type Queue interface {
	Dequeue() <-chan queue.Command
}

// Worker drains a queue through an Applier.
type Worker interface {
	// Run processes commands until ctx ends, Shutdown is called or the
	// queue closes.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for it to exit.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		applier:  applier,
		name:     "dispatcher",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. Once Shutdown is called, commands already
// buffered are still applied. If ctx ends first they are answered with
// ErrStopped instead.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	commands := w.queue.Dequeue()
	for {
		if ctx.Err() != nil {
			w.reject(ctx, commands)
			return
		}
		select {
		case <-ctx.Done():
			w.reject(ctx, commands)
			return
		case <-w.shutdown:
			w.drain(ctx, commands)
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			w.process(ctx, cmd)
		}
	}
}

// drain applies what is buffered without waiting for more.
func (w *InMemoryWorker) drain(ctx context.Context, commands <-chan queue.Command) {
	for {
		if ctx.Err() != nil {
			w.reject(ctx, commands)
			return
		}
		select {
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			w.process(ctx, cmd)
		default:
			return
		}
	}
}

// reject answers every buffered command with ErrStopped.
func (w *InMemoryWorker) reject(ctx context.Context, commands <-chan queue.Command) {
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			w.reply(ctx, cmd, queue.Result{Err: ErrStopped})
		default:
			return
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, cmd queue.Command) {
	start := time.Now()
	state, err := w.applier.Apply(ctx, cmd.Action)

	kind := "nil"
	if cmd.Action != nil {
		kind = string(cmd.Action.Kind())
	}
	if err != nil {
		metrics.RecordActionError(kind)
		w.logger.Debug(ctx, "action rejected", logger.String("kind", kind), logger.Error(err))
	} else {
		metrics.RecordAction(kind, float64(time.Since(start).Microseconds())/1000)
	}

	if !cmd.Enqueued.IsZero() {
		metrics.RecordDispatchWait(float64(time.Since(cmd.Enqueued).Microseconds()) / 1000)
	}
	w.reply(ctx, cmd, queue.Result{State: state, Err: err})
}

func (w *InMemoryWorker) reply(ctx context.Context, cmd queue.Command, res queue.Result) {
	if cmd.Reply == nil {
		return
	}
	select {
	case cmd.Reply <- res:
	default:
		w.logger.Warn(ctx, "reply channel full; result dropped")
	}
}
