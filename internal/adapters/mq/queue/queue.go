// Package queue carries reducer commands from callers to the single worker
// that applies them.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/realm/internal/domain/realm"
	"github.com/okian/realm/pkg/metrics"
)

const defaultCapacity = 1024

// Result is what the worker sends back for a command.
type Result struct {
	State realm.State
	Err   error
}

// Command is one action waiting to be applied. Reply must have room for one
// value so the worker never blocks on a caller that gave up.
type Command struct {
	Action   realm.Action
	Enqueued time.Time
	Reply    chan Result
}

// NewCommand wraps a with a fresh one-slot reply channel.
func NewCommand(a realm.Action) Command {
	return Command{Action: a, Enqueued: time.Now(), Reply: make(chan Result, 1)}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds cmd. Returns ErrFull, ErrClosed or the context error when
	// cmd was not accepted.
	Enqueue(ctx context.Context, cmd Command) error

	// Dequeue returns the channel commands arrive on. It is closed by Close.
	Dequeue() <-chan Command

	// Len returns the number of waiting commands.
	Len() int

	// Close stops accepting commands and closes the dequeue channel.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	commands chan Command
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.commands = make(chan Command, q.capacity)
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds cmd without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, cmd Command) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected("context_cancelled")
		return err
	}

	select {
	case q.commands <- cmd:
		metrics.UpdateQueueSize(len(q.commands))
		return nil
	default:
		metrics.RecordQueueRejected("full")
		return ErrFull
	}
}

// Dequeue returns the command channel.
func (q *InMemoryQueue) Dequeue() <-chan Command {
	return q.commands
}

// Len returns the number of waiting commands.
func (q *InMemoryQueue) Len() int {
	n := len(q.commands)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops the queue. Safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.commands)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
