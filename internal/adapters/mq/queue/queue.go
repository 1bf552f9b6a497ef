// Package queue carries hobby log mutations to the single log writer.
package queue

import (
	"context"
	"sync"

	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/pkg/metrics"
)

const defaultCapacity = 256

// Kind names a log mutation.
type Kind string

// Mutation kinds.
const (
	KindAppend Kind = "append"
	KindDelete Kind = "delete"
	KindClear  Kind = "clear"
)

// Result is what the writer reports back for one mutation.
type Result struct {
	Log model.HobbyLog
	Err error
}

// Mutation is one requested change to the hobby log. Reply, when set, must
// have room for one Result.
type Mutation struct {
	Kind      Kind
	HobbyID   int
	Rating    model.Rating
	Index     int
	RequestID string
	Reply     chan Result
}

// NewMutation creates a mutation with a reply channel ready to receive.
func NewMutation(kind Kind) Mutation {
	return Mutation{Kind: kind, Reply: make(chan Result, 1)}
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue returns false if the queue is full or closed.
	Enqueue(ctx context.Context, m Mutation) bool
	// Dequeue returns a channel closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Mutation
	Len(ctx context.Context) int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	mutations chan Mutation
	capacity  int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.mutations = make(chan Mutation, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a mutation without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, m Mutation) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed || ctx.Err() != nil {
		return false
	}

	select {
	case q.mutations <- m:
		metrics.UpdateQueueSize(len(q.mutations))
		return true
	default:
		metrics.RecordQueueRejected()
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Mutation {
	out := make(chan Mutation)
	go func() {
		defer close(out)
		for m := range q.mutations {
			metrics.UpdateQueueSize(len(q.mutations))
			select {
			case out <- m:
			case <-ctx.Done():
				reject(m)
				q.rejectBuffered()
				return
			}
		}
	}()
	return out
}

// rejectBuffered fails every mutation still buffered with ErrStopped.
func (q *InMemoryQueue) rejectBuffered() {
	for {
		select {
		case m, ok := <-q.mutations:
			if !ok {
				return
			}
			reject(m)
		default:
			metrics.UpdateQueueSize(0)
			return
		}
	}
}

func reject(m Mutation) {
	if m.Reply == nil {
		return
	}
	select {
	case m.Reply <- Result{Err: ErrStopped}:
	default:
	}
}

// Len returns the number of queued mutations.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.mutations)
}

// Close stops accepting mutations. Queued ones are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.mutations)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
