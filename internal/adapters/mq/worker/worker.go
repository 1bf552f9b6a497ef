// Package worker runs the single writer that applies hobby log mutations in
// arrival order.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/hobbyseeds/internal/adapters/mq/queue"
	"github.com/okian/hobbyseeds/internal/domain/dedupe"
	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/internal/domain/stepup"
	"github.com/okian/hobbyseeds/pkg/logger"
	"github.com/okian/hobbyseeds/pkg/metrics"
)

// ErrUnknownKind is reported for a mutation kind the writer cannot apply.
var ErrUnknownKind = errors.New("worker: unknown mutation kind")

// Book applies mutations to the persisted log.
type Book interface {
	Add(ctx context.Context, hobbyID int, rating model.Rating) (model.HobbyLog, error)
	Delete(ctx context.Context, index int) (model.HobbyLog, error)
	Clear(ctx context.Context) error
}

// Queue defines how the writer receives mutations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Mutation
}

// Writer is the only goroutine that mutates the hobby log.
type Writer struct {
	queue   Queue
	book    Book
	deduper dedupe.Deduper

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWriter creates a writer consuming q and applying mutations to book.
func NewWriter(q Queue, book Book, opts ...Option) *Writer {
	w := &Writer{
		queue:    q,
		book:     book,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named("writer")
	}
	return w
}

// Run applies mutations until the queue is drained and closed, Shutdown is
// called, or ctx is cancelled.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	mutations := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			w.drain(ctx, mutations)
			return
		case m, ok := <-mutations:
			if !ok {
				return
			}
			w.apply(ctx, m)
		}
	}
}

// drain applies what is already queued once the queue has been closed.
func (w *Writer) drain(ctx context.Context, mutations <-chan queue.Mutation) {
	for {
		select {
		case m, ok := <-mutations:
			if !ok {
				return
			}
			w.apply(ctx, m)
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown closes the queue if it can be closed and waits for the writer to
// finish what was queued.
func (w *Writer) Shutdown(ctx context.Context) error {
	if closer, ok := w.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			w.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Writer) apply(ctx context.Context, m queue.Mutation) {
	start := time.Now()
	defer func() {
		metrics.RecordWriterLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var (
		l   model.HobbyLog
		err error
	)
	switch m.Kind {
	case queue.KindAppend:
		l, err = w.book.Add(ctx, m.HobbyID, m.Rating)
	case queue.KindDelete:
		l, err = w.book.Delete(ctx, m.Index)
	case queue.KindClear:
		err = w.book.Clear(ctx)
		l = model.EmptyLog()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}

	if err != nil {
		metrics.RecordLogMutation(string(m.Kind), "error")
		if m.RequestID != "" && w.deduper != nil {
			w.deduper.Unrecord(ctx, m.RequestID)
		}
		w.logger.Error(ctx, "mutation failed",
			logger.String("kind", string(m.Kind)),
			logger.String("requestId", m.RequestID),
			logger.Error(err))
	} else {
		metrics.RecordLogMutation(string(m.Kind), "ok")
		metrics.UpdateLogState(len(l.Entries), l.GreatCount, stepup.IsUnlocked(l.GreatCount))
	}

	if m.Reply != nil {
		select {
		case m.Reply <- queue.Result{Log: l, Err: err}:
		default:
			w.logger.Warn(ctx, "reply dropped", logger.String("kind", string(m.Kind)))
		}
	}
}
