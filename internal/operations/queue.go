// file: internal/operations/queue.go
// version: 2.0.0
// guid: 7d6e5f4a-3c2b-1a09-8f7e-6d5c4b3a2190

package operations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ulid "github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/metrics"
)

// ErrQueueClosed is returned by Submit after Shutdown.
var ErrQueueClosed = errors.New("operation queue is shut down")

// OperationFunc is the body of a background operation. It must return
// promptly once ctx is canceled.
type OperationFunc func(ctx context.Context) error

// Operation is a handle on queued or running background work.
type Operation struct {
	ID   string
	Type string

	fn     OperationFunc
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	finished bool
	canceled bool
	err      error
}

// Cancel aborts the operation. Safe to call repeatedly and after the
// operation has finished, in which case it does nothing.
func (op *Operation) Cancel() {
	op.mu.Lock()
	if !op.finished {
		op.canceled = true
	}
	op.mu.Unlock()
	op.cancel()
}

// Done is closed once the operation has finished or was skipped.
func (op *Operation) Done() <-chan struct{} {
	return op.done
}

// Canceled reports whether Cancel was called before the operation finished.
func (op *Operation) Canceled() bool {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.canceled
}

// Err returns the operation's result once Done is closed.
func (op *Operation) Err() error {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.err
}

func (op *Operation) finish(err error) {
	op.mu.Lock()
	op.finished = true
	op.err = err
	op.mu.Unlock()
	op.cancel()
	close(op.done)
}

// Queue runs background operations (network I/O) on a fixed set of workers.
type Queue struct {
	mu         sync.RWMutex
	operations map[string]*Operation
	pending    chan *Operation
	workers    int
	wg         sync.WaitGroup
	submitting sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	closed     bool
	log        zerolog.Logger
}

// NewQueue creates a queue and starts its workers.
func NewQueue(workers, backlog int) *Queue {
	if workers <= 0 {
		workers = 4
	}
	if backlog <= 0 {
		backlog = 256
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		operations: make(map[string]*Operation),
		pending:    make(chan *Operation, backlog),
		workers:    workers,
		ctx:        ctx,
		cancel:     cancel,
		log:        logger.WithComponent("operations"),
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	return q
}

// Submit queues fn and returns its handle immediately.
func (q *Queue) Submit(opType string, fn OperationFunc) (*Operation, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrQueueClosed
	}

	ctx, cancel := context.WithCancel(q.ctx)
	op := &Operation{
		ID:     ulid.Make().String(),
		Type:   opType,
		fn:     fn,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	q.operations[op.ID] = op
	q.submitting.Add(1)
	q.mu.Unlock()
	defer q.submitting.Done()

	select {
	case q.pending <- op:
		q.log.Debug().Str("operation", op.ID).Str("type", opType).Msg("operation enqueued")
		return op, nil
	case <-q.ctx.Done():
		q.forget(op.ID)
		op.finish(context.Canceled)
		return nil, ErrQueueClosed
	}
}

// Cancel cancels an operation by ID.
func (q *Queue) Cancel(id string) error {
	q.mu.RLock()
	op, exists := q.operations[id]
	q.mu.RUnlock()
	if !exists {
		return fmt.Errorf("operation %s not found", id)
	}
	op.Cancel()
	return nil
}

// Active returns the number of queued or running operations.
func (q *Queue) Active() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.operations)
}

func (q *Queue) forget(id string) {
	q.mu.Lock()
	delete(q.operations, id)
	q.mu.Unlock()
}

// worker processes operations from the queue
func (q *Queue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			q.drain()
			return
		case op := <-q.pending:
			q.run(id, op)
		}
	}
}

func (q *Queue) run(worker int, op *Operation) {
	defer q.forget(op.ID)

	if op.ctx.Err() != nil {
		metrics.IncOperationCanceled(op.Type)
		op.finish(op.ctx.Err())
		return
	}

	start := time.Now()
	metrics.IncOperationStarted(op.Type)

	err := op.fn(op.ctx)

	switch {
	case op.Canceled() || errors.Is(err, context.Canceled):
		metrics.IncOperationCanceled(op.Type)
		q.log.Debug().Int("worker", worker).Str("operation", op.ID).Msg("operation canceled")
	case err != nil:
		metrics.IncOperationFailed(op.Type)
		q.log.Debug().Int("worker", worker).Str("operation", op.ID).Err(err).Msg("operation failed")
	default:
		metrics.IncOperationCompleted(op.Type)
	}
	metrics.ObserveOperationDuration(op.Type, time.Since(start))

	op.finish(err)
}

// drain finishes anything still queued at shutdown without running it.
func (q *Queue) drain() {
	for {
		select {
		case op := <-q.pending:
			q.forget(op.ID)
			metrics.IncOperationCanceled(op.Type)
			op.finish(context.Canceled)
		default:
			return
		}
	}
}

// Shutdown cancels every operation and waits for the workers to exit.
func (q *Queue) Shutdown(timeout time.Duration) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	q.cancel()

	// a Submit that passed the closed check may still be enqueueing
	done := make(chan struct{})
	go func() {
		q.submitting.Wait()
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.drain()
		q.log.Debug().Msg("operation queue shut down")
		return nil
	case <-time.After(timeout):
		q.drain()
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
