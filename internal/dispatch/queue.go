// file: internal/dispatch/queue.go
// version: 1.0.0
// guid: ef939ecb-bc7b-41eb-927f-3c380bae2e24

// Package dispatch provides the single front-end execution context. Screen
// state is only ever mutated by funcs running on a Queue.
package dispatch

import (
	"sync"
)

// Dispatcher runs funcs on the front-end context, in submission order.
type Dispatcher interface {
	Dispatch(fn func()) bool
}

// Queue is a serial executor backed by one goroutine. Dispatch never blocks,
// so background completions can always hand work back.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	closed  bool
	done    chan struct{}
}

// NewQueue starts the queue goroutine.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Dispatch enqueues fn. It returns false once the queue is closed.
func (q *Queue) Dispatch(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Sync runs fn on the queue and waits for it. Must not be called from a func
// already running on the queue.
func (q *Queue) Sync(fn func()) bool {
	ran := make(chan struct{})
	if !q.Dispatch(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-q.done:
		// closed after fn was queued; it still ran if it was drained
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

// Close stops accepting work, runs what is already queued, and waits for the
// goroutine to exit. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}
