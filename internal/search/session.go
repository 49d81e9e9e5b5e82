// file: internal/search/session.go
// version: 1.0.0
// guid: 47618eb3-d830-4cd4-8f6f-d35c2f193b56

// Package search runs volume queries for a results screen. A Session owns
// at most one live query; submitting a new one cancels the old one, and any
// result that still arrives for an older generation is discarded.
package search

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/booksapi"
	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/fetch"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/metrics"
	"github.com/jdfalk/library-proto/internal/operations"
)

var (
	// ErrSuperseded is returned by Wait when a newer submit or a Cancel
	// replaced the awaited generation.
	ErrSuperseded = errors.New("search superseded by a newer query")
	// ErrClosed is returned once the session has been closed.
	ErrClosed = errors.New("search session closed")
)

// Searcher retrieves the raw volume payload for a query.
type Searcher interface {
	Fetch(ctx context.Context, text string) ([]byte, error)
}

// Phase is the lifecycle position of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseQuerying
	PhasePopulated
	PhaseEmpty
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseQuerying:
		return "querying"
	case PhasePopulated:
		return "populated"
	case PhaseEmpty:
		return "empty"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason tags a failed query.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDecode      Reason = "decode"
	ReasonNotFound    Reason = "not_found"
	ReasonServerError Reason = "server_error"
	ReasonHTTP        Reason = "http_error"
	ReasonTransport   Reason = "transport"
)

// State is a snapshot published to observers. Results is shared and must
// not be modified.
type State struct {
	Phase      Phase
	Query      string
	Generation uint64
	TotalItems int
	Results    []booksapi.SearchResult
	Reason     Reason
	Err        error
}

// Settled reports whether the state is a final outcome for its generation.
func (s State) Settled() bool {
	return s.Phase != PhaseQuerying
}

// slowSearch is the request duration above which a search logs a warning.
const slowSearch = 5 * time.Second

// Session drives one screen's searches. Network work runs on the background
// pool; every state change is applied on the front-end dispatcher.
type Session struct {
	searcher Searcher
	pool     *operations.Queue
	ui       dispatch.Dispatcher
	log      zerolog.Logger

	mu         sync.Mutex
	generation uint64
	inFlight   bool
	current    *operations.Operation
	state      State
	observers  map[int]func(State)
	nextID     int
	closed     bool
	done       chan struct{}
}

// NewSession creates an idle session.
func NewSession(searcher Searcher, pool *operations.Queue, ui dispatch.Dispatcher) *Session {
	return &Session{
		searcher:  searcher,
		pool:      pool,
		ui:        ui,
		log:       logger.WithComponent("search"),
		observers: make(map[int]func(State)),
		done:      make(chan struct{}),
	}
}

// Submit starts a query for text, canceling any query still in flight.
// Blank text is ignored and reported as not accepted.
func (s *Session) Submit(text string) (uint64, bool) {
	query := strings.TrimSpace(text)
	if query == "" {
		return 0, false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, false
	}
	s.generation++
	gen := s.generation
	s.inFlight = true
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	s.log.Debug().Uint64("generation", gen).Str("query", query).Msg("search submitted")
	s.ui.Dispatch(func() {
		s.apply(State{Phase: PhaseQuerying, Query: query, Generation: gen})
	})

	op, err := s.pool.Submit("search", func(ctx context.Context) error {
		return s.run(ctx, gen, query)
	})
	if err != nil {
		failed := failedState(query, gen, &fetch.Error{Kind: fetch.KindTransport, Cause: err})
		s.ui.Dispatch(func() { s.apply(failed) })
		return gen, true
	}

	s.mu.Lock()
	if !s.closed && s.generation == gen {
		s.current = op
		s.mu.Unlock()
		return gen, true
	}
	s.mu.Unlock()
	op.Cancel()
	return gen, true
}

func (s *Session) run(ctx context.Context, gen uint64, query string) error {
	done := logger.Track(s.log.With().Uint64("generation", gen).Logger(), "search request", slowSearch)
	payload, err := s.searcher.Fetch(ctx, query)
	done()
	if ctx.Err() != nil || fetch.IsCanceled(err) {
		return fetch.ErrCanceled
	}

	var next State
	if err != nil {
		next = failedState(query, gen, err)
	} else if set, decodeErr := booksapi.Decode(payload); decodeErr != nil {
		err = decodeErr
		next = failedState(query, gen, decodeErr)
	} else if len(set.Items) == 0 {
		next = State{Phase: PhaseEmpty, Query: query, Generation: gen, TotalItems: set.TotalItems}
	} else {
		next = State{
			Phase:      PhasePopulated,
			Query:      query,
			Generation: gen,
			TotalItems: set.TotalItems,
			Results:    set.Items,
		}
	}

	s.ui.Dispatch(func() { s.apply(next) })
	return err
}

func failedState(query string, gen uint64, err error) State {
	return State{
		Phase:      PhaseFailed,
		Query:      query,
		Generation: gen,
		Reason:     reasonFor(err),
		Err:        err,
	}
}

func reasonFor(err error) Reason {
	var decodeErr *booksapi.DecodeError
	if errors.As(err, &decodeErr) {
		return ReasonDecode
	}
	switch fetch.KindOf(err) {
	case fetch.KindNotFound:
		return ReasonNotFound
	case fetch.KindServerError:
		return ReasonServerError
	case fetch.KindHTTP:
		return ReasonHTTP
	default:
		return ReasonTransport
	}
}

// apply runs on the front end. Results from an older generation are dropped.
func (s *Session) apply(next State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if next.Generation != s.generation {
		s.mu.Unlock()
		if next.Settled() {
			metrics.IncSearchSuperseded()
			s.log.Debug().Uint64("generation", next.Generation).Msg("discarded superseded search result")
		}
		return
	}

	s.state = next
	if next.Settled() {
		s.inFlight = false
		s.current = nil
		if next.Phase != PhaseIdle {
			metrics.IncSearchOutcome(outcomeLabel(next))
		}
		if next.Phase == PhaseFailed {
			s.log.Warn().Err(next.Err).Str("reason", string(next.Reason)).Str("query", next.Query).Msg("search failed")
		}
	}
	observers := make([]func(State), 0, len(s.observers))
	for _, id := range slices.Sorted(maps.Keys(s.observers)) {
		observers = append(observers, s.observers[id])
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
}

func outcomeLabel(st State) string {
	if st.Phase == PhaseFailed {
		return string(st.Reason)
	}
	return st.Phase.String()
}

// State returns the most recently applied state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every applied state on the front end,
// after every observer registered before it.
// The returned func removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Wait blocks until generation gen settles and returns its state.
func (s *Session) Wait(ctx context.Context, gen uint64) (State, error) {
	ch := make(chan State, 1)
	unsubscribe := s.Subscribe(func(st State) {
		if st.Generation > gen || (st.Generation == gen && st.Settled()) {
			select {
			case ch <- st:
			default:
			}
		}
	})
	defer unsubscribe()

	s.mu.Lock()
	closed := s.closed
	latest := s.generation
	st := s.state
	s.mu.Unlock()

	switch {
	case closed:
		return State{}, ErrClosed
	case st.Generation == gen && st.Settled():
		return st, nil
	case latest > gen:
		return State{}, ErrSuperseded
	}

	select {
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-s.done:
		return State{}, ErrClosed
	case st := <-ch:
		if st.Generation != gen {
			return State{}, ErrSuperseded
		}
		return st, nil
	}
}

// Cancel aborts the live query and returns the session to idle. It does
// nothing when no query is in flight.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.closed || !s.inFlight {
		s.mu.Unlock()
		return
	}
	s.inFlight = false
	s.generation++
	gen := s.generation
	op := s.current
	s.current = nil
	s.mu.Unlock()

	if op != nil {
		op.Cancel()
	}
	s.ui.Dispatch(func() {
		s.apply(State{Phase: PhaseIdle, Generation: gen})
	})
}

// Close cancels any live query and stops publishing states.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	op := s.current
	s.current = nil
	s.observers = make(map[int]func(State))
	close(s.done)
	s.mu.Unlock()

	if op != nil {
		op.Cancel()
	}
}
