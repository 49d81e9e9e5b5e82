// file: internal/presentation/results.go
// version: 1.0.0
// guid: 43978a8b-79a0-4d54-a214-6f183b885110

package presentation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/booksapi"
	"github.com/jdfalk/library-proto/internal/cache"
	"github.com/jdfalk/library-proto/internal/covers"
	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/operations"
	"github.com/jdfalk/library-proto/internal/realtime"
	"github.com/jdfalk/library-proto/internal/search"
)

// ErrNotSelectable is returned when the chosen row is not a search result.
var ErrNotSelectable = errors.New("row is not selectable")

// ResultsOptions wires a ResultsScreen.
type ResultsOptions struct {
	Searcher  search.Searcher
	Pool      *operations.Queue
	UI        dispatch.Dispatcher
	Fetcher   *covers.Fetcher
	Store     library.Store
	Surface   Surface
	CacheSize int
	CacheTTL  time.Duration
	// Hub, when set, receives search.state events.
	Hub *realtime.EventHub
}

// ResultsScreen owns one search session, its cover loader and the image
// cache, and keeps the surface in step with the session state.
type ResultsScreen struct {
	session *search.Session
	loader  *covers.Loader
	fetcher *covers.Fetcher
	images  *cache.Cache[*covers.Image]
	store   library.Store
	surface Surface
	hub     *realtime.EventHub
	log     zerolog.Logger

	unsubscribe func()

	mu    sync.RWMutex
	state search.State
}

// NewResultsScreen builds the screen and its collaborators.
func NewResultsScreen(opts ResultsOptions) *ResultsScreen {
	images := cache.New[*covers.Image](opts.CacheSize, opts.CacheTTL)
	s := &ResultsScreen{
		session: search.NewSession(opts.Searcher, opts.Pool, opts.UI),
		loader:  covers.NewLoader(opts.Fetcher, images, opts.UI),
		fetcher: opts.Fetcher,
		images:  images,
		store:   opts.Store,
		surface: opts.Surface,
		hub:     opts.Hub,
		log:     logger.WithComponent("results"),
	}
	s.unsubscribe = s.session.Subscribe(s.onState)
	return s
}

// Submit starts a search; blank text is ignored.
func (s *ResultsScreen) Submit(text string) (uint64, bool) {
	return s.session.Submit(text)
}

// Wait blocks until the given search settles.
func (s *ResultsScreen) Wait(ctx context.Context, gen uint64) (search.State, error) {
	return s.session.Wait(ctx, gen)
}

// Cancel aborts the running search.
func (s *ResultsScreen) Cancel() {
	s.session.Cancel()
}

// State returns the state currently shown.
func (s *ResultsScreen) State() search.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// PendingCovers is the number of rows still waiting for an image.
func (s *ResultsScreen) PendingCovers() int {
	return s.loader.Pending()
}

// onState runs on the front end for every applied session state.
func (s *ResultsScreen) onState(st search.State) {
	s.loader.CancelAll()

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	switch st.Phase {
	case search.PhaseEmpty:
		s.surface.Reload(1)
		s.surface.Cell(0).Render(Row{Kind: RowNothingFound, Title: NothingFoundText})
	case search.PhasePopulated:
		s.surface.Reload(len(st.Results))
		for i, result := range st.Results {
			cell := s.surface.Cell(i)
			row := Row{
				Kind:       RowResult,
				Title:      result.Title,
				Authors:    result.AuthorLine(),
				Selectable: true,
			}
			cell.Render(row)
			s.loader.Load(covers.RowID(i), result.Key(), result.Thumbnail(), &coverSink{cell: cell, row: row})
		}
	case search.PhaseFailed:
		s.surface.Reload(1)
		s.surface.Cell(0).Render(Row{Kind: RowNotice, Title: NoticeFor(st.Reason)})
		s.surface.Alert(AlertTitle, AlertMessage)
	default:
		s.surface.Reload(0)
	}

	if s.hub != nil {
		s.hub.SendSearchState(st.Generation, st.Phase.String(), st.Query, len(st.Results))
	}
}

// Select saves result index, with its cover when one can be had, to the
// library.
func (s *ResultsScreen) Select(ctx context.Context, index int) (*library.Entry, error) {
	s.mu.RLock()
	st := s.state
	s.mu.RUnlock()

	if st.Phase != search.PhasePopulated || index < 0 || index >= len(st.Results) {
		return nil, ErrNotSelectable
	}
	result := st.Results[index]

	entry, err := s.store.Add(result.Title, result.AuthorLine(), s.coverBytes(ctx, result))
	if err != nil {
		return nil, fmt.Errorf("failed to add %q to library: %w", result.Title, err)
	}
	return entry, nil
}

func (s *ResultsScreen) coverBytes(ctx context.Context, result booksapi.SearchResult) []byte {
	if img, ok := s.images.Get(result.Key()); ok {
		return img.Data
	}
	url := result.Thumbnail()
	if url == "" {
		return nil
	}
	img, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn().Err(err).Str("title", result.Title).Msg("saving without cover")
		return nil
	}
	s.images.Set(result.Key(), img)
	return img.Data
}

// Close tears down the session, the loader and the cache.
func (s *ResultsScreen) Close() {
	s.unsubscribe()
	s.session.Close()
	s.loader.Close()
	s.images.InvalidateAll()
}

type coverSink struct {
	cell Renderable
	row  Row
}

func (c *coverSink) SetImage(img *covers.Image) {
	c.row.Image = img.Picture
	c.cell.Render(c.row)
}

func (c *coverSink) ImageFailed(error) {
	c.row.Image = Placeholder()
	c.cell.Render(c.row)
}
