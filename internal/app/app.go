// file: internal/app/app.go
// version: 1.0.0
// guid: 2630f080-a3e5-4bc5-93a5-53ed73816fcc

// Package app assembles the long-lived collaborators shared by the CLI and
// the HTTP server.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jdfalk/library-proto/internal/booksapi"
	"github.com/jdfalk/library-proto/internal/config"
	"github.com/jdfalk/library-proto/internal/covers"
	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/metrics"
	"github.com/jdfalk/library-proto/internal/operations"
	"github.com/jdfalk/library-proto/internal/presentation"
	"github.com/jdfalk/library-proto/internal/realtime"
)

const shutdownTimeout = 30 * time.Second

// App holds the store, the event hub, both execution contexts and the
// outbound clients.
type App struct {
	Config  config.Config
	Store   library.Store
	Hub     *realtime.EventHub
	UI      *dispatch.Queue
	Pool    *operations.Queue
	Books   *booksapi.Client
	Fetcher *covers.Fetcher
}

// New validates cfg, opens the library and starts the queues.
func New(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	metrics.Register()

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	books, err := booksapi.NewClient(cfg.SearchEndpoint,
		booksapi.WithHTTPClient(httpClient),
		booksapi.WithRequestsPerMinute(cfg.RequestsPerMinute),
	)
	if err != nil {
		return nil, err
	}

	raw, err := library.Open(cfg.DatabaseType, cfg.DatabasePath, cfg.EnableSQLite)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	hub := realtime.NewEventHub()
	pool := operations.NewQueue(cfg.Workers, 0)
	fetcher := covers.NewFetcher(pool,
		covers.WithHTTPClient(httpClient),
		covers.WithMaxBytes(cfg.MaxImageBytes),
		covers.WithMaxDimension(cfg.MaxImageDimension),
	)

	log := logger.WithComponent("app")
	log.Info().
		Str("database_type", cfg.DatabaseType).
		Str("database_path", cfg.DatabasePath).
		Int("workers", cfg.Workers).
		Msg("library initialized")

	return &App{
		Config:  cfg,
		Store:   library.NewNotifying(raw, hub),
		Hub:     hub,
		UI:      dispatch.NewQueue(),
		Pool:    pool,
		Books:   books,
		Fetcher: fetcher,
	}, nil
}

// NewResultsScreen wires a results screen to surface.
func (a *App) NewResultsScreen(surface presentation.Surface) *presentation.ResultsScreen {
	return presentation.NewResultsScreen(presentation.ResultsOptions{
		Searcher:  a.Books,
		Pool:      a.Pool,
		UI:        a.UI,
		Fetcher:   a.Fetcher,
		Store:     a.Store,
		Surface:   surface,
		CacheSize: a.Config.ImageCacheSize,
		CacheTTL:  a.Config.ImageCacheTTL,
		Hub:       a.Hub,
	})
}

// NewLibraryScreen wires a library screen to surface.
func (a *App) NewLibraryScreen(surface presentation.Surface) *presentation.LibraryScreen {
	return presentation.NewLibraryScreen(a.Store, a.Hub, a.UI, surface)
}

// Close stops the pool, then the front-end queue, then closes the store.
func (a *App) Close() error {
	var errs []error
	if err := a.Pool.Shutdown(shutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("operation queue shutdown: %w", err))
	}
	a.UI.Close()
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close library: %w", err))
	}
	return errors.Join(errs...)
}
