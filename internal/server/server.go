// file: internal/server/server.go
// version: 2.0.0
// guid: 4f5a6b7c-8d9e-0f1a-2b3c-4d5e6f7a8b9c

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/app"
	"github.com/jdfalk/library-proto/internal/config"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/metrics"
	"github.com/jdfalk/library-proto/internal/presentation"
	"github.com/jdfalk/library-proto/internal/realtime"
	"github.com/jdfalk/library-proto/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	app        *app.App
	cfg        ServerConfig
	log        zerolog.Logger

	// One results screen backs every search request, so a new query
	// supersedes whatever another caller started.
	results *presentation.ResultsScreen
	surface *presentation.ListSurface
	limiter *middleware.IPRateLimiter
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port              string
	Host              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	SearchTimeout     time.Duration
	RequestsPerMinute int
	MaxBodyBytes      int64
	Heartbeat         time.Duration
}

// GetDefaultServerConfig returns the defaults used by the serve command.
func GetDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:              "8080",
		Host:              "127.0.0.1",
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // SSE streams stay open
		IdleTimeout:       60 * time.Second,
		SearchTimeout:     45 * time.Second,
		RequestsPerMinute: 120,
		MaxBodyBytes:      64 << 10,
		Heartbeat:         5 * time.Second,
	}
}

// NewServer creates a new server instance
func NewServer(a *app.App, cfg ServerConfig) *Server {
	defaults := GetDefaultServerConfig()
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaults.SearchTimeout
	}
	if cfg.Heartbeat <= 0 {
		cfg.Heartbeat = defaults.Heartbeat
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(corsMiddleware())

	// Register metrics (idempotent)
	metrics.Register()

	surface := presentation.NewListSurface()
	s := &Server{
		router:  router,
		app:     a,
		cfg:     cfg,
		log:     logger.WithComponent("server"),
		results: a.NewResultsScreen(surface),
		surface: surface,
		limiter: middleware.NewIPRateLimiter(cfg.RequestsPerMinute, max(1, cfg.RequestsPerMinute/4)),
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:           net.JoinHostPort(s.cfg.Host, s.cfg.Port),
		Handler:        s.router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    s.cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	// Open SSE streams would otherwise hold Shutdown until its deadline.
	s.httpServer.RegisterOnShutdown(s.app.Hub.CloseAll)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Heartbeat: push periodic system.status events via SSE while running
	ticker := time.NewTicker(s.cfg.Heartbeat)
	defer ticker.Stop()

	for running := true; running; {
		select {
		case <-ticker.C:
			s.heartbeat()
		case err := <-errCh:
			s.results.Close()
			return fmt.Errorf("failed to start server: %w", err)
		case <-ctx.Done():
			running = false
		}
	}

	s.log.Info().Msg("shutting down server")

	// Broadcast shutdown event to all connected clients
	s.app.Hub.Broadcast(&realtime.Event{
		Type:      realtime.EventSystemShutdown,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": "Server is shutting down",
		},
	})
	// Give clients a moment to receive the event
	time.Sleep(500 * time.Millisecond)

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.results.Close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.log.Info().Msg("server exited")
	return nil
}

// Close releases the results screen without starting the listener.
func (s *Server) Close() {
	s.results.Close()
}

func (s *Server) heartbeat() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	entries, err := s.app.Store.Count()
	if err != nil {
		s.log.Debug().Err(err).Msg("heartbeat: failed to count entries")
	}

	s.app.Hub.SendSystemStatus(map[string]interface{}{
		"entries":           entries,
		"active_operations": s.app.Pool.Active(),
		"pending_covers":    s.results.PendingCovers(),
		"sse_clients":       s.app.Hub.GetClientCount(),
		"memory_alloc":      mem.Alloc,
		"goroutines":        runtime.NumGoroutine(),
		"timestamp":         time.Now().Unix(),
	})
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api/v1")
	api.GET("/health", s.healthCheck)
	api.GET("/events", s.handleEvents)

	limited := api.Group("")
	limited.Use(s.limiter.Middleware())
	limited.Use(middleware.MaxRequestBodySize(s.cfg.MaxBodyBytes))
	{
		// Search
		limited.GET("/search", s.searchBooks)
		limited.GET("/search/state", s.getSearchState)
		limited.GET("/search/rows", s.getSearchRows)
		limited.DELETE("/search", s.cancelSearch)

		// Library
		limited.GET("/library", s.listEntries)
		limited.POST("/library", s.addEntry)
		limited.GET("/library/:id", s.getEntry)
		limited.GET("/library/:id/cover", s.getEntryCover)
		limited.DELETE("/library/:id", s.deleteEntry)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	stats := gin.H{
		"active_operations": s.app.Pool.Active(),
		"sse_clients":       s.app.Hub.GetClientCount(),
		"rate_limited_ips":  s.limiter.Clients(),
	}
	resp := gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Unix(),
		"database_type": s.app.Config.DatabaseType,
		"metrics":       stats,
	}
	// tolerate store errors; health reports them instead of failing
	if count, err := s.app.Store.Count(); err != nil {
		resp["partial_error"] = err.Error()
	} else {
		stats["entries"] = count
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleEvents(c *gin.Context) {
	s.app.Hub.HandleSSE(c)
}

// ConfigFrom derives a ServerConfig from the application config. Searches
// get the outbound request timeout plus room for queueing.
func ConfigFrom(cfg config.Config) ServerConfig {
	sc := GetDefaultServerConfig()
	if cfg.Host != "" {
		sc.Host = cfg.Host
	}
	if cfg.Port > 0 {
		sc.Port = strconv.Itoa(cfg.Port)
	}
	if cfg.RequestTimeout > 0 {
		sc.SearchTimeout = cfg.RequestTimeout + 15*time.Second
	}
	return sc
}
