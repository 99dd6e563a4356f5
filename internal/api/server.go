// ABOUTME: HTTP surface for the Ortsatlas service, built on Echo
// ABOUTME: Wires routes for run control, SSE status, terms and cities
package api

import (
	"context"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ortsatlas/ortsatlas/internal/config"
	"github.com/ortsatlas/ortsatlas/internal/search"
	"github.com/ortsatlas/ortsatlas/internal/storage/sqlite"
)

// Server serves the HTTP API. At most one bulk search run is active at a
// time; its event stream feeds the SSE status endpoint.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	db     *sqlite.DB
	runner *search.Runner

	mu      sync.Mutex
	current *search.Run
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg *config.Config, db *sqlite.DB) *Server {
	s := &Server{
		cfg:    cfg,
		db:     db,
		runner: search.NewRunner(cfg, db),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.POST("/api/search/:term", s.startSearch)
	e.GET("/api/search/status", s.searchStatus)
	e.GET("/api/search_terms", s.listTerms)
	e.POST("/api/search_terms", s.addTerm)
	e.GET("/api/cities", s.listCities)

	s.echo = e
	return s
}

// Start listens on the configured address and blocks until shutdown.
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.HTTPAddr)
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the underlying router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// activeRun returns the current run, or nil when none is in flight.
func (s *Server) activeRun() *search.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// adoptRun installs a run as the current one. Returns false when another
// run is still in flight.
func (s *Server) adoptRun(start func() *search.Run) (*search.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		select {
		case <-s.current.Done():
		default:
			return s.current, false
		}
	}
	s.current = start()
	return s.current, true
}
