// Package httpserver serves the citation search web front end: HTML search
// pages and a JSON API over the same search entry points.
package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/helixir/citation-search-service/internal/domain"
	"github.com/helixir/citation-search-service/internal/observability"
	"github.com/helixir/citation-search-service/internal/search"
)

// SearchService is the set of search entry points the server exposes.
type SearchService interface {
	PhraseSearch(ctx context.Context, phrase string, rows int) (*search.Result[domain.PaperHit], error)
	TitleSearch(ctx context.Context, title string, rows int) (*search.Result[domain.PaperHit], error)
	AuthorSearch(ctx context.Context, authors []string, rows int) (*search.Result[domain.PaperHit], error)
	CitedPaperSearch(ctx context.Context, title string, rows int) (*search.Result[domain.EnrichedCitation], error)
	CitedAuthorSearch(ctx context.Context, authors string, rows int) (*search.Result[domain.EnrichedCitation], error)
}

// Ensure search.Service implements SearchService.
var _ SearchService = (*search.Service)(nil)

// Pinger reports whether the search engine can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server of the citation search front end.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	service    SearchService
	pinger     Pinger
	forms      *formParser
	pages      *pageRenderer
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// MaxQueryLength, DefaultRows and MaxRows bound the search forms.
	MaxQueryLength int
	DefaultRows    int
	MaxRows        int
}

func (c *Config) applyDefaults() {
	if c.MaxQueryLength <= 0 {
		c.MaxQueryLength = 100
	}
	if c.MaxRows <= 0 {
		c.MaxRows = 1000
	}
	if c.DefaultRows <= 0 {
		c.DefaultRows = 100
	}
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithPinger sets the readiness probe target.
func WithPinger(p Pinger) Option {
	return func(s *Server) { s.pinger = p }
}

// WithLogger sets the server logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger.With().Str("component", "http-server").Logger() }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

// NewServer creates a new HTTP server over service.
func NewServer(cfg Config, service SearchService, opts ...Option) *Server {
	cfg.applyDefaults()

	s := &Server{
		service: service,
		forms:   newFormParser(cfg.MaxQueryLength, cfg.DefaultRows, cfg.MaxRows),
		pages:   newPageRenderer(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(correlationIDMiddleware)
	r.Use(requestLogger(s.logger))
	r.Use(metricsMiddleware(s.metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)

	// HTML pages
	r.Get("/", s.indexPage)
	r.Get("/about", s.aboutPage)
	r.Get("/phrasesearch", s.phraseSearchPage)
	r.Get("/titlesearch", s.titleSearchPage)
	r.Get("/authorsearch", s.authorSearchPage)
	r.Get("/citedpapersearch", s.citedPaperSearchPage)
	r.Get("/citedauthorsearch", s.citedAuthorSearchPage)

	// JSON API
	r.Route("/api/v1/search", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)
		r.Get("/{kind}", s.searchAPI)
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readinessHandler reports whether every Solr collection answers a ping.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	if s.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	if err := s.pinger.Ping(r.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"solr":   "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"solr":   "ok",
	})
}
