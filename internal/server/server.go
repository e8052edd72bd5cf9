// Package server provides the HTTP API for jobtailor.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jobtailor/jobtailor/internal/analytics"
	"github.com/jobtailor/jobtailor/internal/config"
	"github.com/jobtailor/jobtailor/internal/ledger"
	"github.com/jobtailor/jobtailor/internal/storage"
	"github.com/jobtailor/jobtailor/internal/tailor"
)

// Server is the HTTP server for the jobtailor API.
type Server struct {
	orchestrator *tailor.Orchestrator
	insights     *analytics.InsightGenerator
	ledger       *ledger.Ledger
	storage      storage.Storage
	config       *config.Config
	logger       *zap.Logger
	limiter      *rateLimiter
	apiKeys      map[string]bool
	server       *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	orchestrator *tailor.Orchestrator,
	insights *analytics.InsightGenerator,
	ldg *ledger.Ledger,
	store storage.Storage,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.Server.APIKeys() {
		keys[k] = true
	}
	return &Server{
		orchestrator: orchestrator,
		insights:     insights,
		ledger:       ldg,
		storage:      store,
		config:       cfg,
		logger:       logger,
		limiter:      newRateLimiter(cfg.RateLimit),
		apiKeys:      keys,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.rateLimit)

		r.Post("/tailor", s.handleTailorAction)

		r.Post("/api/v1/resumes", s.handleCreateResume)
		r.Get("/api/v1/resumes/{id}", s.handleGetResume)
		r.Get("/api/v1/resumes/{id}/history", s.handleResumeHistory)
		r.Post("/api/v1/resumes/{id}/master", s.handleSetMaster)

		r.Post("/api/v1/jobs", s.handleCreateJob)
		r.Get("/api/v1/jobs/{id}", s.handleGetJob)

		r.Post("/api/v1/applications", s.handleCreateApplication)
		r.Post("/api/v1/applications/{id}/status", s.handleApplicationStatus)

		r.Get("/api/v1/analytics/trends", s.handleTrends)
	})

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
