package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/config"
	"github.com/storekit/storefront/internal/httpx"
	"github.com/storekit/storefront/internal/rewrite"
)

const (
	serviceName    = "storefront-api"
	serviceVersion = "1.0.0"
)

// Server represents the HTTP server with all dependencies.
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	catalog    *catalog.Handler
	rewrites   *rewrite.Handler
	rewriteSvc rewrite.Service
	server     *http.Server
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, catalogHandler *catalog.Handler, rewriteHandler *rewrite.Handler, rewriteSvc rewrite.Service) *Server {
	return &Server{
		config:     cfg,
		logger:     logger,
		catalog:    catalogHandler,
		rewrites:   rewriteHandler,
		rewriteSvc: rewriteSvc,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	// Listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	// Listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("received shutdown signal", "signal", sig.String())

		// Create context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		// Attempt graceful shutdown
		if err := s.server.Shutdown(ctx); err != nil {
			// Force close if graceful shutdown fails
			if closeErr := s.server.Close(); closeErr != nil {
				return fmt.Errorf("failed to close server: %w", closeErr)
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		s.logger.Info("server stopped gracefully")
		return nil
	}
}

// Handler assembles the route table and middleware chain. Exposed so the
// e2e suite can drive the exact production stack through httptest.
func (s *Server) Handler() http.Handler {
	return s.applyMiddleware(s.setupRoutes())
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /x/health", s.healthCheckHandler)

	mux.HandleFunc("GET /products", s.catalog.List)
	mux.HandleFunc("POST /products", s.catalog.Create)
	mux.HandleFunc("GET /products/{slug}", s.catalog.GetBySlug)
	mux.HandleFunc("PATCH /products/{slug}", s.catalog.Update)
	mux.HandleFunc("DELETE /products/{slug}", s.catalog.Delete)

	mux.HandleFunc("GET /url-rewrites", s.rewrites.List)
	mux.HandleFunc("POST /url-rewrites", s.rewrites.Create)
	mux.HandleFunc("DELETE /url-rewrites/{id}", s.rewrites.Delete)

	// Catch-all for unmatched routes: a generic not-found payload that
	// the rewrite fallback middleware gets a chance to replace.
	mux.HandleFunc("/", s.notFoundHandler)

	return mux
}

// applyMiddleware wraps the handler with middleware in the correct order.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	return httpx.Chain(
		httpx.Recovery(s.logger), // Outermost: catch panics
		httpx.RequestID,          // Add request ID
		httpx.Logger(s.logger),   // Log requests
		httpx.CORS(nil),          // CORS headers (allow all in dev)
		rewrite.Fallback(s.rewriteSvc, s.logger), // Innermost: sees every 404 the mux produces
	)(handler)
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// notFoundHandler handles requests no route matched.
func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteNotFound(w)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
