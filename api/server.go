// Package api - Thin HTTP layer over the configurator
// The API is ONLY responsible for: input ingestion, session orchestration, output serialization.
// The API NEVER performs pricing logic.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"print-pricing/internal/logging"
)

// Server is the API server
type Server struct {
	handler  *Handler
	router   chi.Router
	version  string
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewServer creates a new API server. A nil gatherer disables /metrics.
func NewServer(version string, handler *Handler, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	s := &Server{
		handler:  handler,
		router:   chi.NewRouter(),
		version:  version,
		gatherer: gatherer,
		logger:   logging.Or(logger).Named("http"),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
	)

	s.router.Post("/quote", s.handler.HandleQuote)
	s.router.Route("/catalog", func(r chi.Router) {
		r.Get("/", s.handler.HandleCatalog)
		r.Get("/turnarounds", s.handler.HandleTurnarounds)
	})

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "print-pricing",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
