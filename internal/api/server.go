package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ruffyt/ruffyt/internal/config"
	"github.com/ruffyt/ruffyt/internal/errors"
	"github.com/ruffyt/ruffyt/internal/logging"
)

// Server is the ruffyt API server.
type Server struct {
	httpServer      *http.Server
	router          chi.Router
	log             *logging.Logger
	shutdownTimeout time.Duration
}

// New creates a Server listening on the configured address.
func New(cfg config.ServerConfig, log *logging.Logger) *Server {
	if log == nil {
		log = logging.NewNoop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/health", handleHealth)
	r.Post("/echo", handleEcho(log))

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		router:          r,
		log:             log,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Router returns the server's handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return (&errors.RuffytError{
				Kind:    errors.ErrServer,
				Message: "api server failed",
			}).WithCause(err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return (&errors.RuffytError{
			Kind:    errors.ErrServer,
			Message: "graceful shutdown failed",
		}).WithCause(err)
	}
	return <-errCh
}

// requestLogger logs each request at debug level once it completes.
func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
