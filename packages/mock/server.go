// Package mock runs an in-memory stand-in for the study group backend.
//
// It serves the same routes with the same response shapes, including the
// backend's habit of answering some failures with 200 and an "error" field,
// so the client can be exercised without the real service.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server is a mock study group backend
type Server struct {
	router  *Router
	backend *Backend
	port    int
	delay   time.Duration
	verbose bool
	logger  *slog.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose logs every request
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new mock server with an empty backend
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:  NewRouter(),
		backend: NewBackend(),
		port:    8000,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.backend.register(s.router)
	return s
}

// Backend returns the server's state
func (s *Server) Backend() *Backend {
	return s.backend
}

// GetRoutes returns all registered routes
func (s *Server) GetRoutes() []*Route {
	return s.router.routes
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// StartWithContext serves on the configured port until ctx is done.
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Mock backend listening",
		slog.String("component", "mock.Server"),
		slog.String("addr", "http://"+ln.Addr().String()),
		slog.Int("routes", len(s.router.routes)),
	)
	if s.verbose {
		for _, route := range s.router.routes {
			s.logger.Info("Route",
				slog.String("component", "mock.Server"),
				slog.String("method", route.Method),
				slog.String("path", route.Path),
			)
		}
	}

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	route, pathKnown := s.router.Match(r.Method, r.URL.Path)
	switch {
	case route != nil:
		route.Handler(rec, r)
	case pathKnown:
		writeJSON(rec, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	default:
		writeJSON(rec, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}

	if s.verbose {
		s.logger.Info("Request",
			slog.String("component", "mock.Server"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
