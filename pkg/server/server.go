// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET /healthz                         liveness and version
//	GET /render?width=&height=&kind=&format=&refresh=
//	                                     encoded image with its content type
//	GET /history?limit=                  recent renders as JSON
//	GET /history/{id}                    one render record
//	GET /ws                              websocket render requests
//
// Over /ws the client sends JSON objects such as
// {"width":400,"height":400,"kind":"julia","format":"png"} and receives one
// binary message with the encoded image per request, or a JSON text message
// {"error":...,"code":...} when the request fails.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fractals/pkg/history"
	"github.com/matzehuels/fractals/pkg/pipeline"
)

// Timeouts.
const (
	// RenderTimeout is the default bound on a single render, whether it
	// arrives on /render or as a /ws message.
	RenderTimeout = 60 * time.Second

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves renders produced by a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	history history.Store
	logger  *log.Logger
	workers int
	origins []string
	router  chi.Router

	renderTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHistory enables the /history routes.
func WithHistory(store history.Store) Option {
	return func(s *Server) { s.history = store }
}

// WithWorkers sets the number of row bands each render is split into.
func WithWorkers(n int) Option {
	return func(s *Server) { s.workers = n }
}

// WithOriginPatterns sets the host patterns allowed to open websockets from
// a browser. Same-origin requests are always allowed.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) { s.origins = patterns }
}

// WithRenderTimeout overrides RenderTimeout.
func WithRenderTimeout(d time.Duration) Option {
	return func(s *Server) { s.renderTimeout = d }
}

// New creates a server for runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:        runner,
		workers:       1,
		renderTimeout: RenderTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebsocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.renderTimeout))
		r.Get("/render", s.handleRender)
		r.Get("/history", s.handleHistoryList)
		r.Get("/history/{id}", s.handleHistoryGet)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Cancellation is not an error.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
