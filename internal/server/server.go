// Package server implements the codeviz HTTP API.
//
// All endpoints speak JSON except /api/render, which returns the artifact
// bytes with their content type. Failures use a single envelope:
//
//	{"error": {"code": "INPUT_TOO_LARGE", "message": "source is 3145728 bytes (max 2097152)"}}
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/source"
	"github.com/matzehuels/codeviz/pkg/store"
)

// Defaults for Options.
const (
	DefaultAddr            = ":8080"
	DefaultTimeout         = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures the server.
type Options struct {
	Addr         string
	Timeout      time.Duration // Per-request handler timeout
	MaxBytes     int64         // Source size ceiling
	MaxLineBytes int
	Logger       *log.Logger
}

func (o *Options) setDefaults() {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = source.DefaultMaxBytes
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Server serves the API over a pipeline runner and a diagram store.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	opts   Options
	logger *log.Logger
}

// New creates a server. A nil store keeps diagrams in memory.
func New(runner *pipeline.Runner, st store.Store, opts Options) *Server {
	opts.setDefaults()
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Server{runner: runner, store: st, opts: opts, logger: opts.Logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed")
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/graph", s.handleGraph)
		r.Post("/upload", s.handleUpload)
		r.Post("/render", s.handleRender)

		r.Route("/examples", func(r chi.Router) {
			r.Get("/", s.handleListExamples)
			r.Get("/{name}", s.handleGetExample)
			r.Get("/{name}/graph", s.handleExampleGraph)
		})

		r.Route("/diagrams", func(r chi.Router) {
			r.Post("/", s.handleSaveDiagram)
			r.Get("/", s.handleListDiagrams)
			r.Get("/{id}", s.handleGetDiagram)
			r.Delete("/{id}", s.handleDeleteDiagram)
		})
	})
	return r
}

// Run serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		MaxBytes:     s.opts.MaxBytes,
		MaxLineBytes: s.opts.MaxLineBytes,
	}
}
