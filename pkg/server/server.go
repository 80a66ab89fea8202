// Package server exposes interactive sessions over HTTP for a browser
// diagramming toolkit.
//
// Every browser tab creates its own session and then drives it through JSON
// endpoints mirroring the toolkit's callbacks:
//
//	GET    /healthz                            liveness
//	GET    /version                            build metadata
//	POST   /sessions                           create a session
//	GET    /sessions/{sid}                     state + graph
//	DELETE /sessions/{sid}                     drop a session
//	POST   /sessions/{sid}/upload              multipart "file" → backend → layout
//	POST   /sessions/{sid}/nodes/changes       onNodesChange batch
//	POST   /sessions/{sid}/edges/changes       onEdgesChange batch
//	POST   /sessions/{sid}/connect             onConnect {source, target}
//	POST   /sessions/{sid}/nodes/{id}/children add a manual sub-branch
//	GET    /sessions/{sid}/nodes/{id}          node detail (opens the detail view)
//	POST   /sessions/{sid}/layout              explicit relayout
//
// Errors are answered as {"detail": "..."} with a status derived from the
// error code, the same shape the analysis backend uses.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/mindgraft/pkg/buildinfo"
	"github.com/matzehuels/mindgraft/pkg/session"
)

// DefaultAllowedOrigins lists the local dev-server origins of the web client.
var DefaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
}

const (
	// DefaultAddr is the listen address of `mindgraft serve`.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxUpload bounds the size of an uploaded document.
	DefaultMaxUpload = 50 << 20

	// DefaultRequestTimeout bounds request handling. Uploads wait for the
	// analysis backend, so this is generous.
	DefaultRequestTimeout = 15 * time.Minute
)

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	MaxUpload      int64
	RequestTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = DefaultAllowedOrigins
	}
	if c.MaxUpload <= 0 {
		c.MaxUpload = DefaultMaxUpload
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}

// Server serves the session API.
type Server struct {
	cfg      Config
	sessions *session.Registry
	logger   *log.Logger
	router   chi.Router
}

// New creates a server over the given session registry.
func New(cfg Config, sessions *session.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		cfg:      cfg.withDefaults(),
		sessions: sessions,
		logger:   logger,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.DebugLevel}),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Post("/sessions", s.handleCreateSession)
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleDeleteSession)
		r.Post("/upload", s.handleUpload)
		r.Post("/nodes/changes", s.handleNodeChanges)
		r.Post("/edges/changes", s.handleEdgeChanges)
		r.Post("/connect", s.handleConnect)
		r.Post("/nodes/{id}/children", s.handleAddChild)
		r.Get("/nodes/{id}", s.handleNodeDetail)
		r.Post("/layout", s.handleRelayout)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
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
