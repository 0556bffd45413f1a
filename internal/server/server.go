// Package server implements the termmap HTTP API.
//
// Routes:
//
//	GET    /healthz                 liveness probe
//	POST   /api/map                 build a term map
//	POST   /api/reduction           build a reduction graph
//	GET    /api/macros              list stored and builtin macros
//	GET    /api/macros/{name}       fetch one macro
//	PUT    /api/macros/{name}       define or replace a macro
//	DELETE /api/macros/{name}       remove a stored macro
//	GET    /ws/highlight?session=ID highlight queue for a built layout
//
// Every build creates a session holding the layout. Clients open the
// highlight websocket for that session and exchange redex ids; the server
// answers with the element ids to colour, in the order the queue applies
// them.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/termmap/pkg/buildinfo"
	"github.com/matzehuels/termmap/pkg/highlight"
	"github.com/matzehuels/termmap/pkg/httputil"
	"github.com/matzehuels/termmap/pkg/macro"
	"github.com/matzehuels/termmap/pkg/pipeline"
	"github.com/matzehuels/termmap/pkg/session"
)

// DefaultCleanupInterval separates two expired-session sweeps.
const DefaultCleanupInterval = 5 * time.Minute

// Config wires a Server.
type Config struct {
	Runner   *pipeline.Runner
	Macros   macro.Store      // nil selects an empty MemoryStore
	Sessions session.Store    // nil selects a MemoryStore
	Logger   *log.Logger      // nil selects log.Default()
	Defaults pipeline.Options // Fills and caps request options

	HighlightDelay time.Duration // 0 selects highlight.DefaultDelay
	SessionTTL     time.Duration // 0 selects session.DefaultTTL
}

// Server serves the API.
type Server struct {
	runner   *pipeline.Runner
	macros   macro.Store
	sessions session.Store
	logger   *log.Logger
	defaults pipeline.Options
	delay    time.Duration
	ttl      time.Duration
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		macros:   cfg.Macros,
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
		defaults: cfg.Defaults,
		delay:    cfg.HighlightDelay,
		ttl:      cfg.SessionTTL,
	}
	if s.macros == nil {
		s.macros = macro.NewMemoryStore()
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.delay <= 0 {
		s.delay = highlight.DefaultDelay
	}
	if s.ttl <= 0 {
		s.ttl = session.DefaultTTL
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httputil.Observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/map", s.handleBuild(pipeline.VizTypeMap))
		r.Post("/reduction", s.handleBuild(pipeline.VizTypeReduction))

		r.Get("/macros", s.handleListMacros)
		r.Get("/macros/{name}", s.handleGetMacro)
		r.Put("/macros/{name}", s.handlePutMacro)
		r.Delete("/macros/{name}", s.handleDeleteMacro)
	})

	r.Get("/ws/highlight", s.handleHighlightWS)
	return r
}

// RunCleanup sweeps expired sessions every interval until ctx is done.
func (s *Server) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}
