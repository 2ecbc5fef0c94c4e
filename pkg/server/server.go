// Package server exposes viewing sessions over HTTP.
//
// Each session is created from an uploaded DOT graph and lives in a
// [session.Manager] until it is deleted or expires. Splits are rendered as
// SVG or PNG; a websocket pushes an event whenever a session redraws, so a
// browser front end only needs to refetch its split images.
//
// # Routes
//
//	POST   /api/sessions                          upload DOT, create a session
//	GET    /api/sessions/{id}                     session snapshot
//	PUT    /api/sessions/{id}/dot                 replace the graph
//	DELETE /api/sessions/{id}                     close the session
//	POST   /api/sessions/{id}/select              {"split": 0, "node": "42"}
//	POST   /api/sessions/{id}/clear               clear the selection
//	POST   /api/sessions/{id}/resize              {"width": 1280, "height": 800}
//	POST   /api/sessions/{id}/splits              add a split
//	DELETE /api/sessions/{id}/splits/{split}      remove a split
//	GET    /api/sessions/{id}/splits/{split}/render/svg      (also png)
//	GET    /api/sessions/{id}/splits/{split}/graph?format=yaml
//	POST   /api/sessions/{id}/splits/{split}/toggle/{flag}   flag or "all"
//	POST   /api/sessions/{id}/splits/{split}/hover           {"node": "42"}
//	POST   /api/sessions/{id}/splits/{split}/zoom            {"x": 0, "y": 0, "k": 2}
//	POST   /api/sessions/{id}/splits/{split}/pointer         {"event": "down", "x": 0, "y": 0}
//	GET    /api/sessions/{id}/events              websocket of redraw events
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

	"github.com/matzehuels/cubicleview/pkg/config"
	"github.com/matzehuels/cubicleview/pkg/session"
)

// MaxUpload bounds the size of uploaded DOT text.
const MaxUpload = 32 << 20

// Server serves viewing sessions.
type Server struct {
	runner   session.Runner
	sessions *session.Manager
	view     config.View
	logger   *log.Logger
	router   chi.Router
}

// New creates a server building sessions with r.
func New(r session.Runner, sessions *session.Manager, view config.View, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner:   r,
		sessions: sessions,
		view:     view,
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Put("/dot", s.replaceDot)
			r.Post("/select", s.selectNode)
			r.Post("/clear", s.clearSelection)
			r.Post("/resize", s.resize)
			r.Get("/events", s.events)
			r.Post("/splits", s.addSplit)
			r.Route("/splits/{split}", func(r chi.Router) {
				r.Delete("/", s.deleteSplit)
				r.Get("/render/{format}", s.renderSplit)
				r.Get("/graph", s.splitGraph)
				r.Post("/toggle/{flag}", s.toggle)
				r.Post("/hover", s.hover)
				r.Post("/zoom", s.zoom)
				r.Post("/pointer", s.pointer)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	janitor, stop := context.WithCancel(ctx)
	defer stop()
	go s.sessions.Janitor(janitor, time.Minute)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.sessions.Close()
		return srv.Shutdown(shutdown)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
