package server

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cubicleview/pkg/canvas"
	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/graph"
	"github.com/matzehuels/cubicleview/pkg/options"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
	"github.com/matzehuels/cubicleview/pkg/session"
	"github.com/matzehuels/cubicleview/pkg/view"
)

type ctxKey struct{}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func readDot(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUpload))
	if err != nil {
		return nil, cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "cannot read graph")
	}
	return data, nil
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	data, err := readDot(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := session.New(s.runner, session.Config{View: s.view, Logger: s.logger})
	s.sessions.Add(sess)
	if err := sess.Load(r.Context(), "upload", data); err != nil {
		s.sessions.Delete(sess.ID())
		writeError(w, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID(), "bytes", len(data))
	s.respondSnapshot(w, r, sess, http.StatusCreated)
}

func (s *Server) respondSnapshot(w http.ResponseWriter, r *http.Request, sess *session.Session, status int) {
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, snap)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.respondSnapshot(w, r, sessionFrom(r), http.StatusOK)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) replaceDot(w http.ResponseWriter, r *http.Request) {
	data, err := readDot(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	if err := sess.Load(r.Context(), "upload", data); err != nil {
		writeError(w, err)
		return
	}
	s.respondSnapshot(w, r, sess, http.StatusOK)
}

type selectRequest struct {
	Split int    `json:"split"`
	Node  string `json:"node"`
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	if err := sess.Select(r.Context(), req.Split, req.Node); err != nil {
		writeError(w, err)
		return
	}
	s.respondSnapshot(w, r, sess, http.StatusOK)
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.ClearSelection(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.respondSnapshot(w, r, sess, http.StatusOK)
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sessionFrom(r).Resize(r.Context(), req.Width, req.Height); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addSplit(w http.ResponseWriter, r *http.Request) {
	i, err := sessionFrom(r).AddSplit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"split": i})
}

func (s *Server) deleteSplit(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err == nil {
		err = sessionFrom(r).DeleteSplit(r.Context(), i)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *Server) renderSplit(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format := chi.URLParam(r, "format")
	ct, ok := contentTypes[format]
	if !ok {
		writeError(w, cverrors.New(cverrors.ErrCodeInvalidFormat, "cannot render %q (must be svg or png)", format))
		return
	}
	// Render into a buffer so failures still produce an error response.
	var buf bytes.Buffer
	if err := sessionFrom(r).Render(r.Context(), i, format, &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) splitGraph(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = graph.FormatJSON
	}
	if format != graph.FormatJSON && format != graph.FormatYAML {
		writeError(w, cverrors.New(cverrors.ErrCodeInvalidFormat, "unknown graph format %q (must be json or yaml)", format))
		return
	}
	g, err := sessionFrom(r).Graph(r.Context(), i)
	if err != nil {
		writeError(w, err)
		return
	}
	if format == graph.FormatYAML {
		w.Header().Set("Content-Type", "application/yaml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	if err := graph.Write(w, g, format); err != nil {
		s.logger.Warn("write graph", "error", err)
	}
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sess := sessionFrom(r)
	if name := chi.URLParam(r, "flag"); name == "all" {
		err = sess.ToggleAll(r.Context(), i)
	} else {
		var f options.Flag
		if f, err = options.ParseFlag(name); err != nil {
			err = cverrors.Wrap(cverrors.ErrCodeInvalidInput, err, "cannot toggle")
		} else {
			err = sess.ToggleFlag(r.Context(), i, f)
		}
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondSnapshot(w, r, sess, http.StatusOK)
}

type hoverRequest struct {
	Node string `json:"node"`
}

func (s *Server) hover(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req hoverRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sessionFrom(r).Hover(r.Context(), i, req.Node); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type pointerRequest struct {
	Event string  `json:"event"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Server) pointer(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p := canvas.Point{X: req.X, Y: req.Y}
	if err := sessionFrom(r).Pointer(r.Context(), i, req.Event, p); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type zoomRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

func (s *Server) zoom(w http.ResponseWriter, r *http.Request) {
	i, err := splitParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req zoomRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.K <= 0 {
		writeError(w, cverrors.New(cverrors.ErrCodeInvalidInput, "zoom factor must be positive"))
		return
	}
	if err := sessionFrom(r).Zoom(r.Context(), i, view.Zoom{X: req.X, Y: req.Y, K: req.K}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
