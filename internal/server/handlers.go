package server

import (
	"encoding/base64"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/graph"
	"github.com/matzehuels/termmap/pkg/httputil"
	"github.com/matzehuels/termmap/pkg/macro"
	"github.com/matzehuels/termmap/pkg/pipeline"
	"github.com/matzehuels/termmap/pkg/session"
)

// buildResponse is the body of a successful build.
type buildResponse struct {
	RunID     string            `json:"run_id"`
	SessionID string            `json:"session_id"`
	Layout    graph.Layout      `json:"layout"`
	Truncated bool              `json:"truncated"`
	CacheHit  bool              `json:"cache_hit"`
	Artifacts map[string]string `json:"artifacts,omitempty"` // Binary formats are base64
}

type macroRequest struct {
	Source string `json:"source"`
}

type macroList struct {
	Macros   []macro.Macro `json:"macros"`
	Builtins []macro.Macro `json:"builtins"`
}

func (s *Server) handleBuild(vizType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req pipeline.Options
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, err)
			return
		}
		opts := s.options(req, vizType)

		macros, err := macro.Resolve(ctx, s.macros)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		opts.Macros = macros

		result, err := s.runner.Execute(ctx, opts)
		if err != nil {
			s.logger.Debug("build failed", "viz", vizType, "error", err)
			httputil.WriteError(w, err)
			return
		}

		sess, err := session.New(result.Layout, s.ttl)
		if err != nil {
			httputil.WriteError(w, terrors.Wrap(terrors.ErrCodeInternal, err, "create session"))
			return
		}
		if err := s.sessions.Set(ctx, sess); err != nil {
			httputil.WriteError(w, terrors.Wrap(terrors.ErrCodeStorage, err, "store session"))
			return
		}

		httputil.WriteJSON(w, http.StatusOK, buildResponse{
			RunID:     result.RunID,
			SessionID: sess.ID,
			Layout:    result.Layout,
			Truncated: result.Truncated,
			CacheHit:  result.CacheInfo.LayoutHit,
			Artifacts: encodeArtifacts(result.Artifacts),
		})
	}
}

// options fills unset request fields from the server defaults and caps the
// reduction budgets at the defaults.
func (s *Server) options(req pipeline.Options, vizType string) pipeline.Options {
	d := s.defaults
	req.VizType = vizType
	req.Logger = s.logger
	if req.DistanceX == 0 {
		req.DistanceX = d.DistanceX
	}
	if req.DistanceY == 0 {
		req.DistanceY = d.DistanceY
	}
	req.MaxVertices = capped(req.MaxVertices, d.MaxVertices)
	req.MaxEdges = capped(req.MaxEdges, d.MaxEdges)
	req.MaxPaths = capped(req.MaxPaths, d.MaxPaths)
	req.MaxLevel = capped(req.MaxLevel, d.MaxLevel)
	return req
}

func capped(v, limit int) int {
	if v <= 0 || (limit > 0 && v > limit) {
		return limit
	}
	return v
}

func encodeArtifacts(artifacts map[string][]byte) map[string]string {
	if len(artifacts) == 0 {
		return nil
	}
	out := make(map[string]string, len(artifacts))
	for format, data := range artifacts {
		switch {
		case format == pipeline.FormatPNG || format == pipeline.FormatPDF || !utf8.Valid(data):
			out[format] = base64.StdEncoding.EncodeToString(data)
		default:
			out[format] = string(data)
		}
	}
	return out
}

// =============================================================================
// Macros
// =============================================================================

func (s *Server) handleListMacros(w http.ResponseWriter, r *http.Request) {
	ms, err := s.macros.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if ms == nil {
		ms = []macro.Macro{}
	}
	httputil.WriteJSON(w, http.StatusOK, macroList{Macros: ms, Builtins: macro.Builtins()})
}

func (s *Server) handleGetMacro(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := s.macros.Get(r.Context(), name)
	if terrors.Is(err, terrors.ErrCodeMacroNotFound) {
		for _, b := range macro.Builtins() {
			if b.Name == name {
				m, err = b, nil
				break
			}
		}
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handlePutMacro(w http.ResponseWriter, r *http.Request) {
	var req macroRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := macro.Define(r.Context(), s.macros, chi.URLParam(r, "name"), req.Source)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.logger.Info("defined macro", "name", m.Name)
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMacro(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.macros.Delete(r.Context(), name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	s.logger.Info("deleted macro", "name", name)
	w.WriteHeader(http.StatusNoContent)
}
