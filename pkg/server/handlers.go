package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mindgraft/pkg/backend"
	"github.com/matzehuels/mindgraft/pkg/layout"
	mgerrors "github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/session"
	"github.com/matzehuels/mindgraft/pkg/store"
)

type ctxKey struct{}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.logger.Debug("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).State())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUpload)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInvalidInput, err, "multipart field \"file\" is required"))
		return
	}
	defer f.Close()

	sess := sessionFrom(r)
	if err := sess.Upload(r.Context(), hdr.Filename, f); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleNodeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []store.NodeChange
	if !s.decode(w, r, &changes) {
		return
	}
	st := sessionFrom(r).Store()
	if err := st.ApplyNodeChanges(changes); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

func (s *Server) handleEdgeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []store.EdgeChange
	if !s.decode(w, r, &changes) {
		return
	}
	st := sessionFrom(r).Store()
	if err := st.ApplyEdgeChanges(changes); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !s.decode(w, r, &req) {
		return
	}
	edge, err := sessionFrom(r).Store().Connect(req.Source, req.Target)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edge)
}

func (s *Server) handleAddChild(w http.ResponseWriter, r *http.Request) {
	node, edge, err := sessionFrom(r).Store().AddChild(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"node": node, "edge": edge})
}

func (s *Server) handleNodeDetail(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := sess.Select(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	data, ok := sess.Detail()
	if !ok {
		s.writeError(w, mgerrors.New(mgerrors.ErrCodeNodeNotFound, "node %q not found", chi.URLParam(r, "id")))
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type relayoutRequest struct {
	Direction string `json:"direction,omitempty"`
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request) {
	var req relayoutRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	sess := sessionFrom(r)
	opts := sess.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}
	// Session options are usually validated already, so the override is
	// normalized here rather than by ValidateAndSetDefaults.
	if req.Direction != "" {
		dir, err := layout.ParseDirection(req.Direction)
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Direction = string(dir)
	}
	st := sess.Store()
	if err := st.Relayout(opts.LayoutOptions()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Snapshot())
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"detail": mgerrors.UserMessage(err)})
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, session.ErrSuperseded) {
		return http.StatusConflict
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge
	}
	switch mgerrors.GetCode(err) {
	case mgerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case mgerrors.ErrCodeInvalidDocument:
		return http.StatusUnprocessableEntity
	case mgerrors.ErrCodeNodeNotFound, mgerrors.ErrCodeEdgeNotFound, mgerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case mgerrors.ErrCodeDuplicateID, mgerrors.ErrCodeLayoutPrecondition:
		return http.StatusConflict
	case mgerrors.ErrCodeBackend:
		var se *backend.StatusError
		if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 {
			return se.StatusCode
		}
		return http.StatusBadGateway
	case mgerrors.ErrCodeNetwork:
		return http.StatusBadGateway
	case mgerrors.ErrCodeInvalidConfig:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
