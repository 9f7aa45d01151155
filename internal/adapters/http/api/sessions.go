package api

import (
	"context"
	"net/http"

	service "github.com/okian/lineupdesk/internal/app"
)

// SessionDependencies defines the session lifecycle operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (*service.Session, error)
	Session(ctx context.Context, id string) (*service.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleCreate handles POST /api/sessions.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sess.State())
}

// HandleGet handles GET /api/sessions/{id}.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

// HandleDelete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the {id} path value or writes the failure.
func lookup(deps SessionDependencies, w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	sess, err := deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return nil, false
	}
	return sess, true
}
