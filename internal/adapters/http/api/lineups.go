package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/lineupdesk/internal/adapters/archive"
	"github.com/okian/lineupdesk/internal/domain/export"
	"github.com/okian/lineupdesk/internal/domain/results"
)

// LineupDependencies defines the lineup operations beyond the session.
type LineupDependencies interface {
	SessionDependencies
	SaveLineup(ctx context.Context, id, label string) (archive.Record, error)
}

// LineupsHandler handles navigation over generated lineups.
type LineupsHandler struct {
	deps LineupDependencies
}

// NewLineupsHandler creates a new lineups handler.
func NewLineupsHandler(deps LineupDependencies) *LineupsHandler {
	return &LineupsHandler{deps: deps}
}

type summariesResponse struct {
	Cursor  int               `json:"cursor"`
	Lineups []results.Summary `json:"lineups"`
}

// HandleList handles GET /api/sessions/{id}/lineups.
func (h *LineupsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summariesResponse{
		Cursor:  sess.State().Cursor,
		Lineups: sess.LineupSummaries(),
	})
}

// HandleCurrent handles GET /api/sessions/{id}/lineups/current.
func (h *LineupsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeView(w)(sess.CurrentLineup())
}

// HandleNext handles POST /api/sessions/{id}/lineups/next.
func (h *LineupsHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeView(w)(sess.NextLineup())
}

// HandlePrevious handles POST /api/sessions/{id}/lineups/previous.
func (h *LineupsHandler) HandlePrevious(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeView(w)(sess.PreviousLineup())
}

type cursorRequest struct {
	Index int `json:"index"`
}

// HandleCursor handles PUT /api/sessions/{id}/lineups/cursor.
func (h *LineupsHandler) HandleCursor(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_cursor"
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	var req cursorRequest
	if err := decodeJSON(op, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	writeView(w)(sess.SelectLineup(req.Index))
}

// HandleExport handles GET /api/sessions/{id}/lineups/current/export.
func (h *LineupsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	body, err := sess.Export()
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeCSV(w, body)
}

type saveRequest struct {
	Label string `json:"label"`
}

// HandleSave handles POST /api/sessions/{id}/lineups/current/save. The
// body is optional.
func (h *LineupsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_lineup"
	var req saveRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(op, r, &req); err != nil {
			writeFailure(w, err)
			return
		}
	}
	rec, err := h.deps.SaveLineup(r.Context(), r.PathValue("id"), strings.TrimSpace(req.Label))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func writeView(w http.ResponseWriter) func(results.View, error) {
	return func(v results.View, err error) {
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func writeCSV(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
