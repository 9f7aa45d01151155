package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/lineupdesk/internal/adapters/archive"
)

const defaultArchiveLimit = 20

// ArchiveDependencies defines read access to saved lineups.
type ArchiveDependencies interface {
	LineupDependencies
	ListSaved(ctx context.Context, limit int) ([]archive.Record, error)
	GetSaved(ctx context.Context, id string) (archive.Record, error)
	ExportSaved(ctx context.Context, id string) (string, error)
}

// ArchiveHandler handles saved lineup requests.
type ArchiveHandler struct {
	deps ArchiveDependencies
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(deps ArchiveDependencies) *ArchiveHandler {
	return &ArchiveHandler{deps: deps}
}

// HandleList handles GET /api/archive?limit=n.
func (h *ArchiveHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_archive"
	limit := defaultArchiveLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		limit = n
	}
	list, err := h.deps.ListSaved(r.Context(), limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /api/archive/{id}.
func (h *ArchiveHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.deps.GetSaved(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleExport handles GET /api/archive/{id}/export.
func (h *ArchiveHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	body, err := h.deps.ExportSaved(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeCSV(w, body)
}
