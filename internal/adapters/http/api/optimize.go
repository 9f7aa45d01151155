package api

import (
	"errors"
	"net/http"

	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	service "github.com/okian/lineupdesk/internal/app"
	"github.com/okian/lineupdesk/internal/domain/results"
)

// Optimize response status tags.
const (
	statusOK    = "ok"
	statusError = "error"
)

// optimizeOK is the "ok" variant. Count and Lineups are always present,
// zero included; Current is omitted when no lineup was returned.
type optimizeOK struct {
	Status  string          `json:"status"`
	Count   int             `json:"count"`
	Lineups int             `json:"lineups"`
	Current *results.View   `json:"current,omitempty"`
	Run     service.RunInfo `json:"run"`
}

// optimizeFailure is the "error" variant; Backend names the target for
// backend failures.
type optimizeFailure struct {
	Status  string `json:"status"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Backend string `json:"backend,omitempty"`
}

type cancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// OptimizeHandler handles lineup generation requests.
type OptimizeHandler struct {
	deps SessionDependencies
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(deps SessionDependencies) *OptimizeHandler {
	return &OptimizeHandler{deps: deps}
}

// HandleSubmit handles POST /api/sessions/{id}/optimize. The request
// blocks until the backend answers, the submit timeout fires or the
// submission is cancelled.
func (h *OptimizeHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	res, err := sess.Submit(r.Context())
	if err != nil {
		status, kind := classify(err)
		body := optimizeFailure{Status: statusError, Kind: kind, Message: err.Error()}
		var oe *optimizer.Error
		if errors.As(err, &oe) {
			body.Backend = oe.Target
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, optimizeOK{
		Status:  statusOK,
		Count:   res.Count,
		Lineups: res.Lineups,
		Current: res.Current,
		Run:     res.Run,
	})
}

// HandleCancel handles DELETE /api/sessions/{id}/optimize.
func (h *OptimizeHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cancelResponse{Cancelled: sess.Cancel()})
}
