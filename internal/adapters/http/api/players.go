package api

import (
	"context"
	"net/http"
	"strconv"

	service "github.com/okian/lineupdesk/internal/app"
	"github.com/okian/lineupdesk/internal/domain/query"
)

// PlayersHandler handles the session player browser.
type PlayersHandler struct {
	deps SessionDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps SessionDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandlePage handles GET /api/sessions/{id}/players.
func (h *PlayersHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Players())
}

// HandleFilters handles PUT /api/sessions/{id}/filters.
func (h *PlayersHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_filters"
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	var c query.Criteria
	if err := decodeJSON(op, r, &c); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.SetCriteria(c))
}

type pageRequest struct {
	Page int `json:"page"`
}

// HandleGoto handles PUT /api/sessions/{id}/page.
func (h *PlayersHandler) HandleGoto(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_page"
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	var req pageRequest
	if err := decodeJSON(op, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.SetPage(req.Page))
}

type selectionRequest struct {
	Action string   `json:"action"`
	Names  []string `json:"names"`
}

type selectionResponse struct {
	Selected int `json:"selected"`
}

// HandleSelection handles POST /api/sessions/{id}/selection.
func (h *PlayersHandler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_players"
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := decodeJSON(op, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	n, err := sess.UpdateSelection(req.Action, req.Names)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{Selected: n})
}

// BrowseDependencies fetches backend player lists.
type BrowseDependencies interface {
	BrowsePlayers(ctx context.Context, sport string, c query.Criteria, page int) (service.BrowseResult, error)
}

// BrowseHandler handles stateless player list requests.
type BrowseHandler struct {
	deps BrowseDependencies
}

// NewBrowseHandler creates a new browse handler.
func NewBrowseHandler(deps BrowseDependencies) *BrowseHandler {
	return &BrowseHandler{deps: deps}
}

// HandleBrowse handles GET /api/players/{sport}. Filters come from the
// search, position, team, sort, desc and page query parameters.
func (h *BrowseHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	const op = "api.browse_players"
	q := r.URL.Query()
	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		page = n
	}
	desc, _ := strconv.ParseBool(q.Get("desc"))
	c := query.Criteria{
		Search:   q.Get("search"),
		Position: q.Get("position"),
		Team:     q.Get("team"),
		Sort:     query.SortKey(q.Get("sort")),
		Desc:     desc,
	}
	res, err := h.deps.BrowsePlayers(r.Context(), r.PathValue("sport"), c, page)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
