package api

import (
	"net/http"

	"github.com/okian/lineupdesk/internal/domain/constraints"
)

// SettingsHandler handles the generation settings draft.
type SettingsHandler struct {
	deps SessionDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SessionDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

type settingsResponse struct {
	Settings     constraints.Settings `json:"settings"`
	StackOptions []string             `json:"stackOptions"`
	SortMethods  []string             `json:"sortMethods"`
	RiskProfiles []string             `json:"riskProfiles"`
}

func newSettingsResponse(s constraints.Settings) settingsResponse {
	return settingsResponse{
		Settings:     s,
		StackOptions: constraints.StackOptions,
		SortMethods:  constraints.SortMethods,
		RiskProfiles: []string{
			string(constraints.RiskLow), string(constraints.RiskMedium), string(constraints.RiskHigh),
		},
	}
}

// HandleGet handles GET /api/sessions/{id}/settings.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(sess.Settings()))
}

// HandlePut handles PUT /api/sessions/{id}/settings. Omitted fields keep
// their current values.
func (h *SettingsHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_settings"
	sess, ok := lookup(h.deps, w, r)
	if !ok {
		return
	}
	next := sess.Settings()
	if err := decodeJSON(op, r, &next); err != nil {
		writeFailure(w, err)
		return
	}
	saved, err := sess.UpdateSettings(next)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(saved))
}
