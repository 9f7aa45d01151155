// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/lineupdesk/internal/adapters/optimizer"
	service "github.com/okian/lineupdesk/internal/app"
	"github.com/okian/lineupdesk/internal/domain/constraints"
	"github.com/okian/lineupdesk/pkg/metrics"
)

// DefaultMaxUploadBytes bounds pool uploads.
const DefaultMaxUploadBytes = 32 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	SessionDependencies
	BrowseDependencies
	ArchiveDependencies
	StatsProvider
}

// Server wires HTTP routes for the workbench API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionHandler  *SessionHandler
	poolHandler     *PoolHandler
	playersHandler  *PlayersHandler
	settingsHandler *SettingsHandler
	optimizeHandler *OptimizeHandler
	lineupsHandler  *LineupsHandler
	browseHandler   *BrowseHandler
	archiveHandler  *ArchiveHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
}

// WithMaxUploadBytes bounds the accepted pool upload size.
func WithMaxUploadBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	cfg := serverConfig{maxUploadBytes: DefaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		sessionHandler:  NewSessionHandler(deps),
		poolHandler:     NewPoolHandler(deps, cfg.maxUploadBytes),
		playersHandler:  NewPlayersHandler(deps),
		settingsHandler: NewSettingsHandler(deps),
		optimizeHandler: NewOptimizeHandler(deps),
		lineupsHandler:  NewLineupsHandler(deps),
		browseHandler:   NewBrowseHandler(deps),
		archiveHandler:  NewArchiveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /api/sessions", "sessions.create", s.sessionHandler.HandleCreate)
	route("GET /api/sessions/{id}", "sessions.get", s.sessionHandler.HandleGet)
	route("DELETE /api/sessions/{id}", "sessions.delete", s.sessionHandler.HandleDelete)

	route("POST /api/sessions/{id}/pool", "pool.upload", s.poolHandler.HandleUpload)

	route("GET /api/sessions/{id}/players", "players.page", s.playersHandler.HandlePage)
	route("PUT /api/sessions/{id}/filters", "players.filters", s.playersHandler.HandleFilters)
	route("PUT /api/sessions/{id}/page", "players.goto", s.playersHandler.HandleGoto)
	route("POST /api/sessions/{id}/selection", "players.selection", s.playersHandler.HandleSelection)

	route("GET /api/sessions/{id}/settings", "settings.get", s.settingsHandler.HandleGet)
	route("PUT /api/sessions/{id}/settings", "settings.put", s.settingsHandler.HandlePut)

	route("POST /api/sessions/{id}/optimize", "optimize.submit", s.optimizeHandler.HandleSubmit)
	route("DELETE /api/sessions/{id}/optimize", "optimize.cancel", s.optimizeHandler.HandleCancel)

	route("GET /api/sessions/{id}/lineups", "lineups.list", s.lineupsHandler.HandleList)
	route("GET /api/sessions/{id}/lineups/current", "lineups.current", s.lineupsHandler.HandleCurrent)
	route("POST /api/sessions/{id}/lineups/next", "lineups.next", s.lineupsHandler.HandleNext)
	route("POST /api/sessions/{id}/lineups/previous", "lineups.previous", s.lineupsHandler.HandlePrevious)
	route("PUT /api/sessions/{id}/lineups/cursor", "lineups.cursor", s.lineupsHandler.HandleCursor)
	route("GET /api/sessions/{id}/lineups/current/export", "lineups.export", s.lineupsHandler.HandleExport)
	route("POST /api/sessions/{id}/lineups/current/save", "lineups.save", s.lineupsHandler.HandleSave)

	route("GET /api/players/{sport}", "players.browse", s.browseHandler.HandleBrowse)

	route("GET /api/archive", "archive.list", s.archiveHandler.HandleList)
	route("GET /api/archive/{id}", "archive.get", s.archiveHandler.HandleGet)
	route("GET /api/archive/{id}/export", "archive.export", s.archiveHandler.HandleExport)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		metrics.RecordErrorByComponent("http", "encode")
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and code and writes it.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func decodeJSON(op string, r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// classify maps service, optimizer and request errors onto an HTTP status
// and a stable error code.
func classify(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusConflict, "cancelled"
	case errors.Is(err, optimizer.ErrContract):
		return http.StatusBadGateway, "contract"
	case errors.Is(err, optimizer.ErrTransport):
		return http.StatusBadGateway, "transport"
	case errors.As(err, &maxBytes), errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, service.ErrUserInput), errors.Is(err, constraints.ErrInvalid),
		errors.Is(err, ErrBadRequest), errors.Is(err, ErrEmptyUpload):
		return http.StatusBadRequest, "user_input"
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSavedNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoLineups):
		return http.StatusNotFound, "no_lineups"
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, "archive_disabled"
	case errors.Is(err, service.ErrTooManySessions), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
