// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers files and environment on top of the defaults.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// BackendURLs lists candidate optimization backends. Submissions go to
	// the first; player lookups try each in order.
	BackendURLs []string `koanf:"backend_urls"`

	// Objective is the label sent with every optimization request.
	Objective string `koanf:"objective"`

	// SubmitTimeout bounds one optimization round trip.
	SubmitTimeout time.Duration `koanf:"submit_timeout"`

	// FetchTimeout bounds each player list request per backend.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// MaxInFlight caps concurrent optimization requests; 0 is unbounded.
	MaxInFlight int `koanf:"max_in_flight"`

	// PageSize is the session player browser page size.
	PageSize int `koanf:"page_size"`

	// BrowsePageSize is the page size of GET /api/players/{sport}.
	BrowsePageSize int `koanf:"browse_page_size"`

	// MaxUploadBytes bounds pool uploads.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxResponseBytes bounds backend response bodies.
	MaxResponseBytes int64 `koanf:"max_response_bytes"`

	// SessionTTL is how long an untouched session lives.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// SessionSweepInterval is how often idle sessions are collected.
	SessionSweepInterval time.Duration `koanf:"session_sweep_interval"`

	// MaxSessions caps live sessions.
	MaxSessions int `koanf:"max_sessions"`

	// ArchiveDriver is sqlite or postgres.
	ArchiveDriver string `koanf:"archive_driver"`

	// ArchiveDSN enables the saved lineup archive when set.
	ArchiveDSN string `koanf:"archive_dsn"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New creates a Config with defaults. The context is reserved for
// loaders that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		BackendURLs:          []string{"http://localhost:8000"},
		Objective:            "maximize_points",
		SubmitTimeout:        2 * time.Minute,
		FetchTimeout:         15 * time.Second,
		PageSize:             10,
		BrowsePageSize:       25,
		MaxUploadBytes:       32 << 20,
		MaxResponseBytes:     64 << 20,
		SessionTTL:           30 * time.Minute,
		SessionSweepInterval: time.Minute,
		MaxSessions:          10_000,
		ArchiveDriver:        "sqlite",
		ShutdownTimeout:      30 * time.Second,
	}
}

// ArchiveEnabled reports whether a saved lineup archive is configured.
func (c *Config) ArchiveEnabled() bool { return c.ArchiveDSN != "" }
