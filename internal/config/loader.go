package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that locate configuration sources.
const (
	EnvPrefix  = "DFS_"
	EnvConfig  = "DFS_CONFIG"
	EnvDotFile = "DFS_ENV_FILE"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if DFS_CONFIG is set
//  3. env (prefix DFS_), including values from a .env file
//
// Variables already present in the process environment win over the
// .env file. A missing .env file is not an error unless DFS_ENV_FILE
// names it explicitly.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: DFS_ADDR, DFS_BACKEND_URLS, ...
	// Map env keys like DFS_SUBMIT_TIMEOUT -> submit_timeout (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() error {
	path, explicit := os.LookupEnv(EnvDotFile)
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	return nil
}

func (c *Config) normalize() {
	urls := make([]string, 0, len(c.BackendURLs))
	for _, u := range c.BackendURLs {
		for _, part := range strings.Split(u, ",") {
			if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
				urls = append(urls, part)
			}
		}
	}
	c.BackendURLs = urls
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.ArchiveDriver = strings.ToLower(strings.TrimSpace(c.ArchiveDriver))
	c.ArchiveDSN = strings.TrimSpace(c.ArchiveDSN)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case !slices.Contains([]string{"text", "json"}, c.LogFormat):
		return invalid("log_format must be text or json, got %q", c.LogFormat)
	case len(c.BackendURLs) == 0:
		return invalid("backend_urls must list at least one URL")
	case strings.TrimSpace(c.Objective) == "":
		return invalid("objective must not be empty")
	case c.SubmitTimeout <= 0 || c.FetchTimeout <= 0:
		return invalid("submit_timeout and fetch_timeout must be positive")
	case c.SessionTTL <= 0 || c.SessionSweepInterval <= 0:
		return invalid("session_ttl and session_sweep_interval must be positive")
	case c.PageSize <= 0 || c.BrowsePageSize <= 0:
		return invalid("page_size and browse_page_size must be positive")
	case c.MaxUploadBytes <= 0 || c.MaxResponseBytes <= 0:
		return invalid("max_upload_bytes and max_response_bytes must be positive")
	case c.MaxSessions <= 0:
		return invalid("max_sessions must be positive")
	case c.MaxInFlight < 0:
		return invalid("max_in_flight must not be negative")
	case c.ArchiveEnabled() && !slices.Contains([]string{"sqlite", "postgres"}, c.ArchiveDriver):
		return invalid("archive_driver must be sqlite or postgres, got %q", c.ArchiveDriver)
	}
	for _, raw := range c.BackendURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("backend url %q must be an absolute http(s) URL", raw)
		}
	}
	return nil
}
