package service

import (
	"time"

	"github.com/okian/lineupdesk/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOptimizer sets the optimization backend client.
func WithOptimizer(c Client) Option {
	return func(s *Service) {
		if c != nil {
			s.client = c
		}
	}
}

// WithArchive enables saving lineups.
func WithArchive(a Archive) Option {
	return func(s *Service) {
		if a != nil {
			s.archive = a
		}
	}
}

// WithObjective sets the objective label sent with every submission.
func WithObjective(objective string) Option {
	return func(s *Service) {
		if objective != "" {
			s.objective = objective
		}
	}
}

// WithSubmitTimeout bounds each optimization round trip.
func WithSubmitTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.submitTimeout = d
		}
	}
}

// WithMaxInFlight caps concurrent submissions across all sessions.
// n <= 0 means unbounded.
func WithMaxInFlight(n int) Option {
	return func(s *Service) {
		s.maxInFlight = n
	}
}

// WithSessionTTL sets how long an untouched session lives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSweepInterval sets how often idle sessions are collected.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithPageSize sets the session player browser page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithBrowsePageSize sets the page size of BrowsePlayers.
func WithBrowsePageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.browsePageSize = n
		}
	}
}

// WithMaxWarnings caps the ingestion warnings kept per upload.
func WithMaxWarnings(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxWarnings = n
		}
	}
}

// WithClock replaces time.Now for session timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
