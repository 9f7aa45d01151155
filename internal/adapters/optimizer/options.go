package optimizer

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/lineupdesk/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithTargets sets the ordered candidate base URLs. The first is primary.
func WithTargets(targets ...string) Option {
	return func(c *Client) {
		var out []string
		for _, t := range targets {
			if t = strings.TrimRight(strings.TrimSpace(t), "/"); t != "" {
				out = append(out, t)
			}
		}
		if len(out) > 0 {
			c.targets = out
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithFetchTimeout bounds each players request.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithMaxResponseBytes caps how much of a response body is read.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponse = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
