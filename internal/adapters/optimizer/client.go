// Package optimizer talks to the external lineup optimization backend.
//
// Two calls are supported: fetching a sport's player list and submitting a
// pool for batch lineup generation. Every failure is returned as *Error and
// can be classified with errors.Is(err, ErrTransport) or ErrContract.
package optimizer

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/lineupdesk/pkg/logger"
	"github.com/okian/lineupdesk/pkg/metrics"
)

// DefaultTarget is used when no target is configured.
const DefaultTarget = "http://localhost:8000"

const (
	defaultFetchTimeout = 15 * time.Second
	defaultMaxResponse  = 64 << 20
	requestIDHeader     = "X-Request-ID"
	userAgent           = "lineupdesk/1"
)

// Client calls the optimization backend. It is safe for concurrent use.
type Client struct {
	targets      []string
	http         *http.Client
	fetchTimeout time.Duration
	maxResponse  int64
	log          logger.Logger
}

// New builds a Client. Without WithTargets it talks to DefaultTarget.
func New(opts ...Option) *Client {
	c := &Client{
		targets:      []string{DefaultTarget},
		http:         &http.Client{},
		fetchTimeout: defaultFetchTimeout,
		maxResponse:  defaultMaxResponse,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Targets returns the candidate base URLs in order.
func (c *Client) Targets() []string {
	return append([]string(nil), c.targets...)
}

// Primary returns the target used for submissions.
func (c *Client) Primary() string { return c.targets[0] }

// readBody reads at most maxResponse bytes and reports non-2xx statuses as
// transport failures carrying the upstream body text.
func (c *Client) readBody(op, target string, resp *http.Response) ([]byte, *Error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse))
	if err != nil {
		return nil, transportErr(op, target, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("backend error: %d", resp.StatusCode)
		}
		return nil, &Error{Kind: ErrTransport, Op: op, Target: target, Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}

func outcomeOf(e *Error) string {
	switch {
	case e == nil:
		return metrics.OutcomeOK
	case e.Kind == ErrContract:
		return metrics.OutcomeContract
	default:
		return metrics.OutcomeTransport
	}
}
