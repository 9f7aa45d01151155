package optimizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/lineupdesk/internal/domain/model"
	"github.com/okian/lineupdesk/pkg/logger"
	"github.com/okian/lineupdesk/pkg/metrics"
)

// Players is a sport's player list as served by one backend target.
type Players struct {
	Sport   string
	Target  string
	Players model.Pool
}

type playersResponse struct {
	Status  string               `json:"status"`
	Message string               `json:"message"`
	Players []model.PlayerRecord `json:"players"`
}

// FetchPlayers loads the player list for sport, trying each target in
// order until one answers. Every failed attempt is logged and, when all
// fail, reported in the returned error.
func (c *Client) FetchPlayers(ctx context.Context, sport string) (Players, error) {
	const op = "optimizer.fetch_players"
	sport = strings.ToUpper(strings.TrimSpace(sport))
	if sport == "" {
		return Players{}, contractErr(op, "", "sport is required")
	}

	var attempts []Attempt
	var last *Error
	for _, target := range c.targets {
		players, err := c.fetchFrom(ctx, op, target, sport)
		metrics.RecordBackendAttempt("players", target, outcomeOf(err))
		if err == nil {
			if len(attempts) > 0 {
				c.log.Info(ctx, "players served by fallback target",
					logger.String("target", target), logger.Int("failedAttempts", len(attempts)))
			}
			return Players{Sport: sport, Target: target, Players: players}, nil
		}
		last = err
		attempts = append(attempts, Attempt{Target: target, Err: err})
		c.log.Warn(ctx, "players fetch failed",
			logger.String("target", target), logger.String("sport", sport), logger.Error(err))
		if ctx.Err() != nil {
			break
		}
	}

	return Players{}, &Error{
		Kind:     last.Kind,
		Op:       op,
		Target:   last.Target,
		Status:   last.Status,
		Message:  fmt.Sprintf("all %d backend targets failed", len(attempts)),
		Attempts: attempts,
		Err:      last.Err,
	}
}

func (c *Client) fetchFrom(ctx context.Context, op, target, sport string) (model.Pool, *Error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	endpoint := target + "/players/" + url.PathEscape(sport)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, transportErr(op, target, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportErr(op, target, err)
	}
	body, e := c.readBody(op, target, resp)
	if e != nil {
		return nil, e
	}

	var out playersResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Kind: ErrContract, Op: op, Target: target, Message: "players response is not a JSON object", Err: err}
	}
	if strings.EqualFold(out.Status, "error") {
		msg := out.Message
		if msg == "" {
			msg = "backend reported an error"
		}
		return nil, contractErr(op, target, msg)
	}
	return model.Pool(out.Players), nil
}
