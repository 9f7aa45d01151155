package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/lineupdesk/internal/domain/constraints"
	"github.com/okian/lineupdesk/internal/domain/model"
	"github.com/okian/lineupdesk/pkg/logger"
	"github.com/okian/lineupdesk/pkg/metrics"
)

const defaultFilename = "players.csv"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// BatchRequest is one lineup generation submission.
type BatchRequest struct {
	File     []byte
	Filename string
	Wire     constraints.Wire
}

// Batch is a successfully decoded generation result.
type Batch struct {
	RequestID string
	Target    string
	Count     int
	Lineups   []model.Lineup
}

type batchResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Lineups *[]model.Lineup `json:"lineups"`
}

// OptimizeBatch uploads the pool source to the primary target and decodes
// the returned lineups. The call is bounded only by ctx and is never
// retried.
func (c *Client) OptimizeBatch(ctx context.Context, r BatchRequest) (Batch, error) {
	const op = "optimizer.optimize_batch"
	target := c.Primary()
	requestID := uuid.NewString()

	batch, e := c.optimize(ctx, op, target, requestID, r)
	metrics.RecordBackendAttempt("optimize", target, outcomeOf(e))
	if e != nil {
		c.log.Warn(ctx, "optimize batch failed",
			logger.String("target", target), logger.String("requestID", requestID), logger.Error(e))
		return Batch{}, e
	}
	c.log.Info(ctx, "optimize batch completed",
		logger.String("target", target), logger.String("requestID", requestID),
		logger.Int("count", batch.Count), logger.Int("lineups", len(batch.Lineups)))
	return batch, nil
}

func (c *Client) optimize(ctx context.Context, op, target, requestID string, r BatchRequest) (Batch, *Error) {
	body, contentType, err := encodeBatch(r)
	if err != nil {
		return Batch{}, transportErr(op, target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target+"/optimize-batch", body)
	if err != nil {
		return Batch{}, transportErr(op, target, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return Batch{}, transportErr(op, target, err)
	}
	raw, e := c.readBody(op, target, resp)
	if e != nil {
		return Batch{}, e
	}

	var out batchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Batch{}, &Error{Kind: ErrContract, Op: op, Target: target, Message: "response is not valid lineup JSON", Err: err}
	}
	if out.Status != "ok" {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %q", out.Status)
		}
		return Batch{}, contractErr(op, target, msg)
	}
	if out.Lineups == nil {
		return Batch{}, contractErr(op, target, "response has no lineups")
	}

	lineups := *out.Lineups
	for i, l := range lineups {
		for j, p := range l {
			if strings.TrimSpace(p.Name) == "" {
				return Batch{}, contractErr(op, target, fmt.Sprintf("lineup %d player %d has no name", i, j))
			}
		}
	}
	count := len(lineups)
	if out.Count != nil {
		count = *out.Count
	}
	return Batch{RequestID: requestID, Target: target, Count: count, Lineups: lineups}, nil
}

// encodeBatch builds the multipart form the backend expects: the pool file
// plus objective and num_lineups fields.
func encodeBatch(r BatchRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	name := strings.TrimSpace(r.Filename)
	if name == "" {
		name = defaultFilename
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	h.Set("Content-Type", "text/csv")
	fw, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(r.File); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("objective", r.Wire.Objective); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("num_lineups", strconv.Itoa(r.Wire.NumLineups)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
