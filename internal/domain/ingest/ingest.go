// Package ingest turns delimited player files into typed player pools.
//
// Ingestion is deliberately lossy: rows that cannot be used are dropped
// with a warning instead of failing the whole file, and numeric columns
// that do not parse become 0. The only hard failure is input that is not
// text at all.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/okian/lineupdesk/internal/domain/model"
)

// Default parser configuration constants.
const (
	defaultDelimiter   = ','
	defaultMaxWarnings = 1000
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Warning describes a dropped row. Warnings never fail ingestion.
type Warning struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of one ingestion.
type Result struct {
	Players  model.Pool
	Header   []string  // cleaned header cells in file order
	Skipped  int       // rows dropped, including those beyond the warning cap
	Warnings []Warning // at most the configured cap
}

// column binds a header position to a record field.
type column struct {
	field model.Field
	key   string
}

type parser struct {
	delimiter   rune
	maxWarnings int
}

// Parse ingests raw file bytes.
func Parse(data []byte, opts ...Option) (Result, error) {
	p := &parser{
		delimiter:   defaultDelimiter,
		maxWarnings: defaultMaxWarnings,
	}
	for _, opt := range opts {
		opt(p)
	}

	if !isText(data) {
		return Result{}, ErrNotText
	}
	return p.parse(bytes.TrimPrefix(data, utf8BOM))
}

// Read ingests everything r yields.
func Read(r io.Reader, opts ...Option) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Parse(data, opts...)
}

func (p *parser) parse(data []byte) (Result, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = p.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var res Result

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		p.warn(&res, 1, "unreadable header: "+err.Error())
		return res, nil
	}
	columns := bindColumns(header)
	res.Header = make([]string, len(header))
	for i, h := range header {
		res.Header[i] = model.CleanHeader(h)
	}

	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				p.warn(&res, pe.StartLine, "malformed row: "+pe.Err.Error())
				continue
			}
			return Result{}, fmt.Errorf("%w: %w", ErrRead, err)
		}
		if blank(cells) {
			continue
		}

		line, _ := r.FieldPos(0)
		rec := buildRecord(columns, cells)
		if rec.Name == "" {
			p.warn(&res, line, "missing player name")
			continue
		}
		res.Players = append(res.Players, rec)
	}
	return res, nil
}

func (p *parser) warn(res *Result, line int, reason string) {
	res.Skipped++
	if len(res.Warnings) < p.maxWarnings {
		res.Warnings = append(res.Warnings, Warning{Line: line, Reason: reason})
	}
}

// bindColumns resolves header cells. The first header claiming a field wins;
// later duplicates and unrecognised headers are passthrough attributes.
// Empty header cells are ignored.
func bindColumns(header []string) []column {
	columns := make([]column, len(header))
	claimed := make(map[model.Field]bool)
	for i, h := range header {
		key := model.CleanHeader(h)
		if key == "" {
			columns[i] = column{field: model.FieldNone}
			continue
		}
		field := model.FieldOf(key)
		if field != model.FieldNone && claimed[field] {
			field = model.FieldNone
		}
		if field != model.FieldNone {
			claimed[field] = true
		}
		columns[i] = column{field: field, key: key}
	}
	return columns
}

func buildRecord(columns []column, cells []string) model.PlayerRecord {
	var rec model.PlayerRecord
	for i, col := range columns {
		if i >= len(cells) {
			// Short row: recognised fields keep their zero value and
			// passthrough columns stay absent.
			break
		}
		if col.field == model.FieldNone {
			if col.key == "" {
				continue
			}
			if _, dup := rec.Attributes[col.key]; dup {
				continue
			}
		}
		rec.Set(col.field, col.key, strings.TrimSpace(cells[i]))
	}
	return rec
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// isText reports whether data can be treated as delimited text.
func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}
