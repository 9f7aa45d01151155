package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/lineupdesk/internal/domain/constraints"
	"github.com/okian/lineupdesk/internal/domain/export"
	"github.com/okian/lineupdesk/internal/domain/ingest"
	"github.com/okian/lineupdesk/internal/domain/model"
	"github.com/okian/lineupdesk/internal/domain/query"
	"github.com/okian/lineupdesk/internal/domain/results"
	"github.com/okian/lineupdesk/pkg/logger"
	"github.com/okian/lineupdesk/pkg/metrics"
)

// Session status values.
const (
	StatusIdle    = "idle"
	StatusPending = "pending"
)

// Selection actions.
const (
	SelectAdd    = "add"
	SelectRemove = "remove"
	SelectAll    = "all"
	SelectNone   = "none"
)

// RunInfo describes the configuration and outcome of the last successful
// generation, kept for display.
type RunInfo struct {
	RequestID     string    `json:"requestId"`
	Target        string    `json:"target"`
	Count         int       `json:"count"`
	Sport         string    `json:"sport"`
	NumLineups    int       `json:"numLineups"`
	MinUnique     int       `json:"minUnique"`
	SalaryFloor   int       `json:"minSalary"`
	SalaryCeiling int       `json:"maxSalary"`
	Stacks        []string  `json:"stacks"`
	RiskEnabled   bool      `json:"enableRisk"`
	RiskTier      string    `json:"riskProfile"`
	Bankroll      float64   `json:"bankroll"`
	SortMethod    string    `json:"sortMethod"`
	FinishedAt    time.Time `json:"finishedAt"`
}

// State is a read-only summary of a session.
type State struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Filename  string           `json:"filename,omitempty"`
	PoolSize  int              `json:"poolSize"`
	Skipped   int              `json:"skipped"`
	Warnings  []ingest.Warning `json:"warnings,omitempty"`
	Criteria  query.Criteria   `json:"criteria"`
	Page      int              `json:"page"`
	Selected  int              `json:"selected"`
	Lineups   int              `json:"lineups"`
	Cursor    int              `json:"cursor"`
	LastError string           `json:"lastError,omitempty"`
	LastRun   *RunInfo         `json:"lastRun,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// PlayersView is one page of the session's player browser.
type PlayersView struct {
	query.Page
	Criteria  query.Criteria `json:"criteria"`
	Teams     []string       `json:"teams"`
	Positions []string       `json:"positions"`
	Selected  []string       `json:"selected"`
}

// PoolSummary reports the outcome of loading a pool file.
type PoolSummary struct {
	Filename string           `json:"filename"`
	Players  int              `json:"players"`
	Skipped  int              `json:"skipped"`
	Header   []string         `json:"header"`
	Warnings []ingest.Warning `json:"warnings,omitempty"`
}

// SubmitResult is what a successful submission reports.
type SubmitResult struct {
	Count   int           `json:"count"`
	Lineups int           `json:"lineups"`
	Current *results.View `json:"current,omitempty"`
	Run     RunInfo       `json:"run"`
}

type sessionConfig struct {
	pageSize    int
	objective   string
	maxWarnings int
}

// Session is one user's workbench state. All transitions go through its
// methods, which serialize on a single mutex; the backend call itself runs
// outside the lock so the session stays readable while a request is
// pending.
type Session struct {
	mu  sync.Mutex
	id  string
	cfg sessionConfig
	orc *Orchestrator
	log logger.Logger
	now func() time.Time

	source    Source
	pool      model.Pool
	header    []string
	skipped   int
	warnings  []ingest.Warning
	criteria  query.Criteria
	page      int
	selection map[string]bool
	settings  constraints.Settings
	results   results.Set
	lastRun   *RunInfo
	lastErr   string
	createdAt time.Time
	updatedAt time.Time
}

func newSession(id string, orc *Orchestrator, cfg sessionConfig, log logger.Logger, now func() time.Time) *Session {
	t := now()
	return &Session{
		id:        id,
		cfg:       cfg,
		orc:       orc,
		log:       log,
		now:       now,
		criteria:  query.Criteria{}.Normalize(),
		page:      1,
		selection: map[string]bool{},
		settings:  constraints.DefaultSettings(),
		createdAt: t,
		updatedAt: t,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) touch() { s.updatedAt = s.now() }

// State summarizes the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	status := StatusIdle
	if s.orc.Pending(s.id) {
		status = StatusPending
	}
	st := State{
		ID:        s.id,
		Status:    status,
		Filename:  s.source.Filename,
		PoolSize:  len(s.pool),
		Skipped:   s.skipped,
		Warnings:  append([]ingest.Warning(nil), s.warnings...),
		Criteria:  s.criteria,
		Page:      s.page,
		Selected:  len(s.selection),
		Lineups:   s.results.Len(),
		Cursor:    s.results.Cursor(),
		LastError: s.lastErr,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.lastRun != nil {
		run := *s.lastRun
		st.LastRun = &run
	}
	return st
}

// LoadPool ingests data and replaces the pool wholesale. Filters, page and
// selection are reset; the previous lineups stay until the next run.
func (s *Session) LoadPool(ctx context.Context, filename string, data []byte) (PoolSummary, error) {
	const op = "service.load_pool"
	res, err := ingest.Parse(data, ingest.WithMaxWarnings(s.cfg.maxWarnings))
	if err != nil {
		metrics.RecordErrorByComponent("ingest", "unreadable")
		return PoolSummary{}, fmt.Errorf("%s: %w: %w", op, ErrUserInput, err)
	}
	metrics.RecordIngest(len(res.Players), res.Skipped)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = Source{Filename: strings.TrimSpace(filename), Data: append([]byte(nil), data...)}
	s.pool = res.Players
	s.header = res.Header
	s.skipped = res.Skipped
	s.warnings = res.Warnings
	s.criteria = query.Criteria{}.Normalize()
	s.page = 1
	s.selection = map[string]bool{}
	s.lastErr = ""
	s.touch()

	s.log.Info(ctx, "pool loaded",
		logger.String("session", s.id), logger.String("file", s.source.Filename),
		logger.Int("players", len(res.Players)), logger.Int("skipped", res.Skipped))

	return PoolSummary{
		Filename: s.source.Filename,
		Players:  len(res.Players),
		Skipped:  res.Skipped,
		Header:   res.Header,
		Warnings: res.Warnings,
	}, nil
}

// Players returns the current page of the filtered pool.
func (s *Session) Players() PlayersView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playersLocked()
}

func (s *Session) playersLocked() PlayersView {
	filtered := query.Filter(s.pool, s.criteria)
	s.page = query.ClampPage(s.page, len(filtered), s.cfg.pageSize)
	selected := make([]string, 0, len(s.selection))
	for name := range s.selection {
		selected = append(selected, name)
	}
	sort.Strings(selected)
	return PlayersView{
		Page:      query.Paginate(filtered, s.page, s.cfg.pageSize),
		Criteria:  s.criteria,
		Teams:     query.Teams(s.pool),
		Positions: query.Positions(s.settings.Sport),
		Selected:  selected,
	}
}

// SetCriteria replaces the browser predicates. Any change returns the
// browser to page 1.
func (s *Session) SetCriteria(c query.Criteria) PlayersView {
	s.mu.Lock()
	defer s.mu.Unlock()

	c = c.Normalize()
	if c != s.criteria {
		s.criteria = c
		s.page = 1
		s.touch()
	}
	return s.playersLocked()
}

// SetPage moves the browser to page n, clamped to the available pages.
func (s *Session) SetPage(n int) PlayersView {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(query.Filter(s.pool, s.criteria))
	s.page = query.ClampPage(n, total, s.cfg.pageSize)
	s.touch()
	return s.playersLocked()
}

// UpdateSelection applies a selection action. Names not in the pool are
// ignored. It returns the number of selected players.
func (s *Session) UpdateSelection(action string, names []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inPool := make(map[string]bool, len(s.pool))
	for _, p := range s.pool {
		inPool[p.Name] = true
	}
	switch action {
	case SelectAdd:
		for _, n := range names {
			if inPool[n] {
				s.selection[n] = true
			}
		}
	case SelectRemove:
		for _, n := range names {
			delete(s.selection, n)
		}
	case SelectAll:
		for n := range inPool {
			s.selection[n] = true
		}
	case SelectNone:
		s.selection = map[string]bool{}
	default:
		return len(s.selection), fmt.Errorf("%w: unknown selection action %q", ErrUserInput, action)
	}
	s.touch()
	return len(s.selection), nil
}

// Settings returns a copy of the generation draft.
func (s *Session) Settings() constraints.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// UpdateSettings replaces the draft if it would produce a valid
// configuration; otherwise the previous draft is kept.
func (s *Session) UpdateSettings(next constraints.Settings) (constraints.Settings, error) {
	if _, err := next.Snapshot(s.cfg.objective); err != nil {
		return constraints.Settings{}, fmt.Errorf("%w: %w", ErrUserInput, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if next.Stacks == nil {
		next.Stacks = map[string]bool{constraints.StackNone: true}
	}
	s.settings = next.Clone()
	s.touch()
	return s.settings.Clone(), nil
}

// Submit snapshots the settings and requests lineups for the loaded pool.
// On success the new lineups replace the old ones with the cursor at 0.
func (s *Session) Submit(ctx context.Context) (SubmitResult, error) {
	const op = "service.session_submit"

	s.mu.Lock()
	cfg, err := s.settings.Snapshot(s.cfg.objective)
	if err != nil {
		s.lastErr = err.Error()
		s.mu.Unlock()
		return SubmitResult{}, fmt.Errorf("%s: %w: %w", op, ErrUserInput, err)
	}
	src := s.source
	s.mu.Unlock()

	batch, err := s.orc.Submit(ctx, s.id, src, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if err != nil {
		if !errors.Is(err, ErrBusy) {
			s.lastErr = err.Error()
		}
		return SubmitResult{}, err
	}

	floor, ceiling := cfg.SalaryRange()
	risk := cfg.Risk()
	run := RunInfo{
		RequestID:     batch.RequestID,
		Target:        batch.Target,
		Count:         batch.Count,
		Sport:         cfg.Sport(),
		NumLineups:    cfg.NumLineups(),
		MinUnique:     cfg.MinUnique(),
		SalaryFloor:   floor,
		SalaryCeiling: ceiling,
		Stacks:        cfg.Stacks(),
		RiskEnabled:   risk.Enabled,
		RiskTier:      string(risk.Tier),
		Bankroll:      risk.Bankroll,
		SortMethod:    cfg.SortMethod(),
		FinishedAt:    s.now(),
	}
	s.results.Install(batch.Lineups)
	s.lastRun = &run
	s.lastErr = ""

	out := SubmitResult{Count: batch.Count, Lineups: s.results.Len(), Run: run}
	if view, ok := s.results.Current(); ok {
		out.Current = &view
	}
	return out, nil
}

// Cancel aborts the outstanding submission, if any.
func (s *Session) Cancel() bool {
	return s.orc.Cancel(s.id)
}

// CurrentLineup returns the lineup under the cursor.
func (s *Session) CurrentLineup() (results.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *Session) currentLocked() (results.View, error) {
	v, ok := s.results.Current()
	if !ok {
		return results.View{}, ErrNoLineups
	}
	return v, nil
}

// NextLineup advances the cursor; at the last lineup it stays put.
func (s *Session) NextLineup() (results.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.Next()
	return s.currentLocked()
}

// PreviousLineup moves the cursor back; at the first lineup it stays put.
func (s *Session) PreviousLineup() (results.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results.Previous()
	return s.currentLocked()
}

// SelectLineup jumps to lineup i.
func (s *Session) SelectLineup(i int) (results.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results.Len() == 0 {
		return results.View{}, ErrNoLineups
	}
	if !s.results.Select(i) {
		return results.View{}, fmt.Errorf("%w: lineup %d out of range [0, %d)", ErrUserInput, i, s.results.Len())
	}
	return s.currentLocked()
}

// LineupSummaries lists every lineup's totals in the draft's sort order.
func (s *Session) LineupSummaries() []results.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results.Summaries(s.settings.SortMethod)
}

// Export renders the current lineup as CSV.
func (s *Session) Export() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.currentLocked()
	if err != nil {
		return "", err
	}
	metrics.RecordExport()
	return export.CSV(v.Lineup), nil
}

// sport returns the draft's sport code.
func (s *Session) sport() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.ToUpper(strings.TrimSpace(s.settings.Sport))
}
