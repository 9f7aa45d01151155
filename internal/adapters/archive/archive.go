// Package archive persists saved lineups in SQLite or PostgreSQL.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/okian/lineupdesk/internal/domain/model"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MaxListLimit bounds List.
const MaxListLimit = 500

// Record is one saved lineup.
type Record struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId"`
	Label     string       `json:"label"`
	Sport     string       `json:"sport"`
	Salary    int          `json:"salary"`
	Points    float64      `json:"points"`
	Players   int          `json:"players"`
	Lineup    model.Lineup `json:"lineup,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Archive stores lineups in a SQL database.
type Archive struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to dsn with driver ("sqlite" or "postgres"), verifies the
// connection and creates the schema.
func Open(ctx context.Context, driver, dsn string) (*Archive, error) {
	driver, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s archive: %w", driver, err)
	}
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s archive: %w", driver, err)
	}
	a := New(db, driver)
	if err := a.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// New wraps an existing connection. The schema is not created.
func New(db *sql.DB, driver string) *Archive {
	return &Archive{db: db, driver: driver, now: time.Now}
}

func normalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Driver returns the normalized driver name.
func (a *Archive) Driver() string { return a.driver }

// Close closes the database.
func (a *Archive) Close() error { return a.db.Close() }

// rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (a *Archive) rebind(q string) string {
	if a.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save stores r.Lineup and returns the stored record with its id and
// timestamp filled in. Totals are always derived from the lineup.
func (a *Archive) Save(ctx context.Context, r Record) (Record, error) {
	if len(r.Lineup) == 0 {
		return Record{}, ErrEmptyLineup
	}
	players, err := json.Marshal(r.Lineup)
	if err != nil {
		return Record{}, fmt.Errorf("encode lineup: %w", err)
	}
	r.ID = uuid.NewString()
	r.CreatedAt = a.now().UTC().Truncate(time.Millisecond)
	r.Salary = r.Lineup.Salary()
	r.Points = r.Lineup.Points()
	r.Players = len(r.Lineup)

	_, err = a.db.ExecContext(ctx, a.rebind(`
		INSERT INTO saved_lineup (id, session_id, label, sport, salary, points, player_count, players, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.ID, r.SessionID, r.Label, r.Sport, r.Salary, r.Points, r.Players, string(players), r.CreatedAt.UnixMilli())
	if err != nil {
		return Record{}, fmt.Errorf("insert saved lineup: %w", err)
	}
	return r, nil
}

// List returns up to limit records, newest first, without their lineups.
func (a *Archive) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > MaxListLimit {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidLimit, limit, MaxListLimit)
	}
	rows, err := a.db.QueryContext(ctx, a.rebind(`
		SELECT id, session_id, label, sport, salary, points, player_count, created_at
		FROM saved_lineup
		ORDER BY created_at DESC, id
		LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list saved lineups: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Label, &r.Sport, &r.Salary, &r.Points, &r.Players, &created); err != nil {
			return nil, fmt.Errorf("scan saved lineup: %w", err)
		}
		r.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns the record with id, including its lineup.
func (a *Archive) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	var created int64
	var players string
	err := a.db.QueryRowContext(ctx, a.rebind(`
		SELECT id, session_id, label, sport, salary, points, player_count, players, created_at
		FROM saved_lineup WHERE id = ?`), id).
		Scan(&r.ID, &r.SessionID, &r.Label, &r.Sport, &r.Salary, &r.Points, &r.Players, &players, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get saved lineup: %w", err)
	}
	if err := json.Unmarshal([]byte(players), &r.Lineup); err != nil {
		return Record{}, fmt.Errorf("decode saved lineup %s: %w", id, err)
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	return r, nil
}
