package archive

import (
	"context"
	"fmt"
)

// CreateSchema creates the archive tables. Safe to call multiple times.
func (a *Archive) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Column types are chosen to be valid in both SQLite and PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS saved_lineup (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    label TEXT NOT NULL DEFAULT '',
    sport TEXT NOT NULL DEFAULT '',
    salary INTEGER NOT NULL,
    points DOUBLE PRECISION NOT NULL,
    player_count INTEGER NOT NULL,
    players TEXT NOT NULL,
    created_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_lineup_created_at ON saved_lineup(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_lineup_session_id ON saved_lineup(session_id)`,
}
