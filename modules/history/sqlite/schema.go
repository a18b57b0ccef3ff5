package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaVersion = 1

// ddl creates the session, message, and analysis tables. Every statement is
// IF NOT EXISTS so re-running the set is harmless.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id            TEXT PRIMARY KEY,
		last_activity TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		session_id TEXT    NOT NULL,
		seq        INTEGER NOT NULL,
		role       TEXT    NOT NULL,
		content    TEXT    NOT NULL DEFAULT '',
		created_at TEXT    NOT NULL,
		PRIMARY KEY (session_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, seq)`,

	`CREATE TABLE IF NOT EXISTS analyses (
		session_id TEXT    NOT NULL,
		seq        INTEGER NOT NULL,
		emotion    TEXT    NOT NULL,
		valence    REAL    NOT NULL,
		arousal    REAL    NOT NULL,
		dominance  REAL    NOT NULL,
		confidence REAL    NOT NULL,
		risk       TEXT    NOT NULL,
		created_at TEXT    NOT NULL,
		PRIMARY KEY (session_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_analyses_session ON analyses(session_id, seq)`,
}

// migrate brings the database up to schemaVersion. Idempotent; a database
// already at or past the target is left untouched.
func migrate(db *sql.DB) error {
	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		return fmt.Errorf("sqlite: create schema_version: %w", err)
	}

	var current int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("sqlite: read schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	for i, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrate statement %d: %w", i, err)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT OR REPLACE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("sqlite: record schema version: %w", err)
	}
	return nil
}
