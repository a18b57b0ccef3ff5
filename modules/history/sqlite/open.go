package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// Open creates or opens the database at cfg.Path, applies pragmas, migrates
// the schema, and returns a Store plus the *sql.DB the caller must close on
// shutdown.
func Open(cfg Config) (*Store, *sql.DB, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Path == "" {
		cfg.Path = defaultDBFile
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}
	// One connection; SQLite serialises writes anyway and a single conn
	// keeps the pragmas session-wide.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db, cfg); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return &Store{db: db}, db, nil
}

func applyPragmas(db *sql.DB, cfg Config) error {
	ctx := context.TODO()

	if cfg.walEnabled() {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("sqlite: enable WAL: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout)); err != nil {
		return fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}
	return nil
}
