package main

import (
	"fmt"
	"log/slog"

	"github.com/attune-dev/attune/internal/config"
	"github.com/attune-dev/attune/internal/history"
	sqlitestore "github.com/attune-dev/attune/modules/history/sqlite"
)

// buildStore constructs the configured session store. The returned closer is
// a no-op for the memory backend.
func buildStore(cfg config.HistoryConfig, logger *slog.Logger) (history.Store, func(), error) {
	switch cfg.Backend {
	case "", "memory":
		return history.NewInMemoryStore(), func() {}, nil
	case "sqlite":
		store, db, err := sqlitestore.Open(sqlitestore.Config{
			Path:        cfg.Path,
			WAL:         cfg.WAL,
			BusyTimeout: cfg.BusyTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		closer := func() {
			if err := db.Close(); err != nil {
				logger.Error("closing sqlite store", "error", err)
			}
		}
		return store, closer, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
