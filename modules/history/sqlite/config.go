package sqlite

import "fmt"

const (
	defaultBusyTimeout = 5000
	defaultDBFile      = "attune.db"
)

// Config tunes the SQLite session store.
type Config struct {
	// Path locates the database file. Empty means ./attune.db.
	Path string `yaml:"path"`

	// WAL selects the WAL journal mode. Unset means enabled; WAL lets
	// readers proceed while a write is in flight.
	WAL *bool `yaml:"wal"`

	// BusyTimeout is how long, in milliseconds, a statement waits on a
	// locked database before failing.
	BusyTimeout int `yaml:"busy_timeout"`
}

func (c *Config) defaults() {
	if c.WAL == nil {
		enabled := true
		c.WAL = &enabled
	}
	if c.BusyTimeout == 0 {
		c.BusyTimeout = defaultBusyTimeout
	}
}

func (c *Config) walEnabled() bool {
	return c.WAL == nil || *c.WAL
}

func (c *Config) validate() error {
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy_timeout must be non-negative, got %d", c.BusyTimeout)
	}
	return nil
}
