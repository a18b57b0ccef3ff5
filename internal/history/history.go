// Package history provides session storage interfaces for conversation
// messages and analysis snapshots, with an in-memory implementation.
// Persistent backends live under modules/history.
package history

import (
	"time"

	"github.com/attune-dev/attune/pkg/affect"
	"github.com/attune-dev/attune/pkg/chat"
)

// SessionInfo summarizes one stored session.
type SessionInfo struct {
	ID           string    `json:"id"`
	Messages     int       `json:"messages"`
	LastActivity time.Time `json:"lastActivity"`
}

// Store manages per-session conversation history and analysis snapshots.
// Implementations must be safe for concurrent use and must preserve message
// append order exactly.
type Store interface {
	// Append adds a message to the session's history.
	Append(sessionID string, msg chat.Message) error

	// GetAll returns all messages for a session, oldest first.
	GetAll(sessionID string) ([]chat.Message, error)

	// GetRecent returns the n most recent messages for a session.
	// If fewer than n messages exist, all messages are returned.
	GetRecent(sessionID string, n int) ([]chat.Message, error)

	// Len returns the number of messages stored for a session.
	Len(sessionID string) (int, error)

	// AppendSnapshot records one analysis result for a session.
	AppendSnapshot(sessionID string, snap affect.Snapshot) error

	// RecentSnapshots returns the n most recent snapshots, oldest first.
	// n <= 0 returns all snapshots.
	RecentSnapshots(sessionID string, n int) ([]affect.Snapshot, error)

	// Sessions lists all known sessions.
	Sessions() ([]SessionInfo, error)

	// Purge removes all data for a session.
	Purge(sessionID string) error

	// PurgeIdle removes every session whose last activity predates cutoff
	// and returns how many were removed.
	PurgeIdle(cutoff time.Time) (int, error)
}
