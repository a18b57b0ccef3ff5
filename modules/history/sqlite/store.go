// Package sqlite implements a persistent history.Store backed by SQLite.
// It uses modernc.org/sqlite (pure Go, no CGO) with WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/attune-dev/attune/internal/history"
	"github.com/attune-dev/attune/pkg/affect"
	"github.com/attune-dev/attune/pkg/chat"
)

// timeLayout is the stored timestamp format, UTC with millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store implements history.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Compile-time interface guard.
var _ history.Store = (*Store)(nil)

// Append adds a message to the session's history. The sequence number is
// assigned inside the insert so append order is preserved without a separate
// counter.
func (s *Store) Append(sessionID string, msg chat.Message) error {
	_, err := s.db.ExecContext(context.TODO(), `
		INSERT INTO messages (session_id, seq, role, content, created_at)
		VALUES (?, COALESCE((SELECT MAX(seq) FROM messages WHERE session_id = ?), 0) + 1, ?, ?, ?)`,
		sessionID, sessionID,
		string(msg.Role), msg.Content, formatTime(msg.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append message: %w", err)
	}
	return s.touch(sessionID)
}

// GetAll returns all messages for a session in chronological order.
func (s *Store) GetAll(sessionID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(context.TODO(), `
		SELECT role, content, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get all: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: get all rows: %w", err)
	}
	return msgs, nil
}

// GetRecent returns the n most recent messages for a session.
func (s *Store) GetRecent(sessionID string, n int) ([]chat.Message, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(context.TODO(), `
		SELECT role, content, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY seq DESC
		LIMIT ?`,
		sessionID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []chat.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: get recent rows: %w", err)
	}

	// Reverse to chronological order.
	slices.Reverse(msgs)
	return msgs, nil
}

// Len returns the number of messages stored for a session.
func (s *Store) Len(sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(context.TODO(),
		"SELECT COUNT(*) FROM messages WHERE session_id = ?", sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count messages: %w", err)
	}
	return count, nil
}

// AppendSnapshot records one analysis result for a session.
func (s *Store) AppendSnapshot(sessionID string, snap affect.Snapshot) error {
	_, err := s.db.ExecContext(context.TODO(), `
		INSERT INTO analyses (session_id, seq, emotion, valence, arousal, dominance, confidence, risk, created_at)
		VALUES (?, COALESCE((SELECT MAX(seq) FROM analyses WHERE session_id = ?), 0) + 1, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, sessionID,
		string(snap.Emotion),
		snap.VAD.Valence, snap.VAD.Arousal, snap.VAD.Dominance,
		snap.Confidence, string(snap.Risk),
		formatTime(snap.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append snapshot: %w", err)
	}
	return s.touch(sessionID)
}

// RecentSnapshots returns the n most recent snapshots, oldest first.
// n <= 0 returns all snapshots.
func (s *Store) RecentSnapshots(sessionID string, n int) ([]affect.Snapshot, error) {
	query := `
		SELECT emotion, valence, arousal, dominance, confidence, risk, created_at
		FROM analyses
		WHERE session_id = ?
		ORDER BY seq DESC`
	args := []any{sessionID}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.QueryContext(context.TODO(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snaps []affect.Snapshot
	for rows.Next() {
		var (
			snap      affect.Snapshot
			emotion   string
			risk      string
			createdAt string
		)
		if err := rows.Scan(&emotion, &snap.VAD.Valence, &snap.VAD.Arousal, &snap.VAD.Dominance, &snap.Confidence, &risk, &createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan snapshot: %w", err)
		}
		snap.Emotion = affect.EmotionTag(emotion)
		snap.Risk = affect.RiskLevel(risk)
		snap.Timestamp = parseTime(createdAt)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: snapshot rows: %w", err)
	}

	slices.Reverse(snaps)
	return snaps, nil
}

// Sessions lists all known sessions with message counts.
func (s *Store) Sessions() ([]history.SessionInfo, error) {
	rows, err := s.db.QueryContext(context.TODO(), `
		SELECT s.id, s.last_activity, COUNT(m.seq)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []history.SessionInfo
	for rows.Next() {
		var (
			info         history.SessionInfo
			lastActivity string
		)
		if err := rows.Scan(&info.ID, &lastActivity, &info.Messages); err != nil {
			return nil, fmt.Errorf("sqlite: scan session: %w", err)
		}
		info.LastActivity = parseTime(lastActivity)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: session rows: %w", err)
	}
	return infos, nil
}

// Purge removes all data for a session.
func (s *Store) Purge(sessionID string) error {
	tx, err := s.db.BeginTx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin purge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"messages", "analyses"} {
		if _, err := tx.ExecContext(context.TODO(), "DELETE FROM "+table+" WHERE session_id = ?", sessionID); err != nil {
			return fmt.Errorf("sqlite: purge %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(context.TODO(), "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("sqlite: purge session: %w", err)
	}

	return tx.Commit()
}

// PurgeIdle removes sessions idle since before cutoff.
func (s *Store) PurgeIdle(cutoff time.Time) (int, error) {
	rows, err := s.db.QueryContext(context.TODO(),
		"SELECT id FROM sessions WHERE last_activity < ?", formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: find idle sessions: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("sqlite: scan idle session: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("sqlite: idle session rows: %w", err)
	}
	_ = rows.Close()

	for _, id := range ids {
		if err := s.Purge(id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// touch records activity for a session, creating it if needed.
func (s *Store) touch(sessionID string) error {
	_, err := s.db.ExecContext(context.TODO(), `
		INSERT INTO sessions (id, last_activity)
		VALUES (?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(id) DO UPDATE SET last_activity = excluded.last_activity`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: touch session: %w", err)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(sc scanner) (chat.Message, error) {
	var (
		msg       chat.Message
		role      string
		createdAt string
	)
	if err := sc.Scan(&role, &msg.Content, &createdAt); err != nil {
		return msg, fmt.Errorf("sqlite: scan message: %w", err)
	}
	msg.Role = chat.Role(role)
	msg.Timestamp = parseTime(createdAt)
	return msg, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

// parseTime tolerates both our layout and plain RFC3339; an unparsable value
// degrades to the zero time rather than failing the read.
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
