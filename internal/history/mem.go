package history

import (
	"sort"
	"sync"
	"time"

	"github.com/attune-dev/attune/pkg/affect"
	"github.com/attune-dev/attune/pkg/chat"
)

// sessionData holds the messages and snapshots for a single session.
type sessionData struct {
	messages     []chat.Message
	snapshots    []affect.Snapshot
	lastActivity time.Time
}

// InMemoryStore is a thread-safe, in-memory implementation of Store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionData
	now      func() time.Time
}

// NewInMemoryStore creates a new empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*sessionData),
		now:      time.Now,
	}
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

func (s *InMemoryStore) getOrCreate(sessionID string) *sessionData {
	sd, ok := s.sessions[sessionID]
	if !ok {
		sd = &sessionData{}
		s.sessions[sessionID] = sd
	}
	return sd
}

// Append adds a message to the session's history.
func (s *InMemoryStore) Append(sessionID string, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd := s.getOrCreate(sessionID)
	sd.messages = append(sd.messages, msg)
	sd.lastActivity = s.now()
	return nil
}

// GetAll returns all messages for a session, oldest first.
func (s *InMemoryStore) GetAll(sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	result := make([]chat.Message, len(sd.messages))
	copy(result, sd.messages)
	return result, nil
}

// GetRecent returns the n most recent messages for a session.
func (s *InMemoryStore) GetRecent(sessionID string, n int) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	msgs := sd.messages
	if n >= len(msgs) {
		result := make([]chat.Message, len(msgs))
		copy(result, msgs)
		return result, nil
	}
	result := make([]chat.Message, n)
	copy(result, msgs[len(msgs)-n:])
	return result, nil
}

// Len returns the number of messages stored for a session.
func (s *InMemoryStore) Len(sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.sessions[sessionID]
	if !ok {
		return 0, nil
	}
	return len(sd.messages), nil
}

// AppendSnapshot records one analysis result for a session.
func (s *InMemoryStore) AppendSnapshot(sessionID string, snap affect.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd := s.getOrCreate(sessionID)
	sd.snapshots = append(sd.snapshots, snap)
	sd.lastActivity = s.now()
	return nil
}

// RecentSnapshots returns the n most recent snapshots, oldest first.
func (s *InMemoryStore) RecentSnapshots(sessionID string, n int) ([]affect.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	snaps := sd.snapshots
	if n > 0 && n < len(snaps) {
		snaps = snaps[len(snaps)-n:]
	}
	result := make([]affect.Snapshot, len(snaps))
	copy(result, snaps)
	return result, nil
}

// Sessions lists all known sessions, sorted by ID for stable output.
func (s *InMemoryStore) Sessions() ([]SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]SessionInfo, 0, len(s.sessions))
	for id, sd := range s.sessions {
		out = append(out, SessionInfo{
			ID:           id,
			Messages:     len(sd.messages),
			LastActivity: sd.lastActivity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Purge removes all data for a session.
func (s *InMemoryStore) Purge(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// PurgeIdle removes sessions idle since before cutoff.
func (s *InMemoryStore) PurgeIdle(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sd := range s.sessions {
		if sd.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
