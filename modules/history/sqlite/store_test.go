package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/attune-dev/attune/pkg/affect"
	"github.com/attune-dev/attune/pkg/chat"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store
}

func TestStore_AppendPreservesOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		m := chat.Message{
			Role:      chat.RoleUser,
			Content:   fmt.Sprintf("m%d", i),
			Timestamp: time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC),
		}
		if err := s.Append("s1", m); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.GetAll("s1")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i, m := range got {
		if want := fmt.Sprintf("m%d", i); m.Content != want {
			t.Errorf("got[%d] = %q, want %q", i, m.Content, want)
		}
	}
	if got[0].Role != chat.RoleUser {
		t.Errorf("role = %v, want user", got[0].Role)
	}
	if !got[0].Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v, not round-tripped", got[0].Timestamp)
	}
}

func TestStore_GetRecent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		_ = s.Append("s1", chat.Message{Role: chat.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	got, err := s.GetRecent("s1", 2)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(got) != 2 || got[0].Content != "m3" || got[1].Content != "m4" {
		t.Errorf("got %v, want [m3 m4] in chronological order", got)
	}
}

func TestStore_Len(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if n, err := s.Len("s1"); err != nil || n != 0 {
		t.Errorf("Len empty = %d, %v", n, err)
	}
	_ = s.Append("s1", chat.Message{Role: chat.RoleUser, Content: "x"})
	if n, _ := s.Len("s1"); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}

func TestStore_Snapshots(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for i := 0; i < 4; i++ {
		snap := affect.Snapshot{
			Timestamp:  time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC),
			Emotion:    affect.EmotionSad,
			VAD:        affect.VADScore{Valence: 0.2, Arousal: 0.4, Dominance: 0.5},
			Confidence: 0.8,
			Risk:       affect.RiskMedium,
		}
		if err := s.AppendSnapshot("s1", snap); err != nil {
			t.Fatalf("AppendSnapshot: %v", err)
		}
	}

	got, err := s.RecentSnapshots("s1", 2)
	if err != nil {
		t.Fatalf("RecentSnapshots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Oldest first within the window.
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Error("snapshots not in chronological order")
	}
	if got[0].Emotion != affect.EmotionSad || got[0].Risk != affect.RiskMedium {
		t.Errorf("snapshot fields not round-tripped: %+v", got[0])
	}
	if got[0].VAD.Valence != 0.2 || got[0].Confidence != 0.8 {
		t.Errorf("scores not round-tripped: %+v", got[0])
	}

	all, _ := s.RecentSnapshots("s1", 0)
	if len(all) != 4 {
		t.Errorf("n<=0 should return all, got %d", len(all))
	}
}

func TestStore_Sessions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_ = s.Append("beta", chat.Message{Role: chat.RoleUser, Content: "x"})
	_ = s.Append("alpha", chat.Message{Role: chat.RoleUser, Content: "x"})
	_ = s.Append("alpha", chat.Message{Role: chat.RoleAssistant, Content: "y"})
	// A snapshot-only session still shows up.
	_ = s.AppendSnapshot("gamma", affect.Snapshot{Emotion: affect.EmotionNeutral})

	got, err := s.Sessions()
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "alpha" || got[1].ID != "beta" || got[2].ID != "gamma" {
		t.Errorf("order = %+v, want sorted by ID", got)
	}
	if got[0].Messages != 2 || got[2].Messages != 0 {
		t.Errorf("message counts wrong: %+v", got)
	}
	if got[0].LastActivity.IsZero() {
		t.Error("LastActivity not recorded")
	}
}

func TestStore_Purge(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_ = s.Append("s1", chat.Message{Role: chat.RoleUser, Content: "x"})
	_ = s.AppendSnapshot("s1", affect.Snapshot{Emotion: affect.EmotionNeutral})
	_ = s.Append("s2", chat.Message{Role: chat.RoleUser, Content: "y"})

	if err := s.Purge("s1"); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	if n, _ := s.Len("s1"); n != 0 {
		t.Errorf("s1 messages after purge = %d", n)
	}
	if snaps, _ := s.RecentSnapshots("s1", 0); len(snaps) != 0 {
		t.Errorf("s1 snapshots after purge = %d", len(snaps))
	}
	if n, _ := s.Len("s2"); n != 1 {
		t.Errorf("s2 touched by purge of s1")
	}
}

func TestStore_PurgeIdle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_ = s.Append("old", chat.Message{Role: chat.RoleUser, Content: "x"})
	_ = s.Append("fresh", chat.Message{Role: chat.RoleUser, Content: "y"})

	// Everything is idle relative to a future cutoff; nothing is idle
	// relative to a past one.
	purged, err := s.PurgeIdle(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeIdle: %v", err)
	}
	if purged != 0 {
		t.Errorf("purged = %d, want 0 with a past cutoff", purged)
	}

	purged, err = s.PurgeIdle(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PurgeIdle: %v", err)
	}
	if purged != 2 {
		t.Errorf("purged = %d, want 2 with a future cutoff", purged)
	}
	sessions, _ := s.Sessions()
	if len(sessions) != 0 {
		t.Errorf("sessions remain after purge: %+v", sessions)
	}
}

func TestOpen_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "persist.db")

	store, db, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Append("s1", chat.Message{Role: chat.RoleUser, Content: "survives restart"})
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store2, db2, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = db2.Close() }()

	got, err := store2.GetAll("s1")
	if err != nil {
		t.Fatalf("GetAll after reopen: %v", err)
	}
	if len(got) != 1 || got[0].Content != "survives restart" {
		t.Errorf("got %v, want the persisted message", got)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Path: "x.db"}
	if err := valid.validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	invalid := Config{Path: "x.db", BusyTimeout: -1}
	if err := invalid.validate(); err == nil {
		t.Error("negative busy_timeout accepted")
	}
}
