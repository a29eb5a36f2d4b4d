package session

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/remote"
	"github.com/dkoval/chatik/internal/store"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "chatik.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewManager(db, bus.New(), zap.NewNop())
}

func TestManagerSaveAndLoad(t *testing.T) {
	m := testManager(t)
	if m.Current() != nil {
		t.Fatal("fresh manager should have no identity")
	}

	id := &remote.Identity{ID: 7, Username: "kira", DisplayName: "Kira", FirstName: "Kira"}
	if err := m.Save(id); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := m.Current(); got == nil || got.Username != "kira" {
		t.Fatalf("Current() = %+v", got)
	}

	// A second manager over the same store sees the saved identity.
	fresh := NewManager(m.db, bus.New(), zap.NewNop())
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := fresh.Current()
	if got == nil || got.ID != 7 || got.DisplayName != "Kira" {
		t.Fatalf("restored identity = %+v", got)
	}
}

func TestManagerClear(t *testing.T) {
	m := testManager(t)
	if err := m.Save(&remote.Identity{ID: 1, Username: "kira"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if m.Current() != nil {
		t.Error("Current() != nil after Clear")
	}

	fresh := NewManager(m.db, bus.New(), zap.NewNop())
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fresh.Current() != nil {
		t.Error("cleared session survived restart")
	}
}

func TestManagerPublishes(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe(4)
	defer unsub()

	db, err := store.Open(filepath.Join(t.TempDir(), "chatik.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	m := NewManager(db, b, zap.NewNop())

	if err := m.Save(&remote.Identity{ID: 1, Username: "kira"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ev := <-ch; ev.Kind != bus.KindIdentitySaved {
		t.Errorf("event kind = %s, want %s", ev.Kind, bus.KindIdentitySaved)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ev := <-ch; ev.Kind != bus.KindSessionCleared {
		t.Errorf("event kind = %s, want %s", ev.Kind, bus.KindSessionCleared)
	}
}
