package store

import (
	"path/filepath"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	first, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if !first.Changed {
		t.Error("first migration should report Changed")
	}

	second, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if second.Changed {
		t.Error("second migration should report no change")
	}
	if second.Version != first.Version {
		t.Errorf("version = %d, want %d", second.Version, first.Version)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)

	if _, ok, err := db.LoadSession(); err != nil || ok {
		t.Fatalf("LoadSession() on empty db = ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := db.SaveSession(`{"id":7,"username":"masha"}`); err != nil {
		t.Fatal(err)
	}

	identity, ok, err := db.LoadSession()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || identity != `{"id":7,"username":"masha"}` {
		t.Errorf("LoadSession() = %q ok=%v", identity, ok)
	}

	// Saving again replaces rather than duplicating.
	if err := db.SaveSession(`{"id":8,"username":"petya"}`); err != nil {
		t.Fatal(err)
	}
	identity, ok, _ = db.LoadSession()
	if !ok || identity != `{"id":8,"username":"petya"}` {
		t.Errorf("after second save, LoadSession() = %q ok=%v", identity, ok)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("session rows = %d, want 1", count)
	}
}

func TestClearSession(t *testing.T) {
	db := testDB(t)

	if err := db.SaveSession(`{"id":1}`); err != nil {
		t.Fatal(err)
	}
	if err := db.ClearSession(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := db.LoadSession(); ok {
		t.Error("session still present after ClearSession()")
	}

	// Clearing twice is fine.
	if err := db.ClearSession(); err != nil {
		t.Errorf("second ClearSession() error = %v", err)
	}
}

func TestPreferences(t *testing.T) {
	db := testDB(t)

	got, err := db.GetPreference(PrefHideOnlineStatus, "false")
	if err != nil {
		t.Fatal(err)
	}
	if got != "false" {
		t.Errorf("unset preference = %q, want fallback", got)
	}

	if err := db.SetPreference(PrefHideOnlineStatus, "true"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetPreference(PrefHideOnlineStatus, "true"); err != nil {
		t.Fatal(err)
	}

	got, err = db.GetPreference(PrefHideOnlineStatus, "false")
	if err != nil {
		t.Fatal(err)
	}
	if got != "true" {
		t.Errorf("preference = %q, want true", got)
	}
}
