package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return db
}

func TestMigrateUpRecordsVersion(t *testing.T) {
	db := openMigratedDB(t)
	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected schema version 1, got %d", v)
	}
}

func TestMigrateUpTwiceKeepsSnapshots(t *testing.T) {
	db := openMigratedDB(t)
	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Put(t.Context(), "calendarEvents", `{"2026-02-09":[]}`); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
	got, err := store.Get(t.Context(), "calendarEvents")
	if err != nil {
		t.Fatalf("get after second migrate: %v", err)
	}
	if got != `{"2026-02-09":[]}` {
		t.Fatalf("unexpected snapshot: %q", got)
	}
}

func TestMigrateDownThenUp(t *testing.T) {
	db := openMigratedDB(t)
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if v, _ := SchemaVersion(db); v != 0 {
		t.Fatalf("expected version 0 after down, got %d", v)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up after down: %v", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Get(t.Context(), "diaries"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected an empty table after re-migrating, got %v", err)
	}
}
