package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateFreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	version, err := persistedVersion(db)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != SchemaVersion() {
		t.Fatalf("expected version %d, got %d", SchemaVersion(), version)
	}

	for _, table := range []string{"projects", "progress_records", "reminders", "templates"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	version, err := persistedVersion(db)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != SchemaVersion() {
		t.Fatalf("expected version %d, got %d", SchemaVersion(), version)
	}
}

func TestMigrateRejectsGappedSteps(t *testing.T) {
	db := openTestDB(t)

	gapped := []Migration{
		{Version: 1, Name: "one", Apply: func(tx *sql.Tx) error { return nil }},
		{Version: 3, Name: "three", Apply: func(tx *sql.Tx) error { return nil }},
	}
	if err := migrate(db, gapped); err == nil {
		t.Fatal("expected gapped step list to be rejected")
	}
}

func TestMigrateRejectsDowngrade(t *testing.T) {
	db := openTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	older := migrations[:2]
	if err := migrate(db, older); err == nil {
		t.Fatal("expected persisted version ahead of declared to be rejected")
	}
}

func TestMigratePartialUpgradeResumes(t *testing.T) {
	db := openTestDB(t)

	if err := migrate(db, migrations[:1]); err != nil {
		t.Fatalf("migrate to v1: %v", err)
	}
	version, err := persistedVersion(db)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("resume migrate: %v", err)
	}
	version, err = persistedVersion(db)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != SchemaVersion() {
		t.Fatalf("expected version %d, got %d", SchemaVersion(), version)
	}
}
