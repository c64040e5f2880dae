package storage

import (
	"database/sql"
	"fmt"
)

// Migration is one additive schema step. Steps only create collections and
// indexes; nothing in this system drops or rewrites existing data.
type Migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// migrations is the schema registry. Versions must be contiguous from 1;
// the declared schema version is the last entry's version. The persisted
// version lives in PRAGMA user_version next to the data.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "projects and progress records",
		Apply: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS projects (
					id             TEXT PRIMARY KEY,
					name           TEXT NOT NULL,
					description    TEXT NOT NULL DEFAULT '',
					type           TEXT NOT NULL,
					status         TEXT NOT NULL,
					sets           INTEGER NOT NULL DEFAULT 0,
					reps_per_set   INTEGER NOT NULL DEFAULT 0,
					completed_sets TEXT NOT NULL DEFAULT '[]',
					target_count   INTEGER NOT NULL DEFAULT 0,
					target_weight  REAL NOT NULL DEFAULT 0,
					current_count  INTEGER NOT NULL DEFAULT 0,
					created_at     TEXT NOT NULL,
					updated_at     TEXT NOT NULL,
					completed_at   TEXT,
					completed_date TEXT NOT NULL DEFAULT '',

					CHECK (type IN ('SETS_REPS', 'TOTAL_COUNT')),
					CHECK (status IN ('ACTIVE', 'COMPLETED'))
				)`,
				`CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name)`,
				`CREATE TABLE IF NOT EXISTS progress_records (
					id         TEXT PRIMARY KEY,
					project_id TEXT NOT NULL,
					timestamp  TEXT NOT NULL,
					type       TEXT NOT NULL,
					value      INTEGER NOT NULL,
					set_number INTEGER NOT NULL DEFAULT 0,
					weight     REAL NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX IF NOT EXISTS idx_records_project ON progress_records(project_id)`,
				`CREATE INDEX IF NOT EXISTS idx_records_timestamp ON progress_records(timestamp)`,
			)
		},
	},
	{
		Version: 2,
		Name:    "reminders",
		Apply: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS reminders (
					id            TEXT PRIMARY KEY,
					project_id    TEXT NOT NULL,
					enabled       INTEGER NOT NULL DEFAULT 0,
					deadline      TEXT,
					remind_before INTEGER NOT NULL DEFAULT 0,
					created_at    TEXT NOT NULL,
					updated_at    TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_reminders_project ON reminders(project_id)`,
			)
		},
	},
	{
		Version: 3,
		Name:    "templates",
		Apply: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS templates (
					id           TEXT PRIMARY KEY,
					name         TEXT NOT NULL,
					description  TEXT NOT NULL DEFAULT '',
					project_list TEXT NOT NULL DEFAULT '[]',
					created_at   TEXT NOT NULL,
					updated_at   TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_templates_created_at ON templates(created_at)`,
			)
		},
	},
	{
		Version: 4,
		Name:    "completion and history lookup indexes",
		Apply: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_projects_status_completed ON projects(status, completed_date)`,
				`CREATE INDEX IF NOT EXISTS idx_records_project_timestamp ON progress_records(project_id, timestamp)`,
			)
		},
	},
}

// SchemaVersion is the declared schema version.
func SchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrate brings the database up to the declared schema version, applying
// each pending step in its own transaction. Re-running at the same version
// is a no-op. A gapped step list or a persisted version ahead of the
// declared one is a configuration error and leaves the store unusable.
func Migrate(db *sql.DB) error {
	return migrate(db, migrations)
}

func migrate(db *sql.DB, steps []Migration) error {
	for i, step := range steps {
		if step.Version != i+1 {
			return fmt.Errorf("schema: migration steps must be contiguous from 1, step %d declares version %d", i+1, step.Version)
		}
	}

	current, err := persistedVersion(db)
	if err != nil {
		return err
	}
	declared := steps[len(steps)-1].Version
	if current > declared {
		return fmt.Errorf("schema: database version %d is ahead of declared version %d", current, declared)
	}

	for _, step := range steps[current:] {
		if err := applyStep(db, step); err != nil {
			return err
		}
	}
	return nil
}

func applyStep(db *sql.DB, step Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("schema: begin step %d: %w", step.Version, err)
	}
	if err := step.Apply(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("schema: apply step %d (%s): %w", step.Version, step.Name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", step.Version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("schema: record version %d: %w", step.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schema: commit step %d: %w", step.Version, err)
	}
	return nil
}

func persistedVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("schema: read user_version: %w", err)
	}
	return v, nil
}

func execAll(tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
