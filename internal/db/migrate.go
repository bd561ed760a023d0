package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		firestore_id    TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL,
		color           TEXT NOT NULL DEFAULT '#83a598',
		organization_id TEXT NOT NULL DEFAULT '',
		archived        INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_firestore
		ON projects(firestore_id) WHERE firestore_id != ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_name ON projects(name)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		firestore_id TEXT NOT NULL DEFAULT '',
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		start        TEXT NOT NULL,
		stop         TEXT,
		duration_ms  INTEGER NOT NULL DEFAULT 0,
		paused_ms    INTEGER NOT NULL DEFAULT 0,
		running      INTEGER NOT NULL DEFAULT 0,
		paused       INTEGER NOT NULL DEFAULT 0,
		paused_at    TEXT,
		note         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start)`,

	// The running-session slot: the schema itself rejects a second row
	// with running = 1.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_running
		ON sessions(running) WHERE running = 1`,

	`CREATE TABLE IF NOT EXISTS predefined_notes (
		id           TEXT PRIMARY KEY,
		firestore_id TEXT NOT NULL DEFAULT '',
		note         TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_firestore
		ON predefined_notes(firestore_id) WHERE firestore_id != ''`,

	`CREATE TABLE IF NOT EXISTS organizations (
		id            TEXT PRIMARY KEY,
		firestore_id  TEXT NOT NULL DEFAULT '',
		company_name  TEXT NOT NULL DEFAULT '',
		address_line1 TEXT NOT NULL DEFAULT '',
		address_line2 TEXT NOT NULL DEFAULT '',
		zip_code      TEXT NOT NULL DEFAULT '',
		city          TEXT NOT NULL DEFAULT '',
		country       TEXT NOT NULL DEFAULT '',
		tax_id        TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		logo_ref      TEXT NOT NULL DEFAULT '',
		created_by    TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_orgs_firestore
		ON organizations(firestore_id) WHERE firestore_id != ''`,

	`CREATE TABLE IF NOT EXISTS user_links (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		organization_id TEXT NOT NULL,
		role            TEXT NOT NULL DEFAULT 'member',
		updated_at      TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_links_user ON user_links(user_id)`,
}
