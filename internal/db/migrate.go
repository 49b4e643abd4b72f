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
	`CREATE TABLE IF NOT EXISTS contacts (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		type       TEXT NOT NULL DEFAULT 'Contact'
		           CHECK(type IN ('Client','Contact','Personal')),
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		is_active  INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS work_items (
		id              TEXT PRIMARY KEY,
		parent_id       TEXT REFERENCES work_items(id) ON DELETE SET NULL,
		who             TEXT NOT NULL DEFAULT '',
		title           TEXT NOT NULL,
		notes           TEXT NOT NULL DEFAULT '',
		contact_id      TEXT REFERENCES contacts(id) ON DELETE SET NULL,
		start_date      TEXT,
		due_date        TEXT,
		importance      INTEGER NOT NULL DEFAULT 0,
		urgency         INTEGER NOT NULL DEFAULT 0,
		size            INTEGER NOT NULL DEFAULT 0,
		value           INTEGER NOT NULL DEFAULT 0,
		priority_score  INTEGER NOT NULL DEFAULT 0,
		item_group      TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT '',
		planned_minutes INTEGER NOT NULL DEFAULT 0,
		status          TEXT NOT NULL DEFAULT 'open'
		                CHECK(status IN ('open','completed','canceled')),
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_items_status ON work_items(status)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_parent ON work_items(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_items_due ON work_items(due_date)`,

	`CREATE TABLE IF NOT EXISTS work_logs (
		id           TEXT PRIMARY KEY,
		work_item_id TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		started_at   TEXT NOT NULL,
		ended_at     TEXT NOT NULL,
		minutes      INTEGER NOT NULL,
		note         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_logs_item ON work_logs(work_item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_logs_started ON work_logs(started_at)`,
}
