package store

import (
	"context"
	"database/sql"
	"fmt"

	"osprey-mdi/core/utils"
)

// Statements are idempotent and never destructive: applying them on every
// process start leaves existing rows untouched.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS cyber_incidents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		incident_id TEXT,
		incident_type TEXT,
		severity TEXT,
		status TEXT,
		reported_at TEXT,
		resolved_at TEXT,
		assigned_to TEXT,
		description TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS datasets_metadata (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset_name TEXT,
		owner TEXT,
		source_system TEXT,
		size_mb REAL,
		row_count INTEGER,
		created_at TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS it_tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticket_id TEXT,
		category TEXT,
		priority TEXT,
		status TEXT,
		opened_at TEXT,
		closed_at TEXT,
		assigned_to TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		username TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		csrf_token TEXT NOT NULL,
		ip TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		action TEXT NOT NULL,
		details TEXT,
		created_at TIMESTAMP NOT NULL
	);`,
}

// ApplyMigrations ensures the schema exists. Safe to call on every start.
func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if logger != nil {
		logger.Printf("DB schema ensured (%d statements)", len(migrations))
	}
	return nil
}
