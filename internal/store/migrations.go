package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all index tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		root       TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		documents  INTEGER NOT NULL DEFAULT 0,
		workflows  INTEGER NOT NULL DEFAULT 0,
		tasks      INTEGER NOT NULL DEFAULT 0,
		errors     INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		relative_path TEXT NOT NULL,
		name          TEXT NOT NULL,
		version       TEXT NOT NULL DEFAULT '1.0',
		doc_type      TEXT NOT NULL,
		external      INTEGER NOT NULL DEFAULT 0,
		task_count    INTEGER NOT NULL DEFAULT 0,
		call_count    INTEGER NOT NULL DEFAULT 0,
		caller_count  INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, relative_path)
	)`,

	`CREATE TABLE IF NOT EXISTS calls (
		run_id    TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		document  TEXT NOT NULL,
		workflow  TEXT NOT NULL,
		name      TEXT NOT NULL,
		callee    TEXT NOT NULL,
		call_type TEXT NOT NULL,
		is_local  INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS parse_errors (
		run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		relative_path TEXT NOT NULL,
		error_type    TEXT NOT NULL,
		message       TEXT NOT NULL,
		line          INTEGER NOT NULL DEFAULT 0,
		col           INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_run_id ON documents(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_calls_run_id ON calls(run_id)`,
	// Lookup of every caller of a given target across a run
	`CREATE INDEX IF NOT EXISTS idx_calls_callee ON calls(run_id, callee)`,
	`CREATE INDEX IF NOT EXISTS idx_parse_errors_run_id ON parse_errors(run_id)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
