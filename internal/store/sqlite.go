package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/me/wdldoc/pkg/wdl"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// SaveRun stores a run together with its documents, call edges, and parse
// failures in one transaction. Corpus totals are computed here so callers
// never have to pre-fill them.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, docs []*wdl.Document, counts map[string]int, errs []*wdl.ParseError) error {
	s.logger.Debug("sql", "op", "insert", "table", "runs", "id", run.ID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	run.Documents = len(docs)
	run.Workflows = 0
	run.Tasks = 0
	run.Errors = len(errs)
	for _, doc := range docs {
		if doc.HasWorkflow() {
			run.Workflows++
		}
		run.Tasks += len(doc.Tasks)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, output_dir, documents, workflows, tasks, errors, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.OutputDir, run.Documents, run.Workflows, run.Tasks, run.Errors,
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, doc := range docs {
		if err := insertDocument(ctx, tx, run.ID, doc, counts); err != nil {
			return fmt.Errorf("insert document %s: %w", doc.RelativePath, err)
		}
	}
	for _, perr := range errs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO parse_errors (run_id, relative_path, error_type, message, line, col)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, perr.RelativePath, perr.Type, perr.Message, perr.Line, perr.Column,
		)
		if err != nil {
			return fmt.Errorf("insert parse error %s: %w", perr.RelativePath, err)
		}
	}

	return tx.Commit()
}

func insertDocument(ctx context.Context, tx *sql.Tx, runID string, doc *wdl.Document, counts map[string]int) error {
	callCount, callerCount := 0, 0
	if doc.HasWorkflow() {
		callCount = len(doc.Workflow.Calls)
		callerCount = counts[doc.Workflow.Name]
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO documents (run_id, relative_path, name, version, doc_type, external, task_count, call_count, caller_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, doc.RelativePath, doc.Name(), doc.Version, doc.DocumentType(),
		boolInt(doc.External), len(doc.Tasks), callCount, callerCount,
	)
	if err != nil {
		return err
	}
	if !doc.HasWorkflow() {
		return nil
	}

	for _, call := range doc.Workflow.Calls {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO calls (run_id, document, workflow, name, callee, call_type, is_local)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, doc.RelativePath, doc.Workflow.Name,
			call.Name, call.Callee, string(call.CallType), boolInt(call.IsLocal),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// LatestRun returns the most recent run, or nil when the index is empty.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, error) {
	s.logger.Debug("sql", "op", "select_latest", "table", "runs")

	var run Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, root, output_dir, documents, workflows, tasks, errors, created_at
		 FROM runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&run.ID, &run.Root, &run.OutputDir, &run.Documents, &run.Workflows, &run.Tasks, &run.Errors, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &run, nil
}

// ListDocuments returns the stored documents of a run ordered by path.
func (s *SQLiteStore) ListDocuments(ctx context.Context, runID string) ([]DocumentRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "documents", "run_id", runID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT relative_path, name, version, doc_type, external, task_count, call_count, caller_count
		 FROM documents WHERE run_id = ? ORDER BY relative_path`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		var external int
		if err := rows.Scan(&rec.RelativePath, &rec.Name, &rec.Version, &rec.DocType,
			&external, &rec.TaskCount, &rec.CallCount, &rec.CallerCount); err != nil {
			return nil, err
		}
		rec.External = external != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListCalls returns the stored call edges of a run ordered by document.
func (s *SQLiteStore) ListCalls(ctx context.Context, runID string) ([]CallRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "calls", "run_id", runID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT document, workflow, name, callee, call_type, is_local
		 FROM calls WHERE run_id = ? ORDER BY document, name`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CallRecord
	for rows.Next() {
		var rec CallRecord
		var isLocal int
		if err := rows.Scan(&rec.Document, &rec.Workflow, &rec.Name, &rec.Callee, &rec.CallType, &isLocal); err != nil {
			return nil, err
		}
		rec.IsLocal = isLocal != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
