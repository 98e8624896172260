// Package store persists generation runs to a local index database. Each run
// records the corpus it rendered: documents, workflows, tasks, calls, and
// parse failures. The index backs the stats command and lets successive runs
// be compared.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/me/wdldoc/pkg/wdl"
)

// Run is one site generation.
type Run struct {
	ID        string
	Root      string
	OutputDir string
	Documents int
	Workflows int
	Tasks     int
	Errors    int
	CreatedAt time.Time
}

// NewRun creates a run record with a fresh id.
func NewRun(root, outputDir string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Root:      root,
		OutputDir: outputDir,
		CreatedAt: time.Now().UTC(),
	}
}

// DocumentRecord is the stored summary of one parsed document.
type DocumentRecord struct {
	RelativePath string
	Name         string
	Version      string
	DocType      string
	External     bool
	TaskCount    int
	CallCount    int
	CallerCount  int
}

// CallRecord is one stored call edge.
type CallRecord struct {
	Document string
	Workflow string
	Name     string
	Callee   string
	CallType string
	IsLocal  bool
}

// Store defines the persistence layer for the run index.
type Store interface {
	SaveRun(ctx context.Context, run *Run, docs []*wdl.Document, counts map[string]int, errs []*wdl.ParseError) error
	LatestRun(ctx context.Context) (*Run, error)
	ListDocuments(ctx context.Context, runID string) ([]DocumentRecord, error)
	ListCalls(ctx context.Context, runID string) ([]CallRecord, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
