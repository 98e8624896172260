// Package docgen orchestrates a documentation run: discover WDL files,
// parse them, pull in imported external documents, derive call records,
// docker inventories, and graphs, render the site, and record the run in
// the index database.
package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/me/wdldoc/internal/analyze"
	"github.com/me/wdldoc/internal/config"
	"github.com/me/wdldoc/internal/graph"
	"github.com/me/wdldoc/internal/render"
	"github.com/me/wdldoc/internal/repo"
	"github.com/me/wdldoc/internal/store"
	"github.com/me/wdldoc/internal/wdlparse"
	"github.com/me/wdldoc/internal/xref"
	"github.com/me/wdldoc/pkg/wdl"
)

// Generator runs the documentation pipeline.
type Generator struct {
	cfg    config.Config
	logger *slog.Logger
	index  store.Store // nil disables run recording
}

func New(cfg config.Config, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		logger: logger.With("component", "docgen"),
	}
}

// WithIndex attaches a run index store.
func (g *Generator) WithIndex(st store.Store) *Generator {
	g.index = st
	return g
}

// Result is the outcome of one documentation run.
type Result struct {
	Run       *store.Run
	Documents []*wdl.Document
	Errors    []*wdl.ParseError
}

// Generate runs the full pipeline and renders the site into the configured
// output directory.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	root, err := filepath.Abs(g.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	docs, errs, err := g.loadCorpus(root)
	if err != nil {
		return nil, err
	}
	g.analyzeCorpus(docs, root)

	renderer := render.New(g.cfg.Output, g.cfg.SiteName, g.logger)
	if err := renderer.Site(docs, errs); err != nil {
		return nil, err
	}

	result := &Result{Documents: docs, Errors: errs}
	if g.index != nil {
		run := store.NewRun(root, g.cfg.Output)
		if err := g.index.SaveRun(ctx, run, docs, xref.CallerCounts(docs), errs); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		result.Run = run
	}

	g.logger.Info("generation complete",
		"documents", len(docs), "errors", len(errs), "output", g.cfg.Output)
	return result, nil
}

// loadCorpus parses every discovered document, then follows resolved imports
// into files discovery skipped (external directories, files outside the
// walk). Imported documents are parsed transitively.
func (g *Generator) loadCorpus(root string) ([]*wdl.Document, []*wdl.ParseError, error) {
	repository := repo.New(root, g.cfg.Exclude, g.cfg.ExternalDirs, g.logger)
	files, err := repository.FindInternal()
	if err != nil {
		return nil, nil, fmt.Errorf("discover %s: %w", root, err)
	}

	var docs []*wdl.Document
	var errs []*wdl.ParseError
	byPath := make(map[string]*wdl.Document)

	parse := func(path string) {
		rel := repo.RelativePath(path, root, g.cfg.ExternalDirs)
		doc, perr := wdlparse.ParseFile(path, rel)
		if perr != nil {
			g.logger.Warn("parse failed", "path", rel, "error", perr.Message)
			errs = append(errs, perr)
			return
		}
		doc.External = repository.IsExternal(path)
		docs = append(docs, doc)
		byPath[doc.Path] = doc
	}

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			abs = file
		}
		parse(abs)
	}

	// follow imports into documents not yet parsed
	for i := 0; i < len(docs); i++ {
		for _, imp := range docs[i].Imports {
			target := imp.ResolvedPath
			if target == "" {
				continue
			}
			if _, seen := byPath[target]; seen {
				continue
			}
			if _, err := os.Stat(target); err != nil {
				continue
			}
			byPath[target] = nil // reserve before parsing to stop import cycles
			parse(target)
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].RelativePath < docs[j].RelativePath })
	return docs, errs, nil
}

// analyzeCorpus resolves callees and attaches call records, docker
// inventories, and graphs to every workflow document.
func (g *Generator) analyzeCorpus(docs []*wdl.Document, root string) {
	wdlparse.ResolveCallees(docs)

	byPath := make(map[string]*wdl.Document, len(docs))
	for _, doc := range docs {
		byPath[doc.Path] = doc
	}
	for _, doc := range docs {
		if !doc.HasWorkflow() {
			continue
		}
		wf := doc.Workflow
		wf.Calls = analyze.ParseCalls(doc, root, g.cfg.ExternalDirs)
		wf.DockerImages = analyze.DockerImages(doc, byPath)
		wf.Graph = graph.Mermaid(wf)
	}
}

// GraphOne parses a single document (plus whatever it imports) and returns
// the workflow's Mermaid source.
func (g *Generator) GraphOne(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	root := filepath.Dir(abs)

	doc, perr := wdlparse.ParseFile(abs, filepath.Base(abs))
	if perr != nil {
		return "", perr
	}
	if !doc.HasWorkflow() {
		return "", fmt.Errorf("%s declares no workflow", path)
	}

	docs := []*wdl.Document{doc}
	byPath := map[string]*wdl.Document{doc.Path: doc}
	for i := 0; i < len(docs); i++ {
		for _, imp := range docs[i].Imports {
			target := imp.ResolvedPath
			if target == "" {
				continue
			}
			if _, seen := byPath[target]; seen {
				continue
			}
			imported, perr := wdlparse.ParseFile(target, repo.RelativePath(target, root, g.cfg.ExternalDirs))
			if perr != nil {
				continue
			}
			byPath[target] = imported
			docs = append(docs, imported)
		}
	}

	wdlparse.ResolveCallees(docs)
	return graph.Mermaid(doc.Workflow), nil
}
