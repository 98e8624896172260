// Package render writes the static documentation site: one page per WDL
// document, standalone graph pages, the corpus index, and the sitewide
// docker image inventory.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/me/wdldoc/internal/repo"
	"github.com/me/wdldoc/internal/xref"
	"github.com/me/wdldoc/pkg/wdl"
)

// Renderer writes a site into an output directory.
type Renderer struct {
	outDir   string
	siteName string
	logger   *slog.Logger
	now      func() time.Time
}

func New(outDir, siteName string, logger *slog.Logger) *Renderer {
	if siteName == "" {
		siteName = "WDL Documentation"
	}
	return &Renderer{
		outDir:   outDir,
		siteName: siteName,
		logger:   logger.With("component", "render"),
		now:      time.Now,
	}
}

// indexEntry is one row of the index page.
type indexEntry struct {
	Name        string
	Path        string
	Link        string
	Type        string
	Description string
	External    bool
	CallerCount int
}

// dockerUsage aggregates one image's usage across the corpus.
type dockerUsage struct {
	Image         string
	Parameterized bool
	Workflows     []dockerWorkflow
}

type dockerWorkflow struct {
	Name  string
	Link  string
	Tasks []string
}

// Site renders the whole site: document pages, graph pages, the index, and
// the docker inventory. Parse failures are listed on the index instead of
// failing the render.
func (r *Renderer) Site(docs []*wdl.Document, errs []*wdl.ParseError) error {
	counts := xref.CallerCounts(docs)

	for _, doc := range docs {
		if err := r.documentPage(doc, counts, docs); err != nil {
			return fmt.Errorf("render %s: %w", doc.RelativePath, err)
		}
		if doc.HasWorkflow() && doc.Workflow.HasGraph() {
			if err := r.graphPage(doc); err != nil {
				return fmt.Errorf("render graph %s: %w", doc.RelativePath, err)
			}
		}
	}
	if err := r.indexPage(docs, errs, counts); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := r.dockerPage(docs); err != nil {
		return fmt.Errorf("render docker index: %w", err)
	}
	if err := r.writeAssets(); err != nil {
		return fmt.Errorf("write assets: %w", err)
	}

	r.logger.Info("site rendered", "documents", len(docs), "errors", len(errs), "dir", r.outDir)
	return nil
}

func (r *Renderer) documentPage(doc *wdl.Document, counts map[string]int, docs []*wdl.Document) error {
	rel := repo.HTMLPath(doc.RelativePath)
	root := repo.RootPrefix(doc.RelativePath)

	data := map[string]any{
		"Title":       doc.Name() + " - " + r.siteName,
		"SiteName":    r.siteName,
		"GeneratedAt": r.now().Format("2006-01-02 15:04"),
		"Root":        root,
		"Doc":         doc,
		"HasGraph":    doc.HasWorkflow() && doc.Workflow.HasGraph(),
	}
	if doc.HasWorkflow() {
		if doc.Workflow.HasGraph() {
			data["GraphLink"] = repo.GraphHTMLPath(doc.RelativePath)
		}
		// the usage panel only appears for workflows other documents call
		if counts[doc.Workflow.Name] > 0 {
			data["UsedBy"] = xref.CallersOf(doc, docs)
		}
	}
	return r.writePage(rel, "document", data)
}

func (r *Renderer) graphPage(doc *wdl.Document) error {
	rel := repo.GraphHTMLPath(doc.RelativePath)
	data := map[string]any{
		"Title":       doc.Name() + " graph - " + r.siteName,
		"SiteName":    r.siteName,
		"GeneratedAt": r.now().Format("2006-01-02 15:04"),
		"Root":        repo.RootPrefix(doc.RelativePath),
		"Doc":         doc,
		"Graph":       doc.Workflow.Graph,
		"DocLink":     repo.HTMLPath(doc.RelativePath),
		"HasGraph":    true,
	}
	return r.writePage(rel, "graph", data)
}

func (r *Renderer) indexPage(docs []*wdl.Document, errs []*wdl.ParseError, counts map[string]int) error {
	entries := make([]indexEntry, 0, len(docs))
	workflows, tasks := 0, 0
	for _, doc := range docs {
		if doc.HasWorkflow() {
			workflows++
		}
		tasks += len(doc.Tasks)

		entry := indexEntry{
			Name:        doc.Name(),
			Path:        doc.RelativePath,
			Link:        repo.HTMLPath(doc.RelativePath),
			Type:        doc.DocumentType(),
			Description: doc.Description(),
			External:    doc.External,
		}
		if doc.HasWorkflow() {
			entry.CallerCount = counts[doc.Workflow.Name]
		}
		entries = append(entries, entry)
	}

	data := map[string]any{
		"Title":       r.siteName,
		"SiteName":    r.siteName,
		"GeneratedAt": r.now().Format("2006-01-02 15:04"),
		"Root":        "./",
		"Entries":     entries,
		"Errors":      errs,
		"Stats": map[string]int{
			"Documents": len(docs),
			"Workflows": workflows,
			"Tasks":     tasks,
		},
	}
	return r.writePage("index.html", "index", data)
}

func (r *Renderer) dockerPage(docs []*wdl.Document) error {
	var order []string
	usage := make(map[string]*dockerUsage)

	for _, doc := range docs {
		if !doc.HasWorkflow() {
			continue
		}
		for _, img := range doc.Workflow.DockerImages {
			key := img.DisplayImage()
			entry, ok := usage[key]
			if !ok {
				entry = &dockerUsage{Image: key, Parameterized: img.Parameterized}
				usage[key] = entry
				order = append(order, key)
			}
			entry.Workflows = append(entry.Workflows, dockerWorkflow{
				Name:  doc.Name(),
				Link:  repo.HTMLPath(doc.RelativePath),
				Tasks: img.TaskNames,
			})
		}
	}
	sort.Strings(order)

	images := make([]dockerUsage, 0, len(order))
	for _, key := range order {
		images = append(images, *usage[key])
	}

	data := map[string]any{
		"Title":       "Docker Images - " + r.siteName,
		"SiteName":    r.siteName,
		"GeneratedAt": r.now().Format("2006-01-02 15:04"),
		"Root":        "./",
		"Images":      images,
	}
	return r.writePage("docker-images.html", "dockers", data)
}

func (r *Renderer) writePage(rel, tmpl string, data map[string]any) error {
	path := filepath.Join(r.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderTemplate(f, tmpl, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// siteCSS covers the few things the utility classes cannot: mermaid sizing
// and print styling for command blocks.
const siteCSS = `.mermaid { display: flex; justify-content: center; }
.mermaid svg { max-width: 100%; }
@media print {
    pre code { white-space: pre-wrap; }
    nav { display: none; }
}
`

func (r *Renderer) writeAssets() error {
	dir := filepath.Join(r.outDir, "static")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "site.css"), []byte(siteCSS), 0o644)
}
