package render

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/wdldoc/pkg/wdl"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func readPage(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func corpus() []*wdl.Document {
	sub := &wdl.Document{
		Path:         "/repo/lib/align.wdl",
		RelativePath: "lib/align.wdl",
		Version:      "1.0",
		Workflow: &wdl.Workflow{
			Name:        "align",
			Description: "Read alignment subworkflow",
			Graph:       "flowchart TD\n    Start([align])",
		},
	}
	main := &wdl.Document{
		Path:         "/repo/main.wdl",
		RelativePath: "main.wdl",
		Version:      "1.0",
		Workflow: &wdl.Workflow{
			Name: "main",
			Calls: []wdl.CallRecord{
				{Name: "align", Callee: "align", CallType: wdl.KindWorkflow, LinkTarget: "lib/align.html"},
			},
			DockerImages: []wdl.DockerImage{
				{Image: "samtools:1.17", TaskNames: []string{"sort_bam"}},
			},
			Graph: "flowchart TD\n    Start([main])",
		},
		Tasks: []*wdl.Task{
			{
				Name:    "sort_bam",
				Command: &wdl.Command{Formatted: "samtools sort in.bam"},
				Runtime: []wdl.RuntimeEntry{{Key: "docker", Expr: &wdl.StringLit{Parts: []wdl.StringPart{{Literal: "samtools:1.17"}}}}},
			},
		},
	}
	return []*wdl.Document{main, sub}
}

func TestSite_WritesAllPages(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, "Test Pipelines", testLogger())

	if err := r.Site(corpus(), nil); err != nil {
		t.Fatalf("Site: %v", err)
	}

	for _, rel := range []string{
		"index.html",
		"main.html",
		"main-graph.html",
		"lib/align.html",
		"lib/align-graph.html",
		"docker-images.html",
		"static/site.css",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing output %s: %v", rel, err)
		}
	}
}

func TestSite_DocumentPageContent(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, "Test Pipelines", testLogger())
	if err := r.Site(corpus(), nil); err != nil {
		t.Fatal(err)
	}

	page := readPage(t, dir, "main.html")
	if !strings.Contains(page, `id="task-sort_bam"`) {
		t.Error("task anchor missing")
	}
	if !strings.Contains(page, "samtools sort in.bam") {
		t.Error("command text missing")
	}
	if !strings.Contains(page, `<pre class="mermaid">`) {
		t.Error("inline graph missing")
	}
	if strings.Contains(page, "Used as subworkflow") {
		t.Error("usage panel rendered for workflow nobody calls")
	}
}

func TestSite_UsagePanelOnCalledWorkflow(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, "Test Pipelines", testLogger())
	if err := r.Site(corpus(), nil); err != nil {
		t.Fatal(err)
	}

	page := readPage(t, dir, "lib/align.html")
	if !strings.Contains(page, "Used as subworkflow by 1 workflow") {
		t.Error("usage panel missing on called workflow")
	}
	if !strings.Contains(page, `href="../main.html"`) {
		t.Error("caller link not rooted at site root")
	}
}

func TestSite_IndexListsErrorsAndUsage(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, "Test Pipelines", testLogger())
	errs := []*wdl.ParseError{
		{RelativePath: "broken.wdl", Type: "SyntaxError", Message: "expected \"}\"", Line: 4, Column: 1},
	}
	if err := r.Site(corpus(), errs); err != nil {
		t.Fatal(err)
	}

	page := readPage(t, dir, "index.html")
	if !strings.Contains(page, "broken.wdl") {
		t.Error("parse error not listed")
	}
	if !strings.Contains(page, "used by 1 workflow") {
		t.Error("caller count missing from index entry")
	}
	if !strings.Contains(page, "2 documents") {
		t.Error("document stats missing")
	}
}

func TestSite_DockerInventory(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, "Test Pipelines", testLogger())
	if err := r.Site(corpus(), nil); err != nil {
		t.Fatal(err)
	}

	page := readPage(t, dir, "docker-images.html")
	if !strings.Contains(page, "samtools:1.17") {
		t.Error("image missing from inventory")
	}
	if !strings.Contains(page, "sort_bam") {
		t.Error("task usage missing from inventory")
	}
}
