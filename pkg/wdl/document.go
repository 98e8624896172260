package wdl

import (
	"path/filepath"
	"strings"
)

// Import is an import statement in a WDL document.
type Import struct {
	// Path is the URI as written in source.
	Path string
	// Namespace is the alias the imported definitions are referenced
	// under. When the source has no `as` clause this is the file stem.
	Namespace string
	// ResolvedPath is the absolute path of the imported file, empty when
	// resolution failed.
	ResolvedPath string
}

// DisplayName returns a human-readable name for the import.
func (im Import) DisplayName() string {
	if im.Namespace != "" {
		return im.Namespace
	}
	base := filepath.Base(im.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Task is a WDL task definition.
type Task struct {
	Name        string
	Description string
	Inputs      []Input
	Outputs     []Output
	Command     *Command
	Runtime     []RuntimeEntry
	Meta        map[string]string
}

// RuntimeValue returns the runtime expression for key, or nil.
func (t *Task) RuntimeValue(key string) Expr {
	for _, r := range t.Runtime {
		if r.Key == key {
			return r.Expr
		}
	}
	return nil
}

// HasCommand reports whether the task declares a command section.
func (t *Task) HasCommand() bool { return t.Command != nil }

// HasRuntime reports whether the task declares any runtime keys.
func (t *Task) HasRuntime() bool { return len(t.Runtime) > 0 }

// Workflow is a WDL workflow definition, including analysis results attached
// after parsing (call records, docker inventory, rendered graph).
type Workflow struct {
	Name        string
	Description string
	Inputs      []Input
	Outputs     []Output
	Body        []BodyElement
	Meta        map[string]string

	// Calls is the normalized call list derived from Body, including
	// calls nested in scatter and conditional blocks.
	Calls []CallRecord
	// DockerImages is the container inventory derived from callee tasks.
	DockerImages []DockerImage
	// Graph is the Mermaid flowchart for this workflow.
	Graph string
}

// HasCalls reports whether any call statements were collected.
func (w *Workflow) HasCalls() bool { return len(w.Calls) > 0 }

// HasGraph reports whether a diagram was generated.
func (w *Workflow) HasGraph() bool { return w.Graph != "" }

// Document is one parsed WDL file.
type Document struct {
	// Path is the absolute source path.
	Path string
	// RelativePath is the normalized path relative to the project root,
	// used for output layout and links.
	RelativePath string
	// Version is the WDL version statement, defaulting to "1.0".
	Version string
	// External marks third-party documents (classified by the repository
	// layer from directory convention).
	External bool

	Workflow *Workflow
	Tasks    []*Task
	Imports  []Import
	Source   string
}

// Name returns the workflow name when present, else the file stem.
func (d *Document) Name() string {
	if d.Workflow != nil {
		return d.Workflow.Name
	}
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasWorkflow reports whether the document defines a workflow.
func (d *Document) HasWorkflow() bool { return d.Workflow != nil }

// HasTasks reports whether the document defines any tasks.
func (d *Document) HasTasks() bool { return len(d.Tasks) > 0 }

// HasImports reports whether the document declares imports.
func (d *Document) HasImports() bool { return len(d.Imports) > 0 }

// DocumentType classifies the document: workflow, tasks, mixed, or empty.
func (d *Document) DocumentType() string {
	switch {
	case d.HasWorkflow() && d.HasTasks():
		return "mixed"
	case d.HasWorkflow():
		return "workflow"
	case d.HasTasks():
		return "tasks"
	default:
		return "empty"
	}
}

// Description returns the workflow description, or the first task's.
func (d *Document) Description() string {
	if d.Workflow != nil && d.Workflow.Description != "" {
		return d.Workflow.Description
	}
	if len(d.Tasks) > 0 {
		return d.Tasks[0].Description
	}
	return ""
}

// ImportNamespaces returns the set of namespaces introduced by the
// document's import statements.
func (d *Document) ImportNamespaces() map[string]bool {
	ns := make(map[string]bool, len(d.Imports))
	for _, im := range d.Imports {
		if im.Namespace != "" {
			ns[im.Namespace] = true
		}
	}
	return ns
}

// LookupImport returns the import declaring the given namespace.
func (d *Document) LookupImport(namespace string) (Import, bool) {
	for _, im := range d.Imports {
		if im.Namespace == namespace {
			return im, true
		}
	}
	return Import{}, false
}
