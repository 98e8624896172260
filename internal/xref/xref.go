// Package xref builds the sitewide subworkflow-usage index: which workflow
// documents invoke which workflows, aggregated across the parsed corpus.
package xref

import (
	"github.com/me/wdldoc/internal/repo"
	"github.com/me/wdldoc/pkg/wdl"
)

// Caller identifies one workflow document invoking a target workflow.
type Caller struct {
	// Name is the calling document's workflow name.
	Name string
	// Path is the calling document's relative source path.
	Path string
	// Link is the calling document's rendered page path.
	Link string
}

// CallerCounts returns, per workflow name, the number of distinct other
// workflow documents with at least one workflow-typed call targeting it.
//
// Task-typed calls never contribute. A document calling the same target
// through several call statements, or a workflow calling itself, adds at
// most one unit per target: only document-to-document edges matter for the
// "used as subworkflow by N workflows" figure.
func CallerCounts(docs []*wdl.Document) map[string]int {
	known := knownWorkflows(docs)

	counts := make(map[string]int)
	for _, doc := range docs {
		if doc.Workflow == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, call := range doc.Workflow.Calls {
			if !call.IsWorkflowCall() || !known[call.Callee] {
				continue
			}
			if call.Callee == doc.Workflow.Name || seen[call.Callee] {
				continue
			}
			seen[call.Callee] = true
			counts[call.Callee]++
		}
	}
	return counts
}

// CallersOf returns every other workflow document that invokes the target
// document's workflow through a workflow-typed call. The result follows the
// order of docs, so callers appear deterministically for a sorted corpus.
func CallersOf(target *wdl.Document, docs []*wdl.Document) []Caller {
	if target.Workflow == nil {
		return nil
	}
	name := target.Workflow.Name

	var callers []Caller
	for _, doc := range docs {
		if doc == target || doc.Workflow == nil {
			continue
		}
		for _, call := range doc.Workflow.Calls {
			if call.IsWorkflowCall() && call.Callee == name {
				callers = append(callers, Caller{
					Name: doc.Workflow.Name,
					Path: doc.RelativePath,
					Link: repo.HTMLPath(doc.RelativePath),
				})
				break
			}
		}
	}
	return callers
}

func knownWorkflows(docs []*wdl.Document) map[string]bool {
	known := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if doc.Workflow != nil {
			known[doc.Workflow.Name] = true
		}
	}
	return known
}
