// Package analyze derives presentation-ready records (call lists, container
// inventories) from parsed WDL documents.
package analyze

import (
	"github.com/me/wdldoc/internal/repo"
	"github.com/me/wdldoc/pkg/wdl"
)

// ParseCalls builds a normalized CallRecord for every call statement in the
// document's workflow, including calls nested inside scatter and conditional
// blocks. Calls whose callee could not be resolved are skipped silently.
//
// root and externalDirs feed link computation for imported callees.
func ParseCalls(doc *wdl.Document, root string, externalDirs []string) []wdl.CallRecord {
	if doc.Workflow == nil {
		return nil
	}
	namespaces := doc.ImportNamespaces()

	var records []wdl.CallRecord
	var walk func(body []wdl.BodyElement)
	walk = func(body []wdl.BodyElement) {
		for _, el := range body {
			switch el := el.(type) {
			case *wdl.Call:
				if rec, ok := callRecord(el, doc, namespaces, root, externalDirs); ok {
					records = append(records, rec)
				}
			case *wdl.Scatter:
				walk(el.Body)
			case *wdl.Conditional:
				walk(el.Body)
			}
		}
	}
	walk(doc.Workflow.Body)
	return records
}

func callRecord(call *wdl.Call, doc *wdl.Document, namespaces map[string]bool, root string, externalDirs []string) (wdl.CallRecord, bool) {
	if call.Callee == nil || call.Callee.Name == "" {
		return wdl.CallRecord{}, false
	}

	namespace := call.Namespace()
	isLocal := namespace == "" || !namespaces[namespace]

	inputs := make([]wdl.InputValue, 0, len(call.Inputs))
	for _, in := range call.Inputs {
		inputs = append(inputs, wdl.InputValue{
			Name:  in.Name,
			Value: wdl.ExprString(in.Expr),
		})
	}

	return wdl.CallRecord{
		Name:       call.Name(),
		Callee:     call.Callee.Name,
		CallType:   call.Callee.Kind,
		IsLocal:    isLocal,
		LinkTarget: linkTarget(call, doc, isLocal, root, externalDirs),
		Inputs:     inputs,
	}, true
}

// linkTarget points local calls at an intra-page anchor and imported calls at
// the rendered page of the imported document. Unresolvable imports fall back
// to a bare anchor.
func linkTarget(call *wdl.Call, doc *wdl.Document, isLocal bool, root string, externalDirs []string) string {
	callee := call.Callee.Name
	if isLocal {
		return "#task-" + callee
	}

	imp, ok := doc.LookupImport(call.Namespace())
	if !ok || imp.ResolvedPath == "" {
		return "#" + callee
	}
	rel := repo.RelativePath(imp.ResolvedPath, root, externalDirs)
	return repo.HTMLPath(rel)
}
