package wdlparse

import (
	"strings"

	"github.com/me/wdldoc/pkg/wdl"
)

// ResolveCallees links every call statement in the corpus to its task or
// workflow definition. Bare targets resolve against the calling document,
// qualified targets through its imports. Calls that resolve nowhere keep a
// nil Callee and are skipped by later analysis.
func ResolveCallees(docs []*wdl.Document) {
	byPath := make(map[string]*wdl.Document, len(docs))
	for _, doc := range docs {
		byPath[doc.Path] = doc
	}
	for _, doc := range docs {
		if doc.Workflow == nil {
			continue
		}
		resolveBody(doc.Workflow.Body, doc, byPath)
	}
}

func resolveBody(body []wdl.BodyElement, doc *wdl.Document, byPath map[string]*wdl.Document) {
	for _, el := range body {
		switch el := el.(type) {
		case *wdl.Call:
			el.Callee = resolveTarget(el.Target, doc, byPath)
		case *wdl.Scatter:
			resolveBody(el.Body, doc, byPath)
		case *wdl.Conditional:
			resolveBody(el.Body, doc, byPath)
		}
	}
}

func resolveTarget(target string, doc *wdl.Document, byPath map[string]*wdl.Document) *wdl.Callee {
	namespace, name := splitTarget(target)

	if namespace != "" {
		imp, ok := doc.LookupImport(namespace)
		if ok {
			if imp.ResolvedPath == "" {
				return nil
			}
			imported, ok := byPath[imp.ResolvedPath]
			if !ok {
				return nil
			}
			return lookupDefinition(imported, name)
		}
		// dotted target without a matching import: fall through to a
		// local lookup on the last segment
	}
	return lookupDefinition(doc, name)
}

func splitTarget(target string) (namespace, name string) {
	if i := strings.LastIndex(target, "."); i >= 0 {
		return target[:i], target[i+1:]
	}
	return "", target
}

func lookupDefinition(doc *wdl.Document, name string) *wdl.Callee {
	for _, task := range doc.Tasks {
		if task.Name == name {
			return &wdl.Callee{Name: name, Kind: wdl.KindTask}
		}
	}
	if doc.Workflow != nil && doc.Workflow.Name == name {
		return &wdl.Callee{Name: name, Kind: wdl.KindWorkflow}
	}
	return nil
}
