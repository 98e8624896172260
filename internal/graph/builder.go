package graph

import (
	"fmt"
	"strings"

	"github.com/me/wdldoc/pkg/wdl"
)

// Mermaid renders a deterministic Mermaid flowchart for the workflow: a
// synthetic start node, one node per distinct call, subgraph regions for
// scatter and conditional scopes that contain calls, dependency edges, and a
// synthetic end node fed by the leaf calls. Calling it twice on the same
// workflow yields byte-identical output.
//
// A workflow with no calls produces only the start node and styling, never an
// error.
func Mermaid(wf *wdl.Workflow) string {
	b := &builder{
		wf:      wf,
		nodeIDs: make(map[string]string),
	}
	return b.generate()
}

type builder struct {
	wf   *wdl.Workflow
	col  *collection
	deps map[string][]string
	em   emitter

	nodeIDs   map[string]string // call name -> node id
	nodeOrder []string          // call names in node-creation order
	nodeCount int
	scatterID int
	condID    int

	startConns []string
	depConns   [][2]string
}

func (b *builder) generate() string {
	b.em.line(0, "flowchart TD")
	b.em.linef(1, "Start([%s])", b.wf.Name)

	b.col = collect(b.wf.Body)
	b.deps = resolve(b.col)

	if len(b.col.names) == 0 {
		b.styling()
		return b.em.String()
	}

	final := b.processElements(b.wf.Body, 1)
	b.connections()
	b.endNode(final)
	b.styling()

	return b.em.String()
}

// processElements emits nodes and scope regions for one body level and
// returns the node ids that terminate it.
func (b *builder) processElements(body []wdl.BodyElement, level int) []string {
	var ends []string
	for _, el := range body {
		switch el := el.(type) {
		case *wdl.Call:
			if id, ok := b.processCall(el, level); ok {
				ends = appendUnique(ends, id)
			}
		case *wdl.Scatter:
			ends = appendUniqueAll(ends, b.processScatter(el, level))
		case *wdl.Conditional:
			ends = appendUniqueAll(ends, b.processConditional(el, level))
		}
	}
	return ends
}

func (b *builder) processCall(call *wdl.Call, level int) (string, bool) {
	name := call.Name()
	if _, known := b.col.byName[name]; !known {
		return "", false
	}

	id, created := b.nodeIDs[name]
	if created {
		return id, true
	}

	b.nodeCount++
	id = fmt.Sprintf("N%d", b.nodeCount)
	b.nodeIDs[name] = id
	b.nodeOrder = append(b.nodeOrder, name)

	callee := call.Callee.Name
	display := name
	if name != callee {
		display = fmt.Sprintf("%s<br/><i>%s</i>", name, callee)
	}
	if call.Callee.Kind == wdl.KindWorkflow {
		b.em.linef(level, `%s[/"%s"/]`, id, display)
	} else {
		b.em.linef(level, `%s["%s"]`, id, display)
	}

	// Connections are recorded here but emitted later, outside any
	// subgraph region, so cross-scope edges stay unambiguous.
	connected := false
	for _, dep := range b.deps[name] {
		if depID, ok := b.nodeIDs[dep]; ok {
			b.depConns = append(b.depConns, [2]string{depID, id})
			connected = true
		}
	}
	if !connected {
		b.startConns = append(b.startConns, id)
	}
	return id, true
}

func (b *builder) processScatter(s *wdl.Scatter, level int) []string {
	if !containsCalls(s.Body) {
		// No visual scope for call-free blocks: flatten into the parent.
		return b.processElements(s.Body, level)
	}

	b.scatterID++
	label := "🔃 scatter " + s.Variable
	if coll := scatterCollection(s.Expr); coll != "" {
		label += " in " + coll
	}

	b.em.linef(level, `subgraph S%d ["%s"]`, b.scatterID, label)
	b.em.line(level+1, "direction TB")
	ends := b.processElements(s.Body, level+1)
	b.em.line(level, "end")
	return ends
}

func (b *builder) processConditional(c *wdl.Conditional, level int) []string {
	if !containsCalls(c.Body) {
		return b.processElements(c.Body, level)
	}

	b.condID++
	label := strings.ReplaceAll("↔️ if "+conditionLabel(c.Expr), `"`, "'")

	b.em.linef(level, `subgraph C%d ["%s"]`, b.condID, label)
	b.em.line(level+1, "direction TB")
	ends := b.processElements(c.Body, level+1)
	b.em.line(level, "end")
	return ends
}

func (b *builder) connections() {
	for _, conn := range b.depConns {
		b.em.linef(1, "%s --> %s", conn[0], conn[1])
	}
	for _, id := range b.startConns {
		b.em.linef(1, "Start --> %s", id)
	}
}

// endNode routes leaf calls (never depended upon by another call) to the
// synthetic end node. When no leaves exist the deepest processed node set is
// used instead, so even an all-cyclic body yields a terminated diagram.
func (b *builder) endNode(final []string) {
	dependedOn := make(map[string]bool)
	for _, name := range b.col.names {
		for _, dep := range b.deps[name] {
			dependedOn[dep] = true
		}
	}

	var leaves []string
	for _, name := range b.nodeOrder {
		if !dependedOn[name] {
			leaves = append(leaves, b.nodeIDs[name])
		}
	}

	targets := leaves
	if len(targets) == 0 {
		targets = final
	}
	for _, id := range targets {
		b.em.linef(1, "%s --> End([End])", id)
	}
}

func (b *builder) styling() {
	b.em.line(1, "classDef taskNode fill:#a371f7,stroke:#8b5cf6,stroke-width:2px,color:#fff")
	b.em.line(1, "classDef workflowNode fill:#58a6ff,stroke:#1f6feb,stroke-width:2px,color:#fff")
}

// containsCalls reports whether the body transitively contains at least one
// call with a resolved callee.
func containsCalls(body []wdl.BodyElement) bool {
	for _, el := range body {
		switch el := el.(type) {
		case *wdl.Call:
			if el.Callee != nil && el.Callee.Name != "" {
				return true
			}
		case *wdl.Scatter:
			if containsCalls(el.Body) {
				return true
			}
		case *wdl.Conditional:
			if containsCalls(el.Body) {
				return true
			}
		}
	}
	return false
}

// scatterCollection renders the iterated collection for a scatter label.
func scatterCollection(expr wdl.Expr) string {
	switch e := expr.(type) {
	case nil:
		return ""
	case *wdl.Ident:
		return e.Name
	case *wdl.Apply:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = a.String()
		}
		return e.Name + "(" + strings.Join(args, ", ") + ")"
	default:
		return expr.String()
	}
}

func conditionLabel(expr wdl.Expr) string {
	if expr == nil {
		return "condition"
	}
	return expr.String()
}
