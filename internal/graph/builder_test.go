package graph

import (
	"strings"
	"testing"

	"github.com/me/wdldoc/pkg/wdl"
)

func workflowCall(target, alias string, inputs ...wdl.CallInput) *wdl.Call {
	return &wdl.Call{
		Target: target,
		Alias:  alias,
		Inputs: inputs,
		Callee: &wdl.Callee{Name: lastSegment(target), Kind: wdl.KindWorkflow},
	}
}

func lastSegment(target string) string {
	if i := strings.LastIndex(target, "."); i >= 0 {
		return target[i+1:]
	}
	return target
}

func countOccurrences(s, sub string) int {
	return strings.Count(s, sub)
}

func TestMermaid_NoCalls(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "empty_flow",
		Body: []wdl.BodyElement{
			&wdl.Decl{Name: "x", Expr: ident("input_value")},
		},
	}

	got := Mermaid(wf)
	want := strings.Join([]string{
		"flowchart TD",
		"    Start([empty_flow])",
		"    classDef taskNode fill:#a371f7,stroke:#8b5cf6,stroke-width:2px,color:#fff",
		"    classDef workflowNode fill:#58a6ff,stroke:#1f6feb,stroke-width:2px,color:#fff",
	}, "\n")
	if got != want {
		t.Errorf("Mermaid =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(got, "-->") {
		t.Error("call-free diagram must contain no edges")
	}
}

func TestMermaid_EmptyBody(t *testing.T) {
	got := Mermaid(&wdl.Workflow{Name: "bare"})
	if !strings.Contains(got, "Start([bare])") {
		t.Errorf("missing start node:\n%s", got)
	}
	if strings.Contains(got, "-->") {
		t.Errorf("empty body produced edges:\n%s", got)
	}
}

func TestMermaid_IndependentCallsScenario(t *testing.T) {
	// setup; scatter (s in samples) { process }; cleanup — no data deps.
	wf := &wdl.Workflow{
		Name: "demo",
		Body: []wdl.BodyElement{
			taskCall("setup"),
			&wdl.Scatter{Variable: "s", Expr: ident("samples"), Body: []wdl.BodyElement{
				taskCall("process"),
			}},
			taskCall("cleanup"),
		},
	}

	got := Mermaid(wf)
	want := strings.Join([]string{
		"flowchart TD",
		"    Start([demo])",
		`    N1["setup"]`,
		`    subgraph S1 ["🔃 scatter s in samples"]`,
		"        direction TB",
		`        N2["process"]`,
		"    end",
		`    N3["cleanup"]`,
		"    Start --> N1",
		"    Start --> N2",
		"    Start --> N3",
		"    N1 --> End([End])",
		"    N2 --> End([End])",
		"    N3 --> End([End])",
		"    classDef taskNode fill:#a371f7,stroke:#8b5cf6,stroke-width:2px,color:#fff",
		"    classDef workflowNode fill:#58a6ff,stroke:#1f6feb,stroke-width:2px,color:#fff",
	}, "\n")
	if got != want {
		t.Errorf("Mermaid =\n%s\nwant\n%s", got, want)
	}
}

func TestMermaid_DependencyEdges(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "pipeline",
		Body: []wdl.BodyElement{
			taskCall("align"),
			taskCall("sort", input("bam", access("align", "bam"))),
		},
	}

	got := Mermaid(wf)
	if !strings.Contains(got, "N1 --> N2") {
		t.Errorf("missing dependency edge:\n%s", got)
	}
	if !strings.Contains(got, "Start --> N1") {
		t.Errorf("missing start edge for root call:\n%s", got)
	}
	if strings.Contains(got, "Start --> N2") {
		t.Errorf("dependent call must not connect to start:\n%s", got)
	}
	// Only the terminal call feeds End.
	if countOccurrences(got, "--> End([End])") != 1 || !strings.Contains(got, "N2 --> End([End])") {
		t.Errorf("leaf routing wrong:\n%s", got)
	}
}

func TestMermaid_ScatterContextEdge(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "fanout",
		Body: []wdl.BodyElement{
			taskCall("foo"),
			&wdl.Scatter{Variable: "x", Expr: access("foo", "results"), Body: []wdl.BodyElement{
				taskCall("bar"),
			}},
		},
	}

	got := Mermaid(wf)
	if !strings.Contains(got, "N1 --> N2") {
		t.Errorf("scatter context should create foo->bar edge:\n%s", got)
	}
}

func TestMermaid_AliasLabel(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "aliased",
		Body: []wdl.BodyElement{
			&wdl.Call{
				Target: "tools.align",
				Alias:  "align_reads",
				Callee: &wdl.Callee{Name: "align", Kind: wdl.KindTask},
			},
			taskCall("plain"),
		},
	}

	got := Mermaid(wf)
	if !strings.Contains(got, `N1["align_reads<br/><i>align</i>"]`) {
		t.Errorf("alias label missing:\n%s", got)
	}
	if !strings.Contains(got, `N2["plain"]`) {
		t.Errorf("unaliased call should show a single name:\n%s", got)
	}
}

func TestMermaid_ShapesByCalleeKind(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "mixed",
		Body: []wdl.BodyElement{
			taskCall("trim"),
			workflowCall("sub.assembly", ""),
		},
	}

	got := Mermaid(wf)
	if !strings.Contains(got, `N1["trim"]`) {
		t.Errorf("task call should use process shape:\n%s", got)
	}
	if !strings.Contains(got, `N2[/"assembly"/]`) {
		t.Errorf("workflow call should use subroutine shape:\n%s", got)
	}
}

func TestMermaid_CallFreeScatterFlattened(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "flat",
		Body: []wdl.BodyElement{
			taskCall("work"),
			&wdl.Scatter{Variable: "i", Expr: ident("items"), Body: []wdl.BodyElement{
				&wdl.Decl{Name: "doubled", Expr: ident("i")},
			}},
		},
	}

	got := Mermaid(wf)
	if strings.Contains(got, "subgraph") {
		t.Errorf("call-free scatter must not produce a subgraph:\n%s", got)
	}
	if strings.Contains(got, "doubled") {
		t.Errorf("declarations must not produce nodes:\n%s", got)
	}
}

func TestMermaid_TripleNestingSingleNode(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "deep",
		Body: []wdl.BodyElement{
			&wdl.Scatter{Variable: "a", Expr: ident("groups"), Body: []wdl.BodyElement{
				&wdl.Conditional{Expr: ident("enabled"), Body: []wdl.BodyElement{
					&wdl.Scatter{Variable: "b", Expr: ident("members"), Body: []wdl.BodyElement{
						taskCall("inner_task"),
					}},
				}},
			}},
		},
	}

	got := Mermaid(wf)
	if n := countOccurrences(got, `N1["inner_task"]`); n != 1 {
		t.Errorf("inner_task declared %d times, want 1:\n%s", n, got)
	}
	if n := countOccurrences(got, "subgraph"); n != 3 {
		t.Errorf("subgraph count = %d, want 3:\n%s", n, got)
	}
	if !strings.Contains(got, "N1 --> End([End])") {
		t.Errorf("single nested call should be the leaf:\n%s", got)
	}
}

func TestMermaid_EdgesOutsideSubgraphs(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "scoped",
		Body: []wdl.BodyElement{
			taskCall("outer"),
			&wdl.Scatter{Variable: "s", Expr: access("outer", "sets"), Body: []wdl.BodyElement{
				taskCall("inner", input("v", access("outer", "sets"))),
			}},
		},
	}

	got := Mermaid(wf)
	end := strings.Index(got, "\n    end")
	if end < 0 {
		t.Fatalf("no subgraph close found:\n%s", got)
	}
	if edge := strings.Index(got, "-->"); edge >= 0 && edge < end {
		t.Errorf("edges must be emitted after all subgraph regions:\n%s", got)
	}
}

func TestMermaid_ConditionalLabelQuotesReplaced(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "guarded",
		Body: []wdl.BodyElement{
			&wdl.Conditional{
				Expr: &wdl.Binary{
					Op:    "==",
					Left:  ident("mode"),
					Right: &wdl.StringLit{Parts: []wdl.StringPart{{Literal: "fast"}}},
				},
				Body: []wdl.BodyElement{taskCall("sprint")},
			},
		},
	}

	got := Mermaid(wf)
	if !strings.Contains(got, `subgraph C1 ["↔️ if mode == 'fast'"]`) {
		t.Errorf("conditional label wrong:\n%s", got)
	}
}

func TestMermaid_CyclicFallbackToFinalNodes(t *testing.T) {
	// a <-> b through identifiers: no leaves exist.
	wf := &wdl.Workflow{
		Name: "loop",
		Body: []wdl.BodyElement{
			taskCall("a", input("v", access("b", "out"))),
			taskCall("b", input("v", access("a", "out"))),
		},
	}

	got := Mermaid(wf)
	if !strings.Contains(got, "--> End([End])") {
		t.Errorf("degenerate graph must still terminate:\n%s", got)
	}
}

func TestMermaid_Idempotent(t *testing.T) {
	wf := &wdl.Workflow{
		Name: "stable",
		Body: []wdl.BodyElement{
			taskCall("one"),
			&wdl.Scatter{Variable: "s", Expr: access("one", "out"), Body: []wdl.BodyElement{
				taskCall("two", input("v", ident("s"))),
			}},
			taskCall("three", input("v", access("two", "out"))),
		},
	}

	first := Mermaid(wf)
	for i := 0; i < 20; i++ {
		if got := Mermaid(wf); got != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}
