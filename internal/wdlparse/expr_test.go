package wdlparse

import (
	"testing"

	"github.com/me/wdldoc/pkg/wdl"
)

// parseExprString parses src as a single expression by wrapping it in a
// declaration, then renders it back.
func parseExprString(t *testing.T, src string) string {
	t.Helper()
	doc := mustParse(t, "version 1.0\nworkflow w {\n    Int x = "+src+"\n}")
	decl := doc.Workflow.Body[0].(*wdl.Decl)
	return wdl.ExprString(decl.Expr)
}

func TestParseExpr_Rendering(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"sample_id", "sample_id"},
		{"align.bam", "align.bam"},
		{"a.b.c", "a.b.c"},
		{"size(bam, \"GB\")", `size(bam, "GB")`},
		{"select_first([a, b])", "select_first([a, b])"},
		{"files[0]", "files[0]"},
		{"(left, right)", "(left, right)"},
		{"{\"a\": 1, \"b\": 2}", `{"a": 1, "b": 2}`},
		{"2 + threads * 4", "2 + threads * 4"},
		{"!defined(maybe)", "!defined(maybe)"},
		{"n >= 2 && ready", "n >= 2 && ready"},
		{"if fast then 1 else 8", "if fast then 1 else 8"},
		{"-offset", "-offset"},
		{"true", "true"},
		{"None", "None"},
		{"3.5", "3.5"},
		{"1e6", "1e6"},
	}
	for _, tc := range cases {
		if got := parseExprString(t, tc.src); got != tc.want {
			t.Errorf("parse(%q) renders %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestParseExpr_StringPlaceholders(t *testing.T) {
	doc := mustParse(t, "version 1.0\nworkflow w {\n    String s = \"out/~{name}.bam\"\n}")
	decl := doc.Workflow.Body[0].(*wdl.Decl)
	lit, ok := decl.Expr.(*wdl.StringLit)
	if !ok {
		t.Fatalf("expr is %T, want *wdl.StringLit", decl.Expr)
	}
	if !lit.HasPlaceholders() {
		t.Fatal("placeholder not detected")
	}
	if got := lit.String(); got != `"out/~{name}.bam"` {
		t.Errorf("String() = %q", got)
	}
}

func TestParseExpr_DollarPlaceholder(t *testing.T) {
	doc := mustParse(t, "version 1.0\nworkflow w {\n    String s = \"${prefix}.txt\"\n}")
	decl := doc.Workflow.Body[0].(*wdl.Decl)
	lit := decl.Expr.(*wdl.StringLit)
	if !lit.HasPlaceholders() {
		t.Error("${...} placeholder not detected")
	}
}

func TestParseExpr_PlaceholderOptionsDropped(t *testing.T) {
	doc := mustParse(t, "version 1.0\nworkflow w {\n    String s = \"~{sep=\", \" names}\"\n}")
	decl := doc.Workflow.Body[0].(*wdl.Decl)
	lit := decl.Expr.(*wdl.StringLit)
	if got := lit.String(); got != `"~{names}"` {
		t.Errorf("String() = %q, want placeholder reduced to its expression", got)
	}
}

func TestParseExpr_TernaryIdentifiers(t *testing.T) {
	doc := mustParse(t, "version 1.0\nworkflow w {\n    Int mem = if big then large_mem else small_mem\n}")
	decl := doc.Workflow.Body[0].(*wdl.Decl)
	if _, ok := decl.Expr.(*wdl.Ternary); !ok {
		t.Fatalf("expr is %T, want *wdl.Ternary", decl.Expr)
	}
}
