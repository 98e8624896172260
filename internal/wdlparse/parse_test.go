package wdlparse

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/me/wdldoc/pkg/wdl"
)

func parseTestdata(t *testing.T, name string) *wdl.Document {
	t.Helper()
	path := filepath.Join("testdata", name)
	doc, perr := ParseFile(path, name)
	if perr != nil {
		t.Fatalf("ParseFile(%s): %v", name, perr)
	}
	return doc
}

func mustParse(t *testing.T, src string) *wdl.Document {
	t.Helper()
	doc, perr := Parse(src, "/test/inline.wdl", "inline.wdl")
	if perr != nil {
		t.Fatalf("Parse: %v", perr)
	}
	return doc
}

func TestParseFile_MainDocument(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")

	if doc.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", doc.Version)
	}
	if doc.Workflow == nil {
		t.Fatal("no workflow parsed")
	}
	if doc.Workflow.Name != "variant_calling" {
		t.Errorf("workflow name = %q", doc.Workflow.Name)
	}
	if got := doc.Workflow.Description; got != "Aligns reads and calls variants per sample" {
		t.Errorf("description = %q", got)
	}
	if len(doc.Tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(doc.Tasks))
	}
	if doc.DocumentType() != "mixed" {
		t.Errorf("DocumentType = %q, want mixed", doc.DocumentType())
	}
}

func TestParseFile_ImportResolved(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")

	if len(doc.Imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(doc.Imports))
	}
	imp := doc.Imports[0]
	if imp.Namespace != "align" {
		t.Errorf("Namespace = %q, want align", imp.Namespace)
	}
	if imp.ResolvedPath == "" {
		t.Error("import to existing file not resolved")
	}
	if !strings.HasSuffix(filepath.ToSlash(imp.ResolvedPath), "testdata/lib/align.wdl") {
		t.Errorf("ResolvedPath = %q", imp.ResolvedPath)
	}
}

func TestParse_WorkflowBodyStructure(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")
	body := doc.Workflow.Body

	if len(body) != 2 {
		t.Fatalf("got %d body elements, want 2", len(body))
	}
	scatter, ok := body[0].(*wdl.Scatter)
	if !ok {
		t.Fatalf("body[0] is %T, want *wdl.Scatter", body[0])
	}
	if scatter.Variable != "fq" {
		t.Errorf("scatter variable = %q", scatter.Variable)
	}
	if got := wdl.ExprString(scatter.Expr); got != "fastqs" {
		t.Errorf("scatter expr = %q", got)
	}
	if len(scatter.Body) != 2 {
		t.Fatalf("got %d scatter elements, want 2", len(scatter.Body))
	}

	mapped, ok := scatter.Body[0].(*wdl.Call)
	if !ok {
		t.Fatalf("scatter body[0] is %T, want *wdl.Call", scatter.Body[0])
	}
	if mapped.Target != "align.bwa_mem" || mapped.Alias != "map_reads" {
		t.Errorf("call = %q as %q", mapped.Target, mapped.Alias)
	}
	if mapped.Name() != "map_reads" {
		t.Errorf("Name() = %q, want map_reads", mapped.Name())
	}

	cond, ok := body[1].(*wdl.Conditional)
	if !ok {
		t.Fatalf("body[1] is %T, want *wdl.Conditional", body[1])
	}
	if got := wdl.ExprString(cond.Expr); got != "deep_clean" {
		t.Errorf("conditional expr = %q", got)
	}
}

func TestParse_CallInputsKeepSourceOrder(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")
	scatter := doc.Workflow.Body[0].(*wdl.Scatter)
	call := scatter.Body[1].(*wdl.Call)

	var names []string
	for _, in := range call.Inputs {
		names = append(names, in.Name)
	}
	want := []string{"bam", "reference", "docker"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("input names = %v, want %v", names, want)
	}
	if got := wdl.ExprString(call.Inputs[0].Expr); got != "map_reads.bam" {
		t.Errorf("bam expr = %q, want map_reads.bam", got)
	}
}

func TestParse_WorkflowInputs(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")
	inputs := doc.Workflow.Inputs

	if len(inputs) != 4 {
		t.Fatalf("got %d inputs, want 4", len(inputs))
	}
	if inputs[0].Type.String() != "Array[File]" || inputs[0].Name != "fastqs" {
		t.Errorf("inputs[0] = %s %s", inputs[0].Type, inputs[0].Name)
	}
	if inputs[1].HasDefault() {
		t.Error("reference input has no default")
	}
	if got := inputs[2].DefaultString(); got != `"broadinstitute/gatk:4.4.0.0"` {
		t.Errorf("docker_image default = %q", got)
	}
}

func TestParse_TaskSections(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")
	task := doc.Tasks[0]

	if task.Name != "call_variants" {
		t.Fatalf("task name = %q", task.Name)
	}
	if !task.HasCommand() {
		t.Fatal("command section missing")
	}
	if !strings.HasPrefix(task.Command.Formatted, "set -euo pipefail") {
		t.Errorf("command not dedented:\n%s", task.Command.Formatted)
	}
	if !strings.Contains(task.Command.Formatted, "\ngatk HaplotypeCaller") {
		t.Errorf("gatk line not dedented to column zero:\n%s", task.Command.Formatted)
	}
	if !strings.Contains(task.Command.Formatted, "\n    -I ~{bam}") {
		// continuation lines keep their relative indentation
		t.Errorf("inner indentation lost:\n%s", task.Command.Formatted)
	}
	if expr := task.RuntimeValue("docker"); expr == nil {
		t.Fatal("runtime docker key missing")
	} else if got := wdl.ExprString(expr); got != "docker" {
		t.Errorf("docker runtime = %q, want identifier docker", got)
	}
	if expr := task.RuntimeValue("memory"); wdl.ExprString(expr) != `"8 GB"` {
		t.Errorf("memory runtime = %q", wdl.ExprString(expr))
	}
}

func TestParse_BraceCommandWithPlaceholder(t *testing.T) {
	doc := parseTestdata(t, "main.wdl")
	task := doc.Tasks[1]

	if task.Name != "cleanup" {
		t.Fatalf("task name = %q", task.Name)
	}
	if !strings.Contains(task.Command.Formatted, `rm -f ${sep=" " files}`) {
		t.Errorf("brace command lost text:\n%s", task.Command.Formatted)
	}
}

func TestParse_VersionDefaultsTo10(t *testing.T) {
	doc := mustParse(t, `workflow w { call t }
task t { command { true } }`)
	if doc.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", doc.Version)
	}
}

func TestParse_ImportNamespaceDefaultsToStem(t *testing.T) {
	doc := mustParse(t, `version 1.0
import "tools/samtools.wdl"
workflow w {}`)
	if len(doc.Imports) != 1 || doc.Imports[0].Namespace != "samtools" {
		t.Errorf("imports = %+v, want namespace samtools", doc.Imports)
	}
}

func TestParse_CallInputShorthand(t *testing.T) {
	doc := mustParse(t, `version 1.1
workflow w {
    input { File reads }
    call trim { input: reads }
}
task trim {
    input { File reads }
    command <<< true >>>
}`)
	call := doc.Workflow.Body[0].(*wdl.Call)
	if len(call.Inputs) != 1 {
		t.Fatalf("got %d inputs, want 1", len(call.Inputs))
	}
	if got := wdl.ExprString(call.Inputs[0].Expr); got != "reads" {
		t.Errorf("shorthand input expr = %q, want reads", got)
	}
}

func TestParse_CallAfterClauseIgnored(t *testing.T) {
	doc := mustParse(t, `version 1.1
workflow w {
    call a
    call b after a
}`)
	if len(doc.Workflow.Body) != 2 {
		t.Fatalf("got %d body elements, want 2", len(doc.Workflow.Body))
	}
	call := doc.Workflow.Body[1].(*wdl.Call)
	if call.Target != "b" || call.Alias != "" {
		t.Errorf("call = %q as %q, want b", call.Target, call.Alias)
	}
}

func TestParse_IntermediateDeclaration(t *testing.T) {
	doc := mustParse(t, `version 1.0
workflow w {
    input { Int n }
    Int doubled = n * 2
    call report { input: value = doubled }
}`)
	decl, ok := doc.Workflow.Body[0].(*wdl.Decl)
	if !ok {
		t.Fatalf("body[0] is %T, want *wdl.Decl", doc.Workflow.Body[0])
	}
	if decl.Name != "doubled" || decl.Type.Name != "Int" {
		t.Errorf("decl = %s %s", decl.Type, decl.Name)
	}
	if got := wdl.ExprString(decl.Expr); got != "n * 2" {
		t.Errorf("decl expr = %q", got)
	}
}

func TestParse_OptionalAndCompoundTypes(t *testing.T) {
	doc := mustParse(t, `version 1.0
workflow w {
    input {
        String? label
        Array[File]+ files
        Map[String, Int] counts
        Pair[File, File] mates
    }
}`)
	inputs := doc.Workflow.Inputs
	want := []string{"String?", "Array[File]+", "Map[String, Int]", "Pair[File, File]"}
	for i, w := range want {
		if got := inputs[i].Type.String(); got != w {
			t.Errorf("inputs[%d].Type = %q, want %q", i, got, w)
		}
	}
}

func TestParse_StructAndParameterMetaSkipped(t *testing.T) {
	doc := mustParse(t, `version 1.0
struct Sample {
    String name
    File reads
}
workflow w {
    input { Int n }
    parameter_meta {
        n: "sample count"
    }
}`)
	if doc.Workflow == nil || len(doc.Workflow.Inputs) != 1 {
		t.Fatalf("workflow inputs lost around struct/parameter_meta")
	}
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	doc, perr := Parse("version 1.0\nworkflow {", "/test/bad.wdl", "bad.wdl")
	if doc != nil {
		t.Error("document returned alongside error")
	}
	if perr == nil {
		t.Fatal("no error for invalid source")
	}
	if perr.Type != "SyntaxError" {
		t.Errorf("Type = %q, want SyntaxError", perr.Type)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	doc, perr := ParseFile(filepath.Join("testdata", "absent.wdl"), "absent.wdl")
	if doc != nil || perr == nil || perr.Type != "IOError" {
		t.Errorf("got doc=%v err=%v, want IOError", doc, perr)
	}
}

func TestResolveCallees_Corpus(t *testing.T) {
	main := parseTestdata(t, "main.wdl")
	lib, perr := ParseFile(main.Imports[0].ResolvedPath, "lib/align.wdl")
	if perr != nil {
		t.Fatalf("parse lib: %v", perr)
	}
	lib.Path = main.Imports[0].ResolvedPath

	ResolveCallees([]*wdl.Document{main, lib})

	scatter := main.Workflow.Body[0].(*wdl.Scatter)
	mapped := scatter.Body[0].(*wdl.Call)
	if mapped.Callee == nil {
		t.Fatal("imported call unresolved")
	}
	if mapped.Callee.Name != "bwa_mem" || mapped.Callee.Kind != wdl.KindTask {
		t.Errorf("callee = %+v", mapped.Callee)
	}

	local := scatter.Body[1].(*wdl.Call)
	if local.Callee == nil || local.Callee.Name != "call_variants" || local.Callee.Kind != wdl.KindTask {
		t.Errorf("local callee = %+v", local.Callee)
	}
}

func TestResolveCallees_UnknownTargetStaysNil(t *testing.T) {
	doc := mustParse(t, `version 1.0
workflow w { call ghost }`)
	ResolveCallees([]*wdl.Document{doc})
	call := doc.Workflow.Body[0].(*wdl.Call)
	if call.Callee != nil {
		t.Errorf("callee = %+v, want nil", call.Callee)
	}
}

func TestResolveCallees_WorkflowKind(t *testing.T) {
	sub, perr := Parse(`version 1.0
workflow subflow {}`, "/repo/sub.wdl", "sub.wdl")
	if perr != nil {
		t.Fatal(perr)
	}
	main, perr := Parse(`version 1.0
import "sub.wdl" as sub
workflow main { call sub.subflow }`, "/repo/main.wdl", "main.wdl")
	if perr != nil {
		t.Fatal(perr)
	}
	main.Imports[0].ResolvedPath = "/repo/sub.wdl"

	ResolveCallees([]*wdl.Document{main, sub})
	call := main.Workflow.Body[0].(*wdl.Call)
	if call.Callee == nil || call.Callee.Kind != wdl.KindWorkflow {
		t.Errorf("callee = %+v, want workflow kind", call.Callee)
	}
}
