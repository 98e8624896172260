package wdl

import "strings"

// CalleeKind distinguishes task definitions from workflow definitions.
type CalleeKind string

const (
	KindTask     CalleeKind = "task"
	KindWorkflow CalleeKind = "workflow"
)

// Callee is the resolved target of a call statement. A call whose target
// cannot be resolved carries a nil Callee; such calls are tolerated and
// skipped by downstream analysis.
type Callee struct {
	Name string
	Kind CalleeKind
}

// BodyElement is one element of a workflow body: a call, a variable
// declaration, a scatter block, or a conditional block.
type BodyElement interface {
	bodyElement()
}

// CallInput is one named input binding at a call site. Bindings keep source
// order so rendered documentation and graphs are reproducible.
type CallInput struct {
	Name string
	Expr Expr
}

// Call is a `call foo.bar as baz { input: ... }` statement.
type Call struct {
	// Target is the reference as written, possibly namespace-qualified
	// ("aligners.bwa_mem").
	Target string
	// Alias is the local name from an `as` clause, empty when absent.
	Alias string
	// Inputs are the call-site bindings in source order.
	Inputs []CallInput
	// Callee is filled by cross-document resolution; nil when the target
	// does not resolve to any known task or workflow.
	Callee *Callee
}

// Decl is an intermediate variable declaration inside a workflow body.
type Decl struct {
	Name string
	Type Type
	Expr Expr // nil for bare declarations
}

// Scatter is a `scatter (v in expr) { ... }` block.
type Scatter struct {
	Variable string
	Expr     Expr
	Body     []BodyElement
}

// Conditional is an `if (expr) { ... }` block.
type Conditional struct {
	Expr Expr
	Body []BodyElement
}

func (*Call) bodyElement()        {}
func (*Decl) bodyElement()        {}
func (*Scatter) bodyElement()     {}
func (*Conditional) bodyElement() {}

// Name returns the call's local name: the alias when present, otherwise the
// last segment of the target reference.
func (c *Call) Name() string {
	if c.Alias != "" {
		return c.Alias
	}
	if i := strings.LastIndex(c.Target, "."); i >= 0 {
		return c.Target[i+1:]
	}
	return c.Target
}

// Namespace returns the leading segment of a qualified target ("aligners" for
// "aligners.bwa_mem") or "" for a bare reference.
func (c *Call) Namespace() string {
	if i := strings.Index(c.Target, "."); i >= 0 {
		return c.Target[:i]
	}
	return ""
}
