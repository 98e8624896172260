package wdl

// InputValue is one stringified call-site binding, kept in source order.
type InputValue struct {
	Name  string
	Value string
}

// CallRecord is the normalized form of one call statement, derived once per
// call during document analysis and immutable afterwards.
type CallRecord struct {
	// Name is the call's local name: the alias, or the callee name when
	// no alias was given.
	Name string
	// Callee is the name of the invoked task or workflow definition.
	Callee string
	// CallType is "task" or "workflow" depending on the callee kind.
	CallType CalleeKind
	// IsLocal is true when the callee is defined in the same document
	// rather than reached through an import namespace.
	IsLocal bool
	// LinkTarget is an intra-page anchor for local callees, or the
	// relative HTML path of the imported document.
	LinkTarget string
	// Inputs are the stringified call-site bindings.
	Inputs []InputValue
}

// Aliased reports whether the call uses a local name different from the
// callee's.
func (c CallRecord) Aliased() bool { return c.Name != c.Callee }

// IsWorkflowCall reports whether the callee is a workflow.
func (c CallRecord) IsWorkflowCall() bool { return c.CallType == KindWorkflow }

// IsTaskCall reports whether the callee is a task.
func (c CallRecord) IsTaskCall() bool { return c.CallType == KindTask }
