package wdl

// Type is a WDL type as written in source (String, Int, Array[File], ...).
// wdldoc never type-checks; the type is carried for display only.
type Type struct {
	Name     string
	Optional bool
}

func (t Type) String() string {
	if t.Optional {
		return t.Name + "?"
	}
	return t.Name
}

// Input is an input parameter of a task or workflow.
type Input struct {
	Name    string
	Type    Type
	Default Expr // nil when the input has no default
}

// HasDefault reports whether the input declares a default value.
func (in Input) HasDefault() bool { return in.Default != nil }

// DefaultString renders the default value for display.
func (in Input) DefaultString() string {
	if in.Default == nil {
		return ""
	}
	return ExprString(in.Default)
}

// Output is an output declaration of a task or workflow.
type Output struct {
	Name string
	Type Type
	Expr Expr
}

// ExprText renders the output expression for display.
func (out Output) ExprText() string {
	if out.Expr == nil {
		return ""
	}
	return ExprString(out.Expr)
}

// Command is a task command section, kept both raw and dedented.
type Command struct {
	Raw       string
	Formatted string
}

// RuntimeEntry is one key in a task runtime section, in source order.
type RuntimeEntry struct {
	Key  string
	Expr Expr
}

// Value renders the runtime expression for display, substituting a
// placeholder when the expression is missing.
func (r RuntimeEntry) Value() string { return ExprString(r.Expr) }
