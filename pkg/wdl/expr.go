package wdl

import (
	"fmt"
	"strings"
)

// Expr is a WDL expression node. Expressions are never evaluated by wdldoc;
// they exist so documentation can show call wiring and so the graph layer can
// discover identifier references.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Ident is a bare or dotted name reference such as "reads" or "align.bam".
type Ident struct {
	Name string
}

// Access is a member access on a computed sub-expression, e.g. (pair).left.
type Access struct {
	Base  Expr
	Field string
}

// Apply is a function application such as select_first([a, b]).
type Apply struct {
	Name string
	Args []Expr
}

// ArrayLit is an array literal [a, b, c].
type ArrayLit struct {
	Items []Expr
}

// PairLit is a pair literal (left, right).
type PairLit struct {
	Left  Expr
	Right Expr
}

// MapEntry is one key/value pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is a map literal {k: v, ...}.
type MapLit struct {
	Entries []MapEntry
}

// StringPart is one segment of an interpolated string: either literal text or
// a ~{...} placeholder expression.
type StringPart struct {
	Literal     string
	Placeholder Expr
}

// StringLit is a (possibly interpolated) string literal.
type StringLit struct {
	Parts []StringPart
}

// IntLit is an integer literal.
type IntLit struct {
	Raw string
}

// FloatLit is a floating point literal.
type FloatLit struct {
	Raw string
}

// BoolLit is true or false.
type BoolLit struct {
	Value bool
}

// NullLit is the None literal.
type NullLit struct{}

// Unary is a prefix operator expression, e.g. !defined(x).
type Unary struct {
	Op      string
	Operand Expr
}

// Binary is an infix operator expression, e.g. a + b.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Ternary is an if/then/else expression.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Index is a subscript expression such as files[0].
type Index struct {
	Base Expr
	Sub  Expr
}

func (*Ident) exprNode()     {}
func (*Access) exprNode()    {}
func (*Apply) exprNode()     {}
func (*ArrayLit) exprNode()  {}
func (*PairLit) exprNode()   {}
func (*MapLit) exprNode()    {}
func (*StringLit) exprNode() {}
func (*IntLit) exprNode()    {}
func (*FloatLit) exprNode()  {}
func (*BoolLit) exprNode()   {}
func (*NullLit) exprNode()   {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Ternary) exprNode()   {}
func (*Index) exprNode()     {}

func (e *Ident) String() string { return e.Name }

func (e *Access) String() string {
	return e.Base.String() + "." + e.Field
}

func (e *Apply) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

func (e *ArrayLit) String() string {
	items := make([]string, len(e.Items))
	for i, it := range e.Items {
		items[i] = it.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (e *PairLit) String() string {
	return "(" + e.Left.String() + ", " + e.Right.String() + ")"
}

func (e *MapLit) String() string {
	entries := make([]string, len(e.Entries))
	for i, en := range e.Entries {
		entries[i] = en.Key.String() + ": " + en.Value.String()
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func (e *StringLit) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, p := range e.Parts {
		if p.Placeholder != nil {
			b.WriteString("~{")
			b.WriteString(p.Placeholder.String())
			b.WriteByte('}')
		} else {
			b.WriteString(p.Literal)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// HasPlaceholders reports whether any part of the string is interpolated.
func (e *StringLit) HasPlaceholders() bool {
	for _, p := range e.Parts {
		if p.Placeholder != nil {
			return true
		}
	}
	return false
}

// Text returns the literal content without surrounding quotes. Placeholders
// render in their ~{...} form.
func (e *StringLit) Text() string {
	s := e.String()
	return strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
}

func (e *IntLit) String() string   { return e.Raw }
func (e *FloatLit) String() string { return e.Raw }

func (e *BoolLit) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}

func (*NullLit) String() string { return "None" }

func (e *Unary) String() string {
	return e.Op + e.Operand.String()
}

func (e *Binary) String() string {
	return e.Left.String() + " " + e.Op + " " + e.Right.String()
}

func (e *Ternary) String() string {
	return "if " + e.Cond.String() + " then " + e.Then.String() + " else " + e.Else.String()
}

func (e *Index) String() string {
	return e.Base.String() + "[" + e.Sub.String() + "]"
}

// ExprString renders an expression, substituting a placeholder for nil or
// otherwise unprintable values so display code never fails on odd input.
func ExprString(e Expr) string {
	if e == nil {
		return "unknown"
	}
	s := e.String()
	if s == "" {
		return "unknown"
	}
	return s
}
