package graph

import (
	"strings"

	"github.com/me/wdldoc/pkg/wdl"
)

// Identifiers extracts every identifier name an expression references,
// descending through accessors, function arguments, collection items, and
// string placeholders. Qualified references are reduced to their leading
// segment, matching how call outputs are referenced ("align.bam" -> "align").
//
// The result is insertion-ordered and de-duplicated so callers get
// reproducible output. Unrecognized expression shapes contribute nothing.
func Identifiers(expr wdl.Expr) []string {
	var out []string
	out = scan(expr, out)
	return out
}

func scan(expr wdl.Expr, acc []string) []string {
	switch e := expr.(type) {
	case nil:
		return acc
	case *wdl.Ident:
		return appendUnique(acc, leading(e.Name))
	case *wdl.Access:
		return scan(e.Base, acc)
	case *wdl.Apply:
		for _, arg := range e.Args {
			acc = scan(arg, acc)
		}
		return acc
	case *wdl.ArrayLit:
		for _, it := range e.Items {
			acc = scan(it, acc)
		}
		return acc
	case *wdl.PairLit:
		acc = scan(e.Left, acc)
		return scan(e.Right, acc)
	case *wdl.MapLit:
		for _, en := range e.Entries {
			acc = scan(en.Key, acc)
			acc = scan(en.Value, acc)
		}
		return acc
	case *wdl.StringLit:
		for _, p := range e.Parts {
			if p.Placeholder != nil {
				acc = scan(p.Placeholder, acc)
			}
		}
		return acc
	case *wdl.Unary:
		return scan(e.Operand, acc)
	case *wdl.Binary:
		acc = scan(e.Left, acc)
		return scan(e.Right, acc)
	case *wdl.Ternary:
		acc = scan(e.Cond, acc)
		acc = scan(e.Then, acc)
		return scan(e.Else, acc)
	case *wdl.Index:
		acc = scan(e.Base, acc)
		return scan(e.Sub, acc)
	default:
		// Unknown node shapes are tolerated and contribute no names.
		return acc
	}
}

// leading reduces a dotted reference to its first segment.
func leading(name string) string {
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

func appendUniqueAll(list []string, add []string) []string {
	for _, s := range add {
		list = appendUnique(list, s)
	}
	return list
}
