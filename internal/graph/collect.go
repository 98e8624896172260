package graph

import "github.com/me/wdldoc/pkg/wdl"

// collection is the first-pass inventory of a workflow body: every resolvable
// call in source order, the identifier sets of intermediate variable
// declarations, and the scope context each call inherits from enclosing
// scatter iterables and conditional predicates.
type collection struct {
	names    []string // call names, first occurrence order
	byName   map[string]*wdl.Call
	varNames []string
	varDeps  map[string][]string // decl name -> initializer identifiers
	ctxDeps  map[string][]string // call name -> inherited scope identifiers
}

// collect walks body depth-first. The inherited slice is treated as
// immutable: entering a scatter or conditional produces a new combined slice,
// so sibling branches never observe each other's context.
func collect(body []wdl.BodyElement) *collection {
	c := &collection{
		byName:  make(map[string]*wdl.Call),
		varDeps: make(map[string][]string),
		ctxDeps: make(map[string][]string),
	}
	c.walk(body, nil)
	return c
}

func (c *collection) walk(body []wdl.BodyElement, inherited []string) {
	for _, el := range body {
		switch el := el.(type) {
		case *wdl.Call:
			if el.Callee == nil || el.Callee.Name == "" {
				// Unresolvable callee: tolerated upstream imperfection.
				continue
			}
			name := el.Name()
			if _, ok := c.byName[name]; !ok {
				c.byName[name] = el
				c.names = append(c.names, name)
			}
			if len(inherited) > 0 {
				c.ctxDeps[name] = appendUniqueAll(c.ctxDeps[name], inherited)
			}

		case *wdl.Decl:
			if el.Expr != nil {
				if _, ok := c.varDeps[el.Name]; !ok {
					c.varNames = append(c.varNames, el.Name)
				}
				c.varDeps[el.Name] = Identifiers(el.Expr)
			}

		case *wdl.Scatter:
			c.walk(el.Body, scopeContext(inherited, el.Expr))

		case *wdl.Conditional:
			c.walk(el.Body, scopeContext(inherited, el.Expr))
		}
	}
}

// scopeContext combines the outer context with the identifiers referenced by
// a scope's governing expression, returning a fresh slice.
func scopeContext(inherited []string, expr wdl.Expr) []string {
	combined := make([]string, 0, len(inherited))
	combined = appendUniqueAll(combined, inherited)
	if expr != nil {
		combined = appendUniqueAll(combined, Identifiers(expr))
	}
	return combined
}
