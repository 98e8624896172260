package graph

// resolve computes each call's full dependency set: identifiers referenced by
// its input expressions plus inherited scope context, with intermediate
// variables substituted by the calls they transitively reach. Identifiers
// matching neither a call nor a tracked variable are dropped; a call never
// depends on itself.
func resolve(c *collection) map[string][]string {
	closed := closeVariables(c)

	deps := make(map[string][]string, len(c.names))
	for _, name := range c.names {
		call := c.byName[name]

		var ids []string
		for _, in := range call.Inputs {
			if in.Expr != nil {
				ids = appendUniqueAll(ids, Identifiers(in.Expr))
			}
		}
		ids = appendUniqueAll(ids, c.ctxDeps[name])

		var out []string
		for _, id := range ids {
			ref := leading(id)
			if ref == name {
				continue
			}
			if _, isCall := c.byName[ref]; isCall {
				out = appendUnique(out, ref)
				continue
			}
			for _, d := range closed[ref] {
				if d != name {
					out = appendUnique(out, d)
				}
			}
		}
		deps[name] = out
	}
	return deps
}

// closeVariables resolves the variable dependency map transitively, so each
// variable maps directly to call names. Propagation runs to a fixpoint, which
// keeps cyclic declarations both terminating and order-independent.
func closeVariables(c *collection) map[string][]string {
	closed := make(map[string][]string, len(c.varNames))
	for _, name := range c.varNames {
		var direct []string
		for _, id := range c.varDeps[name] {
			if ref := leading(id); refIsCall(c, ref) {
				direct = appendUnique(direct, ref)
			}
		}
		closed[name] = direct
	}

	for changed := true; changed; {
		changed = false
		for _, name := range c.varNames {
			for _, id := range c.varDeps[name] {
				ref := leading(id)
				if ref == name || refIsCall(c, ref) {
					continue
				}
				before := len(closed[name])
				closed[name] = appendUniqueAll(closed[name], closed[ref])
				if len(closed[name]) != before {
					changed = true
				}
			}
		}
	}
	return closed
}

func refIsCall(c *collection, ref string) bool {
	_, ok := c.byName[ref]
	return ok
}
