package wdlparse

import "github.com/me/wdldoc/pkg/wdl"

// Expression parsing is a straightforward precedence ladder:
//
//	if/then/else > || > && > ==,!= > <,<=,>,>= > +,- > *,/,% > unary > postfix
//
// wdldoc never evaluates expressions, so the grammar only has to recover
// enough structure for identifier scanning and display.

func (p *parser) parseExpr() wdl.Expr {
	if p.consumeWord("if") {
		cond := p.parseExpr()
		p.expectWord("then")
		then := p.parseExpr()
		p.expectWord("else")
		els := p.parseExpr()
		return &wdl.Ternary{Cond: cond, Then: then, Else: els}
	}
	return p.parseOr()
}

func (p *parser) parseOr() wdl.Expr {
	left := p.parseAnd()
	for p.consume("||") {
		left = &wdl.Binary{Op: "||", Left: left, Right: p.parseAnd()}
	}
	return left
}

func (p *parser) parseAnd() wdl.Expr {
	left := p.parseEquality()
	for p.consume("&&") {
		left = &wdl.Binary{Op: "&&", Left: left, Right: p.parseEquality()}
	}
	return left
}

func (p *parser) parseEquality() wdl.Expr {
	left := p.parseComparison()
	for {
		switch {
		case p.consume("=="):
			left = &wdl.Binary{Op: "==", Left: left, Right: p.parseComparison()}
		case p.consume("!="):
			left = &wdl.Binary{Op: "!=", Left: left, Right: p.parseComparison()}
		default:
			return left
		}
	}
}

func (p *parser) parseComparison() wdl.Expr {
	left := p.parseAdditive()
	for {
		switch {
		case p.consume("<="):
			left = &wdl.Binary{Op: "<=", Left: left, Right: p.parseAdditive()}
		case p.consume(">="):
			left = &wdl.Binary{Op: ">=", Left: left, Right: p.parseAdditive()}
		case p.consume("<"):
			left = &wdl.Binary{Op: "<", Left: left, Right: p.parseAdditive()}
		case p.consume(">"):
			left = &wdl.Binary{Op: ">", Left: left, Right: p.parseAdditive()}
		default:
			return left
		}
	}
}

func (p *parser) parseAdditive() wdl.Expr {
	left := p.parseMultiplicative()
	for {
		switch {
		case p.consume("+"):
			left = &wdl.Binary{Op: "+", Left: left, Right: p.parseMultiplicative()}
		case p.consume("-"):
			left = &wdl.Binary{Op: "-", Left: left, Right: p.parseMultiplicative()}
		default:
			return left
		}
	}
}

func (p *parser) parseMultiplicative() wdl.Expr {
	left := p.parseUnary()
	for {
		switch {
		case p.consume("*"):
			left = &wdl.Binary{Op: "*", Left: left, Right: p.parseUnary()}
		case p.consume("/"):
			left = &wdl.Binary{Op: "/", Left: left, Right: p.parseUnary()}
		case p.consume("%"):
			left = &wdl.Binary{Op: "%", Left: left, Right: p.parseUnary()}
		default:
			return left
		}
	}
}

func (p *parser) parseUnary() wdl.Expr {
	for _, op := range []string{"!", "-", "+"} {
		if p.consume(op) {
			return &wdl.Unary{Op: op, Operand: p.parseUnary()}
		}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() wdl.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.consume("."):
			expr = &wdl.Access{Base: expr, Field: p.ident()}
		case p.consume("["):
			sub := p.parseExpr()
			p.expect("]")
			expr = &wdl.Index{Base: expr, Sub: sub}
		case p.peekAfterSpace('('):
			expr = &wdl.Apply{Name: expr.String(), Args: p.parseArgs()}
		default:
			return expr
		}
	}
}

// peekAfterSpace reports whether c is the next non-space character.
func (p *parser) peekAfterSpace(c byte) bool {
	m := p.save()
	defer p.restore(m)
	p.skipSpace()
	return p.peek() == c
}

func (p *parser) parseArgs() []wdl.Expr {
	p.expect("(")
	var args []wdl.Expr
	if !p.consume(")") {
		args = append(args, p.parseExpr())
		for p.consume(",") {
			args = append(args, p.parseExpr())
		}
		p.expect(")")
	}
	return args
}

func (p *parser) parsePrimary() wdl.Expr {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '(':
		p.advance()
		first := p.parseExpr()
		if p.consume(",") {
			second := p.parseExpr()
			p.expect(")")
			return &wdl.PairLit{Left: first, Right: second}
		}
		p.expect(")")
		return first
	case c == '[':
		return p.parseArrayLit()
	case c == '{':
		return p.parseMapLit()
	case c == '"' || c == '\'':
		return p.parseStringLit()
	case c >= '0' && c <= '9':
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseNameExpr()
	default:
		p.errorf("expected expression, found %q", p.snippet())
		return nil
	}
}

func (p *parser) parseNameExpr() wdl.Expr {
	name := p.ident()
	switch name {
	case "true":
		return &wdl.BoolLit{Value: true}
	case "false":
		return &wdl.BoolLit{Value: false}
	case "None", "null":
		return &wdl.NullLit{}
	case "object":
		if p.peekAfterSpace('{') {
			return p.parseMapLit()
		}
	}
	return &wdl.Ident{Name: name}
}

func (p *parser) parseArrayLit() wdl.Expr {
	p.expect("[")
	lit := &wdl.ArrayLit{}
	if p.consume("]") {
		return lit
	}
	lit.Items = append(lit.Items, p.parseExpr())
	for p.consume(",") {
		if p.peekAfterSpace(']') {
			break
		}
		lit.Items = append(lit.Items, p.parseExpr())
	}
	p.expect("]")
	return lit
}

func (p *parser) parseMapLit() wdl.Expr {
	p.expect("{")
	lit := &wdl.MapLit{}
	if p.consume("}") {
		return lit
	}
	for {
		key := p.parseExpr()
		p.expect(":")
		value := p.parseExpr()
		lit.Entries = append(lit.Entries, wdl.MapEntry{Key: key, Value: value})
		if !p.consume(",") {
			break
		}
		if p.peekAfterSpace('}') {
			break
		}
	}
	p.expect("}")
	return lit
}

func (p *parser) parseNumber() wdl.Expr {
	p.skipSpace()
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	isFloat := false
	if p.peek() == '.' && p.peekAt(1) >= '0' && p.peekAt(1) <= '9' {
		isFloat = true
		p.advance()
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.advance()
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		p.advance()
		if c := p.peek(); c == '+' || c == '-' {
			p.advance()
		}
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.advance()
		}
	}
	raw := p.src[start:p.pos]
	if isFloat {
		return &wdl.FloatLit{Raw: raw}
	}
	return &wdl.IntLit{Raw: raw}
}

// parseStringLit reads a quoted string, splitting out ~{...} and ${...}
// placeholders into expression parts.
func (p *parser) parseStringLit() *wdl.StringLit {
	p.skipSpace()
	quote := p.advance()
	lit := &wdl.StringLit{}
	var text []byte
	flush := func() {
		if len(text) > 0 {
			lit.Parts = append(lit.Parts, wdl.StringPart{Literal: string(text)})
			text = nil
		}
	}
	for {
		if p.eof() {
			p.errorf("unterminated string")
		}
		if p.peek() == quote {
			p.advance()
			flush()
			return lit
		}
		if p.at("~{") || p.at("${") {
			p.advance()
			p.advance()
			flush()
			expr := p.parsePlaceholder()
			p.expect("}")
			lit.Parts = append(lit.Parts, wdl.StringPart{Placeholder: expr})
			continue
		}
		c := p.advance()
		if c == '\\' && !p.eof() {
			// keep the escape sequence verbatim for display
			text = append(text, c, p.advance())
			continue
		}
		text = append(text, c)
	}
}

// placeholder options such as sep=", " or default="x" precede the expression
// inside ~{...}. They only affect command rendering, so they are consumed and
// dropped.
func (p *parser) parsePlaceholder() wdl.Expr {
	for {
		m := p.save()
		word := p.peekIdent()
		switch word {
		case "sep", "default", "true", "false":
			p.ident()
			if !p.consume("=") {
				p.restore(m)
				return p.parseExpr()
			}
			p.parsePrimary()
		default:
			return p.parseExpr()
		}
	}
}
