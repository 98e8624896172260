// Package wdlparse reads WDL source into the document model. The parser is
// deliberately tolerant: it recovers the structure documentation needs
// (imports, workflow bodies, task sections, expressions) without
// type-checking, and reports the first syntax error per file instead of
// aborting a whole run.
package wdlparse

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/me/wdldoc/internal/repo"
	"github.com/me/wdldoc/pkg/wdl"
)

type parser struct {
	*scanner
	doc *wdl.Document
}

// ParseFile reads and parses one WDL file. Import URIs are resolved against
// the file's directory. Parse failures are returned as *wdl.ParseError so
// callers can collect them per document.
func ParseFile(path, relativePath string) (*wdl.Document, *wdl.ParseError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &wdl.ParseError{
			Path:         path,
			RelativePath: relativePath,
			Type:         "IOError",
			Message:      err.Error(),
		}
	}
	doc, perr := Parse(string(data), path, relativePath)
	if perr != nil {
		return nil, perr
	}
	for i := range doc.Imports {
		doc.Imports[i].ResolvedPath = repo.ResolveImport(doc.Imports[i].Path, path)
	}
	return doc, nil
}

// Parse parses WDL source text. Callee resolution is a separate pass (see
// ResolveCallees) because it needs the whole corpus.
func Parse(src, path, relativePath string) (doc *wdl.Document, perr *wdl.ParseError) {
	p := &parser{
		scanner: newScanner(src),
		doc: &wdl.Document{
			Path:         path,
			RelativePath: relativePath,
			Version:      "1.0",
			Source:       src,
		},
	}
	defer func() {
		if r := recover(); r != nil {
			serr, ok := r.(*syntaxError)
			if !ok {
				panic(r)
			}
			doc = nil
			perr = &wdl.ParseError{
				Path:         path,
				RelativePath: relativePath,
				Type:         "SyntaxError",
				Message:      serr.msg,
				Line:         serr.line,
				Column:       serr.col,
			}
		}
	}()
	p.parseDocument()
	return p.doc, nil
}

func (p *parser) parseDocument() {
	if p.consumeWord("version") {
		p.skipSpace()
		p.doc.Version = strings.TrimSpace(p.restOfLine())
	}
	for {
		p.skipSpace()
		if p.eof() {
			return
		}
		switch word := p.ident(); word {
		case "import":
			p.parseImport()
		case "task":
			p.doc.Tasks = append(p.doc.Tasks, p.parseTask())
		case "workflow":
			wf := p.parseWorkflow()
			if p.doc.Workflow == nil {
				p.doc.Workflow = wf
			}
		case "struct":
			p.ident()
			p.skipBraceBlock()
		default:
			p.errorf("unexpected %q at document level", word)
		}
	}
}

func (p *parser) parseImport() {
	uri := p.parseStringLit().Text()
	imp := wdl.Import{Path: uri}
	if p.consumeWord("as") {
		imp.Namespace = p.ident()
	} else {
		base := filepath.Base(uri)
		imp.Namespace = strings.TrimSuffix(base, filepath.Ext(base))
	}
	// struct renames: import "x.wdl" alias A as B
	for p.consumeWord("alias") {
		p.ident()
		p.expectWord("as")
		p.ident()
	}
	p.doc.Imports = append(p.doc.Imports, imp)
}

func (p *parser) parseWorkflow() *wdl.Workflow {
	wf := &wdl.Workflow{Name: p.ident()}
	p.expect("{")
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated workflow %q", wf.Name)
		}
		switch p.peekIdent() {
		case "input":
			p.ident()
			wf.Inputs = append(wf.Inputs, p.parseInputBlock()...)
		case "output":
			p.ident()
			wf.Outputs = append(wf.Outputs, p.parseOutputBlock()...)
		case "meta":
			p.ident()
			wf.Meta = p.parseMetaBlock()
			wf.Description = wf.Meta["description"]
		case "parameter_meta":
			p.ident()
			p.parseMetaBlock()
		default:
			wf.Body = append(wf.Body, p.parseBodyElement())
		}
	}
	return wf
}

// parseBodyElement parses one workflow body element: a call, a scatter, a
// conditional, or an intermediate declaration.
func (p *parser) parseBodyElement() wdl.BodyElement {
	switch p.peekIdent() {
	case "call":
		p.ident()
		return p.parseCall()
	case "scatter":
		p.ident()
		p.expect("(")
		variable := p.ident()
		p.expectWord("in")
		expr := p.parseExpr()
		p.expect(")")
		return &wdl.Scatter{Variable: variable, Expr: expr, Body: p.parseBlock()}
	case "if":
		p.ident()
		p.expect("(")
		expr := p.parseExpr()
		p.expect(")")
		return &wdl.Conditional{Expr: expr, Body: p.parseBlock()}
	default:
		typ := p.parseType()
		decl := &wdl.Decl{Name: p.ident(), Type: typ}
		if p.consume("=") {
			decl.Expr = p.parseExpr()
		}
		return decl
	}
}

func (p *parser) parseBlock() []wdl.BodyElement {
	p.expect("{")
	var body []wdl.BodyElement
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated block")
		}
		body = append(body, p.parseBodyElement())
	}
	return body
}

func (p *parser) parseCall() *wdl.Call {
	call := &wdl.Call{Target: p.ident()}
	for p.consume(".") {
		call.Target += "." + p.ident()
	}
	if p.consumeWord("as") {
		call.Alias = p.ident()
	}
	// explicit ordering dependencies carry no documentation value
	for p.consumeWord("after") {
		p.ident()
	}
	if !p.consume("{") {
		return call
	}
	if p.consumeWord("input") {
		p.expect(":")
	}
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated call %q", call.Target)
		}
		name := p.ident()
		in := wdl.CallInput{Name: name, Expr: &wdl.Ident{Name: name}}
		if p.consume("=") {
			in.Expr = p.parseExpr()
		}
		call.Inputs = append(call.Inputs, in)
		p.consume(",")
	}
	return call
}

func (p *parser) parseTask() *wdl.Task {
	task := &wdl.Task{Name: p.ident()}
	p.expect("{")
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated task %q", task.Name)
		}
		switch p.peekIdent() {
		case "input":
			p.ident()
			task.Inputs = append(task.Inputs, p.parseInputBlock()...)
		case "output":
			p.ident()
			task.Outputs = append(task.Outputs, p.parseOutputBlock()...)
		case "command":
			p.ident()
			task.Command = p.parseCommand()
		case "runtime", "requirements":
			p.ident()
			task.Runtime = append(task.Runtime, p.parseRuntimeBlock()...)
		case "meta":
			p.ident()
			task.Meta = p.parseMetaBlock()
			task.Description = task.Meta["description"]
		case "parameter_meta":
			p.ident()
			p.parseMetaBlock()
		default:
			// private declarations are legal between sections
			p.parseType()
			p.ident()
			if p.consume("=") {
				p.parseExpr()
			}
		}
	}
	return task
}

func (p *parser) parseInputBlock() []wdl.Input {
	p.expect("{")
	var inputs []wdl.Input
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated input block")
		}
		in := wdl.Input{Type: p.parseType(), Name: p.ident()}
		if p.consume("=") {
			in.Default = p.parseExpr()
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func (p *parser) parseOutputBlock() []wdl.Output {
	p.expect("{")
	var outputs []wdl.Output
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated output block")
		}
		out := wdl.Output{Type: p.parseType(), Name: p.ident()}
		if p.consume("=") {
			out.Expr = p.parseExpr()
		}
		outputs = append(outputs, out)
	}
	return outputs
}

func (p *parser) parseRuntimeBlock() []wdl.RuntimeEntry {
	p.expect("{")
	var entries []wdl.RuntimeEntry
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated runtime block")
		}
		key := p.ident()
		p.expect(":")
		entries = append(entries, wdl.RuntimeEntry{Key: key, Expr: p.parseExpr()})
	}
	return entries
}

// parseMetaBlock reads meta and parameter_meta sections into plain strings.
// Values are arbitrary meta literals; they are parsed as expressions and
// rendered back.
func (p *parser) parseMetaBlock() map[string]string {
	p.expect("{")
	meta := make(map[string]string)
	for !p.consume("}") {
		p.skipSpace()
		if p.eof() {
			p.errorf("unterminated meta block")
		}
		key := p.ident()
		p.expect(":")
		meta[key] = metaString(p.parseExpr())
	}
	return meta
}

func metaString(expr wdl.Expr) string {
	if lit, ok := expr.(*wdl.StringLit); ok {
		return lit.Text()
	}
	return wdl.ExprString(expr)
}

func (p *parser) parseCommand() *wdl.Command {
	p.skipSpace()
	var raw string
	if p.consume("<<<") {
		raw = p.rawUntil(">>>")
	} else {
		p.expect("{")
		raw = p.rawBraceBlock()
	}
	return &wdl.Command{Raw: raw, Formatted: dedent(raw)}
}

// dedent strips surrounding blank lines and the common leading indentation so
// command text renders the way the author wrote it.
func dedent(raw string) string {
	lines := strings.Split(raw, "\n")

	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[start:end]
	if len(lines) == 0 {
		return ""
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return strings.Join(lines, "\n")
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if len(line) >= indent {
			out[i] = line[indent:]
		} else {
			out[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(out, "\n")
}

// parseType reads a type as written, including parameterized forms such as
// Array[File]+ and Map[String, Int], and a trailing optional marker.
func (p *parser) parseType() wdl.Type {
	name := p.ident()
	if p.consume("[") {
		params := []string{p.parseType().String()}
		for p.consume(",") {
			params = append(params, p.parseType().String())
		}
		p.expect("]")
		name += "[" + strings.Join(params, ", ") + "]"
	}
	if p.consume("+") {
		name += "+"
	}
	typ := wdl.Type{Name: name}
	if p.consume("?") {
		typ.Optional = true
	}
	return typ
}
