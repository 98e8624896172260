package wdlparse

import "fmt"

// syntaxError aborts a parse. It is raised via panic inside the parser and
// recovered at the Parse entry points, the same trick encoding/json uses to
// avoid threading an error through every production.
type syntaxError struct {
	line, col int
	msg       string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.line, e.col, e.msg)
}

// scanner provides character-level primitives over a source buffer with line
// and column tracking.
type scanner struct {
	src  string
	pos  int
	line int
	col  int
}

// mark captures a scanner position for backtracking.
type mark struct {
	pos, line, col int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) errorf(format string, args ...any) {
	panic(&syntaxError{line: s.line, col: s.col, msg: fmt.Sprintf(format, args...)})
}

func (s *scanner) save() mark     { return mark{s.pos, s.line, s.col} }
func (s *scanner) restore(m mark) { s.pos, s.line, s.col = m.pos, m.line, m.col }
func (s *scanner) eof() bool      { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

// skipSpace consumes whitespace and # comments.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch c := s.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '#':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

// at reports whether the literal text appears at the current position. It
// does not skip leading whitespace.
func (s *scanner) at(lit string) bool {
	if s.pos+len(lit) > len(s.src) {
		return false
	}
	return s.src[s.pos:s.pos+len(lit)] == lit
}

// consume skips whitespace and consumes the literal text if present.
func (s *scanner) consume(lit string) bool {
	s.skipSpace()
	if !s.at(lit) {
		return false
	}
	for range lit {
		s.advance()
	}
	return true
}

// expect consumes the literal text or fails with a syntax error.
func (s *scanner) expect(lit string) {
	if !s.consume(lit) {
		s.skipSpace()
		s.errorf("expected %q, found %q", lit, s.snippet())
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ident consumes and returns an identifier, failing when none is present.
func (s *scanner) ident() string {
	s.skipSpace()
	if s.eof() || !isIdentStart(s.peek()) {
		s.errorf("expected identifier, found %q", s.snippet())
	}
	start := s.pos
	for !s.eof() && isIdentPart(s.peek()) {
		s.advance()
	}
	return s.src[start:s.pos]
}

// peekIdent returns the identifier at the current position without consuming
// it, or "" when the next token is not an identifier.
func (s *scanner) peekIdent() string {
	m := s.save()
	defer s.restore(m)
	s.skipSpace()
	if s.eof() || !isIdentStart(s.peek()) {
		return ""
	}
	start := s.pos
	for !s.eof() && isIdentPart(s.peek()) {
		s.advance()
	}
	return s.src[start:s.pos]
}

// consumeWord consumes the given keyword only when it is a whole word.
func (s *scanner) consumeWord(word string) bool {
	m := s.save()
	s.skipSpace()
	if !s.at(word) {
		s.restore(m)
		return false
	}
	if c := s.peekAt(len(word)); isIdentPart(c) {
		s.restore(m)
		return false
	}
	for range word {
		s.advance()
	}
	return true
}

func (s *scanner) expectWord(word string) {
	if !s.consumeWord(word) {
		s.skipSpace()
		s.errorf("expected %q, found %q", word, s.snippet())
	}
}

// restOfLine consumes and returns the remainder of the current line.
func (s *scanner) restOfLine() string {
	start := s.pos
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
	return s.src[start:s.pos]
}

// rawUntil consumes text up to (and including) the terminator, returning the
// text before it.
func (s *scanner) rawUntil(terminator string) string {
	start := s.pos
	for !s.eof() {
		if s.at(terminator) {
			raw := s.src[start:s.pos]
			for range terminator {
				s.advance()
			}
			return raw
		}
		s.advance()
	}
	s.errorf("unterminated block, expected %q", terminator)
	return ""
}

// rawBraceBlock consumes a brace-delimited block by depth counting and
// returns its interior. The opening brace must already be consumed.
func (s *scanner) rawBraceBlock() string {
	start := s.pos
	depth := 1
	for !s.eof() {
		switch s.advance() {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s.src[start : s.pos-1]
			}
		}
	}
	s.errorf("unterminated block, expected %q", "}")
	return ""
}

// skipBraceBlock consumes a balanced brace block including its delimiters.
func (s *scanner) skipBraceBlock() {
	s.expect("{")
	s.rawBraceBlock()
}

// snippet returns a short excerpt of the remaining input for error messages.
func (s *scanner) snippet() string {
	if s.eof() {
		return "end of file"
	}
	end := s.pos
	for end < len(s.src) && end < s.pos+20 && s.src[end] != '\n' {
		end++
	}
	return s.src[s.pos:end]
}
