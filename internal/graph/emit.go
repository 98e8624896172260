package graph

import (
	"fmt"
	"strings"
)

// emitter accumulates flowchart lines with four-space indentation per level.
// It keeps node declaration, edge declaration, and scope nesting as plain
// ordered line appends so each concern can be tested without string-matching
// an entire diagram.
type emitter struct {
	lines []string
}

func (e *emitter) line(level int, s string) {
	e.lines = append(e.lines, strings.Repeat("    ", level)+s)
}

func (e *emitter) linef(level int, format string, args ...any) {
	e.line(level, fmt.Sprintf(format, args...))
}

func (e *emitter) String() string {
	return strings.Join(e.lines, "\n")
}
