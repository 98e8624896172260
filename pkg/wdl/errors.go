package wdl

import (
	"fmt"
	"strings"
)

// ParseError records one failed document so that site generation can report
// it without aborting the run.
type ParseError struct {
	Path         string
	RelativePath string
	// Type is the error class: "SyntaxError", "ImportError", "IOError".
	Type    string
	Message string
	// Line and Column are 1-based; zero when unknown.
	Line   int
	Column int
}

func (e *ParseError) Error() string {
	if loc := e.Location(); loc != "" {
		return fmt.Sprintf("%s: %s (%s): %s", e.RelativePath, e.Type, loc, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.RelativePath, e.Type, e.Message)
}

// Severity returns "warning" for warning-class errors, else "error".
func (e *ParseError) Severity() string {
	if strings.Contains(strings.ToLower(e.Type), "warning") {
		return "warning"
	}
	return "error"
}

// ShortMessage truncates long messages for index listings.
func (e *ParseError) ShortMessage() string {
	const max = 200
	if len(e.Message) <= max {
		return e.Message
	}
	return e.Message[:max] + "..."
}

// Location formats line/column information when available.
func (e *ParseError) Location() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		return fmt.Sprintf("line %d", e.Line)
	default:
		return ""
	}
}
