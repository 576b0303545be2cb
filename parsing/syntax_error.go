package parsing

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SyntaxError describes a problem which stopped the parsing of a template.
type SyntaxError struct {
	Kind Kind

	// Line is the 1-based number of the offending line.
	Line int

	// Col is the 0-based byte offset in the offending line.
	Col int

	// Length is the number of characters to underline, at least one is shown.
	Length int

	// Source is the text of the offending line.
	Source string

	// Indent is the indentation level of the parser when the error occurred.
	Indent int

	Params Params

	// Detail is an optional remark appended to the description.
	Detail string
}

// Description is the kind's description with the parameters filled in.
func (e *SyntaxError) Description() string {
	desc := e.Kind.Describe(e.Params)
	if e.Detail != "" {
		desc += ": " + e.Detail
	}
	return desc
}

// Error renders the description followed by the offending line and an underline:
//
//	At line 1: Expected id name
//	[0] %a# text
//	   ----^
func (e *SyntaxError) Error() string {
	indent := fmt.Sprintf("[%d]", e.Indent)

	iline := strings.TrimRight(e.Source, " \t\r\n\f\v")
	line := strings.TrimLeft(iline, " \t\r\n\f\v")
	stripped := len(iline) - len(line)

	col := min(max(e.Col, 0), len(e.Source))
	pos := utf8.RuneCountInString(e.Source[:col]) - utf8.RuneCountInString(iline[:stripped])
	// the dash line starts one character before the line
	pos++
	if pos < 0 {
		pos = 0
	}

	return fmt.Sprintf(
		"At line %d: %s\n%s %s\n%s%s%s",
		e.Line,
		e.Description(),
		indent,
		line,
		strings.Repeat(" ", len(indent)),
		strings.Repeat("-", pos),
		strings.Repeat("^", max(e.Length, 1)),
	)
}
