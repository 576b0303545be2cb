package parsing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Drolfothesgnir/gohaa/script"
)

// fragmentMode decides where an embedded fragment ends.
type fragmentMode int

const (
	// untilBracketCloses matches one bracketed group starting at the cursor.
	untilBracketCloses fragmentMode = iota

	// untilColon stops before a top-level ":".
	untilColon

	// untilKeyword stops before a top-level stop word.
	untilKeyword

	// untilLineEnd takes the rest of the logical line.
	untilLineEnd

	// untilUnmatchedParen stops before a ")" without an opener, which is the
	// terminator of a parameter list.
	untilUnmatchedParen
)

// fragmentShape is the syntactic form a fragment must have.
type fragmentShape int

const (
	shapeExpression fragmentShape = iota
	shapeDict
	shapeTarget
	shapeExpressionList
	shapeStatement
	shapeParams
)

// hostMatcher finds the extent of an embedded host-language fragment and checks its shape.
type hostMatcher struct {
	mode     fragmentMode
	stopWord string
	shape    fragmentShape
}

const (
	paramsPrefix    = "def noname("
	paramsSuffix    = "): pass"
	statementPrefix = "def noname():\n    while True:\n        "
)

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// fragment is an embedded source range which may span several physical lines.
type fragment struct {
	// startLine is the template line number of lines[0].
	startLine int

	// startCol is the column at which lines[0] begins in the template line.
	startCol int

	// first is the complete template line holding lines[0].
	first string

	lines []string
}

func (f *fragment) source(rel int) string {
	if rel == 0 {
		return f.first
	}
	return f.lines[rel]
}

func (f *fragment) column(rel, col int) int {
	if rel == 0 {
		return f.startCol + col
	}
	return col
}

func (f *fragment) offset(rel, col int) int {
	o := 0
	for i := 0; i < rel; i++ {
		o += len(f.lines[i]) + 1
	}
	return o + col
}

func (f *fragment) clamp(rel, col int) (int, int) {
	if rel < 0 {
		return 0, 0
	}
	if rel >= len(f.lines) {
		rel = len(f.lines) - 1
		return rel, len(f.lines[rel])
	}
	return rel, min(max(col, 0), len(f.lines[rel]))
}

// matchHost scans the fragment starting at the cursor, pulling more lines from the
// source when brackets or continuations demand it, and moves the cursor past it.
func (p *Parser) matchHost(m *hostMatcher, tok *token) error {
	start := p.pos
	for start < len(p.line) && (p.line[start] == ' ' || p.line[start] == '\t') {
		start++
	}
	tok.col = start

	f := &fragment{
		startLine: p.lineNo,
		startCol:  start,
		first:     p.line,
		lines:     []string{p.line[start:]},
	}

	rest := strings.TrimSpace(f.lines[0])
	if rest == "" || strings.HasPrefix(rest, "#") {
		return p.fragmentError(f, HostSyntaxError, 0, 0, 1, Params{"desc": "unexpected end of line"})
	}

	var srcErr error
	served := false
	next := func() (string, bool) {
		if !served {
			served = true
			return f.lines[0], true
		}
		line, ok, err := p.src.NextLine()
		if err != nil {
			srcErr = err
			return "", false
		}
		if !ok {
			return "", false
		}
		f.lines = append(f.lines, line)
		return line, true
	}

	sc := script.NewScanner(next, true)
	var stack []string
	var splits []int
	endRel, endCol := -1, 0

	for endRel < 0 {
		t, err := sc.Next()
		if srcErr != nil {
			return fmt.Errorf("reading template: %w", srcErr)
		}
		if err != nil {
			var se *script.SyntaxError
			if !errors.As(err, &se) {
				return err
			}
			rel, col := f.clamp(se.Line-1, se.Col)
			e := p.fragmentError(f, HostSyntaxError, rel, col, 1, Params{"desc": se.Msg})
			e.Detail = ""
			return e
		}
		rel := t.Line - 1

		switch {
		case t.Kind == script.TokenOp && closers[t.Text] != "":
			stack = append(stack, closers[t.Text])

		case t.IsOp(")") || t.IsOp("]") || t.IsOp("}"):
			if len(stack) == 0 {
				if m.mode == untilUnmatchedParen && t.Text == ")" {
					endRel, endCol = rel, t.Col
					continue
				}
				return p.fragmentError(f, UnbalancedBrackets, rel, t.Col, 1, nil)
			}
			if stack[len(stack)-1] != t.Text {
				return p.fragmentError(f, UnbalancedBrackets, rel, t.Col, 1, nil)
			}
			stack = stack[:len(stack)-1]
			if m.mode == untilBracketCloses && len(stack) == 0 {
				endRel, endCol = rel, t.EndCol
			}

		case len(stack) > 0:

		case t.IsOp(":") && m.mode == untilColon:
			endRel, endCol = rel, t.Col

		case t.Kind == script.TokenName && m.mode == untilKeyword && t.Text == m.stopWord:
			endRel, endCol = rel, t.Col

		case t.IsOp(";"):
			splits = append(splits, f.offset(rel, t.Col))

		case t.Kind == script.TokenNewline || t.Kind == script.TokenEOF:
			if m.mode == untilLineEnd {
				endRel, endCol = min(rel, len(f.lines)-1), t.Col
				continue
			}
			rel, col := f.clamp(rel, t.Col)
			return p.fragmentError(f, HostSyntaxError, rel, col, 1, Params{"desc": m.missing()})
		}
	}

	var b strings.Builder
	for i := 0; i < endRel; i++ {
		b.WriteString(f.lines[i])
		b.WriteByte('\n')
	}
	b.WriteString(f.lines[endRel][:endCol])
	text := b.String()

	if endRel == 0 {
		p.pos = start + endCol
	} else {
		p.line = f.lines[endRel]
		p.lineNo = f.startLine + endRel
		p.pos = endCol
	}
	if m.mode == untilLineEnd {
		// a trailing host comment belongs to the line
		p.pos = len(p.line)
	}

	if err := p.checkShape(m, f, text); err != nil {
		return err
	}

	tok.text = text
	tok.value = trimStatementEnd(text)
	if m.mode == untilBracketCloses && strings.TrimSpace(text[1:len(text)-1]) == "" {
		tok.value = text[:1] + text[len(text)-1:]
	}
	if m.shape == shapeExpressionList {
		tok.fragments = splitFragments(text, splits)
	}
	return nil
}

func (m *hostMatcher) missing() string {
	switch m.mode {
	case untilColon:
		return "expected ':'"
	case untilKeyword:
		return fmt.Sprintf("expected '%s'", m.stopWord)
	case untilUnmatchedParen:
		return "expected ')'"
	}
	return "unexpected end of line"
}

// checkShape re-parses the fragment with the host parser and verifies its form.
func (p *Parser) checkShape(m *hostMatcher, f *fragment, text string) error {
	src := text
	prefixLines, prefixCol := 0, 0

	switch m.shape {
	case shapeParams:
		src = paramsPrefix + text + paramsSuffix
		prefixCol = len(paramsPrefix)
	case shapeStatement:
		// break, continue, return and yield are legal in templates
		src = statementPrefix + text
		prefixLines = strings.Count(statementPrefix, "\n")
		prefixCol = len(statementPrefix) - strings.LastIndex(statementPrefix, "\n") - 1
	}

	mod, err := script.ParseModule(src)
	if err != nil {
		var se *script.SyntaxError
		if !errors.As(err, &se) {
			return err
		}
		rel, col := se.Line-1-prefixLines, se.Col
		if rel <= 0 {
			rel, col = 0, col-prefixCol
		}
		rel, col = f.clamp(rel, col)
		return p.fragmentError(f, HostSyntaxError, rel, col, 1, Params{"desc": se.Msg})
	}

	invalid := func(kind Kind, desc string) error {
		return p.fragmentError(f, kind, 0, 0, len(strings.TrimSpace(f.lines[0])), Params{"desc": desc})
	}

	switch m.shape {
	case shapeExpression:
		if singleExpression(mod) == nil {
			return invalid(InvalidExpression, "expected a single expression")
		}
	case shapeDict:
		switch singleExpression(mod).(type) {
		case *script.DictExpr, *script.DictComp:
		default:
			return invalid(InvalidAttributes, "")
		}
	case shapeTarget:
		if !isTarget(singleExpression(mod)) {
			return invalid(InvalidExpression, "expected an assignment target")
		}
	case shapeExpressionList:
		if len(mod.Body) == 0 {
			return invalid(InvalidExpression, "expected expressions")
		}
		for _, stmt := range mod.Body {
			if _, ok := stmt.(*script.ExprStmt); !ok {
				return invalid(InvalidExpression, "expected expressions")
			}
		}
	}
	return nil
}

func singleExpression(mod *script.Module) script.Expr {
	if len(mod.Body) != 1 {
		return nil
	}
	stmt, ok := mod.Body[0].(*script.ExprStmt)
	if !ok {
		return nil
	}
	return stmt.X
}

func isTarget(e script.Expr) bool {
	switch e := e.(type) {
	case *script.Name, *script.Attribute, *script.Subscript:
		return true
	case *script.Starred:
		return isTarget(e.Value)
	case *script.TupleExpr:
		return allTargets(e.Elts)
	case *script.ListExpr:
		return allTargets(e.Elts)
	}
	return false
}

func allTargets(elts []script.Expr) bool {
	for _, elt := range elts {
		if !isTarget(elt) {
			return false
		}
	}
	return len(elts) > 0
}

func (p *Parser) fragmentError(f *fragment, kind Kind, rel, col, length int, params Params) *SyntaxError {
	return &SyntaxError{
		Kind:   kind,
		Line:   f.startLine + rel,
		Col:    f.column(rel, col),
		Length: length,
		Source: f.source(rel),
		Indent: p.indent,
		Params: params,
	}
}

// trimStatementEnd drops trailing whitespace and a trailing statement separator.
func trimStatementEnd(text string) string {
	text = strings.TrimRight(text, " \t")
	text = strings.TrimSuffix(text, ";")
	return strings.TrimRight(text, " \t")
}

func splitFragments(text string, splits []int) []string {
	var out []string
	last := 0
	for _, at := range append(splits, len(text)) {
		if at > len(text) {
			at = len(text)
		}
		if part := strings.TrimSpace(text[last:at]); part != "" {
			out = append(out, part)
		}
		last = min(at+1, len(text))
	}
	return out
}
