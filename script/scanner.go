package script

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineFunc yields the next physical line without its terminator, or false at end of input.
type LineFunc func() (string, bool)

// LinesOf returns a LineFunc over the lines of src.
func LinesOf(src string) LineFunc {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	i := 0
	return func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		i++
		return lines[i-1], true
	}
}

var operators3 = []string{"**=", "//=", ">>=", "<<=", "..."}

var operators2 = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

const operators1 = "+-*/%@&|^~<>()[]{},:.;="

// Scanner turns host-language source into tokens, pulling physical lines on demand.
//
// In fragment mode the scanner does not track indentation: no INDENT or DEDENT
// tokens are produced and leading whitespace is ignored. This is how embedded
// fragments are scanned while their extent is still unknown.
type Scanner struct {
	next     LineFunc
	fragment bool

	line    string
	hasLine bool
	lineNo  int
	pos     int

	depth      int
	indents    []int
	pending    []Token
	lineTokens int
	continued  bool
	eof        bool
}

// NewScanner creates a scanner reading lines from next.
func NewScanner(next LineFunc, fragment bool) *Scanner {
	return &Scanner{
		next:     next,
		fragment: fragment,
		indents:  []int{0},
	}
}

// Depth is the current bracket nesting depth.
func (s *Scanner) Depth() int {
	return s.depth
}

// Line returns the number and the text of the physical line being scanned.
func (s *Scanner) Line() (int, string) {
	return s.lineNo, s.line
}

// Next returns the next token. After the end of input it keeps returning EOF tokens.
func (s *Scanner) Next() (Token, error) {
	for len(s.pending) == 0 {
		if err := s.fill(); err != nil {
			return Token{}, err
		}
	}
	tok := s.pending[0]
	s.pending = s.pending[1:]
	return tok, nil
}

func (s *Scanner) emit(tok Token) {
	if tok.EndLine == 0 {
		tok.EndLine = tok.Line
	}
	s.pending = append(s.pending, tok)
}

func (s *Scanner) fill() error {
	if s.eof {
		s.emit(Token{Kind: TokenEOF, Line: s.lineNo + 1})
		return nil
	}

	if !s.hasLine {
		return s.readLine()
	}

	line := s.line
	for s.pos < len(line) && isSpace(line[s.pos]) {
		s.pos++
	}

	if s.pos >= len(line) || line[s.pos] == '#' {
		s.hasLine = false
		if s.depth > 0 {
			return nil
		}
		if s.lineTokens > 0 {
			s.emit(Token{Kind: TokenNewline, Line: s.lineNo, Col: s.pos, EndCol: s.pos})
			s.lineTokens = 0
		}
		return nil
	}

	start := s.pos
	c := line[start]

	if c == '\\' {
		if strings.TrimSpace(line[start+1:]) != "" {
			return newSyntaxError(s.lineNo, start+1, "unexpected character after line continuation character")
		}
		s.continued = true
		s.hasLine = false
		return nil
	}

	switch {
	case c == '"' || c == '\'':
		return s.scanString(start)
	case isDigit(c) || (c == '.' && start+1 < len(line) && isDigit(line[start+1])):
		s.scanNumber(start)
		return nil
	case c >= utf8.RuneSelf || isIdentStart(rune(c)):
		return s.scanName(start)
	}

	return s.scanOperator(start)
}

func (s *Scanner) readLine() error {
	line, ok := s.next()
	if !ok {
		s.eof = true
		if s.depth > 0 || s.continued {
			return newSyntaxError(s.lineNo, len(s.line), "unexpected EOF while parsing")
		}
		if s.lineTokens > 0 {
			s.emit(Token{Kind: TokenNewline, Line: s.lineNo, Col: len(s.line), EndCol: len(s.line)})
			s.lineTokens = 0
		}
		if !s.fragment {
			for len(s.indents) > 1 {
				s.indents = s.indents[:len(s.indents)-1]
				s.emit(Token{Kind: TokenDedent, Line: s.lineNo + 1})
			}
		}
		s.emit(Token{Kind: TokenEOF, Line: s.lineNo + 1})
		return nil
	}

	s.lineNo++
	s.line = strings.TrimSuffix(line, "\r")
	s.pos = 0
	s.hasLine = true

	continued := s.continued
	s.continued = false

	if s.fragment || s.depth > 0 || continued {
		return nil
	}

	indent := 0
	width := 0
	for indent < len(s.line) && isSpace(s.line[indent]) {
		if s.line[indent] == '\t' {
			width = (width/8 + 1) * 8
		} else {
			width++
		}
		indent++
	}

	rest := s.line[indent:]
	if rest == "" || rest[0] == '#' {
		s.hasLine = false
		return nil
	}

	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.emit(Token{Kind: TokenIndent, Line: s.lineNo, Col: 0, EndCol: indent})
	case width < top:
		for width < s.indents[len(s.indents)-1] {
			s.indents = s.indents[:len(s.indents)-1]
			s.emit(Token{Kind: TokenDedent, Line: s.lineNo, Col: indent, EndCol: indent})
		}
		if width != s.indents[len(s.indents)-1] {
			return newSyntaxError(s.lineNo, indent, "unindent does not match any outer indentation level")
		}
	}
	s.pos = indent
	return nil
}

func (s *Scanner) push(kind TokenKind, start int) {
	s.emit(Token{
		Kind:   kind,
		Text:   s.line[start:s.pos],
		Line:   s.lineNo,
		Col:    start,
		EndCol: s.pos,
	})
	s.lineTokens++
}

func (s *Scanner) scanName(start int) error {
	line := s.line
	pos := start
	for pos < len(line) {
		r, size := utf8.DecodeRuneInString(line[pos:])
		if pos == start && !isIdentStart(r) {
			return newSyntaxError(s.lineNo, start, "invalid character '%c'", r)
		}
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		pos += size
	}

	if pos < len(line) && (line[pos] == '\'' || line[pos] == '"') {
		switch strings.ToLower(line[start:pos]) {
		case "r", "u", "b", "br", "rb", "f", "fr", "rf":
			s.pos = pos
			return s.scanStringFrom(start, pos)
		}
	}

	s.pos = pos
	s.push(TokenName, start)
	return nil
}

func (s *Scanner) scanNumber(start int) {
	line := s.line
	pos := start
	if line[pos] == '0' && pos+1 < len(line) && strings.ContainsRune("xXoObB", rune(line[pos+1])) {
		pos += 2
		for pos < len(line) && (isHexDigit(line[pos]) || line[pos] == '_') {
			pos++
		}
		s.pos = pos
		s.push(TokenNumber, start)
		return
	}

	digits := func() {
		for pos < len(line) && (isDigit(line[pos]) || line[pos] == '_') {
			pos++
		}
	}
	digits()
	if pos < len(line) && line[pos] == '.' {
		pos++
		digits()
	}
	if pos < len(line) && (line[pos] == 'e' || line[pos] == 'E') {
		save := pos
		pos++
		if pos < len(line) && (line[pos] == '+' || line[pos] == '-') {
			pos++
		}
		if pos < len(line) && isDigit(line[pos]) {
			digits()
		} else {
			pos = save
		}
	}
	if pos < len(line) && (line[pos] == 'j' || line[pos] == 'J') {
		pos++
	}
	s.pos = pos
	s.push(TokenNumber, start)
}

func (s *Scanner) scanString(start int) error {
	return s.scanStringFrom(start, start)
}

// scanStringFrom scans a string literal whose prefix starts at start and whose
// opening quote is at quote. Triple-quoted strings and backslash-newline escapes
// pull further lines.
func (s *Scanner) scanStringFrom(start, quote int) error {
	line := s.line
	startLine := s.lineNo
	q := line[quote]
	triple := strings.HasPrefix(line[quote:], strings.Repeat(string(q), 3))

	var text strings.Builder
	pos := quote + 1
	if triple {
		pos = quote + 3
	}
	text.WriteString(line[start:pos])
	escapedEOL := false

	for {
		if pos >= len(line) {
			if !triple && !escapedEOL {
				return newSyntaxError(startLine, start, "EOL while scanning string literal")
			}
			escapedEOL = false
			next, ok := s.next()
			if !ok {
				s.eof = true
				if triple {
					return newSyntaxError(startLine, start, "EOF while scanning triple-quoted string literal")
				}
				return newSyntaxError(startLine, start, "EOL while scanning string literal")
			}
			s.lineNo++
			s.line = strings.TrimSuffix(next, "\r")
			line = s.line
			pos = 0
			text.WriteByte('\n')
			continue
		}

		c := line[pos]
		if c == '\\' {
			if pos+1 < len(line) {
				text.WriteString(line[pos : pos+2])
				pos += 2
			} else {
				text.WriteByte(c)
				pos++
				escapedEOL = true
			}
			continue
		}
		if c == q {
			if !triple {
				text.WriteByte(c)
				pos++
				break
			}
			if strings.HasPrefix(line[pos:], strings.Repeat(string(q), 3)) {
				text.WriteString(line[pos : pos+3])
				pos += 3
				break
			}
		}
		text.WriteByte(c)
		pos++
	}

	s.pos = pos
	s.emit(Token{
		Kind:    TokenString,
		Text:    text.String(),
		Line:    startLine,
		Col:     start,
		EndLine: s.lineNo,
		EndCol:  pos,
	})
	s.lineTokens++
	return nil
}

func (s *Scanner) scanOperator(start int) error {
	rest := s.line[start:]
	for _, group := range [][]string{operators3, operators2} {
		for _, op := range group {
			if strings.HasPrefix(rest, op) {
				s.pos = start + len(op)
				s.push(TokenOp, start)
				return nil
			}
		}
	}

	c := rest[0]
	if !strings.ContainsRune(operators1, rune(c)) {
		return newSyntaxError(s.lineNo, start, "invalid character '%c'", c)
	}

	switch c {
	case '(', '[', '{':
		s.depth++
	case ')', ']', '}':
		if s.depth > 0 {
			s.depth--
		}
	}
	s.pos = start + 1
	s.push(TokenOp, start)
	return nil
}

// ScanAll tokenizes src completely.
func ScanAll(src string) ([]Token, error) {
	sc := NewScanner(LinesOf(src), false)
	var toks []Token
	for {
		tok, err := sc.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\r' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsIdentifier reports whether name is a valid, non-reserved identifier.
func IsIdentifier(name string) bool {
	if name == "" || IsKeyword(name) {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
