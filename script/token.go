package script

import "fmt"

// TokenKind classifies a lexical token of the host language.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenName
	TokenNumber
	TokenString
	TokenOp
	TokenNewline
	TokenIndent
	TokenDedent
)

var tokenKindNames = [...]string{
	TokenEOF:     "EOF",
	TokenName:    "NAME",
	TokenNumber:  "NUMBER",
	TokenString:  "STRING",
	TokenOp:      "OP",
	TokenNewline: "NEWLINE",
	TokenIndent:  "INDENT",
	TokenDedent:  "DEDENT",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical unit. Lines are 1-based, columns are 0-based byte offsets.
// String tokens may span several lines, in which case EndLine is greater than Line.
type Token struct {
	Kind    TokenKind
	Text    string
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Kind, t.Text, t.Line, t.Col)
}

// IsOp reports whether the token is the operator or delimiter op.
func (t Token) IsOp(op string) bool {
	return t.Kind == TokenOp && t.Text == op
}

// IsKeyword reports whether the token is the reserved word kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenName && t.Text == kw
}

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// IsKeyword reports whether name is a reserved word of the host language.
func IsKeyword(name string) bool {
	return keywords[name]
}
