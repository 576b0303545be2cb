package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is any host-language value.
//
// The Go representation of each host type:
//
//	None        nil
//	bool        bool
//	int         int64
//	float       float64
//	str         string
//	bytes       Bytes
//	tuple       Tuple
//	list        *List
//	dict        *Dict
//	set         *Set
//	range       *Range
//
// Functions, generators, iterators and exception types have their own types.
// Go values implementing AttrGetter or Callable take part in attribute lookup and calls.
type Value any

// Bytes is an immutable byte string.
type Bytes string

// Tuple is an immutable sequence.
type Tuple []Value

// List is a mutable sequence.
type List struct {
	Items []Value
}

// NewList wraps items into a list without copying.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// Keyword is a keyword argument passed to a callable.
type Keyword struct {
	Name  string
	Value Value
}

type ellipsis struct{}

func (ellipsis) String() string { return "Ellipsis" }

// Ellipsis is the value of the "..." literal.
var Ellipsis Value = ellipsis{}

// Callable is implemented by every value that can be called.
type Callable interface {
	Call(args []Value, kwargs []Keyword) (Value, error)
}

// AttrGetter is implemented by values with custom attribute lookup.
// Missing attributes are reported as AttributeError exceptions.
type AttrGetter interface {
	GetAttr(name string) (Value, error)
}

// Builtin is a callable implemented in Go.
type Builtin struct {
	Name string
	Fn   func(args []Value, kwargs []Keyword) (Value, error)
}

func (b *Builtin) Call(args []Value, kwargs []Keyword) (Value, error) {
	return b.Fn(args, kwargs)
}

// NewBuiltin creates a builtin function.
func NewBuiltin(name string, fn func(args []Value, kwargs []Keyword) (Value, error)) *Builtin {
	return &Builtin{Name: name, Fn: fn}
}

// TypeName returns the host-language type name of v.
func TypeName(v Value) string {
	switch v := v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case Bytes:
		return "bytes"
	case Tuple:
		return "tuple"
	case *List:
		return "list"
	case *Dict:
		return "dict"
	case *Set:
		return "set"
	case *Range:
		return "range"
	case *Function, *Builtin, *boundMethod:
		return "function"
	case *Generator:
		return "generator"
	case *Iterator:
		return "iterator"
	case *Exception:
		return v.Type.Name
	case *ExceptionType:
		return "type"
	case ellipsis:
		return "ellipsis"
	}
	return fmt.Sprintf("%T", v)
}

// Truthy reports the truth value of v.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	case Bytes:
		return v != ""
	case Tuple:
		return len(v) > 0
	case *List:
		return len(v.Items) > 0
	case *Dict:
		return v.Len() > 0
	case *Set:
		return v.Len() > 0
	case *Range:
		return v.Len() > 0
	}
	return true
}

// Str converts v the way str() does.
func Str(v Value) string {
	switch v := v.(type) {
	case string:
		return v
	case *Exception:
		switch len(v.Args) {
		case 0:
			return ""
		case 1:
			return Str(v.Args[0])
		}
		return Repr(Tuple(v.Args))
	case fmt.Stringer:
		return v.String()
	}
	return Repr(v)
}

// Repr converts v the way repr() does.
func Repr(v Value) string {
	return repr(v, 0)
}

const maxReprDepth = 64

func repr(v Value, depth int) string {
	if depth > maxReprDepth {
		return "..."
	}
	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case string:
		return Quote(v)
	case Bytes:
		return QuoteBytes(v)
	case Tuple:
		if len(v) == 1 {
			return "(" + repr(v[0], depth+1) + ",)"
		}
		return "(" + joinRepr(v, depth) + ")"
	case *List:
		return "[" + joinRepr(v.Items, depth) + "]"
	case *Dict:
		parts := make([]string, 0, v.Len())
		v.Range(func(key, value Value) bool {
			parts = append(parts, repr(key, depth+1)+": "+repr(value, depth+1))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	case *Set:
		if v.Len() == 0 {
			return "set()"
		}
		return "{" + joinRepr(v.Items(), depth) + "}"
	case *Range:
		if v.Step == 1 {
			return fmt.Sprintf("range(%d, %d)", v.Start, v.Stop)
		}
		return fmt.Sprintf("range(%d, %d, %d)", v.Start, v.Stop, v.Step)
	case *Function:
		return fmt.Sprintf("<function %s>", v.Name)
	case *Builtin:
		return fmt.Sprintf("<built-in function %s>", v.Name)
	case *boundMethod:
		return fmt.Sprintf("<built-in method %s of %s object>", v.name, TypeName(v.self))
	case *Generator:
		return fmt.Sprintf("<generator object %s>", v.name)
	case *Exception:
		return v.Type.Name + "(" + joinRepr(v.Args, depth) + ")"
	case *ExceptionType:
		return fmt.Sprintf("<class '%s'>", v.Name)
	case ellipsis:
		return "Ellipsis"
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("<%s object>", TypeName(v))
}

func joinRepr(items []Value, depth int) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = repr(item, depth+1)
	}
	return strings.Join(parts, ", ")
}

// formatFloat renders f using the shortest representation that round-trips.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	exp := strconv.FormatFloat(f, 'e', -1, 64)
	mark := strings.LastIndexByte(exp, 'e')
	e, _ := strconv.Atoi(exp[mark+1:])
	if e < -4 || e >= 16 {
		return exp
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Quote returns a host-language string literal for s.
// Single quotes are preferred unless s contains a single quote and no double quote.
func Quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r == utf8.RuneError:
			b.WriteString(`�`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// QuoteBytes returns a host-language bytes literal for s.
func QuoteBytes(s Bytes) string {
	q := byte('\'')
	if strings.IndexByte(string(s), '\'') >= 0 && strings.IndexByte(string(s), '"') < 0 {
		q = '"'
	}

	var b strings.Builder
	b.WriteString("b")
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
