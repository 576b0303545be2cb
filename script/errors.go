package script

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError reports a lexical or grammatical problem in host-language source.
// Line is 1-based, Col is a 0-based byte offset into that line.
type SyntaxError struct {
	Msg  string
	Line int
	Col  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Col, e.Msg)
}

func newSyntaxError(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Msg:  fmt.Sprintf(format, args...),
		Line: line,
		Col:  col,
	}
}

// ExceptionType is a class of runtime exceptions. Calling it builds an *Exception.
type ExceptionType struct {
	Name string
	Base *ExceptionType
}

// IsSubtype reports whether t is other or derives from it.
func (t *ExceptionType) IsSubtype(other *ExceptionType) bool {
	for cur := t; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

func (t *ExceptionType) Call(args []Value, kwargs []Keyword) (Value, error) {
	if len(kwargs) > 0 {
		return nil, Errorf(TypeError, "%s() takes no keyword arguments", t.Name)
	}
	return &Exception{Type: t, Args: args}, nil
}

var (
	BaseException       = &ExceptionType{Name: "BaseException"}
	ExceptionBase       = &ExceptionType{Name: "Exception", Base: BaseException}
	ArithmeticError     = &ExceptionType{Name: "ArithmeticError", Base: ExceptionBase}
	AssertionError      = &ExceptionType{Name: "AssertionError", Base: ExceptionBase}
	AttributeError      = &ExceptionType{Name: "AttributeError", Base: ExceptionBase}
	ImportError         = &ExceptionType{Name: "ImportError", Base: ExceptionBase}
	LookupError         = &ExceptionType{Name: "LookupError", Base: ExceptionBase}
	IndexError          = &ExceptionType{Name: "IndexError", Base: LookupError}
	KeyError            = &ExceptionType{Name: "KeyError", Base: LookupError}
	NameError           = &ExceptionType{Name: "NameError", Base: ExceptionBase}
	UnboundLocalError   = &ExceptionType{Name: "UnboundLocalError", Base: NameError}
	RuntimeError        = &ExceptionType{Name: "RuntimeError", Base: ExceptionBase}
	NotImplementedError = &ExceptionType{Name: "NotImplementedError", Base: RuntimeError}
	RecursionError      = &ExceptionType{Name: "RecursionError", Base: RuntimeError}
	StopIteration       = &ExceptionType{Name: "StopIteration", Base: ExceptionBase}
	TypeError           = &ExceptionType{Name: "TypeError", Base: ExceptionBase}
	ValueError          = &ExceptionType{Name: "ValueError", Base: ExceptionBase}
	UnicodeError        = &ExceptionType{Name: "UnicodeError", Base: ValueError}
	ZeroDivisionError   = &ExceptionType{Name: "ZeroDivisionError", Base: ArithmeticError}
	OverflowError       = &ExceptionType{Name: "OverflowError", Base: ArithmeticError}
)

var exceptionTypes = []*ExceptionType{
	BaseException, ExceptionBase, ArithmeticError, AssertionError, AttributeError,
	ImportError, LookupError, IndexError, KeyError, NameError, UnboundLocalError,
	RuntimeError, NotImplementedError, RecursionError, StopIteration, TypeError,
	ValueError, UnicodeError, ZeroDivisionError, OverflowError,
}

// Exception is a runtime exception raised by host-language code.
// It travels through Go code as an ordinary error.
type Exception struct {
	Type *ExceptionType
	Args []Value
}

// Errorf builds an exception of type t with a formatted message as its only argument.
func Errorf(t *ExceptionType, format string, args ...any) *Exception {
	return &Exception{Type: t, Args: []Value{fmt.Sprintf(format, args...)}}
}

func (e *Exception) Error() string {
	switch len(e.Args) {
	case 0:
		return e.Type.Name
	case 1:
		return e.Type.Name + ": " + Str(e.Args[0])
	}
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = Repr(arg)
	}
	return e.Type.Name + ": (" + strings.Join(parts, ", ") + ")"
}

// Is matches exceptions by type, so errors.Is(err, &Exception{Type: ValueError}) works
// for any ValueError subclass.
func (e *Exception) Is(target error) bool {
	other, ok := target.(*Exception)
	if !ok {
		return false
	}
	return e.Type.IsSubtype(other.Type)
}

// IsException reports whether err is an *Exception of type t or a subtype.
func IsException(err error, t *ExceptionType) bool {
	var exc *Exception
	return errors.As(err, &exc) && exc.Type.IsSubtype(t)
}
