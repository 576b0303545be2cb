package runtime

import (
	"github.com/Drolfothesgnir/gohaa/script"
)

// Names of the helpers generated renderers call.
const (
	OpenTagBuiltin  = "_ph_open_tag"
	CloseTagBuiltin = "_ph_close_tag"
	EncodeBuiltin   = "_ph_encode"
)

// Builtins returns the helpers a compiled renderer expects in its globals.
// Tags are rendered in the given output encoding.
func Builtins(encoding string) map[string]script.Value {
	return map[string]script.Value{
		OpenTagBuiltin:  script.NewBuiltin(OpenTagBuiltin, openTagBuiltin(encoding)),
		CloseTagBuiltin: script.NewBuiltin(CloseTagBuiltin, closeTagBuiltin(encoding)),
		EncodeBuiltin:   script.NewBuiltin(EncodeBuiltin, encodeBuiltin),
	}
}

func encodeBytes(s, encoding string) (script.Value, error) {
	b, err := Encode(s, encoding)
	if err != nil {
		return nil, script.Errorf(script.UnicodeError, "%v", err)
	}
	return script.Bytes(b), nil
}

// openTagBuiltin implements _ph_open_tag(stack, name, id, classes, sets, self_close).
// The final tag name is pushed on stack unless the tag closes itself.
func openTagBuiltin(encoding string) func([]script.Value, []script.Keyword) (script.Value, error) {
	return func(args []script.Value, kwargs []script.Keyword) (script.Value, error) {
		if len(args) != 6 || len(kwargs) > 0 {
			return nil, script.Errorf(script.TypeError, "%s() takes exactly 6 positional arguments (%d given)", OpenTagBuiltin, len(args))
		}
		stack, ok := args[0].(*script.List)
		if !ok {
			return nil, script.Errorf(script.TypeError, "%s() expects a list as the tag name stack", OpenTagBuiltin)
		}
		name := ""
		if args[1] != nil {
			name = valueString(args[1])
		}

		raw, err := script.ToSlice(args[4])
		if err != nil {
			return nil, err
		}
		sets := make([]*script.Dict, 0, len(raw))
		for _, v := range raw {
			d, ok := v.(*script.Dict)
			if !ok {
				return nil, script.Errorf(script.TypeError, "tag attributes must be a dict, not %s", script.TypeName(v))
			}
			sets = append(sets, d)
		}

		name, attrs, err := PrepareForTag(name, args[2], args[3], sets)
		if err != nil {
			return nil, err
		}
		selfClose := script.Truthy(args[5])
		if !selfClose {
			stack.Items = append(stack.Items, name)
		}
		return encodeBytes(OpenTag(name, attrs, selfClose), encoding)
	}
}

// closeTagBuiltin implements _ph_close_tag(stack).
func closeTagBuiltin(encoding string) func([]script.Value, []script.Keyword) (script.Value, error) {
	return func(args []script.Value, kwargs []script.Keyword) (script.Value, error) {
		if len(args) != 1 || len(kwargs) > 0 {
			return nil, script.Errorf(script.TypeError, "%s() takes exactly 1 positional argument (%d given)", CloseTagBuiltin, len(args))
		}
		stack, ok := args[0].(*script.List)
		if !ok {
			return nil, script.Errorf(script.TypeError, "%s() expects a list as the tag name stack", CloseTagBuiltin)
		}
		n := len(stack.Items)
		if n == 0 {
			return nil, script.Errorf(script.IndexError, "pop from empty tag name stack")
		}
		name := stack.Items[n-1]
		stack.Items = stack.Items[:n-1]
		return encodeBytes(CloseTag(valueString(name)), encoding)
	}
}

// encodeBuiltin implements _ph_encode(value, escape, encoding).
// None renders as nothing, bytes pass through and iterators are encoded item by item.
func encodeBuiltin(args []script.Value, kwargs []script.Keyword) (script.Value, error) {
	if len(args) != 3 || len(kwargs) > 0 {
		return nil, script.Errorf(script.TypeError, "%s() takes exactly 3 positional arguments (%d given)", EncodeBuiltin, len(args))
	}
	encoding, ok := args[2].(string)
	if !ok {
		return nil, script.Errorf(script.TypeError, "%s() expects an encoding name", EncodeBuiltin)
	}
	return EncodeValue(args[0], script.Truthy(args[1]), encoding)
}

// EncodeValue converts a value produced by template code into output bytes.
func EncodeValue(v script.Value, escape bool, encoding string) (script.Value, error) {
	switch v := v.(type) {
	case nil:
		return script.Bytes(""), nil
	case script.Bytes:
		return v, nil
	case script.Stepper:
		next := func() (script.Value, bool, error) {
			item, ok, err := v.Next()
			if err != nil || !ok {
				return nil, ok, err
			}
			enc, err := EncodeValue(item, escape, encoding)
			if err != nil {
				return nil, false, err
			}
			return enc, true, nil
		}
		if c, ok := v.(script.Closer); ok {
			return script.NewClosingIterator(next, c.Close), nil
		}
		return script.NewIterator(next), nil
	}
	s := script.Str(v)
	if escape {
		s = Escape(s)
	}
	return encodeBytes(s, encoding)
}
