package script

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var builtins map[string]Value

func init() {
	builtins = map[string]Value{}
	for _, t := range exceptionTypes {
		builtins[t.Name] = t
	}
	for _, b := range []*Builtin{
		NewBuiltin("abs", builtinAbs),
		NewBuiltin("all", builtinAll),
		NewBuiltin("any", builtinAny),
		NewBuiltin("bool", builtinBool),
		NewBuiltin("callable", builtinCallable),
		NewBuiltin("chr", builtinChr),
		NewBuiltin("dict", builtinDict),
		NewBuiltin("enumerate", builtinEnumerate),
		NewBuiltin("filter", builtinFilter),
		NewBuiltin("float", builtinFloat),
		NewBuiltin("getattr", builtinGetattr),
		NewBuiltin("hasattr", builtinHasattr),
		NewBuiltin("int", builtinInt),
		NewBuiltin("iter", builtinIter),
		NewBuiltin("len", builtinLen),
		NewBuiltin("list", builtinList),
		NewBuiltin("map", builtinMap),
		NewBuiltin("max", builtinMax),
		NewBuiltin("min", builtinMin),
		NewBuiltin("next", builtinNext),
		NewBuiltin("ord", builtinOrd),
		NewBuiltin("range", builtinRange),
		NewBuiltin("repr", builtinRepr),
		NewBuiltin("reversed", builtinReversed),
		NewBuiltin("round", builtinRound),
		NewBuiltin("set", builtinSet),
		NewBuiltin("sorted", builtinSorted),
		NewBuiltin("str", builtinStr),
		NewBuiltin("sum", builtinSum),
		NewBuiltin("tuple", builtinTuple),
		NewBuiltin("zip", builtinZip),
	} {
		builtins[b.Name] = b
	}
}

// Builtins returns the names of all built-in functions and exception types.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkArity(name string, args []Value, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		switch {
		case min == max:
			return Errorf(TypeError, "%s() takes exactly %d argument(s) (%d given)", name, min, len(args))
		case len(args) < min:
			return Errorf(TypeError, "%s() takes at least %d argument(s) (%d given)", name, min, len(args))
		}
		return Errorf(TypeError, "%s() takes at most %d argument(s) (%d given)", name, max, len(args))
	}
	return nil
}

func noKeywords(name string, kwargs []Keyword) error {
	if len(kwargs) > 0 {
		return Errorf(TypeError, "%s() takes no keyword arguments", name)
	}
	return nil
}

// simple checks arity and rejects keyword arguments.
func simple(name string, args []Value, kwargs []Keyword, min, max int) error {
	if err := noKeywords(name, kwargs); err != nil {
		return err
	}
	return checkArity(name, args, min, max)
}

func keywordArgs(name string, kwargs []Keyword, allowed ...string) (map[string]Value, error) {
	out := map[string]Value{}
	for _, kw := range kwargs {
		found := false
		for _, a := range allowed {
			if a == kw.Name {
				found = true
			}
		}
		if !found {
			return nil, Errorf(TypeError, "%s() got an unexpected keyword argument '%s'", name, kw.Name)
		}
		out[kw.Name] = kw.Value
	}
	return out, nil
}

func builtinAbs(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("abs", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case bool, int64:
		n, _ := toInt(v)
		if n < 0 {
			return -n, nil
		}
		return n, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, Errorf(TypeError, "bad operand type for abs(): '%s'", TypeName(args[0]))
}

func builtinAll(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("all", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	result := true
	err := ForEach(args[0], func(v Value) (bool, error) {
		result = Truthy(v)
		return result, nil
	})
	return result, err
}

func builtinAny(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("any", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	result := false
	err := ForEach(args[0], func(v Value) (bool, error) {
		result = Truthy(v)
		return !result, nil
	})
	return result, err
}

func builtinBool(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("bool", args, kwargs, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return false, nil
	}
	return Truthy(args[0]), nil
}

func builtinCallable(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("callable", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	switch args[0].(type) {
	case *Function, Callable:
		return true, nil
	}
	return false, nil
}

func builtinChr(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("chr", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	n, ok := toInt(args[0])
	if !ok {
		return nil, Errorf(TypeError, "an integer is required (got type %s)", TypeName(args[0]))
	}
	if n < 0 || n > utf8.MaxRune {
		return nil, Errorf(ValueError, "chr() arg not in range(0x110000)")
	}
	return string(rune(n)), nil
}

func builtinDict(args []Value, kwargs []Keyword) (Value, error) {
	if err := checkArity("dict", args, 0, 1); err != nil {
		return nil, err
	}
	d := NewDict()
	if len(args) == 1 {
		if src, ok := args[0].(*Dict); ok {
			d.Update(src)
		} else {
			err := ForEach(args[0], func(item Value) (bool, error) {
				pair, err := ToSlice(item)
				if err != nil {
					return false, err
				}
				if len(pair) != 2 {
					return false, Errorf(ValueError, "dictionary update sequence element has length %d; 2 is required", len(pair))
				}
				return true, d.Set(pair[0], pair[1])
			})
			if err != nil {
				return nil, err
			}
		}
	}
	for _, kw := range kwargs {
		d.SetString(kw.Name, kw.Value)
	}
	return d, nil
}

func builtinEnumerate(args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("enumerate", kwargs, "start")
	if err != nil {
		return nil, err
	}
	if err := checkArity("enumerate", args, 1, 2); err != nil {
		return nil, err
	}
	start := Value(int64(0))
	if len(args) == 2 {
		start = args[1]
	}
	if v, ok := kw["start"]; ok {
		start = v
	}
	n, ok := toInt(start)
	if !ok {
		return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(start))
	}

	it, err := Iter(args[0])
	if err != nil {
		return nil, err
	}
	return NewIterator(func() (Value, bool, error) {
		v, ok, err := it.Next()
		if err != nil || !ok {
			return nil, false, err
		}
		n++
		return Tuple{n - 1, v}, true, nil
	}), nil
}

func builtinFilter(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("filter", args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	it, err := Iter(args[1])
	if err != nil {
		return nil, err
	}
	fn := args[0]
	return NewIterator(func() (Value, bool, error) {
		for {
			v, ok, err := it.Next()
			if err != nil || !ok {
				return nil, false, err
			}
			keep := v
			if fn != nil {
				keep, err = Call(fn, []Value{v}, nil)
				if err != nil {
					return nil, false, err
				}
			}
			if Truthy(keep) {
				return v, true, nil
			}
		}
	}), nil
}

func builtinFloat(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("float", args, kwargs, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return 0.0, nil
	}
	switch v := args[0].(type) {
	case bool, int64, float64:
		f, _ := toFloat(v)
		return f, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		switch s {
		case "inf", "+inf", "infinity":
			return math.Inf(1), nil
		case "-inf", "-infinity":
			return math.Inf(-1), nil
		case "nan", "+nan", "-nan":
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
		if err != nil {
			return nil, Errorf(ValueError, "could not convert string to float: %s", Quote(v))
		}
		return f, nil
	}
	return nil, Errorf(TypeError, "float() argument must be a string or a number, not '%s'", TypeName(args[0]))
}

func builtinGetattr(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("getattr", args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	name, ok := args[1].(string)
	if !ok {
		return nil, Errorf(TypeError, "attribute name must be string")
	}
	v, err := GetAttr(args[0], name)
	if err != nil && len(args) == 3 && IsException(err, AttributeError) {
		return args[2], nil
	}
	return v, err
}

func builtinHasattr(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("hasattr", args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	name, ok := args[1].(string)
	if !ok {
		return nil, Errorf(TypeError, "attribute name must be string")
	}
	_, err := GetAttr(args[0], name)
	if err != nil {
		if IsException(err, AttributeError) {
			return false, nil
		}
		return nil, err
	}
	return true, nil
}

func builtinInt(args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("int", kwargs, "base")
	if err != nil {
		return nil, err
	}
	if err := checkArity("int", args, 0, 2); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return int64(0), nil
	}
	base := int64(10)
	explicitBase := false
	if len(args) == 2 {
		kw["base"] = args[1]
	}
	if b, ok := kw["base"]; ok {
		if base, ok = toInt(b); !ok {
			return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(b))
		}
		explicitBase = true
	}

	switch v := args[0].(type) {
	case bool, int64:
		if explicitBase {
			return nil, Errorf(TypeError, "int() can't convert non-string with explicit base")
		}
		n, _ := toInt(v)
		return n, nil
	case float64:
		if explicitBase {
			return nil, Errorf(TypeError, "int() can't convert non-string with explicit base")
		}
		if math.IsInf(v, 0) {
			return nil, Errorf(OverflowError, "cannot convert float infinity to integer")
		}
		if math.IsNaN(v) {
			return nil, Errorf(ValueError, "cannot convert float NaN to integer")
		}
		return int64(v), nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), "_", "")
		n, err := strconv.ParseInt(s, int(base), 64)
		if err != nil {
			return nil, Errorf(ValueError, "invalid literal for int() with base %d: %s", base, Quote(v))
		}
		return n, nil
	}
	return nil, Errorf(TypeError, "int() argument must be a string or a number, not '%s'", TypeName(args[0]))
}

func builtinIter(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("iter", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	it, err := Iter(args[0])
	if err != nil {
		return nil, err
	}
	return it, nil
}

func builtinLen(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("len", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	n, err := Len(args[0])
	return int64(n), err
}

func builtinList(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("list", args, kwargs, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return NewList(), nil
	}
	items, err := ToSlice(args[0])
	if err != nil {
		return nil, err
	}
	return NewList(items...), nil
}

func builtinMap(args []Value, kwargs []Keyword) (Value, error) {
	if err := noKeywords("map", kwargs); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, Errorf(TypeError, "map() must have at least two arguments.")
	}
	fn := args[0]
	its := make([]Stepper, len(args)-1)
	for i, arg := range args[1:] {
		it, err := Iter(arg)
		if err != nil {
			return nil, err
		}
		its[i] = it
	}
	return NewIterator(func() (Value, bool, error) {
		callArgs := make([]Value, len(its))
		for i, it := range its {
			v, ok, err := it.Next()
			if err != nil || !ok {
				return nil, false, err
			}
			callArgs[i] = v
		}
		v, err := Call(fn, callArgs, nil)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}), nil
}

func minMax(name string, args []Value, kwargs []Keyword, better func(c int) bool) (Value, error) {
	kw, err := keywordArgs(name, kwargs, "key", "default")
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, Errorf(TypeError, "%s expected at least 1 argument, got 0", name)
	}

	items := args
	if len(args) == 1 {
		if items, err = ToSlice(args[0]); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		if def, ok := kw["default"]; ok {
			return def, nil
		}
		return nil, Errorf(ValueError, "%s() arg is an empty sequence", name)
	}

	key := kw["key"]
	keyOf := func(v Value) (Value, error) {
		if key == nil {
			return v, nil
		}
		return Call(key, []Value{v}, nil)
	}

	best := items[0]
	bestKey, err := keyOf(best)
	if err != nil {
		return nil, err
	}
	for _, item := range items[1:] {
		k, err := keyOf(item)
		if err != nil {
			return nil, err
		}
		c, err := compareOrder(k, bestKey)
		if err != nil {
			return nil, err
		}
		if better(c) {
			best, bestKey = item, k
		}
	}
	return best, nil
}

func builtinMax(args []Value, kwargs []Keyword) (Value, error) {
	return minMax("max", args, kwargs, func(c int) bool { return c > 0 })
}

func builtinMin(args []Value, kwargs []Keyword) (Value, error) {
	return minMax("min", args, kwargs, func(c int) bool { return c < 0 })
}

func builtinNext(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("next", args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	it, ok := args[0].(Stepper)
	if !ok {
		return nil, Errorf(TypeError, "'%s' object is not an iterator", TypeName(args[0]))
	}
	v, ok, err := it.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, &Exception{Type: StopIteration}
	}
	return v, nil
}

func builtinOrd(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("ord", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case string:
		if utf8.RuneCountInString(v) == 1 {
			r, _ := utf8.DecodeRuneInString(v)
			return int64(r), nil
		}
		return nil, Errorf(TypeError, "ord() expected a character, but string of length %d found", utf8.RuneCountInString(v))
	case Bytes:
		if len(v) == 1 {
			return int64(v[0]), nil
		}
		return nil, Errorf(TypeError, "ord() expected a character, but string of length %d found", len(v))
	}
	return nil, Errorf(TypeError, "ord() expected string of length 1, but %s found", TypeName(args[0]))
}

func builtinRange(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("range", args, kwargs, 1, 3); err != nil {
		return nil, err
	}
	nums := make([]int64, len(args))
	for i, arg := range args {
		n, ok := toInt(arg)
		if !ok {
			return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(arg))
		}
		nums[i] = n
	}
	r := &Range{Step: 1}
	switch len(nums) {
	case 1:
		r.Stop = nums[0]
	case 2:
		r.Start, r.Stop = nums[0], nums[1]
	case 3:
		r.Start, r.Stop, r.Step = nums[0], nums[1], nums[2]
		if r.Step == 0 {
			return nil, Errorf(ValueError, "range() arg 3 must not be zero")
		}
	}
	return r, nil
}

func builtinRepr(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("repr", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return Repr(args[0]), nil
}

func builtinReversed(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("reversed", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	switch args[0].(type) {
	case *List, Tuple, string, Bytes, *Range:
	default:
		return nil, Errorf(TypeError, "'%s' object is not reversible", TypeName(args[0]))
	}
	items, err := ToSlice(args[0])
	if err != nil {
		return nil, err
	}
	i := len(items)
	return NewIterator(func() (Value, bool, error) {
		if i == 0 {
			return nil, false, nil
		}
		i--
		return items[i], true, nil
	}), nil
}

func builtinRound(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("round", args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	f, ok := toFloat(args[0])
	if !ok {
		return nil, Errorf(TypeError, "type %s doesn't define __round__ method", TypeName(args[0]))
	}
	if len(args) == 1 || args[1] == nil {
		if n, isInt := toInt(args[0]); isInt {
			return n, nil
		}
		return int64(math.RoundToEven(f)), nil
	}
	digits, ok := toInt(args[1])
	if !ok {
		return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(args[1]))
	}
	if n, isInt := toInt(args[0]); isInt && digits >= 0 {
		return n, nil
	}
	scale := math.Pow(10, float64(digits))
	return math.RoundToEven(f*scale) / scale, nil
}

func builtinSet(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("set", args, kwargs, 0, 1); err != nil {
		return nil, err
	}
	set := NewSet()
	if len(args) == 0 {
		return set, nil
	}
	err := ForEach(args[0], func(v Value) (bool, error) {
		return true, set.Add(v)
	})
	return set, err
}

func builtinSorted(args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("sorted", kwargs, "key", "reverse")
	if err != nil {
		return nil, err
	}
	if err := checkArity("sorted", args, 1, 1); err != nil {
		return nil, err
	}
	items, err := ToSlice(args[0])
	if err != nil {
		return nil, err
	}
	if err := sortValues(items, kw["key"], Truthy(kw["reverse"])); err != nil {
		return nil, err
	}
	return NewList(items...), nil
}

// sortValues sorts items in place, stably, using the optional key function.
func sortValues(items []Value, key Value, reverse bool) error {
	keys := items
	if key != nil {
		keys = make([]Value, len(items))
		for i, item := range items {
			k, err := Call(key, []Value{item}, nil)
			if err != nil {
				return err
			}
			keys[i] = k
		}
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		x, y := keys[idx[a]], keys[idx[b]]
		if reverse {
			x, y = y, x
		}
		less, err := Less(x, y)
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return sortErr
	}

	sorted := make([]Value, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
	return nil
}

func builtinStr(args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("str", kwargs, "encoding", "errors")
	if err != nil {
		return nil, err
	}
	if err := checkArity("str", args, 0, 3); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return "", nil
	}
	b, isBytes := args[0].(Bytes)
	if len(args) > 1 || len(kw) > 0 {
		if !isBytes {
			return nil, Errorf(TypeError, "decoding to str: need a bytes-like object, %s found", TypeName(args[0]))
		}
		encoding := "utf-8"
		if len(args) > 1 {
			encoding = Str(args[1])
		}
		if v, ok := kw["encoding"]; ok {
			encoding = Str(v)
		}
		return decodeBytes(b, encoding)
	}
	return Str(args[0]), nil
}

func builtinSum(args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("sum", kwargs, "start")
	if err != nil {
		return nil, err
	}
	if err := checkArity("sum", args, 1, 2); err != nil {
		return nil, err
	}
	var total Value = int64(0)
	if len(args) == 2 {
		total = args[1]
	}
	if v, ok := kw["start"]; ok {
		total = v
	}
	if _, ok := total.(string); ok {
		return nil, Errorf(TypeError, "sum() can't sum strings [use ''.join(seq) instead]")
	}
	err = ForEach(args[0], func(v Value) (bool, error) {
		var err error
		total, err = BinaryOp("+", total, v)
		return err == nil, err
	})
	return total, err
}

func builtinTuple(args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("tuple", args, kwargs, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return Tuple{}, nil
	}
	items, err := ToSlice(args[0])
	if err != nil {
		return nil, err
	}
	return Tuple(items), nil
}

func builtinZip(args []Value, kwargs []Keyword) (Value, error) {
	if err := noKeywords("zip", kwargs); err != nil {
		return nil, err
	}
	its := make([]Stepper, len(args))
	for i, arg := range args {
		it, err := Iter(arg)
		if err != nil {
			return nil, err
		}
		its[i] = it
	}
	return NewIterator(func() (Value, bool, error) {
		if len(its) == 0 {
			return nil, false, nil
		}
		row := make(Tuple, len(its))
		for i, it := range its {
			v, ok, err := it.Next()
			if err != nil || !ok {
				return nil, false, err
			}
			row[i] = v
		}
		return row, true, nil
	}), nil
}
