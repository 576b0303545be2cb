package script

import (
	"math"
	"strings"
	"unicode/utf8"
)

func toFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func toInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int64:
		return v, true
	}
	return 0, false
}

func isNumber(v Value) bool {
	switch v.(type) {
	case bool, int64, float64:
		return true
	}
	return false
}

func unsupported(op string, a, b Value) error {
	return Errorf(TypeError, "unsupported operand type(s) for %s: '%s' and '%s'", op, TypeName(a), TypeName(b))
}

// BinaryOp applies an arithmetic or bitwise operator.
func BinaryOp(op string, a, b Value) (Value, error) {
	if x, ok := toInt(a); ok {
		if y, ok := toInt(b); ok {
			return intOp(op, x, y)
		}
	}
	if isNumber(a) && isNumber(b) {
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return floatOp(op, x, y)
	}

	switch op {
	case "+":
		switch x := a.(type) {
		case string:
			if y, ok := b.(string); ok {
				return x + y, nil
			}
		case Bytes:
			if y, ok := b.(Bytes); ok {
				return x + y, nil
			}
		case Tuple:
			if y, ok := b.(Tuple); ok {
				out := make(Tuple, 0, len(x)+len(y))
				return append(append(out, x...), y...), nil
			}
		case *List:
			if y, ok := b.(*List); ok {
				out := make([]Value, 0, len(x.Items)+len(y.Items))
				return NewList(append(append(out, x.Items...), y.Items...)...), nil
			}
		}
	case "*":
		if n, ok := toInt(b); ok {
			if v, ok := repeat(a, n); ok {
				return v, nil
			}
		}
		if n, ok := toInt(a); ok {
			if v, ok := repeat(b, n); ok {
				return v, nil
			}
		}
	case "%":
		switch x := a.(type) {
		case string:
			return formatPercent(x, b)
		case Bytes:
			s, err := formatPercent(string(x), b)
			if err != nil {
				return nil, err
			}
			return Bytes(s.(string)), nil
		}
	case "|":
		if x, ok := a.(*Dict); ok {
			if y, ok := b.(*Dict); ok {
				out := x.Copy()
				out.Update(y)
				return out, nil
			}
		}
		if x, ok := a.(*Set); ok {
			if y, ok := b.(*Set); ok {
				out := NewSet()
				for _, item := range append(x.Items(), y.Items()...) {
					_ = out.Add(item)
				}
				return out, nil
			}
		}
	case "&", "-":
		if x, ok := a.(*Set); ok {
			if y, ok := b.(*Set); ok {
				out := NewSet()
				for _, item := range x.Items() {
					in, _ := y.Contains(item)
					if in == (op == "&") {
						_ = out.Add(item)
					}
				}
				return out, nil
			}
		}
	}
	return nil, unsupported(op, a, b)
}

func repeat(v Value, n int64) (Value, bool) {
	if n < 0 {
		n = 0
	}
	switch v := v.(type) {
	case string:
		return strings.Repeat(v, int(n)), true
	case Bytes:
		return Bytes(strings.Repeat(string(v), int(n))), true
	case Tuple:
		out := make(Tuple, 0, len(v)*int(n))
		for i := int64(0); i < n; i++ {
			out = append(out, v...)
		}
		return out, true
	case *List:
		out := make([]Value, 0, len(v.Items)*int(n))
		for i := int64(0); i < n; i++ {
			out = append(out, v.Items...)
		}
		return NewList(out...), true
	}
	return nil, false
}

func intOp(op string, x, y int64) (Value, error) {
	switch op {
	case "+":
		r := x + y
		if (r > x) != (y > 0) {
			return floatOp(op, float64(x), float64(y))
		}
		return r, nil
	case "-":
		r := x - y
		if (r < x) != (y > 0) {
			return floatOp(op, float64(x), float64(y))
		}
		return r, nil
	case "*":
		if x != 0 && y != 0 {
			r := x * y
			if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
				return nil, Errorf(OverflowError, "integer multiplication overflow")
			}
			return r, nil
		}
		return int64(0), nil
	case "/":
		if y == 0 {
			return nil, Errorf(ZeroDivisionError, "division by zero")
		}
		return float64(x) / float64(y), nil
	case "//":
		if y == 0 {
			return nil, Errorf(ZeroDivisionError, "integer division or modulo by zero")
		}
		q := x / y
		if (x%y != 0) && ((x < 0) != (y < 0)) {
			q--
		}
		return q, nil
	case "%":
		if y == 0 {
			return nil, Errorf(ZeroDivisionError, "integer division or modulo by zero")
		}
		m := x % y
		if m != 0 && ((m < 0) != (y < 0)) {
			m += y
		}
		return m, nil
	case "**":
		if y < 0 {
			return math.Pow(float64(x), float64(y)), nil
		}
		result := int64(1)
		base := x
		for y > 0 {
			if y&1 == 1 {
				result *= base
			}
			base *= base
			y >>= 1
		}
		return result, nil
	case "&":
		return x & y, nil
	case "|":
		return x | y, nil
	case "^":
		return x ^ y, nil
	case "<<":
		if y < 0 {
			return nil, Errorf(ValueError, "negative shift count")
		}
		if y > 63 {
			return nil, Errorf(OverflowError, "shift count too large")
		}
		return x << uint(y), nil
	case ">>":
		if y < 0 {
			return nil, Errorf(ValueError, "negative shift count")
		}
		if y > 63 {
			y = 63
		}
		return x >> uint(y), nil
	}
	return nil, unsupported(op, x, y)
}

func floatOp(op string, x, y float64) (Value, error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return nil, Errorf(ZeroDivisionError, "float division by zero")
		}
		return x / y, nil
	case "//":
		if y == 0 {
			return nil, Errorf(ZeroDivisionError, "float divmod()")
		}
		return math.Floor(x / y), nil
	case "%":
		if y == 0 {
			return nil, Errorf(ZeroDivisionError, "float modulo")
		}
		m := math.Mod(x, y)
		if m != 0 && ((m < 0) != (y < 0)) {
			m += y
		}
		return m, nil
	case "**":
		return math.Pow(x, y), nil
	}
	return nil, unsupported(op, x, y)
}

// UnaryOperation applies -, + or ~ to v.
func UnaryOperation(op string, v Value) (Value, error) {
	switch op {
	case "not":
		return !Truthy(v), nil
	case "-":
		if x, ok := toInt(v); ok {
			return -x, nil
		}
		if x, ok := v.(float64); ok {
			return -x, nil
		}
	case "+":
		if x, ok := toInt(v); ok {
			return x, nil
		}
		if x, ok := v.(float64); ok {
			return x, nil
		}
	case "~":
		if x, ok := toInt(v); ok {
			return ^x, nil
		}
	}
	return nil, Errorf(TypeError, "bad operand type for unary %s: '%s'", op, TypeName(v))
}

// Equal reports host-language equality.
func Equal(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		if xi, ok := toInt(a); ok {
			if yi, ok := toInt(b); ok {
				return xi == yi
			}
		}
		return x == y
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case Bytes:
		y, ok := b.(Bytes)
		return ok && x == y
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalSlices(x, y)
	case *List:
		y, ok := b.(*List)
		return ok && (x == y || equalSlices(x.Items, y.Items))
	case *Dict:
		y, ok := b.(*Dict)
		if !ok || x.Len() != y.Len() {
			return false
		}
		equal := true
		x.Range(func(key, value Value) bool {
			other, found, err := y.Get(key)
			equal = err == nil && found && Equal(value, other)
			return equal
		})
		return equal
	case *Set:
		y, ok := b.(*Set)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, item := range x.Items() {
			if in, _ := y.Contains(item); !in {
				return false
			}
		}
		return true
	case *Range:
		y, ok := b.(*Range)
		return ok && *x == *y
	}
	return isComparable(a) && isComparable(b) && a == b
}

func isComparable(v Value) bool {
	switch v.(type) {
	case Tuple:
		return false
	}
	return true
}

func equalSlices(x, y []Value) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !Equal(x[i], y[i]) {
			return false
		}
	}
	return true
}

// Less orders two values for <, sorting, min and max.
func Less(a, b Value) (bool, error) {
	c, err := compareOrder(a, b)
	return c < 0, err
}

func compareOrder(a, b Value) (int, error) {
	if isNumber(a) && isNumber(b) {
		if x, ok := toInt(a); ok {
			if y, ok := toInt(b); ok {
				return cmp3(x < y, x > y), nil
			}
		}
		x, _ := toFloat(a)
		y, _ := toFloat(b)
		return cmp3(x < y, x > y), nil
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case Bytes:
		if y, ok := b.(Bytes); ok {
			return strings.Compare(string(x), string(y)), nil
		}
	case Tuple:
		if y, ok := b.(Tuple); ok {
			return compareSlices(x, y)
		}
	case *List:
		if y, ok := b.(*List); ok {
			return compareSlices(x.Items, y.Items)
		}
	}
	return 0, Errorf(TypeError, "'<' not supported between instances of '%s' and '%s'", TypeName(a), TypeName(b))
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

func compareSlices(x, y []Value) (int, error) {
	for i := 0; i < len(x) && i < len(y); i++ {
		if Equal(x[i], y[i]) {
			continue
		}
		return compareOrder(x[i], y[i])
	}
	return cmp3(len(x) < len(y), len(x) > len(y)), nil
}

// CompareValues evaluates a single comparison operator.
func CompareValues(op string, a, b Value) (bool, error) {
	switch op {
	case "==":
		return Equal(a, b), nil
	case "!=":
		return !Equal(a, b), nil
	case "is":
		return identical(a, b), nil
	case "is not":
		return !identical(a, b), nil
	case "in":
		return Contains(b, a)
	case "not in":
		in, err := Contains(b, a)
		return !in, err
	}

	c, err := compareOrder(a, b)
	if err != nil {
		if exc, ok := err.(*Exception); ok && exc.Type == TypeError {
			return false, Errorf(TypeError, "'%s' not supported between instances of '%s' and '%s'", op, TypeName(a), TypeName(b))
		}
		return false, err
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	}
	return false, Errorf(TypeError, "unknown comparison %s", op)
}

func identical(a, b Value) bool {
	switch a.(type) {
	case nil, bool, ellipsis:
		return a == b
	case int64, float64, string, Bytes:
		return Equal(a, b) && TypeName(a) == TypeName(b)
	case Tuple:
		return Equal(a, b)
	}
	return isComparable(b) && a == b
}

// Contains implements the "in" operator: whether item is in container.
func Contains(container, item Value) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, Errorf(TypeError, "'in <string>' requires string as left operand, not %s", TypeName(item))
		}
		return strings.Contains(c, s), nil
	case Bytes:
		switch s := item.(type) {
		case Bytes:
			return strings.Contains(string(c), string(s)), nil
		case int64:
			return strings.IndexByte(string(c), byte(s)) >= 0, nil
		}
		return false, Errorf(TypeError, "a bytes-like object is required, not '%s'", TypeName(item))
	case *Dict:
		_, ok, err := c.Get(item)
		return ok, err
	case *Set:
		return c.Contains(item)
	case *Range:
		n, ok := toInt(item)
		if !ok {
			return false, nil
		}
		if c.Step > 0 && (n < c.Start || n >= c.Stop) || c.Step < 0 && (n > c.Start || n <= c.Stop) {
			return false, nil
		}
		return (n-c.Start)%c.Step == 0, nil
	}

	found := false
	err := ForEach(container, func(v Value) (bool, error) {
		found = Equal(v, item)
		return !found, nil
	})
	return found, err
}

// normalizeIndex resolves a possibly negative index against length n.
func normalizeIndex(index Value, n int, typeName string) (int, error) {
	i, ok := toInt(index)
	if !ok {
		return 0, Errorf(TypeError, "%s indices must be integers or slices, not %s", typeName, TypeName(index))
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, Errorf(IndexError, "%s index out of range", typeName)
	}
	return int(i), nil
}

// sliceBounds computes start, stop and step of a slice applied to length n.
func sliceBounds(s *sliceValue, n int) (start, stop, step int, err error) {
	step = 1
	if s.step != nil {
		st, ok := toInt(s.step)
		if !ok {
			return 0, 0, 0, Errorf(TypeError, "slice indices must be integers or None")
		}
		if st == 0 {
			return 0, 0, 0, Errorf(ValueError, "slice step cannot be zero")
		}
		step = int(st)
	}

	clamp := func(v Value, def int) (int, error) {
		if v == nil {
			return def, nil
		}
		i, ok := toInt(v)
		if !ok {
			return 0, Errorf(TypeError, "slice indices must be integers or None")
		}
		x := int(i)
		if x < 0 {
			x += n
			if x < 0 {
				if step < 0 {
					return -1, nil
				}
				return 0, nil
			}
		}
		if x >= n {
			if step < 0 {
				return n - 1, nil
			}
			return n, nil
		}
		return x, nil
	}

	if step > 0 {
		start, err = clamp(s.lower, 0)
		if err == nil {
			stop, err = clamp(s.upper, n)
		}
	} else {
		start, err = clamp(s.lower, n-1)
		if err == nil {
			stop, err = clamp(s.upper, -1)
		}
	}
	return start, stop, step, err
}

type sliceValue struct {
	lower, upper, step Value
}

func sliceIndices(start, stop, step int) []int {
	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out
}

// GetItem implements v[index].
func GetItem(v, index Value) (Value, error) {
	if s, ok := index.(*sliceValue); ok {
		return getSlice(v, s)
	}

	switch c := v.(type) {
	case *List:
		i, err := normalizeIndex(index, len(c.Items), "list")
		if err != nil {
			return nil, err
		}
		return c.Items[i], nil
	case Tuple:
		i, err := normalizeIndex(index, len(c), "tuple")
		if err != nil {
			return nil, err
		}
		return c[i], nil
	case string:
		runes := []rune(c)
		i, err := normalizeIndex(index, len(runes), "string")
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case Bytes:
		i, err := normalizeIndex(index, len(c), "index")
		if err != nil {
			return nil, err
		}
		return int64(c[i]), nil
	case *Range:
		i, err := normalizeIndex(index, int(c.Len()), "range object")
		if err != nil {
			return nil, err
		}
		return c.At(int64(i)), nil
	case *Dict:
		value, ok, err := c.Get(index)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &Exception{Type: KeyError, Args: []Value{index}}
		}
		return value, nil
	}
	return nil, Errorf(TypeError, "'%s' object is not subscriptable", TypeName(v))
}

func getSlice(v Value, s *sliceValue) (Value, error) {
	pick := func(n int, fn func(int)) error {
		start, stop, step, err := sliceBounds(s, n)
		if err != nil {
			return err
		}
		for _, i := range sliceIndices(start, stop, step) {
			fn(i)
		}
		return nil
	}

	switch c := v.(type) {
	case *List:
		var out []Value
		err := pick(len(c.Items), func(i int) { out = append(out, c.Items[i]) })
		return NewList(out...), err
	case Tuple:
		out := Tuple{}
		err := pick(len(c), func(i int) { out = append(out, c[i]) })
		return out, err
	case string:
		runes := []rune(c)
		var b strings.Builder
		err := pick(len(runes), func(i int) { b.WriteRune(runes[i]) })
		return b.String(), err
	case Bytes:
		var b strings.Builder
		err := pick(len(c), func(i int) { b.WriteByte(c[i]) })
		return Bytes(b.String()), err
	}
	return nil, Errorf(TypeError, "'%s' object is not subscriptable", TypeName(v))
}

// SetItem implements v[index] = value.
func SetItem(v, index, value Value) error {
	switch c := v.(type) {
	case *List:
		if s, ok := index.(*sliceValue); ok {
			return setSlice(c, s, value)
		}
		i, err := normalizeIndex(index, len(c.Items), "list assignment")
		if err != nil {
			return err
		}
		c.Items[i] = value
		return nil
	case *Dict:
		return c.Set(index, value)
	}
	return Errorf(TypeError, "'%s' object does not support item assignment", TypeName(v))
}

func setSlice(l *List, s *sliceValue, value Value) error {
	items, err := ToSlice(value)
	if err != nil {
		return err
	}
	start, stop, step, err := sliceBounds(s, len(l.Items))
	if err != nil {
		return err
	}
	if step != 1 {
		indices := sliceIndices(start, stop, step)
		if len(indices) != len(items) {
			return Errorf(ValueError, "attempt to assign sequence of size %d to extended slice of size %d", len(items), len(indices))
		}
		for k, i := range indices {
			l.Items[i] = items[k]
		}
		return nil
	}
	if stop < start {
		stop = start
	}
	out := make([]Value, 0, len(l.Items)-(stop-start)+len(items))
	out = append(out, l.Items[:start]...)
	out = append(out, items...)
	out = append(out, l.Items[stop:]...)
	l.Items = out
	return nil
}

// DelItem implements del v[index].
func DelItem(v, index Value) error {
	switch c := v.(type) {
	case *List:
		if s, ok := index.(*sliceValue); ok {
			start, stop, step, err := sliceBounds(s, len(c.Items))
			if err != nil {
				return err
			}
			drop := map[int]bool{}
			for _, i := range sliceIndices(start, stop, step) {
				drop[i] = true
			}
			kept := c.Items[:0:0]
			for i, item := range c.Items {
				if !drop[i] {
					kept = append(kept, item)
				}
			}
			c.Items = kept
			return nil
		}
		i, err := normalizeIndex(index, len(c.Items), "list assignment")
		if err != nil {
			return err
		}
		c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
		return nil
	case *Dict:
		ok, err := c.Delete(index)
		if err != nil {
			return err
		}
		if !ok {
			return &Exception{Type: KeyError, Args: []Value{index}}
		}
		return nil
	}
	return Errorf(TypeError, "'%s' object does not support item deletion", TypeName(v))
}

// Len implements len(v).
func Len(v Value) (int, error) {
	switch c := v.(type) {
	case string:
		return utf8.RuneCountInString(c), nil
	case Bytes:
		return len(c), nil
	case Tuple:
		return len(c), nil
	case *List:
		return len(c.Items), nil
	case *Dict:
		return c.Len(), nil
	case *Set:
		return c.Len(), nil
	case *Range:
		return int(c.Len()), nil
	}
	return 0, Errorf(TypeError, "object of type '%s' has no len()", TypeName(v))
}
