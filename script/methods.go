package script

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// boundMethod is a built-in method bound to its receiver.
type boundMethod struct {
	self Value
	name string
	fn   func(args []Value, kwargs []Keyword) (Value, error)
}

func (m *boundMethod) Call(args []Value, kwargs []Keyword) (Value, error) {
	return m.fn(args, kwargs)
}

type method func(self Value, args []Value, kwargs []Keyword) (Value, error)

var (
	strMethods   map[string]method
	bytesMethods map[string]method
	listMethods  map[string]method
	dictMethods  map[string]method
	setMethods   map[string]method
)

func init() {
	strMethods = map[string]method{
		"capitalize": strCapitalize,
		"count":      strCount,
		"encode":     strEncode,
		"endswith":   strEndswith,
		"find":       strFind,
		"format":     strFormat,
		"index":      strIndex,
		"isalpha":    strPredicate(unicode.IsLetter),
		"isdigit":    strPredicate(unicode.IsDigit),
		"isspace":    strPredicate(unicode.IsSpace),
		"join":       strJoin,
		"ljust":      strJustify("ljust"),
		"lower":      strMap("lower", strings.ToLower),
		"lstrip":     strStrip("lstrip"),
		"replace":    strReplace,
		"rjust":      strJustify("rjust"),
		"rstrip":     strStrip("rstrip"),
		"split":      strSplit,
		"splitlines": strSplitlines,
		"startswith": strStartswith,
		"strip":      strStrip("strip"),
		"title":      strMap("title", titleCase),
		"upper":      strMap("upper", strings.ToUpper),
		"zfill":      strZfill,
	}
	bytesMethods = map[string]method{
		"decode": bytesDecode,
	}
	listMethods = map[string]method{
		"append":  listAppend,
		"clear":   listClear,
		"copy":    listCopy,
		"count":   listCount,
		"extend":  listExtend,
		"index":   listIndex,
		"insert":  listInsert,
		"pop":     listPop,
		"remove":  listRemove,
		"reverse": listReverse,
		"sort":    listSort,
	}
	dictMethods = map[string]method{
		"clear":      dictClear,
		"copy":       dictCopy,
		"get":        dictGet,
		"items":      dictItems,
		"keys":       dictKeys,
		"pop":        dictPop,
		"setdefault": dictSetdefault,
		"update":     dictUpdate,
		"values":     dictValues,
	}
	setMethods = map[string]method{
		"add":     setAdd,
		"discard": setDiscard,
		"remove":  setRemove,
	}
}

// methodOf returns the built-in method name of v, bound to v.
func methodOf(v Value, name string) (Value, bool) {
	var table map[string]method
	switch v.(type) {
	case string:
		table = strMethods
	case Bytes:
		table = bytesMethods
	case *List:
		table = listMethods
	case *Dict:
		table = dictMethods
	case *Set:
		table = setMethods
	default:
		return nil, false
	}
	m, ok := table[name]
	if !ok {
		return nil, false
	}
	return &boundMethod{
		self: v,
		name: name,
		fn: func(args []Value, kwargs []Keyword) (Value, error) {
			return m(v, args, kwargs)
		},
	}, true
}

func argString(fn string, v Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", Errorf(TypeError, "%s() argument must be str, not %s", fn, TypeName(v))
	}
	return s, nil
}

func strCapitalize(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("capitalize", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	s := self.(string)
	if s == "" {
		return s, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:]), nil
}

func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

func strMap(name string, fn func(string) string) method {
	return func(self Value, args []Value, kwargs []Keyword) (Value, error) {
		if err := simple(name, args, kwargs, 0, 0); err != nil {
			return nil, err
		}
		return fn(self.(string)), nil
	}
}

func strPredicate(fn func(rune) bool) method {
	return func(self Value, args []Value, kwargs []Keyword) (Value, error) {
		s := self.(string)
		if s == "" {
			return false, nil
		}
		for _, r := range s {
			if !fn(r) {
				return false, nil
			}
		}
		return true, nil
	}
}

func strCount(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("count", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	sub, err := argString("count", args[0])
	if err != nil {
		return nil, err
	}
	if sub == "" {
		return int64(utf8.RuneCountInString(self.(string)) + 1), nil
	}
	return int64(strings.Count(self.(string), sub)), nil
}

func strEncode(self Value, args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("encode", kwargs, "encoding", "errors")
	if err != nil {
		return nil, err
	}
	if err := checkArity("encode", args, 0, 2); err != nil {
		return nil, err
	}
	name := "utf-8"
	if len(args) > 0 {
		name = Str(args[0])
	}
	if v, ok := kw["encoding"]; ok {
		name = Str(v)
	}
	return encodeString(self.(string), name)
}

func affix(name string, has func(s, affix string) bool) method {
	return func(self Value, args []Value, kwargs []Keyword) (Value, error) {
		if err := simple(name, args, kwargs, 1, 1); err != nil {
			return nil, err
		}
		s := self.(string)
		if options, ok := args[0].(Tuple); ok {
			for _, option := range options {
				a, err := argString(name, option)
				if err != nil {
					return nil, err
				}
				if has(s, a) {
					return true, nil
				}
			}
			return false, nil
		}
		a, err := argString(name, args[0])
		if err != nil {
			return nil, err
		}
		return has(s, a), nil
	}
}

var (
	strStartswith = affix("startswith", strings.HasPrefix)
	strEndswith   = affix("endswith", strings.HasSuffix)
)

// runeIndex converts a byte offset in s into a character offset.
func runeIndex(s string, byteIndex int) int64 {
	if byteIndex < 0 {
		return -1
	}
	return int64(utf8.RuneCountInString(s[:byteIndex]))
}

func strFind(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("find", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	sub, err := argString("find", args[0])
	if err != nil {
		return nil, err
	}
	s := self.(string)
	return runeIndex(s, strings.Index(s, sub)), nil
}

func strIndex(self Value, args []Value, kwargs []Keyword) (Value, error) {
	i, err := strFind(self, args, kwargs)
	if err != nil {
		return nil, err
	}
	if i.(int64) < 0 {
		return nil, Errorf(ValueError, "substring not found")
	}
	return i, nil
}

func strFormat(self Value, args []Value, kwargs []Keyword) (Value, error) {
	return formatBraces(self.(string), args, kwargs)
}

func strJoin(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("join", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	var parts []string
	err := ForEach(args[0], func(v Value) (bool, error) {
		s, ok := v.(string)
		if !ok {
			return false, Errorf(TypeError, "sequence item %d: expected str instance, %s found", len(parts), TypeName(v))
		}
		parts = append(parts, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return strings.Join(parts, self.(string)), nil
}

func strJustify(name string) method {
	return func(self Value, args []Value, kwargs []Keyword) (Value, error) {
		if err := simple(name, args, kwargs, 1, 2); err != nil {
			return nil, err
		}
		width, ok := toInt(args[0])
		if !ok {
			return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(args[0]))
		}
		fill := " "
		if len(args) == 2 {
			f, err := argString(name, args[1])
			if err != nil {
				return nil, err
			}
			if utf8.RuneCountInString(f) != 1 {
				return nil, Errorf(TypeError, "The fill character must be exactly one character long")
			}
			fill = f
		}
		s := self.(string)
		n := int(width) - utf8.RuneCountInString(s)
		if n <= 0 {
			return s, nil
		}
		if name == "ljust" {
			return s + strings.Repeat(fill, n), nil
		}
		return strings.Repeat(fill, n) + s, nil
	}
}

func strStrip(name string) method {
	return func(self Value, args []Value, kwargs []Keyword) (Value, error) {
		if err := simple(name, args, kwargs, 0, 1); err != nil {
			return nil, err
		}
		s := self.(string)
		if len(args) == 1 && args[0] != nil {
			chars, err := argString(name, args[0])
			if err != nil {
				return nil, err
			}
			switch name {
			case "lstrip":
				return strings.TrimLeft(s, chars), nil
			case "rstrip":
				return strings.TrimRight(s, chars), nil
			}
			return strings.Trim(s, chars), nil
		}
		switch name {
		case "lstrip":
			return strings.TrimLeftFunc(s, unicode.IsSpace), nil
		case "rstrip":
			return strings.TrimRightFunc(s, unicode.IsSpace), nil
		}
		return strings.TrimSpace(s), nil
	}
}

func strReplace(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("replace", args, kwargs, 2, 3); err != nil {
		return nil, err
	}
	old, err := argString("replace", args[0])
	if err != nil {
		return nil, err
	}
	repl, err := argString("replace", args[1])
	if err != nil {
		return nil, err
	}
	n := int64(-1)
	if len(args) == 3 {
		var ok bool
		if n, ok = toInt(args[2]); !ok {
			return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(args[2]))
		}
	}
	return strings.Replace(self.(string), old, repl, int(n)), nil
}

func strSplit(self Value, args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("split", kwargs, "sep", "maxsplit")
	if err != nil {
		return nil, err
	}
	if err := checkArity("split", args, 0, 2); err != nil {
		return nil, err
	}
	var sep Value
	maxsplit := int64(-1)
	if len(args) > 0 {
		sep = args[0]
	}
	if len(args) > 1 {
		kw["maxsplit"] = args[1]
	}
	if v, ok := kw["sep"]; ok {
		sep = v
	}
	if v, ok := kw["maxsplit"]; ok {
		if maxsplit, ok = toInt(v); !ok {
			return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(v))
		}
	}

	s := self.(string)
	var parts []string
	if sep == nil {
		parts = splitWhitespace(s, int(maxsplit))
	} else {
		sepStr, err := argString("split", sep)
		if err != nil {
			return nil, err
		}
		if sepStr == "" {
			return nil, Errorf(ValueError, "empty separator")
		}
		n := -1
		if maxsplit >= 0 {
			n = int(maxsplit) + 1
		}
		parts = strings.SplitN(s, sepStr, n)
	}

	items := make([]Value, len(parts))
	for i, p := range parts {
		items[i] = p
	}
	return NewList(items...), nil
}

func splitWhitespace(s string, maxsplit int) []string {
	var parts []string
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	for rest != "" {
		if maxsplit >= 0 && len(parts) == maxsplit {
			parts = append(parts, strings.TrimRightFunc(rest, unicode.IsSpace))
			break
		}
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			parts = append(parts, rest)
			break
		}
		parts = append(parts, rest[:end])
		rest = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	}
	return parts
}

func strSplitlines(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("splitlines", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	s := strings.ReplaceAll(self.(string), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	items := []Value{}
	if s == "" {
		return NewList(items...), nil
	}
	for _, line := range strings.Split(s, "\n") {
		items = append(items, line)
	}
	return NewList(items...), nil
}

func strZfill(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("zfill", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	width, ok := toInt(args[0])
	if !ok {
		return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(args[0]))
	}
	s := self.(string)
	n := int(width) - utf8.RuneCountInString(s)
	if n <= 0 {
		return s, nil
	}
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	return sign + strings.Repeat("0", n) + s, nil
}

func bytesDecode(self Value, args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("decode", kwargs, "encoding", "errors")
	if err != nil {
		return nil, err
	}
	if err := checkArity("decode", args, 0, 2); err != nil {
		return nil, err
	}
	name := "utf-8"
	if len(args) > 0 {
		name = Str(args[0])
	}
	if v, ok := kw["encoding"]; ok {
		name = Str(v)
	}
	return decodeBytes(self.(Bytes), name)
}

func listAppend(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("append", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	l := self.(*List)
	l.Items = append(l.Items, args[0])
	return nil, nil
}

func listClear(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("clear", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	self.(*List).Items = nil
	return nil, nil
}

func listCopy(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("copy", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	return NewList(append([]Value(nil), self.(*List).Items...)...), nil
}

func listCount(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("count", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	n := int64(0)
	for _, item := range self.(*List).Items {
		if Equal(item, args[0]) {
			n++
		}
	}
	return n, nil
}

func listExtend(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("extend", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	items, err := ToSlice(args[0])
	if err != nil {
		return nil, err
	}
	l := self.(*List)
	l.Items = append(l.Items, items...)
	return nil, nil
}

func listIndex(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("index", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	for i, item := range self.(*List).Items {
		if Equal(item, args[0]) {
			return int64(i), nil
		}
	}
	return nil, Errorf(ValueError, "%s is not in list", Repr(args[0]))
}

func listInsert(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("insert", args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	l := self.(*List)
	i, ok := toInt(args[0])
	if !ok {
		return nil, Errorf(TypeError, "'%s' object cannot be interpreted as an integer", TypeName(args[0]))
	}
	n := int64(len(l.Items))
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	l.Items = append(l.Items, nil)
	copy(l.Items[i+1:], l.Items[i:])
	l.Items[i] = args[1]
	return nil, nil
}

func listPop(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("pop", args, kwargs, 0, 1); err != nil {
		return nil, err
	}
	l := self.(*List)
	if len(l.Items) == 0 {
		return nil, Errorf(IndexError, "pop from empty list")
	}
	var index Value = int64(-1)
	if len(args) == 1 {
		index = args[0]
	}
	i, err := normalizeIndex(index, len(l.Items), "pop")
	if err != nil {
		return nil, err
	}
	v := l.Items[i]
	l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
	return v, nil
}

func listRemove(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("remove", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	l := self.(*List)
	for i, item := range l.Items {
		if Equal(item, args[0]) {
			l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
			return nil, nil
		}
	}
	return nil, Errorf(ValueError, "list.remove(x): x not in list")
}

func listReverse(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("reverse", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	items := self.(*List).Items
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return nil, nil
}

func listSort(self Value, args []Value, kwargs []Keyword) (Value, error) {
	kw, err := keywordArgs("sort", kwargs, "key", "reverse")
	if err != nil {
		return nil, err
	}
	if err := checkArity("sort", args, 0, 0); err != nil {
		return nil, err
	}
	return nil, sortValues(self.(*List).Items, kw["key"], Truthy(kw["reverse"]))
}

func dictClear(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("clear", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	d := self.(*Dict)
	d.entries = nil
	d.index = map[any]int{}
	return nil, nil
}

func dictCopy(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("copy", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	return self.(*Dict).Copy(), nil
}

func dictGet(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("get", args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	v, ok, err := self.(*Dict).Get(args[0])
	if err != nil {
		return nil, err
	}
	if !ok && len(args) == 2 {
		return args[1], nil
	}
	return v, nil
}

func dictItems(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("items", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	var items []Value
	self.(*Dict).Range(func(key, value Value) bool {
		items = append(items, Tuple{key, value})
		return true
	})
	return NewList(items...), nil
}

func dictKeys(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("keys", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	return NewList(self.(*Dict).Keys()...), nil
}

func dictValues(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("values", args, kwargs, 0, 0); err != nil {
		return nil, err
	}
	return NewList(self.(*Dict).Values()...), nil
}

func dictPop(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("pop", args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	d := self.(*Dict)
	v, ok, err := d.Get(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, &Exception{Type: KeyError, Args: []Value{args[0]}}
	}
	_, err = d.Delete(args[0])
	return v, err
}

func dictSetdefault(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("setdefault", args, kwargs, 1, 2); err != nil {
		return nil, err
	}
	d := self.(*Dict)
	v, ok, err := d.Get(args[0])
	if err != nil || ok {
		return v, err
	}
	var def Value
	if len(args) == 2 {
		def = args[1]
	}
	return def, d.Set(args[0], def)
}

func dictUpdate(self Value, args []Value, kwargs []Keyword) (Value, error) {
	other, err := builtinDict(args, kwargs)
	if err != nil {
		return nil, err
	}
	self.(*Dict).Update(other.(*Dict))
	return nil, nil
}

func setAdd(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("add", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	return nil, self.(*Set).Add(args[0])
}

func setDiscard(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("discard", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	_, err := self.(*Set).Remove(args[0])
	return nil, err
}

func setRemove(self Value, args []Value, kwargs []Keyword) (Value, error) {
	if err := simple("remove", args, kwargs, 1, 1); err != nil {
		return nil, err
	}
	ok, err := self.(*Set).Remove(args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &Exception{Type: KeyError, Args: []Value{args[0]}}
	}
	return nil, nil
}
