package script

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatSpec is a parsed format specification such as "<10.2f".
type formatSpec struct {
	fill      rune
	align     byte
	sign      byte
	zero      bool
	width     int
	comma     bool
	precision int
	verb      byte
}

func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' ', precision: -1}
	s := spec

	if r, size := utf8.DecodeRuneInString(s); size > 0 && size < len(s) && strings.IndexByte("<>^=", s[size]) >= 0 {
		fs.fill, fs.align = r, s[size]
		s = s[size+1:]
	} else if s != "" && strings.IndexByte("<>^=", s[0]) >= 0 {
		fs.align = s[0]
		s = s[1:]
	}
	if s != "" && strings.IndexByte("+- ", s[0]) >= 0 {
		fs.sign = s[0]
		s = s[1:]
	}
	if s != "" && s[0] == '0' {
		fs.zero = true
		s = s[1:]
	}
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i > 0 {
		fs.width, _ = strconv.Atoi(s[:i])
		s = s[i:]
	}
	if s != "" && s[0] == ',' {
		fs.comma = true
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		i = 1
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == 1 {
			return fs, Errorf(ValueError, "Format specifier missing precision")
		}
		fs.precision, _ = strconv.Atoi(s[1:i])
		s = s[i:]
	}
	if len(s) > 1 {
		return fs, Errorf(ValueError, "Invalid format specifier '%s'", spec)
	}
	if s != "" {
		fs.verb = s[0]
	}
	return fs, nil
}

// formatValue applies a format specification to v, as format(v, spec) does.
func formatValue(v Value, spec string) (string, error) {
	if spec == "" {
		return Str(v), nil
	}
	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	var body string
	numeric := false
	switch fs.verb {
	case 0, 's':
		if _, isStr := v.(string); !isStr && fs.verb == 0 && isNumber(v) {
			numeric = true
			if f, ok := v.(float64); ok && fs.precision >= 0 {
				body = strconv.FormatFloat(f, 'g', fs.precision, 64)
			} else {
				body = Str(v)
			}
			break
		}
		if fs.verb == 's' && isNumber(v) {
			return "", Errorf(ValueError, "Unknown format code 's' for object of type '%s'", TypeName(v))
		}
		body = Str(v)
		if fs.precision >= 0 {
			runes := []rune(body)
			if len(runes) > fs.precision {
				body = string(runes[:fs.precision])
			}
		}
	case 'd', 'x', 'X', 'o', 'b', 'c':
		n, ok := toInt(v)
		if !ok {
			return "", Errorf(ValueError, "Unknown format code '%c' for object of type '%s'", fs.verb, TypeName(v))
		}
		numeric = true
		switch fs.verb {
		case 'd':
			body = strconv.FormatInt(n, 10)
		case 'x':
			body = strconv.FormatInt(n, 16)
		case 'X':
			body = strings.ToUpper(strconv.FormatInt(n, 16))
		case 'o':
			body = strconv.FormatInt(n, 8)
		case 'b':
			body = strconv.FormatInt(n, 2)
		case 'c':
			body, numeric = string(rune(n)), false
		}
	case 'f', 'F', 'e', 'E', 'g', 'G', '%':
		f, ok := toFloat(v)
		if !ok {
			return "", Errorf(ValueError, "Unknown format code '%c' for object of type '%s'", fs.verb, TypeName(v))
		}
		numeric = true
		prec := fs.precision
		if prec < 0 {
			prec = 6
		}
		verb := fs.verb
		if verb == '%' {
			f *= 100
			verb = 'f'
		}
		switch {
		case math.IsInf(f, 0) || math.IsNaN(f):
			body = formatFloat(f)
		default:
			body = strconv.FormatFloat(f, lowerVerb(verb), prec, 64)
		}
		if verb >= 'A' && verb <= 'Z' {
			body = strings.ToUpper(body)
		}
		if fs.verb == '%' {
			body += "%"
		}
	default:
		return "", Errorf(ValueError, "Unknown format code '%c' for object of type '%s'", fs.verb, TypeName(v))
	}

	sign := ""
	if numeric {
		if strings.HasPrefix(body, "-") {
			sign, body = "-", body[1:]
		} else if fs.sign == '+' || fs.sign == ' ' {
			sign = string(fs.sign)
		}
		if fs.comma {
			body = groupThousands(body)
		}
	}
	return pad(sign, body, fs, numeric), nil
}

func lowerVerb(verb byte) byte {
	if verb >= 'A' && verb <= 'Z' {
		return verb + 'a' - 'A'
	}
	return verb
}

func groupThousands(body string) string {
	intPart, frac := body, ""
	if i := strings.IndexAny(body, ".eE%"); i >= 0 {
		intPart, frac = body[:i], body[i:]
	}
	if len(intPart) <= 3 {
		return body
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}

func pad(sign, body string, fs formatSpec, numeric bool) string {
	length := utf8.RuneCountInString(sign) + utf8.RuneCountInString(body)
	if length >= fs.width {
		return sign + body
	}
	n := fs.width - length

	align := fs.align
	fill := fs.fill
	if align == 0 {
		switch {
		case fs.zero && numeric:
			align, fill = '=', '0'
		case numeric:
			align = '>'
		default:
			align = '<'
		}
	}
	padding := func(k int) string { return strings.Repeat(string(fill), k) }

	switch align {
	case '>':
		return padding(n) + sign + body
	case '^':
		return padding(n/2) + sign + body + padding(n-n/2)
	case '=':
		return sign + padding(n) + body
	}
	return sign + body + padding(n)
}

// formatPercent implements printf-style "format % args".
func formatPercent(format string, arg Value) (Value, error) {
	var args []Value
	var mapping *Dict
	switch a := arg.(type) {
	case Tuple:
		args = a
	case *Dict:
		mapping = a
		args = []Value{a}
	default:
		args = []Value{a}
	}

	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return nil, Errorf(ValueError, "incomplete format")
		}
		if format[i] == '%' {
			b.WriteByte('%')
			continue
		}

		var value Value
		haveValue := false
		if format[i] == '(' {
			end := strings.IndexByte(format[i:], ')')
			if end < 0 {
				return nil, Errorf(ValueError, "incomplete format key")
			}
			if mapping == nil {
				return nil, Errorf(TypeError, "format requires a mapping")
			}
			key := format[i+1 : i+end]
			v, ok, err := mapping.Get(key)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &Exception{Type: KeyError, Args: []Value{key}}
			}
			value, haveValue = v, true
			i += end + 1
		}

		start := i
		for i < len(format) && strings.IndexByte("-+ #0123456789.", format[i]) >= 0 {
			i++
		}
		if i >= len(format) {
			return nil, Errorf(ValueError, "incomplete format")
		}
		flags := format[start:i]
		verb := format[i]

		if !haveValue {
			if next >= len(args) {
				return nil, Errorf(TypeError, "not enough arguments for format string")
			}
			value = args[next]
			next++
		}

		spec := percentToSpec(flags)
		var (
			s   string
			err error
		)
		switch verb {
		case 's':
			s, err = formatValue(Str(value), spec)
		case 'r', 'a':
			s, err = formatValue(Repr(value), spec)
		case 'd', 'i', 'u':
			n, ok := toInt(value)
			if !ok {
				f, isFloat := value.(float64)
				if !isFloat {
					return nil, Errorf(TypeError, "%%%c format: a number is required, not %s", verb, TypeName(value))
				}
				n = int64(f)
			}
			s, err = formatValue(n, spec+"d")
		case 'x', 'X', 'o', 'f', 'F', 'e', 'E', 'g', 'G', 'c':
			s, err = formatValue(value, spec+string(verb))
		default:
			return nil, Errorf(ValueError, "unsupported format character '%c'", verb)
		}
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}

	if mapping == nil && next < len(args) {
		return nil, Errorf(TypeError, "not all arguments converted during string formatting")
	}
	return b.String(), nil
}

// percentToSpec translates printf flags into a format specification.
func percentToSpec(flags string) string {
	var spec strings.Builder
	rest := flags
	left := false
	for rest != "" && strings.IndexByte("-+ #0", rest[0]) >= 0 {
		switch rest[0] {
		case '-':
			left = true
		case '+', ' ':
			spec.WriteByte(rest[0])
		case '0':
			if !left {
				spec.WriteByte('0')
			}
		}
		rest = rest[1:]
	}
	if left {
		return "<" + spec.String() + rest
	}
	return spec.String() + rest
}

// formatBraces implements str.format.
func formatBraces(format string, args []Value, kwargs []Keyword) (string, error) {
	var b strings.Builder
	auto := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '}' {
			if i+1 < len(format) && format[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", Errorf(ValueError, "Single '}' encountered in format string")
		}
		if c != '{' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '{' {
			b.WriteByte('{')
			i++
			continue
		}

		end := strings.IndexByte(format[i:], '}')
		if end < 0 {
			return "", Errorf(ValueError, "expected '}' before end of string")
		}
		field := format[i+1 : i+end]
		i += end

		spec := ""
		if k := strings.IndexByte(field, ':'); k >= 0 {
			field, spec = field[:k], field[k+1:]
		}
		conversion := byte(0)
		if k := strings.IndexByte(field, '!'); k >= 0 {
			if k+2 != len(field) {
				return "", Errorf(ValueError, "expected ':' after conversion specifier")
			}
			conversion = field[k+1]
			field = field[:k]
		}

		value, err := lookupField(field, &auto, args, kwargs)
		if err != nil {
			return "", err
		}
		switch conversion {
		case 'r', 'a':
			value = Repr(value)
		case 's':
			value = Str(value)
		case 0:
		default:
			return "", Errorf(ValueError, "Unknown conversion specifier %c", conversion)
		}

		s, err := formatValue(value, spec)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func lookupField(field string, auto *int, args []Value, kwargs []Keyword) (Value, error) {
	name, rest := field, ""
	if k := strings.IndexAny(field, ".["); k >= 0 {
		name, rest = field[:k], field[k:]
	}

	var value Value
	switch n, err := strconv.Atoi(name); {
	case name == "":
		if *auto >= len(args) {
			return nil, Errorf(IndexError, "Replacement index %d out of range for positional args tuple", *auto)
		}
		value = args[*auto]
		*auto++
	case err == nil:
		if n >= len(args) {
			return nil, Errorf(IndexError, "Replacement index %d out of range for positional args tuple", n)
		}
		value = args[n]
	default:
		found := false
		for _, kw := range kwargs {
			if kw.Name == name {
				value, found = kw.Value, true
			}
		}
		if !found {
			return nil, &Exception{Type: KeyError, Args: []Value{name}}
		}
	}

	for rest != "" {
		if rest[0] == '.' {
			k := strings.IndexAny(rest[1:], ".[")
			attr := rest[1:]
			if k >= 0 {
				attr, rest = rest[1:k+1], rest[k+1:]
			} else {
				rest = ""
			}
			v, err := GetAttr(value, attr)
			if err != nil {
				return nil, err
			}
			value = v
			continue
		}
		k := strings.IndexByte(rest, ']')
		if k < 0 {
			return nil, Errorf(ValueError, "Missing ']' in format string")
		}
		key := rest[1:k]
		rest = rest[k+1:]
		var index Value = key
		if n, err := strconv.ParseInt(key, 10, 64); err == nil {
			index = n
		}
		v, err := GetItem(value, index)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return value, nil
}
