package script

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// unquoteLiteral decodes the source text of a string or bytes literal.
func unquoteLiteral(text string) (Value, error) {
	prefixEnd := strings.IndexAny(text, `'"`)
	if prefixEnd < 0 {
		return nil, errors.New("invalid string literal")
	}
	prefix := strings.ToLower(text[:prefixEnd])
	raw := strings.ContainsRune(prefix, 'r')
	isBytes := strings.ContainsRune(prefix, 'b')
	if strings.ContainsRune(prefix, 'f') {
		return nil, errors.New("f-strings are not supported")
	}

	body := text[prefixEnd:]
	q := body[:1]
	if strings.HasPrefix(body, q+q+q) && len(body) >= 6 {
		q = q + q + q
	}
	if len(body) < 2*len(q) || !strings.HasSuffix(body, q) {
		return nil, errors.New("EOL while scanning string literal")
	}
	body = body[len(q) : len(body)-len(q)]

	if raw {
		if isBytes {
			if !isASCII(body) {
				return nil, errors.New("bytes can only contain ASCII literal characters")
			}
			return Bytes(body), nil
		}
		return body, nil
	}

	decoded, err := unescape(body, isBytes)
	if err != nil {
		return nil, err
	}
	if isBytes {
		return Bytes(decoded), nil
	}
	return decoded, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// unescape processes backslash escapes. In bytes mode \x escapes produce raw bytes
// and unicode escapes are left untouched.
func unescape(s string, isBytes bool) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		if isBytes && !isASCII(s) {
			return "", errors.New("bytes can only contain ASCII literal characters")
		}
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			if isBytes && c >= utf8.RuneSelf {
				return "", errors.New("bytes can only contain ASCII literal characters")
			}
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			b.WriteByte(c)
			break
		}

		e := s[i+1]
		i += 2
		switch e {
		case '\n':
		case '\\', '\'', '"':
			b.WriteByte(e)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i - 1
			end := j
			for end < len(s) && end < j+3 && s[end] >= '0' && s[end] <= '7' {
				end++
			}
			n, _ := strconv.ParseUint(s[j:end], 8, 32)
			i = end
			writeCode(&b, rune(n), isBytes)
		case 'x':
			n, err := hexEscape(s, i, 2, e)
			if err != nil {
				return "", err
			}
			i += 2
			writeCode(&b, rune(n), isBytes)
		case 'u', 'U':
			if isBytes {
				b.WriteByte('\\')
				b.WriteByte(e)
				continue
			}
			width := 4
			if e == 'U' {
				width = 8
			}
			n, err := hexEscape(s, i, width, e)
			if err != nil {
				return "", err
			}
			if n > utf8.MaxRune {
				return "", errors.New("illegal Unicode character")
			}
			i += width
			b.WriteRune(rune(n))
		case 'N':
			if isBytes {
				b.WriteString(`\N`)
				continue
			}
			return "", errors.New(`named unicode escapes (\N{...}) are not supported`)
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}

func hexEscape(s string, i, width int, kind byte) (uint64, error) {
	if i+width > len(s) {
		return 0, truncatedEscape(kind)
	}
	n, err := strconv.ParseUint(s[i:i+width], 16, 32)
	if err != nil {
		return 0, truncatedEscape(kind)
	}
	return n, nil
}

func truncatedEscape(kind byte) error {
	return errors.New(`truncated \` + string(kind) + ` escape`)
}

func writeCode(b *strings.Builder, code rune, isBytes bool) {
	if isBytes {
		b.WriteByte(byte(code))
		return
	}
	b.WriteRune(code)
}
