// Package runtime holds the helpers shared by the code generator and compiled
// renderers: escaping, character set encoding, tag assembly and the renderer
// builtins, plus the inheritance linearizer.
package runtime

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is the output character set used when none is configured.
const DefaultEncoding = "utf-8"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"'", "&apos;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape replaces the markup-significant characters of s with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

var entityPattern = regexp.MustCompile(`&([^\s;&]+);`)

// EntityDecode replaces named and numeric character references with the characters
// they stand for. Unknown references are kept as they are.
func EntityDecode(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityPattern.ReplaceAllStringFunc(s, html.UnescapeString)
}

// LookupEncoding resolves a character set name such as "utf-8" or "iso-8859-2".
func LookupEncoding(name string) (encoding.Encoding, error) {
	return htmlindex.Get(strings.TrimSpace(name))
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "utf-8", "utf8", "":
		return true
	}
	return false
}

// Encode converts s into the named character set.
func Encode(s, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return []byte(s), nil
	}
	enc, err := LookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewEncoder().Bytes([]byte(s))
}

// Decode converts b from the named character set into a string.
func Decode(b []byte, charset string) (string, error) {
	if isUTF8(charset) {
		return string(b), nil
	}
	enc, err := LookupEncoding(charset)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
