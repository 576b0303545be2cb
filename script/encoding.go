package script

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// LookupEncoding resolves a character set name such as "utf-8" or "iso-8859-2".
func LookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, Errorf(LookupError, "unknown encoding: %s", name)
	}
	return enc, nil
}

func isUTF8Name(name string) bool {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

func encodeString(s, name string) (Value, error) {
	if isUTF8Name(name) {
		return Bytes(s), nil
	}
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, Errorf(UnicodeError, "'%s' codec can't encode string: %v", name, err)
	}
	return Bytes(out), nil
}

func decodeBytes(b Bytes, name string) (Value, error) {
	if isUTF8Name(name) {
		if !utf8.ValidString(string(b)) {
			return nil, Errorf(UnicodeError, "'utf-8' codec can't decode bytes: invalid start byte")
		}
		return string(b), nil
	}
	enc, err := LookupEncoding(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewDecoder().String(string(b))
	if err != nil {
		return nil, Errorf(UnicodeError, "'%s' codec can't decode bytes: %v", name, err)
	}
	return out, nil
}
