package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/Drolfothesgnir/gohaa/script"
)

// ToValue converts plain Go data, such as decoded JSON, into template values.
// Whole floats become integers so they can be used with range() and indexing.
func ToValue(v any) (script.Value, error) {
	switch v := v.(type) {
	case nil, bool, int64, string, script.Bytes:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float32:
		return ToValue(float64(v))
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), nil
		}
		return v, nil
	case []byte:
		return script.Bytes(v), nil
	case []string:
		items := make([]script.Value, len(v))
		for i, s := range v {
			items[i] = s
		}
		return script.NewList(items...), nil
	case []any:
		items := make([]script.Value, len(v))
		for i, item := range v {
			conv, err := ToValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = conv
		}
		return script.NewList(items...), nil
	case map[string]any:
		d := script.NewDict()
		for _, key := range sortedKeys(v) {
			conv, err := ToValue(v[key])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			d.SetString(key, conv)
		}
		return d, nil
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}

// Args converts positional arguments with [ToValue].
func Args(args []any) ([]script.Value, error) {
	out := make([]script.Value, len(args))
	for i, a := range args {
		v, err := ToValue(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Keywords converts keyword arguments with [ToValue], ordered by name.
func Keywords(kwargs map[string]any) ([]script.Keyword, error) {
	out := make([]script.Keyword, 0, len(kwargs))
	for _, name := range sortedKeys(kwargs) {
		v, err := ToValue(kwargs[name])
		if err != nil {
			return nil, fmt.Errorf("keyword %s: %w", name, err)
		}
		out = append(out, script.Keyword{Name: name, Value: v})
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
