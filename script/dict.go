package script

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// hashKey maps a hashable value to a comparable Go key.
// Values that compare equal (1, 1.0 and True) share a key.
func hashKey(v Value) (any, error) {
	switch v := v.(type) {
	case nil, string, Bytes:
		return v, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case int64:
		return v, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<63 {
			return int64(v), nil
		}
		return v, nil
	case Tuple:
		var b strings.Builder
		b.WriteString("(")
		for _, item := range v {
			key, err := hashKey(item)
			if err != nil {
				return nil, err
			}
			b.WriteString(keyString(key))
			b.WriteString(",")
		}
		return tupleKey(b.String()), nil
	case *List, *Dict, *Set:
		return nil, Errorf(TypeError, "unhashable type: '%s'", TypeName(v))
	}
	return v, nil
}

type tupleKey string

// keyString encodes a hash key so that distinct keys never collide inside a tuple key.
func keyString(key any) string {
	switch k := key.(type) {
	case nil:
		return "N"
	case int64:
		return "i" + strconv.FormatInt(k, 10)
	case float64:
		return "f" + strconv.FormatFloat(k, 'g', -1, 64)
	case string:
		return "s" + strconv.Quote(k)
	case Bytes:
		return "b" + strconv.Quote(string(k))
	case tupleKey:
		return "t" + string(k) + ")"
	}
	rv := reflect.ValueOf(key)
	if rv.Kind() == reflect.Pointer {
		return "p" + strconv.FormatUint(uint64(rv.Pointer()), 16)
	}
	return "v" + strconv.Quote(Repr(key))
}

type dictEntry struct {
	key   Value
	value Value
}

// Dict is an insertion-ordered mapping.
type Dict struct {
	entries []dictEntry
	index   map[any]int
}

// NewDict creates an empty dict.
func NewDict() *Dict {
	return &Dict{index: map[any]int{}}
}

// Len returns the number of items.
func (d *Dict) Len() int {
	return len(d.entries)
}

// Get looks up key.
func (d *Dict) Get(key Value) (Value, bool, error) {
	k, err := hashKey(key)
	if err != nil {
		return nil, false, err
	}
	i, ok := d.index[k]
	if !ok {
		return nil, false, nil
	}
	return d.entries[i].value, true, nil
}

// GetString looks up a string key.
func (d *Dict) GetString(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].value, true
}

// Set stores value under key, keeping the original insertion position of an existing key.
func (d *Dict) Set(key, value Value) error {
	k, err := hashKey(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[k]; ok {
		d.entries[i].value = value
		return nil
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, dictEntry{key: key, value: value})
	return nil
}

// SetString stores value under a string key.
func (d *Dict) SetString(key string, value Value) {
	_ = d.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (d *Dict) Delete(key Value) (bool, error) {
	k, err := hashKey(key)
	if err != nil {
		return false, err
	}
	i, ok := d.index[k]
	if !ok {
		return false, nil
	}
	delete(d.index, k)
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	for j := i; j < len(d.entries); j++ {
		jk, _ := hashKey(d.entries[j].key)
		d.index[jk] = j
	}
	return true, nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	keys := make([]Value, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

// Values returns the values in insertion order.
func (d *Dict) Values() []Value {
	values := make([]Value, len(d.entries))
	for i, e := range d.entries {
		values[i] = e.value
	}
	return values
}

// Range calls fn for every item in insertion order until fn returns false.
func (d *Dict) Range(fn func(key, value Value) bool) {
	for _, e := range d.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Copy returns a shallow copy.
func (d *Dict) Copy() *Dict {
	c := &Dict{
		entries: append([]dictEntry(nil), d.entries...),
		index:   make(map[any]int, len(d.index)),
	}
	for k, v := range d.index {
		c.index[k] = v
	}
	return c
}

// Update merges other into d.
func (d *Dict) Update(other *Dict) {
	for _, e := range other.entries {
		_ = d.Set(e.key, e.value)
	}
}

// Set is an insertion-ordered collection of unique hashable values.
type Set struct {
	d *Dict
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{d: NewDict()}
}

func (s *Set) Len() int {
	return s.d.Len()
}

// Add inserts v.
func (s *Set) Add(v Value) error {
	return s.d.Set(v, nil)
}

// Contains reports membership of v.
func (s *Set) Contains(v Value) (bool, error) {
	_, ok, err := s.d.Get(v)
	return ok, err
}

// Remove deletes v and reports whether it was present.
func (s *Set) Remove(v Value) (bool, error) {
	return s.d.Delete(v)
}

// Items returns the members in insertion order.
func (s *Set) Items() []Value {
	return s.d.Keys()
}
