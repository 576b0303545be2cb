package runtime

import (
	"fmt"
	"strings"

	"github.com/Drolfothesgnir/gohaa/script"
)

// Attr is a rendered attribute. Boolean attributes carry their own key as the value.
type Attr struct {
	Key   string
	Value string
}

// classSet keeps class names unique in insertion order.
type classSet struct {
	names []string
}

func (c *classSet) add(name string) {
	for _, n := range c.names {
		if n == name {
			return
		}
	}
	c.names = append(c.names, name)
}

func (c *classSet) remove(name string) {
	for i, n := range c.names {
		if n == name {
			c.names = append(c.names[:i], c.names[i+1:]...)
			return
		}
	}
}

// splitClasses turns a class value into names: strings are split on spaces,
// other iterables contribute their items.
func splitClasses(v script.Value) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.Fields(v), nil
	case script.Bytes:
		return strings.Fields(string(v)), nil
	}
	if !script.Truthy(v) {
		return nil, nil
	}
	items, err := script.ToSlice(v)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if s := valueString(item); s != "" {
			names = append(names, s)
		}
	}
	return names, nil
}

func valueString(v script.Value) string {
	if b, ok := v.(script.Bytes); ok {
		return string(b)
	}
	return script.Str(v)
}

func newClassSet(v script.Value) (*classSet, error) {
	names, err := splitClasses(v)
	if err != nil {
		return nil, err
	}
	c := &classSet{}
	for _, n := range names {
		c.add(n)
	}
	return c, nil
}

type attrMap struct {
	keys   []string
	values map[string]script.Value
}

func (m *attrMap) set(key string, v script.Value) {
	if m.values == nil {
		m.values = map[string]script.Value{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// PrepareForTag merges the id, classes and attribute sets of an element into its final
// name and attribute list. Later sets override earlier ones. A "class" key replaces the
// classes, "id" replaces the id (None removes it) and "_tag_name" renames the element;
// "_append_class" and "_remove_class" edit the classes. Other keys starting with "_" and
// keys whose value is False or None are dropped. An empty name becomes "div".
func PrepareForTag(name string, id script.Value, classes script.Value, sets []*script.Dict) (string, []Attr, error) {
	cls, err := newClassSet(classes)
	if err != nil {
		return "", nil, err
	}
	var attrs attrMap

	for _, set := range sets {
		if v, ok := set.GetString("class"); ok {
			if cls, err = newClassSet(v); err != nil {
				return "", nil, err
			}
		}
		if v, ok := set.GetString("id"); ok {
			id = v
		}
		if v, ok := set.GetString("_tag_name"); ok {
			name = valueString(v)
		}

		var rangeErr error
		set.Range(func(k, v script.Value) bool {
			key, ok := k.(string)
			if !ok {
				if b, isBytes := k.(script.Bytes); isBytes {
					key = string(b)
				} else {
					rangeErr = script.Errorf(script.TypeError, "attribute names must be strings, not %s", script.TypeName(k))
					return false
				}
			}
			if key == "class" || key == "id" || strings.HasPrefix(key, "_") {
				return true
			}
			if v == nil || v == false {
				return true
			}
			attrs.set(key, v)
			return true
		})
		if rangeErr != nil {
			return "", nil, rangeErr
		}

		if v, ok := set.GetString("_append_class"); ok && script.Truthy(v) {
			names, err := splitClasses(v)
			if err != nil {
				return "", nil, err
			}
			for _, n := range names {
				cls.add(n)
			}
		}
		if v, ok := set.GetString("_remove_class"); ok && script.Truthy(v) {
			names, err := splitClasses(v)
			if err != nil {
				return "", nil, err
			}
			for _, n := range names {
				cls.remove(n)
			}
		}
	}

	out := make([]Attr, 0, len(attrs.keys)+2)
	for _, key := range attrs.keys {
		v := attrs.values[key]
		if v == true {
			out = append(out, Attr{Key: key, Value: key})
			continue
		}
		out = append(out, Attr{Key: key, Value: valueString(v)})
	}
	if len(cls.names) > 0 {
		out = setAttr(out, Attr{Key: "class", Value: strings.Join(cls.names, " ")})
	}
	if script.Truthy(id) {
		out = setAttr(out, Attr{Key: "id", Value: valueString(id)})
	}
	if name == "" {
		name = "div"
	}
	return name, out, nil
}

func setAttr(attrs []Attr, attr Attr) []Attr {
	for i := range attrs {
		if attrs[i].Key == attr.Key {
			attrs[i] = attr
			return attrs
		}
	}
	return append(attrs, attr)
}

// OpenTag renders an opening tag with entity-escaped name, keys and values.
func OpenTag(name string, attrs []Attr, selfClose bool) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(Escape(name))
	for _, a := range attrs {
		fmt.Fprintf(&b, ` %s="%s"`, Escape(a.Key), Escape(a.Value))
	}
	if selfClose {
		b.WriteString(" />")
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

// CloseTag renders a closing tag.
func CloseTag(name string) string {
	return "</" + Escape(name) + ">"
}
