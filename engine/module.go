package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/Drolfothesgnir/gohaa/codegen"
	"github.com/Drolfothesgnir/gohaa/loader"
	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/script"
)

// Module is a single compiled template: the executed renderer source together with
// its partials and declared parents. Modules are immutable once built.
type Module struct {
	Name    string
	Origin  string
	Version time.Time

	// Source is the generated renderer source.
	Source   string
	Encoding string
	Warnings []string

	// Parents are the root names of the inherited templates, in declaration order.
	Parents []string

	globals  *script.Namespace
	partials *script.Dict
	body     script.Value
}

func (m *Module) String() string {
	return m.Name
}

// newModule executes renderer source generated for the template called name.
func newModule(name, origin, source, encoding string) (*Module, error) {
	code, err := script.ParseModule(source)
	if err != nil {
		return nil, fmt.Errorf("renderer of %s: %w", name, err)
	}

	globals := script.NewNamespace(runtime.Builtins(encoding))
	if err := script.Exec(code, globals); err != nil {
		return nil, fmt.Errorf("renderer of %s: %w", name, err)
	}

	m := &Module{
		Name:     name,
		Origin:   origin,
		Source:   source,
		Encoding: encoding,
		globals:  globals,
	}

	v, ok := globals.Get(codegen.PartialsVar)
	if !ok {
		return nil, fmt.Errorf("renderer of %s: missing %s", name, codegen.PartialsVar)
	}
	if m.partials, ok = v.(*script.Dict); !ok {
		return nil, fmt.Errorf("renderer of %s: %s is a %s", name, codegen.PartialsVar, script.TypeName(v))
	}
	m.body, _ = globals.Get(codegen.BodyFn)

	if m.Parents, err = m.parents(); err != nil {
		return nil, fmt.Errorf("renderer of %s: %w", name, err)
	}
	return m, nil
}

func (m *Module) parents() ([]string, error) {
	fn, ok := m.globals.Get(codegen.InheritanceFn)
	if !ok {
		return nil, nil
	}
	v, err := script.Call(fn, nil, nil)
	if err != nil {
		return nil, err
	}
	items, err := script.ToSlice(v)
	if err != nil {
		return nil, err
	}

	dir := loader.Dir(m.Name)
	parents := make([]string, 0, len(items))
	for _, item := range items {
		ref, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("inherited template name must be a string, not %s", script.TypeName(item))
		}
		name, err := loader.Resolve(ref, dir)
		if err != nil {
			return nil, err
		}
		parents = append(parents, name)
	}
	return parents, nil
}

// attr returns a public module variable such as template_name.
func (m *Module) attr(name string) (script.Value, bool) {
	if strings.HasPrefix(name, "_") {
		return nil, false
	}
	return m.globals.Get(name)
}

// Partial returns the partial defined in this module under name.
func (m *Module) Partial(name string) (script.Value, bool) {
	return m.partials.GetString(name)
}

// Partials returns the names of the partials defined in this module.
func (m *Module) Partials() []string {
	var names []string
	m.partials.Range(func(key, _ script.Value) bool {
		if s, ok := key.(string); ok {
			names = append(names, s)
		}
		return true
	})
	return names
}

// HasBody reports whether the module renders anything outside partials.
func (m *Module) HasBody() bool {
	return m.body != nil
}
