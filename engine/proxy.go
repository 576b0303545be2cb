package engine

import (
	"github.com/Drolfothesgnir/gohaa/script"
)

// instance is the "self" of a rendering: attribute lookups walk the whole
// linearization, starting with the rendered template.
type instance struct {
	tmpl *Template
}

func (in *instance) GetAttr(name string) (script.Value, error) {
	return in.lookup(0, name)
}

func (in *instance) String() string {
	return "<instance " + in.tmpl.Name() + ">"
}

// lookup searches modules of the linearization from position pos on. Module variables
// win over partials of the same module; partials are bound to the instance and to
// the parent following the module defining them.
func (in *instance) lookup(pos int, name string) (script.Value, error) {
	chain := in.tmpl.chain
	for i := pos; i < len(chain); i++ {
		m := chain[i]
		if v, ok := m.attr(name); ok {
			return v, nil
		}
		if fn, ok := m.Partial(name); ok {
			return &boundPartial{name: name, self: in, parent: in.parentOf(i), fn: fn}, nil
		}
	}
	return nil, script.Errorf(script.AttributeError, "template %s has no attribute '%s'", in.tmpl.Name(), name)
}

// parentOf returns the parent proxy of the module at position pos, or None for the last one.
func (in *instance) parentOf(pos int) script.Value {
	if pos+1 >= len(in.tmpl.chain) {
		return nil
	}
	return &parentProxy{self: in, pos: pos + 1}
}

// body returns the body of the first module from pos on defining one, bound like a partial.
func (in *instance) body(pos int) (*boundPartial, bool) {
	chain := in.tmpl.chain
	for i := pos; i < len(chain); i++ {
		if chain[i].body != nil {
			return &boundPartial{name: "__body__", self: in, parent: in.parentOf(i), fn: chain[i].body}, true
		}
	}
	return nil, false
}

// parentProxy is the "parent" of a partial: it looks up names in the modules following
// the one defining the partial. Calling it renders the next body in the chain.
type parentProxy struct {
	self *instance
	pos  int
}

func (p *parentProxy) GetAttr(name string) (script.Value, error) {
	return p.self.lookup(p.pos, name)
}

func (p *parentProxy) Call(args []script.Value, kwargs []script.Keyword) (script.Value, error) {
	b, ok := p.self.body(p.pos)
	if !ok {
		return nil, nil
	}
	return b.Call(args, kwargs)
}

func (p *parentProxy) String() string {
	return "<parent " + p.self.tmpl.chain[p.pos].Name + ">"
}

// boundPartial is a partial with self and parent filled in.
type boundPartial struct {
	name   string
	self   *instance
	parent script.Value
	fn     script.Value
}

func (b *boundPartial) Call(args []script.Value, kwargs []script.Keyword) (script.Value, error) {
	full := make([]script.Value, 0, len(args)+2)
	full = append(full, b.self, b.parent)
	full = append(full, args...)
	return script.Call(b.fn, full, kwargs)
}

func (b *boundPartial) GetAttr(name string) (script.Value, error) {
	if name == "__name__" {
		return b.name, nil
	}
	return nil, script.Errorf(script.AttributeError, "'partial' object has no attribute '%s'", name)
}
