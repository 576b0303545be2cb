package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/script"
	"github.com/Drolfothesgnir/gohaa/structure"
)

// ErrVoidTagChildren is returned for a void element that owns a body.
var ErrVoidTagChildren = errors.New("void tag cannot have children")

type generator struct {
	tree *structure.Tree
	opts Options
	w    *writer

	// names holds static tag names. The dynamic path keeps its own stack at render time.
	names     nameStack
	functions frameStack
	loops     frameStack

	lastWasText bool
}

// Generate produces renderer source for tree.
func Generate(tree *structure.Tree, opts Options) (string, error) {
	opts = opts.withDefaults()
	if _, err := runtime.LookupEncoding(opts.Encoding); err != nil {
		return "", err
	}

	g := &generator{
		tree: tree,
		opts: opts,
		w:    newWriter(opts),
	}
	if err := g.module(); err != nil {
		return "", err
	}
	return g.w.String(), nil
}

func (g *generator) module() error {
	path := "None"
	if g.opts.TemplatePath != "" {
		path = script.Quote(g.opts.TemplatePath)
	}
	g.w.line(EncodingVar + " = " + script.Quote(g.opts.Encoding))
	g.w.line(NameVar + " = " + script.Quote(g.opts.TemplateName))
	g.w.line(PathVar + " = " + path)
	g.w.line(PartialsVar + " = {}")

	g.w.line("def " + InheritanceFn + "():")
	g.w.indentIn()
	parents := "()"
	for _, decl := range g.tree.Inheritance {
		parents += " + (" + decl + ",)"
	}
	g.w.line("return " + parents)
	g.w.indentOut()

	for _, idx := range g.tree.Partials {
		p := g.tree.Data(idx).(*structure.Partial)
		params := selfParam + ", " + parentParam
		if strings.TrimSpace(p.Params) != "" {
			params += ", " + p.Params
		}
		if err := g.function(idx, fmt.Sprintf("def %s(%s):", p.Name, params)); err != nil {
			return err
		}
		g.w.line(fmt.Sprintf("%s[%s] = %s", PartialsVar, script.Quote(p.Name), p.Name))
		g.w.line("del " + p.Name)
	}

	if g.tree.Node(structure.RootIndex).ChildCount == 0 {
		return nil
	}
	return g.function(structure.RootIndex,
		fmt.Sprintf("def %s(%s, %s, %s):", BodyFn, selfParam, parentParam, bodyArgsParams))
}

// function emits a generator function holding the children of the scope at idx.
func (g *generator) function(idx int, header string) error {
	g.w.line(header)
	g.w.indentIn()
	g.w.yielded = false
	g.w.line(tagNameStack + " = []")

	g.functions.push()
	for _, c := range g.tree.Children(idx) {
		if err := g.node(c); err != nil {
			return err
		}
	}
	g.functions.pop()

	g.w.flush()
	if !g.w.yielded {
		g.w.ignore = -1
		g.w.line("if False:")
		g.w.indentIn()
		g.w.line("yield")
		g.w.indentOut()
	}
	g.w.indentOut()
	g.lastWasText = false
	return nil
}

func (g *generator) node(idx int) error {
	if err := g.open(idx); err != nil {
		return err
	}
	for _, c := range g.tree.Children(idx) {
		if err := g.node(c); err != nil {
			return err
		}
	}
	return g.close(idx)
}

func (g *generator) open(idx int) error {
	var err error
	switch d := g.tree.Data(idx).(type) {
	case *structure.Tag:
		err = g.openTag(idx, d)
	case *structure.Text:
		err = g.text(d)
	case *structure.Expression:
		g.w.yield(fmt.Sprintf("%s((%s), %s, %s)",
			runtime.EncodeBuiltin, d.Content, pyBool(d.Escape), script.Quote(g.opts.Encoding)))
	case *structure.SimpleStatement:
		err = g.simpleStatement(d)
	case *structure.CompoundStatement:
		g.w.line(d.Content)
		g.w.indentIn()
		if d.Keyword == "for" || d.Keyword == "while" {
			g.loops.push()
		}
	case *structure.Partial, *structure.Root:
		panic("codegen: scope nested in a body")
	default:
		panic(fmt.Sprintf("codegen: unexpected node data %T", d))
	}
	_, g.lastWasText = g.tree.Data(idx).(*structure.Text)
	return err
}

func (g *generator) close(idx int) error {
	var err error
	switch d := g.tree.Data(idx).(type) {
	case *structure.Tag:
		err = g.closeTag(idx, d)
	case *structure.Text, *structure.Expression, *structure.SimpleStatement:
	case *structure.CompoundStatement:
		if d.Keyword == "for" || d.Keyword == "while" {
			g.loops.pop()
		}
		g.w.flush()
		if g.tree.Node(idx).ChildCount == 0 {
			g.w.emit("pass")
		}
		g.w.indentOut()
	case *structure.Partial, *structure.Root:
		panic("codegen: scope nested in a body")
	default:
		panic(fmt.Sprintf("codegen: unexpected node data %T", d))
	}
	_, g.lastWasText = g.tree.Data(idx).(*structure.Text)
	return err
}

func (g *generator) encode(s string) ([]byte, error) {
	b, err := runtime.Encode(s, g.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	return b, nil
}

func (g *generator) text(t *structure.Text) error {
	if g.lastWasText {
		g.w.static([]byte(" "))
	}
	s := t.Content
	if t.Escape {
		s = runtime.Escape(s)
	}
	b, err := g.encode(s)
	if err != nil {
		return err
	}
	g.w.static(b)
	return nil
}

func (g *generator) simpleStatement(s *structure.SimpleStatement) error {
	var err error
	jump := true
	switch s.Keyword {
	case "return":
		err = g.unwind(g.functions.top())
	case "break", "continue":
		err = g.unwind(g.loops.top())
	default:
		jump = false
	}
	if err != nil {
		return err
	}
	g.w.line(s.Content)
	if s.Keyword == "yield" {
		g.w.yielded = true
	}
	if jump {
		g.w.suppress()
	}
	return nil
}

// unwind emits the closing markup of every node recorded in f, innermost first,
// leaving the generator state as it was.
func (g *generator) unwind(f *frame) error {
	if f == nil || len(f.nodes) == 0 {
		return nil
	}
	nodes := append([]int(nil), f.nodes...)
	restore := checkpointAll(&g.names, &g.functions, &g.loops)
	defer restore()

	for i := len(nodes) - 1; i >= 0; i-- {
		idx := nodes[i]
		if err := g.closeTag(idx, g.tree.Data(idx).(*structure.Tag)); err != nil {
			return fmt.Errorf("closing tags for a jump: %w", err)
		}
	}
	return nil
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
