package codegen

import (
	"fmt"
	"strings"

	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/script"
	"github.com/Drolfothesgnir/gohaa/structure"
)

func (g *generator) selfClosing(idx int, tag *structure.Tag) (bool, error) {
	if !voidTags[tag.Name] {
		return false, nil
	}
	if g.tree.Node(idx).ChildCount > 0 {
		return false, fmt.Errorf("codegen: %w: %s", ErrVoidTagChildren, tag.Name)
	}
	return true, nil
}

func (g *generator) openTag(idx int, tag *structure.Tag) error {
	selfClose, err := g.selfClosing(idx, tag)
	if err != nil {
		return err
	}

	if tag.IsStatic() {
		var id script.Value
		if tag.HasID {
			id = tag.ID
		}
		var sets []*script.Dict
		for _, set := range tag.Attributes {
			sets = append(sets, staticDict(set.(*structure.StaticAttributes)))
		}
		name, attrs, err := runtime.PrepareForTag(tag.Name, id, classList(tag.Classes), sets)
		if err != nil {
			return fmt.Errorf("codegen: tag %s: %w", tag.Name, err)
		}
		b, err := g.encode(runtime.OpenTag(name, attrs, selfClose))
		if err != nil {
			return err
		}
		g.w.static(b)
		if !selfClose {
			g.names.push(name)
		}
	} else {
		g.w.yield(fmt.Sprintf("%s(%s, %s, %s, %s, [%s], %s)",
			runtime.OpenTagBuiltin,
			tagNameStack,
			script.Quote(tag.Name),
			idLiteral(tag),
			classesLiteral(tag.Classes),
			setsLiteral(tag.Attributes),
			pyBool(selfClose),
		))
	}

	if !selfClose {
		g.functions.record(idx)
		g.loops.record(idx)
	}
	return nil
}

func (g *generator) closeTag(idx int, tag *structure.Tag) error {
	if voidTags[tag.Name] {
		return nil
	}

	if tag.IsStatic() {
		b, err := g.encode(runtime.CloseTag(g.names.pop()))
		if err != nil {
			return err
		}
		g.w.static(b)
	} else {
		g.w.yield(fmt.Sprintf("%s(%s)", runtime.CloseTagBuiltin, tagNameStack))
	}

	g.functions.release(idx)
	g.loops.release(idx)
	return nil
}

func staticDict(set *structure.StaticAttributes) *script.Dict {
	d := script.NewDict()
	for _, attr := range set.Items {
		if attr.Bool {
			d.SetString(attr.Key, true)
			continue
		}
		d.SetString(attr.Key, attr.Value)
	}
	return d
}

func classList(classes []string) script.Value {
	if len(classes) == 0 {
		return nil
	}
	items := make([]script.Value, len(classes))
	for i, c := range classes {
		items[i] = c
	}
	return script.NewList(items...)
}

func idLiteral(tag *structure.Tag) string {
	if !tag.HasID {
		return "None"
	}
	return script.Quote(tag.ID)
}

func classesLiteral(classes []string) string {
	if len(classes) == 0 {
		return "None"
	}
	quoted := make([]string, len(classes))
	for i, c := range classes {
		quoted[i] = script.Quote(c)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func setsLiteral(sets []structure.AttributeSet) string {
	out := make([]string, 0, len(sets))
	for _, set := range sets {
		switch s := set.(type) {
		case *structure.StaticAttributes:
			items := make([]string, len(s.Items))
			for i, attr := range s.Items {
				value := script.Quote(attr.Value)
				if attr.Bool {
					value = "True"
				}
				items[i] = script.Quote(attr.Key) + ": " + value
			}
			out = append(out, "{"+strings.Join(items, ", ")+"}")
		case *structure.DynamicAttributes:
			out = append(out, strings.TrimSpace(s.Source))
		default:
			panic(fmt.Sprintf("codegen: unexpected attribute set %T", s))
		}
	}
	return strings.Join(out, ", ")
}
