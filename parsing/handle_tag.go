package parsing

import (
	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/structure"
)

func (p *Parser) beginTag() {
	p.creatingTag = true
	p.appendNode(&structure.Tag{})
}

// endTag finishes the tag being defined on this line, if any.
func (p *Parser) endTag() {
	if p.creatingTag {
		if tag, ok := p.tree.Tag(p.tree.Current()); ok {
			tag.Attributes = dropEmptyStatic(tag.Attributes)
		}
	}
	p.creatingTag = false
	p.lastAttr = ""
}

func dropEmptyStatic(sets []structure.AttributeSet) []structure.AttributeSet {
	out := sets[:0]
	for _, set := range sets {
		if s, ok := set.(*structure.StaticAttributes); ok && len(s.Items) == 0 {
			continue
		}
		out = append(out, set)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (p *Parser) currentTag() *structure.Tag {
	tag, ok := p.tree.Tag(p.tree.Current())
	if !ok {
		panic("parsing: tag state without a tag under the cursor")
	}
	return tag
}

func (p *Parser) handleTagStart(*token) error {
	p.beginTag()
	return nil
}

func (p *Parser) handleTagName(tok *token) error {
	p.currentTag().Name = runtime.EntityDecode(tok.value)
	return nil
}

// handleShorthandStart starts a tag on "." or "#" unless one is being defined already.
func (p *Parser) handleShorthandStart(*token) error {
	if !p.creatingTag {
		p.beginTag()
	}
	return nil
}

func (p *Parser) handleClassName(tok *token) error {
	p.currentTag().AddClass(runtime.EntityDecode(tok.value))
	return nil
}

func (p *Parser) handleIDName(tok *token) error {
	tag := p.currentTag()
	if tag.HasID {
		return p.errorAt(DuplicateID, tok.col, len(tok.text), nil)
	}
	tag.ID = runtime.EntityDecode(tok.value)
	tag.HasID = true
	return nil
}

// handleStaticStart makes sure the last attribute set is static, so
// "(a)(b)" and "(a){}(b)" fill a single set.
func (p *Parser) handleStaticStart(*token) error {
	tag := p.currentTag()
	if n := len(tag.Attributes); n > 0 {
		if _, ok := tag.Attributes[n-1].(*structure.StaticAttributes); ok {
			return nil
		}
	}
	tag.Attributes = append(tag.Attributes, &structure.StaticAttributes{})
	return nil
}

func (p *Parser) lastStatic() *structure.StaticAttributes {
	tag := p.currentTag()
	return tag.Attributes[len(tag.Attributes)-1].(*structure.StaticAttributes)
}

func (p *Parser) handleStaticName(tok *token) error {
	name := runtime.EntityDecode(tok.value)
	p.lastStatic().Set(structure.Attribute{Key: name, Value: name, Bool: true})
	p.lastAttr = name
	return nil
}

func (p *Parser) handleStaticValue(tok *token) error {
	p.lastStatic().Set(structure.Attribute{
		Key:   p.lastAttr,
		Value: runtime.EntityDecode(tok.value),
	})
	p.lastAttr = ""
	return nil
}

func (p *Parser) handleDynamic(tok *token) error {
	if tok.value == "{}" {
		return nil
	}
	tag := p.currentTag()
	tag.Attributes = append(tag.Attributes, &structure.DynamicAttributes{Source: tok.value})
	return nil
}
