package parsing

import (
	"fmt"
	"strings"

	"github.com/Drolfothesgnir/gohaa/runtime"
	"github.com/Drolfothesgnir/gohaa/structure"
)

type constant struct {
	value  string
	escape bool
}

var constants = map[string]constant{
	"sp":    {value: " ", escape: true},
	"html5": {value: "<!DOCTYPE html>", escape: false},
}

func (p *Parser) handleIndentToken(tok *token) error {
	return p.handleIndent(tok.text)
}

func (p *Parser) handleLineEnd(*token) error {
	p.endTag()
	p.pending.carry(pendingExpectedIndent)
	return nil
}

func (p *Parser) handleContinueInline(*token) error {
	p.endTag()
	return nil
}

func (p *Parser) handleRawToggle(*token) error {
	p.pending.set(pendingRaw, "")
	return nil
}

func (p *Parser) escapeNext() bool {
	return !p.pending.has(pendingRaw)
}

func (p *Parser) handleText(tok *token) error {
	p.insertText(tok.value, p.escapeNext())
	return nil
}

func (p *Parser) handleConstant(tok *token) error {
	c, ok := constants[tok.value]
	if !ok {
		e := p.errorAt(AmbiguousToken, tok.col, len(tok.text), nil)
		e.Detail = fmt.Sprintf("unknown constant %q", tok.value)
		return e
	}
	p.insertText(c.value, c.escape)
	return nil
}

// insertText appends text under the cursor. Consecutive text of the same escape
// mode is joined into one node with a single space.
func (p *Parser) insertText(text string, escape bool) {
	if escape {
		// escaped again at generation
		text = runtime.EntityDecode(text)
	}

	cur := p.tree.Current()
	if cur == structure.RootIndex || p.tree.IsContainer(cur) {
		if last := p.tree.LastChild(cur); last >= 0 {
			if prev, ok := p.tree.Text(last); ok && prev.Escape == escape {
				prev.Content = strings.TrimRight(prev.Content, " \t") + " " + strings.TrimLeft(text, " \t")
				return
			}
		}
	}
	p.appendNode(&structure.Text{Content: text, Escape: escape})
}

func (p *Parser) handleMisplacedHead(tok *token) error {
	if strings.HasPrefix(p.line[p.pos:], "def") && p.tree.Scope(p.tree.Current()) != structure.RootIndex {
		return p.errorAt(NestedPartial, tok.col, 1, nil)
	}
	return p.errorAt(MisplacedHeadStatement, tok.col, 1, nil)
}
