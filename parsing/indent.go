package parsing

import (
	"strings"
)

// handleIndent converts the leading whitespace of a line into an indentation change.
//
// Tabs always count as one level each. Spaces are divided by the tab width, which is
// detected from the first line indented with spaces.
func (p *Parser) handleIndent(ws string) error {
	tabs := strings.Count(ws, "\t")
	spaces := strings.Count(ws, " ")

	if tabs > 0 && spaces > 0 {
		p.warn(IndentTabSpaces, 0, Params{"tabs": tabs, "spaces": spaces})
	}

	eindent := tabs - p.indent

	if spaces > 0 {
		switch {
		case p.tabWidth > 0:
			if spaces%p.tabWidth != 0 {
				return p.errorAt(InconsistentTabWidth, 0, len(ws), Params{
					"tabs":   tabs,
					"spaces": spaces,
					"width":  p.tabWidth,
					"indent": p.indent,
				})
			}
			eindent += spaces / p.tabWidth

		case eindent == 0:
			// the spaces form exactly one new level
			p.tabWidth = spaces
			eindent = 1

		case eindent < 0:
			// fewer tabs than levels: the spaces make up the difference
			if spaces%-eindent != 0 {
				return p.invalidIndent(ws, tabs, spaces)
			}
			p.tabWidth = spaces / -eindent
			eindent = 0

		default:
			return p.invalidIndent(ws, tabs, spaces)
		}
	}

	if p.pending.has(pendingExpectedIndent) && eindent != 1 {
		return p.errorAt(ExpectedIndent, len(ws), 1, nil)
	}

	switch {
	case eindent == 0:
		p.reopen()
	case eindent == 1:
		return p.indentIn(ws)
	case eindent < 0:
		p.dedent(-eindent)
	default:
		return p.errorAt(TooDeepIndent, 0, len(ws), Params{
			"indent":     p.indent,
			"new_indent": p.indent + eindent,
		})
	}
	return nil
}

func (p *Parser) invalidIndent(ws string, tabs, spaces int) error {
	return p.errorAt(InvalidIndent, 0, len(ws), Params{
		"tabs":   tabs,
		"spaces": spaces,
		"indent": p.indent,
	})
}

// reopen continues at the same level, closing every node opened on it.
func (p *Parser) reopen() {
	p.tree.Close(p.currentOpen)
	p.currentOpen = 0
}

func (p *Parser) indentIn(ws string) error {
	if !p.tree.IsContainer(p.tree.Current()) {
		return p.errorAt(UnexpectedIndent, 0, len(ws), nil)
	}
	p.openStack = append(p.openStack, p.currentOpen)
	p.currentOpen = 0
	p.indent++
	return nil
}

// dedent leaves the given number of levels, closing the nodes opened on each of them.
func (p *Parser) dedent(times int) {
	toClose := p.currentOpen
	for i := 0; i < times; i++ {
		toClose += p.openStack[len(p.openStack)-1]
		p.openStack = p.openStack[:len(p.openStack)-1]
	}
	p.tree.Close(toClose)
	p.currentOpen = 0
	p.indent -= times
}
