package parsing

// handleHeadStart treats a head statement as a line at indentation level 0.
func (p *Parser) handleHeadStart(*token) error {
	return p.handleIndent("")
}

func (p *Parser) handleInherit(tok *token) error {
	p.tree.Inheritance = append(p.tree.Inheritance, tok.fragments...)
	return nil
}

func (p *Parser) handlePartialName(tok *token) error {
	p.pending.set(pendingPartialName, tok.value)
	return nil
}

func (p *Parser) handlePartialParams(tok *token) error {
	p.pending.set(pendingPartialParams, tok.value)
	p.pending.carry(pendingPartialName)
	return nil
}

func (p *Parser) handlePartialOpen(*token) error {
	name, _ := p.pending.get(pendingPartialName)
	params, _ := p.pending.get(pendingPartialParams)

	if _, err := p.tree.OpenPartial(name, params); err != nil {
		return p.errorAt(DuplicatePartial, 0, len(p.line), Params{"name": name})
	}
	p.currentOpen++
	return nil
}

// handlePartialNoBody closes a partial declared without a colon.
func (p *Parser) handlePartialNoBody(*token) error {
	p.tree.Close(1)
	p.currentOpen--
	return nil
}
