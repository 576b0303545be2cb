package parsing

import (
	"fmt"
	"regexp"

	"github.com/Drolfothesgnir/gohaa/structure"
)

var leadingWord = regexp.MustCompile(`^[A-Za-z_]+`)

func (p *Parser) handleStatementKeyword(tok *token) error {
	p.pending.set(pendingStatement, tok.value)
	return nil
}

func (p *Parser) handleCondExpr(tok *token) error {
	p.pending.set(pendingExpression, tok.value)
	p.pending.carry(pendingStatement)
	return nil
}

func (p *Parser) handleForTarget(tok *token) error {
	p.pending.set(pendingTarget, tok.value)
	p.pending.carry(pendingStatement)
	return nil
}

func (p *Parser) handleForIter(tok *token) error {
	p.pending.set(pendingExpression, tok.value)
	p.pending.carry(pendingStatement, pendingTarget)
	return nil
}

// handleColon builds the header of a compound statement from the pieces collected so far.
func (p *Parser) handleColon(*token) error {
	keyword, ok := p.pending.get(pendingStatement)
	if !ok {
		panic("parsing: colon without a statement keyword")
	}
	expr, _ := p.pending.get(pendingExpression)

	var header string
	switch keyword {
	case "if", "elif", "while":
		header = fmt.Sprintf("%s %s:", keyword, expr)
	case "for":
		target, _ := p.pending.get(pendingTarget)
		header = fmt.Sprintf("for %s in %s:", target, expr)
	default:
		header = keyword + ":"
	}

	p.appendNode(&structure.CompoundStatement{Keyword: keyword, Content: header})
	p.pending.set(pendingExpectedIndent, "")
	return nil
}

func (p *Parser) handleExpectIndent(*token) error {
	p.pending.set(pendingExpectedIndent, "")
	return nil
}

func (p *Parser) handleSimpleStatement(tok *token) error {
	stmt := &structure.SimpleStatement{Content: tok.value}
	if w := leadingWord.FindString(tok.value); structure.StatementKeywords[w] {
		stmt.Keyword = w
	}
	p.appendNode(stmt)
	return nil
}

func (p *Parser) handleExpression(tok *token) error {
	p.appendNode(&structure.Expression{Content: tok.value, Escape: p.escapeNext()})
	return nil
}
