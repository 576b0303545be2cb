package parsing

import (
	"fmt"
	"io"

	"github.com/Drolfothesgnir/gohaa/structure"
)

// Result is a successfully parsed template.
type Result struct {
	Tree     *structure.Tree
	Warnings Warnings
}

// Option configures a [Parser].
type Option func(*Parser) error

// WithWarnings sets the overflow policy and capacity of the warnings collector.
func WithWarnings(policy WarningOverflowPolicy, cap int) Option {
	return func(p *Parser) error {
		w, err := NewWarnings(policy, cap)
		if err != nil {
			return err
		}
		p.warnings = w
		return nil
	}
}

// Parser turns template source into a document tree.
// A Parser is not safe for concurrent use; ParseLines resets it before every run.
type Parser struct {
	opts []Option

	src  LineSource
	tree *structure.Tree

	warnings Warnings

	// line is the physical line being tokenized, pos the cursor within it.
	line   string
	lineNo int
	pos    int

	state stateID

	// indent is the current indentation level and tabWidth the detected number
	// of spaces per level, 0 while unknown.
	indent   int
	tabWidth int

	// currentOpen counts nodes appended at the current level since it was entered,
	// openStack keeps the counts of the enclosing levels.
	currentOpen int
	openStack   []int

	bodyStarted bool
	creatingTag bool

	// lastAttr is the static attribute waiting for its value.
	lastAttr string

	pending pending
}

// NewParser creates a parser configured with opts.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{opts: opts}
	if err := p.reset(nil); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) reset(src LineSource) error {
	*p = Parser{
		opts:    p.opts,
		src:     src,
		tree:    structure.New(),
		pending: newPending(),
	}
	for _, opt := range p.opts {
		if err := opt(p); err != nil {
			return err
		}
	}
	return nil
}

// Parse parses the template source.
func Parse(source string, opts ...Option) (*Result, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(NewStringSource(source))
}

// ParseReader parses the template read from r.
func ParseReader(r io.Reader, opts ...Option) (*Result, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(NewReaderSource(r))
}

// ParseLines parses the template pulled line by line from src.
// No tree is returned when an error occurs.
func (p *Parser) ParseLines(src LineSource) (*Result, error) {
	if err := p.reset(src); err != nil {
		return nil, err
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return &Result{Tree: p.tree, Warnings: p.warnings}, nil
}

// Warnings returns the warnings collected by the last run, including a failed one.
func (p *Parser) Warnings() Warnings {
	return p.warnings
}

func (p *Parser) run() error {
	ok, err := p.pullLine()
	if err != nil {
		return err
	}
	if !ok {
		return p.finish()
	}
	p.state = p.lineStart()

	for {
		id, tok, err := p.match(p.state)
		if err != nil {
			return err
		}
		if tok == nil {
			return p.errorAt(AmbiguousToken, p.pos, 1, nil)
		}

		st := &states[id]
		if st.handle != nil {
			if err := st.handle(p, tok); err != nil {
				return err
			}
			p.pending.cycle()
		}

		if !st.nextLine {
			if st.next == stNone {
				panic(fmt.Sprintf("parsing: state %s has no transition", st.name))
			}
			p.state = st.next
			continue
		}

		ok, err := p.pullLine()
		if err != nil {
			return err
		}
		if !ok {
			if st.raw {
				e := p.errorAt(AmbiguousToken, len(p.line), 1, nil)
				e.Detail = "unexpected end of input"
				return e
			}
			return p.finish()
		}
		if st.raw {
			p.state = st.next
		} else {
			p.state = p.lineStart()
		}
	}
}

// lineStart picks the first state of a line: head statements are recognized
// only until the body has started.
func (p *Parser) lineStart() stateID {
	if p.bodyStarted {
		return stLine
	}
	return stHead
}

func (p *Parser) pullLine() (bool, error) {
	line, ok, err := p.src.NextLine()
	if err != nil {
		return false, fmt.Errorf("reading template: %w", err)
	}
	if !ok {
		return false, nil
	}
	p.line = line
	p.lineNo++
	p.pos = 0
	return true, nil
}

func (p *Parser) finish() error {
	if p.pending.has(pendingExpectedIndent) {
		return p.errorAt(ExpectedIndent, len(p.line), 1, nil)
	}
	p.dedent(p.indent)
	return nil
}

// appendNode appends data at the cursor and counts it as opened on the current level.
func (p *Parser) appendNode(data structure.NodeData) int {
	idx := p.tree.Append(data)
	p.currentOpen++
	if p.tree.Scope(idx) == structure.RootIndex {
		p.bodyStarted = true
	}
	return idx
}

func (p *Parser) errorAt(kind Kind, col, length int, params Params) *SyntaxError {
	return &SyntaxError{
		Kind:   kind,
		Line:   p.lineNo,
		Col:    col,
		Length: length,
		Source: p.line,
		Indent: p.indent,
		Params: params,
	}
}

func (p *Parser) warn(kind Kind, col int, params Params) {
	p.warnings.Add(Warning{
		Kind:        kind,
		Line:        p.lineNo,
		Col:         col,
		Params:      params,
		Description: kind.Describe(params),
	})
}
