package parsing

import (
	"regexp"
	"strings"
)

type stateID int

const (
	stNone stateID = iota

	// line level
	stHead
	stLine
	stBlank
	stLineComment
	stIndent
	stElement
	stComment
	stMisplacedHead
	stContinueInline
	stInline
	stLineEnd

	// small elements
	stEscape
	stRawToggle
	stConstant
	stText

	// tags
	stTagNameStart
	stTagName
	stClassStart
	stClassName
	stIDStart
	stIDName
	stTagOptions
	stAfterAttributes

	// static attributes
	stStaticStart
	stStaticInside
	stStaticName
	stStaticNameAfter
	stStaticValue
	stStaticEnd
	stStaticLineEnd

	// dynamic attributes
	stDynamicStart
	stDynamic

	// code
	stCodeStart
	stCode
	stCondKeyword
	stCondExpr
	stForKeyword
	stForTarget
	stForIn
	stForIter
	stBareKeyword
	stColon
	stAfterColon
	stSimpleStatement
	stExprStart
	stExpr

	// head statements
	stHeadStart
	stHeadStatement
	stInherit
	stInheritList
	stDef
	stDefName
	stDefOpen
	stDefParams
	stDefClose
	stDefEnd
	stDefColon
	stDefNoBody

	numStates
)

// state is one entry of the tokenizer table. Exactly one matching rule is set:
// literal, patterns, lookahead, host or alts.
type state struct {
	name string

	literal   string
	patterns  []*regexp.Regexp
	lookahead string
	host      *hostMatcher
	alts      []stateID

	// next is the state following a match. When nextLine is set the parser pulls
	// the next physical line first and continues at the line start, or at next
	// when raw is also set.
	next     stateID
	nextLine bool
	raw      bool

	// onFail turns a failed match into an error instead of trying the next alternative.
	onFail Kind

	handle func(*Parser, *token) error
}

// token is a matched piece of the current line.
type token struct {
	state stateID
	col   int

	// text is the whole match, value its first group or the whole match.
	text  string
	value string

	// fragments holds the separate expressions of an expression list.
	fragments []string
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile("^(?:" + expr + ")")
	}
	return out
}

const nameChars = `[^.#(){}\s]`

var states = [numStates]state{
	stHead: {
		name: "head",
		alts: []stateID{stHeadStart, stLine},
	},
	stLine: {
		name: "line",
		alts: []stateID{stBlank, stLineComment, stIndent},
	},
	stBlank: {
		name:     "blank",
		patterns: patterns(`[ \t]*$`),
		nextLine: true,
	},
	stLineComment: {
		name:     "line_comment",
		patterns: patterns(`[ \t]*;.*$`),
		nextLine: true,
	},
	stIndent: {
		name:     "indent",
		patterns: patterns(`[ \t]*`),
		next:     stElement,
		handle:   (*Parser).handleIndentToken,
	},
	stElement: {
		name: "element",
		alts: []stateID{
			stEscape,
			stComment,
			stTagNameStart,
			stClassStart,
			stIDStart,
			stMisplacedHead,
			stCodeStart,
			stExprStart,
			stRawToggle,
			stConstant,
			stText,
		},
	},
	stComment: {
		name:     "comment",
		patterns: patterns(`;.*$`),
		nextLine: true,
		handle:   (*Parser).handleLineEnd,
	},
	stMisplacedHead: {
		name:    "misplaced_head",
		literal: "`",
		next:    stLineEnd,
		handle:  (*Parser).handleMisplacedHead,
	},
	stContinueInline: {
		name:     "continue_inline",
		patterns: patterns(`[ \t]+`),
		next:     stInline,
		handle:   (*Parser).handleContinueInline,
	},
	stInline: {
		name: "inline",
		alts: []stateID{stLineEnd, stElement},
	},
	stLineEnd: {
		name:     "line_end",
		patterns: patterns(`[ \t]*$`),
		nextLine: true,
		handle:   (*Parser).handleLineEnd,
	},

	stEscape: {
		name:     "escape",
		patterns: patterns(`\\[ \t]*`),
		next:     stText,
	},
	stRawToggle: {
		name:     "raw_toggle",
		patterns: patterns(`\?[ \t]*`),
		next:     stElement,
		handle:   (*Parser).handleRawToggle,
	},
	stConstant: {
		name:     "constant",
		patterns: patterns(`!([A-Za-z0-9_]+)[ \t]*`),
		next:     stLineEnd,
		handle:   (*Parser).handleConstant,
	},
	stText: {
		name:     "text",
		patterns: patterns(`(.+?)[ \t]*$`),
		next:     stLineEnd,
		handle:   (*Parser).handleText,
	},

	stTagNameStart: {
		name:    "tag_name_start",
		literal: "%",
		next:    stTagName,
		handle:  (*Parser).handleTagStart,
	},
	stTagName: {
		name:     "tag_name",
		patterns: patterns(nameChars + `*`),
		next:     stTagOptions,
		handle:   (*Parser).handleTagName,
	},
	stClassStart: {
		name:    "class_start",
		literal: ".",
		next:    stClassName,
		handle:  (*Parser).handleShorthandStart,
	},
	stClassName: {
		name:     "class_name",
		patterns: patterns(nameChars + `+`),
		next:     stTagOptions,
		onFail:   ExpectedClassName,
		handle:   (*Parser).handleClassName,
	},
	stIDStart: {
		name:    "id_start",
		literal: "#",
		next:    stIDName,
		handle:  (*Parser).handleShorthandStart,
	},
	stIDName: {
		name:     "id_name",
		patterns: patterns(nameChars + `+`),
		next:     stTagOptions,
		onFail:   ExpectedIDName,
		handle:   (*Parser).handleIDName,
	},
	stTagOptions: {
		name: "tag_options",
		alts: []stateID{stIDStart, stClassStart, stAfterAttributes},
	},
	stAfterAttributes: {
		name: "after_attributes",
		alts: []stateID{stStaticStart, stDynamicStart, stLineEnd, stContinueInline},
	},

	stStaticStart: {
		name:    "static_start",
		literal: "(",
		next:    stStaticInside,
		handle:  (*Parser).handleStaticStart,
	},
	stStaticInside: {
		name: "static_inside",
		alts: []stateID{stStaticName, stStaticEnd, stStaticLineEnd},
	},
	stStaticName: {
		name:     "static_name",
		patterns: patterns(`\s*([^\s)=]+)`),
		next:     stStaticNameAfter,
		handle:   (*Parser).handleStaticName,
	},
	stStaticNameAfter: {
		name: "static_name_after",
		alts: []stateID{stStaticValue, stStaticInside},
	},
	stStaticValue: {
		name: "static_value",
		patterns: patterns(
			`\s*=\s*'([^']*)'`,
			`\s*=\s*"([^"]*)"`,
			`\s*=\s*([^\s)]+)`,
		),
		next:   stStaticInside,
		handle: (*Parser).handleStaticValue,
	},
	stStaticEnd: {
		name:     "static_end",
		patterns: patterns(`\s*\)`),
		next:     stAfterAttributes,
	},
	stStaticLineEnd: {
		name:     "static_line_end",
		patterns: patterns(`\s*$`),
		next:     stStaticInside,
		nextLine: true,
		raw:      true,
	},

	stDynamicStart: {
		name:      "dynamic_start",
		lookahead: "{",
		next:      stDynamic,
	},
	stDynamic: {
		name:   "dynamic",
		host:   &hostMatcher{mode: untilBracketCloses, shape: shapeDict},
		next:   stAfterAttributes,
		handle: (*Parser).handleDynamic,
	},

	stCodeStart: {
		name:     "code_start",
		patterns: patterns(`-[ \t]*`),
		next:     stCode,
	},
	stCode: {
		name: "code",
		alts: []stateID{stCondKeyword, stForKeyword, stBareKeyword, stSimpleStatement},
	},
	stCondKeyword: {
		name:     "cond_keyword",
		patterns: patterns(`(if|elif|while)\b[ \t]*`),
		next:     stCondExpr,
		handle:   (*Parser).handleStatementKeyword,
	},
	stCondExpr: {
		name:   "cond_expr",
		host:   &hostMatcher{mode: untilColon, shape: shapeExpression},
		next:   stColon,
		handle: (*Parser).handleCondExpr,
	},
	stForKeyword: {
		name:     "for_keyword",
		patterns: patterns(`(for)\b[ \t]*`),
		next:     stForTarget,
		handle:   (*Parser).handleStatementKeyword,
	},
	stForTarget: {
		name:   "for_target",
		host:   &hostMatcher{mode: untilKeyword, stopWord: "in", shape: shapeTarget},
		next:   stForIn,
		handle: (*Parser).handleForTarget,
	},
	stForIn: {
		name:     "for_in",
		patterns: patterns(`in\b[ \t]*`),
		next:     stForIter,
	},
	stForIter: {
		name:   "for_iter",
		host:   &hostMatcher{mode: untilColon, shape: shapeExpressionList},
		next:   stColon,
		handle: (*Parser).handleForIter,
	},
	stBareKeyword: {
		name:     "bare_keyword",
		patterns: patterns(`(else)\b[ \t]*`),
		next:     stColon,
		handle:   (*Parser).handleStatementKeyword,
	},
	stColon: {
		name:     "colon",
		patterns: patterns(`[ \t]*:[ \t]*`),
		next:     stAfterColon,
		handle:   (*Parser).handleColon,
	},
	stAfterColon: {
		name: "after_colon",
		alts: []stateID{stLineEnd, stElement},
	},
	stSimpleStatement: {
		name:   "simple_statement",
		host:   &hostMatcher{mode: untilLineEnd, shape: shapeStatement},
		next:   stLineEnd,
		handle: (*Parser).handleSimpleStatement,
	},
	stExprStart: {
		name:     "expr_start",
		patterns: patterns(`=[ \t]*`),
		next:     stExpr,
	},
	stExpr: {
		name:   "expr",
		host:   &hostMatcher{mode: untilLineEnd, shape: shapeExpression},
		next:   stLineEnd,
		handle: (*Parser).handleExpression,
	},

	stHeadStart: {
		name:    "head_start",
		literal: "`",
		next:    stHeadStatement,
		handle:  (*Parser).handleHeadStart,
	},
	stHeadStatement: {
		name: "head_statement",
		alts: []stateID{stInherit, stDef},
	},
	stInherit: {
		name:     "inherit",
		patterns: patterns(`inherit[ \t]+`),
		next:     stInheritList,
	},
	stInheritList: {
		name:   "inherit_list",
		host:   &hostMatcher{mode: untilLineEnd, shape: shapeExpressionList},
		next:   stLineEnd,
		handle: (*Parser).handleInherit,
	},
	stDef: {
		name:     "def",
		patterns: patterns(`def[ \t]+`),
		next:     stDefName,
	},
	stDefName: {
		name:     "def_name",
		patterns: patterns(`([\pL_][\pL\pN_]*)[ \t]*`),
		next:     stDefOpen,
		handle:   (*Parser).handlePartialName,
	},
	stDefOpen: {
		name:    "def_open",
		literal: "(",
		next:    stDefParams,
	},
	stDefParams: {
		name:   "def_params",
		host:   &hostMatcher{mode: untilUnmatchedParen, shape: shapeParams},
		next:   stDefClose,
		handle: (*Parser).handlePartialParams,
	},
	stDefClose: {
		name:    "def_close",
		literal: ")",
		next:    stDefEnd,
		handle:  (*Parser).handlePartialOpen,
	},
	stDefEnd: {
		name: "def_end",
		alts: []stateID{stDefColon, stDefNoBody},
	},
	stDefColon: {
		name:     "def_colon",
		patterns: patterns(`[ \t]*:`),
		next:     stLineEnd,
		handle:   (*Parser).handleExpectIndent,
	},
	stDefNoBody: {
		name:     "def_no_body",
		patterns: patterns(`[ \t]*$`),
		nextLine: true,
		handle:   (*Parser).handlePartialNoBody,
	},
}

// match tries the rule of state id at the cursor. It returns the state which
// actually matched, which differs from id for alternatives, or a nil token
// when nothing matched.
func (p *Parser) match(id stateID) (stateID, *token, error) {
	st := &states[id]

	if len(st.alts) > 0 {
		for _, alt := range st.alts {
			got, tok, err := p.match(alt)
			if err != nil || tok != nil {
				return got, tok, err
			}
		}
		return p.noMatch(id)
	}

	tok := &token{state: id, col: p.pos}
	rest := p.line[p.pos:]

	switch {
	case st.host != nil:
		if err := p.matchHost(st.host, tok); err != nil {
			return id, nil, err
		}
		return id, tok, nil

	case st.lookahead != "":
		if !strings.HasPrefix(rest, st.lookahead) {
			return p.noMatch(id)
		}
		return id, tok, nil

	case st.literal != "":
		if !strings.HasPrefix(rest, st.literal) {
			return p.noMatch(id)
		}
		tok.text, tok.value = st.literal, st.literal
		p.pos += len(st.literal)
		return id, tok, nil
	}

	for _, re := range st.patterns {
		m := re.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		tok.text, tok.value = m[0], m[0]
		if len(m) > 1 {
			tok.value = m[1]
		}
		p.pos += len(m[0])
		return id, tok, nil
	}
	return p.noMatch(id)
}

func (p *Parser) noMatch(id stateID) (stateID, *token, error) {
	if kind := states[id].onFail; kind != kindNone {
		return id, nil, p.errorAt(kind, p.pos, 1, nil)
	}
	return id, nil, nil
}
