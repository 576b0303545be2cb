package parsing

import (
	"fmt"
	"sort"
	"strings"
)

// Kind defines types of problems we might encounter while parsing a template.
type Kind int

const (
	kindNone Kind = iota

	// AmbiguousToken means no rule of the current lexer state matched the input.
	AmbiguousToken

	// ExpectedClassName occurs when "." is not followed by a class name.
	ExpectedClassName

	// ExpectedIDName occurs when "#" is not followed by an id.
	ExpectedIDName

	// InconsistentTabWidth occurs when the number of indenting spaces is not a multiple
	// of the detected tab width.
	InconsistentTabWidth

	// TooDeepIndent occurs when a line is indented more than one level deeper than the previous one.
	TooDeepIndent

	// InvalidIndent occurs when the tab width cannot be derived from the indentation.
	InvalidIndent

	// UnexpectedIndent occurs when a line is indented under a node which cannot own children.
	UnexpectedIndent

	// ExpectedIndent occurs when a statement ending with a colon is not followed by an indented body.
	ExpectedIndent

	// UnbalancedBrackets occurs when a closing bracket of an embedded fragment has no matching opener.
	UnbalancedBrackets

	// HostSyntaxError wraps a syntax error of the embedded host language.
	HostSyntaxError

	// InvalidAttributes occurs when dynamic attributes are not a dict or dict comprehension literal.
	InvalidAttributes

	// InvalidExpression occurs when an embedded fragment has the wrong shape, e.g. a statement
	// where a single expression is required.
	InvalidExpression

	// DuplicateID occurs when a tag has its id set twice.
	DuplicateID

	// MisplacedHeadStatement occurs when a head statement appears after the body has started
	// or below the top level.
	MisplacedHeadStatement

	// NestedPartial occurs when a partial is declared inside another partial.
	NestedPartial

	// DuplicatePartial occurs when two partials share a name.
	DuplicatePartial

	// IndentTabSpaces is a warning: a single indentation run mixes tabs and spaces.
	IndentTabSpaces

	// WarningsTruncated occurs when there are too many warnings recorded.
	WarningsTruncated

	// NegativeWarningsCap reports an invalid (negative) warnings capacity.
	NegativeWarningsCap
)

var kindNames = map[Kind]string{
	AmbiguousToken:         "AMBIGUOUS_TOKEN",
	ExpectedClassName:      "EXPECTED_CLASSNAME",
	ExpectedIDName:         "EXPECTED_IDNAME",
	InconsistentTabWidth:   "INCONSISTENT_TAB_WIDTH",
	TooDeepIndent:          "TOO_DEEP_INDENT",
	InvalidIndent:          "INVALID_INDENT",
	UnexpectedIndent:       "UNEXPECTED_INDENT",
	ExpectedIndent:         "EXPECTED_INDENT",
	UnbalancedBrackets:     "UNBALANCED_BRACKETS",
	HostSyntaxError:        "HOST_SYNTAX_ERROR",
	InvalidAttributes:      "INVALID_ATTRIBUTES",
	InvalidExpression:      "INVALID_EXPRESSION",
	DuplicateID:            "DUPLICATE_ID",
	MisplacedHeadStatement: "MISPLACED_HEAD_STATEMENT",
	NestedPartial:          "NESTED_PARTIAL",
	DuplicatePartial:       "DUPLICATE_PARTIAL",
	IndentTabSpaces:        "INDENT_TAB_SPACES",
	WarningsTruncated:      "WARNINGS_TRUNCATED",
	NegativeWarningsCap:    "NEGATIVE_WARNINGS_CAP",
}

var descriptions = map[Kind]string{
	AmbiguousToken:    "Syntax error",
	ExpectedClassName: "Expected class name",
	ExpectedIDName:    "Expected id name",
	InconsistentTabWidth: "Inconsistent tab width. Found {tabs} tabs and {spaces} spaces. " +
		"Earlier detected tab width is {width}, current indent is {indent}.",
	TooDeepIndent: "Too deep indent. Current indent is {indent}, attempted to change it to {new_indent}",
	InvalidIndent: "Invalid indent. Found {tabs} tabs and {spaces} spaces. " +
		"No tab width was detected, current indent is {indent}.",
	UnexpectedIndent:       "Unexpected indent",
	ExpectedIndent:         "Expected indent",
	UnbalancedBrackets:     "Unbalanced brackets in embedded code.",
	HostSyntaxError:        "Embedded code syntax error: \"{desc}\".",
	InvalidAttributes:      "Dynamic attributes must be a dictionary or dictionary comprehension literal.",
	InvalidExpression:      "Invalid embedded code: {desc}.",
	DuplicateID:            "Id is already set",
	MisplacedHeadStatement: "Head statements are allowed only at the top of the template, before the body",
	NestedPartial:          "Partials cannot be nested",
	DuplicatePartial:       "Partial {name} is already defined",
	IndentTabSpaces:        "Using tabs ({tabs}) and spaces ({spaces}) in one line at once. Parsing continues but may fail.",
	WarningsTruncated:      "Too many warnings; further warnings suppressed",
	NegativeWarningsCap:    "Warnings cap must be non-negative, got {cap}",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Params carries kind-specific values used in descriptions, e.g. the detected tab width.
type Params map[string]any

// Describe renders the human-readable description of the kind.
func (k Kind) Describe(params Params) string {
	desc, ok := descriptions[k]
	if !ok {
		return k.String()
	}
	if len(params) == 0 {
		return desc
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", fmt.Sprint(params[key]))
	}
	return strings.NewReplacer(pairs...).Replace(desc)
}
