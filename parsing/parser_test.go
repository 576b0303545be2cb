package parsing

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Drolfothesgnir/gohaa/structure"
)

func jl(lines ...string) string {
	return strings.Join(lines, "\n")
}

// node is a compact view of a document tree used to compare shapes.
type node struct {
	Kind     string
	Value    string
	Children []node
}

func tag(value string, children ...node) node {
	return node{Kind: "tag", Value: value, Children: children}
}

func text(value string) node { return node{Kind: "text", Value: value} }
func raw(value string) node  { return node{Kind: "raw", Value: value} }
func expr(value string) node { return node{Kind: "expr", Value: value} }
func stmt(value string) node { return node{Kind: "stmt", Value: value} }

func block(header string, children ...node) node {
	return node{Kind: "block", Value: header, Children: children}
}

func describeTag(t *structure.Tag) string {
	var b strings.Builder
	b.WriteString(t.Name)
	if t.HasID {
		b.WriteString("#" + t.ID)
	}
	for _, c := range t.Classes {
		b.WriteString("." + c)
	}
	return b.String()
}

func shape(tree *structure.Tree, idx int) []node {
	var out []node
	for _, c := range tree.Children(idx) {
		var n node
		switch data := tree.Data(c).(type) {
		case *structure.Tag:
			n = node{Kind: "tag", Value: describeTag(data)}
		case *structure.Text:
			n = node{Kind: "raw", Value: data.Content}
			if data.Escape {
				n.Kind = "text"
			}
		case *structure.Expression:
			n = node{Kind: "expr", Value: data.Content}
		case *structure.SimpleStatement:
			n = node{Kind: "stmt", Value: data.Content}
		case *structure.CompoundStatement:
			n = node{Kind: "block", Value: data.Content}
		default:
			panic("unexpected node")
		}
		n.Children = shape(tree, c)
		out = append(out, n)
	}
	return out
}

func mustParse(t *testing.T, source string) *structure.Tree {
	t.Helper()
	res, err := Parse(source)
	require.NoError(t, err)
	require.Equal(t, structure.RootIndex, res.Tree.Current(), "all nodes must be closed")
	return res.Tree
}

func requireKind(t *testing.T, err error, kind Kind) *SyntaxError {
	t.Helper()
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, kind, se.Kind, "got: %v", err)
	return se
}

type parseStructureCase struct {
	name   string
	source string
	want   []node
}

var parseStructureTests = []parseStructureCase{
	{
		name:   "empty",
		source: "",
	},
	{
		name:   "one_tag",
		source: "%",
		want:   []node{tag("")},
	},
	{
		name:   "two_tags",
		source: jl("%", "%"),
		want:   []node{tag(""), tag("")},
	},
	{
		name:   "one_child",
		source: jl("%", "\t%"),
		want:   []node{tag("", tag(""))},
	},
	{
		name:   "one_child_and_sibling_inline",
		source: jl("% %", "%"),
		want:   []node{tag("", tag("")), tag("")},
	},
	{
		name:   "three_levels",
		source: jl("%", "  %", "    %"),
		want:   []node{tag("", tag("", tag("")))},
	},
	{
		name:   "children_of_inline",
		source: jl("%a %b", "  %c", "  %d", "%e"),
		want:   []node{tag("a", tag("b", tag("c"), tag("d"))), tag("e")},
	},
	{
		name: "deep",
		source: jl(
			"%t1 %t3 %t4",
			"  %t5 %t7",
			"    %t8 %t9 %t10",
			"      %t11 %t13",
			"      %t12",
			"  %t6 %t14",
			"    %t15 %t16",
			"      %t17",
			"      %t18 %t19",
			"%t2",
		),
		want: []node{
			tag("t1", tag("t3", tag("t4",
				tag("t5", tag("t7",
					tag("t8", tag("t9", tag("t10",
						tag("t11", tag("t13")),
						tag("t12"),
					))),
				)),
				tag("t6", tag("t14",
					tag("t15", tag("t16",
						tag("t17"),
						tag("t18", tag("t19")),
					)),
				)),
			))),
			tag("t2"),
		},
	},
	{
		name:   "all_at_once",
		source: "%div#head.rainbow.unicorns.autoclear",
		want:   []node{tag("div#head.rainbow.unicorns.autoclear")},
	},
	{
		name:   "only_class_and_only_id",
		source: jl(".foo", "#bar"),
		want:   []node{tag(".foo"), tag("#bar")},
	},
	{
		name:   "nested_list",
		source: jl("%ul", "  %li spam", "  %li eggs"),
		want:   []node{tag("ul", tag("li", text("spam")), tag("li", text("eggs")))},
	},
	{
		name: "even_more_complicated",
		source: jl(
			"%ul#left_menu.socool",
			"  %li#first_one",
			"    %a.bling my pets",
			"  %li.pink %a.bounce my sweet photos",
		),
		want: []node{
			tag("ul#left_menu.socool",
				tag("li#first_one", tag("a.bling", text("my pets"))),
				tag("li.pink", tag("a.bounce", text("my sweet photos"))),
			),
		},
	},
	{
		name:   "child_class",
		source: jl("%", "  .foo"),
		want:   []node{tag("", tag(".foo"))},
	},
	{
		name:   "child_id_inline",
		source: "% #foo",
		want:   []node{tag("", tag("#foo"))},
	},
	{
		name:   "text",
		source: "spam and eggs",
		want:   []node{text("spam and eggs")},
	},
	{
		name:   "escape",
		source: `\%i am no tag!`,
		want:   []node{text("%i am no tag!")},
	},
	{
		name:   "inline_escape",
		source: `%some-tag.class#id %child \%text`,
		want:   []node{tag("some-tag#id.class", tag("child", text("%text")))},
	},
	{
		name:   "noninline_text",
		source: jl("%some-tag.class#id", "  %child", "    text"),
		want:   []node{tag("some-tag#id.class", tag("child", text("text")))},
	},
	{
		name:   "joining",
		source: jl("foo", `\%`, "bar"),
		want:   []node{text("foo % bar")},
	},
	{
		name:   "stripped",
		source: jl("\\  \t  foo   \t  ", "bar  \t  "),
		want:   []node{text("foo bar")},
	},
	{
		name:   "escape_toggle",
		source: jl("&amp;", "?&amp;", "?&amp;", "&amp;"),
		want:   []node{text("&"), raw("&amp; &amp;"), text("&")},
	},
	{
		name:   "constants",
		source: jl("!html5", "!sp"),
		want:   []node{raw("<!DOCTYPE html>"), text(" ")},
	},
	{
		name: "comments",
		source: jl(
			"test2",
			";",
			"; ",
			"%",
			"  ;a",
			"  Text",
			";a",
			"; a",
			";a ",
			"; a ",
			";",
			"test2",
		),
		want: []node{text("test2"), tag("", text("Text")), text("test2")},
	},
	{
		name:   "basic_expressions",
		source: jl("%placeholder", "=a()", `= "b"`, "%placeholder2"),
		want:   []node{tag("placeholder"), expr("a()"), expr(`"b"`), tag("placeholder2")},
	},
	{
		name: "multiline_expressions",
		source: jl(
			"=c((",
			"      d",
			"for d in e",
			"))",
			`="g" \`,
			`"h"   ;`,
			"= i(",
			"  {  ",
			` "a": "b"`,
			"}, 2",
			"   )  ",
		),
		want: []node{
			expr(jl("c((", "      d", "for d in e", "))")),
			expr(jl(`"g" \`, `"h"`)),
			expr(jl("i(", "  {  ", ` "a": "b"`, "}, 2", "   )")),
		},
	},
	{
		name:   "expression_with_comment",
		source: "= a  # shown",
		want:   []node{expr("a")},
	},
	{
		name: "if_elif_while",
		source: jl(
			"-if(1): %tag",
			"-elif True:",
			"  %tag",
			"-while \tFalse:",
			"  Will not happen!",
		),
		want: []node{
			block("if (1):", tag("tag")),
			block("elif True:", tag("tag")),
			block("while False:", text("Will not happen!")),
		},
	},
	{
		name:   "else",
		source: jl("-if x:", "  a", "-else \t  : %tag"),
		want:   []node{block("if x:", text("a")), block("else:", tag("tag"))},
	},
	{
		name:   "for",
		source: jl("-for a in range(10): %tag", "-for(a)in(range(10)) :", "  sup!"),
		want: []node{
			block("for a in range(10):", tag("tag")),
			block("for (a) in (range(10)):", text("sup!")),
		},
	},
	{
		name:   "for_unpacking",
		source: jl("-for k, v in d.items():", "  =k"),
		want:   []node{block("for k, v in d.items():", expr("k"))},
	},
	{
		name: "simple_statements",
		source: jl(
			"-x = 1",
			"-while x:",
			"  -break",
			"-pass;",
		),
		want: []node{
			stmt("x = 1"),
			block("while x:", stmt("break")),
			stmt("pass"),
		},
	},
}

func TestParseStructure(t *testing.T) {
	for _, tt := range parseStructureTests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.source)
			if diff := cmp.Diff(tt.want, shape(tree, structure.RootIndex)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	for _, tt := range parseStructureTests {
		t.Run(tt.name, func(t *testing.T) {
			first := shape(mustParse(t, tt.source), structure.RootIndex)
			second := shape(mustParse(t, tt.source), structure.RootIndex)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("second parse differs (-first +second):\n%s", diff)
			}
		})
	}
}

func depth(nodes []node) int {
	d := 0
	for _, n := range nodes {
		d = max(d, 1+depth(n.Children))
	}
	return d
}

func TestIndentStaircase(t *testing.T) {
	tests := []struct {
		name   string
		indent string
	}{
		{name: "tabs", indent: "\t"},
		{name: "two_spaces", indent: "  "},
		{name: "four_spaces", indent: "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := make([]string, 5)
			for i := range lines {
				lines[i] = strings.Repeat(tt.indent, i) + "%t"
			}

			res, err := Parse(jl(lines...))
			require.NoError(t, err)
			require.Empty(t, res.Warnings.List())
			require.Equal(t, len(lines), depth(shape(res.Tree, structure.RootIndex)))

			// dedenting back to the first column closes every level
			res, err = Parse(jl(append(lines, "%u")...))
			require.NoError(t, err)
			top := shape(res.Tree, structure.RootIndex)
			require.Len(t, top, 2)
			require.Equal(t, len(lines), depth(top[:1]))
		})
	}
}

func TestParseLinks(t *testing.T) {
	tree := mustParse(t, jl("%a", "  %b", "%c"))

	top := tree.Children(structure.RootIndex)
	require.Len(t, top, 2)
	a, c := tree.Node(top[0]), tree.Node(top[1])

	require.Equal(t, top[1], a.NextSibling)
	require.Equal(t, top[0], c.PrevSibling)
	require.Equal(t, structure.RootIndex, c.Parent)
	require.Equal(t, 1, a.ChildCount)

	b := tree.Node(a.FirstChild)
	require.Equal(t, top[0], b.Parent)
	require.Equal(t, structure.RootIndex, b.Root)
	require.Equal(t, -1, b.NextSibling)
}

func TestSimpleStatementKeyword(t *testing.T) {
	tree := mustParse(t, jl("-x = 1", "-return", "-yield 1"))

	var keywords []string
	for _, idx := range tree.Children(structure.RootIndex) {
		keywords = append(keywords, tree.Data(idx).(*structure.SimpleStatement).Keyword)
	}
	require.Equal(t, []string{"", "return", "yield"}, keywords)
}

func TestTagAttributes(t *testing.T) {
	static := func(items ...structure.Attribute) *structure.StaticAttributes {
		return &structure.StaticAttributes{Items: items}
	}
	flag := func(key string) structure.Attribute {
		return structure.Attribute{Key: key, Value: key, Bool: true}
	}
	kv := func(key, value string) structure.Attribute {
		return structure.Attribute{Key: key, Value: value}
	}
	dynamic := func(source string) *structure.DynamicAttributes {
		return &structure.DynamicAttributes{Source: source}
	}

	type tc struct {
		name   string
		source string
		want   [][]structure.AttributeSet
	}

	tests := []tc{
		{
			name:   "empty",
			source: jl("%", "%(){}()", "%( \t     ){  \t  }"),
			want:   [][]structure.AttributeSet{nil, nil, nil},
		},
		{
			name:   "names",
			source: jl("%(foo \t bar)", "%( \t baz\t \t)"),
			want: [][]structure.AttributeSet{
				{static(flag("foo"), flag("bar"))},
				{static(flag("baz"))},
			},
		},
		{
			name:   "mixed",
			source: `%( foo_bar-baz ` + "\t" + ` = 'lol' ` + "\t" + `)( spam = eggs i_feel-great- ` + "\t" + ` lmao=" rofl` + "\t" + `'")`,
			want: [][]structure.AttributeSet{{
				static(
					kv("foo_bar-baz", "lol"),
					kv("spam", "eggs"),
					flag("i_feel-great-"),
					kv("lmao", " rofl\t'"),
				),
			}},
		},
		{
			name:   "multiline",
			source: jl("%( ", "   spam = eggs ", `herp="derp"`, ")"),
			want:   [][]structure.AttributeSet{{static(kv("spam", "eggs"), kv("herp", "derp"))}},
		},
		{
			name:   "later_value_wins",
			source: `%(a=1 b a="2")`,
			want:   [][]structure.AttributeSet{{static(kv("a", "2"), flag("b"))}},
		},
		{
			name:   "dynamic",
			source: `%{"sup":"nah"}{"at"+"tribute": ("value"*2).upper()}`,
			want: [][]structure.AttributeSet{{
				dynamic(`{"sup":"nah"}`),
				dynamic(`{"at"+"tribute": ("value"*2).upper()}`),
			}},
		},
		{
			name:   "static_and_dynamic_order",
			source: `%(a){"b": 1}(c)`,
			want: [][]structure.AttributeSet{{
				static(flag("a")),
				dynamic(`{"b": 1}`),
				static(flag("c")),
			}},
		},
		{
			name:   "entity_decode",
			source: `%&Aacute;.&Aacute;#&Aacute;(&Aacute;="&quot;&apos;&Aacute;")`,
			want:   [][]structure.AttributeSet{{static(kv("Á", `"'Á`))}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.source)
			var got [][]structure.AttributeSet
			for _, idx := range tree.Children(structure.RootIndex) {
				tg, ok := tree.Tag(idx)
				require.True(t, ok)
				got = append(got, tg.Attributes)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTagEntityDecode(t *testing.T) {
	tree := mustParse(t, `%&Aacute;.&Aacute;#&Aacute;`)
	tg, ok := tree.Tag(tree.Children(structure.RootIndex)[0])
	require.True(t, ok)
	require.Equal(t, "Á", tg.Name)
	require.Equal(t, "Á", tg.ID)
	require.Equal(t, []string{"Á"}, tg.Classes)
}

func TestDynamicAttributesMultiline(t *testing.T) {
	tree := mustParse(t, jl(
		"%{",
		"\t    \"sup\":  \"nah\"",
		" } %{",
		"   \"at\"+\"tri\"",
		"      \"bute\": (",
		"\"value\"*2).upper()",
		"   }",
	))

	top := tree.Children(structure.RootIndex)
	require.Len(t, top, 1)
	outer, _ := tree.Tag(top[0])

	inner := tree.Children(top[0])
	require.Len(t, inner, 1)
	child, _ := tree.Tag(inner[0])

	want := []structure.AttributeSet{&structure.DynamicAttributes{Source: "{\n\t    \"sup\":  \"nah\"\n }"}}
	require.Equal(t, want, outer.Attributes)

	want = []structure.AttributeSet{&structure.DynamicAttributes{
		Source: "{\n   \"at\"+\"tri\"\n      \"bute\": (\n\"value\"*2).upper()\n   }",
	}}
	require.Equal(t, want, child.Attributes)
}

func TestReadahead(t *testing.T) {
	tree := mustParse(t, jl(
		"%{}",
		"%()",
		"%{ \t }",
		"%( \t )",
		"%{}",
		"%()",
		"%{ \t }",
		"%( \t )",
		"%a",
	))
	require.Len(t, tree.Children(structure.RootIndex), 9)
}

func TestPartials(t *testing.T) {
	tree := mustParse(t, jl(
		"`def hello(a, b, c):",
		"  %h1 partial",
		"  =a",
		"  =b",
		"  =c",
		"`def lol():",
		"  lol",
		"`def prototype()",
		"",
		"=self.hello(\"a\", \"b\", \"c\")",
		"=self.lol()",
	))

	require.Equal(t, []node{expr(`self.hello("a", "b", "c")`), expr("self.lol()")}, shape(tree, structure.RootIndex))
	require.Len(t, tree.Partials, 3)

	hello, ok := tree.Partial("hello")
	require.True(t, ok)
	require.Equal(t, &structure.Partial{Name: "hello", Params: "a, b, c"}, tree.Data(hello))
	require.Len(t, tree.Children(hello), 4)

	lol, ok := tree.Partial("lol")
	require.True(t, ok)
	require.Equal(t, []node{text("lol")}, shape(tree, lol))

	proto, ok := tree.Partial("prototype")
	require.True(t, ok)
	require.Empty(t, tree.Children(proto))
}

func TestPartialParamsWithDefaults(t *testing.T) {
	tree := mustParse(t, jl(
		"`def item(title, tags=(1, 2), *rest, **extra):",
		"  =title",
	))
	idx, ok := tree.Partial("item")
	require.True(t, ok)
	require.Equal(t, "title, tags=(1, 2), *rest, **extra", tree.Data(idx).(*structure.Partial).Params)
}

func TestInheritance(t *testing.T) {
	tree := mustParse(t, jl(
		"`inherit 'comp_D.pha'",
		"`inherit 'comp_C.pha'; 'comp_B.pha'",
		"E",
	))
	require.Equal(t, []string{"'comp_D.pha'", "'comp_C.pha'", "'comp_B.pha'"}, tree.Inheritance)
	require.Equal(t, []node{text("E")}, shape(tree, structure.RootIndex))
}

func TestParseErrors(t *testing.T) {
	type tc struct {
		name    string
		source  string
		kind    Kind
		line    int
		col     int
		checkAt bool
	}

	tests := []tc{
		{name: "stray_brace", source: "%}", kind: AmbiguousToken, line: 1, col: 1, checkAt: true},
		{name: "unknown_constant", source: "!nope", kind: AmbiguousToken},
		{name: "class_name", source: ". text", kind: ExpectedClassName, line: 1, col: 1, checkAt: true},
		{name: "id_name", source: "# text", kind: ExpectedIDName, line: 1, col: 1, checkAt: true},
		{name: "tab_width_1", source: jl("%", "\t%", "  %", " %"), kind: InconsistentTabWidth, line: 4, col: 0, checkAt: true},
		{name: "tab_width_2", source: jl("%", "\t%", "  %", "   %"), kind: InconsistentTabWidth},
		{name: "too_deep", source: jl("%", " %", " %", "   %"), kind: TooDeepIndent, line: 4, col: 0, checkAt: true},
		{name: "invalid_indent_1", source: jl("%", "\t%", "%", "\t\t %"), kind: InvalidIndent},
		{name: "invalid_indent_2", source: jl("%", "\t%", "\t\t%", " %"), kind: InvalidIndent},
		{name: "unexpected_indent_1", source: "\t%", kind: UnexpectedIndent},
		{name: "unexpected_indent_2", source: jl("%", "\ttext", "\t\tmore text"), kind: UnexpectedIndent, line: 3, col: 0, checkAt: true},
		{name: "unexpected_indent_expression", source: jl("=x", "  y"), kind: UnexpectedIndent},
		{name: "unbalanced_brackets", source: "%{)}", kind: UnbalancedBrackets, line: 1, col: 2, checkAt: true},
		{name: "stray_closer", source: "=a)", kind: UnbalancedBrackets},
		{name: "host_syntax_error", source: "%{;}", kind: HostSyntaxError},
		{name: "missing_colon", source: "-if x", kind: HostSyntaxError},
		{name: "empty_expression", source: "=", kind: HostSyntaxError},
		{name: "try_unsupported", source: jl("-try:", "  a"), kind: HostSyntaxError},
		{name: "bad_params", source: "`def a(b c):", kind: HostSyntaxError, line: 1},
		{name: "invalid_attributes", source: "%{1}", kind: InvalidAttributes},
		{name: "assignment_output", source: "=a = 1", kind: InvalidExpression},
		{name: "bad_for_target", source: jl("-for 1 in x:", "  a"), kind: InvalidExpression},
		{name: "duplicate_id", source: "#s#d", kind: DuplicateID, line: 1, col: 3, checkAt: true},
		{name: "expected_indent_if", source: jl("-if 0:", "nope!"), kind: ExpectedIndent},
		{name: "expected_indent_else", source: jl("-else:", "nope!"), kind: ExpectedIndent},
		{name: "expected_indent_eof", source: "-if 0:", kind: ExpectedIndent},
		{name: "expected_indent_partial", source: jl("`def incomplete():", "", "%"), kind: ExpectedIndent},
		{name: "unexpected_indent_partial", source: jl("`def incomplete()", "  %", "%"), kind: UnexpectedIndent},
		{name: "nested_partial", source: jl("`def a():", "  `def b():"), kind: NestedPartial, line: 2, col: 2, checkAt: true},
		{name: "misplaced_head", source: jl("%a", "`inherit lol"), kind: MisplacedHeadStatement, line: 2, col: 0, checkAt: true},
		{name: "duplicate_partial", source: jl("`def a():", "  x", "`def a():", "  y"), kind: DuplicatePartial, line: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			se := requireKind(t, err, tt.kind)
			if tt.line > 0 {
				require.Equal(t, tt.line, se.Line)
			}
			if tt.checkAt {
				require.Equal(t, tt.col, se.Col)
			}
		})
	}
}

func TestSyntaxErrorParams(t *testing.T) {
	_, err := Parse(jl("%", "\t%", "  %", " %"))
	se := requireKind(t, err, InconsistentTabWidth)
	require.Equal(t, 2, se.Params["width"])

	_, err = Parse(jl("`def a():", "  x", "`def a():", "  y"))
	se = requireKind(t, err, DuplicatePartial)
	require.Equal(t, "Partial a is already defined", se.Description())
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := Parse("%a# text")
	requireKind(t, err, ExpectedIDName)
	require.EqualError(t, err, "At line 1: Expected id name\n[0] %a# text\n   ----^")
}
