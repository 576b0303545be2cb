package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModuleShapes(t *testing.T) {
	testCases := []struct {
		name  string
		src   string
		check func(t *testing.T, mod *Module)
	}{
		{
			name: "chained comparison",
			src:  "1 < a <= 3",
			check: func(t *testing.T, mod *Module) {
				cmp, ok := mod.Body[0].(*ExprStmt).X.(*Compare)
				require.True(t, ok)
				require.Equal(t, []string{"<", "<="}, cmp.Ops)
			},
		},
		{
			name: "not in and is not",
			src:  "a not in b is not c",
			check: func(t *testing.T, mod *Module) {
				cmp := mod.Body[0].(*ExprStmt).X.(*Compare)
				require.Equal(t, []string{"not in", "is not"}, cmp.Ops)
			},
		},
		{
			name: "operator precedence",
			src:  "1 + 2 * 3",
			check: func(t *testing.T, mod *Module) {
				bin := mod.Body[0].(*ExprStmt).X.(*BinOp)
				require.Equal(t, "+", bin.Op)
				require.Equal(t, "*", bin.Right.(*BinOp).Op)
			},
		},
		{
			name: "power binds tighter than unary minus",
			src:  "-2 ** 2",
			check: func(t *testing.T, mod *Module) {
				un := mod.Body[0].(*ExprStmt).X.(*UnaryOp)
				require.Equal(t, "-", un.Op)
				require.Equal(t, "**", un.Operand.(*BinOp).Op)
			},
		},
		{
			name: "tuple without parentheses",
			src:  "a, b = 1, 2",
			check: func(t *testing.T, mod *Module) {
				assign := mod.Body[0].(*Assign)
				require.Len(t, assign.Targets[0].(*TupleExpr).Elts, 2)
				require.Len(t, assign.Value.(*TupleExpr).Elts, 2)
			},
		},
		{
			name: "dict and dict comprehension",
			src:  "{'a': 1, **b}\n{k: v for k, v in c}",
			check: func(t *testing.T, mod *Module) {
				d := mod.Body[0].(*ExprStmt).X.(*DictExpr)
				require.Len(t, d.Keys, 2)
				require.Nil(t, d.Keys[1])
				_, ok := mod.Body[1].(*ExprStmt).X.(*DictComp)
				require.True(t, ok)
			},
		},
		{
			name: "adjacent strings concatenate",
			src:  `"g" 'h'`,
			check: func(t *testing.T, mod *Module) {
				c := mod.Body[0].(*ExprStmt).X.(*Constant)
				require.Equal(t, "gh", c.Value)
			},
		},
		{
			name: "generator function",
			src:  "def f(a, b=1, *c, d, **e):\n    yield a",
			check: func(t *testing.T, mod *Module) {
				fn := mod.Body[0].(*FunctionDef)
				require.True(t, fn.IsGenerator)
				require.Len(t, fn.Args.Params, 2)
				require.Equal(t, "c", fn.Args.Vararg)
				require.Equal(t, "d", fn.Args.KwOnly[0].Name)
				require.Equal(t, "e", fn.Args.Kwarg)
			},
		},
		{
			name: "nested function does not mark outer as generator",
			src:  "def f():\n    def g():\n        yield 1\n    return g",
			check: func(t *testing.T, mod *Module) {
				fn := mod.Body[0].(*FunctionDef)
				require.False(t, fn.IsGenerator)
				require.True(t, fn.Body[0].(*FunctionDef).IsGenerator)
			},
		},
		{
			name: "if elif else",
			src:  "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass",
			check: func(t *testing.T, mod *Module) {
				stmt := mod.Body[0].(*If)
				elif := stmt.OrElse[0].(*If)
				require.Len(t, elif.OrElse, 1)
			},
		},
		{
			name: "suite on the same line",
			src:  "for x in y: a; b",
			check: func(t *testing.T, mod *Module) {
				require.Len(t, mod.Body[0].(*For).Body, 2)
			},
		},
		{
			name: "slices",
			src:  "a[1:2, ::3]",
			check: func(t *testing.T, mod *Module) {
				sub := mod.Body[0].(*ExprStmt).X.(*Subscript)
				tuple := sub.Index.(*TupleExpr)
				require.IsType(t, &Slice{}, tuple.Elts[0])
				require.NotNil(t, tuple.Elts[1].(*Slice).Step)
			},
		},
		{
			name: "negative literal folds",
			src:  "-5",
			check: func(t *testing.T, mod *Module) {
				require.Equal(t, int64(-5), mod.Body[0].(*ExprStmt).X.(*Constant).Value)
			},
		},
		{
			name: "call with keywords",
			src:  "f(a, 2, key=3)",
			check: func(t *testing.T, mod *Module) {
				call := mod.Body[0].(*ExprStmt).X.(*CallExpr)
				require.Equal(t, "f", call.Func.(*Name).ID)
				require.Len(t, call.Args, 2)
				require.Len(t, call.Keywords, 1)
			},
		},
		{
			name: "trailing semicolon",
			src:  "a;",
			check: func(t *testing.T, mod *Module) {
				require.Len(t, mod.Body, 1)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mod, err := ParseModule(tc.src)
			require.NoError(t, err)
			tc.check(t, mod)
		})
	}
}

func TestParseModuleErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		line int
		col  int
	}{
		{name: "dangling operator", src: "1 +", line: 1, col: 3},
		{name: "assignment to literal", src: "1 = a", line: 1, col: 0},
		{name: "break outside loop", src: "break", line: 1, col: 0},
		{name: "yield outside function", src: "yield 1", line: 1, col: 0},
		{name: "class is unsupported", src: "class A: pass", line: 1, col: 0},
		{name: "missing indented block", src: "if a:\nb", line: 2, col: 0},
		{name: "unexpected indent", src: "a\n  b", line: 2, col: 0},
		{name: "keyword as name", src: "a = if", line: 1, col: 4},
		{name: "default before non-default", src: "def f(a=1, b): pass", line: 1, col: 12},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseModule(tc.src)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			require.Equal(t, tc.line, syntaxErr.Line)
			require.Equal(t, tc.col, syntaxErr.Col)
		})
	}
}

func TestParseExpression(t *testing.T) {
	e, err := ParseExpression("x if y else z")
	require.NoError(t, err)
	require.IsType(t, &IfExp{}, e)

	_, err = ParseExpression("a = 1")
	require.Error(t, err)

	_, err = ParseExpression("a\nb")
	require.Error(t, err)
}

func TestUnquoteLiteral(t *testing.T) {
	testCases := []struct {
		text string
		want Value
	}{
		{`'a\nb'`, "a\nb"},
		{`"\x41\u0105"`, "Aą"},
		{`r'\n'`, `\n`},
		{`b'\xff'`, Bytes("\xff")},
		{`'\q'`, `\q`},
		{`'''x'y'''`, "x'y"},
		{`'\101'`, "A"},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := unquoteLiteral(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := unquoteLiteral(`f'{x}'`)
	require.Error(t, err)
	_, err = unquoteLiteral(`'\x4'`)
	require.Error(t, err)
}
