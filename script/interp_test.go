package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// run executes src and returns the value of the global "result".
func run(t *testing.T, src string) Value {
	t.Helper()
	mod, err := ParseModule(src)
	require.NoError(t, err)
	globals := NewNamespace(nil)
	require.NoError(t, Exec(mod, globals))
	v, ok := globals.Get("result")
	require.True(t, ok, "result is not set")
	return v
}

func runError(t *testing.T, src string) error {
	t.Helper()
	mod, err := ParseModule(src)
	require.NoError(t, err)
	err = Exec(mod, NewNamespace(nil))
	require.Error(t, err)
	return err
}

func TestExecValues(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{name: "arithmetic", src: "result = 7 // 2, -7 // 2, 7 % -3, 2 ** 10, 1 / 4", want: "(3, -4, -2, 1024, 0.25)"},
		{name: "float repr", src: "result = [1.0, 1e16, 0.1 + 0.2, 1e-5]", want: "[1.0, 1e+16, 0.30000000000000004, 1e-05]"},
		{name: "string repetition and concat", src: "result = 'ab' * 2 + 'c'", want: "'ababc'"},
		{name: "bool op returns operand", src: "result = (0 or 'x', 1 and 2, None or 0)", want: "('x', 2, 0)"},
		{name: "chained comparison", src: "a = 2\nresult = 1 < a < 3, 1 < a > 3", want: "(True, False)"},
		{name: "membership", src: "result = 'b' in 'abc', 3 in [1, 2], 'k' in {'k': 1}, 4 in range(0, 10, 2)", want: "(True, False, True, True)"},
		{name: "list comprehension", src: "result = [x * y for x in range(3) if x for y in (1, 10)]", want: "[1, 10, 2, 20]"},
		{name: "dict comprehension keeps order", src: "result = {k: len(k) for k in ['bb', 'a']}", want: "{'bb': 2, 'a': 1}"},
		{name: "set dedups equal numbers", src: "result = len({1, 1.0, True})", want: "1"},
		{name: "slicing", src: "a = [0, 1, 2, 3, 4]\nresult = a[1:3], a[::-1], a[-2:], 'hello'[1:4]", want: "([1, 2], [4, 3, 2, 1, 0], [3, 4], 'ell')"},
		{name: "slice assignment", src: "a = [0, 1, 2, 3]\na[1:3] = ['x']\nresult = a", want: "[0, 'x', 3]"},
		{name: "unpacking with star", src: "a, *b, c = range(5)\nresult = a, b, c", want: "(0, [1, 2, 3], 4)"},
		{name: "augmented assignment", src: "a = [1]\nb = a\na += [2]\nn = 1\nn += 2\nresult = b, n", want: "([1, 2], 3)"},
		{name: "while else", src: "i = 0\nwhile i < 3:\n    i += 1\nelse:\n    i = -i\nresult = i", want: "-3"},
		{name: "for break skips else", src: "for i in range(10):\n    if i == 2:\n        break\nelse:\n    i = 'no'\nresult = i", want: "2"},
		{name: "function defaults and keywords", src: "def f(a, b=2, *rest, c=3, **kw):\n    return a, b, rest, c, kw\nresult = f(1, c=4, d=5), f(1, 2, 3, 4)", want: "((1, 2, (), 4, {'d': 5}), (1, 2, (3, 4), 3, {}))"},
		{name: "closures and nonlocal", src: "def counter():\n    n = 0\n    def inc():\n        nonlocal n\n        n += 1\n        return n\n    return inc\nc = counter()\nc()\nresult = c()", want: "2"},
		{name: "global", src: "n = 1\ndef f():\n    global n\n    n = 5\nf()\nresult = n", want: "5"},
		{name: "recursion", src: "def fact(n):\n    return 1 if n <= 1 else n * fact(n - 1)\nresult = fact(10)", want: "3628800"},
		{name: "lambda and sorted", src: "result = sorted(['bb', 'a', 'ccc'], key=lambda s: -len(s))", want: "['ccc', 'bb', 'a']"},
		{name: "generator function", src: "def gen(n):\n    for i in range(n):\n        yield i * i\nresult = list(gen(4))", want: "[0, 1, 4, 9]"},
		{name: "yield from", src: "def inner():\n    yield 1\n    yield 2\ndef outer():\n    yield 0\n    yield from inner()\nresult = list(outer())", want: "[0, 1, 2]"},
		{name: "generator expression", src: "result = sum(x for x in range(5))", want: "10"},
		{name: "break out of generator", src: "def gen():\n    i = 0\n    while True:\n        yield i\n        i += 1\nfor v in gen():\n    if v == 3:\n        break\nresult = v", want: "3"},
		{name: "next with default", src: "a = iter([1])\nresult = next(a), next(a, 'done')", want: "(1, 'done')"},
		{name: "enumerate and zip", src: "result = list(enumerate('ab', 1)), list(zip([1, 2], 'xyz'))", want: "([(1, 'a'), (2, 'b')], [(1, 'x'), (2, 'y')])"},
		{name: "string methods", src: "result = ' a b '.split(), 'a,b'.split(','), '-'.join(['x', 'y']), ' x '.strip(), 'Ab'.upper(), 'x'.startswith(('a', 'x'))", want: "(['a', 'b'], ['a', 'b'], 'x-y', 'x', 'AB', True)"},
		{name: "str format", src: "result = '{} {name}!{0:>3}|{1:.2f}'.format('hi', 3.14159, name='you')", want: "'hi you! hi|3.14'"},
		{name: "percent format", src: "result = '%s=%d %05.1f' % ('a', 3, 2.5)", want: "'a=3 002.5'"},
		{name: "percent format mapping", src: "result = '%(x)s-%(y)r' % {'x': 1, 'y': 'z'}", want: "\"1-'z'\""},
		{name: "dict methods", src: "d = {'a': 1}\nd.setdefault('b', 2)\nd.update(c=3)\nresult = d.get('z', 0), d.pop('a'), list(d.items())", want: "(0, 1, [('b', 2), ('c', 3)])"},
		{name: "list methods", src: "a = [3, 1, 2]\na.append(0)\na.sort()\na.insert(0, 9)\na.remove(2)\nresult = a, a.pop(), a.index(1)", want: "([9, 0, 1], 3, 2)"},
		{name: "encode and decode", src: "result = 'ą'.encode('iso-8859-2'), b'\\xb1'.decode('iso-8859-2')", want: "(b'\\xb1', 'ą')"},
		{name: "exception args", src: "result = ValueError('hello').args", want: "('hello',)"},
		{name: "min max with key", src: "result = min([3, 1, 2]), max('ab', 'c', key=len)", want: "(1, 'ab')"},
		{name: "int and float parsing", src: "result = int('42'), int('ff', 16), float('1.5'), int(2.9), round(2.5), round(0.125, 2)", want: "(42, 255, 1.5, 2, 2, 0.12)"},
		{name: "star call arguments", src: "def f(*a, **k):\n    return a, k\nresult = f(*[1, 2], **{'x': 3})", want: "((1, 2), {'x': 3})"},
		{name: "del", src: "a = [1, 2, 3]\ndel a[0]\nd = {'k': 1}\ndel d['k']\nresult = a, d", want: "([2, 3], {})"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Repr(run(t, tc.src)))
		})
	}
}

func TestExecExceptions(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		typ  *ExceptionType
		msg  string
	}{
		{name: "raise instance", src: "raise ValueError('hello')", typ: ValueError, msg: "ValueError: hello"},
		{name: "raise class", src: "raise KeyError", typ: KeyError, msg: "KeyError"},
		{name: "name error", src: "x", typ: NameError, msg: "NameError: name 'x' is not defined"},
		{name: "zero division", src: "1 // 0", typ: ZeroDivisionError},
		{name: "index error is a lookup error", src: "[][0]", typ: LookupError},
		{name: "missing key", src: "{}['a']", typ: KeyError, msg: "KeyError: a"},
		{name: "bad call", src: "def f(a): pass\nf()", typ: TypeError},
		{name: "not callable", src: "1()", typ: TypeError, msg: "TypeError: 'int' object is not callable"},
		{name: "unhashable", src: "{[]: 1}", typ: TypeError},
		{name: "stop iteration escapes next", src: "next(iter([]))", typ: StopIteration},
		{name: "stop iteration inside generator", src: "def g():\n    yield next(iter([]))\nlist(g())", typ: RuntimeError},
		{name: "recursion limit", src: "def f():\n    return f()\nf()", typ: RecursionError},
		{name: "assert", src: "assert 1 == 2, 'nope'", typ: AssertionError, msg: "AssertionError: nope"},
		{name: "import", src: "import os", typ: ImportError},
		{name: "attribute", src: "(1).foo", typ: AttributeError},
		{name: "unpack mismatch", src: "a, b = [1]", typ: ValueError},
		{name: "comparison across types", src: "1 < 'a'", typ: TypeError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := runError(t, tc.src)
			require.True(t, IsException(err, tc.typ), "got %v", err)
			if tc.msg != "" {
				require.EqualError(t, err, tc.msg)
			}
		})
	}
}

type attrObject struct {
	attrs map[string]Value
}

func (o *attrObject) GetAttr(name string) (Value, error) {
	if v, ok := o.attrs[name]; ok {
		return v, nil
	}
	return nil, Errorf(AttributeError, "no attribute %s", name)
}

func TestExecWithGoValues(t *testing.T) {
	mod, err := ParseModule("def f(obj):\n    return obj.greet('x') + obj.suffix\n")
	require.NoError(t, err)

	globals := NewNamespace(nil)
	require.NoError(t, Exec(mod, globals))
	fn, ok := globals.Get("f")
	require.True(t, ok)

	obj := &attrObject{attrs: map[string]Value{
		"suffix": "!",
		"greet": NewBuiltin("greet", func(args []Value, kwargs []Keyword) (Value, error) {
			return "hi " + Str(args[0]), nil
		}),
	}}
	v, err := Call(fn, []Value{obj}, nil)
	require.NoError(t, err)
	require.Equal(t, "hi x!", v)

	has, err := Call(mustBuiltin(t, "hasattr"), []Value{obj, "missing"}, nil)
	require.NoError(t, err)
	require.Equal(t, false, has)
}

func mustBuiltin(t *testing.T, name string) Value {
	t.Helper()
	v, ok := builtins[name]
	require.True(t, ok)
	return v
}

func TestGeneratorCloseUnwindsBody(t *testing.T) {
	mod, err := ParseModule("def gen():\n    yield 1\n    yield 2\n")
	require.NoError(t, err)
	globals := NewNamespace(nil)
	require.NoError(t, Exec(mod, globals))
	fn, _ := globals.Get("gen")

	v, err := Call(fn, nil, nil)
	require.NoError(t, err)
	gen := v.(*Generator)

	first, ok, err := gen.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), first)

	gen.Close()
	_, ok, err = gen.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCallPassesKeywords(t *testing.T) {
	v := run(t, "def f(a, b=1, **kw):\n    return a + b + kw.get('c', 0)\nresult = f(1, c=5) + f(a=1, b=2)")
	require.Equal(t, int64(10), v)
}

func TestEval(t *testing.T) {
	e, err := ParseExpression("a + 1")
	require.NoError(t, err)
	v, err := Eval(e, NewNamespace(map[string]Value{"a": int64(41)}))
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestFormatFloat(t *testing.T) {
	require.Equal(t, "100.0", formatFloat(100))
	require.Equal(t, "0.0001", formatFloat(0.0001))
	require.Equal(t, "1e-05", formatFloat(0.00001))
	require.Equal(t, "-inf", formatFloat(-1/zero()))
}

func zero() float64 { return 0 }
