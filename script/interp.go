package script

import (
	"errors"
	"fmt"
)

// maxCallDepth bounds host-language recursion.
const maxCallDepth = 200

type control int

const (
	ctrlNone control = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
)

// scope is a function (or comprehension) activation. Module-level code runs
// in a scope without vars, writing straight into the globals.
type scope struct {
	vars      map[string]Value
	outer     *scope
	globals   *Namespace
	global    map[string]bool
	nonlocals map[string]bool
}

func (sc *scope) lookup(name string) (Value, error) {
	if sc.global == nil || !sc.global[name] {
		for cur := sc; cur != nil && cur.vars != nil; cur = cur.outer {
			if v, ok := cur.vars[name]; ok {
				return v, nil
			}
		}
	}
	if v, ok := sc.globals.Get(name); ok {
		return v, nil
	}
	if v, ok := builtins[name]; ok {
		return v, nil
	}
	return nil, Errorf(NameError, "name '%s' is not defined", name)
}

func (sc *scope) assign(name string, v Value) {
	switch {
	case sc.vars == nil || sc.global[name]:
		sc.globals.Set(name, v)
	case sc.nonlocals[name]:
		for cur := sc.outer; cur != nil && cur.vars != nil; cur = cur.outer {
			if _, ok := cur.vars[name]; ok {
				cur.vars[name] = v
				return
			}
		}
		sc.vars[name] = v
	default:
		sc.vars[name] = v
	}
}

func (sc *scope) remove(name string) error {
	if sc.vars == nil || sc.global[name] {
		if sc.globals.Delete(name) {
			return nil
		}
	} else if _, ok := sc.vars[name]; ok {
		delete(sc.vars, name)
		return nil
	}
	return Errorf(NameError, "name '%s' is not defined", name)
}

func (sc *scope) child() *scope {
	outer := sc
	if sc.vars == nil {
		outer = nil
	}
	return &scope{vars: map[string]Value{}, outer: outer, globals: sc.globals}
}

// frame is the execution state of one running body.
type frame struct {
	sc    *scope
	depth int
	// yield is set while running a generator body.
	yield func(Value) bool
}

// Exec runs a module, storing its top-level definitions in globals.
func Exec(mod *Module, globals *Namespace) error {
	fr := &frame{sc: &scope{globals: globals}}
	ctrl, _, err := fr.execBlock(mod.Body)
	if err != nil {
		return err
	}
	if ctrl == ctrlReturn {
		return Errorf(RuntimeError, "'return' outside function")
	}
	return nil
}

// Eval evaluates a single expression against globals.
func Eval(e Expr, globals *Namespace) (Value, error) {
	fr := &frame{sc: &scope{globals: globals}}
	return fr.eval(e)
}

// Function is a host-language function or lambda.
type Function struct {
	Name string

	args       *Arguments
	defaults   []Value
	kwDefaults map[string]Value
	body       []Stmt
	lambda     Expr
	closure    *scope
	globals    *Namespace
	generator  bool
}

func (f *Function) Call(args []Value, kwargs []Keyword) (Value, error) {
	return f.call(0, args, kwargs)
}

func (f *Function) call(depth int, args []Value, kwargs []Keyword) (Value, error) {
	if depth > maxCallDepth {
		return nil, Errorf(RecursionError, "maximum recursion depth exceeded")
	}

	sc := &scope{vars: map[string]Value{}, outer: f.closure, globals: f.globals}
	if err := f.bind(sc.vars, args, kwargs); err != nil {
		return nil, err
	}
	fr := &frame{sc: sc, depth: depth}

	if f.lambda != nil {
		return fr.eval(f.lambda)
	}

	if f.generator {
		return newGenerator(f.Name, func(yield func(Value) bool) error {
			fr.yield = yield
			_, _, err := fr.execBlock(f.body)
			if IsException(err, StopIteration) {
				return Errorf(RuntimeError, "generator raised StopIteration")
			}
			return err
		}), nil
	}

	ctrl, v, err := fr.execBlock(f.body)
	if err != nil {
		return nil, err
	}
	if ctrl == ctrlReturn {
		return v, nil
	}
	return nil, nil
}

// bind assigns call arguments to parameters.
func (f *Function) bind(vars map[string]Value, args []Value, kwargs []Keyword) error {
	params := f.args.Params
	n := len(args)
	if n > len(params) {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		vars[params[i].Name] = args[i]
	}

	if len(args) > len(params) {
		if f.args.Vararg == "" {
			return Errorf(TypeError, "%s() takes %d positional arguments but %d were given", f.Name, len(params), len(args))
		}
		vars[f.args.Vararg] = Tuple(append([]Value(nil), args[len(params):]...))
	} else if f.args.Vararg != "" {
		vars[f.args.Vararg] = Tuple{}
	}

	var extra *Dict
	if f.args.Kwarg != "" {
		extra = NewDict()
		vars[f.args.Kwarg] = extra
	}

	for _, kw := range kwargs {
		known := false
		for i, p := range params {
			if p.Name == kw.Name {
				if i < len(args) {
					return Errorf(TypeError, "%s() got multiple values for argument '%s'", f.Name, kw.Name)
				}
				known = true
			}
		}
		for _, p := range f.args.KwOnly {
			if p.Name == kw.Name {
				known = true
			}
		}
		if !known {
			if extra == nil {
				return Errorf(TypeError, "%s() got an unexpected keyword argument '%s'", f.Name, kw.Name)
			}
			extra.SetString(kw.Name, kw.Value)
			continue
		}
		if _, dup := vars[kw.Name]; dup {
			return Errorf(TypeError, "%s() got multiple values for argument '%s'", f.Name, kw.Name)
		}
		vars[kw.Name] = kw.Value
	}

	firstDefault := len(params) - len(f.defaults)
	for i, p := range params {
		if _, ok := vars[p.Name]; ok {
			continue
		}
		if i >= firstDefault {
			vars[p.Name] = f.defaults[i-firstDefault]
			continue
		}
		return Errorf(TypeError, "%s() missing required positional argument: '%s'", f.Name, p.Name)
	}
	for _, p := range f.args.KwOnly {
		if _, ok := vars[p.Name]; ok {
			continue
		}
		if v, ok := f.kwDefaults[p.Name]; ok {
			vars[p.Name] = v
			continue
		}
		return Errorf(TypeError, "%s() missing required keyword-only argument: '%s'", f.Name, p.Name)
	}
	return nil
}

// Call invokes any callable value.
func Call(fn Value, args []Value, kwargs []Keyword) (Value, error) {
	return callValue(0, fn, args, kwargs)
}

func callValue(depth int, fn Value, args []Value, kwargs []Keyword) (Value, error) {
	switch f := fn.(type) {
	case *Function:
		return f.call(depth+1, args, kwargs)
	case Callable:
		return f.Call(args, kwargs)
	}
	return nil, Errorf(TypeError, "'%s' object is not callable", TypeName(fn))
}

func (fr *frame) makeFunction(name string, args *Arguments, body []Stmt, lambda Expr, generator bool) (*Function, error) {
	f := &Function{
		Name:      name,
		args:      args,
		body:      body,
		lambda:    lambda,
		globals:   fr.sc.globals,
		generator: generator,
	}
	if fr.sc.vars != nil {
		f.closure = fr.sc
	}
	for _, p := range args.Params {
		if p.Default == nil {
			continue
		}
		v, err := fr.eval(p.Default)
		if err != nil {
			return nil, err
		}
		f.defaults = append(f.defaults, v)
	}
	for _, p := range args.KwOnly {
		if p.Default == nil {
			continue
		}
		v, err := fr.eval(p.Default)
		if err != nil {
			return nil, err
		}
		if f.kwDefaults == nil {
			f.kwDefaults = map[string]Value{}
		}
		f.kwDefaults[p.Name] = v
	}
	return f, nil
}

func (fr *frame) execBlock(body []Stmt) (control, Value, error) {
	for _, stmt := range body {
		ctrl, v, err := fr.exec(stmt)
		if err != nil || ctrl != ctrlNone {
			return ctrl, v, err
		}
	}
	return ctrlNone, nil, nil
}

func (fr *frame) exec(stmt Stmt) (control, Value, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := fr.eval(s.X)
		return ctrlNone, nil, err

	case *Assign:
		v, err := fr.eval(s.Value)
		if err != nil {
			return ctrlNone, nil, err
		}
		for _, target := range s.Targets {
			if err := fr.assign(target, v); err != nil {
				return ctrlNone, nil, err
			}
		}
		return ctrlNone, nil, nil

	case *AugAssign:
		return ctrlNone, nil, fr.augAssign(s)

	case *If:
		test, err := fr.eval(s.Test)
		if err != nil {
			return ctrlNone, nil, err
		}
		if Truthy(test) {
			return fr.execBlock(s.Body)
		}
		return fr.execBlock(s.OrElse)

	case *While:
		for {
			test, err := fr.eval(s.Test)
			if err != nil {
				return ctrlNone, nil, err
			}
			if !Truthy(test) {
				return fr.execBlock(s.OrElse)
			}
			ctrl, v, err := fr.execBlock(s.Body)
			if err != nil {
				return ctrlNone, nil, err
			}
			switch ctrl {
			case ctrlBreak:
				return ctrlNone, nil, nil
			case ctrlReturn:
				return ctrl, v, nil
			}
		}

	case *For:
		return fr.execFor(s)

	case *Break:
		return ctrlBreak, nil, nil

	case *Continue:
		return ctrlContinue, nil, nil

	case *Pass:
		return ctrlNone, nil, nil

	case *Return:
		if s.Value == nil {
			return ctrlReturn, nil, nil
		}
		v, err := fr.eval(s.Value)
		return ctrlReturn, v, err

	case *FunctionDef:
		f, err := fr.makeFunction(s.Name, s.Args, s.Body, nil, s.IsGenerator)
		if err != nil {
			return ctrlNone, nil, err
		}
		fr.sc.assign(s.Name, f)
		return ctrlNone, nil, nil

	case *Raise:
		return ctrlNone, nil, fr.raise(s)

	case *Assert:
		test, err := fr.eval(s.Test)
		if err != nil || Truthy(test) {
			return ctrlNone, nil, err
		}
		exc := &Exception{Type: AssertionError}
		if s.Msg != nil {
			msg, err := fr.eval(s.Msg)
			if err != nil {
				return ctrlNone, nil, err
			}
			exc.Args = []Value{msg}
		}
		return ctrlNone, nil, exc

	case *Delete:
		for _, target := range s.Targets {
			if err := fr.delete(target); err != nil {
				return ctrlNone, nil, err
			}
		}
		return ctrlNone, nil, nil

	case *Global:
		if fr.sc.global == nil {
			fr.sc.global = map[string]bool{}
		}
		for _, name := range s.Names {
			fr.sc.global[name] = true
		}
		return ctrlNone, nil, nil

	case *Nonlocal:
		if fr.sc.vars == nil {
			return ctrlNone, nil, Errorf(RuntimeError, "nonlocal declaration not allowed at module level")
		}
		if fr.sc.nonlocals == nil {
			fr.sc.nonlocals = map[string]bool{}
		}
		for _, name := range s.Names {
			fr.sc.nonlocals[name] = true
		}
		return ctrlNone, nil, nil

	case *Import:
		return ctrlNone, nil, Errorf(ImportError, "imports are not available in templates: %s", s.Module)
	}
	return ctrlNone, nil, fmt.Errorf("unknown statement %T", stmt)
}

func (fr *frame) execFor(s *For) (control, Value, error) {
	iterable, err := fr.eval(s.Iter)
	if err != nil {
		return ctrlNone, nil, err
	}

	var (
		ctrl   control
		result Value
		broke  bool
	)
	err = ForEach(iterable, func(item Value) (bool, error) {
		if err := fr.assign(s.Target, item); err != nil {
			return false, err
		}
		c, v, err := fr.execBlock(s.Body)
		if err != nil {
			return false, err
		}
		switch c {
		case ctrlBreak:
			broke = true
			return false, nil
		case ctrlReturn:
			ctrl, result = c, v
			return false, nil
		}
		return true, nil
	})
	if err != nil || ctrl == ctrlReturn {
		return ctrl, result, err
	}
	if broke {
		return ctrlNone, nil, nil
	}
	return fr.execBlock(s.OrElse)
}

func (fr *frame) raise(s *Raise) error {
	if s.Exc == nil {
		return Errorf(RuntimeError, "No active exception to reraise")
	}
	v, err := fr.eval(s.Exc)
	if err != nil {
		return err
	}
	switch exc := v.(type) {
	case *Exception:
		return exc
	case *ExceptionType:
		return &Exception{Type: exc}
	}
	return Errorf(TypeError, "exceptions must derive from BaseException")
}

func (fr *frame) augAssign(s *AugAssign) error {
	switch t := s.Target.(type) {
	case *Name:
		cur, err := fr.sc.lookup(t.ID)
		if err != nil {
			return err
		}
		v, err := fr.eval(s.Value)
		if err != nil {
			return err
		}
		res, err := inplace(s.Op, cur, v)
		if err != nil {
			return err
		}
		fr.sc.assign(t.ID, res)
		return nil

	case *Attribute:
		obj, err := fr.eval(t.Value)
		if err != nil {
			return err
		}
		cur, err := GetAttr(obj, t.Attr)
		if err != nil {
			return err
		}
		v, err := fr.eval(s.Value)
		if err != nil {
			return err
		}
		res, err := inplace(s.Op, cur, v)
		if err != nil {
			return err
		}
		return SetAttr(obj, t.Attr, res)

	case *Subscript:
		obj, err := fr.eval(t.Value)
		if err != nil {
			return err
		}
		index, err := fr.eval(t.Index)
		if err != nil {
			return err
		}
		cur, err := GetItem(obj, index)
		if err != nil {
			return err
		}
		v, err := fr.eval(s.Value)
		if err != nil {
			return err
		}
		res, err := inplace(s.Op, cur, v)
		if err != nil {
			return err
		}
		return SetItem(obj, index, res)
	}
	return Errorf(TypeError, "illegal expression for augmented assignment")
}

// inplace mutates lists for += and falls back to BinaryOp otherwise.
func inplace(op string, cur, v Value) (Value, error) {
	if l, ok := cur.(*List); ok && op == "+" {
		items, err := ToSlice(v)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, items...)
		return l, nil
	}
	return BinaryOp(op, cur, v)
}

func (fr *frame) assign(target Expr, v Value) error {
	switch t := target.(type) {
	case *Name:
		fr.sc.assign(t.ID, v)
		return nil
	case *TupleExpr:
		return fr.unpack(t.Elts, v)
	case *ListExpr:
		return fr.unpack(t.Elts, v)
	case *Starred:
		return fr.assign(t.Value, v)
	case *Attribute:
		obj, err := fr.eval(t.Value)
		if err != nil {
			return err
		}
		return SetAttr(obj, t.Attr, v)
	case *Subscript:
		obj, err := fr.eval(t.Value)
		if err != nil {
			return err
		}
		index, err := fr.eval(t.Index)
		if err != nil {
			return err
		}
		return SetItem(obj, index, v)
	}
	return Errorf(TypeError, "cannot assign to %T", target)
}

func (fr *frame) unpack(targets []Expr, v Value) error {
	items, err := ToSlice(v)
	if err != nil {
		return err
	}

	star := -1
	for i, t := range targets {
		if _, ok := t.(*Starred); ok {
			star = i
		}
	}

	if star < 0 {
		if len(items) != len(targets) {
			if len(items) > len(targets) {
				return Errorf(ValueError, "too many values to unpack (expected %d)", len(targets))
			}
			return Errorf(ValueError, "not enough values to unpack (expected %d, got %d)", len(targets), len(items))
		}
		for i, t := range targets {
			if err := fr.assign(t, items[i]); err != nil {
				return err
			}
		}
		return nil
	}

	after := len(targets) - star - 1
	if len(items) < star+after {
		return Errorf(ValueError, "not enough values to unpack (expected at least %d, got %d)", star+after, len(items))
	}
	for i := 0; i < star; i++ {
		if err := fr.assign(targets[i], items[i]); err != nil {
			return err
		}
	}
	middle := append([]Value(nil), items[star:len(items)-after]...)
	if err := fr.assign(targets[star], NewList(middle...)); err != nil {
		return err
	}
	for i := 0; i < after; i++ {
		if err := fr.assign(targets[star+1+i], items[len(items)-after+i]); err != nil {
			return err
		}
	}
	return nil
}

func (fr *frame) delete(target Expr) error {
	switch t := target.(type) {
	case *Name:
		return fr.sc.remove(t.ID)
	case *TupleExpr:
		for _, elt := range t.Elts {
			if err := fr.delete(elt); err != nil {
				return err
			}
		}
		return nil
	case *ListExpr:
		for _, elt := range t.Elts {
			if err := fr.delete(elt); err != nil {
				return err
			}
		}
		return nil
	case *Subscript:
		obj, err := fr.eval(t.Value)
		if err != nil {
			return err
		}
		index, err := fr.eval(t.Index)
		if err != nil {
			return err
		}
		return DelItem(obj, index)
	case *Attribute:
		return Errorf(AttributeError, "cannot delete attribute '%s'", t.Attr)
	}
	return Errorf(TypeError, "cannot delete %T", target)
}

func (fr *frame) eval(e Expr) (Value, error) {
	switch x := e.(type) {
	case *Constant:
		return x.Value, nil

	case *Name:
		return fr.sc.lookup(x.ID)

	case *TupleExpr:
		items, err := fr.evalElements(x.Elts)
		return Tuple(items), err

	case *ListExpr:
		items, err := fr.evalElements(x.Elts)
		if err != nil {
			return nil, err
		}
		return NewList(items...), nil

	case *SetExpr:
		items, err := fr.evalElements(x.Elts)
		if err != nil {
			return nil, err
		}
		set := NewSet()
		for _, item := range items {
			if err := set.Add(item); err != nil {
				return nil, err
			}
		}
		return set, nil

	case *DictExpr:
		return fr.evalDict(x)

	case *BinOp:
		left, err := fr.eval(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := fr.eval(x.Right)
		if err != nil {
			return nil, err
		}
		return BinaryOp(x.Op, left, right)

	case *UnaryOp:
		v, err := fr.eval(x.Operand)
		if err != nil {
			return nil, err
		}
		return UnaryOperation(x.Op, v)

	case *BoolOp:
		var v Value
		for _, operand := range x.Values {
			var err error
			v, err = fr.eval(operand)
			if err != nil {
				return nil, err
			}
			if Truthy(v) == (x.Op == "or") {
				return v, nil
			}
		}
		return v, nil

	case *Compare:
		left, err := fr.eval(x.Left)
		if err != nil {
			return nil, err
		}
		for i, op := range x.Ops {
			right, err := fr.eval(x.Comparators[i])
			if err != nil {
				return nil, err
			}
			ok, err := CompareValues(op, left, right)
			if err != nil || !ok {
				return false, err
			}
			left = right
		}
		return true, nil

	case *IfExp:
		test, err := fr.eval(x.Test)
		if err != nil {
			return nil, err
		}
		if Truthy(test) {
			return fr.eval(x.Body)
		}
		return fr.eval(x.OrElse)

	case *Lambda:
		return fr.makeFunction("<lambda>", x.Args, nil, x.Body, false)

	case *CallExpr:
		return fr.evalCall(x)

	case *Attribute:
		v, err := fr.eval(x.Value)
		if err != nil {
			return nil, err
		}
		return GetAttr(v, x.Attr)

	case *Subscript:
		v, err := fr.eval(x.Value)
		if err != nil {
			return nil, err
		}
		index, err := fr.eval(x.Index)
		if err != nil {
			return nil, err
		}
		return GetItem(v, index)

	case *Slice:
		s := &sliceValue{}
		for _, part := range []struct {
			expr Expr
			dst  *Value
		}{{x.Lower, &s.lower}, {x.Upper, &s.upper}, {x.Step, &s.step}} {
			if part.expr == nil {
				continue
			}
			v, err := fr.eval(part.expr)
			if err != nil {
				return nil, err
			}
			*part.dst = v
		}
		return s, nil

	case *ListComp:
		var items []Value
		err := fr.comprehension(x.Gens, func(sc *frame) error {
			v, err := sc.eval(x.Elt)
			items = append(items, v)
			return err
		})
		if err != nil {
			return nil, err
		}
		return NewList(items...), nil

	case *SetComp:
		set := NewSet()
		err := fr.comprehension(x.Gens, func(sc *frame) error {
			v, err := sc.eval(x.Elt)
			if err != nil {
				return err
			}
			return set.Add(v)
		})
		if err != nil {
			return nil, err
		}
		return set, nil

	case *DictComp:
		d := NewDict()
		err := fr.comprehension(x.Gens, func(sc *frame) error {
			key, err := sc.eval(x.Key)
			if err != nil {
				return err
			}
			value, err := sc.eval(x.Value)
			if err != nil {
				return err
			}
			return d.Set(key, value)
		})
		if err != nil {
			return nil, err
		}
		return d, nil

	case *GeneratorExp:
		return fr.generatorExp(x)

	case *Yield:
		var v Value
		if x.Value != nil {
			var err error
			if v, err = fr.eval(x.Value); err != nil {
				return nil, err
			}
		}
		if fr.yield == nil {
			return nil, Errorf(RuntimeError, "'yield' outside function")
		}
		if !fr.yield(v) {
			return nil, errGeneratorClosed
		}
		return nil, nil

	case *YieldFrom:
		v, err := fr.eval(x.Value)
		if err != nil {
			return nil, err
		}
		if fr.yield == nil {
			return nil, Errorf(RuntimeError, "'yield' outside function")
		}
		closed := false
		err = ForEach(v, func(item Value) (bool, error) {
			if !fr.yield(item) {
				closed = true
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			return nil, err
		}
		if closed {
			return nil, errGeneratorClosed
		}
		return nil, nil

	case *Starred:
		return nil, Errorf(TypeError, "can't use starred expression here")
	}
	return nil, fmt.Errorf("unknown expression %T", e)
}

// evalElements evaluates display elements, expanding starred items.
func (fr *frame) evalElements(elts []Expr) ([]Value, error) {
	items := make([]Value, 0, len(elts))
	for _, elt := range elts {
		if star, ok := elt.(*Starred); ok {
			v, err := fr.eval(star.Value)
			if err != nil {
				return nil, err
			}
			expanded, err := ToSlice(v)
			if err != nil {
				return nil, err
			}
			items = append(items, expanded...)
			continue
		}
		v, err := fr.eval(elt)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (fr *frame) evalDict(x *DictExpr) (Value, error) {
	d := NewDict()
	for i, keyExpr := range x.Keys {
		value, err := fr.eval(x.Values[i])
		if err != nil {
			return nil, err
		}
		if keyExpr == nil {
			other, ok := value.(*Dict)
			if !ok {
				return nil, Errorf(TypeError, "'%s' object is not a mapping", TypeName(value))
			}
			d.Update(other)
			continue
		}
		key, err := fr.eval(keyExpr)
		if err != nil {
			return nil, err
		}
		if err := d.Set(key, value); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (fr *frame) evalCall(x *CallExpr) (Value, error) {
	fn, err := fr.eval(x.Func)
	if err != nil {
		return nil, err
	}
	args, err := fr.evalElements(x.Args)
	if err != nil {
		return nil, err
	}

	var kwargs []Keyword
	for _, kw := range x.Keywords {
		v, err := fr.eval(kw.Value)
		if err != nil {
			return nil, err
		}
		if kw.Name != "" {
			kwargs = append(kwargs, Keyword{Name: kw.Name, Value: v})
			continue
		}
		d, ok := v.(*Dict)
		if !ok {
			return nil, Errorf(TypeError, "argument after ** must be a mapping, not %s", TypeName(v))
		}
		var keyErr error
		d.Range(func(key, value Value) bool {
			name, ok := key.(string)
			if !ok {
				keyErr = Errorf(TypeError, "keywords must be strings")
				return false
			}
			kwargs = append(kwargs, Keyword{Name: name, Value: value})
			return true
		})
		if keyErr != nil {
			return nil, keyErr
		}
	}
	return callValue(fr.depth, fn, args, kwargs)
}

// comprehension runs body once per combination produced by gens, in a fresh scope.
func (fr *frame) comprehension(gens []*Comprehension, body func(*frame) error) error {
	inner := &frame{sc: fr.sc.child(), depth: fr.depth, yield: fr.yield}
	return inner.runGens(gens, body)
}

func (fr *frame) runGens(gens []*Comprehension, body func(*frame) error) error {
	if len(gens) == 0 {
		return body(fr)
	}
	gen := gens[0]
	iterable, err := fr.eval(gen.Iter)
	if err != nil {
		return err
	}
	return fr.iterateGen(gen, iterable, gens[1:], body)
}

func (fr *frame) iterateGen(gen *Comprehension, iterable Value, rest []*Comprehension, body func(*frame) error) error {
	return ForEach(iterable, func(item Value) (bool, error) {
		if err := fr.assign(gen.Target, item); err != nil {
			return false, err
		}
		for _, cond := range gen.Ifs {
			ok, err := fr.eval(cond)
			if err != nil {
				return false, err
			}
			if !Truthy(ok) {
				return true, nil
			}
		}
		if err := fr.runGens(rest, body); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (fr *frame) generatorExp(x *GeneratorExp) (Value, error) {
	first, err := fr.eval(x.Gens[0].Iter)
	if err != nil {
		return nil, err
	}
	if _, err := Iter(first); err != nil {
		return nil, err
	}

	sc := fr.sc.child()
	depth := fr.depth
	return newGenerator("<genexpr>", func(yield func(Value) bool) error {
		inner := &frame{sc: sc, depth: depth, yield: yield}
		err := inner.iterateGen(x.Gens[0], first, x.Gens[1:], func(f *frame) error {
			v, err := f.eval(x.Elt)
			if err != nil {
				return err
			}
			if !yield(v) {
				return errGeneratorClosed
			}
			return nil
		})
		if IsException(err, StopIteration) {
			return Errorf(RuntimeError, "generator raised StopIteration")
		}
		return err
	}), nil
}

// AttrSetter is implemented by values that accept attribute assignment.
type AttrSetter interface {
	SetAttr(name string, v Value) error
}

// GetAttr implements v.name.
func GetAttr(v Value, name string) (Value, error) {
	if g, ok := v.(AttrGetter); ok {
		return g.GetAttr(name)
	}
	switch x := v.(type) {
	case *Exception:
		if name == "args" {
			return Tuple(append([]Value(nil), x.Args...)), nil
		}
	case *ExceptionType:
		if name == "__name__" {
			return x.Name, nil
		}
	case *Function:
		if name == "__name__" {
			return x.Name, nil
		}
	case *Builtin:
		if name == "__name__" {
			return x.Name, nil
		}
	}
	if m, ok := methodOf(v, name); ok {
		return m, nil
	}
	return nil, Errorf(AttributeError, "'%s' object has no attribute '%s'", TypeName(v), name)
}

// SetAttr implements v.name = value.
func SetAttr(v Value, name string, value Value) error {
	if s, ok := v.(AttrSetter); ok {
		return s.SetAttr(name, value)
	}
	return Errorf(AttributeError, "'%s' object has no attribute '%s'", TypeName(v), name)
}

// IsGeneratorClosed reports whether err only signals an abandoned generator.
func IsGeneratorClosed(err error) bool {
	return errors.Is(err, errGeneratorClosed)
}
