package script

import (
	"errors"
	"iter"
	"unicode/utf8"
)

// Range is an arithmetic progression of integers.
type Range struct {
	Start, Stop, Step int64
}

// Len returns the number of elements.
func (r *Range) Len() int64 {
	switch {
	case r.Step > 0 && r.Start < r.Stop:
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	case r.Step < 0 && r.Start > r.Stop:
		return (r.Start - r.Stop - r.Step - 1) / -r.Step
	}
	return 0
}

// At returns the i-th element. i must be within bounds.
func (r *Range) At(i int64) int64 {
	return r.Start + i*r.Step
}

// Closer is implemented by iterators holding resources until exhausted, such as
// suspended generators.
type Closer interface {
	Close()
}

// Iterator is a one-shot iterator over host values.
type Iterator struct {
	next  func() (Value, bool, error)
	close func()
}

// NewIterator wraps a Go step function into an iterator.
func NewIterator(next func() (Value, bool, error)) *Iterator {
	return &Iterator{next: next}
}

// NewClosingIterator is [NewIterator] with close called once when the iterator is closed.
func NewClosingIterator(next func() (Value, bool, error), close func()) *Iterator {
	return &Iterator{next: next, close: close}
}

// Next returns the next value, or false when the iterator is exhausted.
func (it *Iterator) Next() (Value, bool, error) {
	return it.next()
}

// Close releases the iterator. Later calls do nothing.
func (it *Iterator) Close() {
	if it.close != nil {
		c := it.close
		it.close = nil
		c()
	}
}

// errGeneratorClosed unwinds a generator body whose consumer stopped pulling.
var errGeneratorClosed = errors.New("generator closed")

// Generator is a suspended function body that yields values on demand.
type Generator struct {
	name string
	next func() (Value, bool)
	stop func()
	err  error
	done bool
}

// newGenerator runs body lazily. body receives a yield callback that returns false
// when the consumer has gone away, in which case body must return errGeneratorClosed.
func newGenerator(name string, body func(yield func(Value) bool) error) *Generator {
	g := &Generator{name: name}
	seq := iter.Seq[Value](func(yield func(Value) bool) {
		err := body(yield)
		if err != nil && !errors.Is(err, errGeneratorClosed) {
			g.err = err
		}
	})
	g.next, g.stop = iter.Pull(seq)
	return g
}

// Next resumes the generator until its next yield.
func (g *Generator) Next() (Value, bool, error) {
	if g.done {
		return nil, false, nil
	}
	v, ok := g.next()
	if !ok {
		g.done = true
		g.stop()
		if err := g.err; err != nil {
			g.err = nil
			return nil, false, err
		}
		return nil, false, nil
	}
	return v, true, nil
}

// Close abandons the generator, unwinding its body.
func (g *Generator) Close() {
	if !g.done {
		g.done = true
		g.stop()
	}
}

// Stepper is implemented by iterators and generators.
type Stepper interface {
	Next() (Value, bool, error)
}

// Iter returns an iterator over v, or a TypeError if v is not iterable.
func Iter(v Value) (Stepper, error) {
	switch v := v.(type) {
	case *Iterator:
		return v, nil
	case *Generator:
		return v, nil
	case *List:
		i := 0
		return NewIterator(func() (Value, bool, error) {
			if i >= len(v.Items) {
				return nil, false, nil
			}
			i++
			return v.Items[i-1], true, nil
		}), nil
	case Tuple:
		return sliceIterator(v), nil
	case string:
		i := 0
		return NewIterator(func() (Value, bool, error) {
			if i >= len(v) {
				return nil, false, nil
			}
			_, size := utf8.DecodeRuneInString(v[i:])
			i += size
			return v[i-size : i], true, nil
		}), nil
	case Bytes:
		i := 0
		return NewIterator(func() (Value, bool, error) {
			if i >= len(v) {
				return nil, false, nil
			}
			i++
			return int64(v[i-1]), true, nil
		}), nil
	case *Dict:
		return sliceIterator(v.Keys()), nil
	case *Set:
		return sliceIterator(v.Items()), nil
	case *Range:
		var i int64
		n := v.Len()
		return NewIterator(func() (Value, bool, error) {
			if i >= n {
				return nil, false, nil
			}
			i++
			return v.At(i - 1), true, nil
		}), nil
	}
	return nil, Errorf(TypeError, "'%s' object is not iterable", TypeName(v))
}

func sliceIterator(items []Value) *Iterator {
	i := 0
	return NewIterator(func() (Value, bool, error) {
		if i >= len(items) {
			return nil, false, nil
		}
		i++
		return items[i-1], true, nil
	})
}

// ForEach iterates over v, stopping early when fn returns false.
func ForEach(v Value, fn func(Value) (bool, error)) error {
	it, err := Iter(v)
	if err != nil {
		return err
	}
	for {
		item, ok, err := it.Next()
		if err != nil || !ok {
			return err
		}
		more, err := fn(item)
		if err != nil {
			if g, isGen := it.(*Generator); isGen {
				g.Close()
			}
			return err
		}
		if !more {
			if g, isGen := it.(*Generator); isGen {
				g.Close()
			}
			return nil
		}
	}
}

// ToSlice collects the elements of an iterable.
func ToSlice(v Value) ([]Value, error) {
	switch v := v.(type) {
	case Tuple:
		return append([]Value(nil), v...), nil
	case *List:
		return append([]Value(nil), v.Items...), nil
	}
	var items []Value
	err := ForEach(v, func(item Value) (bool, error) {
		items = append(items, item)
		return true, nil
	})
	return items, err
}
