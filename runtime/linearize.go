package runtime

import (
	"fmt"
	"strings"
)

// InheritanceErrorKind tells why a linearization failed.
type InheritanceErrorKind int

const (
	// InheritanceCycle means a template inherits from itself, directly or not.
	InheritanceCycle InheritanceErrorKind = iota + 1
	// InheritanceConflict means the parents' orders cannot be merged consistently.
	InheritanceConflict
)

func (k InheritanceErrorKind) String() string {
	switch k {
	case InheritanceCycle:
		return "InheritanceCycle"
	case InheritanceConflict:
		return "InheritanceConflict"
	}
	return fmt.Sprintf("InheritanceErrorKind(%d)", int(k))
}

// InheritanceError is returned by [Linearize]. Chain lists the elements involved,
// as text, starting with the element whose linearization failed.
type InheritanceError struct {
	Kind  InheritanceErrorKind
	Chain []string
}

func (e *InheritanceError) Error() string {
	switch e.Kind {
	case InheritanceCycle:
		return "inheritance cycle: " + strings.Join(e.Chain, " -> ")
	default:
		return "cannot create a consistent inheritance order for " + strings.Join(e.Chain, ", ")
	}
}

// Linearize computes the C3 linearization of root: root itself followed by its
// ancestors, every element before its parents and parents in declaration order.
func Linearize[T comparable](root T, parents func(T) ([]T, error)) ([]T, error) {
	l := &linearizer[T]{
		parents: parents,
		done:    map[T][]T{},
		active:  map[T]bool{},
	}
	return l.linearize(root)
}

type linearizer[T comparable] struct {
	parents func(T) ([]T, error)
	done    map[T][]T
	active  map[T]bool
	path    []T
}

func (l *linearizer[T]) linearize(x T) ([]T, error) {
	if mro, ok := l.done[x]; ok {
		return mro, nil
	}
	if l.active[x] {
		return nil, &InheritanceError{Kind: InheritanceCycle, Chain: l.cycle(x)}
	}
	l.active[x] = true
	l.path = append(l.path, x)
	defer func() {
		delete(l.active, x)
		l.path = l.path[:len(l.path)-1]
	}()

	ps, err := l.parents(x)
	if err != nil {
		return nil, err
	}

	seqs := make([][]T, 0, len(ps)+1)
	for _, p := range ps {
		mro, err := l.linearize(p)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, mro)
	}
	seqs = append(seqs, ps)

	merged, ok := merge(seqs)
	if !ok {
		chain := []string{fmt.Sprint(x)}
		for _, p := range ps {
			chain = append(chain, fmt.Sprint(p))
		}
		return nil, &InheritanceError{Kind: InheritanceConflict, Chain: chain}
	}

	mro := append([]T{x}, merged...)
	l.done[x] = mro
	return mro, nil
}

// cycle returns the part of the current path from x onwards, closed with x.
func (l *linearizer[T]) cycle(x T) []string {
	var chain []string
	for i, e := range l.path {
		if e == x {
			for _, c := range l.path[i:] {
				chain = append(chain, fmt.Sprint(c))
			}
			break
		}
	}
	return append(chain, fmt.Sprint(x))
}

func merge[T comparable](seqs [][]T) ([]T, bool) {
	// seqs are only resliced, the memoized linearizations are never written
	work := make([][]T, 0, len(seqs))
	for _, s := range seqs {
		if len(s) > 0 {
			work = append(work, s)
		}
	}

	var out []T
	for len(work) > 0 {
		var head T
		found := false
		for _, s := range work {
			if !inTail(work, s[0]) {
				head, found = s[0], true
				break
			}
		}
		if !found {
			return nil, false
		}
		out = append(out, head)

		next := work[:0]
		for _, s := range work {
			if s[0] == head {
				s = s[1:]
			}
			if len(s) > 0 {
				next = append(next, s)
			}
		}
		work = next
	}
	return out, true
}

func inTail[T comparable](seqs [][]T, x T) bool {
	for _, s := range seqs {
		for _, e := range s[1:] {
			if e == x {
				return true
			}
		}
	}
	return false
}
