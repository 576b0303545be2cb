package structure

import (
	"fmt"
)

// RootIndex is the arena index of the root node.
const RootIndex = 0

// Tree is the document tree of a parsed template. Nodes live in an arena and are
// addressed by index. The tree is built by appending at the current node and is
// not modified after parsing.
type Tree struct {
	nodes   []Node
	current int

	// Partials lists partial nodes in declaration order.
	Partials []int

	partialByName map[string]int

	// Inheritance holds parent template expressions in declaration order.
	Inheritance []string
}

// New creates a tree holding only the root node, which is also the current node.
func New() *Tree {
	return &Tree{
		nodes: []Node{{
			Data:        &Root{},
			Parent:      -1,
			Root:        RootIndex,
			PrevSibling: -1,
			NextSibling: -1,
			FirstChild:  -1,
			LastChild:   -1,
		}},
		current:       RootIndex,
		partialByName: make(map[string]int),
	}
}

func (t *Tree) newNode(data NodeData, parent int) int {
	t.nodes = append(t.nodes, Node{
		Data:        data,
		Parent:      parent,
		Root:        RootIndex,
		PrevSibling: -1,
		NextSibling: -1,
		FirstChild:  -1,
		LastChild:   -1,
	})
	return len(t.nodes) - 1
}

// Append adds data as the last child of the current node and makes it current.
func (t *Tree) Append(data NodeData) int {
	parent := t.current
	idx := t.newNode(data, parent)

	p := &t.nodes[parent]
	if p.LastChild >= 0 {
		t.nodes[p.LastChild].NextSibling = idx
		t.nodes[idx].PrevSibling = p.LastChild
	} else {
		p.FirstChild = idx
	}
	p.LastChild = idx
	p.ChildCount++

	t.current = idx
	return idx
}

// Close moves the cursor up the given number of times, stopping at the root.
func (t *Tree) Close(times int) {
	for i := 0; i < times && t.current != RootIndex; i++ {
		t.current = t.nodes[t.current].Parent
	}
}

// OpenPartial registers a new partial and makes it current. The partial is not a child
// of the root body, but closing it returns the cursor to the root.
func (t *Tree) OpenPartial(name, params string) (int, error) {
	if _, ok := t.partialByName[name]; ok {
		return -1, fmt.Errorf("partial %q is already defined", name)
	}
	idx := t.newNode(&Partial{Name: name, Params: params}, RootIndex)
	t.partialByName[name] = idx
	t.Partials = append(t.Partials, idx)
	t.current = idx
	return idx, nil
}

// Partial returns the index of the partial declared as name.
func (t *Tree) Partial(name string) (int, bool) {
	idx, ok := t.partialByName[name]
	return idx, ok
}

// Current is the index of the node new children are appended to.
func (t *Tree) Current() int {
	return t.current
}

// Node returns the arena entry at idx.
func (t *Tree) Node(idx int) *Node {
	return &t.nodes[idx]
}

// Len is the number of nodes in the arena, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Data returns the payload of the node at idx.
func (t *Tree) Data(idx int) NodeData {
	return t.nodes[idx].Data
}

// IsContainer reports whether the node at idx may own an indented body.
// The root is not a container in this sense: its body is never indented.
func (t *Tree) IsContainer(idx int) bool {
	switch t.nodes[idx].Data.(type) {
	case *Tag, *CompoundStatement, *Partial:
		return true
	}
	return false
}

// Children returns the child indices of the node at idx in order.
func (t *Tree) Children(idx int) []int {
	n := t.nodes[idx]
	out := make([]int, 0, n.ChildCount)
	for c := n.FirstChild; c >= 0; c = t.nodes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// LastChild returns the index of the last child of the node at idx, or -1.
func (t *Tree) LastChild(idx int) int {
	return t.nodes[idx].LastChild
}

// Scope returns the top-level owner of the node at idx: the root or a partial.
func (t *Tree) Scope(idx int) int {
	for idx != RootIndex {
		if _, ok := t.nodes[idx].Data.(*Partial); ok {
			return idx
		}
		idx = t.nodes[idx].Parent
	}
	return RootIndex
}

// Tag returns the tag stored at idx.
func (t *Tree) Tag(idx int) (*Tag, bool) {
	tag, ok := t.nodes[idx].Data.(*Tag)
	return tag, ok
}

// Text returns the text stored at idx.
func (t *Tree) Text(idx int) (*Text, bool) {
	text, ok := t.nodes[idx].Data.(*Text)
	return text, ok
}
