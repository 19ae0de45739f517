// Package namespace folds parsed function signatures into a module
// tree. Qualified names are split on :: and each intermediate segment
// becomes a nested node; the final segment becomes a function leaf.
//
// Children and functions keep insertion order (first seen), so for a
// fixed input order every downstream walk is deterministic. The tree is
// built once per generation run and read-only afterwards.
package namespace

import (
	"github.com/leapstack-labs/surbind/pkg/parser"
)

// Node is one level of the namespace tree. The root node has an empty
// name.
type Node struct {
	Name string

	children   map[string]*Node
	childOrder []string

	funcs     map[string]*parser.FunctionSignature
	funcOrder []string
}

// newNode creates an empty node with the given segment name.
func newNode(name string) *Node {
	return &Node{
		Name:     name,
		children: map[string]*Node{},
		funcs:    map[string]*parser.FunctionSignature{},
	}
}

// Build folds the full ordered signature list into a tree. It fails
// with a DuplicateFunctionError when two signatures share a qualified
// name, and with an AmbiguousPathError when a name would require a
// segment to be both a function leaf and a sub-module.
func Build(sigs []*parser.FunctionSignature) (*Node, error) {
	root := newNode("")
	for _, sig := range sigs {
		if err := root.insert(sig); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// insert walks/creates intermediate nodes and places sig at its leaf.
func (n *Node) insert(sig *parser.FunctionSignature) error {
	cur := n
	for _, seg := range sig.Name[:len(sig.Name)-1] {
		if _, isFunc := cur.funcs[seg]; isFunc {
			return &AmbiguousPathError{Name: sig.QualifiedName(), Segment: seg}
		}
		child, ok := cur.children[seg]
		if !ok {
			child = newNode(seg)
			cur.children[seg] = child
			cur.childOrder = append(cur.childOrder, seg)
		}
		cur = child
	}

	leaf := sig.Leaf()
	if _, isModule := cur.children[leaf]; isModule {
		return &AmbiguousPathError{Name: sig.QualifiedName(), Segment: leaf}
	}
	if existing, ok := cur.funcs[leaf]; ok {
		return &DuplicateFunctionError{
			Name:   sig.QualifiedName(),
			First:  existing.Origin,
			Second: sig.Origin,
		}
	}
	cur.funcs[leaf] = sig
	cur.funcOrder = append(cur.funcOrder, leaf)
	return nil
}

// Children returns the child modules in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.childOrder))
	for _, name := range n.childOrder {
		out = append(out, n.children[name])
	}
	return out
}

// Child returns the named child module, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// Functions returns the node's function leaves in insertion order.
func (n *Node) Functions() []*parser.FunctionSignature {
	out := make([]*parser.FunctionSignature, 0, len(n.funcOrder))
	for _, name := range n.funcOrder {
		out = append(out, n.funcs[name])
	}
	return out
}

// Function returns the named function leaf, or nil.
func (n *Node) Function(name string) *parser.FunctionSignature {
	return n.funcs[name]
}

// Walk visits every function leaf, self then children, in insertion
// order. path holds the module segments from the root down to (but not
// including) the leaf.
func (n *Node) Walk(visit func(path []string, sig *parser.FunctionSignature)) {
	n.walk(nil, visit)
}

func (n *Node) walk(path []string, visit func(path []string, sig *parser.FunctionSignature)) {
	for _, name := range n.funcOrder {
		visit(path, n.funcs[name])
	}
	for _, name := range n.childOrder {
		// Copy so a visitor can retain the path slice.
		childPath := make([]string, 0, len(path)+1)
		childPath = append(childPath, path...)
		childPath = append(childPath, name)
		n.children[name].walk(childPath, visit)
	}
}

// Count returns the total number of functions in the subtree.
func (n *Node) Count() int {
	total := len(n.funcOrder)
	for _, name := range n.childOrder {
		total += n.children[name].Count()
	}
	return total
}
