package lambda

import (
	"cmp"
	"slices"
)

// kind discriminates the variants of node.
type kind uint8

const (
	kindLit     kind = iota // literal
	kindArg                 // placeholder
	kindUnary               // unary
	kindBinary              // binary
	kindAttr                // attribute
	kindIndex               // index
	kindBuiltin             // builtin
	kindCall                // call
)

var kindName = [...]string{
	kindLit:     "literal",
	kindArg:     "placeholder",
	kindUnary:   "unary",
	kindBinary:  "binary",
	kindAttr:    "attribute",
	kindIndex:   "index",
	kindBuiltin: "builtin",
	kindCall:    "call",
}

func (k kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}

	return "unknown"
}

// kwarg is a keyword argument of a call node.
type kwarg struct {
	name  string
	value *node
}

// node is one element of an expression tree.
//
// Which fields are meaningful depends on kind:
//
//	kindLit      value
//	kindArg      pos
//	kindUnary    op, left
//	kindBinary   op, left, right
//	kindAttr     left, name
//	kindIndex    left (container), right (key)
//	kindBuiltin  op, left
//	kindCall     left (target), args, kwargs
//
// Nodes are never modified once constructed.
type node struct {
	value  any
	left   *node
	right  *node
	name   string
	args   []*node
	kwargs []kwarg
	pos    int
	arity  int // highest placeholder position in the subtree
	kind   kind
	op     Op
}

// nilLit is the root of the zero Expr.
var nilLit = &node{kind: kindLit}

func newLit(v any) *node {
	return &node{kind: kindLit, value: v}
}

func newArg(pos int) *node {
	return &node{kind: kindArg, pos: pos, arity: pos}
}

func newUnary(op Op, x *node) *node {
	return &node{kind: kindUnary, op: op, left: x, arity: x.arity}
}

func newBinary(op Op, x, y *node) *node {
	return &node{
		kind:  kindBinary,
		op:    op,
		left:  x,
		right: y,
		arity: max(x.arity, y.arity),
	}
}

func newAttr(x *node, name string) *node {
	return &node{kind: kindAttr, left: x, name: name, arity: x.arity}
}

func newIndex(x, key *node) *node {
	return &node{
		kind:  kindIndex,
		left:  x,
		right: key,
		arity: max(x.arity, key.arity),
	}
}

func newBuiltin(op Op, x *node) *node {
	return &node{kind: kindBuiltin, op: op, left: x, arity: x.arity}
}

func newCall(target *node, args []*node, kwargs []kwarg) *node {
	n := &node{
		kind:   kindCall,
		left:   target,
		args:   args,
		kwargs: kwargs,
		arity:  target.arity,
	}

	for _, a := range args {
		n.arity = max(n.arity, a.arity)
	}

	for _, kw := range kwargs {
		n.arity = max(n.arity, kw.value.arity)
	}

	slices.SortFunc(n.kwargs, func(a, b kwarg) int {
		return cmp.Compare(a.name, b.name)
	})

	return n
}

// children returns the direct subtrees of n in evaluation order.
func (n *node) children() []*node {
	switch n.kind {
	case kindUnary, kindAttr, kindBuiltin:
		return []*node{n.left}
	case kindBinary, kindIndex:
		return []*node{n.left, n.right}
	case kindCall:
		c := make([]*node, 0, 1+len(n.args)+len(n.kwargs))
		c = append(c, n.left)
		c = append(c, n.args...)

		for _, kw := range n.kwargs {
			c = append(c, kw.value)
		}

		return c
	default:
		return nil
	}
}
