package sometimes

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// DataNode is an invisible node whose single child is a value resolved from a
// Store when the node is bound. Binding happens once: after the first bind the
// key is cleared and later binds are no-ops, so rebinding a template requires
// a fresh clone.
//
// Like any node it may carry conditions, in which case the value is only
// emitted when they are met.
type DataNode struct {
	Node
	key    string
	source string
	bound  bool
	err    error
}

// Data returns a DataNode that resolves to the store value under key. The
// remaining arguments are classified as in New; only conditions and
// attributes are meaningful since the node has no tag of its own.
func Data(key string, args ...any) *DataNode {
	d := &DataNode{key: key}
	d.Node = *Wrap(args...)
	d.children = nil
	return d
}

// Expr returns a DataNode whose value is the expression src evaluated with
// the store entries as variables.
func Expr(src string, args ...any) *DataNode {
	d := Data("", args...)
	d.source = src
	return d
}

// Key returns the store key the node resolves, or "" once bound.
func (d *DataNode) Key() string { return d.key }

// Bound reports whether the node has been resolved.
func (d *DataNode) Bound() bool { return d.bound }

// Value returns the resolved value, or nil before binding.
func (d *DataNode) Value() any {
	if len(d.children) == 0 {
		return nil
	}
	return d.children[0]
}

// Err returns the expression error of an Expr node that failed to evaluate.
func (d *DataNode) Err() error { return d.err }

// Bind resolves the node against store. It is a no-op once the node is bound.
func (d *DataNode) Bind(store *Store) { d.bind(store) }

func (d *DataNode) bind(s *Store) {
	if d.bound {
		return
	}
	var v any
	if d.source != "" {
		v, d.err = evalExpr(d.source, s)
	} else {
		v = s.Get(d.key)
	}
	d.key, d.source, d.bound = "", "", true
	d.children = nil
	if v != nil {
		d.children = append(d.children, v)
	}
}

func evalExpr(src string, s *Store) (any, error) {
	env := s.Snapshot()
	program, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("error compiling %q: %w", src, err)
	}
	v, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", src, err)
	}
	return v, nil
}

// Clone returns a copy of the node. An unbound copy binds independently of d.
func (d *DataNode) Clone() *DataNode {
	return &DataNode{
		Node:   *d.Node.Clone(),
		key:    d.key,
		source: d.source,
		bound:  d.bound,
		err:    d.err,
	}
}

func (d *DataNode) cloneElement() Element { return d.Clone() }

// String binds the node against the global store and renders it.
func (d *DataNode) String() string {
	return String(d)
}

func (d *DataNode) render(rc *renderContext, ambient []Ambient) {
	d.bind(rc.store)
	d.Node.render(rc, ambient)
}
