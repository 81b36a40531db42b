package sometimes

import (
	"fmt"
	"sort"
)

// Element is a value that can appear in a tree: *Node, *DataNode or
// *Document.
type Element interface {
	render(rc *renderContext, ambient []Ambient)
	cloneElement() Element
	bind(s *Store)
}

// Attr is a single attribute pair.
type Attr struct {
	Key   string
	Value string
}

// A returns an attribute pair.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Attrs is an ordered list of attributes. Setting a key that is already
// present replaces its value in place.
type Attrs []Attr

func (a *Attrs) set(key, value string) {
	for i := range *a {
		if (*a)[i].Key == key {
			(*a)[i].Value = value
			return
		}
	}
	*a = append(*a, Attr{Key: key, Value: value})
}

func (a Attrs) get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Raw is text emitted without escaping.
type Raw string

// Node is a markup element: a tag name, ordered attributes, visibility
// conditions and an ordered list of children. Children are either Elements or
// opaque values printed with fmt.Sprint. A Node with an empty tag is an
// invisible wrapper that renders only its children.
type Node struct {
	tag        string
	attrs      Attrs
	conditions map[string]bool
	children   []any
}

// New creates a Node. Arguments are classified by type: Attr, Attrs and
// map[string]string are merged into the attributes (later keys win),
// Condition and []Condition set conditions, nil is skipped, and anything else
// is appended as a child.
func New(tag string, args ...any) *Node {
	n := &Node{tag: tag, conditions: map[string]bool{}}
	n.Append(args...)
	return n
}

// Wrap creates an invisible wrapper node.
func Wrap(args ...any) *Node {
	return New("", args...)
}

// Append classifies args exactly like New and adds them to the node.
func (n *Node) Append(args ...any) {
	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
		case Attr:
			n.attrs.set(a.Key, a.Value)
		case Attrs:
			for _, attr := range a {
				n.attrs.set(attr.Key, attr.Value)
			}
		case map[string]string:
			keys := make([]string, 0, len(a))
			for k := range a {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				n.attrs.set(k, a[k])
			}
		case Condition:
			n.conditions[a.Key] = a.Value
		case []Condition:
			for _, c := range a {
				n.conditions[c.Key] = c.Value
			}
		default:
			n.children = append(n.children, arg)
		}
	}
}

// Tag returns the tag name. It is empty for wrapper nodes.
func (n *Node) Tag() string { return n.tag }

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) { return n.attrs.get(key) }

// SetAttr sets an attribute, keeping its position if it already exists.
func (n *Node) SetAttr(key, value string) { n.attrs.set(key, value) }

// Attributes returns a copy of the attributes in insertion order.
func (n *Node) Attributes() Attrs {
	return append(Attrs(nil), n.attrs...)
}

// Condition returns the required value of the named condition.
func (n *Node) Condition(key string) (value bool, ok bool) {
	value, ok = n.conditions[key]
	return value, ok
}

// SetCondition sets a visibility requirement on the node.
func (n *Node) SetCondition(key string, value bool) { n.conditions[key] = value }

// Conditions returns a copy of the node's own conditions.
func (n *Node) Conditions() map[string]bool {
	out := make(map[string]bool, len(n.conditions))
	for k, v := range n.conditions {
		out[k] = v
	}
	return out
}

// Children returns a copy of the child list.
func (n *Node) Children() []any {
	return append([]any(nil), n.children...)
}

// ConditionsMet reports whether the node would render given the ambient
// conditions, consulting store for conditions the ambient list does not pin.
func (n *Node) ConditionsMet(store *Store, ambient ...Ambient) bool {
	return conditionsMet(n.conditions, store, ambient)
}

// Clone returns a deep copy of the node. Every descendant Element is cloned
// as well, so the copy shares no mutable state with n.
func (n *Node) Clone() *Node {
	c := &Node{
		tag:        n.tag,
		attrs:      append(Attrs(nil), n.attrs...),
		conditions: make(map[string]bool, len(n.conditions)),
		children:   make([]any, len(n.children)),
	}
	for k, v := range n.conditions {
		c.conditions[k] = v
	}
	for i, child := range n.children {
		if e, ok := child.(Element); ok {
			c.children[i] = e.cloneElement()
		} else {
			c.children[i] = child
		}
	}
	return c
}

func (n *Node) cloneElement() Element { return n.Clone() }

// Bind resolves every unbound Data node below n against store.
func (n *Node) Bind(store *Store) { n.bind(store) }

func (n *Node) bind(s *Store) {
	for _, child := range n.children {
		if e, ok := child.(Element); ok {
			e.bind(s)
		}
	}
}

// String renders the node against the global store with no ambient
// conditions.
func (n *Node) String() string {
	return String(n)
}

func (n *Node) render(rc *renderContext, ambient []Ambient) {
	if !n.ConditionsMet(rc.store, ambient...) {
		rc.skipped(n)
		return
	}
	if n.tag == "" {
		n.renderChildren(rc, ambient)
		return
	}
	rc.write("<", n.tag)
	for _, a := range n.attrs {
		rc.write(" ", a.Key, `="`, escape(a.Value), `"`)
	}
	if len(n.children) == 0 {
		rc.write(" />")
		return
	}
	rc.write(">")
	n.renderChildren(rc, ambient)
	rc.write("</", n.tag, ">")
}

func (n *Node) renderChildren(rc *renderContext, ambient []Ambient) {
	for _, child := range n.children {
		renderChild(rc, child, ambient)
	}
}

func renderChild(rc *renderContext, child any, ambient []Ambient) {
	switch c := child.(type) {
	case Element:
		c.render(rc, ambient)
	case Raw:
		rc.write(string(c))
	case string:
		rc.write(escape(c))
	default:
		rc.write(escape(fmt.Sprint(c)))
	}
}
