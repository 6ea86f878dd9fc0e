// Package ui provides a small declarative element tree for dashboard layouts.
//
// A layout is a tree of [*Node] values built once at page load time and never
// mutated afterwards. Values that change at runtime (a slider's value, the
// children of a content slot, a graph's figure) are not written into the tree;
// they travel in a [State] attached to the render context with [WithState], so
// one layout can be rendered concurrently for many requests.
//
// Every Node implements [templ.Component] and can be rendered anywhere a templ
// component is accepted.
package ui

import (
	"iter"
	"maps"
)

// Kind selects how a Node renders.
type Kind string

const (
	KindElement    Kind = "element"
	KindText       Kind = "text"
	KindLocation   Kind = "location"
	KindLink       Kind = "link"
	KindGraph      Kind = "graph"
	KindSlider     Kind = "slider"
	KindDropdown   Kind = "dropdown"
	KindRadioItems Kind = "radioitems"
	KindMarkdown   Kind = "markdown"
)

// Node is one element of a layout tree.
type Node struct {
	Kind     Kind
	Tag      string // html tag for KindElement
	ID       string
	Props    map[string]any
	Children []*Node
}

// WithID sets the element ID. It is meant to be used while building a layout.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// With sets a property. It is meant to be used while building a layout.
func (n *Node) With(prop string, value any) *Node {
	if n.Props == nil {
		n.Props = make(map[string]any)
	}
	n.Props[prop] = value
	return n
}

// Prop returns the static value of a property.
func (n *Node) Prop(name string) (any, bool) {
	v, ok := n.Props[name]
	return v, ok
}

// All iterates over the static tree depth first, starting with n.
func (n *Node) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walk(n, yield)
	}
}

func walk(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}

// Find returns the first node in the static tree with the given ID.
func (n *Node) Find(id string) *Node {
	for c := range n.All() {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// IDs lists the IDs declared in the static tree, in document order.
func (n *Node) IDs() []string {
	var ids []string
	for c := range n.All() {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Prop addresses a single reactive value: one property of one element.
type Prop struct {
	ID       string
	Property string
}

func (p Prop) String() string {
	return p.ID + "." + p.Property
}

// State holds current property values keyed by Prop.
type State map[Prop]any

// Clone returns a shallow copy of s. A nil State clones to an empty one.
func (s State) Clone() State {
	out := make(State, len(s))
	maps.Copy(out, s)
	return out
}

// Get returns the value of id.property.
func (s State) Get(id, property string) (any, bool) {
	v, ok := s[Prop{ID: id, Property: property}]
	return v, ok
}

// Set stores the value of id.property.
func (s State) Set(id, property string, v any) {
	s[Prop{ID: id, Property: property}] = v
}
