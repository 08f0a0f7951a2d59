package parser

// Node is one element of a compiled template tree. Node sequences preserve
// source order and are never mutated after a parse completes.
type Node interface {
	node()
}

// TextNode is a literal run between tags, emitted verbatim.
type TextNode struct {
	Text string
}

// VariableNode interpolates the named field of the current context.
type VariableNode struct {
	Name string
}

// SectionNode brackets a sub-template rendered zero or more times depending
// on the shape of the named field. A section exclusively owns its child
// sequence and, recursively, every descendant.
type SectionNode struct {
	Name     string
	Inverted bool   // true for {{^name}}, false for {{#name}}
	RawBody  string // uncompiled body span, handed to lambda values
	Children []Node
}

// PartialNode includes another named template with the current context.
type PartialNode struct {
	Name string
}

func (TextNode) node()     {}
func (VariableNode) node() {}
func (*SectionNode) node() {}
func (PartialNode) node()  {}
