// Package dom describes the small slice of a document model the lookup agent
// needs: text nodes, elements that know their document, and caret lookup by
// viewport coordinates.
package dom

// NodeType mirrors the DOM Node.nodeType values the agent cares about.
type NodeType int

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// Node is a document node. Data is only meaningful for text nodes.
type Node interface {
	Type() NodeType
	Data() string
}

// CaretPosition is a text position: a node plus an offset into its data,
// counted in runes.
type CaretPosition struct {
	Node   Node
	Offset int
}

// Document maps viewport coordinates to caret positions.
type Document interface {
	// CaretPositionFromPoint returns false when nothing is under (x, y).
	CaretPositionFromPoint(x, y float64) (CaretPosition, bool)
}

// Element is an event target that belongs to a document.
type Element interface {
	OwnerDocument() Document
}

type textNode string

func (t textNode) Type() NodeType { return TextNode }
func (t textNode) Data() string   { return string(t) }

// Text returns a text node holding data.
func Text(data string) Node {
	return textNode(data)
}

type elementNode struct {
	doc Document
}

func (e elementNode) Type() NodeType          { return ElementNode }
func (e elementNode) Data() string            { return "" }
func (e elementNode) OwnerDocument() Document { return e.doc }

// NewElement returns an element node owned by doc. It satisfies both Node and
// Element.
func NewElement(doc Document) interface {
	Node
	Element
} {
	return elementNode{doc: doc}
}

// DocumentFunc adapts a function to the Document interface.
type DocumentFunc func(x, y float64) (CaretPosition, bool)

// CaretPositionFromPoint calls f(x, y).
func (f DocumentFunc) CaretPositionFromPoint(x, y float64) (CaretPosition, bool) {
	return f(x, y)
}
