package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeElement adapts an *html.Node of type html.ElementNode.
type NodeElement struct {
	node *html.Node
}

// NewNodeElement returns nil if n is not an element node.
func NewNodeElement(n *html.Node) *NodeElement {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &NodeElement{node: n}
}

func (e *NodeElement) Node() *html.Node {
	return e.node
}

// TagName is upper case, like an HTML element's tagName.
func (e *NodeElement) TagName() string {
	return strings.ToUpper(e.node.Data)
}

func (e *NodeElement) Attributes() []Attr {
	attrs := make([]Attr, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		attrs = append(attrs, Attr{Name: name, Value: a.Val})
	}
	return attrs
}

func (e *NodeElement) TextContent() string {
	return goquery.NewDocumentFromNode(e.node).Text()
}

func (e *NodeElement) ClassList() []string {
	class, _ := Attribute(e, "class")
	return strings.Fields(class)
}

// EventPath returns the propagation chain of an event targeted at n,
// from n outwards, ending with the document and the window.
//
// Detached nodes end their path at their topmost ancestor and never
// reach the document.
func EventPath(n *html.Node) []any {
	path := []any{}
	for cur := n; cur != nil; cur = cur.Parent {
		switch cur.Type {
		case html.ElementNode:
			path = append(path, NewNodeElement(cur))
		case html.DocumentNode:
			path = append(path, DocumentRoot, WindowRoot)
		default:
			path = append(path, cur)
		}
	}
	return path
}
