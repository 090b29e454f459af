package pptx

import "github.com/antchfx/xmlquery"

// Small DOM helpers shared by the model types. All traversal is over direct
// children; OOXML parts use fixed conventional prefixes (p, a, r), so nodes
// are matched by prefix and local name.

func childElem(n *xmlquery.Node, prefix, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Prefix == prefix && c.Data == local {
			return c
		}
	}
	return nil
}

func childElems(n *xmlquery.Node, prefix, local string) []*xmlquery.Node {
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Prefix == prefix && c.Data == local {
			out = append(out, c)
		}
	}
	return out
}

func newElem(prefix, local string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Prefix: prefix, Data: local}
}

func removeChildren(n *xmlquery.Node, keep func(*xmlquery.Node) bool) {
	c := n.FirstChild
	for c != nil {
		next := c.NextSibling
		if keep == nil || !keep(c) {
			xmlquery.RemoveFromTree(c)
		}
		c = next
	}
}
