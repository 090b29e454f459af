package pptx

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// TextFrame is the text body of a shape, table cell or notes placeholder: an
// ordered sequence of paragraphs.
type TextFrame struct {
	part *part
	node *xmlquery.Node
}

// Paragraphs returns the frame's paragraphs in document order.
func (f *TextFrame) Paragraphs() []*Paragraph {
	nodes := childElems(f.node, "a", "p")
	out := make([]*Paragraph, len(nodes))
	for i, n := range nodes {
		out[i] = &Paragraph{part: f.part, node: n}
	}
	return out
}

// Text returns the frame's full text, paragraphs joined with newlines.
func (f *TextFrame) Text() string {
	paras := f.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// SetText replaces the frame's entire content with text. The first paragraph
// keeps its paragraph properties and receives the first line as a single run;
// additional lines become new bare paragraphs. All other runs, breaks and
// paragraphs are removed.
func (f *TextFrame) SetText(text string) {
	paras := childElems(f.node, "a", "p")
	var first *xmlquery.Node
	if len(paras) == 0 {
		first = newElem("a", "p")
		xmlquery.AddChild(f.node, first)
	} else {
		first = paras[0]
		for _, extra := range paras[1:] {
			xmlquery.RemoveFromTree(extra)
		}
	}

	removeChildren(first, func(c *xmlquery.Node) bool {
		return c.Type == xmlquery.ElementNode && c.Prefix == "a" && c.Data == "pPr"
	})

	lines := strings.Split(text, "\n")
	appendRun(first, lines[0])
	for _, line := range lines[1:] {
		p := newElem("a", "p")
		xmlquery.AddChild(f.node, p)
		appendRun(p, line)
	}
	f.part.dirty = true
}

// appendRun appends one a:r run holding text to a paragraph node.
func appendRun(para *xmlquery.Node, text string) {
	r := newElem("a", "r")
	t := newElem("a", "t")
	xmlquery.AddChild(para, r)
	xmlquery.AddChild(r, t)
	if text != "" {
		xmlquery.AddChild(t, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
}

// Paragraph is one a:p paragraph.
type Paragraph struct {
	part *part
	node *xmlquery.Node
}

// Runs returns the paragraph's runs in document order. Line breaks and field
// elements are not runs and are left untouched by any mutation here.
func (p *Paragraph) Runs() []*Run {
	nodes := childElems(p.node, "a", "r")
	out := make([]*Run, len(nodes))
	for i, n := range nodes {
		out[i] = &Run{part: p.part, node: n}
	}
	return out
}

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

// Run is one a:r run, the atomic unit of character formatting.
type Run struct {
	part *part
	node *xmlquery.Node
}

// Text returns the run's text.
func (r *Run) Text() string {
	t := childElem(r.node, "a", "t")
	if t == nil {
		return ""
	}
	return t.InnerText()
}

// SetText replaces the run's text, leaving its formatting untouched.
func (r *Run) SetText(text string) {
	t := childElem(r.node, "a", "t")
	if t == nil {
		t = newElem("a", "t")
		xmlquery.AddChild(r.node, t)
	}
	removeChildren(t, nil)
	if text != "" {
		xmlquery.AddChild(t, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
	}
	r.part.dirty = true
}
