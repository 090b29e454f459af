package pptx

import (
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	phExpr     = xpath.MustCompile("*/p:nvPr/p:ph")
	tableExpr  = xpath.MustCompile("a:graphic/a:graphicData/a:tbl")
	notesPhIdx = xpath.MustCompile("//p:sp[*/p:nvPr/p:ph/@type='body']")
)

// PlaceholderKind identifies the role of a placeholder shape, matching the
// type attribute of the p:ph element.
type PlaceholderKind string

const (
	PlaceholderTitle       PlaceholderKind = "title"
	PlaceholderCenterTitle PlaceholderKind = "ctrTitle"
	PlaceholderSubtitle    PlaceholderKind = "subTitle"
	PlaceholderBody        PlaceholderKind = "body"
	PlaceholderObject      PlaceholderKind = "obj"
	PlaceholderDate        PlaceholderKind = "dt"
	PlaceholderFooter      PlaceholderKind = "ftr"
	PlaceholderSlideNumber PlaceholderKind = "sldNum"
)

// Slide is one slide of the presentation, in presentation order.
type Slide struct {
	part   *part
	spTree *xmlquery.Node

	notes      *part
	notesFrame *TextFrame
}

// newSlide parses a slide part and resolves its optional notes part.
func (d *Document) newSlide(p *part) (*Slide, error) {
	if err := p.parse(); err != nil {
		return nil, err
	}
	spTree := xmlquery.QuerySelector(p.dom, spTreeExpr)
	if spTree == nil {
		return nil, fmt.Errorf("%w: %s has no shape tree", ErrMalformedSlide, p.name)
	}
	s := &Slide{part: p, spTree: spTree}

	rels, err := d.relsFor(p.name)
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		if rel.Type != relTypeNotesSlide {
			continue
		}
		np, ok := d.index[resolveTarget(p.name, rel.Target)]
		if !ok {
			continue
		}
		if err := np.parse(); err != nil {
			return nil, err
		}
		s.notes = np
		s.notesFrame = notesBodyFrame(np)
		break
	}
	return s, nil
}

// notesBodyFrame locates the notes body placeholder's text frame.
func notesBodyFrame(p *part) *TextFrame {
	for _, sp := range xmlquery.QuerySelectorAll(p.dom, notesPhIdx) {
		if body := childElem(sp, "p", "txBody"); body != nil {
			return &TextFrame{part: p, node: body}
		}
	}
	return nil
}

// Shapes returns the slide's top-level shapes in document order. Shapes
// nested inside group shapes are not descended into.
func (s *Slide) Shapes() []*Shape {
	var shapes []*Shape
	for c := s.spTree.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "sp", "graphicFrame", "pic":
			shapes = append(shapes, &Shape{part: s.part, node: c})
		}
	}
	return shapes
}

// NotesTextFrame returns the speaker-notes text frame, or nil when the slide
// has no notes part.
func (s *Slide) NotesTextFrame() *TextFrame {
	return s.notesFrame
}

// NotesText returns the speaker-notes text, empty when the slide has none.
func (s *Slide) NotesText() string {
	if s.notesFrame == nil {
		return ""
	}
	return s.notesFrame.Text()
}

// SetNotesText replaces the speaker-notes text. Slides without a notes part
// ignore the write.
func (s *Slide) SetNotesText(text string) {
	if s.notesFrame == nil {
		return
	}
	s.notesFrame.SetText(text)
}

// Shape is a top-level slide shape: a text box, picture, table frame or
// placeholder.
type Shape struct {
	part *part
	node *xmlquery.Node
}

// IsPlaceholder reports whether the shape is a layout placeholder.
func (s *Shape) IsPlaceholder() bool {
	return xmlquery.QuerySelector(s.node, phExpr) != nil
}

// PlaceholderKind returns the placeholder role, or "" for non-placeholder
// shapes. A p:ph element without a type attribute defaults to obj per the
// OOXML schema.
func (s *Shape) PlaceholderKind() PlaceholderKind {
	ph := xmlquery.QuerySelector(s.node, phExpr)
	if ph == nil {
		return ""
	}
	if t := ph.SelectAttr("type"); t != "" {
		return PlaceholderKind(t)
	}
	return PlaceholderObject
}

// HasTextFrame reports whether the shape carries a text frame.
func (s *Shape) HasTextFrame() bool {
	return childElem(s.node, "p", "txBody") != nil
}

// TextFrame returns the shape's text frame, or nil when it has none.
func (s *Shape) TextFrame() *TextFrame {
	body := childElem(s.node, "p", "txBody")
	if body == nil {
		return nil
	}
	return &TextFrame{part: s.part, node: body}
}

// HasTable reports whether the shape is a graphic frame holding a table.
func (s *Shape) HasTable() bool {
	return xmlquery.QuerySelector(s.node, tableExpr) != nil
}

// Table returns the shape's table, or nil when it has none.
func (s *Shape) Table() *Table {
	tbl := xmlquery.QuerySelector(s.node, tableExpr)
	if tbl == nil {
		return nil
	}
	return &Table{part: s.part, node: tbl}
}
