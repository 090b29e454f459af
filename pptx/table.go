package pptx

import "github.com/antchfx/xmlquery"

// Table is an a:tbl grid inside a graphic frame.
type Table struct {
	part *part
	node *xmlquery.Node
}

// Rows returns the table's cells grouped by row, in document order.
func (t *Table) Rows() [][]*TableCell {
	var rows [][]*TableCell
	for _, tr := range childElems(t.node, "a", "tr") {
		var row []*TableCell
		for _, tc := range childElems(tr, "a", "tc") {
			row = append(row, &TableCell{part: t.part, node: tc})
		}
		rows = append(rows, row)
	}
	return rows
}

// Cells returns every cell in row-major order.
func (t *Table) Cells() []*TableCell {
	var cells []*TableCell
	for _, row := range t.Rows() {
		cells = append(cells, row...)
	}
	return cells
}

// TableCell is one a:tc cell. Merge continuation cells appear as ordinary
// cells with an empty text frame.
type TableCell struct {
	part *part
	node *xmlquery.Node
}

// TextFrame returns the cell's text frame, or nil for cells without one.
func (c *TableCell) TextFrame() *TextFrame {
	body := childElem(c.node, "a", "txBody")
	if body == nil {
		return nil
	}
	return &TextFrame{part: c.part, node: body}
}

// Text returns the cell's text, empty for cells without a text frame.
func (c *TableCell) Text() string {
	f := c.TextFrame()
	if f == nil {
		return ""
	}
	return f.Text()
}

// SetText replaces the cell's text. Cells without a text frame ignore the
// write.
func (c *TableCell) SetText(text string) {
	f := c.TextFrame()
	if f == nil {
		return
	}
	f.SetText(text)
}
