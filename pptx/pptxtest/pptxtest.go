// Package pptxtest builds minimal but well-formed PPTX archives for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Shape describes one top-level shape. Exactly one of Paragraphs or Table
// should be set; Placeholder optionally marks the shape as a placeholder of
// the given p:ph type (for example "ftr" or "title").
type Shape struct {
	Paragraphs  [][]string // paragraph -> run texts
	Table       [][]string // row -> cell texts
	Placeholder string
}

// Slide describes one slide and its optional speaker notes.
type Slide struct {
	Shapes []Shape
	Notes  string
}

// Deck describes a whole presentation.
type Deck struct {
	Slides []Slide
}

// TextSlide is a convenience constructor for a slide holding a single text
// shape with one paragraph per entry, each entry a list of run texts.
func TextSlide(paragraphs ...[]string) Slide {
	return Slide{Shapes: []Shape{{Paragraphs: paragraphs}}}
}

// Write builds the deck and writes it to dir/name, returning the full path.
func Write(tb testing.TB, dir, name string, d Deck) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(d), 0o644); err != nil {
		tb.Fatalf("writing fixture deck: %v", err)
	}
	return path
}

// Build assembles the deck into PPTX archive bytes.
func Build(d Deck) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	add("[Content_Types].xml", contentTypes(d))
	add("_rels/.rels", rootRels)
	add("ppt/presentation.xml", presentationXML(d))
	add("ppt/_rels/presentation.xml.rels", presentationRels(d))

	for i, s := range d.Slides {
		n := i + 1
		add(fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(s))
		if s.Notes != "" {
			add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRels(n))
			add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notesXML(s.Notes))
		}
	}

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

const rootRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func contentTypes(d Deck) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i, s := range d.Slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
		if s.Notes != "" {
			fmt.Fprintf(&b, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1)
		}
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func presentationXML(d Deck) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + nsDecl + `><p:sldIdLst>`)
	for i := range d.Slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+1)
	}
	b.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`)
	return b.String()
}

func presentationRels(d Deck) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range d.Slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+1, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideRels(n int) string {
	return xmlHeader + fmt.Sprintf(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/></Relationships>`, n)
}

func slideXML(s Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sld ` + nsDecl + `><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	for i, sh := range s.Shapes {
		if sh.Table != nil {
			writeTable(&b, i+2, sh.Table)
		} else {
			writeTextShape(&b, i+2, sh)
		}
	}
	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func writeTextShape(b *strings.Builder, id int, sh Shape) {
	ph := ""
	if sh.Placeholder != "" {
		ph = fmt.Sprintf(`<p:ph type="%s"/>`, sh.Placeholder)
	}
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>`, id, id, ph)
	for _, para := range sh.Paragraphs {
		b.WriteString(`<a:p><a:pPr/>`)
		for _, run := range para {
			fmt.Fprintf(b, `<a:r><a:rPr lang="en-US"/><a:t>%s</a:t></a:r>`, escaper.Replace(run))
		}
		b.WriteString(`</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func writeTable(b *strings.Builder, id int, rows [][]string) {
	fmt.Fprintf(b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr><p:xfrm><a:off x="0" y="0"/><a:ext cx="1000000" cy="1000000"/></p:xfrm>`, id, id)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr/><a:tblGrid>`)
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	for i := 0; i < cols; i++ {
		b.WriteString(`<a:gridCol w="2032000"/>`)
	}
	b.WriteString(`</a:tblGrid>`)
	for _, row := range rows {
		b.WriteString(`<a:tr h="370840">`)
		for _, cell := range row {
			fmt.Fprintf(b, `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></a:txBody><a:tcPr/></a:tc>`, escaper.Replace(cell))
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func notesXML(notes string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:notes ` + nsDecl + `><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder 1"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>`)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, line := range strings.Split(notes, "\n") {
		fmt.Fprintf(&b, `<a:p><a:r><a:t>%s</a:t></a:r></a:p>`, escaper.Replace(line))
	}
	b.WriteString(`</p:txBody></p:sp></p:spTree></p:cSld></p:notes>`)
	return b.String()
}
