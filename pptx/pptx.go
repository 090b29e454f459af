// Package pptx provides a mutable object model over PPTX presentations:
// slides, shapes, text frames, paragraphs, runs, tables and speaker notes.
//
// A presentation is a ZIP archive of OOXML parts. Open reads every part into
// memory and parses the slide and notes parts into DOM trees; accessors mutate
// those trees in place. Save rewrites the archive, re-serializing only the
// parts that were actually modified, so untouched parts stay byte-identical.
package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var (
	// ErrInvalidArchive indicates the file is not a readable ZIP archive.
	ErrInvalidArchive = errors.New("not a valid pptx archive")

	// ErrMissingPresentation indicates the archive has no presentation part.
	ErrMissingPresentation = errors.New("missing ppt/presentation.xml")

	// ErrMissingSlide indicates a slide referenced by the presentation is absent.
	ErrMissingSlide = errors.New("referenced slide part not found")

	// ErrMalformedSlide indicates a slide part without the expected shape tree.
	ErrMalformedSlide = errors.New("malformed slide part")
)

const presentationPart = "ppt/presentation.xml"

var (
	slideIDExpr = xpath.MustCompile("//p:sldIdLst/p:sldId")
	spTreeExpr  = xpath.MustCompile("//p:cSld/p:spTree")
)

// part is one file inside the archive. dom is non-nil once the part has been
// parsed; dirty marks the dom as the source of truth over raw.
type part struct {
	name  string
	raw   []byte
	dom   *xmlquery.Node
	dirty bool
}

func (p *part) parse() error {
	if p.dom != nil {
		return nil
	}
	dom, err := xmlquery.Parse(bytes.NewReader(p.raw))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", p.name, err)
	}
	p.dom = dom
	return nil
}

func (p *part) bytes() []byte {
	if p.dirty {
		return []byte(p.dom.OutputXML(true))
	}
	return p.raw
}

// Document is an open presentation. It owns all archive parts and the parsed
// slide sequence. A Document is not safe for concurrent use.
type Document struct {
	parts  []*part
	index  map[string]*part
	slides []*Slide
}

// Open reads the presentation at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader reads a presentation from an in-memory or seekable source.
func OpenReader(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	d := &Document{index: make(map[string]*part, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidArchive, f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidArchive, f.Name, err)
		}
		p := &part{name: f.Name, raw: raw}
		d.parts = append(d.parts, p)
		d.index[f.Name] = p
	}

	if err := d.loadSlides(); err != nil {
		return nil, err
	}
	return d, nil
}

// loadSlides resolves the slide sequence from the presentation part and its
// relationships, then parses each slide (and its notes part, when present).
func (d *Document) loadSlides() error {
	pres, ok := d.index[presentationPart]
	if !ok {
		return ErrMissingPresentation
	}
	if err := pres.parse(); err != nil {
		return err
	}

	rels, err := d.relsFor(presentationPart)
	if err != nil {
		return err
	}

	for _, sldID := range xmlquery.QuerySelectorAll(pres.dom, slideIDExpr) {
		rid := relIDAttr(sldID)
		rel, ok := rels[rid]
		if !ok || rel.Type != relTypeSlide {
			return fmt.Errorf("%w: relationship %q", ErrMissingSlide, rid)
		}
		name := resolveTarget(presentationPart, rel.Target)
		sp, ok := d.index[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingSlide, name)
		}
		slide, err := d.newSlide(sp)
		if err != nil {
			return err
		}
		d.slides = append(d.slides, slide)
	}
	return nil
}

// relsFor decodes the relationships part owned by name. A missing rels part
// yields an empty map.
func (d *Document) relsFor(name string) (map[string]relationship, error) {
	p, ok := d.index[relsPartName(name)]
	if !ok {
		return map[string]relationship{}, nil
	}
	rels, err := decodeRels(p.raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.name, err)
	}
	return rels, nil
}

// Slides returns the slides in presentation order.
func (d *Document) Slides() []*Slide {
	return d.slides
}

// SlideCount returns the number of slides.
func (d *Document) SlideCount() int {
	return len(d.slides)
}

// Save writes the presentation to path. Parts whose DOM was modified are
// re-serialized; all other parts are copied verbatim in their original order,
// which keeps output deterministic for a given set of edits.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	for _, p := range d.parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
		if _, err := w.Write(p.bytes()); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// relIDAttr returns the value of the r:id attribute on a node. The unprefixed
// id attribute (the numeric slide id) is skipped.
func relIDAttr(n *xmlquery.Node) string {
	for _, a := range n.Attr {
		if a.Name.Local == "id" && a.Name.Space != "" {
			return a.Value
		}
	}
	return ""
}
