package pptx

import (
	"bytes"
	"encoding/xml"
	"path"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	relTypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	Rels []relationship `xml:"Relationship"`
}

// decodeRels parses a .rels part into a map keyed by relationship id.
func decodeRels(data []byte) (map[string]relationship, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var rels relationships
	if err := dec.Decode(&rels); err != nil {
		return nil, err
	}

	m := make(map[string]relationship, len(rels.Rels))
	for _, r := range rels.Rels {
		m[r.ID] = r
	}
	return m, nil
}

// relsPartName returns the name of the rels part owned by the given part,
// e.g. ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func relsPartName(name string) string {
	return path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
}

// resolveTarget resolves a relationship target against the part owning the
// relationship. Absolute targets are rooted at the archive.
func resolveTarget(owner, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(owner), target)
}
