package ppttranslator

import (
	"regexp"
	"strings"

	"github.com/engchina/No.1-PPT-Translator/pptx"
)

// numericPattern matches text that is a bare number: optional minus sign,
// digits, optional decimal part. Formatted values like "1,000" or "50%" do
// not match and are translated normally.
var numericPattern = regexp.MustCompile(`^-?\d+\.?\d*$`)

// IsNumericText reports whether the trimmed text is purely numeric. Numeric
// units are skipped so axis labels and figures survive untouched.
func IsNumericText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return numericPattern.MatchString(trimmed)
}

// UnitKind classifies a translatable unit by where its text lives.
type UnitKind int

const (
	UnitParagraph UnitKind = iota
	UnitTableCell
	UnitNotes
)

func (k UnitKind) String() string {
	switch k {
	case UnitParagraph:
		return "paragraph"
	case UnitTableCell:
		return "cell"
	case UnitNotes:
		return "notes"
	default:
		return "unknown"
	}
}

// Unit is one translatable piece of a slide: a paragraph encoded with run
// markers, a table cell, or the notes body. Source returns the text to send
// to the provider; Apply writes the translated text back into the document.
type Unit struct {
	Kind UnitKind

	source string
	tagged []DelimitedRun  // paragraph units
	frame  *pptx.TextFrame // cell and notes units
}

// Source returns the provider-facing text of the unit.
func (u *Unit) Source() string {
	return u.source
}

// Apply writes translated text back into the document. Paragraph units
// distribute segments onto their original runs; cell and notes units replace
// the whole frame.
func (u *Unit) Apply(translated string) {
	switch u.Kind {
	case UnitParagraph:
		DecodeRuns(translated, u.tagged)
	default:
		u.frame.SetText(translated)
	}
}

// SlideUnits walks a slide in document order and returns its translatable
// units. Footer, slide number and date placeholders are skipped whole. Table
// cells and paragraphs are skipped when empty or purely numeric. The notes
// body, when present, is the final unit.
//
// The walk is deterministic, so calling it once to count and again to
// translate observes the same units in the same order.
func SlideUnits(slide *pptx.Slide) []*Unit {
	var units []*Unit

	for _, shape := range slide.Shapes() {
		switch shape.PlaceholderKind() {
		case pptx.PlaceholderFooter, pptx.PlaceholderSlideNumber, pptx.PlaceholderDate:
			continue
		}

		if shape.HasTable() {
			for _, cell := range shape.Table().Cells() {
				text := strings.TrimSpace(cell.Text())
				if text == "" || IsNumericText(text) {
					continue
				}
				units = append(units, &Unit{
					Kind:   UnitTableCell,
					source: text,
					frame:  cell.TextFrame(),
				})
			}
			continue
		}

		if !shape.HasTextFrame() {
			continue
		}
		for _, para := range shape.TextFrame().Paragraphs() {
			encoded, tagged := EncodeRuns(para.Runs())
			if encoded == "" || IsNumericText(encoded) {
				continue
			}
			units = append(units, &Unit{
				Kind:   UnitParagraph,
				source: encoded,
				tagged: tagged,
			})
		}
	}

	if frame := slide.NotesTextFrame(); frame != nil {
		text := strings.TrimSpace(frame.Text())
		if text != "" && !IsNumericText(text) {
			units = append(units, &Unit{
				Kind:   UnitNotes,
				source: text,
				frame:  frame,
			})
		}
	}

	return units
}

// CountUnits pre-scans the whole deck without mutating it. It returns the
// total unit count and the per-slide counts used for progress weighting.
func CountUnits(doc *pptx.Document) (total int, perSlide []int) {
	slides := doc.Slides()
	perSlide = make([]int, len(slides))
	for i, slide := range slides {
		n := len(SlideUnits(slide))
		perSlide[i] = n
		total += n
	}
	return total, perSlide
}
