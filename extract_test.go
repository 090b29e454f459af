package ppttranslator

import (
	"testing"

	"github.com/engchina/No.1-PPT-Translator/pptx/pptxtest"
)

func TestIsNumericText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"42", true},
		{"3.14", true},
		{"-7", true},
		{"42.", true},
		{" 100 ", true},
		{"", false},
		{"   ", false},
		{"1,000", false},
		{"50%", false},
		{"3.14.15", false},
		{"Q3", false},
		{"Revenue", false},
	}

	for _, tt := range tests {
		if got := IsNumericText(tt.text); got != tt.want {
			t.Errorf("IsNumericText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestUnitKind_String(t *testing.T) {
	tests := []struct {
		kind UnitKind
		want string
	}{
		{UnitParagraph, "paragraph"},
		{UnitTableCell, "cell"},
		{UnitNotes, "notes"},
		{UnitKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("UnitKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSlideUnits_MixedSlide(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{{
		Shapes: []pptxtest.Shape{
			{Paragraphs: [][]string{{"Company Confidential"}}, Placeholder: "ftr"},
			{Paragraphs: [][]string{{"2024 Results"}}, Placeholder: "title"},
			{Paragraphs: [][]string{
				{"Revenue grew ", "fast"},
				{""},
				{"   "},
			}},
			{Table: [][]string{
				{"Region", "42"},
				{"North", "1,000"},
			}},
		},
		Notes: "Remember the demo",
	}}})

	units := SlideUnits(doc.Slides()[0])

	type got struct {
		kind   UnitKind
		source string
	}
	want := []got{
		{UnitParagraph, "[PLACEHOLDER_0]2024 Results"},
		{UnitParagraph, "[PLACEHOLDER_0]Revenue grew[PLACEHOLDER_1]fast"},
		{UnitTableCell, "Region"},
		{UnitTableCell, "North"},
		{UnitTableCell, "1,000"},
		{UnitNotes, "Remember the demo"},
	}

	if len(units) != len(want) {
		for i, u := range units {
			t.Logf("unit %d: %s %q", i, u.Kind, u.Source())
		}
		t.Fatalf("expected %d units, got %d", len(want), len(units))
	}
	for i, u := range units {
		if u.Kind != want[i].kind || u.Source() != want[i].source {
			t.Errorf("unit %d = %s %q, want %s %q",
				i, u.Kind, u.Source(), want[i].kind, want[i].source)
		}
	}
}

func TestSlideUnits_SkipsMetaPlaceholders(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{{
		Shapes: []pptxtest.Shape{
			{Paragraphs: [][]string{{"Footer text"}}, Placeholder: "ftr"},
			{Paragraphs: [][]string{{"4"}}, Placeholder: "sldNum"},
			{Paragraphs: [][]string{{"August 2025"}}, Placeholder: "dt"},
		},
	}}})

	if units := SlideUnits(doc.Slides()[0]); len(units) != 0 {
		t.Errorf("expected no units from meta placeholders, got %d", len(units))
	}
}

func TestSlideUnits_NumericCellsSkipped(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{{
		Shapes: []pptxtest.Shape{
			{Table: [][]string{
				{"Metric", "Value"},
				{"Margin", "12.5"},
				{"Headcount", "-3"},
			}},
		},
	}}})

	units := SlideUnits(doc.Slides()[0])
	want := []string{"Metric", "Value", "Margin", "Headcount"}
	if len(units) != len(want) {
		t.Fatalf("expected %d units, got %d", len(want), len(units))
	}
	for i, u := range units {
		if u.Source() != want[i] {
			t.Errorf("unit %d = %q, want %q", i, u.Source(), want[i])
		}
	}
}

func TestSlideUnits_NotesLast(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{{
		Shapes: []pptxtest.Shape{
			{Paragraphs: [][]string{{"Body"}}},
		},
		Notes: "Mention pricing",
	}}})

	units := SlideUnits(doc.Slides()[0])
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[len(units)-1].Kind != UnitNotes {
		t.Errorf("last unit = %s, want notes", units[len(units)-1].Kind)
	}
}

func TestSlideUnits_Deterministic(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{{
		Shapes: []pptxtest.Shape{
			{Paragraphs: [][]string{{"One"}, {"Two"}}},
			{Table: [][]string{{"A", "B"}}},
		},
		Notes: "notes",
	}}})

	first := SlideUnits(doc.Slides()[0])
	second := SlideUnits(doc.Slides()[0])
	if len(first) != len(second) {
		t.Fatalf("unit counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind || first[i].Source() != second[i].Source() {
			t.Errorf("unit %d differs between walks", i)
		}
	}
}

func TestUnit_ApplyParagraph(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{
		pptxtest.TextSlide([]string{"Hello, ", "world", "!"}),
	}})

	units := SlideUnits(doc.Slides()[0])
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	units[0].Apply("[PLACEHOLDER_0]Bonjour, [PLACEHOLDER_1]monde[PLACEHOLDER_2]!")

	runs := doc.Slides()[0].Shapes()[0].TextFrame().Paragraphs()[0].Runs()
	if len(runs) != 3 {
		t.Fatalf("run count changed: %d", len(runs))
	}
	if got := doc.Slides()[0].Shapes()[0].TextFrame().Text(); got != "Bonjour, monde!" {
		t.Errorf("frame text = %q", got)
	}
}

func TestUnit_ApplyCellAndNotes(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{{
		Shapes: []pptxtest.Shape{
			{Table: [][]string{{"Revenue"}}},
		},
		Notes: "Speaker notes",
	}}})

	units := SlideUnits(doc.Slides()[0])
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	units[0].Apply("売上")
	units[1].Apply("発表者ノート")

	slide := doc.Slides()[0]
	if got := slide.Shapes()[0].Table().Cells()[0].Text(); got != "売上" {
		t.Errorf("cell text = %q", got)
	}
	if got := slide.NotesText(); got != "発表者ノート" {
		t.Errorf("notes text = %q", got)
	}
}

func TestCountUnits(t *testing.T) {
	doc := openDeck(t, pptxtest.Deck{Slides: []pptxtest.Slide{
		{
			Shapes: []pptxtest.Shape{
				{Paragraphs: [][]string{{"Title"}}},
				{Paragraphs: [][]string{{"Point one"}, {"Point two"}}},
			},
		},
		{
			Shapes: []pptxtest.Shape{
				{Table: [][]string{{"Head", "7"}}},
			},
			Notes: "wrap up",
		},
	}})

	total, perSlide := CountUnits(doc)
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(perSlide) != 2 || perSlide[0] != 3 || perSlide[1] != 2 {
		t.Errorf("perSlide = %v, want [3 2]", perSlide)
	}
}
