package ppttranslator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/engchina/No.1-PPT-Translator/pptx"
)

// delimiterPrefix is the literal that opens every run marker. Source text
// containing it would confuse decoding; presentation content never does in
// practice.
const delimiterPrefix = "[PLACEHOLDER_"

var delimiterPattern = regexp.MustCompile(`\[PLACEHOLDER_(\d+)\]`)

// Delimiter returns the marker for run index i, e.g. "[PLACEHOLDER_3]".
func Delimiter(i int) string {
	return fmt.Sprintf("[PLACEHOLDER_%d]", i)
}

// DelimitedRun ties a marker index to the run whose text it carries.
type DelimitedRun struct {
	Index int // run position within the paragraph
	Run   *pptx.Run
}

// EncodeRuns flattens a paragraph's runs into one translatable string. Each
// run with non-whitespace content contributes its marker followed by its
// trimmed text; whitespace-only runs are left out entirely so their indices
// never appear. The returned DelimitedRuns identify the runs to write back.
//
// A paragraph with runs ["Hello, ", "world", "!"] encodes as
// "[PLACEHOLDER_0]Hello,[PLACEHOLDER_1]world[PLACEHOLDER_2]!".
func EncodeRuns(runs []*pptx.Run) (string, []DelimitedRun) {
	var b strings.Builder
	var tagged []DelimitedRun

	for i, r := range runs {
		text := strings.TrimSpace(r.Text())
		if text == "" {
			continue
		}
		b.WriteString(Delimiter(i))
		b.WriteString(text)
		tagged = append(tagged, DelimitedRun{Index: i, Run: r})
	}

	return b.String(), tagged
}

// DecodeRuns distributes a translated string back onto the original runs.
// For each tagged run it finds the first occurrence of that run's marker and
// takes everything up to the next occurrence of the marker prefix (or the end
// of the string). Runs whose marker the model dropped keep their source text;
// run count and order in the document are never affected.
func DecodeRuns(translated string, tagged []DelimitedRun) {
	segments := splitDelimited(translated)

	for _, t := range tagged {
		segment, ok := segments[t.Index]
		if !ok {
			continue
		}
		t.Run.SetText(segment)
	}
}

// splitDelimited maps each marker index found in s to the text that follows
// it. When a marker appears more than once, the first occurrence wins.
func splitDelimited(s string) map[int]string {
	matches := delimiterPattern.FindAllStringSubmatchIndex(s, -1)
	segments := make(map[int]string, len(matches))

	for _, m := range matches {
		index, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil {
			continue
		}
		if _, seen := segments[index]; seen {
			continue
		}

		segment := s[m[1]:]
		if next := strings.Index(segment, delimiterPrefix); next >= 0 {
			segment = segment[:next]
		}
		segments[index] = segment
	}

	return segments
}
