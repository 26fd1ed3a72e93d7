package parser

import (
	"regexp"
	"strings"

	"fakturo/internal/ocr"
)

// Lines that are reference or invoice-number noise, never amount carriers.
var (
	referensiRe = regexp.MustCompile(`(?i)referensi\s*:`)
	invCodeRe   = regexp.MustCompile(`\bINV-`)
	slashCodeRe = regexp.MustCompile(`\S+/\S+/\S+`)
)

// document is the preprocessed text view shared by the extraction
// strategies: trimmed lines plus their folded (lowercased, diacritic-free)
// counterparts, index-aligned.
type document struct {
	lines  []string
	folded []string
}

func newDocument(text string) *document {
	raw := strings.Split(text, "\n")
	d := &document{
		lines:  make([]string, 0, len(raw)),
		folded: make([]string, 0, len(raw)),
	}
	for _, line := range raw {
		line = strings.TrimSpace(line)
		d.lines = append(d.lines, line)
		d.folded = append(d.folded, ocr.FoldText(line))
	}
	return d
}

func (d *document) empty() bool {
	for _, l := range d.lines {
		if l != "" {
			return false
		}
	}
	return true
}

// isReferenceLine reports whether a line carries reference or code noise
// that must never be read as an amount source.
func isReferenceLine(line string) bool {
	return referensiRe.MatchString(line) || invCodeRe.MatchString(line) || slashCodeRe.MatchString(line)
}
