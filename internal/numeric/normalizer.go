// Package numeric parses locale-formatted monetary strings from OCR output.
//
// Indonesian tax invoices write amounts as "4.953.154,00" (dot thousands,
// comma decimal). OCR frequently substitutes look-alike glyphs inside digit
// runs, so candidate strings are repaired before parsing.
package numeric

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	idFormatRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?$|^\d+,\d{1,2}$`)
	usFormatRe = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?$|^\d+\.\d{1,2}$`)
	plainRe    = regexp.MustCompile(`^\d+$`)
	rpPrefixRe = regexp.MustCompile(`^(?i:rp\.?)\s*`)

	// amountShapedRe matches currency-shaped substrings inside free text.
	amountShapedRe = regexp.MustCompile(`(?:Rp\.?\s*)?\d{1,3}(?:\.\d{3})+(?:,\d{1,2})?|\d+,\d{2}\b`)
)

// glyphFixes lists OCR look-alike substitutions in correction priority order.
// Applied only to strings that are otherwise digit/separator shaped.
var glyphFixes = [...][2]string{
	{"O", "0"},
	{"I", "1"},
	{"S", "5"},
	{"B", "8"},
	{"l", "1"},
}

var glyphShapedRe = regexp.MustCompile(`^[0-9OISBl.,\s]+$`)

// Normalize parses a locale-formatted amount into a float rounded to two
// decimals. The second return value is false for empty, negative or
// non-numeric input. Integer rounding for IDR display is the caller's concern.
func Normalize(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, "-") {
		// Invoice amounts cannot be negative in this domain.
		return 0, false
	}
	s = rpPrefixRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = repairGlyphs(s)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	var cleaned string
	switch {
	case idFormatRe.MatchString(s):
		cleaned = strings.ReplaceAll(s, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case usFormatRe.MatchString(s):
		cleaned = strings.ReplaceAll(s, ",", "")
	case plainRe.MatchString(s):
		cleaned = s
	default:
		return 0, false
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return math.Round(v*100) / 100, true
}

// repairGlyphs substitutes OCR look-alike letters with digits, but only when
// the whole string is digit/separator shaped. Separators are preserved.
func repairGlyphs(s string) string {
	if !glyphShapedRe.MatchString(s) {
		return s
	}
	for _, fix := range glyphFixes {
		s = strings.ReplaceAll(s, fix[0], fix[1])
	}
	return s
}

// LooksLikeAmount reports whether the string would normalize to a value.
func LooksLikeAmount(text string) bool {
	_, ok := Normalize(text)
	return ok
}

// FindAmounts returns every currency-shaped substring of a free-text line,
// left to right.
func FindAmounts(line string) []string {
	return amountShapedRe.FindAllString(line, -1)
}

// FormatIndonesian renders a value in the dot-thousands comma-decimal
// convention used on faktur documents, always with two decimals.
func FormatIndonesian(v float64) string {
	cents := int64(math.Round(v * 100))
	whole := cents / 100
	frac := cents % 100
	if frac < 0 {
		frac = -frac
	}

	digits := strconv.FormatInt(whole, 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	out := b.String() + "," + pad2(frac)
	if neg {
		out = "-" + out
	}
	return out
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
