// Package layout infers the item-table structure of a faktur page from
// clustered OCR rows: which columns exist, where they sit horizontally and
// whether the table reports one amount per line or three.
package layout

import (
	"log"
	"strings"

	"fakturo/internal/domain"
	"fakturo/internal/numeric"
	"fakturo/internal/ocr"
)

// Column names emitted by the detector.
const (
	ColumnHargaJual = "harga_jual"
	ColumnDPP       = "dpp"
	ColumnPPN       = "ppn"
)

// singleColumnMargin is the wider expansion used for single-column headers,
// where the lone amount column drifts more between layouts.
const singleColumnMargin = 30

// Keyword families recognized in header rows, folded form.
var (
	hargaJualKeywords = []string{"harga jual", "harga", "jual"}
	dppKeywords       = []string{"dpp", "dasar pengenaan", "dasar"}
	ppnKeywords       = []string{"ppn", "pajak pertambahan"}
)

// Detection describes the item table found on a page.
type Detection struct {
	Format      domain.LayoutFormat
	HeaderY     float64
	HeaderFound bool
	Columns     []ocr.ColumnRange // ordered left to right
	// Provisional marks the no-header numeric fallback: the caller should
	// treat the multi-column classification as a lower-confidence guess.
	Provisional bool
}

// IsDataRow reports whether a clustered row belongs to the item table body.
// The header row itself is excluded, except on the provisional path where the
// matched row is already data.
func (d Detection) IsDataRow(r ocr.Row) bool {
	if !d.HeaderFound {
		return false
	}
	if d.Provisional {
		return r.YCenter >= d.HeaderY
	}
	return r.YCenter > d.HeaderY
}

// DetectTable scans rows top to bottom for an item-table header. It prefers a
// multi-column header (Harga Jual + DPP + PPN keywords on one row), then a
// single-column header (Harga Jual family only), then a numeric fallback row
// with at least three amount-shaped tokens. When nothing matches it returns
// Format=unknown and the caller must treat the document as having no item
// table rather than failing.
func DetectTable(rows []ocr.Row) Detection {
	for _, row := range rows {
		harga, okH := matchKeywordGroup(row, hargaJualKeywords)
		dpp, okD := matchKeywordGroup(row, dppKeywords)
		ppn, okP := matchKeywordGroup(row, ppnKeywords)
		if okH && okD && okP {
			cols := []ocr.ColumnRange{
				ocr.NewColumnRange(ColumnHargaJual, harga.XMin, harga.XMax).Expand(0),
				ocr.NewColumnRange(ColumnDPP, dpp.XMin, dpp.XMax).Expand(0),
				ocr.NewColumnRange(ColumnPPN, ppn.XMin, ppn.XMax).Expand(0),
			}
			sortColumns(cols)
			return Detection{
				Format:      domain.LayoutMultiColumn,
				HeaderY:     row.YCenter,
				HeaderFound: true,
				Columns:     cols,
			}
		}
	}

	for _, row := range rows {
		extent, ok := matchRightmostKeyword(row, hargaJualKeywords)
		if !ok {
			continue
		}
		col := ocr.NewColumnRange(ColumnHargaJual, extent.XMin, extent.XMax).Expand(singleColumnMargin)
		return Detection{
			Format:      domain.LayoutSingleColumn,
			HeaderY:     row.YCenter,
			HeaderFound: true,
			Columns:     []ocr.ColumnRange{col},
		}
	}

	if det, ok := detectNumericFallback(rows); ok {
		log.Printf("layout.DetectTable: no header keywords matched, using rightmost-numeric fallback at y=%.1f", det.HeaderY)
		return det
	}

	return Detection{Format: domain.LayoutUnknown}
}

// keywordExtent is the x-span of the token(s) that matched a keyword.
type keywordExtent struct {
	XMin float64
	XMax float64
}

// matchKeywordGroup returns the extent of the first keyword from the family
// found in the row. Multi-word keywords match across consecutive tokens.
func matchKeywordGroup(row ocr.Row, keywords []string) (keywordExtent, bool) {
	for _, kw := range keywords {
		if ext, ok := matchKeyword(row, kw); ok {
			return ext, true
		}
	}
	return keywordExtent{}, false
}

// matchRightmostKeyword returns the extent of the rightmost token matching
// any keyword of the family.
func matchRightmostKeyword(row ocr.Row, keywords []string) (keywordExtent, bool) {
	best := keywordExtent{}
	found := false
	for _, kw := range keywords {
		for i := range row.Tokens {
			if ext, ok := matchKeywordAt(row, kw, i); ok {
				if !found || ext.XMin > best.XMin {
					best = ext
					found = true
				}
			}
		}
	}
	return best, found
}

func matchKeyword(row ocr.Row, kw string) (keywordExtent, bool) {
	for i := range row.Tokens {
		if ext, ok := matchKeywordAt(row, kw, i); ok {
			return ext, true
		}
	}
	return keywordExtent{}, false
}

// matchKeywordAt tries to match kw starting at token index i. Single-word
// keywords match by substring on the folded token; multi-word keywords must
// match word-by-word across consecutive tokens, or as a substring of a single
// token when OCR glued the words together.
func matchKeywordAt(row ocr.Row, kw string, i int) (keywordExtent, bool) {
	words := strings.Fields(kw)
	folded := ocr.FoldText(row.Tokens[i].Text)

	if len(words) == 1 {
		if strings.Contains(folded, kw) {
			return keywordExtent{XMin: row.Tokens[i].X0, XMax: row.Tokens[i].X1}, true
		}
		return keywordExtent{}, false
	}

	if strings.Contains(folded, strings.Join(words, "")) || strings.Contains(folded, kw) {
		return keywordExtent{XMin: row.Tokens[i].X0, XMax: row.Tokens[i].X1}, true
	}
	if i+len(words) > len(row.Tokens) {
		return keywordExtent{}, false
	}
	for j, w := range words {
		if !strings.Contains(ocr.FoldText(row.Tokens[i+j].Text), w) {
			return keywordExtent{}, false
		}
	}
	return keywordExtent{XMin: row.Tokens[i].X0, XMax: row.Tokens[i+len(words)-1].X1}, true
}

// detectNumericFallback looks for the first row with at least three
// amount-shaped tokens and derives provisional columns from its rightmost
// three, assigned left to right as harga_jual, dpp, ppn.
func detectNumericFallback(rows []ocr.Row) (Detection, bool) {
	for _, row := range rows {
		var numericTokens []ocr.Token
		for _, t := range row.Tokens {
			if numeric.LooksLikeAmount(t.Text) {
				numericTokens = append(numericTokens, t)
			}
		}
		if len(numericTokens) < 3 {
			continue
		}
		right3 := numericTokens[len(numericTokens)-3:]
		cols := []ocr.ColumnRange{
			ocr.NewColumnRange(ColumnHargaJual, right3[0].X0, right3[0].X1).Expand(0),
			ocr.NewColumnRange(ColumnDPP, right3[1].X0, right3[1].X1).Expand(0),
			ocr.NewColumnRange(ColumnPPN, right3[2].X0, right3[2].X1).Expand(0),
		}
		sortColumns(cols)
		return Detection{
			Format:      domain.LayoutMultiColumn,
			HeaderY:     row.YCenter,
			HeaderFound: true,
			Columns:     cols,
			Provisional: true,
		}, true
	}
	return Detection{}, false
}

func sortColumns(cols []ocr.ColumnRange) {
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j].XMin < cols[j-1].XMin; j-- {
			cols[j], cols[j-1] = cols[j-1], cols[j]
		}
	}
}
