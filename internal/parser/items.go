package parser

import (
	"regexp"
	"strings"

	"fakturo/internal/layout"
	"fakturo/internal/numeric"
	"fakturo/internal/ocr"
	"fakturo/internal/validator/faktur"
)

var (
	// Leading row-number token ("1", "12") on an item row.
	rowNumberRe = regexp.MustCompile(`^\d{1,3}$`)
	// Goods/service classification code ("000000", "070000").
	itemCodeRe = regexp.MustCompile(`^\d{6,8}$`)

	// Rows matching these keywords carry stray numbers ("Potongan Harga =
	// Rp 0,00") but are never genuine data rows; they always merge into the
	// preceding item.
	forcedMergeRe = regexp.MustCompile(`(?i)ppnbm|potongan|diskon|x 1,00|lainnya`)
)

// amountCell is one numeric column value of a row: the parsed amount plus
// the raw token text. found distinguishes a genuine zero from an empty cell.
type amountCell struct {
	value float64
	raw   string
	found bool
}

// rowData is the explicit intermediate shape of one clustered row after
// column assignment. Keeping it typed makes the continuation predicate a
// total function.
type rowData struct {
	y         float64
	rowNumber string
	code      string
	descParts []string
	fullText  string
	hargaJual amountCell
	dpp       amountCell
	ppn       amountCell
}

func (r rowData) hasAmounts() bool {
	return r.hargaJual.found || r.dpp.found || r.ppn.found
}

func (r rowData) description() string {
	return strings.Join(r.descParts, " ")
}

// buildRowData assigns a clustered row's tokens to the detected columns and
// parses the numeric cells.
func buildRowData(row ocr.Row, det layout.Detection) rowData {
	rd := rowData{y: row.YCenter, fullText: row.Text()}
	buckets := layout.AssignRow(row, det.Columns)

	rd.hargaJual = parseCell(buckets[layout.ColumnHargaJual])
	rd.dpp = parseCell(buckets[layout.ColumnDPP])
	rd.ppn = parseCell(buckets[layout.ColumnPPN])

	for _, t := range buckets[layout.DescriptionBucket] {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		if rd.rowNumber == "" && len(rd.descParts) == 0 && rowNumberRe.MatchString(text) {
			rd.rowNumber = text
			continue
		}
		if rd.code == "" && len(rd.descParts) == 0 && itemCodeRe.MatchString(text) {
			rd.code = text
			continue
		}
		rd.descParts = append(rd.descParts, text)
	}
	return rd
}

func parseCell(tokens []ocr.Token) amountCell {
	t, ok := layout.RightmostValue(tokens)
	if !ok {
		return amountCell{}
	}
	v, ok := numeric.Normalize(t.Text)
	if !ok {
		return amountCell{}
	}
	return amountCell{value: v, raw: t.Text, found: true}
}

// mergeRows folds continuation rows into their preceding item and emits the
// surviving rows as line items. A row continues the previous item when it
// carries no numeric payload, or when it matches the forced-merge keyword
// list despite stray numbers. Ordering is preserved; line numbers are
// assigned 1-based after merging.
func mergeRows(rows []rowData) []faktur.LineItem {
	var items []faktur.LineItem
	for i, rd := range rows {
		continuation := i > 0 && (!rd.hasAmounts() || forcedMergeRe.MatchString(rd.fullText))
		if continuation && len(items) > 0 {
			prev := &items[len(items)-1]
			text := rd.fullText
			if !forcedMergeRe.MatchString(rd.fullText) {
				text = rd.description()
			}
			if text != "" {
				if prev.Description != "" {
					prev.Description += " "
				}
				prev.Description += text
			}
			continue
		}
		items = append(items, faktur.LineItem{
			Code:        rd.code,
			Description: rd.description(),
			HargaJual:   rd.hargaJual.value,
			DPP:         rd.dpp.value,
			PPN:         rd.ppn.value,
		})
	}
	for i := range items {
		items[i].LineNo = i + 1
	}
	return items
}

// extractItems runs the spatial half of the pipeline: cluster rows, detect
// the table layout, assign columns and merge wrapped descriptions.
func extractItems(tokens []ocr.Token, opts Options) ([]faktur.LineItem, layout.Detection) {
	rows := ocr.ClusterRows(tokens, opts.YTolerance)
	det := layout.DetectTable(rows)
	if !det.HeaderFound {
		return nil, det
	}

	var data []rowData
	for _, row := range rows {
		if !det.IsDataRow(row) {
			continue
		}
		rd := buildRowData(row, det)
		// The summary block below the table re-lists the totals with
		// their labels; once a label row appears the item table is over.
		if isSummaryRow(rd) {
			break
		}
		if rd.fullText == "" {
			continue
		}
		data = append(data, rd)
	}
	return mergeRows(data), det
}

var summaryLabelRe = regexp.MustCompile(`(?i)harga jual\s*/\s*penggantian|dasar pengenaan pajak|jumlah ppn|dikurangi|ditandatangani`)

func isSummaryRow(rd rowData) bool {
	return summaryLabelRe.MatchString(rd.fullText)
}
