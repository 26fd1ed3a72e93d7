// Package xlsxexport renders parse results into a reviewer-oriented Excel
// workbook: one row per document with per-field validation highlighting,
// plus a sheet of extracted line items.
package xlsxexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fakturo/internal/domain"
	"fakturo/internal/validator"
	"fakturo/internal/validator/faktur"
)

const itemsSheet = "Items"

// documentColumns is the header of the review sheet. The fieldPath links a
// column to the validation results that color it.
var documentColumns = []struct {
	title     string
	fieldPath string
}{
	{"Document Name", ""},
	{"Parse Status", ""},
	{"Confidence", ""},
	{"Layout", ""},
	{"Serial Number", "header.serial_number"},
	{"Issue Date", "header.issue_date"},
	{"Seller Name", "seller.name"},
	{"Seller NPWP", "seller.npwp"},
	{"Buyer Name", "buyer.name"},
	{"Buyer NPWP", "buyer.npwp"},
	{"Harga Jual", "summary.harga_jual"},
	{"Potongan Harga", "summary.potongan_harga"},
	{"Uang Muka", "summary.uang_muka"},
	{"DPP", "summary.dpp"},
	{"PPN", "summary.ppn"},
	{"PPnBM", "summary.ppnbm"},
	{"Tax Rate", ""},
	{"Items", ""},
	{"Issues", ""},
}

var itemColumns = []string{
	"Document Name", "Line", "Code", "Description",
	"Harga Jual", "DPP", "PPN", "Row Confidence", "Notes",
}

// Writer accumulates parse results into an in-memory workbook.
type Writer struct {
	file        *excelize.File
	sheet       string
	docRow      int
	itemRow     int
	invalidFill int
	unsureFill  int
}

// NewWriter creates a workbook with the review sheet named sheet and an
// items sheet, both with header rows.
func NewWriter(sheet string) (*Writer, error) {
	if sheet == "" {
		sheet = "Review"
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename review sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("create items sheet: %w", err)
	}

	invalidFill, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create invalid style: %w", err)
	}
	unsureFill, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFEB9C"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create unsure style: %w", err)
	}

	w := &Writer{file: f, sheet: sheet, docRow: 1, itemRow: 1, invalidFill: invalidFill, unsureFill: unsureFill}
	if err := w.writeHeaders(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeHeaders() error {
	for i, col := range documentColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, col.title); err != nil {
			return err
		}
	}
	for i, title := range itemColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(itemsSheet, cell, title); err != nil {
			return err
		}
	}
	return nil
}

// AddResult appends one parse result to both sheets. Cells whose field
// failed an error rule are filled red, warning failures yellow.
func (w *Writer) AddResult(name string, res *faktur.ParseResult) error {
	w.docRow++
	f := &res.Faktur
	statuses := validator.ComputeFieldStatuses(res.RuleResults)

	values := []interface{}{
		name,
		string(res.ParseStatus),
		res.ConfidenceScore,
		string(res.Layout),
		f.Header.SerialNumber,
		f.Header.IssueDate,
		f.Seller.Name,
		f.Seller.NPWP,
		f.Buyer.Name,
		f.Buyer.NPWP,
		optionalCell(f.Summary.HargaJual, f.Found.HargaJual.Found()),
		optionalCell(f.Summary.PotonganHarga, f.Found.PotonganHarga.Found()),
		optionalCell(f.Summary.UangMuka, f.Found.UangMuka.Found()),
		optionalCell(f.Summary.DPP, f.Found.DPP.Found()),
		optionalCell(f.Summary.PPN, f.Found.PPN.Found()),
		optionalCell(f.Summary.PPnBM, f.Found.PPnBM.Found()),
		f.TaxRate,
		len(f.Items),
		strings.Join(res.ValidationIssues, "; "),
	}

	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.docRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, v); err != nil {
			return err
		}
		path := documentColumns[i].fieldPath
		if path == "" {
			continue
		}
		fs, ok := statuses[path]
		if !ok {
			continue
		}
		var style int
		switch fs.Status {
		case domain.FieldStatusInvalid:
			style = w.invalidFill
		case domain.FieldStatusUnsure:
			style = w.unsureFill
		default:
			continue
		}
		if err := w.file.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			return err
		}
	}

	for _, item := range f.Items {
		w.itemRow++
		itemValues := []interface{}{
			name, item.LineNo, item.Code, item.Description,
			item.HargaJual, item.DPP, item.PPN, item.RowConfidence,
			strings.Join(item.Notes, "; "),
		}
		for i, v := range itemValues {
			cell, err := excelize.CoordinatesToCellName(i+1, w.itemRow)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(itemsSheet, cell, v); err != nil {
				return err
			}
			if item.IsVariance {
				if err := w.file.SetCellStyle(itemsSheet, cell, cell, w.unsureFill); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// optionalCell keeps absent totals blank so a missing value never reads as
// a zero amount.
func optionalCell(v float64, found bool) interface{} {
	if !found {
		return ""
	}
	return v
}

// File exposes the underlying workbook, mainly for tests.
func (w *Writer) File() *excelize.File {
	return w.file
}

// SaveAs writes the workbook to disk.
func (w *Writer) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

// WriteTo streams the workbook to an io.Writer.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	return w.file.WriteTo(out)
}

// Close releases the workbook resources.
func (w *Writer) Close() error {
	return w.file.Close()
}
