// Package csvexport flattens parse results into CSV rows for spreadsheet
// review and downstream bookkeeping imports.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fakturo/internal/validator/faktur"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document Name",
	"Parse Status",
	"Confidence",
	"Layout",
	"Serial Number",
	"Issue Date",
	"Issue Place",
	"Reference",
	"Seller Name",
	"Seller NPWP",
	"Buyer Name",
	"Buyer NPWP",
	"Harga Jual",
	"Potongan Harga",
	"Uang Muka",
	"DPP",
	"PPN",
	"PPnBM",
	"Tax Rate",
	"Line Item Count",
	"Validation Issues",
}

// Writer wraps csv.Writer for exporting parse results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// SetDelimiter overrides the field separator. Only the first rune of sep is
// used; empty sep keeps the comma.
func (w *Writer) SetDelimiter(sep string) {
	if sep == "" {
		return
	}
	w.csv.Comma = []rune(sep)[0]
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts a batch of parse results to CSV rows and writes them.
func (w *Writer) WriteResults(name string, results []*faktur.ParseResult) error {
	for _, res := range results {
		if err := w.csv.Write(resultToRow(name, res)); err != nil {
			return err
		}
	}
	return nil
}

// WriteResult writes one parse result as a row under the given document name.
func (w *Writer) WriteResult(name string, res *faktur.ParseResult) error {
	return w.csv.Write(resultToRow(name, res))
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// resultToRow converts a single parse result to a row. Absent summary fields
// export as empty cells rather than "0.00" so reviewers can tell a missing
// total from a genuine zero.
func resultToRow(name string, res *faktur.ParseResult) []string {
	row := make([]string, len(columns))
	f := &res.Faktur

	row[0] = name
	row[1] = string(res.ParseStatus)
	row[2] = strconv.FormatFloat(res.ConfidenceScore, 'f', 2, 64)
	row[3] = string(res.Layout)
	row[4] = f.Header.SerialNumber
	row[5] = f.Header.IssueDate
	row[6] = f.Header.IssuePlace
	row[7] = f.Header.Reference
	row[8] = f.Seller.Name
	row[9] = f.Seller.NPWP
	row[10] = f.Buyer.Name
	row[11] = f.Buyer.NPWP
	row[12] = formatOptional(f.Summary.HargaJual, f.Found.HargaJual.Found())
	row[13] = formatOptional(f.Summary.PotonganHarga, f.Found.PotonganHarga.Found())
	row[14] = formatOptional(f.Summary.UangMuka, f.Found.UangMuka.Found())
	row[15] = formatOptional(f.Summary.DPP, f.Found.DPP.Found())
	row[16] = formatOptional(f.Summary.PPN, f.Found.PPN.Found())
	row[17] = formatOptional(f.Summary.PPnBM, f.Found.PPnBM.Found())
	row[18] = strconv.FormatFloat(f.TaxRate, 'f', 2, 64)
	row[19] = strconv.Itoa(len(f.Items))
	row[20] = strings.Join(res.ValidationIssues, "; ")
	return row
}

func formatOptional(v float64, found bool) string {
	if !found {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a batch name for use in a filename. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized export filename.
// Format: {sanitized_batch_name}_{YYYY-MM-DD}.csv
func BuildFilename(batchName string) string {
	sanitized := SanitizeFilename(batchName)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
