// Package port declares the boundary contracts between the extraction engine
// and the host application that feeds it OCR output.
package port

import (
	"context"

	"fakturo/internal/ocr"
	"fakturo/internal/validator/faktur"
)

// ParseInput carries one document's OCR output into the pipeline.
type ParseInput struct {
	// Text is the raw OCR text, UTF-8.
	Text string `json:"text"`
	// Tokens is the optional spatial token list. When empty, parsing falls
	// back to regex-only label search with a lower confidence ceiling.
	Tokens []ocr.Token `json:"tokens,omitempty"`
	// TaxRateHint is the applicable PPN rate when the caller knows it
	// (0.11 or 0.12 typically). Zero means infer.
	TaxRateHint float64 `json:"tax_rate_hint,omitempty"`
	// InvoiceDate is an optional yyyy-mm-dd date usable for rate inference
	// when the document itself does not yield one.
	InvoiceDate string `json:"invoice_date,omitempty"`
}

// Empty reports whether there is nothing to parse.
func (in ParseInput) Empty() bool {
	return in.Text == "" && len(in.Tokens) == 0
}

// DocumentParser abstracts one faktur parsing strategy.
type DocumentParser interface {
	Parse(ctx context.Context, input ParseInput) (*faktur.ParseResult, error)
}
