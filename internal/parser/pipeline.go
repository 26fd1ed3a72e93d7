package parser

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"fakturo/internal/domain"
	"fakturo/internal/layout"
	"fakturo/internal/port"
	"fakturo/internal/validator"
	"fakturo/internal/validator/faktur"
)

// resultNamespace seeds the deterministic result IDs: parsing the same
// input twice yields the same ParseResult.ID.
var resultNamespace = uuid.MustParse("8f3de245-9a1b-4c6f-b1e4-2f0a6d7c3b91")

// LayoutParser is the primary strategy: it requires spatial tokens and runs
// the full row-clustering, table-detection and column-assignment pipeline
// before the shared text extraction.
type LayoutParser struct {
	opts   Options
	engine *validator.Engine
}

func NewLayoutParser(opts Options, engine *validator.Engine) *LayoutParser {
	return &LayoutParser{opts: opts, engine: engine}
}

func (p *LayoutParser) Parse(ctx context.Context, input port.ParseInput) (*faktur.ParseResult, error) {
	if input.Empty() {
		return emptyResult(input), nil
	}
	if len(input.Tokens) == 0 {
		return nil, ErrNoTokens
	}
	return parseDocument(ctx, input, p.opts, p.engine, true), nil
}

// TextParser is the fallback strategy: label search over raw text only. It
// extracts no line items, so its results reconcile on summary totals alone.
type TextParser struct {
	opts   Options
	engine *validator.Engine
}

func NewTextParser(opts Options, engine *validator.Engine) *TextParser {
	return &TextParser{opts: opts, engine: engine}
}

func (p *TextParser) Parse(ctx context.Context, input port.ParseInput) (*faktur.ParseResult, error) {
	if input.Empty() {
		return emptyResult(input), nil
	}
	return parseDocument(ctx, input, p.opts, p.engine, false), nil
}

// parseDocument is the shared pipeline body. Extraction never fails: gaps
// surface as zero values, provenance absences and a degraded confidence.
func parseDocument(ctx context.Context, input port.ParseInput, opts Options, engine *validator.Engine, useTokens bool) *faktur.ParseResult {
	doc := newDocument(input.Text)
	if doc.empty() && len(input.Tokens) == 0 {
		return emptyResult(input)
	}

	var items []faktur.LineItem
	det := layout.Detection{Format: domain.LayoutUnknown}
	if useTokens {
		items, det = extractItems(input.Tokens, opts)
	}

	totals, presence, trace := extractSummary(doc, opts)
	hdr, seller, buyer, headerTrace := extractHeader(doc)
	trace = append(trace, headerTrace...)

	issueDate := hdr.IssueDate
	if issueDate == "" {
		issueDate = input.InvoiceDate
	}
	rate := InferTaxRate(input.TaxRateHint, totals, presence, issueDate, engine.Config().KnownRates)
	trace = append(trace, faktur.DecisionStep{
		Stage: "tax_rate", Strategy: "inference",
		Detail: fmt.Sprintf("rate=%.2f hint=%.2f date=%s", rate, input.TaxRateHint, issueDate),
	})

	data := faktur.Faktur{
		Header:  hdr,
		Seller:  seller,
		Buyer:   buyer,
		Items:   items,
		Summary: totals,
		Found:   presence,
		TaxRate: rate,
	}

	if det.Format == domain.LayoutSingleColumn {
		if step, ok := distributeSingleColumn(&data); ok {
			trace = append(trace, step)
		}
	}

	outcome := engine.Validate(ctx, &data, det.Provisional)

	result := &faktur.ParseResult{
		ID:                resultID(input),
		Faktur:            data,
		Layout:            det.Format,
		ProvisionalLayout: det.Provisional,
		ConfidenceScore:   outcome.Confidence,
		ParseStatus:       outcome.Status,
		ValidationIssues:  outcome.Issues,
		RuleResults:       outcome.Results,
		Trace:             trace,
	}
	log.Printf("parser: document parsed — layout=%s items=%d status=%s confidence=%.2f",
		result.Layout, len(items), result.ParseStatus, result.ConfidenceScore)
	return result
}

// distributeSingleColumn fills item DPP and PPN on single-column layouts,
// where each row carries only its Harga Jual. Summary totals are spread
// proportionally by each row's share of the item Harga Jual sum.
func distributeSingleColumn(data *faktur.Faktur) (faktur.DecisionStep, bool) {
	if !data.Found.DPP.Found() && !data.Found.PPN.Found() {
		return faktur.DecisionStep{}, false
	}
	var sum float64
	for _, it := range data.Items {
		sum += it.HargaJual
	}
	if sum <= 0 {
		return faktur.DecisionStep{}, false
	}
	for i := range data.Items {
		share := data.Items[i].HargaJual / sum
		if data.Found.DPP.Found() {
			data.Items[i].DPP = round2(data.Summary.DPP * share)
		}
		if data.Found.PPN.Found() {
			data.Items[i].PPN = round2(data.Summary.PPN * share)
		}
	}
	return faktur.DecisionStep{
		Stage: "items", Strategy: "single_column_distribution",
		Detail: fmt.Sprintf("summary DPP/PPN spread over %d items by Harga Jual share", len(data.Items)),
	}, true
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}

// emptyResult is the terminal state for inputs with nothing to parse.
func emptyResult(input port.ParseInput) *faktur.ParseResult {
	return &faktur.ParseResult{
		ID:              resultID(input),
		Layout:          domain.LayoutUnknown,
		ConfidenceScore: 0,
		ParseStatus:     domain.ParseStatusDraft,
		Trace: []faktur.DecisionStep{
			{Stage: "input", Detail: "no text and no tokens"},
		},
	}
}

// resultID derives a stable UUID from the input content, so repeated parses
// of the same document are recognizably the same result.
func resultID(input port.ParseInput) uuid.UUID {
	var b strings.Builder
	b.WriteString(input.Text)
	for _, t := range input.Tokens {
		fmt.Fprintf(&b, "|%s:%.1f,%.1f,%.1f,%.1f", t.Text, t.X0, t.Y0, t.X1, t.Y1)
	}
	fmt.Fprintf(&b, "|rate=%.4f|date=%s", input.TaxRateHint, input.InvoiceDate)
	return uuid.NewSHA1(resultNamespace, []byte(b.String()))
}
