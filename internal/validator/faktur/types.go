// Package faktur defines the strongly-typed model of a parsed Faktur Pajak
// and the built-in validation rules that reconcile its numbers.
package faktur

import (
	"github.com/google/uuid"

	"fakturo/internal/domain"
)

// Faktur is the structured representation of one parsed tax invoice.
type Faktur struct {
	Header  Header        `json:"header"`
	Seller  Party         `json:"seller"`
	Buyer   Party         `json:"buyer"`
	Items   []LineItem    `json:"items"`
	Summary SummaryTotals `json:"summary"`
	// Found tracks per-field extraction provenance. Absent summary fields
	// stay 0.0 in Summary; Found is the only signal that distinguishes
	// "missing" from "genuinely zero".
	Found   SummaryPresence `json:"found"`
	TaxRate float64         `json:"tax_rate"`
}

// Header holds top-level faktur metadata.
type Header struct {
	SerialNumber string `json:"serial_number"` // Kode dan Nomor Seri Faktur Pajak
	IssueDate    string `json:"issue_date"`    // yyyy-mm-dd when parseable
	IssuePlace   string `json:"issue_place"`
	Reference    string `json:"reference"`
}

// Party represents the seller (Pengusaha Kena Pajak) or buyer.
type Party struct {
	Name    string `json:"name"`
	NPWP    string `json:"npwp"`
	Address string `json:"address"`
}

// LineItem is one row of the item table. Numeric fields are set by the
// column assigner; RowConfidence and Notes are mutated only by the validation
// engine within a single parse.
type LineItem struct {
	LineNo        int      `json:"line_no"`
	Code          string   `json:"code"`
	Description   string   `json:"description"`
	HargaJual     float64  `json:"harga_jual"`
	DPP           float64  `json:"dpp"`
	PPN           float64  `json:"ppn"`
	RowConfidence float64  `json:"row_confidence"`
	Notes         []string `json:"notes,omitempty"`
	IsVariance    bool     `json:"is_variance,omitempty"`
}

// SummaryTotals holds the header totals block. Unextracted fields are 0.0,
// never null; presence is tracked separately in SummaryPresence.
type SummaryTotals struct {
	HargaJual     float64 `json:"harga_jual"`
	PotonganHarga float64 `json:"potongan_harga"`
	UangMuka      float64 `json:"uang_muka"`
	DPP           float64 `json:"dpp"`
	PPN           float64 `json:"ppn"`
	PPnBM         float64 `json:"ppnbm"`
}

// SummaryPresence records which strategy, if any, produced each total.
type SummaryPresence struct {
	HargaJual     domain.Provenance `json:"harga_jual"`
	PotonganHarga domain.Provenance `json:"potongan_harga"`
	UangMuka      domain.Provenance `json:"uang_muka"`
	DPP           domain.Provenance `json:"dpp"`
	PPN           domain.Provenance `json:"ppn"`
	PPnBM         domain.Provenance `json:"ppnbm"`
}

// Any reports whether at least one summary field was extracted.
func (p SummaryPresence) Any() bool {
	return p.HargaJual.Found() || p.PotonganHarga.Found() || p.UangMuka.Found() ||
		p.DPP.Found() || p.PPN.Found() || p.PPnBM.Found()
}

// DecisionStep is one entry of the extraction trace: which strategy decided
// which field, and why. It replaces narrate-by-logging.
type DecisionStep struct {
	Stage    string `json:"stage"`
	Field    string `json:"field,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Detail   string `json:"detail"`
}

// ParseResult is the single structured object a document parse produces.
type ParseResult struct {
	ID                uuid.UUID           `json:"id"`
	Faktur            Faktur              `json:"faktur"`
	Layout            domain.LayoutFormat `json:"layout"`
	ProvisionalLayout bool                `json:"provisional_layout,omitempty"`
	ConfidenceScore   float64             `json:"confidence_score"`
	ParseStatus       domain.ParseStatus  `json:"parse_status"`
	ValidationIssues  []string            `json:"validation_issues"`
	RuleResults       []RuleResult        `json:"rule_results,omitempty"`
	Trace             []DecisionStep      `json:"trace,omitempty"`
}

// RuleResult pairs a rule's metadata with one of its evaluation results.
type RuleResult struct {
	RuleKey  string                    `json:"rule_key"`
	RuleName string                    `json:"rule_name"`
	Severity domain.ValidationSeverity `json:"severity"`
	ValidationResult
}

// ValidationResult is the outcome of one rule evaluation.
type ValidationResult struct {
	Passed        bool   `json:"passed"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
	Message       string `json:"message"`
}

// Penalty describes how a failed rule degrades the document confidence.
// Factor multiplies, Subtract deducts, Cap clamps from above. Zero values
// are inert.
type Penalty struct {
	Factor   float64
	Subtract float64
	Cap      float64
}

// Apply folds the penalty into a running confidence score.
func (p Penalty) Apply(confidence float64) float64 {
	if p.Factor > 0 {
		confidence *= p.Factor
	}
	confidence -= p.Subtract
	if p.Cap > 0 && confidence > p.Cap {
		confidence = p.Cap
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
