package xlsxexport

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/domain"
	"fakturo/internal/validator/faktur"
)

func sampleResult() *faktur.ParseResult {
	return &faktur.ParseResult{
		ID: uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Faktur: faktur.Faktur{
			Header: faktur.Header{SerialNumber: "010.003-25.12345678", IssueDate: "2025-01-02"},
			Seller: faktur.Party{Name: "PT Penjual", NPWP: "01.234.567.8-901.234"},
			Items: []faktur.LineItem{
				{LineNo: 1, Code: "070000", Description: "Konsultasi", HargaJual: 1_110_000, DPP: 1_000_000, PPN: 110_000, RowConfidence: 1},
			},
			Summary: faktur.SummaryTotals{HargaJual: 1_110_000, DPP: 1_000_000, PPN: 110_000},
			Found: faktur.SummaryPresence{
				HargaJual: domain.ProvenanceLabel,
				DPP:       domain.ProvenanceLabel,
				PPN:       domain.ProvenanceLabel,
			},
			TaxRate: 0.11,
		},
		Layout:          domain.LayoutMultiColumn,
		ConfidenceScore: 0.97,
		ParseStatus:     domain.ParseStatusApproved,
	}
}

func TestNewWriter_Sheets(t *testing.T) {
	w, err := NewWriter("Review")
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	sheets := w.File().GetSheetList()
	assert.Contains(t, sheets, "Review")
	assert.Contains(t, sheets, "Items")

	got, err := w.File().GetCellValue("Review", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Document Name", got)
}

func TestNewWriter_DefaultSheetName(t *testing.T) {
	w, err := NewWriter("")
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	assert.Contains(t, w.File().GetSheetList(), "Review")
}

func TestAddResult(t *testing.T) {
	w, err := NewWriter("Review")
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.AddResult("faktur-001", sampleResult()))

	name, err := w.File().GetCellValue("Review", "A2")
	require.NoError(t, err)
	assert.Equal(t, "faktur-001", name)

	serial, err := w.File().GetCellValue("Review", "E2")
	require.NoError(t, err)
	assert.Equal(t, "010.003-25.12345678", serial)

	itemDesc, err := w.File().GetCellValue("Items", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Konsultasi", itemDesc)
}

func TestAddResult_AbsentTotalsBlank(t *testing.T) {
	w, err := NewWriter("Review")
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.AddResult("doc", sampleResult()))

	// PPnBM was never extracted: column P stays blank.
	ppnbm, err := w.File().GetCellValue("Review", "P2")
	require.NoError(t, err)
	assert.Empty(t, ppnbm)
}

func TestAddResult_InvalidFieldStyled(t *testing.T) {
	res := sampleResult()
	res.RuleResults = []faktur.RuleResult{
		{
			RuleKey: "required.seller.npwp", Severity: domain.ValidationSeverityError,
			ValidationResult: faktur.ValidationResult{Passed: false, FieldPath: "seller.npwp", Message: "missing"},
		},
	}

	w, err := NewWriter("Review")
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	require.NoError(t, w.AddResult("doc", res))

	// Seller NPWP is column H; a style id must have been applied.
	styleID, err := w.File().GetCellStyle("Review", "H2")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestAddResult_MultipleDocumentsAccumulate(t *testing.T) {
	w, err := NewWriter("Review")
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.AddResult("a", sampleResult()))
	require.NoError(t, w.AddResult("b", sampleResult()))

	second, err := w.File().GetCellValue("Review", "A3")
	require.NoError(t, err)
	assert.Equal(t, "b", second)

	// Each document contributed one item row.
	item2, err := w.File().GetCellValue("Items", "A3")
	require.NoError(t, err)
	assert.Equal(t, "b", item2)
}
