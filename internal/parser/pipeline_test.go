package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/domain"
	"fakturo/internal/ocr"
	"fakturo/internal/port"
	"fakturo/internal/validator/faktur"
)

func fullDocumentText() string {
	return strings.Join([]string{
		"Faktur Pajak",
		"Kode dan Nomor Seri Faktur Pajak: 010.003-25.12345678",
		"Pengusaha Kena Pajak",
		"Nama: PT Penjual Sejahtera",
		"Alamat: Jl. Jend. Sudirman No. 1, Jakarta",
		"NPWP: 01.234.567.8-901.234",
		"Pembeli Barang Kena Pajak",
		"Nama: PT Pembeli Makmur",
		"NPWP: 09.876.543.2-109.876",
		"Harga Jual / Penggantian / Uang Muka / Termin 4.953.154,00",
		"Dikurangi Potongan Harga 0,00",
		"Dikurangi Uang Muka 0,00",
		"Dasar Pengenaan Pajak 4.313.371,00",
		"Jumlah PPN (Pajak Pertambahan Nilai) 517.605,00",
		"Jumlah PPnBM (Pajak Penjualan atas Barang Mewah) 0,00",
		"Jakarta, 02 Januari 2025",
		"Ditandatangani secara elektronik",
		"Budi Santoso",
	}, "\n")
}

func newChain() *FallbackParser {
	return NewDefault(DefaultOptions(), faktur.DefaultValidationConfig())
}

func TestParse_TextOnlyEndToEnd(t *testing.T) {
	input := port.ParseInput{Text: fullDocumentText()}
	result, err := newChain().Parse(context.Background(), input)
	require.NoError(t, err)

	f := result.Faktur
	assert.InDelta(t, 4_953_154, f.Summary.HargaJual, 0.001)
	assert.InDelta(t, 4_313_371, f.Summary.DPP, 0.001)
	assert.InDelta(t, 517_605, f.Summary.PPN, 0.001)
	assert.InDelta(t, 0, f.Summary.PPnBM, 0.001)
	assert.InDelta(t, 0.12, f.TaxRate, 0.0001)

	assert.Equal(t, "010.003-25.12345678", f.Header.SerialNumber)
	assert.Equal(t, "2025-01-02", f.Header.IssueDate)
	assert.Equal(t, "01.234.567.8-901.234", f.Seller.NPWP)

	assert.NotEqual(t, domain.ParseStatusDraft, result.ParseStatus)
	assert.Greater(t, result.ConfidenceScore, 0.9)
	assert.NotEmpty(t, result.Trace)
	assert.NotEmpty(t, result.RuleResults)
}

func TestParse_LayoutEndToEnd(t *testing.T) {
	tokens := headerTokens()
	tokens = append(tokens,
		itemRowTokens(130, "1", "070000", "Konsultasi", "2.476.577,00", "2.156.685,00", "258.802,00")...)
	tokens = append(tokens,
		itemRowTokens(160, "2", "070000", "Pelatihan", "2.476.577,00", "2.156.686,00", "258.803,00")...)

	input := port.ParseInput{Text: fullDocumentText(), Tokens: tokens}
	result, err := newChain().Parse(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.LayoutMultiColumn, result.Layout)
	require.Len(t, result.Faktur.Items, 2)
	assert.InDelta(t, 2_156_685, result.Faktur.Items[0].DPP, 0.001)

	// Item sums reconcile against the extracted summary.
	assert.NotEqual(t, domain.ParseStatusDraft, result.ParseStatus)
	assert.Greater(t, result.ConfidenceScore, 0.9)
}

func TestParse_EmptyInput(t *testing.T) {
	result, err := newChain().Parse(context.Background(), port.ParseInput{})
	require.NoError(t, err)

	assert.Equal(t, domain.ParseStatusDraft, result.ParseStatus)
	assert.Less(t, result.ConfidenceScore, 0.1)
	assert.Empty(t, result.Faktur.Items)
	assert.False(t, result.Faktur.Found.Any())
	assert.Equal(t, domain.LayoutUnknown, result.Layout)
}

func TestParse_WhitespaceOnlyText(t *testing.T) {
	result, err := newChain().Parse(context.Background(), port.ParseInput{Text: "\n   \n\t\n"})
	require.NoError(t, err)

	assert.Equal(t, domain.ParseStatusDraft, result.ParseStatus)
	assert.Less(t, result.ConfidenceScore, 0.1)
	assert.False(t, result.Faktur.Found.Any())
	assert.Equal(t, domain.LayoutUnknown, result.Layout)
}

func TestParse_Idempotent(t *testing.T) {
	input := port.ParseInput{Text: fullDocumentText()}
	chain := newChain()

	first, err := chain.Parse(context.Background(), input)
	require.NoError(t, err)
	second, err := chain.Parse(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first, second)
}

func TestParse_DifferentInputsDifferentIDs(t *testing.T) {
	chain := newChain()
	a, err := chain.Parse(context.Background(), port.ParseInput{Text: "Dasar Pengenaan Pajak 1.000.000,00"})
	require.NoError(t, err)
	b, err := chain.Parse(context.Background(), port.ParseInput{Text: "Dasar Pengenaan Pajak 2.000.000,00"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLayoutParser_RequiresTokens(t *testing.T) {
	engineChain := newChain()
	// The chain as a whole still succeeds through the text parser.
	result, err := engineChain.Parse(context.Background(), port.ParseInput{Text: "Dasar Pengenaan Pajak 1.000.000,00"})
	require.NoError(t, err)
	assert.NotNil(t, result)

	// The layout strategy alone refuses tokenless input.
	lp := NewLayoutParser(DefaultOptions(), nil)
	_, err = lp.Parse(context.Background(), port.ParseInput{Text: "x"})
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestParse_SwapCorrectedEndToEnd(t *testing.T) {
	text := strings.Join([]string{
		"Kode dan Nomor Seri Faktur Pajak: 010.003-25.12345678",
		"NPWP: 01.234.567.8-901.234",
		// DPP and PPN labels carry each other's values.
		"Dasar Pengenaan Pajak 517.605,00",
		"Jumlah PPN 4.313.371,00",
		"Jakarta, 02 Januari 2025",
	}, "\n")

	result, err := newChain().Parse(context.Background(), port.ParseInput{Text: text})
	require.NoError(t, err)

	// Corrected in the result, flagged in the issues.
	assert.InDelta(t, 4_313_371, result.Faktur.Summary.DPP, 0.001)
	assert.InDelta(t, 517_605, result.Faktur.Summary.PPN, 0.001)
	assert.Equal(t, domain.ParseStatusNeedsReview, result.ParseStatus)
	assert.NotEmpty(t, result.ValidationIssues)
}

func TestParse_SingleColumnDistribution(t *testing.T) {
	tokens := []ocr.Token{
		tok("Nama", 10, 95, 50, 105),
		tok("Barang", 55, 95, 100, 105),
		tok("Harga", 400, 95, 440, 105),
		tok("Jual", 445, 95, 470, 105),
		// Two items at 3:1 Harga Jual proportions.
		tok("1", 10, 125, 15, 135),
		tok("Sewa", 30, 125, 70, 135),
		tok("3.000.000,00", 420, 125, 495, 135),
		tok("2", 10, 155, 15, 165),
		tok("Jasa", 30, 155, 70, 165),
		tok("1.000.000,00", 420, 155, 495, 165),
	}
	text := strings.Join([]string{
		"Dasar Pengenaan Pajak 3.603.604,00",
		"Jumlah PPN 396.396,00",
	}, "\n")

	result, err := newChain().Parse(context.Background(), port.ParseInput{Text: text, Tokens: tokens})
	require.NoError(t, err)

	assert.Equal(t, domain.LayoutSingleColumn, result.Layout)
	require.Len(t, result.Faktur.Items, 2)
	assert.InDelta(t, 2_702_703, result.Faktur.Items[0].DPP, 1)
	assert.InDelta(t, 900_901, result.Faktur.Items[1].DPP, 1)
	assert.InDelta(t, 297_297, result.Faktur.Items[0].PPN, 1)
	assert.InDelta(t, 99_099, result.Faktur.Items[1].PPN, 1)
}
