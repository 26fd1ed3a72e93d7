package faktur

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakturo/internal/domain"
)

// labeledSummary builds a faktur whose summary fields all carry label
// provenance, the common case in rule tests.
func labeledSummary(hj, dpp, ppn float64, rate float64) *Faktur {
	return &Faktur{
		Summary: SummaryTotals{HargaJual: hj, DPP: dpp, PPN: ppn},
		Found: SummaryPresence{
			HargaJual: domain.ProvenanceLabel,
			DPP:       domain.ProvenanceLabel,
			PPN:       domain.ProvenanceLabel,
		},
		TaxRate: rate,
	}
}

func findRule(t *testing.T, key string) *BuiltinValidator {
	t.Helper()
	for _, v := range AllBuiltinValidators() {
		if v.RuleKey() == key {
			return v
		}
	}
	t.Fatalf("rule %s not registered", key)
	return nil
}

func runRule(t *testing.T, key string, d *Faktur) []ValidationResult {
	t.Helper()
	return findRule(t, key).Validate(context.Background(), d, DefaultValidationConfig())
}

func TestRateConsistency(t *testing.T) {
	t.Run("within tolerance passes", func(t *testing.T) {
		// 1.000.000 x 0.11 = 110.000, tolerance 20.000.
		d := labeledSummary(1_110_000, 1_000_000, 110_000, 0.11)
		results := runRule(t, "rate.summary.consistency", d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed)
	})

	t.Run("boundary deviation passes", func(t *testing.T) {
		d := labeledSummary(0, 1_000_000, 130_000, 0.11)
		results := runRule(t, "rate.summary.consistency", d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed, "110.000 +/- 20.000 includes 130.000")
	})

	t.Run("beyond tolerance fails", func(t *testing.T) {
		d := labeledSummary(0, 1_000_000, 150_000, 0.11)
		results := runRule(t, "rate.summary.consistency", d)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
		assert.Equal(t, "summary.ppn", results[0].FieldPath)
	})

	t.Run("missing fields skip", func(t *testing.T) {
		d := &Faktur{Summary: SummaryTotals{DPP: 1_000_000, PPN: 110_000}, TaxRate: 0.11}
		results := runRule(t, "rate.summary.consistency", d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed, "absent provenance must not fail the rule")
	})

	t.Run("zero rate skips", func(t *testing.T) {
		d := labeledSummary(0, 1_000_000, 110_000, 0)
		results := runRule(t, "rate.summary.consistency", d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed)
	})
}

func TestKnownRate(t *testing.T) {
	t.Run("statutory rates pass", func(t *testing.T) {
		for _, rate := range []float64{0.10, 0.11, 0.12} {
			d := labeledSummary(0, 0, 0, rate)
			results := runRule(t, "rate.summary.known_rate", d)
			require.Len(t, results, 1)
			assert.True(t, results[0].Passed, "rate %v", rate)
		}
	})

	t.Run("oddball rate fails", func(t *testing.T) {
		d := labeledSummary(0, 0, 0, 0.15)
		results := runRule(t, "rate.summary.known_rate", d)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
	})
}

func TestCorrectSwap(t *testing.T) {
	cfg := DefaultValidationConfig()

	t.Run("no swap when ppn below dpp", func(t *testing.T) {
		d := labeledSummary(0, 1_000_000, 110_000, 0.11)
		out := CorrectSwap(d, cfg)
		assert.False(t, out.Detected)
		assert.InDelta(t, 1_000_000, d.Summary.DPP, 0.001)
	})

	t.Run("detected and corrected", func(t *testing.T) {
		// Values swapped at extraction: DPP got the VAT, PPN the base.
		d := labeledSummary(0, 110_000, 1_000_000, 0.11)
		out := CorrectSwap(d, cfg)
		assert.True(t, out.Detected)
		assert.True(t, out.Corrected)
		assert.InDelta(t, 1_000_000, d.Summary.DPP, 0.001)
		assert.InDelta(t, 110_000, d.Summary.PPN, 0.001)
	})

	t.Run("detected but unresolved", func(t *testing.T) {
		// Swapping does not make the pair rate-consistent.
		d := labeledSummary(0, 500_000, 1_000_000, 0.11)
		out := CorrectSwap(d, cfg)
		assert.True(t, out.Detected)
		assert.False(t, out.Corrected)
		// Ordering fix is still applied.
		assert.InDelta(t, 1_000_000, d.Summary.DPP, 0.001)
	})

	t.Run("no rate accepts ordering fix", func(t *testing.T) {
		d := labeledSummary(0, 110_000, 1_000_000, 0)
		out := CorrectSwap(d, cfg)
		assert.True(t, out.Detected)
		assert.True(t, out.Corrected)
	})

	t.Run("missing provenance skips", func(t *testing.T) {
		d := &Faktur{Summary: SummaryTotals{DPP: 100, PPN: 1000}}
		out := CorrectSwap(d, cfg)
		assert.False(t, out.Detected)
		assert.InDelta(t, 100, d.Summary.DPP, 0.001)
	})
}

func TestNonNegativeAmounts(t *testing.T) {
	t.Run("all non-negative passes", func(t *testing.T) {
		d := labeledSummary(1_110_000, 1_000_000, 110_000, 0.11)
		for _, r := range runRule(t, "logic.amounts.non_negative", d) {
			assert.True(t, r.Passed, r.FieldPath)
		}
	})

	t.Run("negative summary field fails", func(t *testing.T) {
		d := labeledSummary(0, -5, 0, 0.11)
		failed := 0
		for _, r := range runRule(t, "logic.amounts.non_negative", d) {
			if !r.Passed {
				failed++
				assert.Equal(t, "summary.dpp", r.FieldPath)
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("negative item amount fails", func(t *testing.T) {
		d := &Faktur{Items: []LineItem{{LineNo: 1, PPN: -10}}}
		failed := 0
		for _, r := range runRule(t, "logic.amounts.non_negative", d) {
			if !r.Passed {
				failed++
				assert.Equal(t, "items[0].ppn", r.FieldPath)
			}
		}
		assert.Equal(t, 1, failed)
	})
}

func TestMagnitudeOrder(t *testing.T) {
	t.Run("dpp within harga jual passes", func(t *testing.T) {
		d := labeledSummary(1_110_000, 1_000_000, 110_000, 0.11)
		results := runRule(t, "logic.summary.magnitude_order", d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed)
	})

	t.Run("dpp above harga jual fails", func(t *testing.T) {
		d := labeledSummary(900_000, 1_000_000, 110_000, 0.11)
		results := runRule(t, "logic.summary.magnitude_order", d)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
	})
}

func TestMinMagnitude(t *testing.T) {
	d := labeledSummary(0, 5_000, 550, 0.11)
	results := runRule(t, "logic.summary.min_magnitude", d)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)

	d = labeledSummary(0, 10_000, 1_100, 0.11)
	results = runRule(t, "logic.summary.min_magnitude", d)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

func TestDefaultItemCode(t *testing.T) {
	d := &Faktur{Items: []LineItem{
		{LineNo: 1, Code: "070000"},
		{LineNo: 2, Code: "000000"},
		{LineNo: 3},
	}}
	results := runRule(t, "logic.items.default_code", d)
	require.Len(t, results, 3)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.False(t, results[2].Passed)
}

func TestReconcileItemSums(t *testing.T) {
	base := func() *Faktur {
		d := labeledSummary(2_220_000, 2_000_000, 220_000, 0.11)
		d.Items = []LineItem{
			{LineNo: 1, HargaJual: 1_110_000, DPP: 1_000_000, PPN: 110_000},
			{LineNo: 2, HargaJual: 1_110_000, DPP: 1_000_000, PPN: 110_000},
		}
		return d
	}

	t.Run("sums match", func(t *testing.T) {
		d := base()
		for _, key := range []string{"recon.items.dpp", "recon.items.ppn", "recon.items.harga_jual"} {
			results := runRule(t, key, d)
			require.Len(t, results, 1)
			assert.True(t, results[0].Passed, key)
		}
	})

	t.Run("dpp drift beyond tolerance fails", func(t *testing.T) {
		d := base()
		d.Items[0].DPP = 1_100_000 // sum 2.1M vs header 2M, tolerance 40.000
		results := runRule(t, "recon.items.dpp", d)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
	})

	t.Run("no items skips", func(t *testing.T) {
		d := labeledSummary(0, 2_000_000, 220_000, 0.11)
		results := runRule(t, "recon.items.dpp", d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed)
	})
}

func TestRequiredFields(t *testing.T) {
	d := &Faktur{
		Header: Header{SerialNumber: "010.003-25.12345678", IssueDate: "2025-01-02"},
		Seller: Party{NPWP: "01.234.567.8-901.234"},
	}
	for _, key := range []string{"required.header.serial_number", "required.header.issue_date", "required.seller.npwp"} {
		results := runRule(t, key, d)
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed, key)
	}

	empty := &Faktur{}
	for _, key := range []string{"required.header.serial_number", "required.header.issue_date", "required.seller.npwp"} {
		results := runRule(t, key, empty)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed, key)
	}
}

func TestFormatRules(t *testing.T) {
	t.Run("serial number shapes", func(t *testing.T) {
		valid := []string{"010.003-25.12345678", "0100032512345678", "01000325123456789"}
		for _, s := range valid {
			d := &Faktur{Header: Header{SerialNumber: s}}
			results := runRule(t, "format.header.serial_number", d)
			require.Len(t, results, 1)
			assert.True(t, results[0].Passed, s)
		}

		d := &Faktur{Header: Header{SerialNumber: "FP-2025-001"}}
		results := runRule(t, "format.header.serial_number", d)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
	})

	t.Run("npwp shapes", func(t *testing.T) {
		valid := []string{"01.234.567.8-901.234", "012345678901234", "0123456789012345"}
		for _, s := range valid {
			d := &Faktur{Seller: Party{NPWP: s}}
			results := runRule(t, "format.seller.npwp", d)
			require.Len(t, results, 1)
			assert.True(t, results[0].Passed, s)
		}
	})

	t.Run("empty field skips", func(t *testing.T) {
		results := runRule(t, "format.buyer.npwp", &Faktur{})
		require.Len(t, results, 1)
		assert.True(t, results[0].Passed)
	})
}
