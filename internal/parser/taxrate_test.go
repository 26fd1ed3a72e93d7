package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fakturo/internal/domain"
	"fakturo/internal/validator/faktur"
)

func TestInferTaxRate(t *testing.T) {
	known := faktur.DefaultValidationConfig().KnownRates

	found := faktur.SummaryPresence{
		DPP: domain.ProvenanceLabel,
		PPN: domain.ProvenanceLabel,
	}

	t.Run("hint wins over everything", func(t *testing.T) {
		summary := faktur.SummaryTotals{DPP: 1_000_000, PPN: 120_000}
		got := InferTaxRate(0.11, summary, found, "2025-06-01", known)
		assert.InDelta(t, 0.11, got, 0.0001)
	})

	t.Run("ratio snaps to statutory rate", func(t *testing.T) {
		summary := faktur.SummaryTotals{DPP: 4_313_371, PPN: 517_605}
		got := InferTaxRate(0, summary, found, "", known)
		assert.InDelta(t, 0.12, got, 0.0001)
	})

	t.Run("ratio off every rate falls through to date", func(t *testing.T) {
		summary := faktur.SummaryTotals{DPP: 1_000_000, PPN: 180_000}
		got := InferTaxRate(0, summary, found, "2023-06-01", known)
		assert.InDelta(t, 0.11, got, 0.0001)
	})

	t.Run("date thresholds", func(t *testing.T) {
		var none faktur.SummaryPresence
		tests := []struct {
			date string
			want float64
		}{
			{"2025-01-01", 0.12},
			{"2026-03-15", 0.12},
			{"2024-12-31", 0.11},
			{"2022-04-01", 0.11},
			{"2022-03-31", 0.10},
			{"2019-07-01", 0.10},
		}
		for _, tt := range tests {
			got := InferTaxRate(0, faktur.SummaryTotals{}, none, tt.date, known)
			assert.InDelta(t, tt.want, got, 0.0001, "date %s", tt.date)
		}
	})

	t.Run("no signals at all defaults", func(t *testing.T) {
		var none faktur.SummaryPresence
		got := InferTaxRate(0, faktur.SummaryTotals{}, none, "", known)
		assert.InDelta(t, 0.11, got, 0.0001)
	})
}
