package faktur

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTolerancePct_Tiers(t *testing.T) {
	cfg := DefaultValidationConfig()

	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{"small invoice", 1_000_000, 0.02},
		{"just below 100M", 99_999_999, 0.02},
		{"at 100M", 100_000_000, 0.025},
		{"at 500M", 500_000_000, 0.03},
		{"at 1B", 1_000_000_000, 0.04},
		{"far above 1B", 50_000_000_000, 0.04},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cfg.TolerancePct(tt.amount), 0.0001)
		})
	}
}

func TestTolerancePct_CappedAtMax(t *testing.T) {
	cfg := DefaultValidationConfig()
	cfg.BaseTolerancePct = 0.04
	// 0.04 x 2.0 = 0.08 would exceed the 0.05 cap.
	assert.InDelta(t, 0.05, cfg.TolerancePct(2_000_000_000), 0.0001)
}

func TestTolerancePct_Monotonic(t *testing.T) {
	cfg := DefaultValidationConfig()
	amounts := []float64{0, 1, 99_999_999, 100_000_000, 499_999_999, 500_000_000, 999_999_999, 1_000_000_000, 10_000_000_000}
	prev := -1.0
	for _, a := range amounts {
		pct := cfg.TolerancePct(a)
		assert.GreaterOrEqual(t, pct, prev, "tolerance must not shrink as amounts grow (at %v)", a)
		prev = pct
	}
}

func TestTolerance_Absolute(t *testing.T) {
	cfg := DefaultValidationConfig()
	assert.InDelta(t, 20_000, cfg.Tolerance(1_000_000), 0.001)
	assert.InDelta(t, 20_000, cfg.Tolerance(-1_000_000), 0.001)
}

func TestPenalty_Apply(t *testing.T) {
	t.Run("factor", func(t *testing.T) {
		assert.InDelta(t, 0.6, Penalty{Factor: 0.6}.Apply(1.0), 0.0001)
	})
	t.Run("subtract", func(t *testing.T) {
		assert.InDelta(t, 0.95, Penalty{Subtract: 0.05}.Apply(1.0), 0.0001)
	})
	t.Run("cap", func(t *testing.T) {
		assert.InDelta(t, 0.4, Penalty{Cap: 0.4}.Apply(1.0), 0.0001)
		assert.InDelta(t, 0.2, Penalty{Cap: 0.4}.Apply(0.2), 0.0001)
	})
	t.Run("clamped to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Penalty{Subtract: 2}.Apply(0.5))
	})
}
