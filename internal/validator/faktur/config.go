package faktur

// Amount tier boundaries in IDR. Larger invoices accumulate more rounding
// drift, so tolerance percentages widen with magnitude.
const (
	tier1Boundary = 100_000_000   // 100M
	tier2Boundary = 500_000_000   // 500M
	tier3Boundary = 1_000_000_000 // 1B
)

// ValidationConfig carries every tolerance and threshold the rules consult.
// It is threaded explicitly through the engine; there are no package-level
// settings.
type ValidationConfig struct {
	// BaseTolerancePct is the relative slack for rate-consistency and
	// reconciliation checks on small invoices.
	BaseTolerancePct float64
	// Tier multipliers applied at 100M, 500M and 1B IDR.
	Tier1Multiplier float64
	Tier2Multiplier float64
	Tier3Multiplier float64
	// MaxTolerancePct caps the widened percentage.
	MaxTolerancePct float64
	// MinPlausibleAmount triggers a low-magnitude warning below it.
	MinPlausibleAmount float64
	// ApprovalThreshold is the per-item and overall confidence floor for
	// the Approved status.
	ApprovalThreshold float64
	// KnownRates are the statutory PPN rates the engine recognizes.
	KnownRates []float64
}

// DefaultValidationConfig returns the production defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		BaseTolerancePct:   0.02,
		Tier1Multiplier:    1.25,
		Tier2Multiplier:    1.5,
		Tier3Multiplier:    2.0,
		MaxTolerancePct:    0.05,
		MinPlausibleAmount: 10_000,
		ApprovalThreshold:  0.95,
		KnownRates:         []float64{0.10, 0.11, 0.12},
	}
}

// TolerancePct returns the relative tolerance for the given amount tier.
// Non-decreasing in the amount.
func (c ValidationConfig) TolerancePct(amount float64) float64 {
	pct := c.BaseTolerancePct
	switch {
	case amount >= tier3Boundary:
		pct *= c.Tier3Multiplier
	case amount >= tier2Boundary:
		pct *= c.Tier2Multiplier
	case amount >= tier1Boundary:
		pct *= c.Tier1Multiplier
	}
	if c.MaxTolerancePct > 0 && pct > c.MaxTolerancePct {
		pct = c.MaxTolerancePct
	}
	return pct
}

// Tolerance returns the absolute tolerance for comparisons against amount.
func (c ValidationConfig) Tolerance(amount float64) float64 {
	if amount < 0 {
		amount = -amount
	}
	return amount * c.TolerancePct(amount)
}
