package parser

import (
	"math"

	"fakturo/internal/validator/faktur"
)

// rateSnapTolerance is how close the observed PPN/DPP ratio must sit to a
// statutory rate before the rate is trusted over the date heuristic.
const rateSnapTolerance = 0.005

// defaultTaxRate applies when neither caller hint, summary ratio nor issue
// date can settle the rate.
const defaultTaxRate = 0.11

// InferTaxRate settles the applicable VAT rate, in priority order: an
// explicit caller hint, the observed summary PPN/DPP ratio snapped to a
// statutory rate, the issue date against the statutory changeover dates,
// then the default.
func InferTaxRate(hint float64, summary faktur.SummaryTotals, presence faktur.SummaryPresence, issueDateISO string, known []float64) float64 {
	if hint > 0 {
		return hint
	}

	if presence.DPP.Found() && presence.PPN.Found() && summary.DPP > 0 {
		ratio := summary.PPN / summary.DPP
		for _, r := range known {
			if math.Abs(ratio-r) <= rateSnapTolerance {
				return r
			}
		}
	}

	if issueDateISO != "" {
		switch {
		case issueDateISO >= "2025-01-01":
			return 0.12
		case issueDateISO >= "2022-04-01":
			return 0.11
		default:
			return 0.10
		}
	}

	return defaultTaxRate
}
