package faktur

import "fmt"

// SwapOutcome reports what the swap-correction pass did to the summary.
type SwapOutcome struct {
	Detected  bool
	Corrected bool
	Results   []ValidationResult
}

// CorrectSwap detects DPP/PPN field swaps and auto-corrects them. A VAT
// amount exceeding its own base is structurally impossible at standard
// rates, so ppn > dpp means the OCR label/value proximity assigned the
// values to the wrong fields. The pass swaps the two fields and re-checks
// rate consistency once; if the swapped pair is still inconsistent the swap
// flag stays set and the caller caps confidence for manual review.
//
// This is the only place permitted to overwrite already-extracted summary
// fields.
func CorrectSwap(d *Faktur, cfg ValidationConfig) SwapOutcome {
	const rule = "Swap: DPP/PPN Field Order"

	if !d.Found.DPP.Found() || !d.Found.PPN.Found() {
		return SwapOutcome{Results: []ValidationResult{skipResult("summary.dpp", rule)}}
	}
	if d.Summary.PPN <= d.Summary.DPP {
		return SwapOutcome{Results: []ValidationResult{
			passResult("summary.dpp", rule, "PPN does not exceed DPP"),
		}}
	}

	out := SwapOutcome{Detected: true}
	d.Summary.DPP, d.Summary.PPN = d.Summary.PPN, d.Summary.DPP

	rate := d.TaxRate
	consistent := false
	if rate > 0 {
		consistent = approxEqual(d.Summary.PPN, d.Summary.DPP*rate, cfg.Tolerance(d.Summary.DPP))
	} else {
		// No rate to re-validate against; accept the ordering fix alone.
		consistent = d.Summary.PPN <= d.Summary.DPP
	}

	if consistent {
		out.Corrected = true
		out.Results = []ValidationResult{{
			Passed: false, FieldPath: "summary.dpp",
			ExpectedValue: "ppn <= dpp",
			ActualValue:   fmt.Sprintf("dpp=%s ppn=%s (pre-swap)", fmtf(d.Summary.PPN), fmtf(d.Summary.DPP)),
			Message:       rule + ": DPP and PPN were swapped; auto-corrected and re-validated",
		}}
		return out
	}

	out.Results = []ValidationResult{{
		Passed: false, FieldPath: "summary.dpp",
		ExpectedValue: "ppn <= dpp and ppn = dpp x rate",
		ActualValue:   fmt.Sprintf("dpp=%s ppn=%s", fmtf(d.Summary.DPP), fmtf(d.Summary.PPN)),
		Message:       rule + ": PPN exceeded DPP and the swapped pair is still inconsistent; manual review required",
	}}
	return out
}
