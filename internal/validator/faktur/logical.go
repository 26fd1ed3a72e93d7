package faktur

import (
	"context"
	"fmt"

	"fakturo/internal/domain"
)

// defaultItemCode is the placeholder goods code emitted when the issuer never
// classified the item.
const defaultItemCode = "000000"

// logicalValidator checks structural constraints on the extracted amounts.
type logicalValidator struct {
	ruleKey  string
	ruleName string
	severity domain.ValidationSeverity
	penalty  Penalty
	validate func(*Faktur, ValidationConfig) []ValidationResult
}

func (v *logicalValidator) RuleKey() string                     { return v.ruleKey }
func (v *logicalValidator) RuleName() string                    { return v.ruleName }
func (v *logicalValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleCustom }
func (v *logicalValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *logicalValidator) Penalty() Penalty                    { return v.penalty }

func (v *logicalValidator) Validate(_ context.Context, data *Faktur, cfg ValidationConfig) []ValidationResult {
	return v.validate(data, cfg)
}

// LogicalValidators returns all structural validators.
func LogicalValidators() []*logicalValidator {
	return []*logicalValidator{
		{
			ruleKey: "logic.amounts.non_negative", ruleName: "Logical: Non-Negative Amounts",
			severity: domain.ValidationSeverityError,
			// A negative amount is an automatic fail.
			penalty: Penalty{Cap: 0.1},
			validate: func(d *Faktur, _ ValidationConfig) []ValidationResult {
				const rule = "Logical: Non-Negative Amounts"
				amounts := map[string]float64{
					"summary.harga_jual":     d.Summary.HargaJual,
					"summary.potongan_harga": d.Summary.PotonganHarga,
					"summary.uang_muka":      d.Summary.UangMuka,
					"summary.dpp":            d.Summary.DPP,
					"summary.ppn":            d.Summary.PPN,
					"summary.ppnbm":          d.Summary.PPnBM,
				}
				fieldPaths := []string{
					"summary.harga_jual", "summary.potongan_harga", "summary.uang_muka",
					"summary.dpp", "summary.ppn", "summary.ppnbm",
				}
				var results []ValidationResult
				for _, fp := range fieldPaths {
					val := amounts[fp]
					passed := val >= 0
					msg := fmt.Sprintf("%s: %s is non-negative", rule, fp)
					if !passed {
						msg = fmt.Sprintf("%s: %s is negative (%.2f)", rule, fp, val)
					}
					results = append(results, ValidationResult{
						Passed: passed, FieldPath: fp,
						ExpectedValue: ">= 0", ActualValue: fmtf(val), Message: msg,
					})
				}
				for i, item := range d.Items {
					for _, f := range [...]struct {
						name string
						val  float64
					}{
						{"harga_jual", item.HargaJual}, {"dpp", item.DPP}, {"ppn", item.PPN},
					} {
						fp := fmt.Sprintf("items[%d].%s", i, f.name)
						passed := f.val >= 0
						msg := fmt.Sprintf("%s: %s is non-negative", rule, fp)
						if !passed {
							msg = fmt.Sprintf("%s: %s is negative (%.2f)", rule, fp, f.val)
						}
						results = append(results, ValidationResult{
							Passed: passed, FieldPath: fp,
							ExpectedValue: ">= 0", ActualValue: fmtf(f.val), Message: msg,
						})
					}
				}
				return results
			},
		},
		{
			ruleKey: "logic.summary.magnitude_order", ruleName: "Logical: DPP Within Harga Jual",
			severity: domain.ValidationSeverityError,
			// Net taxable value above gross is unresolvable without review.
			penalty: Penalty{Cap: 0.3},
			validate: func(d *Faktur, _ ValidationConfig) []ValidationResult {
				const rule = "Logical: DPP Within Harga Jual"
				if !d.Found.DPP.Found() || !d.Found.HargaJual.Found() {
					return []ValidationResult{skipResult("summary.dpp", rule)}
				}
				passed := d.Summary.DPP <= d.Summary.HargaJual
				msg := fmt.Sprintf("%s: DPP does not exceed Harga Jual", rule)
				if !passed {
					msg = fmt.Sprintf("%s: DPP %s exceeds Harga Jual %s", rule, fmtf(d.Summary.DPP), fmtf(d.Summary.HargaJual))
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "summary.dpp",
					ExpectedValue: fmt.Sprintf("<= %s", fmtf(d.Summary.HargaJual)),
					ActualValue:   fmtf(d.Summary.DPP), Message: msg,
				}}
			},
		},
		{
			ruleKey: "logic.summary.min_magnitude", ruleName: "Logical: Plausible Invoice Magnitude",
			severity: domain.ValidationSeverityWarning,
			penalty:  Penalty{Subtract: 0.05},
			validate: func(d *Faktur, cfg ValidationConfig) []ValidationResult {
				const rule = "Logical: Plausible Invoice Magnitude"
				if !d.Found.DPP.Found() {
					return []ValidationResult{skipResult("summary.dpp", rule)}
				}
				passed := d.Summary.DPP >= cfg.MinPlausibleAmount
				msg := fmt.Sprintf("%s: DPP is above the plausibility floor", rule)
				if !passed {
					msg = fmt.Sprintf("%s: DPP %s is below the plausible minimum %s", rule, fmtf(d.Summary.DPP), fmtf(cfg.MinPlausibleAmount))
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "summary.dpp",
					ExpectedValue: fmt.Sprintf(">= %s", fmtf(cfg.MinPlausibleAmount)),
					ActualValue:   fmtf(d.Summary.DPP), Message: msg,
				}}
			},
		},
		{
			ruleKey: "logic.items.default_code", ruleName: "Logical: Item Code Plausibility",
			severity: domain.ValidationSeverityWarning,
			penalty:  Penalty{Factor: 0.9},
			validate: func(d *Faktur, _ ValidationConfig) []ValidationResult {
				const rule = "Logical: Item Code Plausibility"
				if len(d.Items) == 0 {
					return []ValidationResult{skipResult("items", rule)}
				}
				var results []ValidationResult
				for i, item := range d.Items {
					fp := fmt.Sprintf("items[%d].code", i)
					passed := item.Code != "" && item.Code != defaultItemCode
					msg := fmt.Sprintf("%s: %s is a real goods code", rule, fp)
					if !passed {
						msg = fmt.Sprintf("%s: %s is missing or the all-zero default", rule, fp)
					}
					results = append(results, ValidationResult{
						Passed: passed, FieldPath: fp,
						ExpectedValue: "non-empty, not " + defaultItemCode,
						ActualValue:   item.Code, Message: msg,
					})
				}
				return results
			},
		},
	}
}
