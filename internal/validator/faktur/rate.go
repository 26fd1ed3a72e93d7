package faktur

import (
	"context"
	"fmt"

	"fakturo/internal/domain"
)

// rateValidator checks PPN against DPP times the applicable tax rate.
type rateValidator struct {
	ruleKey  string
	ruleName string
	severity domain.ValidationSeverity
	penalty  Penalty
	validate func(*Faktur, ValidationConfig) []ValidationResult
}

func (v *rateValidator) RuleKey() string                     { return v.ruleKey }
func (v *rateValidator) RuleName() string                    { return v.ruleName }
func (v *rateValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleSumCheck }
func (v *rateValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *rateValidator) Penalty() Penalty                    { return v.penalty }

func (v *rateValidator) Validate(_ context.Context, data *Faktur, cfg ValidationConfig) []ValidationResult {
	return v.validate(data, cfg)
}

// RateValidators returns the tax-rate arithmetic validators.
func RateValidators() []*rateValidator {
	return []*rateValidator{
		{
			ruleKey: "rate.summary.consistency", ruleName: "Rate: Summary PPN Consistency",
			severity: domain.ValidationSeverityError,
			// Rate mismatch is a strong mis-extraction signal.
			penalty: Penalty{Factor: 0.6},
			validate: func(d *Faktur, cfg ValidationConfig) []ValidationResult {
				const rule = "Rate: Summary PPN Consistency"
				if !d.Found.DPP.Found() || !d.Found.PPN.Found() {
					return []ValidationResult{skipResult("summary.ppn", rule)}
				}
				rate := d.TaxRate
				if rate <= 0 {
					return []ValidationResult{skipResult("summary.ppn", rule)}
				}
				expected := d.Summary.DPP * rate
				tol := cfg.Tolerance(d.Summary.DPP)
				passed := approxEqual(d.Summary.PPN, expected, tol)
				msg := fmt.Sprintf("%s: PPN matches DPP x %.2f within %.0f", rule, rate, tol)
				if !passed {
					msg = fmt.Sprintf("%s: PPN %s deviates from DPP x %.2f = %s by more than %.0f", rule, fmtf(d.Summary.PPN), rate, fmtf(expected), tol)
				}
				return []ValidationResult{{
					Passed: passed, FieldPath: "summary.ppn",
					ExpectedValue: fmtf(expected), ActualValue: fmtf(d.Summary.PPN), Message: msg,
				}}
			},
		},
		{
			ruleKey: "rate.summary.known_rate", ruleName: "Rate: Recognized Statutory Rate",
			severity: domain.ValidationSeverityWarning,
			penalty:  Penalty{Subtract: 0.03},
			validate: func(d *Faktur, cfg ValidationConfig) []ValidationResult {
				const rule = "Rate: Recognized Statutory Rate"
				if d.TaxRate <= 0 {
					return []ValidationResult{skipResult("tax_rate", rule)}
				}
				for _, r := range cfg.KnownRates {
					if approxEqual(d.TaxRate, r, 0.005) {
						return []ValidationResult{passResult("tax_rate", rule, fmt.Sprintf("rate %.2f is statutory", d.TaxRate))}
					}
				}
				return []ValidationResult{{
					Passed: false, FieldPath: "tax_rate",
					ExpectedValue: "one of 0.10, 0.11, 0.12", ActualValue: fmtf(d.TaxRate),
					Message: fmt.Sprintf("%s: rate %.4f is not a recognized PPN rate", rule, d.TaxRate),
				}}
			},
		},
	}
}
