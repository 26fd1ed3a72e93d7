package faktur

import (
	"context"
	"fmt"

	"fakturo/internal/domain"
)

// reconcileValidator compares item-level sums against the header totals.
type reconcileValidator struct {
	ruleKey  string
	ruleName string
	severity domain.ValidationSeverity
	penalty  Penalty
	validate func(*Faktur, ValidationConfig) []ValidationResult
}

func (v *reconcileValidator) RuleKey() string                     { return v.ruleKey }
func (v *reconcileValidator) RuleName() string                    { return v.ruleName }
func (v *reconcileValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleSumCheck }
func (v *reconcileValidator) Severity() domain.ValidationSeverity { return v.severity }
func (v *reconcileValidator) Penalty() Penalty                    { return v.penalty }

func (v *reconcileValidator) Validate(_ context.Context, data *Faktur, cfg ValidationConfig) []ValidationResult {
	return v.validate(data, cfg)
}

func reconcileCheck(rule, fieldPath string, itemSum, headerTotal float64, cfg ValidationConfig) ValidationResult {
	tol := cfg.Tolerance(headerTotal)
	passed := approxEqual(itemSum, headerTotal, tol)
	msg := fmt.Sprintf("%s: item sum matches header total within %.0f", rule, tol)
	if !passed {
		msg = fmt.Sprintf("%s: item sum %s does not match header total %s (tolerance %.0f)", rule, fmtf(itemSum), fmtf(headerTotal), tol)
	}
	return ValidationResult{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: fmtf(headerTotal), ActualValue: fmtf(itemSum), Message: msg,
	}
}

// ReconcileValidators returns the item-vs-header reconciliation validators.
// A mismatch is never silently accepted: the error severity forces the
// Needs Review status.
func ReconcileValidators() []*reconcileValidator {
	return []*reconcileValidator{
		{
			ruleKey: "recon.items.dpp", ruleName: "Reconcile: Item DPP Sum",
			severity: domain.ValidationSeverityError,
			penalty:  Penalty{Factor: 0.8},
			validate: func(d *Faktur, cfg ValidationConfig) []ValidationResult {
				const rule = "Reconcile: Item DPP Sum"
				if len(d.Items) == 0 || !d.Found.DPP.Found() {
					return []ValidationResult{skipResult("summary.dpp", rule)}
				}
				var sum float64
				for i := range d.Items {
					sum += d.Items[i].DPP
				}
				return []ValidationResult{reconcileCheck(rule, "summary.dpp", sum, d.Summary.DPP, cfg)}
			},
		},
		{
			ruleKey: "recon.items.ppn", ruleName: "Reconcile: Item PPN Sum",
			severity: domain.ValidationSeverityError,
			penalty:  Penalty{Factor: 0.8},
			validate: func(d *Faktur, cfg ValidationConfig) []ValidationResult {
				const rule = "Reconcile: Item PPN Sum"
				if len(d.Items) == 0 || !d.Found.PPN.Found() {
					return []ValidationResult{skipResult("summary.ppn", rule)}
				}
				var sum float64
				for i := range d.Items {
					sum += d.Items[i].PPN
				}
				return []ValidationResult{reconcileCheck(rule, "summary.ppn", sum, d.Summary.PPN, cfg)}
			},
		},
		{
			ruleKey: "recon.items.harga_jual", ruleName: "Reconcile: Item Harga Jual Sum",
			severity: domain.ValidationSeverityWarning,
			penalty:  Penalty{Factor: 0.9},
			validate: func(d *Faktur, cfg ValidationConfig) []ValidationResult {
				const rule = "Reconcile: Item Harga Jual Sum"
				if len(d.Items) == 0 || !d.Found.HargaJual.Found() {
					return []ValidationResult{skipResult("summary.harga_jual", rule)}
				}
				var sum float64
				for i := range d.Items {
					sum += d.Items[i].HargaJual
				}
				return []ValidationResult{reconcileCheck(rule, "summary.harga_jual", sum, d.Summary.HargaJual, cfg)}
			},
		},
	}
}
