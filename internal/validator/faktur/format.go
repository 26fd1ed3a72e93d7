package faktur

import (
	"context"
	"fmt"
	"regexp"

	"fakturo/internal/domain"
)

var (
	// 15-digit dotted NPWP, or the bare 15/16-digit NITKU-era form.
	npwpPattern = regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}\.\d-\d{3}\.\d{3}$|^\d{15,16}$`)
	// Kode dan Nomor Seri Faktur Pajak: 3-digit transaction code, 3-digit
	// branch code, 2-digit year, 8-digit serial.
	serialPattern = regexp.MustCompile(`^\d{3}\.\d{3}-\d{2}\.\d{8}$|^\d{16,17}$`)
)

// formatValidator checks an extracted field against its document format.
// Failures are warnings only: OCR noise routinely mangles punctuation, and a
// shape mismatch alone should reduce confidence, not block a result.
type formatValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	pattern   *regexp.Regexp
	get       func(*Faktur) string
}

func (v *formatValidator) RuleKey() string                     { return v.ruleKey }
func (v *formatValidator) RuleName() string                    { return v.ruleName }
func (v *formatValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleRegex }
func (v *formatValidator) Severity() domain.ValidationSeverity { return domain.ValidationSeverityWarning }
func (v *formatValidator) Penalty() Penalty                    { return Penalty{Factor: 0.95} }

func (v *formatValidator) Validate(_ context.Context, data *Faktur, _ ValidationConfig) []ValidationResult {
	value := v.get(data)
	if value == "" {
		return []ValidationResult{{
			Passed: true, FieldPath: v.fieldPath,
			ExpectedValue: v.pattern.String(), ActualValue: value,
			Message: fmt.Sprintf("%s: field is empty, skipping format check", v.ruleName),
		}}
	}
	passed := v.pattern.MatchString(value)
	msg := fmt.Sprintf("%s: %s matches expected format", v.ruleName, v.fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s does not match expected format", v.ruleName, v.fieldPath)
	}
	return []ValidationResult{{
		Passed: passed, FieldPath: v.fieldPath,
		ExpectedValue: v.pattern.String(), ActualValue: value, Message: msg,
	}}
}

// FormatValidators returns the regex shape validators.
func FormatValidators() []*formatValidator {
	return []*formatValidator{
		{
			ruleKey: "format.header.serial_number", ruleName: "Format: Faktur Serial Number",
			fieldPath: "header.serial_number", pattern: serialPattern,
			get: func(d *Faktur) string { return d.Header.SerialNumber },
		},
		{
			ruleKey: "format.seller.npwp", ruleName: "Format: Seller NPWP",
			fieldPath: "seller.npwp", pattern: npwpPattern,
			get: func(d *Faktur) string { return d.Seller.NPWP },
		},
		{
			ruleKey: "format.buyer.npwp", ruleName: "Format: Buyer NPWP",
			fieldPath: "buyer.npwp", pattern: npwpPattern,
			get: func(d *Faktur) string { return d.Buyer.NPWP },
		},
	}
}
