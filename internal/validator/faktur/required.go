package faktur

import (
	"context"
	"fmt"

	"fakturo/internal/domain"
)

// requiredValidator checks header fields the Approved status depends on.
type requiredValidator struct {
	ruleKey   string
	ruleName  string
	fieldPath string
	get       func(*Faktur) string
}

func (v *requiredValidator) RuleKey() string                     { return v.ruleKey }
func (v *requiredValidator) RuleName() string                    { return v.ruleName }
func (v *requiredValidator) RuleType() domain.ValidationRuleType { return domain.ValidationRuleRequiredField }
func (v *requiredValidator) Severity() domain.ValidationSeverity { return domain.ValidationSeverityError }
func (v *requiredValidator) Penalty() Penalty                    { return Penalty{Factor: 0.9} }

func (v *requiredValidator) Validate(_ context.Context, data *Faktur, _ ValidationConfig) []ValidationResult {
	value := v.get(data)
	passed := value != ""
	msg := fmt.Sprintf("%s: %s is present", v.ruleName, v.fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s was not extracted", v.ruleName, v.fieldPath)
	}
	return []ValidationResult{{
		Passed: passed, FieldPath: v.fieldPath,
		ExpectedValue: "non-empty", ActualValue: value, Message: msg,
	}}
}

// RequiredFieldValidators returns the required-header-field validators.
func RequiredFieldValidators() []*requiredValidator {
	return []*requiredValidator{
		{
			ruleKey: "required.header.serial_number", ruleName: "Required: Faktur Serial Number",
			fieldPath: "header.serial_number",
			get:       func(d *Faktur) string { return d.Header.SerialNumber },
		},
		{
			ruleKey: "required.header.issue_date", ruleName: "Required: Issue Date",
			fieldPath: "header.issue_date",
			get:       func(d *Faktur) string { return d.Header.IssueDate },
		},
		{
			ruleKey: "required.seller.npwp", ruleName: "Required: Seller NPWP",
			fieldPath: "seller.npwp",
			get:       func(d *Faktur) string { return d.Seller.NPWP },
		},
	}
}
