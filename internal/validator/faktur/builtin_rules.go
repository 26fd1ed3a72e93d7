package faktur

import (
	"context"

	"fakturo/internal/domain"
)

// BuiltinValidator wraps a rule function and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	name     string
	ruleType domain.ValidationRuleType
	sev      domain.ValidationSeverity
	penalty  Penalty
	fn       func(context.Context, *Faktur, ValidationConfig) []ValidationResult
}

func (b *BuiltinValidator) Validate(ctx context.Context, data *Faktur, cfg ValidationConfig) []ValidationResult {
	return b.fn(ctx, data, cfg)
}
func (b *BuiltinValidator) RuleKey() string                     { return b.key }
func (b *BuiltinValidator) RuleName() string                    { return b.name }
func (b *BuiltinValidator) RuleType() domain.ValidationRuleType { return b.ruleType }
func (b *BuiltinValidator) Severity() domain.ValidationSeverity { return b.sev }
func (b *BuiltinValidator) Penalty() Penalty                    { return b.penalty }

// ruleLike is the common shape of the per-file validator structs.
type ruleLike interface {
	Validate(ctx context.Context, data *Faktur, cfg ValidationConfig) []ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
	Penalty() Penalty
}

func wrap(v ruleLike) *BuiltinValidator {
	return &BuiltinValidator{
		key: v.RuleKey(), name: v.RuleName(),
		ruleType: v.RuleType(), sev: v.Severity(),
		penalty: v.Penalty(), fn: v.Validate,
	}
}

// AllBuiltinValidators returns every built-in rule for Faktur Pajak
// documents, in a stable evaluation order.
func AllBuiltinValidators() []*BuiltinValidator {
	var all []*BuiltinValidator
	for _, v := range RequiredFieldValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range FormatValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range RateValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range LogicalValidators() {
		all = append(all, wrap(v))
	}
	for _, v := range ReconcileValidators() {
		all = append(all, wrap(v))
	}
	return all
}
