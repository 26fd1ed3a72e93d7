package validator

import (
	"context"

	"fakturo/internal/domain"
	"fakturo/internal/validator/faktur"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, data *faktur.Faktur, cfg faktur.ValidationConfig) []faktur.ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
	Penalty() faktur.Penalty
}
