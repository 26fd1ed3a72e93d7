package faktur

import (
	"fmt"
	"math"
)

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func passResult(fieldPath, ruleName, detail string) ValidationResult {
	return ValidationResult{
		Passed: true, FieldPath: fieldPath,
		Message: fmt.Sprintf("%s: %s", ruleName, detail),
	}
}

func skipResult(fieldPath, ruleName string) ValidationResult {
	return ValidationResult{
		Passed: true, FieldPath: fieldPath,
		Message: fmt.Sprintf("%s: fields missing, skipping", ruleName),
	}
}
