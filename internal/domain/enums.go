package domain

// ParseStatus represents the review outcome of a parsed faktur.
type ParseStatus string

const (
	ParseStatusDraft       ParseStatus = "draft"
	ParseStatusNeedsReview ParseStatus = "needs_review"
	ParseStatusApproved    ParseStatus = "approved"
)

// LayoutFormat classifies how the item table reports its amounts.
type LayoutFormat string

const (
	LayoutMultiColumn  LayoutFormat = "multi_column"
	LayoutSingleColumn LayoutFormat = "single_column"
	LayoutUnknown      LayoutFormat = "unknown"
)

// Provenance records which extraction strategy produced a summary field.
type Provenance string

const (
	ProvenanceNone      Provenance = ""
	ProvenanceLabel     Provenance = "label"
	ProvenanceRightmost Provenance = "rightmost"
	ProvenanceSignature Provenance = "signature_block"
	ProvenanceInferred  Provenance = "inferred"
)

// Found reports whether the field was extracted by any strategy.
func (p Provenance) Found() bool { return p != ProvenanceNone }

// FieldValidationStatus is the per-field rollup shown to reviewers.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
	FieldStatusInvalid FieldValidationStatus = "invalid"
)

// ValidationSeverity controls how a failed rule affects the parse status.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)

// ValidationRuleType categorizes built-in validation rules.
type ValidationRuleType string

const (
	ValidationRuleSumCheck      ValidationRuleType = "sum_check"
	ValidationRuleRegex         ValidationRuleType = "regex"
	ValidationRuleRequiredField ValidationRuleType = "required_field"
	ValidationRuleCrossField    ValidationRuleType = "cross_field"
	ValidationRuleCustom        ValidationRuleType = "custom"
)
