package validator

import (
	"context"
	"log"
	"math"

	"fakturo/internal/domain"
	"fakturo/internal/validator/faktur"
)

// Confidence penalties the engine applies itself, outside any single rule.
var (
	swapCorrectedPenalty     = faktur.Penalty{Factor: 0.85}
	swapUnresolvedPenalty    = faktur.Penalty{Cap: 0.4}
	provisionalLayoutPenalty = faktur.Penalty{Factor: 0.85}
)

// Per-item penalties used when scoring row confidence.
const (
	itemRateMismatchFactor = 0.6
	itemMagnitudeFactor    = 0.5
	itemNegativeConfidence = 0.1
)

// RuleResult pairs a rule's metadata with one of its evaluation results.
// It lives in the faktur package so parse results can carry it.
type RuleResult = faktur.RuleResult

// Outcome is the aggregated verdict for one parsed faktur.
type Outcome struct {
	Confidence    float64            `json:"confidence"`
	Status        domain.ParseStatus `json:"status"`
	Issues        []string           `json:"issues"`
	Results       []RuleResult       `json:"results"`
	SwapDetected  bool               `json:"swap_detected"`
	SwapCorrected bool               `json:"swap_corrected"`
}

// Engine runs every registered rule against a parsed faktur, reconciles the
// numbers and produces a confidence score plus a parse status. It never
// aborts: domain-data problems become issues, and the caller always receives
// a structured outcome.
type Engine struct {
	registry *Registry
	cfg      faktur.ValidationConfig
}

// NewEngine creates an Engine with all built-in rules registered.
func NewEngine(cfg faktur.ValidationConfig) *Engine {
	registry := NewRegistry()
	for _, v := range faktur.AllBuiltinValidators() {
		registry.Register(v)
	}
	return &Engine{registry: registry, cfg: cfg}
}

// NewEngineWithRegistry creates an Engine over a caller-assembled registry.
func NewEngineWithRegistry(registry *Registry, cfg faktur.ValidationConfig) *Engine {
	return &Engine{registry: registry, cfg: cfg}
}

// Config returns the engine's validation configuration.
func (e *Engine) Config() faktur.ValidationConfig {
	return e.cfg
}

// Validate reconciles the document. It is the sole authority permitted to
// overwrite extracted summary fields (the DPP/PPN swap correction) and to
// mutate item confidence and notes.
func (e *Engine) Validate(ctx context.Context, data *faktur.Faktur, provisionalLayout bool) Outcome {
	out := Outcome{Confidence: 1.0}

	// Swap correction runs before the rules so they see corrected fields.
	swap := faktur.CorrectSwap(data, e.cfg)
	out.SwapDetected = swap.Detected
	out.SwapCorrected = swap.Corrected
	for _, r := range swap.Results {
		out.Results = append(out.Results, RuleResult{
			RuleKey: "swap.summary.dpp_ppn", RuleName: "Swap: DPP/PPN Field Order",
			Severity:         domain.ValidationSeverityError,
			ValidationResult: r,
		})
		if !r.Passed {
			out.Issues = append(out.Issues, r.Message)
		}
	}
	switch {
	case swap.Detected && swap.Corrected:
		out.Confidence = swapCorrectedPenalty.Apply(out.Confidence)
	case swap.Detected:
		out.Confidence = swapUnresolvedPenalty.Apply(out.Confidence)
	}

	reconciliationOK := true
	requiredOK := true
	for _, v := range e.registry.All() {
		results := v.Validate(ctx, data, e.cfg)
		failed := false
		for _, r := range results {
			out.Results = append(out.Results, RuleResult{
				RuleKey: v.RuleKey(), RuleName: v.RuleName(),
				Severity:         v.Severity(),
				ValidationResult: r,
			})
			if !r.Passed {
				failed = true
				out.Issues = append(out.Issues, r.Message)
			}
		}
		if !failed {
			continue
		}
		out.Confidence = v.Penalty().Apply(out.Confidence)
		if v.Severity() == domain.ValidationSeverityError {
			switch v.RuleType() {
			case domain.ValidationRuleRequiredField:
				requiredOK = false
			case domain.ValidationRuleSumCheck:
				reconciliationOK = false
			}
		}
	}

	itemsOK := e.scoreItems(data)

	if provisionalLayout {
		out.Confidence = provisionalLayoutPenalty.Apply(out.Confidence)
		out.Issues = append(out.Issues, "Layout: item columns inferred without a header row; treat item amounts as provisional")
	}

	if !data.Found.Any() && len(data.Items) == 0 {
		// Nothing extractable: a normal terminal state, not an error.
		out.Confidence = 0
		out.Status = domain.ParseStatusDraft
		return out
	}

	out.Confidence = clamp01(out.Confidence)
	if itemsOK && reconciliationOK && requiredOK && out.Confidence >= e.cfg.ApprovalThreshold {
		out.Status = domain.ParseStatusApproved
	} else {
		out.Status = domain.ParseStatusNeedsReview
	}

	log.Printf("validator.Engine: faktur validated — status=%s confidence=%.2f issues=%d", out.Status, out.Confidence, len(out.Issues))
	return out
}

// scoreItems assigns a per-row confidence to every line item and reports
// whether all rows clear the approval threshold.
func (e *Engine) scoreItems(data *faktur.Faktur) bool {
	allOK := true
	for i := range data.Items {
		item := &data.Items[i]
		conf := 1.0

		if item.HargaJual < 0 || item.DPP < 0 || item.PPN < 0 {
			conf = itemNegativeConfidence
			item.Notes = append(item.Notes, "negative amount")
		}

		if data.TaxRate > 0 && item.DPP > 0 && item.PPN > 0 {
			expected := item.DPP * data.TaxRate
			if math.Abs(item.PPN-expected) > e.cfg.Tolerance(item.DPP) {
				conf *= itemRateMismatchFactor
				item.IsVariance = true
				item.Notes = append(item.Notes, "PPN does not match DPP x rate")
			}
		}

		if item.HargaJual > 0 && item.DPP > item.HargaJual {
			conf *= itemMagnitudeFactor
			item.Notes = append(item.Notes, "DPP exceeds Harga Jual")
		}

		item.RowConfidence = clamp01(conf)
		if item.RowConfidence < e.cfg.ApprovalThreshold {
			allOK = false
		}
	}
	return allOK
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
