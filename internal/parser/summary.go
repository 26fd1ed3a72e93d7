package parser

import (
	"fmt"
	"regexp"

	"fakturo/internal/domain"
	"fakturo/internal/numeric"
	"fakturo/internal/validator/faktur"
)

// fieldSpec describes one summary total: its canonical labels, lines it must
// never be read from, and how to store the extracted value.
type fieldSpec struct {
	name   string
	labels []*regexp.Regexp
	// reject skips label matches on lines that also match this pattern
	// (e.g. "Uang Muka" inside the long Harga Jual label).
	reject *regexp.Regexp
	set    func(*faktur.SummaryTotals, float64)
	mark   func(*faktur.SummaryPresence, domain.Provenance)
}

var (
	hargaJualLabelRe = regexp.MustCompile(`(?i)harga jual(?:\s*/\s*penggantian(?:\s*/\s*uang muka\s*/\s*termin)?)?`)
	potonganLabelRe  = regexp.MustCompile(`(?i)potongan harga`)
	uangMukaLabelRe  = regexp.MustCompile(`(?i)uang muka`)
	dppLabelRe       = regexp.MustCompile(`(?i)dasar pengenaan pajak|jumlah dpp`)
	ppnLabelRe       = regexp.MustCompile(`(?i)jumlah ppn|total ppn|ppn \(pajak pertambahan nilai\)`)
	ppnbmLabelRe     = regexp.MustCompile(`(?i)jumlah ppnbm|ppnbm \(|ppnbm`)

	anyLabelRe = regexp.MustCompile(`(?i)harga jual|potongan harga|uang muka|dasar pengenaan pajak|jumlah dpp|jumlah ppn|total ppn|ppnbm`)
)

// summaryFields lists the totals in extraction order.
func summaryFields() []fieldSpec {
	return []fieldSpec{
		{
			name:   "harga_jual",
			labels: []*regexp.Regexp{hargaJualLabelRe},
			set:    func(s *faktur.SummaryTotals, v float64) { s.HargaJual = v },
			mark:   func(p *faktur.SummaryPresence, prov domain.Provenance) { p.HargaJual = prov },
		},
		{
			name:   "potongan_harga",
			labels: []*regexp.Regexp{potonganLabelRe},
			set:    func(s *faktur.SummaryTotals, v float64) { s.PotonganHarga = v },
			mark:   func(p *faktur.SummaryPresence, prov domain.Provenance) { p.PotonganHarga = prov },
		},
		{
			name:   "uang_muka",
			labels: []*regexp.Regexp{uangMukaLabelRe},
			reject: regexp.MustCompile(`(?i)harga jual|penggantian|termin`),
			set:    func(s *faktur.SummaryTotals, v float64) { s.UangMuka = v },
			mark:   func(p *faktur.SummaryPresence, prov domain.Provenance) { p.UangMuka = prov },
		},
		{
			name:   "dpp",
			labels: []*regexp.Regexp{dppLabelRe},
			set:    func(s *faktur.SummaryTotals, v float64) { s.DPP = v },
			mark:   func(p *faktur.SummaryPresence, prov domain.Provenance) { p.DPP = prov },
		},
		{
			name:   "ppn",
			labels: []*regexp.Regexp{ppnLabelRe},
			set:    func(s *faktur.SummaryTotals, v float64) { s.PPN = v },
			mark:   func(p *faktur.SummaryPresence, prov domain.Provenance) { p.PPN = prov },
		},
		{
			name:   "ppnbm",
			labels: []*regexp.Regexp{ppnbmLabelRe},
			set:    func(s *faktur.SummaryTotals, v float64) { s.PPnBM = v },
			mark:   func(p *faktur.SummaryPresence, prov domain.Provenance) { p.PPnBM = prov },
		},
	}
}

// fieldCandidate is a successfully extracted amount plus its provenance.
type fieldCandidate struct {
	value float64
	prov  domain.Provenance
	note  string
}

// amountStrategy is one pure extraction attempt for one field. Strategies
// are composed first-success-wins; none may error.
type amountStrategy func(doc *document, spec fieldSpec) (fieldCandidate, bool)

// extractSummary runs the strategy chain for every summary field and
// records a decision step per extracted field. Every field defaults to 0.0
// when all strategies miss; extraction gaps are never errors.
func extractSummary(doc *document, opts Options) (faktur.SummaryTotals, faktur.SummaryPresence, []faktur.DecisionStep) {
	var totals faktur.SummaryTotals
	var presence faktur.SummaryPresence
	var trace []faktur.DecisionStep

	sig := newSignatureBlock(doc, opts)

	strategies := []struct {
		name string
		fn   amountStrategy
	}{
		{"label_search", makeLabelSearch(opts)},
		{"signature_block", sig.strategy()},
	}

	for _, spec := range summaryFields() {
		for _, s := range strategies {
			cand, ok := s.fn(doc, spec)
			if !ok {
				continue
			}
			spec.set(&totals, cand.value)
			spec.mark(&presence, cand.prov)
			trace = append(trace, faktur.DecisionStep{
				Stage: "summary", Field: spec.name, Strategy: s.name, Detail: cand.note,
			})
			break
		}
	}

	inferMissingTotals(doc, &totals, &presence, &trace)
	return totals, presence, trace
}

// makeLabelSearch builds the label strategy: find a canonical label, then
// take the rightmost currency-shaped token on the label's own line, or the
// first amount within the next LabelLookahead non-empty lines. Reference
// lines are rejected outright.
func makeLabelSearch(opts Options) amountStrategy {
	return func(doc *document, spec fieldSpec) (fieldCandidate, bool) {
		for i, line := range doc.lines {
			if line == "" || isReferenceLine(line) {
				continue
			}
			if spec.reject != nil && spec.reject.MatchString(line) {
				continue
			}
			matched := false
			for _, label := range spec.labels {
				if label.MatchString(line) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}

			// Same line: tables right-align the value after a long
			// label, so the rightmost amount wins.
			if amounts := parseAmounts(line); len(amounts) > 0 {
				v := amounts[len(amounts)-1]
				prov := domain.ProvenanceLabel
				note := fmt.Sprintf("label on line %d", i+1)
				if len(amounts) > 1 {
					prov = domain.ProvenanceRightmost
					note = fmt.Sprintf("rightmost of %d amounts on line %d", len(amounts), i+1)
				}
				return fieldCandidate{value: v, prov: prov, note: note}, true
			}

			// Lookahead: the value may wrap onto following lines.
			seen := 0
			for j := i + 1; j < len(doc.lines) && seen < opts.LabelLookahead; j++ {
				next := doc.lines[j]
				if next == "" {
					continue
				}
				seen++
				if isReferenceLine(next) {
					continue
				}
				// A line owned by another label keeps its own value.
				if anyLabelRe.MatchString(doc.folded[j]) {
					break
				}
				if amounts := parseAmounts(next); len(amounts) > 0 {
					return fieldCandidate{
						value: amounts[len(amounts)-1],
						prov:  domain.ProvenanceLabel,
						note:  fmt.Sprintf("label on line %d, amount on line %d", i+1, j+1),
					}, true
				}
			}
		}
		return fieldCandidate{}, false
	}
}

// parseAmounts returns every normalizable currency-shaped value on a line,
// left to right.
func parseAmounts(line string) []float64 {
	var out []float64
	for _, raw := range numeric.FindAmounts(line) {
		if v, ok := numeric.Normalize(raw); ok {
			out = append(out, v)
		}
	}
	return out
}

// inferMissingTotals is the arithmetic last resort. When DPP and PPN are
// known but Harga Jual is not, it hunts the document for an amount close to
// DPP+PPN before falling back to the computed sum; symmetrically DPP can be
// recovered from HargaJual-PPN. Inferred values carry lowered-confidence
// provenance.
func inferMissingTotals(doc *document, totals *faktur.SummaryTotals, presence *faktur.SummaryPresence, trace *[]faktur.DecisionStep) {
	const inferTolerancePct = 0.01

	record := func(field, detail string) {
		*trace = append(*trace, faktur.DecisionStep{
			Stage: "summary", Field: field, Strategy: "arithmetic_inference", Detail: detail,
		})
	}

	if !presence.HargaJual.Found() && presence.DPP.Found() && presence.PPN.Found() {
		target := totals.DPP + totals.PPN
		if v, ok := findAmountNear(doc, target, target*inferTolerancePct); ok {
			totals.HargaJual = v
			presence.HargaJual = domain.ProvenanceInferred
			record("harga_jual", fmt.Sprintf("document amount %s near DPP+PPN", numeric.FormatIndonesian(v)))
		} else {
			totals.HargaJual = target
			presence.HargaJual = domain.ProvenanceInferred
			record("harga_jual", "computed as DPP+PPN, no matching document amount")
		}
		return
	}

	if !presence.DPP.Found() && presence.HargaJual.Found() && presence.PPN.Found() {
		target := totals.HargaJual - totals.PPN
		if target <= 0 {
			return
		}
		if v, ok := findAmountNear(doc, target, target*inferTolerancePct); ok {
			totals.DPP = v
			presence.DPP = domain.ProvenanceInferred
			record("dpp", fmt.Sprintf("document amount %s near HargaJual-PPN", numeric.FormatIndonesian(v)))
		} else {
			totals.DPP = target
			presence.DPP = domain.ProvenanceInferred
			record("dpp", "computed as HargaJual-PPN, no matching document amount")
		}
	}
}

// findAmountNear scans every amount-shaped token in the document for one
// within tolerance of target.
func findAmountNear(doc *document, target, tolerance float64) (float64, bool) {
	for _, line := range doc.lines {
		if line == "" || isReferenceLine(line) {
			continue
		}
		for _, v := range parseAmounts(line) {
			d := v - target
			if d < 0 {
				d = -d
			}
			if d <= tolerance {
				return v, true
			}
		}
	}
	return 0, false
}
