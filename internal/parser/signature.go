package parser

import (
	"fmt"
	"regexp"
	"strings"

	"fakturo/internal/domain"
)

// signatureAnchor marks the electronically-signed footer. The totals are
// often re-printed, unlabeled, in a fixed order right around it.
const signatureAnchor = "ditandatangani secara elektronik"

var alphabeticLineRe = regexp.MustCompile(`^[A-Za-z][A-Za-z .,'-]*$`)

// signatureBlock resolves the unlabeled amount run near the signature
// footer into named totals. The amounts appear in document order Harga
// Jual, (Potongan Harga), (Uang Muka), DPP, PPN, (PPnBM); which optional
// slots are present depends on the count, so each plausible assignment is
// tried in rank order and the first one passing the ordering invariants
// wins.
type signatureBlock struct {
	found  bool
	signer string
	fields map[string]float64
	note   string
}

func newSignatureBlock(doc *document, opts Options) *signatureBlock {
	sb := &signatureBlock{fields: map[string]float64{}}

	anchor := -1
	for i, folded := range doc.folded {
		if strings.Contains(folded, signatureAnchor) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return sb
	}

	for j := anchor + 1; j < len(doc.lines) && j <= anchor+opts.SignatureWindow; j++ {
		line := doc.lines[j]
		if line == "" || isReferenceLine(line) {
			continue
		}
		if sb.signer == "" && alphabeticLineRe.MatchString(line) {
			sb.signer = line
		}
	}

	amounts := collectSignatureAmounts(doc, anchor, opts.SignatureWindow)
	fields, label, ok := assignSignatureAmounts(amounts)
	if !ok {
		return sb
	}
	sb.found = true
	sb.fields = fields
	sb.note = fmt.Sprintf("%s hypothesis over %d amounts after signature anchor", label, len(amounts))
	if sb.signer != "" {
		sb.note += fmt.Sprintf(", signed by %s", sb.signer)
	}
	return sb
}

// collectSignatureAmounts gathers amount-shaped lines around the anchor.
// Totals can sit above the anchor (summary table directly before the
// footer) or below it, so both directions are scanned, above first to keep
// document order.
func collectSignatureAmounts(doc *document, anchor, window int) []float64 {
	var out []float64
	lo := anchor - window
	if lo < 0 {
		lo = 0
	}
	hi := anchor + window
	if hi >= len(doc.lines) {
		hi = len(doc.lines) - 1
	}
	for j := lo; j <= hi; j++ {
		if j == anchor {
			continue
		}
		line := doc.lines[j]
		if line == "" || isReferenceLine(line) {
			continue
		}
		for _, v := range parseAmounts(line) {
			out = append(out, v)
		}
	}
	return out
}

// signatureHypothesis names one positional assignment of the amount run.
type signatureHypothesis struct {
	label string
	slots []string
}

// hypothesesFor returns the ranked assignments for a run of n amounts.
// "hj_dup" marks a duplicated Harga Jual print and is discarded.
func hypothesesFor(n int) []signatureHypothesis {
	switch n {
	case 4:
		return []signatureHypothesis{
			{"4a", []string{"harga_jual", "dpp", "ppn", "ppnbm"}},
			{"4b", []string{"harga_jual", "potongan_harga", "dpp", "ppn"}},
		}
	case 5:
		return []signatureHypothesis{
			{"5a", []string{"harga_jual", "potongan_harga", "dpp", "ppn", "ppnbm"}},
			{"5b", []string{"harga_jual", "hj_dup", "dpp", "ppn", "ppnbm"}},
		}
	case 6:
		return []signatureHypothesis{
			{"6a", []string{"harga_jual", "hj_dup", "potongan_harga", "dpp", "ppn", "ppnbm"}},
			{"6b", []string{"harga_jual", "potongan_harga", "uang_muka", "dpp", "ppn", "ppnbm"}},
		}
	default:
		return nil
	}
}

// assignSignatureAmounts tries each hypothesis for the run length and keeps
// the first whose totals satisfy the structural invariants of a faktur:
// Harga Jual at least DPP, PPN at most DPP, and a duplicated Harga Jual
// slot actually duplicating.
func assignSignatureAmounts(amounts []float64) (map[string]float64, string, bool) {
	for _, h := range hypothesesFor(len(amounts)) {
		fields := map[string]float64{}
		ok := true
		for i, slot := range h.slots {
			if slot == "hj_dup" {
				if amounts[i] != fields["harga_jual"] {
					ok = false
					break
				}
				continue
			}
			fields[slot] = amounts[i]
		}
		if !ok {
			continue
		}
		hj, dpp, ppn := fields["harga_jual"], fields["dpp"], fields["ppn"]
		if hj < dpp || hj == dpp || ppn > dpp {
			continue
		}
		// An optional deduction equal to the gross is a duplicated print of
		// Harga Jual, not a real deduction; the duplicate hypothesis handles it.
		if pot, ok := fields["potongan_harga"]; ok && pot >= hj {
			continue
		}
		if um, ok := fields["uang_muka"]; ok && um >= hj {
			continue
		}
		return fields, h.label, true
	}
	return nil, "", false
}

// strategy adapts the block into the summary strategy chain: a field
// resolves only if the winning hypothesis assigned it a slot.
func (sb *signatureBlock) strategy() amountStrategy {
	return func(_ *document, spec fieldSpec) (fieldCandidate, bool) {
		if !sb.found {
			return fieldCandidate{}, false
		}
		v, ok := sb.fields[spec.name]
		if !ok {
			return fieldCandidate{}, false
		}
		return fieldCandidate{value: v, prov: domain.ProvenanceSignature, note: sb.note}, true
	}
}
