package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fakturo/internal/validator/faktur"
)

var (
	serialLabelRe = regexp.MustCompile(`(?i)kode dan nomor seri faktur pajak`)
	// Dotted form "010.003-25.12345678" or the bare 16/17 digit run the
	// OCR sometimes collapses it into.
	serialRe = regexp.MustCompile(`\d{3}\.\d{3}-\d{2}\.\d{8}|\b\d{16,17}\b`)

	npwpLabelRe = regexp.MustCompile(`(?i)\bnpwp\b`)
	npwpRe      = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}\.\d-\d{3}\.\d{3}|\b\d{15,16}\b`)

	namaLabelRe   = regexp.MustCompile(`(?i)^nama\s*:?\s*(.*)$`)
	alamatLabelRe = regexp.MustCompile(`(?i)^alamat\s*:?\s*(.*)$`)

	sellerSectionRe = regexp.MustCompile(`(?i)pengusaha kena pajak`)
	buyerSectionRe  = regexp.MustCompile(`(?i)pembeli(?: barang kena pajak)?`)

	referensiCaptureRe = regexp.MustCompile(`(?i)referensi\s*:\s*(.+)$`)

	// "Jakarta, 02 Januari 2025"
	placeDateRe = regexp.MustCompile(`(?i)^([A-Za-z .]+),\s*(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})$`)
)

var indonesianMonths = map[string]int{
	"januari": 1, "februari": 2, "maret": 3, "april": 4,
	"mei": 5, "juni": 6, "juli": 7, "agustus": 8,
	"september": 9, "oktober": 10, "november": 11, "desember": 12,
}

// extractHeader pulls the serial number, issue place and date, reference
// note and the two parties out of the text view. Everything is best effort;
// missing fields stay zero-valued.
func extractHeader(doc *document) (faktur.Header, faktur.Party, faktur.Party, []faktur.DecisionStep) {
	var hdr faktur.Header
	var trace []faktur.DecisionStep

	record := func(field, strategy, detail string) {
		trace = append(trace, faktur.DecisionStep{
			Stage: "header", Field: field, Strategy: strategy, Detail: detail,
		})
	}

	for i, line := range doc.lines {
		if line == "" {
			continue
		}
		if hdr.SerialNumber == "" && serialLabelRe.MatchString(line) {
			// Value on the label line or the next non-empty one.
			if m := serialRe.FindString(line); m != "" {
				hdr.SerialNumber = m
				record("serial_number", "label_search", fmt.Sprintf("line %d", i+1))
			} else if next, j := nextNonEmpty(doc, i); j >= 0 {
				if m := serialRe.FindString(next); m != "" {
					hdr.SerialNumber = m
					record("serial_number", "label_search", fmt.Sprintf("label line %d, value line %d", i+1, j+1))
				}
			}
			continue
		}
		if hdr.Reference == "" {
			if m := referensiCaptureRe.FindStringSubmatch(line); m != nil {
				hdr.Reference = strings.TrimSpace(m[1])
				record("reference", "label_search", fmt.Sprintf("line %d", i+1))
				continue
			}
		}
		if hdr.IssueDate == "" {
			if m := placeDateRe.FindStringSubmatch(line); m != nil {
				if iso, ok := parseIndonesianDate(m[2], m[3], m[4]); ok {
					hdr.IssuePlace = strings.TrimSpace(m[1])
					hdr.IssueDate = iso
					record("issue_date", "place_date_line", fmt.Sprintf("line %d", i+1))
				}
			}
		}
	}

	seller, buyer := extractParties(doc, &trace)
	return hdr, seller, buyer, trace
}

// parseIndonesianDate converts day, month name, year into yyyy-mm-dd.
func parseIndonesianDate(day, month, year string) (string, bool) {
	m, ok := indonesianMonths[strings.ToLower(month)]
	if !ok {
		return "", false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d-%02d", year, m, d), true
}

// extractParties splits the document at the buyer section marker: Nama,
// Alamat and NPWP fields found before it belong to the seller, after it to
// the buyer. The seller section marker is used only to skip the form title
// above it.
func extractParties(doc *document, trace *[]faktur.DecisionStep) (faktur.Party, faktur.Party) {
	var seller, buyer faktur.Party

	buyerStart := len(doc.lines)
	sellerStart := 0
	for i, folded := range doc.folded {
		if sellerStart == 0 && sellerSectionRe.MatchString(folded) {
			sellerStart = i
		}
		if buyerSectionRe.MatchString(folded) && i > sellerStart {
			buyerStart = i
			break
		}
	}

	fill := func(p *faktur.Party, who string, from, to int) {
		for i := from; i < to && i < len(doc.lines); i++ {
			line := doc.lines[i]
			if line == "" {
				continue
			}
			if p.Name == "" {
				if m := namaLabelRe.FindStringSubmatch(line); m != nil {
					p.Name = strings.TrimSpace(m[1])
					if p.Name == "" {
						if next, _ := nextNonEmpty(doc, i); next != "" {
							p.Name = next
						}
					}
					continue
				}
			}
			if p.Address == "" {
				if m := alamatLabelRe.FindStringSubmatch(line); m != nil {
					p.Address = strings.TrimSpace(m[1])
					continue
				}
			}
			if p.NPWP == "" && npwpLabelRe.MatchString(line) {
				if m := npwpRe.FindString(line); m != "" {
					p.NPWP = m
					*trace = append(*trace, faktur.DecisionStep{
						Stage: "header", Field: who + ".npwp", Strategy: "label_search",
						Detail: fmt.Sprintf("line %d", i+1),
					})
				}
			}
		}
	}

	fill(&seller, "seller", sellerStart, buyerStart)
	fill(&buyer, "buyer", buyerStart, len(doc.lines))
	return seller, buyer
}

// nextNonEmpty returns the first non-empty line after index i and its
// index, or ("", -1).
func nextNonEmpty(doc *document, i int) (string, int) {
	for j := i + 1; j < len(doc.lines); j++ {
		if doc.lines[j] != "" {
			return doc.lines[j], j
		}
	}
	return "", -1
}
