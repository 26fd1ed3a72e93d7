package ocr

import "sort"

// Row is an ordered set of tokens sharing a Y cluster.
type Row struct {
	YCenter float64
	Tokens  []Token
}

// Text joins the row's token texts left to right with single spaces.
func (r Row) Text() string {
	out := ""
	for i, t := range r.Tokens {
		if i > 0 {
			out += " "
		}
		out += t.Text
	}
	return out
}

// ClusterRows groups tokens into visual rows by Y proximity. Tokens are
// sorted by vertical center and greedily accumulated while each token stays
// within yTolerance of the running row mean; the first token beyond the
// tolerance closes the row. The partition is deterministic for a fixed
// token set and tolerance. Empty input yields an empty slice.
func ClusterRows(tokens []Token, yTolerance float64) []Row {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].YMid() != sorted[j].YMid() {
			return sorted[i].YMid() < sorted[j].YMid()
		}
		if sorted[i].X0 != sorted[j].X0 {
			return sorted[i].X0 < sorted[j].X0
		}
		return sorted[i].Text < sorted[j].Text
	})

	var rows []Row
	current := []Token{sorted[0]}
	sum := sorted[0].YMid()

	for _, t := range sorted[1:] {
		mean := sum / float64(len(current))
		d := t.YMid() - mean
		if d < 0 {
			d = -d
		}
		if d <= yTolerance {
			current = append(current, t)
			sum += t.YMid()
			continue
		}
		rows = append(rows, closeRow(current, sum))
		current = []Token{t}
		sum = t.YMid()
	}
	rows = append(rows, closeRow(current, sum))
	return rows
}

func closeRow(tokens []Token, ySum float64) Row {
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].X0 < tokens[j].X0 })
	return Row{
		YCenter: ySum / float64(len(tokens)),
		Tokens:  tokens,
	}
}
