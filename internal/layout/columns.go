package layout

import "fakturo/internal/ocr"

// DescriptionBucket is the pseudo-column collecting tokens no range claims.
const DescriptionBucket = "description"

// descriptionGuardRatio excludes tokens well left of the first amount column
// from every column bucket. Amounts embedded mid-description ("Rp 1.049.485,00
// x 1,00 Lainnya") must stay description text even though they look numeric.
const descriptionGuardRatio = 0.9

// AssignRow maps a row's tokens onto the detected columns by horizontal
// overlap. Each token lands in at most one bucket: the first column (left to
// right) whose range contains it, or the description bucket. Columns must be
// ordered left to right, as DetectTable emits them.
func AssignRow(row ocr.Row, columns []ocr.ColumnRange) map[string][]ocr.Token {
	buckets := make(map[string][]ocr.Token, len(columns)+1)
	if len(columns) == 0 {
		buckets[DescriptionBucket] = append([]ocr.Token(nil), row.Tokens...)
		return buckets
	}

	guard := columns[0].XMin * descriptionGuardRatio
	for _, t := range row.Tokens {
		if t.X1 < guard {
			buckets[DescriptionBucket] = append(buckets[DescriptionBucket], t)
			continue
		}
		assigned := false
		for _, col := range columns {
			if col.Contains(t, 0) {
				buckets[col.Name] = append(buckets[col.Name], t)
				assigned = true
				break
			}
		}
		if !assigned {
			buckets[DescriptionBucket] = append(buckets[DescriptionBucket], t)
		}
	}
	return buckets
}

// RightmostValue picks the value token of a column bucket. Tables right-align
// numeric columns, so when OCR splits a cell the token ending furthest right
// wins.
func RightmostValue(tokens []ocr.Token) (ocr.Token, bool) {
	if len(tokens) == 0 {
		return ocr.Token{}, false
	}
	best := tokens[0]
	for _, t := range tokens[1:] {
		if t.X1 > best.X1 {
			best = t
		}
	}
	return best, true
}
