// Package ocr holds the spatial value objects produced by upstream OCR:
// tokens with bounding boxes, row clusters and named column ranges.
package ocr

import "fmt"

// Token is a single OCR word with its bounding box. Immutable once created.
// Coordinates may be PDF page units or normalized 0-1; the engine only
// compares them relative to each other.
type Token struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
}

// XMid returns the horizontal center of the token.
func (t Token) XMid() float64 { return (t.X0 + t.X1) / 2 }

// YMid returns the vertical center of the token.
func (t Token) YMid() float64 { return (t.Y0 + t.Y1) / 2 }

// Width returns the horizontal extent of the token.
func (t Token) Width() float64 { return t.X1 - t.X0 }

// Height returns the vertical extent of the token.
func (t Token) Height() float64 { return t.Y1 - t.Y0 }

// ColumnRange is a named horizontal interval of the page.
type ColumnRange struct {
	Name string
	XMin float64
	XMax float64
}

// NewColumnRange builds a ColumnRange. An inverted interval is a programming
// bug, not a domain error, and fails fast.
func NewColumnRange(name string, xMin, xMax float64) ColumnRange {
	if xMin > xMax {
		panic(fmt.Sprintf("ocr: inverted ColumnRange %q: x_min %.2f > x_max %.2f", name, xMin, xMax))
	}
	return ColumnRange{Name: name, XMin: xMin, XMax: xMax}
}

// Width returns the horizontal extent of the range.
func (c ColumnRange) Width() float64 { return c.XMax - c.XMin }

// DefaultExpandMargin is the fallback when no explicit margin is given:
// max(10, width*0.05).
func (c ColumnRange) DefaultExpandMargin() float64 {
	m := c.Width() * 0.05
	if m < 10 {
		m = 10
	}
	return m
}

// Expand grows the interval on both sides. A non-positive margin selects the
// default margin.
func (c ColumnRange) Expand(margin float64) ColumnRange {
	if margin <= 0 {
		margin = c.DefaultExpandMargin()
	}
	return NewColumnRange(c.Name, c.XMin-margin, c.XMax+margin)
}

// minOverlapRatio is the default fraction of the token width that must fall
// inside the range for Contains to succeed.
const minOverlapRatio = 0.1

// Contains reports whether the token horizontally overlaps the range by at
// least minOverlap of the token's own width. A non-positive minOverlap
// selects the 0.1 default. Zero-width tokens match on point containment.
func (c ColumnRange) Contains(t Token, minOverlap float64) bool {
	if minOverlap <= 0 {
		minOverlap = minOverlapRatio
	}
	if t.Width() <= 0 {
		return t.X0 >= c.XMin && t.X0 <= c.XMax
	}
	left := t.X0
	if c.XMin > left {
		left = c.XMin
	}
	right := t.X1
	if c.XMax < right {
		right = c.XMax
	}
	overlap := right - left
	if overlap <= 0 {
		return false
	}
	return overlap/t.Width() >= minOverlap
}
