// Package parser turns raw OCR output (text and spatial tokens) into a
// structured, reconciled Faktur Pajak parse result.
package parser

// Options carries the layout and extraction knobs. Thread it explicitly;
// there are no package-level settings.
type Options struct {
	// YTolerance is the row-clustering tolerance in page units.
	YTolerance float64
	// LabelLookahead is how many subsequent non-empty lines after a label
	// are searched for its amount.
	LabelLookahead int
	// SignatureWindow is how many lines after the signer's name are
	// scanned for the signature amount block.
	SignatureWindow int
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		YTolerance:      8,
		LabelLookahead:  3,
		SignatureWindow: 12,
	}
}
