package parser

import "errors"

// ErrNoTokens signals that a layout-aware parse was asked to run on input
// without spatial tokens. The fallback chain reacts by moving on to the
// text-only parser.
var ErrNoTokens = errors.New("parser: input has no spatial tokens")
