package parser

import (
	"context"
	"fmt"
	"log"

	"fakturo/internal/port"
	"fakturo/internal/validator"
	"fakturo/internal/validator/faktur"
)

// FallbackParser tries parsers in order, first success wins.
// It implements port.DocumentParser.
type FallbackParser struct {
	parsers []port.DocumentParser
	names   []string
}

// NewFallbackParser creates a FallbackParser from an ordered list of parsers
// and their names.
func NewFallbackParser(parsers []port.DocumentParser, names []string) *FallbackParser {
	return &FallbackParser{parsers: parsers, names: names}
}

// NewDefault wires the standard chain: the layout-aware parser when spatial
// tokens are available, then the text-only parser.
func NewDefault(opts Options, cfg faktur.ValidationConfig) *FallbackParser {
	engine := validator.NewEngine(cfg)
	return NewFallbackParser(
		[]port.DocumentParser{
			NewLayoutParser(opts, engine),
			NewTextParser(opts, engine),
		},
		[]string{"layout", "text"},
	)
}

func (f *FallbackParser) Parse(ctx context.Context, input port.ParseInput) (*faktur.ParseResult, error) {
	var lastErr error
	for i, p := range f.parsers {
		out, err := p.Parse(ctx, input)
		if err == nil {
			return out, nil
		}
		log.Printf("parser.FallbackParser: %s failed: %v", f.names[i], err)
		lastErr = err
	}
	return nil, fmt.Errorf("all parsers failed: %w", lastErr)
}
