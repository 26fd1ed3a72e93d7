// Command parsefaktur parses one OCR dump into a structured, reconciled
// faktur result. The input is a JSON file with the shape of port.ParseInput
// (raw text plus optional spatial tokens); the result prints as JSON on
// stdout and can additionally be exported to CSV or XLSX.
// Usage: go run ./cmd/parsefaktur -in page.json [-csv out.csv] [-xlsx out.xlsx]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"fakturo/internal/config"
	"fakturo/internal/csvexport"
	"fakturo/internal/parser"
	"fakturo/internal/port"
	"fakturo/internal/validator/faktur"
	"fakturo/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	inPath := flag.String("in", "-", "input JSON file, or - for stdin")
	csvPath := flag.String("csv", "", "optional CSV export path")
	xlsxPath := flag.String("xlsx", "", "optional XLSX export path")
	rateHint := flag.Float64("rate", 0, "PPN rate hint, e.g. 0.11 (0 = infer)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	input, err := readInput(*inPath)
	if err != nil {
		return err
	}
	if *rateHint > 0 {
		input.TaxRateHint = *rateHint
	}

	p := parser.NewDefault(cfg.Options(), cfg.ValidationSettings())
	result, err := p.Parse(context.Background(), input)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", *inPath, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	name := documentName(*inPath)
	if *csvPath != "" {
		if err := exportCSV(*csvPath, cfg, name, result); err != nil {
			return err
		}
	}
	if *xlsxPath != "" {
		if err := exportXLSX(*xlsxPath, cfg, name, result); err != nil {
			return err
		}
	}
	return nil
}

func readInput(path string) (port.ParseInput, error) {
	var input port.ParseInput
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return input, fmt.Errorf("opening input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decoding input JSON: %w", err)
	}
	return input, nil
}

func documentName(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

func exportCSV(path string, cfg *config.Config, name string, result *faktur.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	w := csvexport.NewWriter(f)
	w.SetDelimiter(cfg.Export.CSVDelimiter)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := w.WriteResult(name, result); err != nil {
		return fmt.Errorf("writing CSV row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func exportXLSX(path string, cfg *config.Config, name string, result *faktur.ParseResult) error {
	w, err := xlsxexport.NewWriter(cfg.Export.XLSXSheet)
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}
	defer func() { _ = w.Close() }()
	if err := w.AddResult(name, result); err != nil {
		return fmt.Errorf("adding result row: %w", err)
	}
	if err := w.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
