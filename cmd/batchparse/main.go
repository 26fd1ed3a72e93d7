// Command batchparse parses a directory of OCR dump JSON files concurrently
// and writes a combined CSV and/or XLSX review export. Each *.json file in
// the directory must have the shape of port.ParseInput.
// Usage: go run ./cmd/batchparse -dir dumps/ [-workers 4] [-csv out.csv] [-xlsx out.xlsx]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

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

// parsedDoc pairs a document name with its result; Err marks undecodable
// inputs so they still show up in the run report.
type parsedDoc struct {
	Name   string
	Result *faktur.ParseResult
	Err    error
}

func run() error {
	dir := flag.String("dir", ".", "directory of OCR dump JSON files")
	workers := flag.Int("workers", 0, "worker count (0 = config default)")
	csvPath := flag.String("csv", "", "optional combined CSV export path")
	xlsxPath := flag.String("xlsx", "", "optional combined XLSX export path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *workers <= 0 {
		*workers = cfg.Batch.Workers
	}

	paths, err := filepath.Glob(filepath.Join(*dir, "*.json"))
	if err != nil {
		return fmt.Errorf("listing %s: %w", *dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no *.json inputs in %s", *dir)
	}
	sort.Strings(paths)

	jobID := uuid.New()
	log.Printf("batchparse: job %s, %d documents, %d workers", jobID, len(paths), *workers)

	docs := parseAll(paths, *workers, cfg)

	var approved, review, draft, failed int
	for _, d := range docs {
		switch {
		case d.Err != nil:
			failed++
			log.Printf("batchparse: %s failed: %v", d.Name, d.Err)
		default:
			switch string(d.Result.ParseStatus) {
			case "approved":
				approved++
			case "needs_review":
				review++
			default:
				draft++
			}
		}
	}
	log.Printf("batchparse: job %s done — approved=%d needs_review=%d draft=%d failed=%d",
		jobID, approved, review, draft, failed)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, cfg, docs); err != nil {
			return err
		}
	}
	if *xlsxPath != "" {
		if err := writeXLSX(*xlsxPath, cfg, docs); err != nil {
			return err
		}
	}
	return nil
}

// parseAll fans the files out over a worker pool. Results come back in the
// original file order regardless of completion order.
func parseAll(paths []string, workers int, cfg *config.Config) []parsedDoc {
	out := make([]parsedDoc, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := parser.NewDefault(cfg.Options(), cfg.ValidationSettings())
			for i := range jobs {
				out[i] = parseOne(p, paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func parseOne(p *parser.FallbackParser, path string) parsedDoc {
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]

	raw, err := os.ReadFile(path)
	if err != nil {
		return parsedDoc{Name: name, Err: fmt.Errorf("reading input: %w", err)}
	}
	var input port.ParseInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return parsedDoc{Name: name, Err: fmt.Errorf("decoding input JSON: %w", err)}
	}
	result, err := p.Parse(context.Background(), input)
	if err != nil {
		return parsedDoc{Name: name, Err: err}
	}
	return parsedDoc{Name: name, Result: result}
}

func writeCSV(path string, cfg *config.Config, docs []parsedDoc) error {
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
	for _, d := range docs {
		if d.Err != nil {
			continue
		}
		if err := w.WriteResult(d.Name, d.Result); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", d.Name, err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, cfg *config.Config, docs []parsedDoc) error {
	w, err := xlsxexport.NewWriter(cfg.Export.XLSXSheet)
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}
	defer func() { _ = w.Close() }()
	for _, d := range docs {
		if d.Err != nil {
			continue
		}
		if err := w.AddResult(d.Name, d.Result); err != nil {
			return fmt.Errorf("adding row for %s: %w", d.Name, err)
		}
	}
	if err := w.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
