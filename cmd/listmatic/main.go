package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/listmatic/backend/config"
	"github.com/listmatic/backend/internal/domain"
	"github.com/listmatic/backend/internal/infrastructure/catalog"
	"github.com/listmatic/backend/internal/infrastructure/corrections"
	"github.com/listmatic/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		masterPath   string
		outPath      string
		pipeline     bool
		divisor      float64
		profitMargin float64
		threshold    int
	)
	flag.StringVar(&masterPath, "master", cfg.Catalog.Path, "Path to the master catalog CSV")
	flag.StringVar(&outPath, "out", "", "Write the export CSV here (optional)")
	flag.BoolVar(&pipeline, "pipeline", false, "Export only matched rows in the image pipeline format")
	flag.Float64Var(&divisor, "divisor", cfg.Matcher.Divisor, "Divide every price by this")
	flag.Float64Var(&profitMargin, "margin", cfg.Matcher.ProfitMargin, "Profit margin percentage added after division")
	flag.IntVar(&threshold, "threshold", cfg.Matcher.Threshold, "Minimum score for a match")
	flag.Parse()

	if masterPath == "" || flag.NArg() > 1 {
		fmt.Println("Usage: listmatic --master=master.csv [--out=matched.csv] [input.txt]")
		fmt.Println("Reads product text from input.txt, or from stdin when no file is given.")
		os.Exit(1)
	}

	records, err := catalog.LoadFile(masterPath)
	if err != nil {
		log.Fatalf("failed to load master catalog: %v", err)
	}

	input, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	store, err := corrections.New(cfg.Corrections.Type, cfg.Corrections.Path)
	if err != nil {
		log.Fatalf("failed to open correction store: %v", err)
	}
	defer corrections.Close(store)

	session := usecase.NewMatcherSession(store, usecase.SessionConfig{
		Threshold:          threshold,
		EnableDebugLogging: cfg.Matcher.EnableDebugLogging,
	})
	session.LoadCatalog(records)

	results, err := session.Run(context.Background(), input, usecase.RunOptions{
		Divisor:      divisor,
		ProfitMargin: profitMargin,
		Threshold:    threshold,
	})
	if err != nil {
		log.Fatalf("matching failed: %v", err)
	}

	fmt.Println(renderResults(results, domain.NewMatchStats(results)))

	if outPath != "" {
		if err := writeExport(session, outPath, pipeline); err != nil {
			log.Fatalf("export failed: %v", err)
		}
		fmt.Printf("Exported to: %s\n", outPath)
	}
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func writeExport(session *usecase.MatcherSession, path string, pipeline bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if pipeline {
		return session.ExportPipelineCSV(f)
	}
	return session.ExportCSV(f)
}
