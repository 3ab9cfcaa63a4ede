// Command pipeline runs the full evidence pipeline over local raw files:
// harmonisation, validation, classification, diagnostics and the per-capita
// indicator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"ghgcli/internal/classify"
	"ghgcli/internal/config"
	"ghgcli/internal/diagnose"
	"ghgcli/internal/exporter"
	"ghgcli/internal/harmonise"
	"ghgcli/internal/indicators"
	"ghgcli/internal/inference"
	"ghgcli/internal/infrastructure"
	"ghgcli/internal/lineage"
	"ghgcli/internal/validation"
	"ghgcli/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	datasetPath := flag.String("dataset", "", "raw full emissions CSV (defaults to ons_co2_emissions.csv under the raw dir)")
	summaryPath := flag.String("summary", "", "raw LA GHG summary workbook (defaults to uk_local_authority_ghg_2005_2021.xlsx under the raw dir)")
	populationPath := flag.String("population", "", "raw mid-year population workbook (defaults to population_2022.xlsx under the raw dir)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := cfg.Paths.EnsureDirs(); err != nil {
		logger.Error("failed to ensure directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *datasetPath == "" {
		*datasetPath = cfg.Paths.RawFile("ons_co2_emissions.csv")
	}
	if *summaryPath == "" {
		*summaryPath = cfg.Paths.RawFile("uk_local_authority_ghg_2005_2021.xlsx")
	}
	if *populationPath == "" {
		*populationPath = cfg.Paths.RawFile("population_2022.xlsx")
	}

	store, err := lineage.Open(cfg.Paths.LineageFile)
	if err != nil {
		logger.Error("failed to open lineage store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p := &pipeline{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		writer:   exporter.NewCSVWriter(cfg.Paths.ProcessedDir, logger),
		analyzer: inference.NewAnalyzer(cfg.Inference, logger),
	}
	p.harmoniser = harmonise.New(logger, store, p.writer, cfg.Dataset)
	p.validator = validation.New(logger, store, cfg.Dataset)
	p.calculator = indicators.New(logger, store, p.writer)

	if err := p.run(context.Background(), *datasetPath, *summaryPath, *populationPath); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *lineage.Store
	writer     *exporter.CSVWriter
	analyzer   *inference.Analyzer
	harmoniser *harmonise.Harmoniser
	validator  *validation.Validator
	calculator *indicators.Calculator
}

func (p *pipeline) run(ctx context.Context, datasetPath, summaryPath, populationPath string) error {
	if err := p.runFullDataset(ctx, datasetPath); err != nil {
		return err
	}

	// The summary and population branches are independent until the
	// per-capita join.
	var (
		totals []domain.EmissionsTotal
		pops   []domain.PopulationRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = p.runSummary(gctx, summaryPath)
		return err
	})
	g.Go(func() error {
		var err error
		pops, err = p.runPopulation(gctx, populationPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	perCapita, err := p.calculator.PerCapita(ctx, totals, pops)
	if err != nil {
		return err
	}
	if err := p.calculator.WritePerCapita(ctx, "emissions_per_capita_2021.csv", perCapita); err != nil {
		return err
	}
	p.logger.Info("per-capita indicator written",
		slog.String("file", "emissions_per_capita_2021.csv"),
		slog.Int("rows", len(perCapita)))
	return nil
}

// runFullDataset harmonises, validates, classifies and diagnoses the full
// emissions CSV.
func (p *pipeline) runFullDataset(ctx context.Context, path string) error {
	p.logger.Info("harmonising full dataset", slog.String("file", path))
	ds, err := p.harmoniser.CleanDatasetFile(ctx, path, "clean_emissions.csv")
	if err != nil {
		return err
	}

	issues := p.validator.ValidateDataset(ctx, ds)

	classify.ClassifyAll(ctx, p.logger, ds.Rows)
	headers, records := ds.RecordsWithTypes()
	if err := p.writer.WriteSimpleCSV("classified_emissions.csv", headers, records); err != nil {
		return err
	}

	report, err := diagnose.BuildReport(ctx, p.logger, issues)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// runSummary infers the workbook structure, then harmonises and validates
// the authority-level territorial totals.
func (p *pipeline) runSummary(ctx context.Context, path string) ([]domain.EmissionsTotal, error) {
	analysis, err := p.analyzer.LocateStructure(ctx, path, "la_territorial_summary")
	if err != nil {
		return nil, err
	}
	p.logger.Info("summary structure inferred",
		slog.String("sheet", analysis.Structure.Sheet),
		slog.Int("header_row", analysis.Structure.HeaderRow),
		slog.Float64("confidence", analysis.Confidence))

	totals, err := p.harmoniser.HarmoniseSummary(ctx, path, analysis)
	if err != nil {
		return nil, err
	}
	if err := p.harmoniser.WriteSummary("emissions_2021_la_totals.csv", totals); err != nil {
		return nil, err
	}

	p.validator.ValidateSummary(ctx, totals)
	return totals, nil
}

// runPopulation harmonises and validates the mid-year population workbook.
func (p *pipeline) runPopulation(ctx context.Context, path string) ([]domain.PopulationRecord, error) {
	pops, err := p.harmoniser.HarmonisePopulation(ctx, path,
		harmonise.DefaultPopulationSheet, harmonise.DefaultPopulationHeaderRow)
	if err != nil {
		return nil, err
	}
	if err := p.harmoniser.WritePopulation("population_clean_2022.csv", pops); err != nil {
		return nil, err
	}

	p.validator.ValidatePopulation(ctx, pops)
	return pops, nil
}
