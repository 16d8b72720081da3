package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"opcvcli/internal/config"
	"opcvcli/internal/dataprocessing"
	"opcvcli/internal/dataset"
	"opcvcli/internal/exporter"
	"opcvcli/internal/infrastructure"
)

func main() {
	datasetDir := flag.String("dataset", "", "dataset directory (defaults to data/dataset relative to executable)")
	outDir := flag.String("out", "", "report output directory (defaults to data/reports relative to executable)")
	year := flag.Int("year", 0, "report year (defaults to the configured year)")
	xlsx := flag.Bool("xlsx", false, "also write an XLSX workbook with one sheet per table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	paths.ApplyOverrides(cfg.Paths)
	if *datasetDir == "" {
		*datasetDir = paths.DatasetDir
	}
	if *outDir != "" {
		paths.ReportsDir = *outDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}
	cfg.Logging.FilePath = paths.GetLogPath("report.log")
	if *year > 0 {
		cfg.Report.Year = *year
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := dataset.Open(*datasetDir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open dataset",
			slog.String("dataset_dir", *datasetDir), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Starting violations report",
		slog.String("dataset_dir", *datasetDir),
		slog.Int("year", cfg.Report.Year),
		slog.Int64("rows", ds.NumRows()),
		slog.Int("parts", len(ds.Parts())))

	analyzer := dataprocessing.NewAnalyzer(ds, cfg.Report, logger)
	report, err := analyzer.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Report queries failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := exporter.RenderReport(os.Stdout, report); err != nil {
		logger.ErrorContext(ctx, "Failed to render report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := exporter.WriteReportCSVs(exporter.NewCSVWriter(paths), report); err != nil {
		logger.ErrorContext(ctx, "Failed to write report CSVs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *xlsx {
		path := paths.GetReportPath("violations.xlsx")
		if err := exporter.WriteWorkbook(path, exporter.ReportSheets(report)); err != nil {
			logger.ErrorContext(ctx, "Failed to write workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.InfoContext(ctx, "Workbook written", slog.String("path", path))
	}

	logger.InfoContext(ctx, "Report complete",
		slog.String("reports_dir", paths.ReportsDir))
}
