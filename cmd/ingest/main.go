package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"opcvcli/internal/config"
	"opcvcli/internal/files"
	"opcvcli/internal/infrastructure"
	"opcvcli/internal/ingest"
)

func main() {
	url := flag.String("url", "", "source URL for the raw CSV (defaults to the configured endpoint)")
	out := flag.String("out", "", "dataset output directory (defaults to data/dataset relative to executable)")
	rows := flag.Int("rows", 0, "rows per parquet part (defaults to the configured size)")
	force := flag.Bool("force", false, "discard any existing download and start over")
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
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}
	cfg.Logging.FilePath = paths.GetLogPath("ingest.log")

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	if *url != "" {
		cfg.Ingest.SourceURL = *url
	}
	if *rows > 0 {
		cfg.Ingest.RowsPerPart = *rows
	}
	datasetDir := paths.DatasetDir
	if *out != "" {
		datasetDir = *out
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.InfoContext(ctx, "Starting violations ingest",
		slog.String("source_url", cfg.Ingest.SourceURL),
		slog.String("dataset_dir", datasetDir),
		slog.Int("rows_per_part", cfg.Ingest.RowsPerPart),
		slog.Bool("force", *force))

	if *force {
		for _, path := range []string{paths.RawCSV, paths.RawCSVPartial} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.ErrorContext(ctx, "Failed to remove previous download",
					slog.String("path", path), slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	if config.FileExists(paths.RawCSV) && !*force {
		logger.InfoContext(ctx, "Raw CSV already present, skipping download",
			slog.String("path", paths.RawCSV))
	} else {
		if files.HasPartial(paths.RawCSV) {
			logger.InfoContext(ctx, "Resuming interrupted download",
				slog.String("partial", paths.RawCSVPartial))
		}
		downloader := ingest.NewDownloader(cfg.Ingest, logger)
		if err := downloader.Download(ctx, cfg.Ingest.SourceURL, paths.RawCSV); err != nil {
			logger.ErrorContext(ctx, "Download failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	converter := ingest.NewConverter(cfg.Ingest.RowsPerPart, logger)
	stats, err := converter.Convert(ctx, paths.RawCSV, datasetDir)
	if err != nil {
		logger.ErrorContext(ctx, "Conversion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Ingest complete",
		slog.Int64("rows", stats.Rows),
		slog.Int64("null_amounts", stats.NullAmounts),
		slog.Int("parts", stats.Parts),
		slog.Int64("raw_bytes", stats.RawBytes),
		slog.Int64("part_bytes", stats.PartBytes),
		slog.Float64("compression_ratio", stats.Ratio()))
}
