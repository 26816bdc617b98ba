package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/ggnetwork/crm-segmenter/segmenter"
	"github.com/ggnetwork/crm-segmenter/segmenter/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting CRM weekly segmenter",
		slog.String("version", version),
		slog.String("commit", commit))

	storeKPI := flag.Bool("store-kpi", false, "Replace the weekly KPI window in the warehouse")
	upload := flag.Bool("upload", false, "Upload campaign sheets to Spaces")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := segmenter.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing warehouse connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	s := segmenter.New(*cfg, version, commit)
	if err := s.SetupDB(ctx); err != nil {
		slog.Error("Warehouse connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Warehouse connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing output schema...")
	if err := s.DB.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize output schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Output schema initialized successfully")

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		s.Close(closeCtx)
	}()

	if err := s.SetupSpaces(); err != nil {
		slog.Error("Failed to set up Spaces", slog.Any("error", err))
		os.Exit(-1)
	}

	result, err := s.Run(ctx, segmenter.RunOptions{
		StoreKPI: *storeKPI,
		Upload:   *upload,
	})
	if err != nil {
		slog.Error("Pipeline run failed",
			slog.String("type", "error"),
			slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Run complete",
		slog.String("run_id", result.RunID),
		slog.Int("kpi_rows", result.KPIRows),
		slog.Int("segmented_users", result.SegmentedUsers),
		slog.Int("clusters", result.Clusters),
		slog.Duration("took", result.Took))
}
