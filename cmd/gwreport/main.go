// Command gwreport builds a study-area water report: locate monitoring
// sites, fetch chemistry and water levels, aggregate, and render. One-shot by
// default; WATCH_INTERVAL turns it into a service that re-runs on a timer and
// serves health and metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lerban/gw-data-viz/internal/adapter/httpadapter"
	kafkaadapter "github.com/lerban/gw-data-viz/internal/adapter/kafka"
	"github.com/lerban/gw-data-viz/internal/config"
	"github.com/lerban/gw-data-viz/internal/nwis"
	"github.com/lerban/gw-data-viz/internal/observability"
	"github.com/lerban/gw-data-viz/internal/pipeline"
	"github.com/lerban/gw-data-viz/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	survey, err := config.LoadSurvey(cfg.SurveyFile)
	if err != nil {
		logger.Error("failed to load survey", "error", err)
		os.Exit(1)
	}
	logger.Info("survey loaded",
		"survey", survey.Name, "bbox", survey.BBox.String(), "windows", len(survey.Windows))

	client := nwis.NewClient(cfg.Endpoints(), cfg.NWISTimeout, logger)

	renderers := []pipeline.Renderer{
		render.NewConsole(os.Stdout, logger),
		render.NewCSV(cfg.OutputDir, logger),
		render.NewCharts(filepath.Join(cfg.OutputDir, "charts"), logger),
	}

	// Kafka export is feature-flagged via KAFKA_ENABLED.
	var exporter pipeline.Exporter
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		exporter = writer
		metrics.ExportEnabled.Set(1)
		logger.Info("kafka export enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka export disabled")
	}

	p := pipeline.New(client, client, renderers, exporter, survey, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One-shot mode: run once and exit.
	if cfg.WatchInterval <= 0 {
		_, err := p.Run(ctx)
		closeWriter(writer, logger)
		if err != nil {
			logger.Error("report run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: re-run on a timer and expose service endpoints.
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Watch(ctx, cfg.WatchInterval); err != nil {
			logger.Error("watch error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closeWriter(writer, logger)

	logger.Info("shutdown complete")
}

func closeWriter(w *kafkaadapter.Writer, logger *slog.Logger) {
	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
}
