package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/haltridge/epicast/internal/adapters/httpmetrics"
	"github.com/haltridge/epicast/internal/app"
	"github.com/haltridge/epicast/internal/config"
	"github.com/haltridge/epicast/internal/loader"
	"github.com/haltridge/epicast/pkg/logger"
)

// defaultInputPath mirrors the original simulator's CLI default.
const defaultInputPath = "/tmp/input_data.json"

func main() {
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logging: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	var metricsServer *httpmetrics.Server
	if cfg.MetricsAddr != "" {
		metricsServer = httpmetrics.New(cfg.MetricsAddr, log)
		metricsServer.Start(ctx)
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				log.Error(ctx, "metrics server shutdown failed", logger.Error(err))
			}
		}()
	}

	inputPath := defaultInputPath
	if len(os.Args) > 1 {
		inputPath = os.Args[1]
	}

	log.Info(ctx, "epicast starting", logger.String("input_file", inputPath))

	rec, err := loader.Load(ctx, inputPath)
	if err != nil {
		log.Error(ctx, "failed to load input", logger.Error(err))
		os.Exit(1)
	}

	driver := app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithRNGSeed(cfg.RNGSeed),
		app.WithResultQueueSize(cfg.ResultQueueSize),
	)

	result, err := driver.Run(ctx, rec)
	if err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
		os.Exit(1)
	}

	if err := writeResult(rec.OutputFile, result); err != nil {
		log.Error(ctx, "failed to write output", logger.Error(err))
		os.Exit(1)
	}

	log.Info(ctx, "epicast complete", logger.String("run_id", result.RunID), logger.String("output_file", rec.OutputFile))
}

// writeResult JSON-encodes whichever half of the run's Result is populated
// and writes it to path, matching the original simulator's "encode results,
// write to output_file" finishing step.
func writeResult(path string, result *app.Result) error {
	var payload any
	if result.StateResults != nil {
		payload = result.StateResults
	} else {
		payload = result.ContactSearches
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err := os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}
