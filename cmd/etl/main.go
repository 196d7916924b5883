// cmd/etl/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dataeng/datamart-ingress/pkg/config"
	"github.com/dataeng/datamart-ingress/pkg/logging"
	"github.com/dataeng/datamart-ingress/pkg/pipeline"
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := pipeline.NewRunner(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}

	result, err := runner.Run(ctx)
	if err != nil {
		logger.Fatal("Pipeline run failed",
			zap.String("run_id", result.RunID.String()),
			zap.Error(err))
	}

	logger.Info("Run finished",
		zap.String("run_id", result.RunID.String()),
		zap.Duration("duration", result.Duration),
		zap.Float64("sales_quality", result.QualityScores.SalesQualityScore),
		zap.Float64("student_quality", result.QualityScores.StudentQualityScore),
		zap.Float64("overall_quality", result.QualityScores.OverallQualityScore))
}
