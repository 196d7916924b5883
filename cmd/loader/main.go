// cmd/loader/main.go
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
	"github.com/dataeng/datamart-ingress/pkg/connector"
	"github.com/dataeng/datamart-ingress/pkg/loader"
	"github.com/dataeng/datamart-ingress/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadLoaderConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(
		os.Getenv("LOG_LEVEL"),
		os.Getenv("LOG_FORMAT"),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := connector.NewPostgresConnector(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer conn.Close()

	if err := conn.Validate(); err != nil {
		logger.Fatal("Connection validation failed", zap.Error(err))
	}

	l, err := loader.NewLoader(conn, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize loader", zap.Error(err))
	}

	if err := l.Run(ctx); err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}

	logger.Info("Load finished",
		zap.String("schema", cfg.Schema),
		zap.String("input_dir", cfg.InputDir))
}
