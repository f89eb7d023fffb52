package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/salesetl/internal/pipeline"
	"github.com/angelmondragon/salesetl/pkg/config"
	"github.com/angelmondragon/salesetl/pkg/db"
	pkgerrors "github.com/angelmondragon/salesetl/pkg/errors"
	"github.com/angelmondragon/salesetl/pkg/logger"
	"github.com/angelmondragon/salesetl/pkg/metrics"
	"github.com/angelmondragon/salesetl/pkg/migrate"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "etl"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "etl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "failed to close database client", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})

	if cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate {
		err = dbClient.WaitReady(runCtx, cfg.DB, logg)
		requireResource(runCtx, logg, "database readiness", err)
	}
	err = migrate.MaybeRunDev(runCtx, cfg, logg, dbClient)
	requireResource(runCtx, logg, "migrations", err)

	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	service, err := pipeline.NewService(pipeline.ServiceParams{
		Config:  cfg,
		Logger:  logg,
		DB:      dbClient,
		Metrics: pipelineMetrics,
	})
	requireResource(runCtx, logg, "pipeline service", err)

	logg.Info(runCtx, "etl run starting")
	if err := service.Run(runCtx); err != nil {
		logg.Error(runCtx, "etl run failed", err)
		stop()
		if closeErr := dbClient.Close(); closeErr != nil {
			logg.Error(runCtx, "failed to close database client", closeErr)
		}
		os.Exit(pkgerrors.ExitStatus(err))
	}
	logg.Info(runCtx, "etl run completed")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
