package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mdzubayertalukder/dropship-backend/api/routes"
	"github.com/mdzubayertalukder/dropship-backend/internal/catalog"
	"github.com/mdzubayertalukder/dropship-backend/internal/imports"
	planlimit "github.com/mdzubayertalukder/dropship-backend/internal/planlimits"
	"github.com/mdzubayertalukder/dropship-backend/internal/quota"
	storeconfig "github.com/mdzubayertalukder/dropship-backend/internal/storeconfigs"
	syncsvc "github.com/mdzubayertalukder/dropship-backend/internal/sync"
	"github.com/mdzubayertalukder/dropship-backend/pkg/config"
	"github.com/mdzubayertalukder/dropship-backend/pkg/db"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
	"github.com/mdzubayertalukder/dropship-backend/pkg/metrics"
	"github.com/mdzubayertalukder/dropship-backend/pkg/migrate"
	"github.com/mdzubayertalukder/dropship-backend/pkg/redis"
	"github.com/mdzubayertalukder/dropship-backend/pkg/woocommerce"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	pipeline := metrics.NewPipelineMetrics(registry)

	wooClient := woocommerce.NewClient(cfg.Catalog, logg)

	storeConfigRepo := storeconfig.NewRepository(dbClient.DB())
	storeConfigService, err := storeconfig.NewService(storeConfigRepo, dbClient, wooClient)
	requireService(logg, "store configs", err)

	syncService, err := syncsvc.NewService(syncsvc.NewRepository(dbClient.DB()), wooClient, redisClient, cfg.Sync, pipeline, logg)
	requireService(logg, "sync", err)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	requireService(logg, "catalog", err)

	planLimitRepo := planlimit.NewRepository(dbClient.DB())
	planLimitService, err := planlimit.NewService(planLimitRepo)
	requireService(logg, "plan limits", err)

	guard, err := quota.NewGuard(planLimitRepo, quota.NewUsageRepository(dbClient.DB()))
	requireService(logg, "quota guard", err)

	importsService, err := imports.NewService(imports.NewRepository(dbClient.DB()), dbClient, guard, cfg.Import, pipeline, logg)
	requireService(logg, "imports", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DBPinger:     dbClient,
			RedisPinger:  redisClient,
			Gatherer:     registry,
			StoreConfigs: storeConfigService,
			Sync:         syncService,
			Catalog:      catalogService,
			Imports:      importsService,
			PlanLimits:   planLimitService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
