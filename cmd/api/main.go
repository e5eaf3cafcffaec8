package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgilberte/opsdeck-backend/api/routes"
	"github.com/mgilberte/opsdeck-backend/internal/activity"
	"github.com/mgilberte/opsdeck-backend/internal/catalog"
	"github.com/mgilberte/opsdeck-backend/internal/checklists"
	"github.com/mgilberte/opsdeck-backend/internal/clients"
	"github.com/mgilberte/opsdeck-backend/internal/offers"
	"github.com/mgilberte/opsdeck-backend/internal/onboarding"
	"github.com/mgilberte/opsdeck-backend/pkg/capabilities"
	"github.com/mgilberte/opsdeck-backend/pkg/config"
	"github.com/mgilberte/opsdeck-backend/pkg/db"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"github.com/mgilberte/opsdeck-backend/pkg/metrics"
	"github.com/mgilberte/opsdeck-backend/pkg/migrate"
	"github.com/mgilberte/opsdeck-backend/pkg/redis"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
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

	offerMetrics := metrics.NewOfferMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	clientsRepo := clients.NewRepository(dbClient.DB())
	clientsService, err := clients.NewService(clientsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}

	checklistsRepo := checklists.NewRepository(dbClient.DB())
	checklistsService, err := checklists.NewService(checklistsRepo, clientsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create checklists service", err)
		os.Exit(1)
	}

	dispatcher, err := onboarding.NewDispatcher(checklistsRepo, onboarding.NewWebhookNotifier(cfg.Onboarding), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create onboarding dispatcher", err)
		os.Exit(1)
	}

	recorder := activity.NewRecorder(activity.NewRepository(dbClient.DB()), logg)

	offersService, err := offers.NewService(
		offers.NewRepository(dbClient.DB()),
		catalogService,
		clientsRepo,
		dispatcher,
		recorder,
		offerMetrics,
		cfg.Offers,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create offers service", err)
		os.Exit(1)
	}

	registry, err := buildCapabilityRegistry()
	if err != nil {
		logg.Error(context.Background(), "failed to build capability registry", err)
		os.Exit(1)
	}
	if err := registry.Resolve(); err != nil {
		logg.Error(context.Background(), "capability graph unresolved", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			offerMetrics,
			prometheus.DefaultGatherer,
			offersService,
			catalogService,
			clientsService,
			checklistsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// buildCapabilityRegistry declares the wired feature modules so the graph
// can be validated once at boot and introspected at runtime.
func buildCapabilityRegistry() (*capabilities.Registry, error) {
	return capabilities.NewRegistry(
		capabilities.Descriptor{
			Name:     "catalog",
			Entities: []string{"catalog_item"},
			Provides: []string{"price-snapshot"},
		},
		capabilities.Descriptor{
			Name:     "clients",
			Entities: []string{"client"},
			Provides: []string{"client-lookup"},
		},
		capabilities.Descriptor{
			Name:     "checklists",
			Entities: []string{"checklist_entry"},
			Provides: []string{"checklist-write"},
			Requires: []string{"client-lookup"},
		},
		capabilities.Descriptor{
			Name:     "onboarding",
			Provides: []string{"accept-side-effects"},
			Requires: []string{"checklist-write"},
			Optional: []string{"webhook-notify"},
		},
		capabilities.Descriptor{
			Name:     "offers",
			Entities: []string{"offer", "offer_item"},
			Provides: []string{"offer-lifecycle"},
			Requires: []string{"price-snapshot", "client-lookup", "accept-side-effects"},
		},
	)
}
