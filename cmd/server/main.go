package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nutricart/backend/config"
	httpDelivery "github.com/nutricart/backend/internal/delivery/http"
	"github.com/nutricart/backend/internal/domain"
	"github.com/nutricart/backend/internal/infrastructure/cache"
	"github.com/nutricart/backend/internal/infrastructure/extract"
	"github.com/nutricart/backend/internal/infrastructure/fooddb"
	"github.com/nutricart/backend/internal/infrastructure/snapshot"
	"github.com/nutricart/backend/internal/infrastructure/subjects"
	"github.com/nutricart/backend/internal/pkg/logger"
	"github.com/nutricart/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Infow("starting nutricart backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	// Infrastructure
	resultCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer resultCache.Close()

	groceryVenue := domain.Venue{
		Name: cfg.Sources.GroceryVenueName,
		URL:  cfg.Sources.GroceryVenueURL,
	}

	snapshotStore, err := snapshot.Load(cfg.Sources.SnapshotPath, groceryVenue)
	if err != nil {
		zlog.Fatalw("loading menu snapshot", "path", cfg.Sources.SnapshotPath, "error", err)
	}
	zlog.Infow("menu snapshot loaded", "path", cfg.Sources.SnapshotPath, "venues", snapshotStore.VenueCount())

	foodDB, err := fooddb.Load(cfg.Nutrition.DatabasePath)
	if err != nil {
		zlog.Fatalw("loading food database", "path", cfg.Nutrition.DatabasePath, "error", err)
	}
	zlog.Infow("food database loaded", "foods", len(foodDB.Foods()), "dishes", len(foodDB.KnownDishes()))

	registry, err := subjects.Load(cfg.Sources.SubjectsPath)
	if err != nil {
		zlog.Fatalw("loading subjects", "path", cfg.Sources.SubjectsPath, "error", err)
	}
	zlog.Infow("subjects loaded", "count", registry.Count())

	extractor := extract.NewClient(extract.Config{
		BaseURL:        cfg.Extractor.BaseURL,
		Timeout:        cfg.Extractor.Timeout,
		RequestsPerSec: cfg.Extractor.RequestsPerSec,
		Burst:          cfg.Extractor.Burst,
	}, zlog)

	// Usecase layer
	nutritionService := usecase.NewNutritionService(foodDB, usecase.NutritionServiceConfig{
		ServingGrams:  cfg.Nutrition.ServingGrams,
		LowEnergyKcal: cfg.Nutrition.LowEnergyKcal,
	})

	aggregator := usecase.NewAggregator(snapshotStore, extractor, usecase.AggregatorConfig{
		Locale:           cfg.Sources.DefaultLocale,
		GroceryVenue:     groceryVenue,
		MaxVenues:        cfg.Sources.MaxVenues,
		MaxItemsPerVenue: cfg.Sources.MaxItemsPerVenue,
		DiscoveryMax:     cfg.Sources.DiscoveryMax,
		Oversample:       cfg.Sources.Oversample,
	}, zlog)

	enricher := usecase.NewEnricher(nutritionService, extractor, usecase.EnricherConfig{
		Workers:     cfg.Enrich.Workers,
		ItemTimeout: cfg.Enrich.ItemTimeout,
		BatchLimit:  cfg.Enrich.BatchLimit,
	}, zlog)

	recommendService := usecase.NewRecommendService(
		resultCache,
		snapshotStore,
		aggregator,
		enricher,
		nutritionService,
		usecase.RecommendServiceConfig{
			CacheTTL:      cfg.Cache.TTL,
			BasketSize:    cfg.Sources.BasketSize,
			DiscoveryMax:  cfg.Sources.DiscoveryMax,
			DefaultLocale: cfg.Sources.DefaultLocale,
		},
		zlog,
	)

	// Seed basket caches in the background so the dashboard always has
	// something to show, even before the first live run.
	go recommendService.SeedCaches(context.Background(), registry.All(), cfg.Sources.DefaultLocale)

	// HTTP delivery
	handler := httpDelivery.NewHandler(recommendService, registry, zlog)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Infow("listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		zlog.Errorw("server stopped", "error", err)
		os.Exit(1)
	}
}
