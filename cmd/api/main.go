package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pathlens/labtestcompare/backend/internal/adapters/cache"
	"github.com/pathlens/labtestcompare/backend/internal/adapters/database"
	"github.com/pathlens/labtestcompare/backend/internal/api/handlers"
	"github.com/pathlens/labtestcompare/backend/internal/api/middleware"
	"github.com/pathlens/labtestcompare/backend/internal/api/routes"
	"github.com/pathlens/labtestcompare/backend/internal/application/loaders"
	"github.com/pathlens/labtestcompare/backend/internal/application/services"
	"github.com/pathlens/labtestcompare/backend/internal/domain/providers"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/postgres"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/clients/redis"
	"github.com/pathlens/labtestcompare/backend/internal/infrastructure/observability"
	"github.com/pathlens/labtestcompare/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional; the API works uncached without it
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without response cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Adapters
	cityAdapter := database.NewCityAdapter(pgClient)
	locationAdapter := database.NewLabLocationAdapter(pgClient)
	labAdapter := database.NewLabAdapter(pgClient)
	departmentAdapter := database.NewDepartmentAdapter(pgClient)
	testAdapter := database.NewTestAdapter(pgClient)
	offeringAdapter := database.NewOfferingAdapter(pgClient, cfg.Catalog.ScanPageSize, metrics)
	comparisonAdapter := database.NewComparisonAdapter(pgClient)

	// Loaders are built per request so reference data stays fresh
	newLoaders := func() *loaders.Loaders {
		return loaders.NewLoaders(testAdapter, labAdapter, cfg.Catalog.LookupBatchSize, metrics)
	}

	// Services
	resolver := services.NewLocationResolver(cityAdapter, locationAdapter)
	searchService := services.NewSearchService(testAdapter, offeringAdapter, resolver, cfg.Catalog.SearchLimit)
	browseService := services.NewLabBrowseService(labAdapter, offeringAdapter, resolver, newLoaders, cfg.Catalog.BrowseWindow, cfg.Catalog.SearchLimit)
	heatmapService := services.NewHeatmapService(labAdapter, offeringAdapter, resolver, newLoaders, cfg.Catalog.HeatmapLimit)
	availabilityService := services.NewAvailabilityService(labAdapter, departmentAdapter, offeringAdapter, resolver)
	comparisonService := services.NewComparisonService(testAdapter, comparisonAdapter)
	referenceService := services.NewReferenceService(labAdapter, cityAdapter, departmentAdapter)

	// Handlers
	testHandler := handlers.NewTestHandler(searchService, comparisonService)
	labHandler := handlers.NewLabHandler(browseService, referenceService)
	analyticsHandler := handlers.NewAnalyticsHandler(heatmapService, availabilityService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		log.Info().Msg("response cache middleware initialized")
	}

	router := routes.NewRouter(
		testHandler,
		labHandler,
		analyticsHandler,
		referenceHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
