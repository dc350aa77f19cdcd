package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evyataryagoni/geotarget/internal/config"
	"github.com/evyataryagoni/geotarget/internal/geolocate"
	"github.com/evyataryagoni/geotarget/internal/handler"
	"github.com/evyataryagoni/geotarget/internal/limiter"
	"github.com/evyataryagoni/geotarget/internal/logger"
	"github.com/evyataryagoni/geotarget/internal/metrics"
	"github.com/evyataryagoni/geotarget/internal/resolver"
	"github.com/evyataryagoni/geotarget/internal/router"
	"github.com/evyataryagoni/geotarget/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	appConfig := config.Load()

	appLogger := setupLogger(appConfig)
	mappingStore := setupStore(appConfig, appLogger)
	defer mappingStore.Close()

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := metrics.New()

	locator := geolocate.NewLocator(geolocate.Config{
		PrimaryURL:   appConfig.PrimaryProviderURL,
		SecondaryURL: appConfig.SecondaryProviderURL,
		Timeout:      appConfig.GeolocateTimeout,
	}, metricsCollector, appLogger)

	storefrontResolver := resolver.New(locator, mappingStore, resolver.Config{
		DefaultStorefront: appConfig.DefaultStorefront,
		Brand:             appConfig.StorefrontBrand,
	}, metricsCollector, appLogger)

	storefrontHandler := handler.NewStorefrontHandler(storefrontResolver, appLogger)
	appRouter := router.SetupRouter(storefrontHandler, rateLimiter, metricsCollector, prometheus.DefaultGatherer, appLogger)

	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:      appConfig.LogLevel,
		Pretty:     appConfig.LogPretty,
		OutputFile: appConfig.LogFile,
	})

	appLogger.Info().Msg("Starting geotarget server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Str("store_type", appConfig.StoreType).
		Str("primary_provider", appConfig.PrimaryProviderURL).
		Str("secondary_provider", appConfig.SecondaryProviderURL).
		Dur("geolocate_timeout", appConfig.GeolocateTimeout).
		Str("default_storefront", appConfig.DefaultStorefront).
		Msg("Configuration loaded")

	return appLogger
}

// setupStore initializes the storefront mapping backend
func setupStore(appConfig *config.Config, log *logger.Logger) store.Store {
	mappingStore, err := store.NewStore(store.StoreConfig{
		Type:          appConfig.StoreType,
		CSVPath:       appConfig.CSVPath,
		MySQLDSN:      appConfig.MySQLDSN,
		PostgresDSN:   appConfig.PostgresDSN,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Str("type", appConfig.StoreType).Msg("Failed to initialize storefront store")
	}

	if redisStore, ok := mappingStore.(*store.RedisStore); ok {
		loadRedisDataIfEmpty(redisStore, appConfig.CSVPath, log)
	}

	log.Info().Str("type", appConfig.StoreType).Msg("Storefront store initialized")
	return mappingStore
}

// loadRedisDataIfEmpty seeds an empty Redis from the storefront CSV
func loadRedisDataIfEmpty(redisStore *store.RedisStore, csvPath string, log *logger.Logger) {
	isEmpty, err := redisStore.IsEmpty()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check if Redis is empty")
		return
	}
	if !isEmpty {
		return
	}

	log.Info().Str("path", csvPath).Msg("Redis is empty, loading storefronts from CSV")
	n, err := redisStore.LoadFromCSV(csvPath)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load storefronts")
		return
	}
	log.Info().Int("storefronts", n).Msg("Storefronts loaded into Redis")
}

// setupRateLimiter initializes the rate limiter (memory or Redis)
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	window := time.Duration(appConfig.RateLimitWindow) * time.Second

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:          appConfig.RateLimitType,
		Limit:         appConfig.RateLimit,
		Window:        window,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	log.Info().
		Str("type", appConfig.RateLimitType).
		Int("limit", appConfig.RateLimit).
		Dur("window", window).
		Msg("Rate limiter initialized")

	return rateLimiter
}

// startServer serves until SIGINT/SIGTERM, then drains in-flight requests
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	server := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           appRouter,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Two provider calls must fit in one request
		WriteTimeout: 2*appConfig.GeolocateTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", appConfig.Port).
			Str("api_endpoint", "http://localhost:"+appConfig.Port+"/v1/storefront?ip=<ip>").
			Str("health_check", "http://localhost:"+appConfig.Port+"/health").
			Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
			Msg("Server is running")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
