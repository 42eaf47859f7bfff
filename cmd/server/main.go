package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basket-shipping-service/internal/adapters/cache"
	"basket-shipping-service/internal/adapters/geocode"
	"basket-shipping-service/internal/adapters/repositories"
	"basket-shipping-service/internal/api"
	"basket-shipping-service/internal/api/handlers"
	"basket-shipping-service/internal/config"
	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/platform/db"
	"basket-shipping-service/internal/ports"
	"basket-shipping-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Route optimization geocodes serially under a 1 req/s limit, hence the long
// write timeout. The route deadline leaves room to write the 503 when
// geocoding stalls.
const (
	writeTimeout = 120 * time.Second
	routeTimeout = 110 * time.Second
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ViaCEP, Nominatim) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	var rates ports.RateRepository = repositories.NewPostgresRateRepository(database)
	var settings ports.ConfigRepository = repositories.NewPostgresConfigRepository(database)
	freeCities := repositories.NewPostgresFreeCityRepository(database)

	if rdb := openRedis(ctx, cfg.RedisURL); rdb != nil {
		defer rdb.Close()
		cached := cache.NewRedisSettingsCache(rdb, cfg.SettingsCacheTTL, rates, settings)
		rates, settings = cached, cached
	}

	httpClient := &http.Client{}
	registry := geocode.NewViaCEPRegistry(cfg.ViaCEPBaseURL, cfg.RegistryTimeout, httpClient)
	geocoder := geocode.NewNominatimGeocoder(geocode.NominatimOptions{
		BaseURL:     cfg.NominatimBaseURL,
		UserAgent:   cfg.AppName,
		Timeout:     cfg.GeocoderTimeout,
		MinInterval: cfg.NominatimMinInterval,
		Client:      httpClient,
	})

	origin := domain.Coordinates{Lat: cfg.OriginLat, Lon: cfg.OriginLon}
	locator := services.NewLocator(registry, geocoder, cfg.GeocodeCountry)
	freeShipping := services.NewFreeShippingChecker(freeCities)
	quoter := services.NewShippingQuoter(rates, settings, origin)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		Shipping: &handlers.ShippingHandler{
			Quotes:       services.NewShippingService(locator, freeShipping, quoter),
			FreeShipping: freeShipping,
		},
		Routes: &handlers.RouteHandler{
			Sequencer: services.NewRouteSequencer(locator),
			Timeout:   routeTimeout,
		},
		Admin:  &handlers.AdminHandler{Admin: services.NewShippingAdmin(rates, settings, freeCities)},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openRedis returns nil when the cache is disabled or unreachable; the
// service then reads settings straight from Postgres.
func openRedis(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		slog.Info("settings cache disabled (REDIS_URL not set)")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("settings cache disabled: invalid REDIS_URL", "error", err)
		return nil
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("settings cache disabled: redis unreachable", "error", err)
		_ = rdb.Close()
		return nil
	}

	slog.Info("settings cache enabled")
	return rdb
}
