package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"route-display-service/internal/adapters/cache"
	"route-display-service/internal/adapters/maps"
	"route-display-service/internal/api"
	"route-display-service/internal/api/handlers"
	"route-display-service/internal/config"
	"route-display-service/internal/platform/db"
	"route-display-service/internal/platform/logger"
	"route-display-service/internal/ports"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// provider is what the server needs from a maps backend.
type provider interface {
	ports.DirectionsProvider
	ports.Geocoder
}

// main is the application composition root.
// It wires concrete adapters (maps provider, geocode cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.NewNamed(cfg.AppEnv, "route-display")
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	backend, err := newProvider(cfg)
	if err != nil {
		zl.Fatal("maps provider", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geocodeCache, closeCache, err := newGeocodeCache(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("geocode cache", zap.Error(err))
	}
	defer closeCache()

	var geocoder ports.Geocoder = backend
	if geocodeCache != nil {
		geocoder = cachedGeocoder(backend, geocodeCache, zl)
	}

	store := handlers.NewSessionStore(backend, geocoder, cfg.SessionTTL, zl.Named("session"))
	router := api.NewRouter(store, cfg.RouteTimeout, zl.Named("http"))

	// Route requests are capped at RouteTimeout; the write deadline leaves room to respond.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RouteTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Warn("shutdown", zap.Error(err))
		}
	}()

	zl.Info("server listening",
		zap.String("addr", srv.Addr),
		zap.String("provider", cfg.MapsProvider),
		zap.String("geocode_cache", cfg.GeocodeCache),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("listen", zap.Error(err))
	}
}

func newProvider(cfg *config.Config) (provider, error) {
	switch cfg.MapsProvider {
	case "google":
		return maps.NewGoogleProvider(cfg.GoogleMapsAPIKey,
			maps.WithGoogleRegion(googleRegion(cfg.GeocodeCountry)),
			maps.WithGoogleRateLimit(int(cfg.ProviderRateLimit)),
		)
	case "ors":
		return maps.NewORSProvider(cfg.ORSAPIKey,
			maps.WithORSCountry(cfg.GeocodeCountry),
			maps.WithORSRateLimit(cfg.ProviderRateLimit),
		)
	case "mock":
		return maps.NewDemoProvider(), nil
	default:
		return nil, fmt.Errorf("unknown maps provider %q", cfg.MapsProvider)
	}
}

// googleRegion converts an ISO country code to the ccTLD Google expects.
func googleRegion(country string) string {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "gb" {
		return "uk"
	}
	return c
}

// newGeocodeCache opens the configured cache and preloads the seed addresses.
// It returns a nil cache for GEOCODE_CACHE=none.
func newGeocodeCache(ctx context.Context, cfg *config.Config, zl *zap.Logger) (ports.GeocodeCache, func(), error) {
	var (
		c       ports.GeocodeCache
		closeFn = func() {}
	)

	switch cfg.GeocodeCache {
	case "postgres":
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		c = cache.NewSQLGeocodeCache(conn, cfg.GeocodeCacheTTL)
		closeFn = func() { conn.Close() }

	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		c = cache.NewRedisGeocodeCache(client, cfg.GeocodeCacheTTL)
		closeFn = func() { client.Close() }

	default:
		return nil, closeFn, nil
	}

	seeds, err := cache.LoadSeeds(cfg.SeedPath)
	if err != nil {
		zl.Warn("geocode seeds not loaded", zap.String("path", cfg.SeedPath), zap.Error(err))
		return c, closeFn, nil
	}
	if err := c.PutMany(ctx, seeds); err != nil {
		zl.Warn("geocode seeds not stored", zap.Error(err))
	}

	return c, closeFn, nil
}

// cachedGeocoder wraps p with the cache and, for ORS, routes the
// endpoint lookups done by Directions through the same cache.
func cachedGeocoder(p provider, c ports.GeocodeCache, zl *zap.Logger) ports.Geocoder {
	cached := maps.NewCachedGeocoder(p, c, zl.Named("geocode"))
	if ors, ok := p.(*maps.ORSProvider); ok {
		ors.SetGeocoder(cached)
	}
	return cached
}
