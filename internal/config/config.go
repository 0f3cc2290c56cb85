package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port   string `envconfig:"PORT" default:"8080"`
	AppEnv string `envconfig:"APP_ENV" default:"production"`

	// MapsProvider selects the directions/geocoding backend: google, ors or mock.
	MapsProvider      string  `envconfig:"MAPS_PROVIDER" default:"google"`
	GoogleMapsAPIKey  string  `envconfig:"GOOGLE_MAPS_API_KEY"`
	ORSAPIKey         string  `envconfig:"ORS_API_KEY"`
	GeocodeCountry    string  `envconfig:"GEOCODE_COUNTRY" default:"GB"`
	ProviderRateLimit float64 `envconfig:"PROVIDER_RATE_LIMIT" default:"10"`

	// GeocodeCache selects where resolved addresses are kept: none, postgres or redis.
	GeocodeCache    string        `envconfig:"GEOCODE_CACHE" default:"none"`
	DatabaseURL     string        `envconfig:"DATABASE_URL"`
	RedisURL        string        `envconfig:"REDIS_URL"`
	GeocodeCacheTTL time.Duration `envconfig:"GEOCODE_CACHE_TTL" default:"720h"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SeedPath   string        `envconfig:"SEED_PATH" default:"data/seeds/geocodes.json"`

	// RouteTimeout bounds the provider calls behind one route request.
	RouteTimeout time.Duration `envconfig:"ROUTE_TIMEOUT" default:"45s"`
}

// Load decodes the environment into a Config and checks provider/cache requirements.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	c.MapsProvider = strings.ToLower(strings.TrimSpace(c.MapsProvider))
	c.GeocodeCache = strings.ToLower(strings.TrimSpace(c.GeocodeCache))

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &c, nil
}

func (c *Config) validate() error {
	switch c.MapsProvider {
	case "google":
		if strings.TrimSpace(c.GoogleMapsAPIKey) == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY is required for provider %q", c.MapsProvider)
		}
	case "ors":
		if strings.TrimSpace(c.ORSAPIKey) == "" {
			return fmt.Errorf("ORS_API_KEY is required for provider %q", c.MapsProvider)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown MAPS_PROVIDER %q", c.MapsProvider)
	}

	switch c.GeocodeCache {
	case "none", "":
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for geocode cache %q", c.GeocodeCache)
		}
	case "redis":
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required for geocode cache %q", c.GeocodeCache)
		}
	default:
		return fmt.Errorf("unknown GEOCODE_CACHE %q", c.GeocodeCache)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RouteTimeout <= 0 {
		return fmt.Errorf("ROUTE_TIMEOUT must be positive, got %s", c.RouteTimeout)
	}

	return nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
