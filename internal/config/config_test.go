package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAPS_PROVIDER", "mock")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "mock", c.MapsProvider)
	assert.Equal(t, "none", c.GeocodeCache)
	assert.Equal(t, "GB", c.GeocodeCountry)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, 720*time.Hour, c.GeocodeCacheTTL)
	assert.Equal(t, 45*time.Second, c.RouteTimeout)
}

func TestLoadRejectsNonPositiveRouteTimeout(t *testing.T) {
	t.Setenv("MAPS_PROVIDER", "mock")
	t.Setenv("ROUTE_TIMEOUT", "0s")

	_, err := Load()
	assert.ErrorContains(t, err, "ROUTE_TIMEOUT")
}

func TestLoadRequiresProviderCredentials(t *testing.T) {
	t.Setenv("MAPS_PROVIDER", "Google")
	t.Setenv("GOOGLE_MAPS_API_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "GOOGLE_MAPS_API_KEY")

	t.Setenv("MAPS_PROVIDER", "ors")
	t.Setenv("ORS_API_KEY", "")
	_, err = Load()
	assert.ErrorContains(t, err, "ORS_API_KEY")

	t.Setenv("MAPS_PROVIDER", "bing")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown MAPS_PROVIDER")
}

func TestLoadGeocodeCache(t *testing.T) {
	t.Setenv("MAPS_PROVIDER", "mock")

	t.Setenv("GEOCODE_CACHE", "redis")
	t.Setenv("REDIS_URL", "")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_URL")

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", c.GeocodeCache)

	t.Setenv("GEOCODE_CACHE", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("GEOCODE_CACHE", "memcached")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown GEOCODE_CACHE")
}

func TestGet(t *testing.T) {
	t.Setenv("SEED_PATH", "")
	assert.Equal(t, "fallback", Get("SEED_PATH", "fallback"))

	t.Setenv("SEED_PATH", "/tmp/seeds.json")
	assert.Equal(t, "/tmp/seeds.json", Get("SEED_PATH", "fallback"))
}
