package maps

import (
	"errors"
	"net/http"
	"route-display-service/internal/ports"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const orsAttribution = "© openrouteservice.org by HeiGIT | Map data © OpenStreetMap contributors"

// ORSProvider implements DirectionsProvider and Geocoder using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Geocoding of both endpoints before a directions request
//   - External API calls with rate limiting and retry/backoff
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session *http.Client
	limiter *rate.Limiter
	apiKey  string
	baseURL string
	profile string
	country string

	resolver ports.Geocoder
}

// ORSOption customizes an ORSProvider.
type ORSOption func(*ORSProvider)

// WithORSBaseURL points the provider at another ORS deployment.
func WithORSBaseURL(u string) ORSOption {
	return func(o *ORSProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithORSRateLimit caps outgoing requests per second. Zero or less disables the cap.
func WithORSRateLimit(perSecond float64) ORSOption {
	return func(o *ORSProvider) {
		if perSecond <= 0 {
			o.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithORSCountry restricts geocoding to one ISO country code.
func WithORSCountry(country string) ORSOption {
	return func(o *ORSProvider) { o.country = strings.ToUpper(strings.TrimSpace(country)) }
}

func NewORSProvider(apiKey string, opts ...ORSOption) (*ORSProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 1),
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		country: "GB",
	}

	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SetGeocoder routes the endpoint lookups done by Directions through g,
// typically a caching wrapper around this provider.
func (o *ORSProvider) SetGeocoder(g ports.Geocoder) {
	o.resolver = g
}

func (o *ORSProvider) geocoder() ports.Geocoder {
	if o.resolver != nil {
		return o.resolver
	}
	return o
}
