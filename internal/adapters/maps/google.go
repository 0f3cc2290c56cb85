package maps

import (
	"context"
	"errors"
	"fmt"
	"route-display-service/internal/domain"
	"route-display-service/internal/platform/obs"
	"route-display-service/internal/ports"
	"strings"
	"time"

	"github.com/paulmach/orb"
	gmaps "googlemaps.github.io/maps"
)

// GoogleProvider implements DirectionsProvider and Geocoder with the
// Google Maps web services client.
type GoogleProvider struct {
	client *gmaps.Client
	region string
}

// GoogleOption customizes a GoogleProvider.
type GoogleOption func(*googleConfig)

type googleConfig struct {
	baseURL   string
	region    string
	rateLimit int
}

// WithGoogleBaseURL points the client at another endpoint (tests, proxies).
func WithGoogleBaseURL(u string) GoogleOption {
	return func(c *googleConfig) { c.baseURL = u }
}

// WithGoogleRegion biases geocoding and directions towards a ccTLD region code.
func WithGoogleRegion(region string) GoogleOption {
	return func(c *googleConfig) { c.region = strings.ToLower(strings.TrimSpace(region)) }
}

// WithGoogleRateLimit caps requests per second.
func WithGoogleRateLimit(perSecond int) GoogleOption {
	return func(c *googleConfig) { c.rateLimit = perSecond }
}

func NewGoogleProvider(apiKey string, opts ...GoogleOption) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	cfg := googleConfig{region: "uk", rateLimit: 10}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientOpts := []gmaps.ClientOption{gmaps.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, gmaps.WithBaseURL(cfg.baseURL))
	}
	if cfg.rateLimit > 0 {
		clientOpts = append(clientOpts, gmaps.WithRateLimit(cfg.rateLimit))
	}

	client, err := gmaps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("new google maps client: %w", err)
	}

	return &GoogleProvider{client: client, region: cfg.region}, nil
}

// Directions requests a single driving route in imperial units.
func (g *GoogleProvider) Directions(
	ctx context.Context,
	origin string,
	destination string,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "google.Directions")(&err)

	req := &gmaps.DirectionsRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         gmaps.TravelModeDriving,
		Units:        gmaps.UnitsImperial,
		Alternatives: false,
		Region:       g.region,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("google directions %q -> %q: %w", origin, destination, err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("google directions %q -> %q: %w", origin, destination, ports.ErrNotFound)
	}

	return convertGoogleRoute(routes[0])
}

func convertGoogleRoute(r gmaps.Route) (*domain.Route, error) {
	points, err := r.OverviewPolyline.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode overview polyline: %w", err)
	}

	path := make(orb.LineString, 0, len(points))
	for _, p := range points {
		path = append(path, orb.Point{p.Lng, p.Lat})
	}

	legs := make([]domain.Leg, 0, len(r.Legs))
	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}

		steps := make([]domain.Step, 0, len(leg.Steps))
		for _, st := range leg.Steps {
			if st == nil {
				continue
			}
			steps = append(steps, domain.Step{
				Instructions:    st.HTMLInstructions,
				DistanceMeters:  st.Distance.Meters,
				DistanceText:    st.Distance.HumanReadable,
				DurationSeconds: int(st.Duration / time.Second),
				Start:           domain.Coordinates{Lat: st.StartLocation.Lat, Lng: st.StartLocation.Lng},
				End:             domain.Coordinates{Lat: st.EndLocation.Lat, Lng: st.EndLocation.Lng},
			})
		}

		legs = append(legs, domain.Leg{
			DistanceMeters:  leg.Distance.Meters,
			DurationSeconds: int(leg.Duration / time.Second),
			Steps:           steps,
		})
	}

	bounds := orb.Bound{
		Min: orb.Point{r.Bounds.SouthWest.Lng, r.Bounds.SouthWest.Lat},
		Max: orb.Point{r.Bounds.NorthEast.Lng, r.Bounds.NorthEast.Lat},
	}
	if bounds.IsZero() && len(path) > 0 {
		bounds = path.Bound()
	}

	return &domain.Route{
		Legs:         legs,
		OverviewPath: path,
		Bounds:       bounds,
		Copyrights:   r.Copyrights,
		Warnings:     append([]string(nil), r.Warnings...),
	}, nil
}

// Geocode resolves an address to the first geocoding result.
func (g *GoogleProvider) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	results, err := g.client.Geocode(ctx, &gmaps.GeocodingRequest{Address: address, Region: g.region})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("google geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("google geocode %q: %w", address, ports.ErrNotFound)
	}

	loc := results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
