package maps

import (
	"context"
	"fmt"
	"route-display-service/internal/domain"
	"route-display-service/internal/ports"
	"sync"

	"github.com/paulmach/orb"
)

// FakeRoute is a canned directions answer for one address pair.
type FakeRoute struct {
	From, To string
	Route    *domain.Route
	Err      error
}

// FakeGeocode is a canned geocoding answer for one address.
type FakeGeocode struct {
	Address string
	Coords  domain.Coordinates
	Err     error
}

// FakeProvider answers directions and geocoding from canned data.
// Unknown addresses are reported as ports.ErrNotFound.
type FakeProvider struct {
	mu       sync.Mutex
	routes   map[string]FakeRoute
	geocodes map[string]FakeGeocode
	calls    []string

	// Hold, when set, runs before every answer and may block; a non-nil
	// return is reported as the provider error.
	Hold func(ctx context.Context, call string) error
}

func NewFakeProvider(routes []FakeRoute, geocodes []FakeGeocode) *FakeProvider {
	p := &FakeProvider{
		routes:   make(map[string]FakeRoute, len(routes)),
		geocodes: make(map[string]FakeGeocode, len(geocodes)),
	}
	for _, r := range routes {
		p.routes[normalize(r.From)+"|"+normalize(r.To)] = r
	}
	for _, g := range geocodes {
		p.geocodes[normalize(g.Address)] = g
	}
	return p
}

func (p *FakeProvider) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

// Calls returns every request received, as "directions:A|B" or "geocode:A".
func (p *FakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *FakeProvider) Directions(ctx context.Context, origin, destination string) (*domain.Route, error) {
	key := normalize(origin) + "|" + normalize(destination)
	call := "directions:" + key
	p.record(call)

	if p.Hold != nil {
		if err := p.Hold(ctx, call); err != nil {
			return nil, err
		}
	}

	r, ok := p.routes[key]
	if !ok {
		return nil, fmt.Errorf("fake directions %q -> %q: %w", origin, destination, ports.ErrNotFound)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Route, nil
}

func (p *FakeProvider) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := normalize(address)
	call := "geocode:" + key
	p.record(call)

	if p.Hold != nil {
		if err := p.Hold(ctx, call); err != nil {
			return domain.Coordinates{}, err
		}
	}

	g, ok := p.geocodes[key]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("fake geocode %q: %w", address, ports.ErrNotFound)
	}
	if g.Err != nil {
		return domain.Coordinates{}, g.Err
	}
	return g.Coords, nil
}

// NewDemoProvider returns a FakeProvider knowing a short route across
// central London, for running the service without provider credentials.
func NewDemoProvider() *FakeProvider {
	trafalgar := domain.Coordinates{Lat: 51.5080, Lng: -0.1281}
	strand := domain.Coordinates{Lat: 51.5113, Lng: -0.1180}
	stPauls := domain.Coordinates{Lat: 51.5138, Lng: -0.0984}

	path := orb.LineString{trafalgar.Point(), strand.Point(), stPauls.Point()}

	route := &domain.Route{
		Legs: []domain.Leg{{
			DistanceMeters:  2200,
			DurationSeconds: 540,
			Steps: []domain.Step{
				{
					Instructions:    "Head <b>east</b> on <b>Strand</b>",
					DistanceMeters:  800,
					DistanceText:    shortDistance(800),
					DurationSeconds: 200,
					Start:           trafalgar,
					End:             strand,
				},
				{
					Instructions:    "Continue onto <b>Fleet St</b>",
					DistanceMeters:  1400,
					DistanceText:    shortDistance(1400),
					DurationSeconds: 340,
					Start:           strand,
					End:             stPauls,
				},
			},
		}},
		OverviewPath: path,
		Bounds:       path.Bound(),
		Copyrights:   "Demo data",
	}

	return NewFakeProvider(
		[]FakeRoute{{From: "Trafalgar Square, London", To: "St Paul's Cathedral, London", Route: route}},
		[]FakeGeocode{
			{Address: "Trafalgar Square, London", Coords: trafalgar},
			{Address: "St Paul's Cathedral, London", Coords: stPauls},
		},
	)
}
