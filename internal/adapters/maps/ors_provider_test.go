package maps

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"route-display-service/internal/domain"
	"route-display-service/internal/ports"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orsDirectionsOK = `{
  "type": "FeatureCollection",
  "bbox": [-0.1281, 51.508, -0.0984, 51.5138],
  "features": [{
    "bbox": [-0.1281, 51.508, -0.0984, 51.5138],
    "type": "Feature",
    "properties": {
      "segments": [{
        "distance": 2200.4,
        "duration": 539.6,
        "steps": [
          {"distance": 804.7, "duration": 200.0, "type": 11, "instruction": "Head east on <b>Strand</b>", "way_points": [0, 1]},
          {"distance": 30.0, "duration": 10.2, "type": 10, "instruction": "Arrive at <b>St Paul's Churchyard</b>", "way_points": [1, 2]}
        ]
      }],
      "warnings": [{"code": 1, "message": "There may be restrictions on some roads"}],
      "way_points": [0, 2]
    },
    "geometry": {"coordinates": [[-0.1281, 51.508], [-0.118, 51.5113], [-0.0984, 51.5138]], "type": "LineString"}
  }],
  "metadata": {"attribution": "openrouteservice.org | OpenStreetMap contributors"}
}`

type orsStub struct {
	geocodes   atomic.Int32
	directions atomic.Int32

	mu   sync.Mutex
	body directionsRequest
	auth string
}

func (s *orsStub) lastRequest() (directionsRequest, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body, s.auth
}

func newORSStub(t *testing.T) (*ORSProvider, *orsStub) {
	t.Helper()

	stub := &orsStub{}
	mux := http.NewServeMux()

	mux.HandleFunc("/geocode/search", func(w http.ResponseWriter, r *http.Request) {
		stub.geocodes.Add(1)
		q := r.URL.Query()
		assert.Equal(t, "GB", q.Get("boundary.country"))
		assert.Equal(t, "1", q.Get("size"))

		w.Header().Set("Content-Type", "application/json")
		switch q.Get("text") {
		case "Trafalgar Square, London":
			_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [-0.1281, 51.508]}}]}`))
		case "St Paul's Cathedral, London":
			_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [-0.0984, 51.5138]}}]}`))
		case "Middle of the Sea":
			_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [-20.0, 50.0]}}]}`))
		default:
			_, _ = w.Write([]byte(`{"features": []}`))
		}
	})

	mux.HandleFunc("/v2/directions/driving-car/geojson", func(w http.ResponseWriter, r *http.Request) {
		stub.directions.Add(1)

		var body directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		stub.mu.Lock()
		stub.body, stub.auth = body, r.Header.Get("Authorization")
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/geo+json")
		if len(body.Coordinates) == 2 && body.Coordinates[1][0] == -20.0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"code": 2009, "message": "Route could not be found"}}`))
			return
		}
		_, _ = w.Write([]byte(orsDirectionsOK))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p, err := NewORSProvider("ors-test-key", WithORSBaseURL(srv.URL+"/"), WithORSRateLimit(0))
	require.NoError(t, err)

	return p, stub
}

func TestORSProviderDirections(t *testing.T) {
	p, stub := newORSStub(t)

	route, err := p.Directions(context.Background(), " Trafalgar  Square, London", "St Paul's Cathedral, London")
	require.NoError(t, err)

	body, auth := stub.lastRequest()
	assert.Equal(t, int32(2), stub.geocodes.Load())
	assert.Equal(t, "ors-test-key", auth)
	assert.Equal(t, [][]float64{{-0.1281, 51.508}, {-0.0984, 51.5138}}, body.Coordinates)
	assert.Equal(t, "m", body.Units)
	assert.True(t, body.Instructions)
	assert.Equal(t, "html", body.InstructionsFormat)

	leg, ok := route.FirstLeg()
	require.True(t, ok)
	assert.Equal(t, 2200, leg.DistanceMeters)
	assert.Equal(t, 540, leg.DurationSeconds)
	require.Len(t, leg.Steps, 2)

	assert.Equal(t, domain.Step{
		Instructions:    "Head east on <b>Strand</b>",
		DistanceMeters:  805,
		DistanceText:    "0.5 mi",
		DurationSeconds: 200,
		Start:           domain.Coordinates{Lat: 51.508, Lng: -0.1281},
		End:             domain.Coordinates{Lat: 51.5113, Lng: -0.118},
	}, leg.Steps[0])
	assert.Equal(t, "100 ft", leg.Steps[1].DistanceText)
	assert.Equal(t, domain.Coordinates{Lat: 51.5138, Lng: -0.0984}, leg.Steps[1].End)

	assert.Len(t, route.OverviewPath, 3)
	assert.Equal(t, 51.508, route.Bounds.Min.Lat())
	assert.Equal(t, -0.0984, route.Bounds.Max.Lon())
	assert.Equal(t, "openrouteservice.org | OpenStreetMap contributors", route.Copyrights)
	assert.Equal(t, []string{"There may be restrictions on some roads"}, route.Warnings)
}

func TestORSProviderDirectionsNotFound(t *testing.T) {
	p, stub := newORSStub(t)

	_, err := p.Directions(context.Background(), "Trafalgar Square, London", "Middle of the Sea")
	assert.True(t, errors.Is(err, ports.ErrNotFound), "got %v", err)
	assert.Equal(t, int32(1), stub.directions.Load())
}

func TestORSProviderDirectionsUnresolvedEndpoint(t *testing.T) {
	p, stub := newORSStub(t)

	_, err := p.Directions(context.Background(), "Trafalgar Square, London", "Atlantis")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrNotFound))
	assert.Zero(t, stub.directions.Load())
}

func TestORSProviderGeocode(t *testing.T) {
	p, _ := newORSStub(t)

	c, err := p.Geocode(context.Background(), "St Paul's Cathedral, London")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lat: 51.5138, Lng: -0.0984}, c)

	_, err = p.Geocode(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, ports.ErrNotFound), "got %v", err)

	_, err = p.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}

func TestORSProviderUsesInjectedGeocoder(t *testing.T) {
	p, stub := newORSStub(t)

	fake := NewFakeProvider(nil, []FakeGeocode{
		{Address: "Trafalgar Square, London", Coords: domain.Coordinates{Lat: 51.508, Lng: -0.1281}},
		{Address: "St Paul's Cathedral, London", Coords: domain.Coordinates{Lat: 51.5138, Lng: -0.0984}},
	})
	p.SetGeocoder(fake)

	_, err := p.Directions(context.Background(), "Trafalgar Square, London", "St Paul's Cathedral, London")
	require.NoError(t, err)

	assert.Zero(t, stub.geocodes.Load())
	assert.Equal(t, []string{
		"geocode:Trafalgar Square, London",
		"geocode:St Paul's Cathedral, London",
	}, fake.Calls())
}

func TestORSProviderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [-3.1999, 55.9486]}}]}`))
	}))
	t.Cleanup(srv.Close)

	p, err := NewORSProvider("k", WithORSBaseURL(srv.URL), WithORSRateLimit(0))
	require.NoError(t, err)

	c, err := p.Geocode(context.Background(), "Edinburgh Castle")
	require.NoError(t, err)
	assert.Equal(t, 55.9486, c.Lat)
	assert.Equal(t, int32(2), calls.Load())
}

func TestShortDistance(t *testing.T) {
	assert.Equal(t, "100 ft", shortDistance(30))
	assert.Equal(t, "0 ft", shortDistance(0))
	assert.Equal(t, "0.1 mi", shortDistance(161))
	assert.Equal(t, "1.4 mi", shortDistance(2200))
}
