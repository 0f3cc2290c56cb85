package maps

import (
	"context"
	"errors"
	"route-display-service/internal/domain"
	"route-display-service/internal/ports"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCache is an in-process ports.GeocodeCache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]domain.Coordinates
	failGet error
	failPut error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]domain.Coordinates{}}
}

func (m *memoryCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failGet != nil {
		return nil, m.failGet
	}
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if c, ok := m.entries[a]; ok {
			out[a] = c
		}
	}
	return out, nil
}

func (m *memoryCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPut != nil {
		return m.failPut
	}
	for k, v := range results {
		m.entries[k] = v
	}
	return nil
}

var edinburgh = domain.Coordinates{Lat: 55.9486, Lng: -3.1999}

func TestCachedGeocoderStoresAndReuses(t *testing.T) {
	upstream := NewFakeProvider(nil, []FakeGeocode{{Address: "Edinburgh Castle", Coords: edinburgh}})
	cache := newMemoryCache()
	g := NewCachedGeocoder(upstream, cache, zap.NewNop())

	for i := 0; i < 3; i++ {
		c, err := g.Geocode(context.Background(), "  Edinburgh   Castle ")
		require.NoError(t, err)
		assert.Equal(t, edinburgh, c)
	}

	assert.Equal(t, []string{"geocode:Edinburgh Castle"}, upstream.Calls())
	assert.Equal(t, edinburgh, cache.entries["Edinburgh Castle"])
}

func TestCachedGeocoderDoesNotCacheMisses(t *testing.T) {
	upstream := NewFakeProvider(nil, nil)
	cache := newMemoryCache()
	g := NewCachedGeocoder(upstream, cache, nil)

	_, err := g.Geocode(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, ports.ErrNotFound))
	_, err = g.Geocode(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, ports.ErrNotFound))

	assert.Len(t, upstream.Calls(), 2)
	assert.Empty(t, cache.entries)
}

func TestCachedGeocoderToleratesCacheFailures(t *testing.T) {
	upstream := NewFakeProvider(nil, []FakeGeocode{{Address: "Edinburgh Castle", Coords: edinburgh}})
	cache := newMemoryCache()
	cache.failGet = errors.New("cache down")
	cache.failPut = errors.New("cache down")
	g := NewCachedGeocoder(upstream, cache, zap.NewNop())

	c, err := g.Geocode(context.Background(), "Edinburgh Castle")
	require.NoError(t, err)
	assert.Equal(t, edinburgh, c)
}

func TestCachedGeocoderSharesConcurrentLookups(t *testing.T) {
	upstream := NewFakeProvider(nil, []FakeGeocode{{Address: "Edinburgh Castle", Coords: edinburgh}})

	release := make(chan struct{})
	upstream.Hold = func(ctx context.Context, call string) error {
		<-release
		return nil
	}

	g := NewCachedGeocoder(upstream, nil, zap.NewNop())

	const callers = 5
	var wg sync.WaitGroup
	results := make([]domain.Coordinates, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = g.Geocode(context.Background(), "Edinburgh Castle")
		}(i)
	}

	require.Eventually(t, func() bool { return len(upstream.Calls()) >= 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, edinburgh, results[i])
	}
	assert.LessOrEqual(t, len(upstream.Calls()), callers)
}

func TestCachedGeocoderCancelledCallerDoesNotFailOthers(t *testing.T) {
	upstream := NewFakeProvider(nil, []FakeGeocode{{Address: "Edinburgh Castle", Coords: edinburgh}})

	release := make(chan struct{})
	held := make(chan context.Context, 2)
	upstream.Hold = func(ctx context.Context, call string) error {
		held <- ctx
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			return nil
		}
	}

	g := NewCachedGeocoder(upstream, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := g.Geocode(ctx, "Edinburgh Castle")
		firstErr <- err
	}()

	var upstreamCtx context.Context
	select {
	case upstreamCtx = <-held:
	case <-time.After(time.Second):
		t.Fatal("upstream lookup not started")
	}

	type result struct {
		coords domain.Coordinates
		err    error
	}
	second := make(chan result, 1)
	go func() {
		c, err := g.Geocode(context.Background(), "Edinburgh Castle")
		second <- result{c, err}
	}()

	cancel()
	err := <-firstErr
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoError(t, upstreamCtx.Err())

	close(release)
	select {
	case r := <-second:
		require.NoError(t, r.err)
		assert.Equal(t, edinburgh, r.coords)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
}

func TestCachedGeocoderRejectsEmptyAddress(t *testing.T) {
	g := NewCachedGeocoder(NewFakeProvider(nil, nil), nil, nil)

	_, err := g.Geocode(context.Background(), " ")
	assert.Error(t, err)
}
