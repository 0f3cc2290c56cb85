package maps

import (
	"context"
	"errors"
	"fmt"
	"route-display-service/internal/domain"
	"route-display-service/internal/platform/obs"
	"route-display-service/internal/ports"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// sharedLookupTimeout bounds an upstream lookup that no longer belongs to
// a single caller.
const sharedLookupTimeout = 45 * time.Second

// CachedGeocoder consults a persistent cache before delegating to a Geocoder.
// Concurrent lookups of the same address share one upstream request.
// Misses and failures are never cached.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
	group singleflight.Group
	log   *zap.Logger
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache, log *zap.Logger) *CachedGeocoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedGeocoder{next: next, cache: cache, log: log}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cached")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("cached geocode: address must be non-empty")
	}

	// Check persistent geocode cache before issuing external API calls.
	if c.cache != nil {
		hits, err := c.cache.GetMany(ctx, []string{norm})
		if err != nil {
			c.log.Warn("geocode cache read failed", zap.String("address", norm), zap.Error(err))
		} else if coords, ok := hits[norm]; ok {
			return coords, nil
		}
	}

	// The shared lookup must outlive any one caller; each caller waits on its own ctx.
	ch := c.group.DoChan(norm, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		coords, err := c.next.Geocode(lookupCtx, norm)
		if err != nil {
			return domain.Coordinates{}, err
		}

		if c.cache != nil {
			if err := c.cache.PutMany(lookupCtx, map[string]domain.Coordinates{norm: coords}); err != nil {
				c.log.Warn("geocode cache write failed", zap.String("address", norm), zap.Error(err))
			}
		}
		return coords, nil
	})

	select {
	case <-ctx.Done():
		return domain.Coordinates{}, fmt.Errorf("cached geocode: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Coordinates{}, fmt.Errorf("cached geocode: %w", res.Err)
		}
		return res.Val.(domain.Coordinates), nil
	}
}
