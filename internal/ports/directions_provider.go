package ports

import (
	"context"
	"errors"
	"route-display-service/internal/domain"
)

// ErrNotFound reports that the provider answered but found nothing:
// no path between the addresses, or no match for an address.
// Any other error from a provider is treated as a generic failure.
var ErrNotFound = errors.New("not found")

// Contract for computing a driving route between two free-text addresses.
type DirectionsProvider interface {
	// Return the first route (driving, imperial, no alternatives).
	Directions(ctx context.Context, origin string, destination string) (*domain.Route, error)
}
