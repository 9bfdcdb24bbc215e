package ports

import (
	"context"
	"fleet-dashboard/internal/domain"
)

// Contract for resolving a free-text address into coordinates.
type Geocoder interface {
	// Return the best match for address, or domain.ErrNotFound when there is none.
	Geocode(ctx context.Context, address string) (domain.GeocodeResult, error)
}

// Persistent address -> coordinate cache. Keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.GeocodeResult, error)
	PutMany(ctx context.Context, results map[string]domain.GeocodeResult) error
}
