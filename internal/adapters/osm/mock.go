package osm

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fmt"
	"strings"
	"sync"
)

// MockGeocoder resolves a fixed address table and counts lookups.
type MockGeocoder struct {
	mu      sync.Mutex
	places  map[string]domain.GeocodeResult
	Lookups int
}

func NewMockGeocoder(places map[string]domain.GeocodeResult) *MockGeocoder {
	return &MockGeocoder{places: places}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Lookups++

	r, ok := g.places[strings.TrimSpace(address)]
	if !ok {
		return domain.GeocodeResult{}, fmt.Errorf("geocode %q: %w", address, domain.ErrNotFound)
	}
	return r, nil
}

// MockRouteProvider returns a fixed path and records the last request.
type MockRouteProvider struct {
	Path domain.RoutePath
	Err  error
	Last []domain.Coordinates
}

func (p *MockRouteProvider) Route(ctx context.Context, waypoints []domain.Coordinates) (domain.RoutePath, error) {
	p.Last = append([]domain.Coordinates(nil), waypoints...)
	if p.Err != nil {
		return domain.RoutePath{}, p.Err
	}
	return p.Path, nil
}
