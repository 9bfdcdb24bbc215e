package ports

import (
	"context"
	"fleet-dashboard/internal/domain"
)

// Contract for computing a driving path through ordered waypoints.
type RouteProvider interface {
	// Return the path, or domain.ErrNotFound when no route connects the points.
	Route(ctx context.Context, waypoints []domain.Coordinates) (domain.RoutePath, error)
}
