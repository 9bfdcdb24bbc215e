package ports

import (
	"context"
	"fleet-dashboard/internal/domain"
	"time"
)

// Port: vehicle persistence. Missing rows return domain.ErrNotFound and
// duplicate plates return domain.ErrConflict.
type VehicleRepository interface {
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
	CountVehicles(ctx context.Context) (int, error)
}

// Port: delivery persistence.
type DeliveryRepository interface {
	ListDeliveries(ctx context.Context) ([]*domain.Delivery, error)
	GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error)
	CreateDelivery(ctx context.Context, d *domain.Delivery) error
	UpdateDelivery(ctx context.Context, d *domain.Delivery) error
	DeleteDelivery(ctx context.Context, id int64) error
	// Count deliveries by status whose deadline falls in [from, to).
	CountByStatus(ctx context.Context, from, to time.Time) (map[domain.DeliveryStatus]int, error)
}

// Port: key/value cost settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	PutSettings(ctx context.Context, values map[string]string) error
}

// Port: computed route history.
type RouteRepository interface {
	SaveRoute(ctx context.Context, r *domain.SavedRoute) error
	ListRoutes(ctx context.Context, limit int) ([]*domain.SavedRoute, error)
	// Sum of route distance per calendar day in [from, to), keyed by YYYY-MM-DD.
	DistanceByDay(ctx context.Context, from, to time.Time) (map[string]float64, error)
}
