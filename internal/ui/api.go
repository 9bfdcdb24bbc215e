package ui

import (
	"context"
	"fleet-dashboard/internal/domain"
)

// The controllers depend on these slices of the backend API;
// *client.Client implements all of them.

type RouteAPI interface {
	Geocode(ctx context.Context, address string) (domain.GeocodeResult, error)
	CalculateRoute(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error)
}

type VehicleAPI interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (domain.Vehicle, error)
	CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, in domain.VehicleInput) (domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
}

type DeliveryAPI interface {
	ListDeliveries(ctx context.Context) ([]domain.Delivery, error)
	GetDelivery(ctx context.Context, id int64) (domain.Delivery, error)
	CreateDelivery(ctx context.Context, in domain.DeliveryInput) (domain.Delivery, error)
	UpdateDelivery(ctx context.Context, id int64, in domain.DeliveryInput) (domain.Delivery, error)
	DeleteDelivery(ctx context.Context, id int64) error
}

type DashboardAPI interface {
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
	DashboardCharts(ctx context.Context) (domain.DashboardCharts, error)
}

type SettingsAPI interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, in domain.SettingsInput) (domain.Settings, error)
}

type EventsAPI interface {
	Events(ctx context.Context) (<-chan domain.ChangeEvent, error)
}

// API is the whole backend surface used by App.
type API interface {
	RouteAPI
	VehicleAPI
	DeliveryAPI
	DashboardAPI
	SettingsAPI
	EventsAPI
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }
