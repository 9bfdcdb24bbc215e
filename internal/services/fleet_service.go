package services

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/ports"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// FleetService validates and persists vehicles and deliveries and
// announces every successful change.
type FleetService struct {
	Vehicles   ports.VehicleRepository
	Deliveries ports.DeliveryRepository
	Events     ports.EventPublisher
	Log        logrus.FieldLogger
	Now        func() time.Time
}

func (s *FleetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *FleetService) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	return s.Vehicles.ListVehicles(ctx)
}

func (s *FleetService) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.Vehicles.GetVehicle(ctx, id)
}

func (s *FleetService) CreateVehicle(ctx context.Context, in domain.VehicleInput) (*domain.Vehicle, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	v := domain.NewVehicle(in)
	v.CreatedAt = s.now()
	if err := s.Vehicles.CreateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}

	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventVehicleChanged, v.ID))
	return v, nil
}

func (s *FleetService) UpdateVehicle(ctx context.Context, id int64, in domain.VehicleInput) (*domain.Vehicle, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	v, err := s.Vehicles.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Apply(in)
	if err := s.Vehicles.UpdateVehicle(ctx, v); err != nil {
		return nil, fmt.Errorf("update vehicle: %w", err)
	}

	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventVehicleChanged, v.ID))
	return v, nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, id int64) error {
	if err := s.Vehicles.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventVehicleDeleted, id))
	return nil
}

func (s *FleetService) ListDeliveries(ctx context.Context) ([]*domain.Delivery, error) {
	return s.Deliveries.ListDeliveries(ctx)
}

func (s *FleetService) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	return s.Deliveries.GetDelivery(ctx, id)
}

func (s *FleetService) CreateDelivery(ctx context.Context, in domain.DeliveryInput) (*domain.Delivery, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d := domain.NewDelivery(in)
	d.CreatedAt = s.now()
	if err := s.Deliveries.CreateDelivery(ctx, d); err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}

	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventDeliveryChanged, d.ID))
	return d, nil
}

func (s *FleetService) UpdateDelivery(ctx context.Context, id int64, in domain.DeliveryInput) (*domain.Delivery, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d, err := s.Deliveries.GetDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Apply(in)
	if err := s.Deliveries.UpdateDelivery(ctx, d); err != nil {
		return nil, fmt.Errorf("update delivery: %w", err)
	}

	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventDeliveryChanged, d.ID))
	return d, nil
}

func (s *FleetService) DeleteDelivery(ctx context.Context, id int64) error {
	if err := s.Deliveries.DeleteDelivery(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventDeliveryDeleted, id))
	return nil
}
