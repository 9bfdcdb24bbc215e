package services

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/obs"
	"fleet-dashboard/internal/ports"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoRoute means the routing engine found no path between the waypoints.
var ErrNoRoute = errors.New("no route between waypoints")

type RouteService struct {
	Router   ports.RouteProvider
	Vehicles ports.VehicleRepository
	Settings ports.SettingsRepository
	Routes   ports.RouteRepository
	Events   ports.EventPublisher
	Log      logrus.FieldLogger
	Now      func() time.Time
}

func (s *RouteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Calculate routes through req.Waypoints, prices the result and records it
// in the route history. History and event failures are logged only.
func (s *RouteService) Calculate(ctx context.Context, req domain.RouteRequest) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, s.Log, "routes.Calculate")(&err)

	if err := req.Waypoints.Validate(); err != nil {
		return domain.RouteResult{}, err
	}

	var vehicle *domain.Vehicle
	if req.VehicleID != nil {
		vehicle, err = s.Vehicles.GetVehicle(ctx, *req.VehicleID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RouteResult{}, &domain.ValidationError{Fields: []domain.FieldError{{
				Field:   "veiculo_id",
				Message: fmt.Sprintf("vehicle %d does not exist", *req.VehicleID),
			}}}
		}
		if err != nil {
			return domain.RouteResult{}, fmt.Errorf("calculate route: %w", err)
		}
	}

	settings := domain.SettingsFromMap(nil)
	if values, err := s.Settings.GetSettings(ctx); err != nil {
		s.Log.WithError(err).Warn("settings unavailable, using default costs")
	} else {
		settings = domain.SettingsFromMap(values)
	}

	path, err := s.Router.Route(ctx, req.Waypoints.Coordinates())
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RouteResult{}, fmt.Errorf("calculate route: %w", ErrNoRoute)
	}
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("calculate route: %w", err)
	}

	result := CostRoute(path, settings, vehicle)

	saved := &domain.SavedRoute{
		Name:        req.Name,
		VehicleID:   req.VehicleID,
		Waypoints:   req.Waypoints,
		DistanceKm:  result.DistanceKm,
		DurationMin: result.DurationMin,
		RouteCosts:  result.RouteCosts,
		CreatedAt:   s.now(),
	}
	if saved.Name == "" {
		saved.Name = "Rota " + saved.CreatedAt.Format("02/01/2006 15:04")
	}
	if err := s.Routes.SaveRoute(ctx, saved); err != nil {
		s.Log.WithError(err).Warn("route computed but not saved")
	} else {
		result.RouteID = saved.ID
	}

	publish(ctx, s.Events, s.Log, domain.NewChangeEvent(domain.EventRouteCalculated, result.RouteID))
	return result, nil
}

func (s *RouteService) History(ctx context.Context, limit int) ([]*domain.SavedRoute, error) {
	return s.Routes.ListRoutes(ctx, limit)
}

func publish(ctx context.Context, p ports.EventPublisher, log logrus.FieldLogger, evt domain.ChangeEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		log.WithError(err).WithField("event_type", evt.Type).Warn("publish change event")
	}
}
