package services

import (
	"fleet-dashboard/internal/domain"
	"math"
)

const defaultStepInstruction = "Seguir em frente"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CostRoute turns a routing engine path into the dashboard's result. The
// vehicle is optional; without it the fleet average consumption and the
// configured hourly cost apply.
func CostRoute(path domain.RoutePath, settings domain.Settings, vehicle *domain.Vehicle) domain.RouteResult {
	km := path.DistanceMeters / 1000
	hours := path.DurationSeconds / 3600

	kmPerLiter := domain.DefaultKmPerLiter
	hourly := settings.StaffPerHour
	if vehicle != nil {
		if vehicle.KmPerLiter > 0 {
			kmPerLiter = vehicle.KmPerLiter
		}
		hourly = vehicle.HourlyCost
	}

	fuel := km / kmPerLiter * settings.FuelPrice
	staff := hours * hourly

	steps := make([]domain.RouteStep, 0, len(path.Steps))
	for _, s := range path.Steps {
		instruction := s.Name
		if instruction == "" {
			instruction = defaultStepInstruction
		}
		steps = append(steps, domain.RouteStep{
			Instruction: instruction,
			DistanceKm:  round2(s.DistanceMeters / 1000),
			DurationMin: round2(s.DurationSeconds / 60),
		})
	}

	return domain.RouteResult{
		Success:     true,
		DistanceKm:  round2(km),
		DurationMin: round2(hours * 60),
		Geometry:    path.Geometry,
		RouteCosts: domain.RouteCosts{
			Fuel:  round2(fuel),
			Staff: round2(staff),
			Total: round2(fuel + staff),
		},
		Steps: steps,
	}
}
