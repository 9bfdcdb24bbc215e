package domain

import (
	"fmt"
	"time"
)

const (
	// DefaultKmPerLiter is the fleet average used when a route is not tied to a vehicle.
	DefaultKmPerLiter = 8.0
	MinWaypoints      = 2
)

// LineString is a GeoJSON LineString geometry with [lon, lat] positions.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Points returns the geometry as coordinates.
func (l LineString) Points() []Coordinates {
	out := make([]Coordinates, 0, len(l.Coordinates))
	for _, c := range l.Coordinates {
		out = append(out, Coordinates{Lon: c[0], Lat: c[1]})
	}
	return out
}

// Waypoints is an ordered list of [lat, lon] pairs, origin first.
type Waypoints [][2]float64

func (w Waypoints) Validate() error {
	ve := &ValidationError{}
	if len(w) < MinWaypoints {
		ve.add("waypoints", "at least %d points are required", MinWaypoints)
	}
	for i, p := range w {
		if err := CoordinatesFromPair(p).Validate(); err != nil {
			ve.add(fmt.Sprintf("waypoints[%d]", i), "%v", err)
		}
	}
	return ve.orNil()
}

func (w Waypoints) Coordinates() []Coordinates {
	out := make([]Coordinates, 0, len(w))
	for _, p := range w {
		out = append(out, CoordinatesFromPair(p))
	}
	return out
}

// RoutePath is what a routing engine returns before any costing.
type RoutePath struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        LineString
	Steps           []PathStep
}

type PathStep struct {
	Name            string
	DistanceMeters  float64
	DurationSeconds float64
}

// RouteStep is a single turn instruction in display units.
type RouteStep struct {
	Instruction string  `json:"instruction"`
	DistanceKm  float64 `json:"distance"`
	DurationMin float64 `json:"duration"`
}

// RouteCosts is the cost breakdown of a route.
type RouteCosts struct {
	Fuel  float64 `json:"custo_combustivel"`
	Staff float64 `json:"custo_funcionario"`
	Total float64 `json:"custo_total"`
}

// RouteResult is a computed route with its cost breakdown. It is transient
// on the dashboard side.
type RouteResult struct {
	Success     bool       `json:"success"`
	DistanceKm  float64    `json:"distance"`
	DurationMin float64    `json:"duration"`
	Geometry    LineString `json:"geometry"`
	RouteCosts
	Steps   []RouteStep `json:"steps"`
	RouteID int64       `json:"route_id,omitempty"`
}

// SavedRoute is a route kept in history for reporting.
type SavedRoute struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	VehicleID   *int64    `json:"veiculo_id"`
	Waypoints   Waypoints `json:"waypoints"`
	DistanceKm  float64   `json:"distancia"`
	DurationMin float64   `json:"tempo_estimado"`
	RouteCosts
	CreatedAt time.Time `json:"created_at"`
}

// RouteRequest asks for a route through Waypoints, optionally costed with a
// specific vehicle's consumption and hourly cost.
type RouteRequest struct {
	Waypoints Waypoints `json:"waypoints"`
	VehicleID *int64    `json:"veiculo_id,omitempty"`
	Name      string    `json:"nome,omitempty"`
}
