package domain

import "fmt"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Return coordinates as [lon, lat] for GeoJSON and OSRM compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as the [lat, lon] pair used by the dashboard API.
func (c Coordinates) Pair() [2]float64 { return [2]float64{c.Lat, c.Lon} }

// Validate reports whether the coordinates lie on the globe.
func (c Coordinates) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range", c.Lon)
	}
	return nil
}

// CoordinatesFromPair converts an API [lat, lon] waypoint.
func CoordinatesFromPair(p [2]float64) Coordinates {
	return Coordinates{Lat: p[0], Lon: p[1]}
}

// GeocodeResult is a resolved free-text address.
type GeocodeResult struct {
	Coordinates
	DisplayName string `json:"display_name"`
}

// Bounds is the bounding box of a set of points.
type Bounds struct {
	SouthWest Coordinates
	NorthEast Coordinates
}

// Extend grows the box to include c. The zero Bounds is treated as empty
// only through the ok flag kept by callers.
func (b Bounds) Extend(c Coordinates) Bounds {
	if c.Lat < b.SouthWest.Lat {
		b.SouthWest.Lat = c.Lat
	}
	if c.Lon < b.SouthWest.Lon {
		b.SouthWest.Lon = c.Lon
	}
	if c.Lat > b.NorthEast.Lat {
		b.NorthEast.Lat = c.Lat
	}
	if c.Lon > b.NorthEast.Lon {
		b.NorthEast.Lon = c.Lon
	}
	return b
}

// BoundsOf returns the bounding box of points and false when points is empty.
func BoundsOf(points []Coordinates) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}
