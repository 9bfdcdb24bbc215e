package ui

import (
	"encoding/json"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
	"os"
	"sort"
	"sync"
)

type geoJSONGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	ID         LayerID         `json:"id"`
	Geometry   geoJSONGeometry `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
	BBox     []float64        `json:"bbox,omitempty"`
}

// GeoJSONCanvas is a MapWidget that keeps its layers as GeoJSON features,
// so the current map can be written out and opened in any GeoJSON viewer.
type GeoJSONCanvas struct {
	mu     sync.Mutex
	next   LayerID
	layers map[LayerID]geoJSONFeature
	center domain.Coordinates
	zoom   int
	view   domain.Bounds
	fitted bool
}

func NewGeoJSONCanvas() *GeoJSONCanvas {
	return &GeoJSONCanvas{layers: map[LayerID]geoJSONFeature{}}
}

func (c *GeoJSONCanvas) SetView(center domain.Coordinates, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center, c.zoom = center, zoom
}

func (c *GeoJSONCanvas) add(f geoJSONFeature) LayerID {
	c.next++
	f.ID = c.next
	c.layers[f.ID] = f
	return f.ID
}

func (c *GeoJSONCanvas) AddMarker(at domain.Coordinates, title string) LayerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.add(geoJSONFeature{
		Type:       "Feature",
		Geometry:   geoJSONGeometry{Type: "Point", Coordinates: at.CoordsToList()},
		Properties: map[string]any{"title": title},
	})
}

func (c *GeoJSONCanvas) AddGeometry(g domain.LineString, style Style) (LayerID, domain.Bounds, error) {
	bounds, ok := domain.BoundsOf(g.Points())
	if !ok {
		return 0, domain.Bounds{}, errors.New("geometry has no coordinates")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.add(geoJSONFeature{
		Type:     "Feature",
		Geometry: geoJSONGeometry{Type: "LineString", Coordinates: g.Coordinates},
		Properties: map[string]any{
			"stroke":         style.Color,
			"stroke-width":   style.Weight,
			"stroke-opacity": style.Opacity,
		},
	})
	return id, bounds, nil
}

func (c *GeoJSONCanvas) RemoveLayer(id LayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.layers, id)
}

func (c *GeoJSONCanvas) FitBounds(b domain.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view, c.fitted = b, true
}

// Layers returns the number of layers currently drawn.
func (c *GeoJSONCanvas) Layers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.layers)
}

func (c *GeoJSONCanvas) Center() (domain.Coordinates, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center, c.zoom
}

func (c *GeoJSONCanvas) collection() geoJSONCollection {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.layers))
	for id := range c.layers {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	fc := geoJSONCollection{Type: "FeatureCollection", Features: make([]geoJSONFeature, 0, len(ids))}
	for _, id := range ids {
		fc.Features = append(fc.Features, c.layers[LayerID(id)])
	}
	if c.fitted {
		fc.BBox = []float64{c.view.SouthWest.Lon, c.view.SouthWest.Lat, c.view.NorthEast.Lon, c.view.NorthEast.Lat}
	}
	return fc
}

// MarshalJSON renders the canvas as a FeatureCollection in layer order.
func (c *GeoJSONCanvas) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.collection())
}

func (c *GeoJSONCanvas) WriteFile(path string) error {
	b, err := json.MarshalIndent(c.collection(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write map %s: %w", path, err)
	}
	return nil
}
