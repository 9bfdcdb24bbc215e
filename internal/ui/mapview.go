package ui

import (
	"fleet-dashboard/internal/domain"
	"fmt"
	"sync"
)

type LayerID int

type Style struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// RouteStyle is the stroke used for the route overlay.
var RouteStyle = Style{Color: "#3498db", Weight: 6, Opacity: 0.8}

// MapWidget is the slippy-map surface the dashboard draws on.
type MapWidget interface {
	SetView(center domain.Coordinates, zoom int)
	AddMarker(at domain.Coordinates, title string) LayerID
	// AddGeometry draws a line and returns its layer and bounds.
	AddGeometry(g domain.LineString, style Style) (LayerID, domain.Bounds, error)
	RemoveLayer(id LayerID)
	FitBounds(b domain.Bounds)
}

var (
	DefaultCenter = domain.Coordinates{Lat: -23.5505, Lon: -46.6333}
	DefaultZoom   = 13
)

type marker struct {
	at    domain.Coordinates
	title string
}

var sampleMarkers = []marker{
	{domain.Coordinates{Lat: -23.5505, Lon: -46.6333}, "Centro"},
	{domain.Coordinates{Lat: -23.5635, Lon: -46.6533}, "Zona Sul"},
	{domain.Coordinates{Lat: -23.5405, Lon: -46.6433}, "Zona Leste"},
}

// MapView owns the widget's markers and at most one route layer.
type MapView struct {
	mu       sync.Mutex
	widget   MapWidget
	markers  []LayerID
	route    LayerID
	hasRoute bool
}

func NewMapView(w MapWidget) *MapView {
	return &MapView{widget: w}
}

// Init centers the map on São Paulo and places the sample markers.
func (m *MapView) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.widget.SetView(DefaultCenter, DefaultZoom)
	for _, mk := range sampleMarkers {
		m.markers = append(m.markers, m.widget.AddMarker(mk.at, mk.title))
	}
}

// ShowRoute replaces the current route overlay with g and zooms to it. When
// g cannot be drawn the previous overlay stays on the map.
func (m *MapView) ShowRoute(g domain.LineString) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, bounds, err := m.widget.AddGeometry(g, RouteStyle)
	if err != nil {
		return fmt.Errorf("show route: %w", err)
	}
	if m.hasRoute {
		m.widget.RemoveLayer(m.route)
	}
	m.route, m.hasRoute = id, true
	m.widget.FitBounds(bounds)
	return nil
}

func (m *MapView) ClearRoute() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasRoute {
		m.widget.RemoveLayer(m.route)
		m.hasRoute = false
	}
}

func (m *MapView) RouteLayer() (LayerID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.route, m.hasRoute
}

// Close removes every layer this view added.
func (m *MapView) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasRoute {
		m.widget.RemoveLayer(m.route)
		m.hasRoute = false
	}
	for _, id := range m.markers {
		m.widget.RemoveLayer(id)
	}
	m.markers = nil
}
