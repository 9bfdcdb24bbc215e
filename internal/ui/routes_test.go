package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"strings"
	"testing"
	"time"
)

func newRouteFixture() (*fakeAPI, *GeoJSONCanvas, *RouteController, *Notifier) {
	api := newFakeAPI()
	canvas := NewGeoJSONCanvas()
	notify := NewNotifier(nil)
	return api, canvas, NewRouteController(api, NewMapView(canvas), notify), notify
}

func TestCalculateRouteRequiresBothAddresses(t *testing.T) {
	api, _, c, notify := newRouteFixture()

	for _, form := range []RouteForm{
		{Origin: "", Destination: "Rua Augusta, 500"},
		{Origin: "Av. Paulista, 1000", Destination: "   "},
	} {
		err := c.CalculateRoute(context.Background(), form)
		if !errors.Is(err, ErrMissingAddress) {
			t.Fatalf("expected ErrMissingAddress, got %v", err)
		}
	}
	if n := api.total(); n != 0 {
		t.Fatalf("expected no backend calls, got %d", n)
	}
	note, _ := notify.Current()
	if note.Kind != NotifyError || note.Message != msgMissingAddress {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestCalculateRouteFillsPanelAndMap(t *testing.T) {
	api, canvas, c, notify := newRouteFixture()

	err := c.CalculateRoute(context.Background(), RouteForm{
		Origin:      " Av. Paulista, 1000 ",
		Destination: "Rua Augusta, 500",
	})
	if err != nil {
		t.Fatalf("CalculateRoute: %v", err)
	}

	if got := api.sequence(); strings.Join(got, ",") != "Geocode,Geocode,CalculateRoute" {
		t.Fatalf("unexpected call order: %v", got)
	}
	panel := c.Panel()
	if !panel.Visible || panel.Distance != "3.2 km" || panel.Duration != "9.5 min" {
		t.Fatalf("unexpected panel: %+v", panel)
	}
	if panel.FuelCost != "R$ 2.32" || panel.StaffCost != "R$ 3.96" || panel.TotalCost != "R$ 6.28" {
		t.Fatalf("unexpected costs: %+v", panel)
	}
	if canvas.Layers() != 1 {
		t.Fatalf("expected one route layer, got %d", canvas.Layers())
	}
	note, _ := notify.Current()
	if note.Kind != NotifySuccess || note.Message != msgRouteOK {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestSecondRouteReplacesOverlay(t *testing.T) {
	_, canvas, c, _ := newRouteFixture()
	form := RouteForm{Origin: "Av. Paulista, 1000", Destination: "Rua Augusta, 500"}

	if err := c.CalculateRoute(context.Background(), form); err != nil {
		t.Fatalf("first route: %v", err)
	}
	first, _ := c.mapv.RouteLayer()
	if err := c.CalculateRoute(context.Background(), form); err != nil {
		t.Fatalf("second route: %v", err)
	}
	second, ok := c.mapv.RouteLayer()
	if !ok || second == first {
		t.Fatalf("expected a new route layer, got %d (first %d)", second, first)
	}
	if canvas.Layers() != 1 {
		t.Fatalf("expected exactly one overlay, got %d", canvas.Layers())
	}
}

func TestFailedRouteLeavesPreviousResult(t *testing.T) {
	api, canvas, c, notify := newRouteFixture()

	if err := c.CalculateRoute(context.Background(), RouteForm{Origin: "Av. Paulista, 1000", Destination: "Rua Augusta, 500"}); err != nil {
		t.Fatalf("CalculateRoute: %v", err)
	}
	panel := c.Panel()
	layer, _ := c.mapv.RouteLayer()

	err := c.CalculateRoute(context.Background(), RouteForm{Origin: "Av. Paulista, 1000", Destination: "Lugar Nenhum"})
	if err == nil {
		t.Fatal("expected geocode failure")
	}
	if api.count("CalculateRoute") != 1 {
		t.Fatalf("route must not be requested after a geocode failure")
	}
	if c.Panel().Distance != panel.Distance {
		t.Fatalf("panel changed after failure")
	}
	if l, _ := c.mapv.RouteLayer(); l != layer || canvas.Layers() != 1 {
		t.Fatalf("map changed after failure")
	}
	note, _ := notify.Current()
	if note.Kind != NotifyError || !strings.HasPrefix(note.Message, msgRouteFailed) {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestFailedBackendRouteKeepsPanelHidden(t *testing.T) {
	api, canvas, c, _ := newRouteFixture()
	api.routeErr = errBackend

	err := c.CalculateRoute(context.Background(), RouteForm{Origin: "Av. Paulista, 1000", Destination: "Rua Augusta, 500"})
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if c.Panel().Visible || canvas.Layers() != 0 {
		t.Fatal("nothing should be shown after a failed route")
	}
	if _, ok := c.Result(); ok {
		t.Fatal("no result expected")
	}
}

func TestConcurrentRouteIsRejected(t *testing.T) {
	api, _, c, notify := newRouteFixture()
	api.routeGate = make(chan struct{})
	form := RouteForm{Origin: "Av. Paulista, 1000", Destination: "Rua Augusta, 500"}

	done := make(chan error, 1)
	go func() { done <- c.CalculateRoute(context.Background(), form) }()

	deadline := time.Now().Add(2 * time.Second)
	for api.count("CalculateRoute") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first calculation never reached the backend")
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.CalculateRoute(context.Background(), form); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	note, _ := notify.Current()
	if note.Message != busyMessage {
		t.Fatalf("unexpected notification: %+v", note)
	}

	close(api.routeGate)
	if err := <-done; err != nil {
		t.Fatalf("first calculation: %v", err)
	}
	if api.count("CalculateRoute") != 1 {
		t.Fatalf("expected a single route request, got %d", api.count("CalculateRoute"))
	}
}

func TestUndrawableRouteKeepsPreviousOverlayAndPanel(t *testing.T) {
	api, canvas, c, notify := newRouteFixture()
	form := RouteForm{Origin: "Av. Paulista, 1000", Destination: "Rua Augusta, 500"}

	if err := c.CalculateRoute(context.Background(), form); err != nil {
		t.Fatalf("CalculateRoute: %v", err)
	}
	layer, _ := c.mapv.RouteLayer()
	panel := c.Panel()

	api.route.Geometry = domain.LineString{Type: "LineString"}
	api.route.DistanceKm = 99
	if err := c.CalculateRoute(context.Background(), form); err == nil {
		t.Fatal("expected draw failure")
	}

	if l, ok := c.mapv.RouteLayer(); !ok || l != layer {
		t.Fatalf("route layer changed: %d %v (was %d)", l, ok, layer)
	}
	if canvas.Layers() != 1 {
		t.Fatalf("expected the previous overlay to stay, got %d layers", canvas.Layers())
	}
	if got := c.Panel(); got.Distance != panel.Distance || got.TotalCost != panel.TotalCost {
		t.Fatalf("panel changed: %+v", got)
	}
	if res, _ := c.Result(); res.DistanceKm != 3.2 {
		t.Fatalf("result changed: %+v", res)
	}
	if note, _ := notify.Current(); note.Kind != NotifyError {
		t.Fatalf("unexpected notification: %+v", note)
	}
}
