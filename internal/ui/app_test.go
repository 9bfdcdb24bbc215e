package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"reflect"
	"testing"
	"time"
)

func TestNewRequiresAPI(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without API")
	}
}

func TestAppInitOrder(t *testing.T) {
	api := newFakeAPI()
	store := NewMemoryStorage()
	_ = store.Set(themeKey, "dark")
	_ = store.Set(sectionKey, string(SectionDeliveries))
	canvas := NewGeoJSONCanvas()

	app, err := New(Options{API: api, Storage: store, Map: canvas, Charts: &fakeCharts{}, Now: fixedNow})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Close()

	if err := app.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	want := []string{"DashboardStats", "DashboardCharts", "ListVehicles", "ListDeliveries"}
	if got := api.sequence(); !reflect.DeepEqual(got, want) {
		t.Fatalf("load order: got %v want %v", got, want)
	}
	if app.View.Theme() != ThemeDark || app.View.Active() != SectionDeliveries {
		t.Fatalf("view not restored: %s %s", app.View.Theme(), app.View.Active())
	}
	if canvas.Layers() != len(sampleMarkers) {
		t.Fatalf("map not initialised: %d layers", canvas.Layers())
	}
}

func TestAppInitContinuesAfterFailure(t *testing.T) {
	api := newFakeAPI()
	api.statsErr = errBackend
	api.chartsErr = errBackend

	app, err := New(Options{API: api})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := app.Init(context.Background()); err == nil {
		t.Fatal("expected dashboard error")
	}
	if api.count("ListVehicles") != 1 || api.count("ListDeliveries") != 1 {
		t.Fatalf("lists should still load: %v", api.sequence())
	}
}

func TestAppWatchReloadsAffectedViews(t *testing.T) {
	api := newFakeAPI()
	app, err := New(Options{API: api})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	api.events <- domain.NewChangeEvent(domain.EventVehicleChanged, 1)
	api.events <- domain.NewChangeEvent(domain.EventSettingsChanged, 0)
	close(api.events)

	done := make(chan error, 1)
	go func() { done <- app.Watch(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after the feed closed")
	}

	for name, want := range map[string]int{
		"ListVehicles":   1,
		"DashboardStats": 1,
		"GetSettings":    1,
		"ListDeliveries": 0,
	} {
		if got := api.count(name); got != want {
			t.Fatalf("%s: got %d calls want %d", name, got, want)
		}
	}
}

func TestAppWatchStopsOnCancel(t *testing.T) {
	api := newFakeAPI()
	app, _ := New(Options{API: api})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Watch(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch ignored cancellation")
	}
}

func TestAppDeclinesDeleteWithoutConfirmer(t *testing.T) {
	api := newFakeAPI()
	app, err := New(Options{API: api})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := app.Vehicles.Delete(context.Background(), 1); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if err := app.Deliveries.Delete(context.Background(), 1); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if api.total() != 0 {
		t.Fatalf("expected no calls, got %v", api.sequence())
	}
}
