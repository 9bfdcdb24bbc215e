package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type Options struct {
	API     API
	Storage Storage
	Map     MapWidget
	Charts  ChartRenderer
	Tables  TableRenderer
	Cards   CardRenderer
	Confirm Confirmer
	// OnNotify receives every notification and nil on dismissal.
	OnNotify func(*Notification)
	Now      func() time.Time
	Log      logrus.FieldLogger
}

// App wires the controllers of the dashboard around one backend.
type App struct {
	View       *ViewState
	Notifier   *Notifier
	Map        *MapView
	Routes     *RouteController
	Vehicles   *VehicleController
	Deliveries *DeliveryController
	Dashboard  *DashboardController
	Settings   *SettingsController

	api API
	log logrus.FieldLogger
}

func New(opts Options) (*App, error) {
	if opts.API == nil {
		return nil, errors.New("ui: API is required")
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Map == nil {
		opts.Map = NewGeoJSONCanvas()
	}
	// Without a way to ask, deletes are declined.
	if opts.Confirm == nil {
		opts.Confirm = ConfirmFunc(func(string) bool { return false })
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	notify := NewNotifier(opts.OnNotify)
	mapv := NewMapView(opts.Map)

	return &App{
		View:       NewViewState(opts.Storage),
		Notifier:   notify,
		Map:        mapv,
		Routes:     NewRouteController(opts.API, mapv, notify),
		Vehicles:   NewVehicleController(opts.API, notify, opts.Tables, opts.Confirm),
		Deliveries: NewDeliveryController(opts.API, notify, opts.Tables, opts.Confirm, opts.Now),
		Dashboard:  NewDashboardController(opts.API, notify, opts.Cards, opts.Charts),
		Settings:   NewSettingsController(opts.API, notify),
		api:        opts.API,
		log:        opts.Log,
	}, nil
}

// Init restores the view state, draws the map and loads the dashboard,
// vehicles and deliveries in that order. A failed load is reported but does
// not stop the ones after it.
func (a *App) Init(ctx context.Context) error {
	theme := a.View.LoadTheme()
	section := a.View.LoadNavigation()
	a.Map.Init()
	a.log.WithFields(logrus.Fields{"theme": theme, "section": section}).Debug("view restored")

	return errors.Join(
		a.Dashboard.Load(ctx),
		a.Vehicles.Load(ctx),
		a.Deliveries.Load(ctx),
	)
}

// Watch follows the backend change feed and reloads the affected views
// until ctx is cancelled or the feed closes.
func (a *App) Watch(ctx context.Context) error {
	events, err := a.api.Events(ctx)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if err := a.apply(ctx, evt); err != nil {
				a.log.WithError(err).WithField("event", evt.Type).Warn("refresh after change failed")
			}
		}
	}
}

func (a *App) apply(ctx context.Context, evt domain.ChangeEvent) error {
	switch evt.Type {
	case domain.EventVehicleChanged, domain.EventVehicleDeleted:
		return errors.Join(a.Vehicles.Load(ctx), a.Dashboard.Load(ctx))
	case domain.EventDeliveryChanged, domain.EventDeliveryDeleted:
		return errors.Join(a.Deliveries.Load(ctx), a.Dashboard.Load(ctx))
	case domain.EventRouteCalculated:
		return a.Dashboard.Load(ctx)
	case domain.EventSettingsChanged:
		return a.Settings.Load(ctx)
	}
	return nil
}

// Close tears down the chart, the map layers and any pending notification.
func (a *App) Close() {
	a.Dashboard.Close()
	a.Map.Close()
	a.Notifier.Dismiss()
}
