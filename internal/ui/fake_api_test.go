package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"sync"
	"time"
)

var errBackend = errors.New("backend down")

// fakeAPI records calls by name and serves canned data.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
	order []string

	places     map[string]domain.GeocodeResult
	route      domain.RouteResult
	routeErr   error
	routeGate  chan struct{}
	listGate   chan struct{}
	vehicles   []domain.Vehicle
	deliveries []domain.Delivery
	stats      domain.DashboardStats
	statsErr   error
	charts     domain.DashboardCharts
	chartsErr  error
	settings   domain.Settings
	saveErr    error
	lastInput  any
	events     chan domain.ChangeEvent
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls: map[string]int{},
		places: map[string]domain.GeocodeResult{
			"Av. Paulista, 1000": {Coordinates: domain.Coordinates{Lat: -23.5614, Lon: -46.6559}},
			"Rua Augusta, 500":   {Coordinates: domain.Coordinates{Lat: -23.5535, Lon: -46.6562}},
		},
		route: domain.RouteResult{
			Success:     true,
			DistanceKm:  3.2,
			DurationMin: 9.5,
			Geometry: domain.LineString{Type: "LineString", Coordinates: [][2]float64{
				{-46.6559, -23.5614}, {-46.6562, -23.5535},
			}},
			RouteCosts: domain.RouteCosts{Fuel: 2.32, Staff: 3.96, Total: 6.28},
		},
		vehicles: []domain.Vehicle{{ID: 1, Plate: "ABC1234", Type: domain.VehicleVan, CapacityKg: 1500, KmPerLiter: 10, Status: domain.VehicleAvailable}},
		settings: domain.Settings{FuelPrice: 5.8, StaffPerHour: 25},
		stats:    domain.DashboardStats{TotalVehicles: 3, DeliveriesToday: 4, Efficiency: 50, PendingDeliveries: 2},
		charts: domain.DashboardCharts{Mileage: domain.Series{
			Labels: []string{"09/03", "10/03"},
			Data:   []float64{12.5, 15},
		}},
		events: make(chan domain.ChangeEvent, 4),
	}
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.order = append(f.order, name)
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) sequence() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...)
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) Geocode(_ context.Context, address string) (domain.GeocodeResult, error) {
	f.hit("Geocode")
	r, ok := f.places[address]
	if !ok {
		return domain.GeocodeResult{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeAPI) CalculateRoute(_ context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	f.hit("CalculateRoute")
	if f.routeGate != nil {
		<-f.routeGate
	}
	f.mu.Lock()
	f.lastInput = req
	f.mu.Unlock()
	return f.route, f.routeErr
}

func (f *fakeAPI) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	f.hit("ListVehicles")
	if f.listGate != nil {
		<-f.listGate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.vehicles, nil
}

func (f *fakeAPI) GetVehicle(_ context.Context, id int64) (domain.Vehicle, error) {
	f.hit("GetVehicle")
	for _, v := range f.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Vehicle{}, domain.ErrNotFound
}

func (f *fakeAPI) CreateVehicle(_ context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	f.hit("CreateVehicle")
	f.lastInput = in
	return *domain.NewVehicle(in), nil
}

func (f *fakeAPI) UpdateVehicle(_ context.Context, id int64, in domain.VehicleInput) (domain.Vehicle, error) {
	f.hit("UpdateVehicle")
	f.lastInput = in
	v := domain.NewVehicle(in)
	v.ID = id
	return *v, nil
}

func (f *fakeAPI) DeleteVehicle(context.Context, int64) error {
	f.hit("DeleteVehicle")
	return nil
}

func (f *fakeAPI) ListDeliveries(context.Context) ([]domain.Delivery, error) {
	f.hit("ListDeliveries")
	return f.deliveries, nil
}

func (f *fakeAPI) GetDelivery(_ context.Context, id int64) (domain.Delivery, error) {
	f.hit("GetDelivery")
	for _, d := range f.deliveries {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.Delivery{}, domain.ErrNotFound
}

func (f *fakeAPI) CreateDelivery(_ context.Context, in domain.DeliveryInput) (domain.Delivery, error) {
	f.hit("CreateDelivery")
	f.lastInput = in
	return *domain.NewDelivery(in), nil
}

func (f *fakeAPI) UpdateDelivery(_ context.Context, id int64, in domain.DeliveryInput) (domain.Delivery, error) {
	f.hit("UpdateDelivery")
	f.lastInput = in
	d := domain.NewDelivery(in)
	d.ID = id
	return *d, nil
}

func (f *fakeAPI) DeleteDelivery(context.Context, int64) error {
	f.hit("DeleteDelivery")
	return nil
}

func (f *fakeAPI) DashboardStats(context.Context) (domain.DashboardStats, error) {
	f.hit("DashboardStats")
	return f.stats, f.statsErr
}

func (f *fakeAPI) DashboardCharts(context.Context) (domain.DashboardCharts, error) {
	f.hit("DashboardCharts")
	return f.charts, f.chartsErr
}

func (f *fakeAPI) GetSettings(context.Context) (domain.Settings, error) {
	f.hit("GetSettings")
	return f.settings, nil
}

func (f *fakeAPI) SaveSettings(_ context.Context, in domain.SettingsInput) (domain.Settings, error) {
	f.hit("SaveSettings")
	f.lastInput = in
	if f.saveErr != nil {
		return domain.Settings{}, f.saveErr
	}
	if in.FuelPrice != nil {
		v, _ := in.FuelPrice.Float()
		f.settings.FuelPrice = v
	}
	return f.settings, nil
}

func (f *fakeAPI) Events(context.Context) (<-chan domain.ChangeEvent, error) {
	f.hit("Events")
	return f.events, nil
}

// recordingTable remembers the last rendered rows per list.
type recordingTable struct {
	mu   sync.Mutex
	rows map[string][][]string
	hdrs map[string][]string
}

func newRecordingTable() *recordingTable {
	return &recordingTable{rows: map[string][][]string{}, hdrs: map[string][]string{}}
}

func (t *recordingTable) RenderTable(name string, headers []string, rows [][]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hdrs[name] = headers
	t.rows[name] = rows
}

type fakeChart struct {
	destroyed bool
}

func (c *fakeChart) Destroy() { c.destroyed = true }

type fakeCharts struct {
	made []*fakeChart
}

func (r *fakeCharts) NewBarChart(string, domain.Series) (Chart, error) {
	c := &fakeChart{}
	r.made = append(r.made, c)
	return c, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 14, 7, 42, 0, time.Local)
}
