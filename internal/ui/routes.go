package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	msgMissingAddress = "Por favor, preencha origem e destino"
	msgCalculating    = "Calculando rota..."
	msgRouteOK        = "Rota calculada com sucesso!"
	msgRouteFailed    = "Erro ao calcular rota: "
)

// ErrMissingAddress is returned when origin or destination is blank.
var ErrMissingAddress = errors.New("origin and destination are required")

type RouteForm struct {
	Origin      string
	Destination string
	VehicleID   *int64
}

// RoutePanel is the results box shown under the route form.
type RoutePanel struct {
	Visible   bool
	Distance  string
	Duration  string
	FuelCost  string
	StaffCost string
	TotalCost string
	Steps     []domain.RouteStep
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

func panelFor(r domain.RouteResult) RoutePanel {
	return RoutePanel{
		Visible:   true,
		Distance:  formatNumber(r.DistanceKm) + " km",
		Duration:  formatNumber(r.DurationMin) + " min",
		FuelCost:  formatMoney(r.Fuel),
		StaffCost: formatMoney(r.Staff),
		TotalCost: formatMoney(r.Total),
		Steps:     r.Steps,
	}
}

type RouteController struct {
	api    RouteAPI
	mapv   *MapView
	notify *Notifier
	guard  inflight

	mu     sync.RWMutex
	panel  RoutePanel
	result *domain.RouteResult
}

func NewRouteController(api RouteAPI, mapv *MapView, notify *Notifier) *RouteController {
	return &RouteController{api: api, mapv: mapv, notify: notify}
}

// CalculateRoute geocodes both addresses in order, asks the backend for the
// route and, only when everything succeeded, draws it and fills the panel.
func (c *RouteController) CalculateRoute(ctx context.Context, form RouteForm) error {
	origin := strings.TrimSpace(form.Origin)
	dest := strings.TrimSpace(form.Destination)
	if origin == "" || dest == "" {
		c.notify.Error(msgMissingAddress)
		return ErrMissingAddress
	}

	return c.guard.run(c.notify, func() error {
		c.notify.Info(msgCalculating)

		res, err := c.calculate(ctx, origin, dest, form.VehicleID)
		if err != nil {
			c.notify.Error(msgRouteFailed + err.Error())
			return err
		}

		c.mu.Lock()
		c.panel = panelFor(res)
		c.result = &res
		c.mu.Unlock()

		c.notify.Success(msgRouteOK)
		return nil
	})
}

func (c *RouteController) calculate(ctx context.Context, origin, dest string, vehicleID *int64) (domain.RouteResult, error) {
	from, err := c.api.Geocode(ctx, origin)
	if err != nil {
		return domain.RouteResult{}, err
	}
	to, err := c.api.Geocode(ctx, dest)
	if err != nil {
		return domain.RouteResult{}, err
	}

	res, err := c.api.CalculateRoute(ctx, domain.RouteRequest{
		Waypoints: domain.Waypoints{from.Pair(), to.Pair()},
		VehicleID: vehicleID,
	})
	if err != nil {
		return domain.RouteResult{}, err
	}
	if !res.Success {
		return domain.RouteResult{}, errors.New("route calculation failed")
	}

	if err := c.mapv.ShowRoute(res.Geometry); err != nil {
		return domain.RouteResult{}, err
	}
	return res, nil
}

func (c *RouteController) Panel() RoutePanel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.panel
}

// Result returns the last successful route.
func (c *RouteController) Result() (domain.RouteResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.result == nil {
		return domain.RouteResult{}, false
	}
	return *c.result, true
}
