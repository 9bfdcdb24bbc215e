package client

import (
	"context"
	"fleet-dashboard/internal/api/dto"
	"fleet-dashboard/internal/domain"
	"io"
	"net/http"
	"strconv"
)

func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	var out domain.GeocodeResult
	err := c.Do(ctx, http.MethodPost, "/api/geocode", dto.GeocodeRequest{Address: address}, &out)
	return out, err
}

// CalculateRoute posts waypoints as [[lat, lon], ...], origin first.
func (c *Client) CalculateRoute(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	var out domain.RouteResult
	err := c.Do(ctx, http.MethodPost, "/api/calculate-route", req, &out)
	return out, err
}

func (c *Client) RouteHistory(ctx context.Context, limit int) ([]domain.SavedRoute, error) {
	path := "/api/routes"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []domain.SavedRoute
	err := c.Do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	err := c.Do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &out)
	return out, err
}

func (c *Client) DashboardCharts(ctx context.Context) (domain.DashboardCharts, error) {
	var out domain.DashboardCharts
	err := c.Do(ctx, http.MethodGet, "/api/dashboard/charts", nil, &out)
	return out, err
}

func vehiclePath(id int64) string { return "/api/veiculos/" + strconv.FormatInt(id, 10) }

func (c *Client) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	err := c.Do(ctx, http.MethodGet, "/api/veiculos", nil, &out)
	return out, err
}

func (c *Client) GetVehicle(ctx context.Context, id int64) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.Do(ctx, http.MethodGet, vehiclePath(id), nil, &out)
	return out, err
}

func (c *Client) CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.Do(ctx, http.MethodPost, "/api/veiculos", in, &out)
	return out, err
}

func (c *Client) UpdateVehicle(ctx context.Context, id int64, in domain.VehicleInput) (domain.Vehicle, error) {
	var out domain.Vehicle
	err := c.Do(ctx, http.MethodPut, vehiclePath(id), in, &out)
	return out, err
}

func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, vehiclePath(id), nil, nil)
}

func deliveryPath(id int64) string { return "/api/entregas/" + strconv.FormatInt(id, 10) }

func (c *Client) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	var out []domain.Delivery
	err := c.Do(ctx, http.MethodGet, "/api/entregas", nil, &out)
	return out, err
}

func (c *Client) GetDelivery(ctx context.Context, id int64) (domain.Delivery, error) {
	var out domain.Delivery
	err := c.Do(ctx, http.MethodGet, deliveryPath(id), nil, &out)
	return out, err
}

func (c *Client) CreateDelivery(ctx context.Context, in domain.DeliveryInput) (domain.Delivery, error) {
	var out domain.Delivery
	err := c.Do(ctx, http.MethodPost, "/api/entregas", in, &out)
	return out, err
}

func (c *Client) UpdateDelivery(ctx context.Context, id int64, in domain.DeliveryInput) (domain.Delivery, error) {
	var out domain.Delivery
	err := c.Do(ctx, http.MethodPut, deliveryPath(id), in, &out)
	return out, err
}

func (c *Client) DeleteDelivery(ctx context.Context, id int64) error {
	return c.Do(ctx, http.MethodDelete, deliveryPath(id), nil, nil)
}

func (c *Client) GetSettings(ctx context.Context) (domain.Settings, error) {
	var out domain.Settings
	err := c.Do(ctx, http.MethodGet, "/api/configuracoes", nil, &out)
	return out, err
}

func (c *Client) SaveSettings(ctx context.Context, in domain.SettingsInput) (domain.Settings, error) {
	var out domain.Settings
	err := c.Do(ctx, http.MethodPost, "/api/configuracoes", in, &out)
	return out, err
}

// ExportDeliveries copies the XLSX workbook into w and returns its size.
func (c *Client) ExportDeliveries(ctx context.Context, w io.Writer) (int64, error) {
	const path = "/api/entregas/export"
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &Error{Kind: KindNetwork, Method: http.MethodGet, Path: path, Err: err}
	}
	return n, nil
}
