package api

import (
	"fleet-dashboard/internal/api/handlers"
	"fleet-dashboard/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps are the services the HTTP API is composed from.
type Deps struct {
	Geocode   *services.GeocodeService
	Routes    *services.RouteService
	Fleet     *services.FleetService
	Dashboard *services.DashboardService
	Settings  *services.SettingsService
	Export    *services.ExportService
	// Events serves the websocket change feed; nil disables the endpoint.
	Events http.Handler
	// Metrics is the registry exposed on /metrics; nil disables it.
	Metrics *prometheus.Registry
	Log     logrus.FieldLogger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	geocode := &handlers.GeocodeHandler{Service: d.Geocode}
	routes := &handlers.RouteHandler{Service: d.Routes}
	vehicles := &handlers.VehicleHandler{Service: d.Fleet}
	deliveries := &handlers.DeliveryHandler{Service: d.Fleet}
	dashboard := &handlers.DashboardHandler{Service: d.Dashboard}
	settings := &handlers.SettingsHandler{Service: d.Settings}
	export := &handlers.ExportHandler{Service: d.Export}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /api/geocode", geocode.Geocode)
	mux.HandleFunc("POST /api/calculate-route", routes.Calculate)
	mux.HandleFunc("GET /api/routes", routes.History)

	mux.HandleFunc("GET /api/dashboard/stats", dashboard.Stats)
	mux.HandleFunc("GET /api/dashboard/charts", dashboard.Charts)

	mux.HandleFunc("GET /api/veiculos", vehicles.List)
	mux.HandleFunc("POST /api/veiculos", vehicles.Create)
	mux.HandleFunc("GET /api/veiculos/{id}", vehicles.Get)
	mux.HandleFunc("PUT /api/veiculos/{id}", vehicles.Update)
	mux.HandleFunc("DELETE /api/veiculos/{id}", vehicles.Delete)

	mux.HandleFunc("GET /api/entregas", deliveries.List)
	mux.HandleFunc("POST /api/entregas", deliveries.Create)
	mux.HandleFunc("GET /api/entregas/export", export.Deliveries)
	mux.HandleFunc("GET /api/entregas/{id}", deliveries.Get)
	mux.HandleFunc("PUT /api/entregas/{id}", deliveries.Update)
	mux.HandleFunc("DELETE /api/entregas/{id}", deliveries.Delete)

	mux.HandleFunc("GET /api/configuracoes", settings.Get)
	mux.HandleFunc("POST /api/configuracoes", settings.Save)

	if d.Events != nil {
		mux.Handle("GET /api/events", d.Events)
	}
	if d.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	// The logging middleware must receive the request the mux matches on so
	// it can read r.Pattern afterwards.
	var h http.Handler = mux
	h = middleware.Recoverer(h)
	h = loggingMiddleware(d.Log, h)
	h = requestIDMiddleware(h)
	h = middleware.RealIP(h)
	return h
}
