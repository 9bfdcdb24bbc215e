package handlers

import (
	"errors"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/services"
	"net/http"
	"strconv"
)

type RouteHandler struct {
	Service *services.RouteService
}

// Calculate prices a route through the posted waypoints and records it.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if len(req.Waypoints) < domain.MinWaypoints {
		writeError(w, r, http.StatusBadRequest, "São necessários pelo menos 2 pontos")
		return
	}

	res, err := h.Service.Calculate(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, res)
	case errors.Is(err, services.ErrNoRoute):
		writeError(w, r, http.StatusBadRequest, "Não foi possível calcular a rota")
	case domain.IsValidation(err):
		writeServiceError(w, r, "calculate route", err)
	default:
		writeUpstreamError(w, r, "calculate route", err)
	}
}

// History lists saved routes, newest first; ?limit= caps the count.
func (h *RouteHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	routes, err := h.Service.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "list routes", err)
		return
	}
	if routes == nil {
		routes = []*domain.SavedRoute{}
	}
	writeJSON(w, r, http.StatusOK, routes)
}
