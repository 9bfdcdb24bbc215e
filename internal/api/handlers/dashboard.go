package handlers

import (
	"fleet-dashboard/internal/services"
	"net/http"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, "dashboard stats", err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.Service.Charts(r.Context())
	if err != nil {
		writeServiceError(w, r, "dashboard charts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, charts)
}
