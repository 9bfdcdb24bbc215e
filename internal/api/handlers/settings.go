package handlers

import (
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/services"
	"net/http"
)

type SettingsHandler struct {
	Service *services.SettingsService
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, "get settings", err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

// Save accepts amounts as numbers or numeric strings.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in domain.SettingsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	s, err := h.Service.Save(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "save settings", err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}
