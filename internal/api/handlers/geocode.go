package handlers

import (
	"errors"
	"fleet-dashboard/internal/api/dto"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/services"
	"net/http"
)

type GeocodeHandler struct {
	Service *services.GeocodeService
}

func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req dto.GeocodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Service.Geocode(r.Context(), req.Address)
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, res)
	case domain.IsValidation(err):
		writeError(w, r, http.StatusBadRequest, "Endereço é obrigatório")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Endereço não encontrado")
	default:
		writeUpstreamError(w, r, "geocode", err)
	}
}
