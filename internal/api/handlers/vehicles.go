package handlers

import (
	"fleet-dashboard/internal/api/dto"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/services"
	"net/http"
)

// VehicleHandler exposes vehicle CRUD under /api/veiculos.
type VehicleHandler struct {
	Service *services.FleetService
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.ListVehicles(r.Context())
	if err != nil {
		writeServiceError(w, r, "list vehicles", err)
		return
	}
	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}
	writeJSON(w, r, http.StatusOK, vehicles)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.Service.GetVehicle(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get vehicle", err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.VehicleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := h.Service.CreateVehicle(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "create vehicle", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, v)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.VehicleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := h.Service.UpdateVehicle(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, "update vehicle", err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteVehicle(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete vehicle", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DeleteResponse{Success: true})
}
