package handlers

import (
	"fleet-dashboard/internal/api/dto"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/services"
	"net/http"
)

// DeliveryHandler exposes delivery CRUD under /api/entregas.
type DeliveryHandler struct {
	Service *services.FleetService
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.Service.ListDeliveries(r.Context())
	if err != nil {
		writeServiceError(w, r, "list deliveries", err)
		return
	}
	if deliveries == nil {
		deliveries = []*domain.Delivery{}
	}
	writeJSON(w, r, http.StatusOK, deliveries)
}

func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.Service.GetDelivery(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get delivery", err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.DeliveryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := h.Service.CreateDelivery(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "create delivery", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, d)
}

func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.DeliveryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := h.Service.UpdateDelivery(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, "update delivery", err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteDelivery(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete delivery", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.DeleteResponse{Success: true})
}
