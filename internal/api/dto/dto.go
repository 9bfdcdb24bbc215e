package dto

import "fleet-dashboard/internal/domain"

type GeocodeRequest struct {
	Address string `json:"endereco"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
