package handlers

import (
	"encoding/json"
	"errors"
	"fleet-dashboard/internal/api/dto"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/obs"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).WithError(err).Warn("encode response failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// writeServiceError maps domain errors to statuses; anything else is a 500
// and is logged.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{Error: ve.Error(), Fields: ve.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "registro não encontrado")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, r, http.StatusConflict, "registro duplicado")
	default:
		obs.Logger(r.Context()).WithError(err).Errorf("%s failed", op)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// writeUpstreamError reports a failed call to an external geo service.
func writeUpstreamError(w http.ResponseWriter, r *http.Request, op string, err error) {
	obs.Logger(r.Context()).WithError(err).Errorf("%s upstream failed", op)
	writeError(w, r, http.StatusBadGateway, "serviço externo indisponível")
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json body: %v", err))
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
