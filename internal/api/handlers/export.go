package handlers

import (
	"bytes"
	"fleet-dashboard/internal/services"
	"net/http"
	"strconv"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	Service *services.ExportService
}

// Deliveries sends the deliveries workbook as an attachment. The workbook
// is built in memory so failures still produce a JSON error.
func (h *ExportHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.Write(r.Context(), &buf); err != nil {
		writeServiceError(w, r, "export deliveries", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
