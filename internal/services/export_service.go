package services

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/ports"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const (
	exportSheet    = "Entregas"
	ExportFileName = "entregas.xlsx"
)

var exportHeader = []any{
	"ID", "Cliente", "Endereço", "Peso (kg)", "Volume (m³)",
	"Prazo", "Status", "Prioridade", "Observações", "Veículo",
}

// ExportService builds the deliveries spreadsheet.
type ExportService struct {
	Deliveries ports.DeliveryRepository
	Vehicles   ports.VehicleRepository
	// Directory where WriteFile keeps a copy; empty disables it.
	Dir string
}

func (s *ExportService) workbook(ctx context.Context) (*excelize.File, error) {
	deliveries, err := s.Deliveries.ListDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("export deliveries: %w", err)
	}
	vehicles, err := s.Vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("export deliveries: %w", err)
	}
	plates := make(map[int64]string, len(vehicles))
	for _, v := range vehicles {
		plates[v.ID] = v.Plate
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("export deliveries: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("export deliveries: header: %w", err)
	}

	for i, d := range deliveries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("export deliveries: %w", err)
		}
		row := deliveryRow(d, plates)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("export deliveries: row %d: %w", d.ID, err)
		}
	}

	return f, nil
}

func deliveryRow(d *domain.Delivery, plates map[int64]string) []any {
	vehicle := "N/A"
	if d.VehicleID != nil {
		if p, ok := plates[*d.VehicleID]; ok {
			vehicle = p
		}
	}
	deadline := ""
	if !d.Deadline.IsZero() {
		deadline = d.Deadline.Format("02/01/2006 15:04")
	}
	return []any{
		d.ID, d.Client, d.Address, d.WeightKg, d.VolumeM3,
		deadline, string(d.Status), string(d.Priority), d.Notes, vehicle,
	}
}

// Write streams the workbook to w.
func (s *ExportService) Write(ctx context.Context, w io.Writer) error {
	f, err := s.workbook(ctx)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export deliveries: write: %w", err)
	}
	return nil
}

// WriteFile saves the workbook under Dir and returns its path.
func (s *ExportService) WriteFile(ctx context.Context) (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("export deliveries: no export directory configured")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("export deliveries: %w", err)
	}

	f, err := s.workbook(ctx)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(s.Dir, ExportFileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export deliveries: save %s: %w", path, err)
	}
	return path, nil
}
