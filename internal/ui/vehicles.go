package ui

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

const (
	titleAddVehicle  = "Adicionar Veículo"
	titleEditVehicle = "Editar Veículo"
)

// VehicleForm mirrors the vehicle modal inputs.
type VehicleForm struct {
	Plate       string
	Type        string
	Model       string
	Capacity    string
	Consumption string
	HourlyCost  string
	Status      string
	Color       string
}

type VehicleModal struct {
	Visible bool
	Title   string
	// ID is set while editing an existing vehicle.
	ID   *int64
	Form VehicleForm
}

var vehicleHeaders = []string{"Placa", "Tipo", "Capacidade", "Consumo", "Status"}

func parseAmount(field, s string, ve *domain.ValidationError) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: field, Message: "is required"})
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		ve.Fields = append(ve.Fields, domain.FieldError{Field: field, Message: "must be a number"})
	}
	return f
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Input converts the form into a validated API payload.
func (f VehicleForm) Input() (domain.VehicleInput, error) {
	ve := &domain.ValidationError{}
	in := domain.VehicleInput{
		Plate:      f.Plate,
		Type:       domain.VehicleType(f.Type),
		Model:      optional(f.Model),
		CapacityKg: parseAmount("capacidade", f.Capacity, ve),
		KmPerLiter: parseAmount("consumo", f.Consumption, ve),
		Color:      optional(f.Color),
	}
	if s := optional(f.HourlyCost); s != nil {
		v := parseAmount("custo_hora", *s, ve)
		in.HourlyCost = &v
	}
	if s := optional(f.Status); s != nil {
		st := domain.VehicleStatus(*s)
		in.Status = &st
	}
	if len(ve.Fields) > 0 {
		return in, ve
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

func vehicleFormFrom(v domain.Vehicle) VehicleForm {
	return VehicleForm{
		Plate:       v.Plate,
		Type:        string(v.Type),
		Model:       v.Model,
		Capacity:    formatNumber(v.CapacityKg),
		Consumption: formatNumber(v.KmPerLiter),
		HourlyCost:  formatNumber(v.HourlyCost),
		Status:      string(v.Status),
		Color:       v.Color,
	}
}

func vehicleRow(v domain.Vehicle) []string {
	return []string{
		v.Plate,
		string(v.Type),
		formatNumber(v.CapacityKg) + " kg",
		formatNumber(v.KmPerLiter) + " km/l",
		string(v.Status),
	}
}

// VehicleController drives the vehicles list and its modal.
type VehicleController struct {
	api     VehicleAPI
	notify  *Notifier
	table   TableRenderer
	confirm Confirmer

	loads singleflight.Group
	guard inflight

	mu    sync.RWMutex
	rows  []domain.Vehicle
	modal VehicleModal
}

func NewVehicleController(api VehicleAPI, notify *Notifier, table TableRenderer, confirm Confirmer) *VehicleController {
	if table == nil {
		table = nopRenderer{}
	}
	return &VehicleController{api: api, notify: notify, table: table, confirm: confirm}
}

// Load fetches every vehicle and redraws the table. Concurrent calls share
// one request.
func (c *VehicleController) Load(ctx context.Context) error {
	return sharedLoad(ctx, &c.loads, "vehicles", func(ctx context.Context) error {
		vehicles, err := c.api.ListVehicles(ctx)
		if err != nil {
			c.notify.Error("Erro ao carregar veículos")
			return err
		}

		rows := make([][]string, 0, len(vehicles))
		for _, v := range vehicles {
			rows = append(rows, vehicleRow(v))
		}

		c.mu.Lock()
		c.rows = vehicles
		c.mu.Unlock()

		c.table.RenderTable("vehicles", vehicleHeaders, rows)
		return nil
	})
}

func (c *VehicleController) Rows() []domain.Vehicle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Vehicle(nil), c.rows...)
}

func (c *VehicleController) Modal() VehicleModal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modal
}

// OpenCreate shows an empty modal.
func (c *VehicleController) OpenCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = VehicleModal{Visible: true, Title: titleAddVehicle}
}

// OpenEdit loads vehicle id into the modal.
func (c *VehicleController) OpenEdit(ctx context.Context, id int64) error {
	v, err := c.api.GetVehicle(ctx, id)
	if err != nil {
		c.notify.Error("Erro ao carregar veículo")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = VehicleModal{Visible: true, Title: titleEditVehicle, ID: &v.ID, Form: vehicleFormFrom(v)}
	return nil
}

// SetForm replaces the modal inputs.
func (c *VehicleController) SetForm(f VehicleForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Form = f
}

func (c *VehicleController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Visible = false
}

// Save creates or updates depending on whether the modal holds an id, then
// hides the modal and reloads the list.
func (c *VehicleController) Save(ctx context.Context) error {
	return c.guard.run(c.notify, func() error {
		modal := c.Modal()

		in, err := modal.Form.Input()
		if err != nil {
			c.notify.Error(fmt.Sprintf("Erro ao salvar veículo: %v", err))
			return err
		}

		msg := "Veículo adicionado com sucesso!"
		if modal.ID != nil {
			_, err = c.api.UpdateVehicle(ctx, *modal.ID, in)
			msg = "Veículo atualizado com sucesso!"
		} else {
			_, err = c.api.CreateVehicle(ctx, in)
		}
		if err != nil {
			c.notify.Error("Erro ao salvar veículo")
			return err
		}

		c.Close()
		c.notify.Success(msg)
		return c.Load(ctx)
	})
}

// Delete removes vehicle id after the user confirms.
func (c *VehicleController) Delete(ctx context.Context, id int64) error {
	if !c.confirm.Confirm("Tem certeza que deseja deletar este veículo?") {
		return ErrCancelled
	}

	return c.guard.run(c.notify, func() error {
		if err := c.api.DeleteVehicle(ctx, id); err != nil {
			c.notify.Error("Erro ao deletar veículo")
			return err
		}
		c.notify.Success("Veículo deletado com sucesso!")
		return c.Load(ctx)
	})
}
