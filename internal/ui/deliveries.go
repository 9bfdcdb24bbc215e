package ui

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	titleAddDelivery  = "Adicionar Entrega"
	titleEditDelivery = "Editar Entrega"

	// FormDeadlineLayout is the datetime-local input format.
	FormDeadlineLayout = "2006-01-02T15:04"
	deadlineCellLayout = "02/01/2006, 15:04:05"
	defaultLeadTime    = 2 * time.Hour
)

type DeliveryForm struct {
	Client    string
	Address   string
	Weight    string
	Volume    string
	Deadline  string
	Status    string
	Priority  string
	Notes     string
	VehicleID string
}

type DeliveryModal struct {
	Visible bool
	Title   string
	ID      *int64
	Form    DeliveryForm
}

var deliveryHeaders = []string{"Cliente", "Endereço", "Peso", "Prazo", "Status"}

func (f DeliveryForm) Input() (domain.DeliveryInput, error) {
	ve := &domain.ValidationError{}
	in := domain.DeliveryInput{
		Client:   f.Client,
		Address:  f.Address,
		WeightKg: parseAmount("peso", f.Weight, ve),
		Notes:    optional(f.Notes),
	}
	if s := optional(f.Volume); s != nil {
		v := parseAmount("volume", *s, ve)
		in.VolumeM3 = &v
	}
	if s := optional(f.Deadline); s != nil {
		d, err := domain.ParseDeadline(*s)
		if err != nil {
			ve.Fields = append(ve.Fields, domain.FieldError{Field: "prazo", Message: err.Error()})
		}
		in.Deadline = d
	}
	if s := optional(f.Status); s != nil {
		st := domain.DeliveryStatus(*s)
		in.Status = &st
	}
	if s := optional(f.Priority); s != nil {
		p := domain.Priority(*s)
		in.Priority = &p
	}
	if s := optional(f.VehicleID); s != nil {
		id, err := strconv.ParseInt(*s, 10, 64)
		if err != nil {
			ve.Fields = append(ve.Fields, domain.FieldError{Field: "veiculo_id", Message: "must be a number"})
		}
		in.VehicleID = &id
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

func deliveryFormFrom(d domain.Delivery) DeliveryForm {
	f := DeliveryForm{
		Client:   d.Client,
		Address:  d.Address,
		Weight:   formatNumber(d.WeightKg),
		Volume:   formatNumber(d.VolumeM3),
		Status:   string(d.Status),
		Priority: string(d.Priority),
		Notes:    d.Notes,
	}
	if !d.Deadline.IsZero() {
		f.Deadline = d.Deadline.Format(FormDeadlineLayout)
	}
	if d.VehicleID != nil {
		f.VehicleID = strconv.FormatInt(*d.VehicleID, 10)
	}
	return f
}

func deliveryRow(d domain.Delivery) []string {
	deadline := ""
	if !d.Deadline.IsZero() {
		deadline = d.Deadline.Format(deadlineCellLayout)
	}
	return []string{
		d.Client,
		d.Address,
		formatNumber(d.WeightKg) + " kg",
		deadline,
		string(d.Status),
	}
}

// DeliveryController drives the deliveries list and its modal.
type DeliveryController struct {
	api     DeliveryAPI
	notify  *Notifier
	table   TableRenderer
	confirm Confirmer
	now     func() time.Time

	loads singleflight.Group
	guard inflight

	mu    sync.RWMutex
	rows  []domain.Delivery
	modal DeliveryModal
}

func NewDeliveryController(api DeliveryAPI, notify *Notifier, table TableRenderer, confirm Confirmer, now func() time.Time) *DeliveryController {
	if table == nil {
		table = nopRenderer{}
	}
	if now == nil {
		now = time.Now
	}
	return &DeliveryController{api: api, notify: notify, table: table, confirm: confirm, now: now}
}

func (c *DeliveryController) Load(ctx context.Context) error {
	return sharedLoad(ctx, &c.loads, "deliveries", func(ctx context.Context) error {
		deliveries, err := c.api.ListDeliveries(ctx)
		if err != nil {
			c.notify.Error("Erro ao carregar entregas")
			return err
		}

		rows := make([][]string, 0, len(deliveries))
		for _, d := range deliveries {
			rows = append(rows, deliveryRow(d))
		}

		c.mu.Lock()
		c.rows = deliveries
		c.mu.Unlock()

		c.table.RenderTable("deliveries", deliveryHeaders, rows)
		return nil
	})
}

func (c *DeliveryController) Rows() []domain.Delivery {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Delivery(nil), c.rows...)
}

func (c *DeliveryController) Modal() DeliveryModal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modal
}

// OpenCreate shows an empty modal with the deadline two hours ahead.
func (c *DeliveryController) OpenCreate() {
	deadline := c.now().Add(defaultLeadTime).Truncate(time.Minute)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = DeliveryModal{
		Visible: true,
		Title:   titleAddDelivery,
		Form:    DeliveryForm{Deadline: deadline.Format(FormDeadlineLayout)},
	}
}

func (c *DeliveryController) OpenEdit(ctx context.Context, id int64) error {
	d, err := c.api.GetDelivery(ctx, id)
	if err != nil {
		c.notify.Error("Erro ao carregar entrega")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal = DeliveryModal{Visible: true, Title: titleEditDelivery, ID: &d.ID, Form: deliveryFormFrom(d)}
	return nil
}

func (c *DeliveryController) SetForm(f DeliveryForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Form = f
}

func (c *DeliveryController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modal.Visible = false
}

func (c *DeliveryController) Save(ctx context.Context) error {
	return c.guard.run(c.notify, func() error {
		modal := c.Modal()

		in, err := modal.Form.Input()
		if err != nil {
			c.notify.Error(fmt.Sprintf("Erro ao salvar entrega: %v", err))
			return err
		}

		msg := "Entrega adicionada com sucesso!"
		if modal.ID != nil {
			_, err = c.api.UpdateDelivery(ctx, *modal.ID, in)
			msg = "Entrega atualizada com sucesso!"
		} else {
			_, err = c.api.CreateDelivery(ctx, in)
		}
		if err != nil {
			c.notify.Error("Erro ao salvar entrega")
			return err
		}

		c.Close()
		c.notify.Success(msg)
		return c.Load(ctx)
	})
}

func (c *DeliveryController) Delete(ctx context.Context, id int64) error {
	if !c.confirm.Confirm("Tem certeza que deseja deletar esta entrega?") {
		return ErrCancelled
	}

	return c.guard.run(c.notify, func() error {
		if err := c.api.DeleteDelivery(ctx, id); err != nil {
			c.notify.Error("Erro ao deletar entrega")
			return err
		}
		c.notify.Success("Entrega deletada com sucesso!")
		return c.Load(ctx)
	})
}
