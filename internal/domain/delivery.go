package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pendente"
	DeliveryOnRoute   DeliveryStatus = "em_rota"
	DeliveryDelivered DeliveryStatus = "entregue"
	DeliveryCancelled DeliveryStatus = "cancelada"
)

type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "alta"
	PriorityUrgent Priority = "urgente"
)

const (
	maxClientLen  = 100
	maxAddressLen = 200
)

// DeadlineLayout is the wire format of delivery deadlines: local wall-clock
// time with seconds and no zone.
const DeadlineLayout = "2006-01-02T15:04:05"

var deadlineInputLayouts = []string{
	DeadlineLayout,
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Deadline is a delivery deadline serialized as DeadlineLayout.
type Deadline struct {
	time.Time
}

// ParseDeadline accepts the wire layout, the minute-precision form used by
// datetime inputs, and RFC 3339.
func ParseDeadline(s string) (Deadline, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineInputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Deadline{Time: t}, nil
		}
	}
	return Deadline{}, fmt.Errorf("invalid deadline %q", s)
}

func (d Deadline) String() string { return d.Time.Format(DeadlineLayout) }

func (d Deadline) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Deadline) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("deadline must be a string: %w", err)
	}
	if s == "" {
		*d = Deadline{}
		return nil
	}
	parsed, err := ParseDeadline(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Delivery is a customer delivery as stored by the backend.
type Delivery struct {
	ID        int64          `json:"id"`
	Client    string         `json:"cliente"`
	Address   string         `json:"endereco"`
	WeightKg  float64        `json:"peso"`
	VolumeM3  float64        `json:"volume"`
	Deadline  Deadline       `json:"prazo"`
	Status    DeliveryStatus `json:"status"`
	Priority  Priority       `json:"prioridade"`
	Notes     string         `json:"observacao"`
	VehicleID *int64         `json:"veiculo_id"`
	CreatedAt time.Time      `json:"created_at"`
}

// DeliveryInput is the create/update payload.
type DeliveryInput struct {
	Client    string          `json:"cliente"`
	Address   string          `json:"endereco"`
	WeightKg  float64         `json:"peso"`
	VolumeM3  *float64        `json:"volume,omitempty"`
	Deadline  Deadline        `json:"prazo"`
	Status    *DeliveryStatus `json:"status,omitempty"`
	Priority  *Priority       `json:"prioridade,omitempty"`
	Notes     *string         `json:"observacao,omitempty"`
	VehicleID *int64          `json:"veiculo_id,omitempty"`
}

func validDeliveryStatus(s DeliveryStatus) bool {
	switch s {
	case DeliveryPending, DeliveryOnRoute, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func (in *DeliveryInput) Normalize() {
	in.Client = strings.TrimSpace(in.Client)
	in.Address = strings.Join(strings.Fields(in.Address), " ")
	if in.Notes != nil {
		n := strings.TrimSpace(*in.Notes)
		in.Notes = &n
	}
}

func (in DeliveryInput) Validate() error {
	ve := &ValidationError{}
	if in.Client == "" {
		ve.add("cliente", "is required")
	} else if len(in.Client) > maxClientLen {
		ve.add("cliente", "must be at most %d characters", maxClientLen)
	}
	if in.Address == "" {
		ve.add("endereco", "is required")
	} else if len(in.Address) > maxAddressLen {
		ve.add("endereco", "must be at most %d characters", maxAddressLen)
	}
	if in.WeightKg <= 0 {
		ve.add("peso", "must be greater than zero")
	}
	if in.VolumeM3 != nil && *in.VolumeM3 < 0 {
		ve.add("volume", "must not be negative")
	}
	if in.Deadline.IsZero() {
		ve.add("prazo", "is required")
	}
	if in.Status != nil && !validDeliveryStatus(*in.Status) {
		ve.add("status", "unknown status %q", *in.Status)
	}
	if in.Priority != nil && !validPriority(*in.Priority) {
		ve.add("prioridade", "unknown priority %q", *in.Priority)
	}
	if in.VehicleID != nil && *in.VehicleID <= 0 {
		ve.add("veiculo_id", "must be a positive id")
	}
	return ve.orNil()
}

func NewDelivery(in DeliveryInput) *Delivery {
	d := &Delivery{
		Status:   DeliveryPending,
		Priority: PriorityNormal,
	}
	d.Apply(in)
	return d
}

func (d *Delivery) Apply(in DeliveryInput) {
	d.Client = in.Client
	d.Address = in.Address
	d.WeightKg = in.WeightKg
	d.Deadline = in.Deadline
	if in.VolumeM3 != nil {
		d.VolumeM3 = *in.VolumeM3
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.Priority != nil {
		d.Priority = *in.Priority
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	if in.VehicleID != nil {
		id := *in.VehicleID
		d.VehicleID = &id
	}
}
