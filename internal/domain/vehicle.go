package domain

import (
	"regexp"
	"strings"
	"time"
)

type VehicleType string

const (
	VehicleVan   VehicleType = "van"
	VehicleMoto  VehicleType = "moto"
	VehicleTruck VehicleType = "caminhao"
	VehicleCar   VehicleType = "carro"
)

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "disponivel"
	VehicleOnRoute     VehicleStatus = "em_rota"
	VehicleMaintenance VehicleStatus = "manutencao"
)

const (
	DefaultVehicleColor = "#3498db"
	DefaultHourlyCost   = 25.0
	maxPlateLen         = 10
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Vehicle is a fleet vehicle as stored by the backend.
type Vehicle struct {
	ID         int64         `json:"id"`
	Plate      string        `json:"placa"`
	Type       VehicleType   `json:"tipo"`
	Model      string        `json:"modelo"`
	CapacityKg float64       `json:"capacidade"`
	KmPerLiter float64       `json:"consumo"`
	HourlyCost float64       `json:"custo_hora"`
	Status     VehicleStatus `json:"status"`
	Color      string        `json:"cor"`
	CreatedAt  time.Time     `json:"created_at"`
}

// VehicleInput is the create/update payload. Optional fields left nil keep
// their current value on update and take defaults on create.
type VehicleInput struct {
	Plate      string         `json:"placa"`
	Type       VehicleType    `json:"tipo"`
	Model      *string        `json:"modelo,omitempty"`
	CapacityKg float64        `json:"capacidade"`
	KmPerLiter float64        `json:"consumo"`
	HourlyCost *float64       `json:"custo_hora,omitempty"`
	Status     *VehicleStatus `json:"status,omitempty"`
	Color      *string        `json:"cor,omitempty"`
}

func validVehicleType(t VehicleType) bool {
	switch t {
	case VehicleVan, VehicleMoto, VehicleTruck, VehicleCar:
		return true
	}
	return false
}

func validVehicleStatus(s VehicleStatus) bool {
	switch s {
	case VehicleAvailable, VehicleOnRoute, VehicleMaintenance:
		return true
	}
	return false
}

// Normalize trims free-text fields and upper-cases the plate.
func (in *VehicleInput) Normalize() {
	in.Plate = strings.ToUpper(strings.TrimSpace(in.Plate))
	in.Type = VehicleType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	if in.Model != nil {
		m := strings.TrimSpace(*in.Model)
		in.Model = &m
	}
}

// Validate checks the payload against the vehicle schema.
func (in VehicleInput) Validate() error {
	ve := &ValidationError{}
	if in.Plate == "" {
		ve.add("placa", "is required")
	} else if len(in.Plate) > maxPlateLen {
		ve.add("placa", "must be at most %d characters", maxPlateLen)
	}
	if !validVehicleType(in.Type) {
		ve.add("tipo", "unknown vehicle type %q", in.Type)
	}
	if in.CapacityKg <= 0 {
		ve.add("capacidade", "must be greater than zero")
	}
	if in.KmPerLiter <= 0 {
		ve.add("consumo", "must be greater than zero")
	}
	if in.HourlyCost != nil && *in.HourlyCost < 0 {
		ve.add("custo_hora", "must not be negative")
	}
	if in.Status != nil && !validVehicleStatus(*in.Status) {
		ve.add("status", "unknown status %q", *in.Status)
	}
	if in.Color != nil && !colorPattern.MatchString(*in.Color) {
		ve.add("cor", "must be a #rrggbb color")
	}
	return ve.orNil()
}

// NewVehicle builds a vehicle from a validated input, applying defaults.
func NewVehicle(in VehicleInput) *Vehicle {
	v := &Vehicle{
		HourlyCost: DefaultHourlyCost,
		Status:     VehicleAvailable,
		Color:      DefaultVehicleColor,
	}
	v.Apply(in)
	return v
}

// Apply copies the input onto the vehicle.
func (v *Vehicle) Apply(in VehicleInput) {
	v.Plate = in.Plate
	v.Type = in.Type
	v.CapacityKg = in.CapacityKg
	v.KmPerLiter = in.KmPerLiter
	if in.Model != nil {
		v.Model = *in.Model
	}
	if in.HourlyCost != nil {
		v.HourlyCost = *in.HourlyCost
	}
	if in.Status != nil {
		v.Status = *in.Status
	}
	if in.Color != nil {
		v.Color = *in.Color
	}
}
