package domain

import (
	"errors"
	"testing"
)

func TestVehicleInputValidate(t *testing.T) {
	in := VehicleInput{Plate: " abc-1234 ", Type: "VAN", CapacityKg: 800, KmPerLiter: 8.5}
	in.Normalize()

	if in.Plate != "ABC-1234" {
		t.Fatalf("plate = %q, want ABC-1234", in.Plate)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := VehicleInput{Plate: "TOO-LONG-PLATE", Type: "bike", CapacityKg: 0, KmPerLiter: -1}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if len(ve.Fields) != 4 {
		t.Fatalf("field errors = %d, want 4 (%v)", len(ve.Fields), err)
	}
}

func TestNewVehicleDefaultsAndApply(t *testing.T) {
	v := NewVehicle(VehicleInput{Plate: "XYZ-5678", Type: VehicleMoto, CapacityKg: 50, KmPerLiter: 30})

	if v.Status != VehicleAvailable {
		t.Errorf("status = %q, want %q", v.Status, VehicleAvailable)
	}
	if v.Color != DefaultVehicleColor {
		t.Errorf("color = %q, want %q", v.Color, DefaultVehicleColor)
	}
	if v.HourlyCost != DefaultHourlyCost {
		t.Errorf("hourly cost = %v, want %v", v.HourlyCost, DefaultHourlyCost)
	}

	// Optional fields left nil keep the current value.
	v.Model = "Honda CG 160"
	maint := VehicleMaintenance
	v.Apply(VehicleInput{Plate: "XYZ-5678", Type: VehicleMoto, CapacityKg: 60, KmPerLiter: 28, Status: &maint})

	if v.Model != "Honda CG 160" {
		t.Errorf("model = %q, want kept value", v.Model)
	}
	if v.Status != VehicleMaintenance || v.CapacityKg != 60 {
		t.Errorf("apply did not update fields: %+v", v)
	}
}
