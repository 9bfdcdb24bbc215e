package domain

import (
	"encoding/json"
	"testing"
)

func TestSettingsInputAcceptsStringsAndNumbers(t *testing.T) {
	var in SettingsInput
	if err := json.Unmarshal([]byte(`{"preco_combustivel":"6,10","custo_hora_funcionario":30}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rows, err := in.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[SettingFuelPrice] != "6.10" {
		t.Errorf("fuel price = %q, want 6.10", rows[SettingFuelPrice])
	}
	if rows[SettingHourlyCost] != "30.00" {
		t.Errorf("hourly cost = %q, want 30.00", rows[SettingHourlyCost])
	}
}

func TestSettingsInputRejectsInvalid(t *testing.T) {
	var in SettingsInput
	if err := json.Unmarshal([]byte(`{"preco_combustivel":"abc","horario_fim_expediente":"25:00"}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, err := in.Validate(); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := (SettingsInput{}).Validate(); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestSettingsFromMapDefaults(t *testing.T) {
	s := SettingsFromMap(map[string]string{SettingFuelPrice: "6.00", SettingHourlyCost: "n/a"})
	if s.FuelPrice != 6.00 {
		t.Errorf("fuel price = %v", s.FuelPrice)
	}
	if s.StaffPerHour != DefaultStaffPerHour {
		t.Errorf("staff per hour = %v, want default", s.StaffPerHour)
	}
	if s.ShiftStart != "08:00" {
		t.Errorf("shift start = %q", s.ShiftStart)
	}
}
