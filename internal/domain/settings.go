package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	SettingFuelPrice  = "preco_combustivel"
	SettingHourlyCost = "custo_hora_funcionario"
	SettingShiftStart = "horario_inicio_expediente"
	SettingShiftEnd   = "horario_fim_expediente"
)

const (
	DefaultFuelPrice    = 5.80
	DefaultStaffPerHour = 25.00
)

// DefaultSettings are written on first start.
var DefaultSettings = map[string]string{
	SettingFuelPrice:  "5.80",
	SettingHourlyCost: "25.00",
	SettingShiftStart: "08:00",
	SettingShiftEnd:   "18:00",
}

// Settings are the cost parameters used by route costing.
type Settings struct {
	FuelPrice    float64 `json:"preco_combustivel"`
	StaffPerHour float64 `json:"custo_hora_funcionario"`
	ShiftStart   string  `json:"horario_inicio_expediente"`
	ShiftEnd     string  `json:"horario_fim_expediente"`
}

// SettingsFromMap reads typed settings from key/value rows, falling back to
// defaults for missing or unparsable values.
func SettingsFromMap(m map[string]string) Settings {
	s := Settings{
		FuelPrice:    DefaultFuelPrice,
		StaffPerHour: DefaultStaffPerHour,
		ShiftStart:   DefaultSettings[SettingShiftStart],
		ShiftEnd:     DefaultSettings[SettingShiftEnd],
	}
	if f, err := strconv.ParseFloat(m[SettingFuelPrice], 64); err == nil {
		s.FuelPrice = f
	}
	if f, err := strconv.ParseFloat(m[SettingHourlyCost], 64); err == nil {
		s.StaffPerHour = f
	}
	if v := m[SettingShiftStart]; v != "" {
		s.ShiftStart = v
	}
	if v := m[SettingShiftEnd]; v != "" {
		s.ShiftEnd = v
	}
	return s
}

// Amount is a non-negative decimal that decodes from a JSON number or a
// numeric string; the dashboard form posts strings.
type Amount struct {
	Raw string
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		a.Raw = n.String()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("amount must be a number or numeric string")
	}
	a.Raw = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) { return json.Marshal(a.Raw) }

func (a Amount) Float() (float64, error) { return strconv.ParseFloat(a.Raw, 64) }

// SettingsInput is the payload of the settings form.
type SettingsInput struct {
	FuelPrice    *Amount `json:"preco_combustivel,omitempty"`
	StaffPerHour *Amount `json:"custo_hora_funcionario,omitempty"`
	ShiftStart   *string `json:"horario_inicio_expediente,omitempty"`
	ShiftEnd     *string `json:"horario_fim_expediente,omitempty"`
}

func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err1 := strconv.Atoi(s[:2])
	m, err2 := strconv.Atoi(s[3:])
	return err1 == nil && err2 == nil && h >= 0 && h < 24 && m >= 0 && m < 60
}

// Validate checks the input and returns the key/value rows to persist.
func (in SettingsInput) Validate() (map[string]string, error) {
	ve := &ValidationError{}
	out := make(map[string]string, 4)
	amount := func(key string, a *Amount) {
		if a == nil {
			return
		}
		f, err := a.Float()
		if err != nil {
			ve.add(key, "must be a number")
			return
		}
		if f < 0 {
			ve.add(key, "must not be negative")
			return
		}
		out[key] = strconv.FormatFloat(f, 'f', 2, 64)
	}
	amount(SettingFuelPrice, in.FuelPrice)
	amount(SettingHourlyCost, in.StaffPerHour)
	if in.ShiftStart != nil {
		if !validClock(*in.ShiftStart) {
			ve.add(SettingShiftStart, "must be HH:MM")
		} else {
			out[SettingShiftStart] = *in.ShiftStart
		}
	}
	if in.ShiftEnd != nil {
		if !validClock(*in.ShiftEnd) {
			ve.add(SettingShiftEnd, "must be HH:MM")
		} else {
			out[SettingShiftEnd] = *in.ShiftEnd
		}
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		ve.add("settings", "no setting provided")
		return nil, ve
	}
	return out, nil
}
