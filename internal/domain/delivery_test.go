package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDeadlineJSON(t *testing.T) {
	var in DeliveryInput
	body := `{"cliente":"Maria","endereco":"Av.  Paulista,   1000","peso":12.5,"prazo":"2026-03-01T14:30:00"}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	in.Normalize()

	if in.Address != "Av. Paulista, 1000" {
		t.Errorf("address = %q", in.Address)
	}
	want := time.Date(2026, 3, 1, 14, 30, 0, 0, time.Local)
	if !in.Deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", in.Deadline.Time, want)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := json.Marshal(NewDelivery(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["prazo"] != "2026-03-01T14:30:00" {
		t.Errorf("prazo = %v", decoded["prazo"])
	}
	if decoded["status"] != string(DeliveryPending) || decoded["prioridade"] != string(PriorityNormal) {
		t.Errorf("defaults not applied: %v", decoded)
	}
}

func TestParseDeadlineMinutePrecision(t *testing.T) {
	d, err := ParseDeadline("2026-03-01T09:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2026-03-01T09:05:00" {
		t.Fatalf("deadline = %s", d)
	}

	if _, err := ParseDeadline("tomorrow"); err == nil {
		t.Fatal("expected error for free text deadline")
	}
}

func TestDeliveryInputValidateMissingFields(t *testing.T) {
	err := DeliveryInput{}.Validate()
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
