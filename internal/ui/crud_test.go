package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"reflect"
	"testing"
	"time"
)

func confirmAll(answer bool) Confirmer {
	return ConfirmFunc(func(string) bool { return answer })
}

func TestVehicleLoadRendersRows(t *testing.T) {
	api := newFakeAPI()
	table := newRecordingTable()
	c := NewVehicleController(api, NewNotifier(nil), table, confirmAll(true))

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := [][]string{{"ABC1234", "van", "1500 kg", "10 km/l", "disponivel"}}
	if !reflect.DeepEqual(table.rows["vehicles"], want) {
		t.Fatalf("unexpected rows: %v", table.rows["vehicles"])
	}
	if !reflect.DeepEqual(table.hdrs["vehicles"], vehicleHeaders) {
		t.Fatalf("unexpected headers: %v", table.hdrs["vehicles"])
	}
	if len(c.Rows()) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(c.Rows()))
	}
}

func TestVehicleSaveCreatesWithoutID(t *testing.T) {
	api := newFakeAPI()
	notify := NewNotifier(nil)
	c := NewVehicleController(api, notify, nil, confirmAll(true))

	c.OpenCreate()
	if m := c.Modal(); !m.Visible || m.Title != titleAddVehicle || m.ID != nil {
		t.Fatalf("unexpected modal: %+v", m)
	}
	c.SetForm(VehicleForm{Plate: " xyz9876 ", Type: "van", Capacity: "1200", Consumption: "9,5"})

	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if api.count("CreateVehicle") != 1 || api.count("UpdateVehicle") != 0 {
		t.Fatalf("expected a create, got %v", api.sequence())
	}
	in := api.lastInput.(domain.VehicleInput)
	if in.Plate != "XYZ9876" || in.KmPerLiter != 9.5 {
		t.Fatalf("unexpected payload: %+v", in)
	}
	if c.Modal().Visible {
		t.Fatal("modal should be hidden after save")
	}
	if api.count("ListVehicles") != 1 {
		t.Fatal("list should reload after save")
	}
	note, _ := notify.Current()
	if note.Kind != NotifySuccess || note.Message != "Veículo adicionado com sucesso!" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestVehicleSaveUpdatesWhenEditing(t *testing.T) {
	api := newFakeAPI()
	notify := NewNotifier(nil)
	c := NewVehicleController(api, notify, nil, confirmAll(true))

	if err := c.OpenEdit(context.Background(), 1); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	m := c.Modal()
	if m.Title != titleEditVehicle || m.ID == nil || *m.ID != 1 || m.Form.Plate != "ABC1234" || m.Form.Capacity != "1500" {
		t.Fatalf("unexpected modal: %+v", m)
	}

	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if api.count("UpdateVehicle") != 1 || api.count("CreateVehicle") != 0 {
		t.Fatalf("expected an update, got %v", api.sequence())
	}
	note, _ := notify.Current()
	if note.Message != "Veículo atualizado com sucesso!" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestVehicleOpenEditUnknown(t *testing.T) {
	api := newFakeAPI()
	notify := NewNotifier(nil)
	c := NewVehicleController(api, notify, nil, confirmAll(true))

	if err := c.OpenEdit(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if c.Modal().Visible {
		t.Fatal("modal must stay closed")
	}
	note, _ := notify.Current()
	if note.Message != "Erro ao carregar veículo" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestVehicleInvalidFormMakesNoCalls(t *testing.T) {
	api := newFakeAPI()
	notify := NewNotifier(nil)
	c := NewVehicleController(api, notify, nil, confirmAll(true))

	c.OpenCreate()
	c.SetForm(VehicleForm{Plate: "ABC1234", Type: "van", Capacity: "", Consumption: "abc"})

	err := c.Save(context.Background())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if api.total() != 0 {
		t.Fatalf("expected no calls, got %v", api.sequence())
	}
	if !c.Modal().Visible {
		t.Fatal("modal should stay open on invalid input")
	}
	if note, _ := notify.Current(); note.Kind != NotifyError {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestVehicleDelete(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		api := newFakeAPI()
		c := NewVehicleController(api, NewNotifier(nil), nil, confirmAll(false))

		if err := c.Delete(context.Background(), 1); !errors.Is(err, ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if api.total() != 0 {
			t.Fatalf("expected no calls, got %v", api.sequence())
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		api := newFakeAPI()
		notify := NewNotifier(nil)
		var asked string
		c := NewVehicleController(api, notify, nil, ConfirmFunc(func(msg string) bool {
			asked = msg
			return true
		}))

		if err := c.Delete(context.Background(), 1); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if asked != "Tem certeza que deseja deletar este veículo?" {
			t.Fatalf("unexpected prompt %q", asked)
		}
		if api.count("DeleteVehicle") != 1 || api.count("ListVehicles") != 1 {
			t.Fatalf("unexpected calls: %v", api.sequence())
		}
		if note, _ := notify.Current(); note.Message != "Veículo deletado com sucesso!" {
			t.Fatalf("unexpected notification: %+v", note)
		}
	})
}

func TestDeliveryOpenCreateDefaultsDeadline(t *testing.T) {
	c := NewDeliveryController(newFakeAPI(), NewNotifier(nil), nil, confirmAll(true), fixedNow)

	c.OpenCreate()
	m := c.Modal()
	if m.Title != titleAddDelivery || m.Form.Deadline != "2026-03-10T16:07" {
		t.Fatalf("unexpected modal: %+v", m)
	}
}

func TestDeliveryRowsAndSave(t *testing.T) {
	api := newFakeAPI()
	vid := int64(1)
	api.deliveries = []domain.Delivery{{
		ID:        7,
		Client:    "Maria",
		Address:   "Rua Augusta, 500",
		WeightKg:  12.5,
		Deadline:  domain.Deadline{Time: time.Date(2026, 3, 10, 16, 7, 0, 0, time.Local)},
		Status:    domain.DeliveryPending,
		Priority:  domain.PriorityNormal,
		VehicleID: &vid,
	}}
	table := newRecordingTable()
	notify := NewNotifier(nil)
	c := NewDeliveryController(api, notify, table, confirmAll(true), fixedNow)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := [][]string{{"Maria", "Rua Augusta, 500", "12.5 kg", "10/03/2026, 16:07:00", "pendente"}}
	if !reflect.DeepEqual(table.rows["deliveries"], want) {
		t.Fatalf("unexpected rows: %v", table.rows["deliveries"])
	}

	if err := c.OpenEdit(context.Background(), 7); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	m := c.Modal()
	if m.Title != titleEditDelivery || m.Form.Deadline != "2026-03-10T16:07" || m.Form.VehicleID != "1" {
		t.Fatalf("unexpected modal: %+v", m)
	}

	form := m.Form
	form.Weight = "15"
	c.SetForm(form)
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in := api.lastInput.(domain.DeliveryInput)
	if api.count("UpdateDelivery") != 1 || in.WeightKg != 15 || in.Deadline.Hour() != 16 {
		t.Fatalf("unexpected update: %+v", in)
	}
	if note, _ := notify.Current(); note.Message != "Entrega atualizada com sucesso!" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestDeliveryCreateAndDeclinedDelete(t *testing.T) {
	api := newFakeAPI()
	c := NewDeliveryController(api, NewNotifier(nil), nil, confirmAll(false), fixedNow)

	c.OpenCreate()
	form := c.Modal().Form
	form.Client = "João"
	form.Address = "Av. Paulista,   1000"
	form.Weight = "3,5"
	c.SetForm(form)

	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in := api.lastInput.(domain.DeliveryInput)
	if api.count("CreateDelivery") != 1 || in.Address != "Av. Paulista, 1000" || in.WeightKg != 3.5 {
		t.Fatalf("unexpected create: %+v", in)
	}

	before := api.total()
	if err := c.Delete(context.Background(), 1); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if api.total() != before {
		t.Fatal("declined delete must not call the backend")
	}
}

func TestSharedReloadSurvivesFirstCallerCancel(t *testing.T) {
	api := newFakeAPI()
	api.listGate = make(chan struct{})
	c := NewVehicleController(api, NewNotifier(nil), nil, confirmAll(true))

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() { firstDone <- c.Load(first) }()

	deadline := time.Now().Add(2 * time.Second)
	for api.count("ListVehicles") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("reload never reached the backend")
		}
		time.Sleep(time.Millisecond)
	}

	secondDone := make(chan error, 1)
	go func() { secondDone <- c.Load(context.Background()) }()

	cancel()
	select {
	case err := <-firstDone:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("cancelled caller: expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(api.listGate)
	select {
	case err := <-secondDone:
		if err != nil {
			t.Fatalf("live caller got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("live caller never returned")
	}
	if len(c.Rows()) != 1 {
		t.Fatalf("rows not loaded: %d", len(c.Rows()))
	}
}
