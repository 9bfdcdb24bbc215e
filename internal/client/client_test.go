package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fleet-dashboard/internal/domain"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestCalculateRouteSendsWaypointPairs(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/calculate-route" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"success":true,"distance":3.2,"duration":10,"custo_combustivel":2.32,"custo_funcionario":4.17,"custo_total":6.49,"steps":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.CalculateRoute(context.Background(), domain.RouteRequest{
		Waypoints: domain.Waypoints{{-23.55, -46.63}, {-23.56, -46.65}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody != `{"waypoints":[[-23.55,-46.63],[-23.56,-46.65]]}` {
		t.Fatalf("body = %s", gotBody)
	}
	if res.Total != 6.49 || res.DistanceKm != 3.2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestStatusErrorCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Endereço não encontrado"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Geocode(context.Background(), "nowhere")
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ce.Kind != KindStatus || ce.Status != http.StatusNotFound {
		t.Fatalf("unexpected error %+v", ce)
	}
	if err.Error() != "Endereço não encontrado" {
		t.Fatalf("message = %q", err.Error())
	}
	if !IsNotFound(err) {
		t.Fatal("expected IsNotFound")
	}
}

func TestStatusErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).DeleteVehicle(context.Background(), 1)
	if err == nil || err.Error() != "Erro 500" {
		t.Fatalf("unexpected error %v", err)
	}
	if StatusCode(err) != 500 {
		t.Fatalf("status = %d", StatusCode(err))
	}
}

func TestDecodeAndNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))

	_, err := New(srv.URL).ListVehicles(context.Background())
	var ce *Error
	if !errors.As(err, &ce) || ce.Kind != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}

	url := srv.URL
	srv.Close()
	_, err = New(url, WithTimeout(time.Second)).DashboardStats(context.Background())
	if !errors.As(err, &ce) || ce.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestCRUDPaths(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodDelete:
			_, _ = w.Write([]byte(`{"success":true}`))
		case strings.HasPrefix(r.URL.Path, "/api/veiculos"):
			_, _ = w.Write([]byte(`{"id":7,"placa":"ABC-1234"}`))
		default:
			_, _ = w.Write([]byte(`{"id":9,"cliente":"Ana","prazo":"2026-05-02T09:30:00"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	v, err := c.UpdateVehicle(ctx, 7, domain.VehicleInput{Plate: "ABC-1234"})
	if err != nil || v.ID != 7 {
		t.Fatalf("update vehicle: %+v %v", v, err)
	}
	d, err := c.GetDelivery(ctx, 9)
	if err != nil || d.Client != "Ana" || d.Deadline.Hour() != 9 {
		t.Fatalf("get delivery: %+v %v", d, err)
	}
	if err := c.DeleteDelivery(ctx, 9); err != nil {
		t.Fatalf("delete delivery: %v", err)
	}

	want := []string{"PUT /api/veiculos/7", "GET /api/entregas/9", "DELETE /api/entregas/9"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Fatalf("requests = %v, want %v", seen, want)
	}
}

func TestSaveSettingsSendsStrings(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"preco_combustivel":6.2,"custo_hora_funcionario":30}`))
	}))
	defer srv.Close()

	s, err := New(srv.URL).SaveSettings(context.Background(), domain.SettingsInput{
		FuelPrice:    &domain.Amount{Raw: "6.20"},
		StaffPerHour: &domain.Amount{Raw: "30"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if body["preco_combustivel"] != "6.20" || body["custo_hora_funcionario"] != "30" {
		t.Fatalf("unexpected body %v", body)
	}
	if s.FuelPrice != 6.2 {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestExportDeliveries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PK\x03\x04workbook"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	n, err := New(srv.URL).ExportDeliveries(context.Background(), &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != int64(buf.Len()) || !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Fatalf("unexpected export n=%d body=%q", n, buf.String())
	}
}

func TestEventsFeed(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(domain.ChangeEvent{ID: "e1", Type: domain.EventDeliveryChanged, EntityID: 4})
		// Hold the connection until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	feed, err := New(srv.URL).Events(ctx)
	if err != nil {
		t.Fatalf("events: %v", err)
	}

	select {
	case evt := <-feed:
		if evt.ID != "e1" || evt.Type != domain.EventDeliveryChanged {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	select {
	case _, ok := <-feed:
		if ok {
			t.Fatal("expected feed to close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("feed not closed after cancel")
	}
}
