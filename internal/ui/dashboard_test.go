package ui

import (
	"bytes"
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"math"
	"strings"
	"testing"
)

type recordingCards struct {
	cards []StatCard
}

func (r *recordingCards) RenderCards(c []StatCard) { r.cards = c }

func TestDashboardRendersCardsAndChart(t *testing.T) {
	api := newFakeAPI()
	cards := &recordingCards{}
	charts := &fakeCharts{}
	c := NewDashboardController(api, NewNotifier(nil), cards, charts)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []StatCard{
		{Label: "Veículos", Value: "3"},
		{Label: "Entregas Hoje", Value: "4"},
		{Label: "Eficiência", Value: "50%"},
		{Label: "Pendentes", Value: "2"},
	}
	if len(cards.cards) != len(want) {
		t.Fatalf("unexpected cards: %+v", cards.cards)
	}
	for i := range want {
		if cards.cards[i] != want[i] {
			t.Fatalf("card %d: got %+v want %+v", i, cards.cards[i], want[i])
		}
	}
	if len(charts.made) != 1 || c.Chart() == nil {
		t.Fatal("expected a chart")
	}
}

func TestDashboardReloadDestroysPreviousChart(t *testing.T) {
	charts := &fakeCharts{}
	c := NewDashboardController(newFakeAPI(), NewNotifier(nil), nil, charts)

	for i := 0; i < 2; i++ {
		if err := c.Load(context.Background()); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if len(charts.made) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(charts.made))
	}
	if !charts.made[0].destroyed || charts.made[1].destroyed {
		t.Fatal("only the previous chart should be destroyed")
	}

	c.Close()
	if !charts.made[1].destroyed {
		t.Fatal("Close should destroy the current chart")
	}
}

func TestDashboardPartialFailure(t *testing.T) {
	api := newFakeAPI()
	api.statsErr = errBackend
	cards := &recordingCards{}
	charts := &fakeCharts{}
	notify := NewNotifier(nil)
	c := NewDashboardController(api, notify, cards, charts)

	err := c.Load(context.Background())
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(cards.cards) != 0 {
		t.Fatal("cards should not render when stats fail")
	}
	if len(charts.made) != 1 {
		t.Fatal("chart should still render when only stats fail")
	}
	if note, _ := notify.Current(); note.Message != "Erro ao carregar dashboard" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}

func TestTextBarChart(t *testing.T) {
	var buf bytes.Buffer
	r := TextBarChart{W: &buf, Width: 10}

	chart, err := r.NewBarChart(mileageChartTitle, domain.Series{Labels: []string{"09/03", "10/03"}, Data: []float64{5, 10}})
	if err != nil {
		t.Fatalf("NewBarChart: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, mileageChartTitle+"\n") {
		t.Fatalf("missing title: %q", out)
	}
	if !strings.Contains(out, "10/03 "+strings.Repeat("█", 10)+" 10.00") {
		t.Fatalf("unexpected bar: %q", out)
	}
	chart.Destroy()
	if !chart.(*textChart).Destroyed() {
		t.Fatal("chart not destroyed")
	}

	buf.Reset()
	if _, err := r.NewBarChart("odd", domain.Series{
		Labels: []string{"a", "b", "c", "d"},
		Data:   []float64{10, -5, math.NaN(), math.Inf(1)},
	}); err != nil {
		t.Fatalf("NewBarChart with odd values: %v", err)
	}
	out = buf.String()
	if !strings.Contains(out, "b  -5.00") {
		t.Fatalf("negative value should draw an empty bar: %q", out)
	}
	if strings.Contains(out, "c ") || strings.Contains(out, "d ") {
		t.Fatalf("non-finite values should be skipped: %q", out)
	}

	if _, err := r.NewBarChart("x", domain.Series{Labels: []string{"a"}}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestSettingsLoadAndSave(t *testing.T) {
	api := newFakeAPI()
	notify := NewNotifier(nil)
	c := NewSettingsController(api, notify)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f := c.Form(); f.FuelPrice != "5.80" || f.StaffPerHour != "25.00" {
		t.Fatalf("unexpected form: %+v", f)
	}

	c.SetForm(SettingsForm{FuelPrice: "6.20", StaffPerHour: " "})
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	in := api.lastInput.(domain.SettingsInput)
	if in.FuelPrice == nil || in.FuelPrice.Raw != "6.20" || in.StaffPerHour != nil {
		t.Fatalf("unexpected payload: %+v", in)
	}
	if f := c.Form(); f.FuelPrice != "6.20" {
		t.Fatalf("form not refreshed: %+v", f)
	}
	if note, _ := notify.Current(); note.Message != "Configurações salvas com sucesso!" {
		t.Fatalf("unexpected notification: %+v", note)
	}

	api.saveErr = errBackend
	if err := c.Save(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if note, _ := notify.Current(); note.Message != "Erro ao salvar configurações" {
		t.Fatalf("unexpected notification: %+v", note)
	}
}
