package ui

import (
	"context"
	"errors"
	"fleet-dashboard/internal/domain"
	"strconv"
	"sync"
)

const mileageChartTitle = "Quilometragem (km)"

func statCards(s domain.DashboardStats) []StatCard {
	return []StatCard{
		{Label: "Veículos", Value: strconv.Itoa(s.TotalVehicles)},
		{Label: "Entregas Hoje", Value: strconv.Itoa(s.DeliveriesToday)},
		{Label: "Eficiência", Value: strconv.Itoa(s.Efficiency) + "%"},
		{Label: "Pendentes", Value: strconv.Itoa(s.PendingDeliveries)},
	}
}

// DashboardController renders the stat cards and the mileage chart. Stats
// and charts load independently so one failing leaves the other on screen.
type DashboardController struct {
	api    DashboardAPI
	notify *Notifier
	cards  CardRenderer
	charts ChartRenderer

	mu      sync.Mutex
	current []StatCard
	chart   Chart
}

func NewDashboardController(api DashboardAPI, notify *Notifier, cards CardRenderer, charts ChartRenderer) *DashboardController {
	if cards == nil {
		cards = nopRenderer{}
	}
	return &DashboardController{api: api, notify: notify, cards: cards, charts: charts}
}

func (c *DashboardController) Load(ctx context.Context) error {
	var statsErr, chartsErr error

	stats, err := c.api.DashboardStats(ctx)
	if err != nil {
		statsErr = err
	} else {
		cards := statCards(stats)
		c.mu.Lock()
		c.current = cards
		c.mu.Unlock()
		c.cards.RenderCards(cards)
	}

	charts, err := c.api.DashboardCharts(ctx)
	if err != nil {
		chartsErr = err
	} else {
		chartsErr = c.drawChart(charts.Mileage)
	}

	if err := errors.Join(statsErr, chartsErr); err != nil {
		c.notify.Error("Erro ao carregar dashboard")
		return err
	}
	return nil
}

// drawChart destroys the previous chart before drawing a new one.
func (c *DashboardController) drawChart(s domain.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
	if c.charts == nil {
		return nil
	}
	chart, err := c.charts.NewBarChart(mileageChartTitle, s)
	if err != nil {
		return err
	}
	c.chart = chart
	return nil
}

func (c *DashboardController) Cards() []StatCard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StatCard(nil), c.current...)
}

// Chart returns the chart currently on screen, if any.
func (c *DashboardController) Chart() Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chart
}

func (c *DashboardController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chart != nil {
		c.chart.Destroy()
		c.chart = nil
	}
}
