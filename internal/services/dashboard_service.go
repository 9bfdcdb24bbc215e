package services

import (
	"context"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/ports"
	"fmt"
	"time"
)

const mileageDays = 7

type DashboardService struct {
	Vehicles   ports.VehicleRepository
	Deliveries ports.DeliveryRepository
	Routes     ports.RouteRepository
	Now        func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Stats counts vehicles, today's deliveries (by deadline), the share of
// today's deliveries already delivered, and every pending delivery.
func (s *DashboardService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats

	n, err := s.Vehicles.CountVehicles(ctx)
	if err != nil {
		return stats, fmt.Errorf("dashboard stats: %w", err)
	}
	stats.TotalVehicles = n

	today := startOfDay(s.now())
	byStatus, err := s.Deliveries.CountByStatus(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return stats, fmt.Errorf("dashboard stats: %w", err)
	}
	for _, c := range byStatus {
		stats.DeliveriesToday += c
	}
	if stats.DeliveriesToday > 0 {
		stats.Efficiency = byStatus[domain.DeliveryDelivered] * 100 / stats.DeliveriesToday
	}

	all, err := s.Deliveries.CountByStatus(ctx, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		return stats, fmt.Errorf("dashboard stats: %w", err)
	}
	stats.PendingDeliveries = all[domain.DeliveryPending]

	return stats, nil
}

// Charts returns kilometres of saved routes per day for the last seven
// days, oldest first, labelled dd/mm.
func (s *DashboardService) Charts(ctx context.Context) (domain.DashboardCharts, error) {
	today := startOfDay(s.now())
	from := today.AddDate(0, 0, -(mileageDays - 1))

	byDay, err := s.Routes.DistanceByDay(ctx, from, today.AddDate(0, 0, 1))
	if err != nil {
		return domain.DashboardCharts{}, fmt.Errorf("dashboard charts: %w", err)
	}

	series := domain.Series{
		Labels: make([]string, 0, mileageDays),
		Data:   make([]float64, 0, mileageDays),
	}
	for i := 0; i < mileageDays; i++ {
		day := from.AddDate(0, 0, i)
		series.Labels = append(series.Labels, day.Format("02/01"))
		series.Data = append(series.Data, round2(byDay[day.Format("2006-01-02")]))
	}

	return domain.DashboardCharts{Mileage: series}, nil
}
