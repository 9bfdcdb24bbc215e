package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fleet-dashboard/internal/domain"
	"fmt"
	"time"
)

// Route history stored in the rotas table.
type SQLRouteRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRouteRepository(db *sql.DB, d Dialect) *SQLRouteRepository {
	return &SQLRouteRepository{DB: db, Dialect: d}
}

func (s *SQLRouteRepository) SaveRoute(ctx context.Context, r *domain.SavedRoute) error {
	waypoints, err := json.Marshal(r.Waypoints)
	if err != nil {
		return fmt.Errorf("save route: marshal waypoints: %w", err)
	}

	q := s.Dialect.Rebind(`
	INSERT INTO rotas (nome, veiculo_id, waypoints, distancia, tempo_estimado,
		custo_combustivel, custo_funcionario, custo_total, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)
	err = s.DB.QueryRowContext(ctx, q,
		r.Name, nullableID(r.VehicleID), string(waypoints), r.DistanceKm, r.DurationMin,
		r.Fuel, r.Staff, r.Total, formatTime(r.CreatedAt),
	).Scan(&r.ID)
	if isForeignKeyViolation(err) {
		return unknownVehicle(r.VehicleID)
	}
	if err != nil {
		return fmt.Errorf("save route %q: %w", r.Name, err)
	}
	return nil
}

// Return the most recent routes first.
func (s *SQLRouteRepository) ListRoutes(ctx context.Context, limit int) ([]*domain.SavedRoute, error) {
	if limit <= 0 {
		limit = 50
	}

	q := s.Dialect.Rebind(`
	SELECT id, nome, veiculo_id, waypoints, distancia, tempo_estimado,
		custo_combustivel, custo_funcionario, custo_total, created_at
	FROM rotas
	ORDER BY created_at DESC, id DESC
	LIMIT ?;
	`)
	rows, err := s.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list routes: query rotas table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.SavedRoute, 0, limit)
	for rows.Next() {
		var r domain.SavedRoute
		var vehicleID sql.NullInt64
		var waypoints, created string
		if err := rows.Scan(
			&r.ID, &r.Name, &vehicleID, &waypoints, &r.DistanceKm, &r.DurationMin,
			&r.Fuel, &r.Staff, &r.Total, &created,
		); err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(waypoints), &r.Waypoints); err != nil {
			return nil, fmt.Errorf("list routes: decode waypoints id=%d: %w", r.ID, err)
		}
		if r.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("list routes: parse created_at id=%d: %w", r.ID, err)
		}
		if vehicleID.Valid {
			id := vehicleID.Int64
			r.VehicleID = &id
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}
	return out, nil
}

// Sum route distance per local calendar day in [from, to).
func (s *SQLRouteRepository) DistanceByDay(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	q := s.Dialect.Rebind(`
	SELECT created_at, distancia
	FROM rotas
	WHERE created_at >= ? AND created_at < ?;
	`)
	rows, err := s.DB.QueryContext(ctx, q, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("distance by day: query rotas table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var created string
		var km float64
		if err := rows.Scan(&created, &km); err != nil {
			return nil, fmt.Errorf("distance by day: scan row: %w", err)
		}
		if len(created) < len("2006-01-02") {
			continue
		}
		// timeLayout starts with the YYYY-MM-DD date.
		out[created[:10]] += km
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distance by day: row iteration: %w", err)
	}
	return out, nil
}
