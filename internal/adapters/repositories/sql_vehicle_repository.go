package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
)

// database/sql implementation of the VehicleRepository port.
type SQLVehicleRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLVehicleRepository(db *sql.DB, d Dialect) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: db, Dialect: d}
}

const vehicleColumns = `id, placa, tipo, modelo, capacidade, consumo, custo_hora, status, cor, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var created string
	err := row.Scan(
		&v.ID, &v.Plate, &v.Type, &v.Model, &v.CapacityKg, &v.KmPerLiter,
		&v.HourlyCost, &v.Status, &v.Color, &created,
	)
	if err != nil {
		return nil, err
	}
	if v.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	return &v, nil
}

// Return all vehicles ordered by id.
func (s *SQLVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sql vehicle repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM veiculos ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query veiculos table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (s *SQLVehicleRepository) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	q := s.Dialect.Rebind(`SELECT ` + vehicleColumns + ` FROM veiculos WHERE id = ?;`)
	v, err := scanVehicle(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, err)
	}
	return v, nil
}

// Insert the vehicle and set its generated id.
func (s *SQLVehicleRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	q := s.Dialect.Rebind(`
	INSERT INTO veiculos (placa, tipo, modelo, capacidade, consumo, custo_hora, status, cor, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)
	err := s.DB.QueryRowContext(ctx, q,
		v.Plate, v.Type, v.Model, v.CapacityKg, v.KmPerLiter, v.HourlyCost, v.Status, v.Color, formatTime(v.CreatedAt),
	).Scan(&v.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("create vehicle placa=%q: %w", v.Plate, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create vehicle placa=%q: %w", v.Plate, err)
	}
	return nil
}

func (s *SQLVehicleRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	q := s.Dialect.Rebind(`
	UPDATE veiculos
	SET placa = ?, tipo = ?, modelo = ?, capacidade = ?, consumo = ?, custo_hora = ?, status = ?, cor = ?
	WHERE id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, q,
		v.Plate, v.Type, v.Model, v.CapacityKg, v.KmPerLiter, v.HourlyCost, v.Status, v.Color, v.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("update vehicle id=%d: %w", v.ID, domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("update vehicle id=%d: %w", v.ID, err)
	}
	return expectOneRow(res, "update vehicle", v.ID)
}

func (s *SQLVehicleRepository) DeleteVehicle(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM veiculos WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("delete vehicle id=%d: %w", id, err)
	}
	return expectOneRow(res, "delete vehicle", id)
}

func (s *SQLVehicleRepository) CountVehicles(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM veiculos;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, op string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s id=%d: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s id=%d: %w", op, id, domain.ErrNotFound)
	}
	return nil
}
