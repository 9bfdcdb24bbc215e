package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
	"time"
)

// database/sql implementation of the DeliveryRepository port.
type SQLDeliveryRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLDeliveryRepository(db *sql.DB, d Dialect) *SQLDeliveryRepository {
	return &SQLDeliveryRepository{DB: db, Dialect: d}
}

const deliveryColumns = `id, cliente, endereco, peso, volume, prazo, status, prioridade, observacao, veiculo_id, created_at`

func scanDelivery(row rowScanner) (*domain.Delivery, error) {
	var d domain.Delivery
	var deadline, created string
	var vehicleID sql.NullInt64
	err := row.Scan(
		&d.ID, &d.Client, &d.Address, &d.WeightKg, &d.VolumeM3, &deadline,
		&d.Status, &d.Priority, &d.Notes, &vehicleID, &created,
	)
	if err != nil {
		return nil, err
	}
	if d.Deadline, err = domain.ParseDeadline(deadline); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if vehicleID.Valid {
		id := vehicleID.Int64
		d.VehicleID = &id
	}
	return &d, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// Return all deliveries, earliest deadline first.
func (s *SQLDeliveryRepository) ListDeliveries(ctx context.Context) ([]*domain.Delivery, error) {
	if s.DB == nil {
		return nil, errors.New("sql delivery repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+deliveryColumns+` FROM entregas ORDER BY prazo, id;`)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: query entregas table: %w", err)
	}
	defer rows.Close()

	deliveries := make([]*domain.Delivery, 0, 64)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("list deliveries: scan row: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deliveries: row iteration: %w", err)
	}

	return deliveries, nil
}

func (s *SQLDeliveryRepository) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	q := s.Dialect.Rebind(`SELECT ` + deliveryColumns + ` FROM entregas WHERE id = ?;`)
	d, err := scanDelivery(s.DB.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get delivery id=%d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get delivery id=%d: %w", id, err)
	}
	return d, nil
}

func (s *SQLDeliveryRepository) CreateDelivery(ctx context.Context, d *domain.Delivery) error {
	q := s.Dialect.Rebind(`
	INSERT INTO entregas (cliente, endereco, peso, volume, prazo, status, prioridade, observacao, veiculo_id, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`)
	err := s.DB.QueryRowContext(ctx, q,
		d.Client, d.Address, d.WeightKg, d.VolumeM3, d.Deadline.String(), d.Status, d.Priority, d.Notes,
		nullableID(d.VehicleID), formatTime(d.CreatedAt),
	).Scan(&d.ID)
	if isForeignKeyViolation(err) {
		return unknownVehicle(d.VehicleID)
	}
	if err != nil {
		return fmt.Errorf("create delivery cliente=%q: %w", d.Client, err)
	}
	return nil
}

func (s *SQLDeliveryRepository) UpdateDelivery(ctx context.Context, d *domain.Delivery) error {
	q := s.Dialect.Rebind(`
	UPDATE entregas
	SET cliente = ?, endereco = ?, peso = ?, volume = ?, prazo = ?, status = ?, prioridade = ?, observacao = ?, veiculo_id = ?
	WHERE id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, q,
		d.Client, d.Address, d.WeightKg, d.VolumeM3, d.Deadline.String(), d.Status, d.Priority, d.Notes,
		nullableID(d.VehicleID), d.ID,
	)
	if isForeignKeyViolation(err) {
		return unknownVehicle(d.VehicleID)
	}
	if err != nil {
		return fmt.Errorf("update delivery id=%d: %w", d.ID, err)
	}
	return expectOneRow(res, "update delivery", d.ID)
}

func (s *SQLDeliveryRepository) DeleteDelivery(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, s.Dialect.Rebind(`DELETE FROM entregas WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("delete delivery id=%d: %w", id, err)
	}
	return expectOneRow(res, "delete delivery", id)
}

// Count deliveries per status with a deadline in [from, to).
func (s *SQLDeliveryRepository) CountByStatus(
	ctx context.Context,
	from, to time.Time,
) (map[domain.DeliveryStatus]int, error) {
	q := s.Dialect.Rebind(`
	SELECT status, COUNT(*)
	FROM entregas
	WHERE prazo >= ? AND prazo < ?
	GROUP BY status;
	`)
	rows, err := s.DB.QueryContext(ctx, q,
		domain.Deadline{Time: from}.String(), domain.Deadline{Time: to}.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("count deliveries by status: query: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.DeliveryStatus]int)
	for rows.Next() {
		var status domain.DeliveryStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("count deliveries by status: scan row: %w", err)
		}
		out[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count deliveries by status: row iteration: %w", err)
	}
	return out, nil
}

func unknownVehicle(id *int64) error {
	ve := &domain.ValidationError{Fields: []domain.FieldError{{
		Field:   "veiculo_id",
		Message: fmt.Sprintf("vehicle %d does not exist", derefID(id)),
	}}}
	return ve
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
