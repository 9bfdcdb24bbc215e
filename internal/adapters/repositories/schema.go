package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-dashboard/internal/domain"
	"fmt"
	"time"
)

func schemaStatements(d Dialect) []string {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	float := "REAL"
	if d == Postgres {
		id = "BIGSERIAL PRIMARY KEY"
		float = "DOUBLE PRECISION"
	}

	return []string{
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS configuracoes (
		id %s,
		chave VARCHAR(50) NOT NULL UNIQUE,
		valor VARCHAR(200) NOT NULL,
		created_at TEXT NOT NULL
	);
	`, id),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS veiculos (
		id %[1]s,
		placa VARCHAR(10) NOT NULL UNIQUE,
		tipo VARCHAR(20) NOT NULL,
		modelo VARCHAR(50) NOT NULL DEFAULT '',
		capacidade %[2]s NOT NULL,
		consumo %[2]s NOT NULL,
		custo_hora %[2]s NOT NULL DEFAULT 25.0,
		status VARCHAR(20) NOT NULL DEFAULT 'disponivel',
		cor VARCHAR(7) NOT NULL DEFAULT '#3498db',
		created_at TEXT NOT NULL
	);
	`, id, float),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS entregas (
		id %[1]s,
		cliente VARCHAR(100) NOT NULL,
		endereco VARCHAR(200) NOT NULL,
		peso %[2]s NOT NULL,
		volume %[2]s NOT NULL DEFAULT 0,
		prazo TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pendente',
		prioridade VARCHAR(20) NOT NULL DEFAULT 'normal',
		observacao TEXT NOT NULL DEFAULT '',
		veiculo_id BIGINT REFERENCES veiculos(id) ON DELETE SET NULL,
		created_at TEXT NOT NULL
	);
	`, id, float),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS rotas (
		id %[1]s,
		nome VARCHAR(100) NOT NULL,
		veiculo_id BIGINT REFERENCES veiculos(id) ON DELETE SET NULL,
		waypoints TEXT NOT NULL,
		distancia %[2]s NOT NULL,
		tempo_estimado %[2]s NOT NULL,
		custo_combustivel %[2]s NOT NULL,
		custo_funcionario %[2]s NOT NULL,
		custo_total %[2]s NOT NULL,
		created_at TEXT NOT NULL
	);
	`, id, float),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat %[1]s NOT NULL,
		lon %[1]s NOT NULL,
		display_name TEXT NOT NULL DEFAULT ''
	);
	`, float),
		`CREATE INDEX IF NOT EXISTS idx_entregas_prazo ON entregas(prazo);`,
		`CREATE INDEX IF NOT EXISTS idx_rotas_created_at ON rotas(created_at);`,
	}
}

// Initialize the database schema.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements(d) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SampleVehicles are inserted into an empty fleet on first start.
var SampleVehicles = []domain.VehicleInput{
	{Plate: "ABC-1234", Type: domain.VehicleVan, Model: ptr("Mercedes Sprinter"), CapacityKg: 800, KmPerLiter: 8.5, Color: ptr("#3498db")},
	{Plate: "XYZ-5678", Type: domain.VehicleMoto, Model: ptr("Honda CG 160"), CapacityKg: 50, KmPerLiter: 30.0, Color: ptr("#e74c3c")},
	{Plate: "DEF-9012", Type: domain.VehicleTruck, Model: ptr("Volvo FH"), CapacityKg: 2000, KmPerLiter: 5.5, Color: ptr("#2ecc71")},
}

func ptr[T any](v T) *T { return &v }

// SeedDefaults writes default settings and sample vehicles when the
// respective tables are empty. Existing rows are never touched.
func SeedDefaults(ctx context.Context, db *sql.DB, d Dialect) error {
	var settingsCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM configuracoes;`).Scan(&settingsCount); err != nil {
		return fmt.Errorf("seed defaults: count settings: %w", err)
	}
	if settingsCount == 0 {
		settings := NewSQLSettingsRepository(db, d)
		if err := settings.PutSettings(ctx, domain.DefaultSettings); err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
	}

	vehicles := NewSQLVehicleRepository(db, d)
	n, err := vehicles.CountVehicles(ctx)
	if err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now()
	for _, in := range SampleVehicles {
		v := domain.NewVehicle(in)
		v.CreatedAt = now
		if err := vehicles.CreateVehicle(ctx, v); err != nil {
			return fmt.Errorf("seed defaults: insert vehicle %s: %w", in.Plate, err)
		}
	}

	return nil
}
