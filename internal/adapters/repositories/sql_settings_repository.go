package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Key/value settings stored in the configuracoes table.
type SQLSettingsRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLSettingsRepository(db *sql.DB, d Dialect) *SQLSettingsRepository {
	return &SQLSettingsRepository{DB: db, Dialect: d}
}

func (s *SQLSettingsRepository) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT chave, valor FROM configuracoes;`)
	if err != nil {
		return nil, fmt.Errorf("get settings: query configuracoes table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, 8)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("get settings: scan row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get settings: row iteration: %w", err)
	}
	return out, nil
}

// Upsert every key in one transaction.
func (s *SQLSettingsRepository) PutSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put settings: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Both SQLite (3.24+) and Postgres accept ON CONFLICT upserts.
	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO configuracoes (chave, valor, created_at)
	VALUES (?, ?, ?)
	ON CONFLICT (chave) DO UPDATE
	SET valor = EXCLUDED.valor;
	`))
	if err != nil {
		return fmt.Errorf("put settings: prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	for k, v := range values {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("put settings: empty key")
		}
		if _, err := stmt.ExecContext(ctx, k, v, now); err != nil {
			return fmt.Errorf("put settings key=%q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put settings: commit tx: %w", err)
	}
	return nil
}
