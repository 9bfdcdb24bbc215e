package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to SQLite (driver "sqlite", dsn is a file path) or Postgres
// (driver "pgx", dsn is a database URL) and verifies the connection.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "sqlite":
		// Foreign keys are off by default in SQLite.
		dsn = dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	case "pgx":
	default:
		return nil, fmt.Errorf("openDB: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("openDB: open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// A single writer avoids SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("openDB: verify %s connection: %w", driver, err)
	}

	return db, nil
}
