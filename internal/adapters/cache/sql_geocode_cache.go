package cache

import (
	"context"
	"database/sql"
	"errors"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/obs"
	"fmt"

	"github.com/sirupsen/logrus"
)

// SQLGeocodeCache is a Postgres-backed cache mapping addresses to geocode results.
type SQLGeocodeCache struct {
	DB  *sql.DB
	Log logrus.FieldLogger
}

func NewSQLGeocodeCache(db *sql.DB, log logrus.FieldLogger) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, Log: log}
}

// Fetch cached results for the given addresses.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.GeocodeResult, err error) {
	defer obs.Time(ctx, s.Log, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.GeocodeResult{}, nil
	}

	q := `
	SELECT address, lat, lon, display_name
	FROM geocode_cache
	WHERE address = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	return scanGeocodeRows(rows, len(uniq))
}

// Store address -> result mappings in the cache.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	return putMany(ctx, s.DB, `
	INSERT INTO geocode_cache (address, lat, lon, display_name)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		display_name = EXCLUDED.display_name;
	`, results)
}
