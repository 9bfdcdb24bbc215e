package cache

import (
	"context"
	"fleet-dashboard/internal/adapters/repositories"
	"fleet-dashboard/internal/domain"
	"fleet-dashboard/internal/platform/db"
	"fleet-dashboard/internal/ports"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	_ ports.GeocodeCache = (*SqliteGeocodeCache)(nil)
	_ ports.GeocodeCache = (*SQLGeocodeCache)(nil)
	_ ports.GeocodeCache = (*RedisGeocodeCache)(nil)
)

func exerciseCache(t *testing.T, c ports.GeocodeCache) {
	t.Helper()
	ctx := context.Background()

	sp := domain.GeocodeResult{Coordinates: domain.Coordinates{Lat: -23.55, Lon: -46.63}, DisplayName: "São Paulo"}
	if err := c.PutMany(ctx, map[string]domain.GeocodeResult{"Praca da Se": sp}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.GetMany(ctx, []string{"Praca da Se", " Praca da Se ", "missing", ""})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("hits = %d, want 1 (%v)", len(got), got)
	}
	if got["Praca da Se"] != sp {
		t.Fatalf("cached = %+v, want %+v", got["Praca da Se"], sp)
	}

	if err := c.PutMany(ctx, map[string]domain.GeocodeResult{"": sp}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSqliteGeocodeCache(t *testing.T) {
	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := repositories.InitSchema(context.Background(), conn, repositories.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	exerciseCache(t, NewSqliteGeocodeCache(conn))
}

func TestRedisGeocodeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	c := NewRedisGeocodeCache(rdb, time.Hour)
	exerciseCache(t, c)

	mr.FastForward(2 * time.Hour)
	got, err := c.GetMany(context.Background(), []string{"Praca da Se"})
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected entry to expire, got %v", got)
	}
}
