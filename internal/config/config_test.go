package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: "9000"
geo:
  osrm_url: http://osrm.internal:5000
  cache: none
kafka:
  topic: file-topic
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DASHBOARD_TIMEOUT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9100" {
		t.Errorf("port = %q, want env override 9100", cfg.Server.Port)
	}
	if cfg.Geo.OSRMURL != "http://osrm.internal:5000" {
		t.Errorf("osrm url = %q", cfg.Geo.OSRMURL)
	}
	if cfg.Kafka.Topic != "file-topic" {
		t.Errorf("topic = %q", cfg.Kafka.Topic)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.Dashboard.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Dashboard.Timeout)
	}
	if cfg.Geo.NominatimURL == "" {
		t.Error("default nominatim url lost")
	}
}

func TestLoadRejectsRedisCacheWithoutURL(t *testing.T) {
	t.Setenv("GEOCODE_CACHE", "redis")
	t.Setenv("REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
