// Package config loads service and dashboard settings from an optional YAML
// file, a .env file, and the process environment (in that order of
// precedence, lowest first).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Geo       GeoConfig       `yaml:"geo"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Logger    LoggerConfig    `yaml:"logger"`
	Export    ExportConfig    `yaml:"export"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	// sqlite or pgx.
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

type GeoConfig struct {
	NominatimURL string `yaml:"nominatim_url"`
	OSRMURL      string `yaml:"osrm_url"`
	UserAgent    string `yaml:"user_agent"`
	// sql, redis or none.
	Cache    string        `yaml:"cache"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// DashboardConfig configures the terminal dashboard client.
type DashboardConfig struct {
	APIURL      string        `yaml:"api_url"`
	Preferences string        `yaml:"preferences"`
	Timeout     time.Duration `yaml:"timeout"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         "5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Database: DatabaseConfig{Driver: "sqlite", Path: "data/delivery.db"},
		Geo: GeoConfig{
			NominatimURL: "https://nominatim.openstreetmap.org",
			OSRMURL:      "http://router.project-osrm.org",
			UserAgent:    "fleet-dashboard/1.0",
			Cache:        "sql",
			CacheTTL:     30 * 24 * time.Hour,
		},
		Kafka:  KafkaConfig{Topic: "fleet-dashboard.events"},
		Logger: LoggerConfig{Level: "info", Format: "text"},
		Export: ExportConfig{Dir: "data"},
		Dashboard: DashboardConfig{
			APIURL:      "http://localhost:5000",
			Preferences: "dashboard-prefs.yaml",
			Timeout:     30 * time.Second,
		},
	}
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.mergeEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.Server.Port = Get("PORT", c.Server.Port)
	c.Server.ReadTimeout = getDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.Database.Driver = Get("DB_DRIVER", c.Database.Driver)
	c.Database.Path = Get("DB_PATH", c.Database.Path)
	c.Database.URL = Get("DATABASE_URL", c.Database.URL)

	c.Geo.NominatimURL = Get("NOMINATIM_URL", c.Geo.NominatimURL)
	c.Geo.OSRMURL = Get("OSRM_URL", c.Geo.OSRMURL)
	c.Geo.UserAgent = Get("GEOCODE_USER_AGENT", c.Geo.UserAgent)
	c.Geo.Cache = Get("GEOCODE_CACHE", c.Geo.Cache)
	c.Geo.CacheTTL = getDuration("GEOCODE_CACHE_TTL", c.Geo.CacheTTL)

	c.Redis.URL = Get("REDIS_URL", c.Redis.URL)

	if v := Get("KAFKA_BROKERS", ""); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	c.Kafka.Topic = Get("KAFKA_TOPIC", c.Kafka.Topic)

	c.Logger.Level = Get("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = Get("LOG_FORMAT", c.Logger.Format)

	c.Export.Dir = Get("EXPORT_DIR", c.Export.Dir)

	c.Dashboard.APIURL = Get("DASHBOARD_API_URL", c.Dashboard.APIURL)
	c.Dashboard.Preferences = Get("DASHBOARD_PREFS", c.Dashboard.Preferences)
	c.Dashboard.Timeout = getDuration("DASHBOARD_TIMEOUT", c.Dashboard.Timeout)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("config: DB_PATH is required for sqlite")
		}
	case "pgx":
		if strings.TrimSpace(c.Database.URL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required for pgx")
		}
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Geo.Cache {
	case "sql", "none":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("config: GEOCODE_CACHE=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("config: unknown GEOCODE_CACHE %q", c.Geo.Cache)
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare integers are seconds.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
