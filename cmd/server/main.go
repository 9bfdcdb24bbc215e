package main

import (
	"context"
	"database/sql"
	"errors"
	"fleet-dashboard/internal/adapters/cache"
	"fleet-dashboard/internal/adapters/events"
	"fleet-dashboard/internal/adapters/osm"
	"fleet-dashboard/internal/adapters/repositories"
	"fleet-dashboard/internal/api"
	"fleet-dashboard/internal/config"
	"fleet-dashboard/internal/platform/db"
	"fleet-dashboard/internal/platform/logging"
	"fleet-dashboard/internal/platform/obs"
	"fleet-dashboard/internal/ports"
	"fleet-dashboard/internal/services"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (SQL, OSM services, Redis, Kafka) behind ports
// and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Logger.Level, cfg.Logger.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	dialect := repositories.Dialect(cfg.Database.Driver)
	dsn := cfg.Database.Path
	if dialect == repositories.Postgres {
		dsn = cfg.Database.URL
	}

	conn, err := db.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Schema and default rows are created on startup.
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return err
	}
	if err := repositories.SeedDefaults(ctx, conn, dialect); err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return err
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	geoCache := geocodeCache(cfg, conn, dialect, rdb, log)

	broker := events.NewBroker(16)
	publishers := events.Fanout{broker}
	if rdb != nil {
		// Local changes go through Redis so every replica's dashboards see them.
		publishers = events.Fanout{events.NewRedisPublisher(rdb, events.DefaultChannel)}
		go func() {
			if err := events.Relay(ctx, rdb, events.DefaultChannel, broker, log, nil); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("redis relay stopped")
			}
		}()
	}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := events.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		defer sink.Close()
		publishers = append(publishers, sink)
	}

	vehicles := repositories.NewSQLVehicleRepository(conn, dialect)
	deliveries := repositories.NewSQLDeliveryRepository(conn, dialect)
	settings := repositories.NewSQLSettingsRepository(conn, dialect)
	routes := repositories.NewSQLRouteRepository(conn, dialect)

	obs.RegisterDefault()

	router := api.NewRouter(api.Deps{
		Geocode: &services.GeocodeService{
			Geocoder: osm.NewNominatim(cfg.Geo.NominatimURL, cfg.Geo.UserAgent, log),
			Cache:    geoCache,
			Log:      log,
		},
		Routes: &services.RouteService{
			Router:   osm.NewOSRM(cfg.Geo.OSRMURL, cfg.Geo.UserAgent, log),
			Vehicles: vehicles,
			Settings: settings,
			Routes:   routes,
			Events:   publishers,
			Log:      log,
		},
		Fleet:     &services.FleetService{Vehicles: vehicles, Deliveries: deliveries, Events: publishers, Log: log},
		Dashboard: &services.DashboardService{Vehicles: vehicles, Deliveries: deliveries, Routes: routes},
		Settings:  &services.SettingsService{Repo: settings, Events: publishers, Log: log},
		Export:    &services.ExportService{Deliveries: deliveries, Vehicles: vehicles, Dir: cfg.Export.Dir},
		Events:    events.NewHub(broker, log),
		Metrics:   obs.Registry,
		Log:       log,
	})

	// Timeouts are tuned for cold-cache route calculation (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "db": cfg.Database.Driver, "geocode_cache": cfg.Geo.Cache}).Info("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// geocodeCache picks the cache backend. The result is nil when caching is
// disabled, never a typed nil.
func geocodeCache(cfg *config.Config, conn *sql.DB, dialect repositories.Dialect, rdb *redis.Client, log logrus.FieldLogger) ports.GeocodeCache {
	switch cfg.Geo.Cache {
	case "redis":
		return cache.NewRedisGeocodeCache(rdb, cfg.Geo.CacheTTL)
	case "sql":
		if dialect == repositories.Postgres {
			return cache.NewSQLGeocodeCache(conn, log)
		}
		return cache.NewSqliteGeocodeCache(conn)
	}
	return nil
}
