package main

import (
	"context"
	"flag"
	"fleet-dashboard/internal/adapters/repositories"
	"fleet-dashboard/internal/config"
	"fleet-dashboard/internal/platform/db"
	"fleet-dashboard/internal/platform/logging"
	"fleet-dashboard/internal/services"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const usage = `usage: dbtool <command>

commands:
  init     create the schema
  seed     create the schema and insert the default vehicles and settings
  export   write the deliveries workbook to the export directory
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.Logger.Level, cfg.Logger.Format)

	if err := run(context.Background(), cfg, log, flag.Arg(0)); err != nil {
		log.WithError(err).Fatal("dbtool failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger, cmd string) error {
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

	switch cmd {
	case "init":
		log.Info("initializing database schema")
		if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		log.Info("schema ready")

	case "seed":
		if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		log.Info("seeding database")
		if err := repositories.SeedDefaults(ctx, conn, dialect); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		log.Info("seeding complete")

	case "export":
		svc := &services.ExportService{
			Deliveries: repositories.NewSQLDeliveryRepository(conn, dialect),
			Vehicles:   repositories.NewSQLVehicleRepository(conn, dialect),
			Dir:        cfg.Export.Dir,
		}
		path, err := svc.WriteFile(ctx)
		if err != nil {
			return err
		}
		log.WithField("path", path).Info("export written")

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
