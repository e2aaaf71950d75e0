package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Parse()

	_ = godotenv.Load()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	l, closer, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closer.Close()

	if cfg.Storage.Driver != config.DriverPostgres {
		l.Fatal().Str("driver", cfg.Storage.Driver).Msg("migrations are only available for the postgres driver")
	}

	if err := runMigration(l, action, *migrationsDir, cfg.Database.DSN()); err != nil {
		l.Fatal().Err(err).Str("action", action).Msg("migration failed")
	}

	l.Info().Str("action", action).Msg("migration completed")
}

func runMigration(l zerolog.Logger, action, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				l.Info().Msg("no migration applied")
				return nil
			}
			return err
		}
		l.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
