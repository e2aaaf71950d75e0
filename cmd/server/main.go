package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ogurasousui/hr-records/internal/adapters/report/excel"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
	"github.com/ogurasousui/hr-records/internal/platform/server"
	"github.com/ogurasousui/hr-records/internal/platform/storage"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	l, closer, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")
	}
	defer closer.Close()

	backend, err := storage.Open(ctx, cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open storage")
	}
	defer backend.Close()

	services := storage.NewServices(backend, cfg.Attendance.Location, excel.NewPayrollExporter())
	grpcServer := server.New(cfg.Server.ListenAddr, services, l)

	l.Info().
		Str("driver", backend.Driver).
		Str("timezone", cfg.Attendance.Location.String()).
		Msg("hr-records starting")

	if err := grpcServer.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("server stopped with error")
	}
}
