package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ogurasousui/hr-records/internal/adapters/report/excel"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	"github.com/ogurasousui/hr-records/internal/platform/logger"
	"github.com/ogurasousui/hr-records/internal/platform/storage"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		outPath    = flag.String("out", "", "output .xlsx path (defaults to payroll-YYYYMMDD.xlsx)")
	)
	flag.Parse()

	_ = godotenv.Load()

	os.Exit(run(*configPath, *outPath))
}

// run は終了コードを返します。defer による後始末は戻る前にすべて実行されます。
func run(configPath, outPath string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return 1
	}

	l, closer, err := logger.Init(cfg.Log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize logger")
		return 1
	}
	defer closer.Close()

	backend, err := storage.Open(ctx, cfg, l)
	if err != nil {
		l.Error().Err(err).Msg("failed to open storage")
		return 1
	}
	defer backend.Close()

	out := outPath
	if out == "" {
		out = "payroll-" + time.Now().Format("20060102") + ".xlsx"
	}

	services := storage.NewServices(backend, cfg.Attendance.Location, excel.NewPayrollExporter())
	if err := exportToFile(ctx, out, services.Payroll.ExportSalaries); err != nil {
		l.Error().Err(err).Str("path", out).Msg("failed to export payroll")
		return 1
	}

	l.Info().Str("path", out).Msg("payroll exported")
	return 0
}

// exportToFile は path を作成して export の出力を書き込みます。失敗した場合は書きかけのファイルを削除します。
func exportToFile(ctx context.Context, path string, export func(context.Context, io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				err = errors.Join(err, fmt.Errorf("remove partial %s: %w", path, rmErr))
			}
		}
	}()

	if err := export(ctx, f); err != nil {
		return errors.Join(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
