package storage

import (
	"context"
	"fmt"

	"github.com/ogurasousui/hr-records/internal/adapters/repository/jsonfile"
	"github.com/ogurasousui/hr-records/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-records/internal/core/activity"
	"github.com/ogurasousui/hr-records/internal/core/attendance"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"github.com/ogurasousui/hr-records/internal/core/project"
	"github.com/ogurasousui/hr-records/internal/platform/config"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
	"github.com/rs/zerolog"
)

// TransactionManager は全ユースケースで共有するトランザクション制御です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

// Repositories は永続化バックエンドごとのリポジトリ一式です。
type Repositories struct {
	Employees  employee.Repository
	Projects   project.Repository
	Attendance attendance.Repository
	Payroll    payroll.Repository
	Activity   activity.Repository
}

// Backend は選択された永続化バックエンドです。
type Backend struct {
	Driver string
	Repositories
	Tx TransactionManager

	close func()
}

// Close はバックエンドが保持する資源を解放します。
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// Open は storage.driver に従ってバックエンドを初期化します。
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverJSONFile, "":
		return OpenJSONFile(cfg.Storage.Dir, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.Database, logger)
	default:
		return nil, fmt.Errorf("storage: driver %q is not supported", cfg.Storage.Driver)
	}
}

// OpenJSONFile は dir 配下の JSON ファイルを使うバックエンドを返します。
func OpenJSONFile(dir string, logger zerolog.Logger) (*Backend, error) {
	store, err := jsonfile.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: open jsonfile store: %w", err)
	}

	logger.Info().Str("driver", config.DriverJSONFile).Str("dir", store.Dir()).Msg("storage opened")

	return &Backend{
		Driver: config.DriverJSONFile,
		Repositories: Repositories{
			Employees:  jsonfile.NewEmployeeRepository(store),
			Projects:   jsonfile.NewProjectRepository(store),
			Attendance: jsonfile.NewAttendanceRepository(store),
			Payroll:    jsonfile.NewPayrollRepository(store),
			Activity:   jsonfile.NewActivityRepository(store),
		},
		Tx:    jsonfile.NewTransactionManager(store),
		close: func() {},
	}, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Backend, error) {
	pool, err := pgdb.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: open postgres pool: %w", err)
	}

	logger.Info().Str("driver", config.DriverPostgres).Str("host", cfg.Host).Str("database", cfg.Name).Msg("storage opened")

	return &Backend{
		Driver: config.DriverPostgres,
		Repositories: Repositories{
			Employees:  postgres.NewEmployeeRepository(pool),
			Projects:   postgres.NewProjectRepository(pool),
			Attendance: postgres.NewAttendanceRepository(pool),
			Payroll:    postgres.NewPayrollRepository(pool),
			Activity:   postgres.NewActivityRepository(pool),
		},
		Tx:    pgdb.NewTransactionManager(pool),
		close: pool.Close,
	}, nil
}
