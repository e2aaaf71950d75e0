package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/shopspring/decimal"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// ActivityRecorder は操作履歴への記録を抽象化します。
type ActivityRecorder interface {
	Record(ctx context.Context, text string) error
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string) error { return nil }

// UseCase は給与計算ユースケースの公開インターフェースです。
type UseCase interface {
	ComputeSalary(ctx context.Context, in ComputeSalaryInput) (*SalaryRecord, error)
	ListSalaries(ctx context.Context, in ListSalariesInput) ([]*SalaryRecord, error)
	ExportSalaries(ctx context.Context, w io.Writer) error
}

// Service は給与計算に関するユースケースをまとめます。
type Service struct {
	repo      Repository
	employees EmployeeFinder
	exporter  Exporter
	clock     Clock
	tx        TransactionManager
	activity  ActivityRecorder
}

// NewService は Service を生成します。exporter は nil でも構いません。
func NewService(repo Repository, employees EmployeeFinder, exporter Exporter, clock Clock, tx TransactionManager, activity ActivityRecorder) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if activity == nil {
		activity = noopRecorder{}
	}
	return &Service{
		repo:      repo,
		employees: employees,
		exporter:  exporter,
		clock:     clock,
		tx:        tx,
		activity:  activity,
	}
}

// ComputeSalaryInput は給与計算の入力です。Bonus と Penalty は負の値も許容します。
type ComputeSalaryInput struct {
	EmployeeID string
	Bonus      decimal.Decimal
	Penalty    decimal.Decimal
}

// ListSalariesInput は給与履歴取得の入力です。
type ListSalariesInput struct {
	SortByDepartment bool
}

// ComputeSalary は基本給 + 賞与 - 控除で支給額を計算し、履歴に追記します。
// 支給額に下限は設けません。
func (s *Service) ComputeSalary(ctx context.Context, in ComputeSalaryInput) (*SalaryRecord, error) {
	id := strings.TrimSpace(in.EmployeeID)
	if id == "" {
		return nil, ErrInvalidEmployeeID
	}

	var record *SalaryRecord
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		emp, err := s.employees.FindByID(txCtx, id)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return ErrEmployeeNotFound
		}
		if err != nil {
			return err
		}

		base, err := decimal.NewFromString(strings.TrimSpace(emp.SalaryRef))
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidSalary, emp.SalaryRef)
		}

		r := &SalaryRecord{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.Code,
			EmployeeName: emp.Name,
			DepartmentID: emp.DepartmentID,
			SalaryRef:    emp.SalaryRef,
			Bonus:        in.Bonus,
			Penalty:      in.Penalty,
			Total:        base.Add(in.Bonus).Sub(in.Penalty),
			CalculatedAt: s.clock.Now().Truncate(time.Second),
		}

		if err := s.repo.Append(txCtx, r); err != nil {
			return err
		}

		if err := s.activity.Record(txCtx, "Salary computed for employee: "+emp.Name); err != nil {
			return fmt.Errorf("payroll: record activity: %w", err)
		}

		record = r
		return nil
	}); err != nil {
		return nil, err
	}

	return record, nil
}

// ListSalaries は給与計算履歴を全件返します。同じ社員の複数回の計算も重複排除しません。
func (s *Service) ListSalaries(ctx context.Context, in ListSalariesInput) ([]*SalaryRecord, error) {
	var records []*SalaryRecord
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		records = result
		return nil
	}); err != nil {
		return nil, err
	}

	if in.SortByDepartment {
		slices.SortStableFunc(records, func(a, b *SalaryRecord) int {
			return strings.Compare(a.DepartmentID, b.DepartmentID)
		})
	}
	return records, nil
}

// ExportSalaries は部署順に並べた給与計算履歴を w に書き出します。
func (s *Service) ExportSalaries(ctx context.Context, w io.Writer) error {
	if s.exporter == nil {
		return ErrExporterNotConfigured
	}

	records, err := s.ListSalaries(ctx, ListSalariesInput{SortByDepartment: true})
	if err != nil {
		return err
	}
	return s.exporter.ExportSalaries(ctx, w, records)
}
