package jsonfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"github.com/shopspring/decimal"
)

const maxPayrollLineSize = 1 << 20

type salaryLine struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code"`
	EmployeeName string          `json:"employee_name"`
	DepartmentID string          `json:"department_id"`
	SalaryRef    string          `json:"salary"`
	Bonus        decimal.Decimal `json:"bonus"`
	Penalty      decimal.Decimal `json:"penalty"`
	Total        decimal.Decimal `json:"total"`
	CalculatedAt time.Time       `json:"calculated_at"`
}

// PayrollRepository は payroll.jsonl に 1 行 1 件で給与計算履歴を追記します。
type PayrollRepository struct {
	store *Store
}

// NewPayrollRepository は PayrollRepository を生成します。
func NewPayrollRepository(store *Store) *PayrollRepository {
	return &PayrollRepository{store: store}
}

// Append は 1 件を末尾に追記します。既存の行は書き換えません。
func (r *PayrollRepository) Append(ctx context.Context, rec *payroll.SalaryRecord) error {
	line, err := json.Marshal(salaryLine{
		EmployeeID:   rec.EmployeeID,
		EmployeeCode: rec.EmployeeCode,
		EmployeeName: rec.EmployeeName,
		DepartmentID: rec.DepartmentID,
		SalaryRef:    rec.SalaryRef,
		Bonus:        rec.Bonus,
		Penalty:      rec.Penalty,
		Total:        rec.Total,
		CalculatedAt: rec.CalculatedAt,
	})
	if err != nil {
		return fmt.Errorf("jsonfile: encode salary record: %w", err)
	}

	return r.store.locked(ctx, func(context.Context) error {
		f, err := os.OpenFile(r.store.path(payrollFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("jsonfile: open %s: %w", payrollFile, err)
		}

		if _, err := f.Write(append(line, '\n')); err != nil {
			_ = f.Close()
			return fmt.Errorf("jsonfile: append %s: %w", payrollFile, err)
		}
		if err := f.Sync(); err != nil {
			_ = f.Close()
			return fmt.Errorf("jsonfile: sync %s: %w", payrollFile, err)
		}
		return f.Close()
	})
}

// List は記録順に全件を返します。空行は読み飛ばします。
func (r *PayrollRepository) List(ctx context.Context) ([]*payroll.SalaryRecord, error) {
	var records []*payroll.SalaryRecord
	err := r.store.locked(ctx, func(context.Context) error {
		f, err := os.Open(r.store.path(payrollFile))
		if errors.Is(err, fs.ErrNotExist) {
			records = []*payroll.SalaryRecord{}
			return nil
		}
		if err != nil {
			return fmt.Errorf("jsonfile: open %s: %w", payrollFile, err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), maxPayrollLineSize)

		records = make([]*payroll.SalaryRecord, 0)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			raw := bytes.TrimSpace(scanner.Bytes())
			if len(raw) == 0 {
				continue
			}

			var line salaryLine
			if err := json.Unmarshal(raw, &line); err != nil {
				return fmt.Errorf("jsonfile: decode %s line %d: %w", payrollFile, lineNo, err)
			}
			records = append(records, &payroll.SalaryRecord{
				EmployeeID:   line.EmployeeID,
				EmployeeCode: line.EmployeeCode,
				EmployeeName: line.EmployeeName,
				DepartmentID: line.DepartmentID,
				SalaryRef:    line.SalaryRef,
				Bonus:        line.Bonus,
				Penalty:      line.Penalty,
				Total:        line.Total,
				CalculatedAt: line.CalculatedAt,
			})
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("jsonfile: read %s: %w", payrollFile, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
