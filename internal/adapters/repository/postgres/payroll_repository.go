package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hr-records/internal/core/payroll"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

var errSalaryRecordNotFound = errors.New("postgres: salary record not found")

// PayrollRepository は salary_records テーブルを利用した給与計算履歴の実装です。
// 金額は NUMERIC で保持し、文字列経由で decimal と相互変換します。
type PayrollRepository struct {
	pool pgdb.Queryer
}

// NewPayrollRepository は PayrollRepository を生成します。
func NewPayrollRepository(pool pgdb.Queryer) *PayrollRepository {
	return &PayrollRepository{pool: pool}
}

// Append は給与計算結果を 1 行追加します。
func (r *PayrollRepository) Append(ctx context.Context, rec *payroll.SalaryRecord) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO salary_records (employee_id, employee_code, employee_name, department_id, salary_ref,
                                    bonus, penalty, total, calculated_at)
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9)
    `,
		rec.EmployeeID,
		rec.EmployeeCode,
		rec.EmployeeName,
		rec.DepartmentID,
		rec.SalaryRef,
		rec.Bonus.String(),
		rec.Penalty.String(),
		rec.Total.String(),
		rec.CalculatedAt,
	); err != nil {
		return translatePgError(err, errSalaryRecordNotFound)
	}
	return nil
}

// List は記録順に全件を返します。
func (r *PayrollRepository) List(ctx context.Context) ([]*payroll.SalaryRecord, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT employee_id, employee_code, employee_name, department_id, salary_ref,
               bonus::text, penalty::text, total::text, calculated_at
          FROM salary_records
         ORDER BY id
    `)
	if err != nil {
		return nil, translatePgError(err, errSalaryRecordNotFound)
	}
	defer rows.Close()

	records := make([]*payroll.SalaryRecord, 0)
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, translatePgError(err, errSalaryRecordNotFound)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, errSalaryRecordNotFound)
	}
	return records, nil
}

func scanSalaryRecord(row pgx.Row) (*payroll.SalaryRecord, error) {
	var (
		rec                   payroll.SalaryRecord
		bonus, penalty, total string
	)
	if err := row.Scan(
		&rec.EmployeeID,
		&rec.EmployeeCode,
		&rec.EmployeeName,
		&rec.DepartmentID,
		&rec.SalaryRef,
		&bonus,
		&penalty,
		&total,
		&rec.CalculatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.Bonus, err = decimal.NewFromString(bonus); err != nil {
		return nil, fmt.Errorf("postgres: parse bonus %q: %w", bonus, err)
	}
	if rec.Penalty, err = decimal.NewFromString(penalty); err != nil {
		return nil, fmt.Errorf("postgres: parse penalty %q: %w", penalty, err)
	}
	if rec.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("postgres: parse total %q: %w", total, err)
	}
	return &rec, nil
}
