package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

const employeeColumns = `id, code, department_id, salary_ref, name, date_of_birth, gender, ethnicity,
               national_id, id_issue_place, job_title, hired_at, position, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は UUID を採番し、表示順の末尾に社員を追加します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (id, code, department_id, salary_ref, name, date_of_birth, gender, ethnicity,
                               national_id, id_issue_place, job_title, hired_at, position, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
                (SELECT COALESCE(MAX(position), 0) + 1 FROM employees), $13, $14)
        RETURNING `+employeeColumns,
		uuid.NewString(),
		e.Code,
		e.DepartmentID,
		e.SalaryRef,
		e.Name,
		dateOnly(e.DateOfBirth),
		e.Gender,
		e.Ethnicity,
		e.NationalID,
		e.IDIssuePlace,
		e.JobTitle,
		e.HiredAt,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err, employee.ErrEmployeeNotFound)
	}
	return created, nil
}

// Update は社員情報を更新します。表示順は変更しません。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET code = $1,
               department_id = $2,
               salary_ref = $3,
               name = $4,
               date_of_birth = $5,
               gender = $6,
               ethnicity = $7,
               national_id = $8,
               id_issue_place = $9,
               job_title = $10,
               updated_at = $11
         WHERE id = $12
        RETURNING `+employeeColumns,
		e.Code,
		e.DepartmentID,
		e.SalaryRef,
		e.Name,
		dateOnly(e.DateOfBirth),
		e.Gender,
		e.Ethnicity,
		e.NationalID,
		e.IDIssuePlace,
		e.JobTitle,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err, employee.ErrEmployeeNotFound)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translatePgError(err, employee.ErrEmployeeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err, employee.ErrEmployeeNotFound)
	}
	return found, nil
}

// FindByCode は表示順で最初に社員番号が一致した社員を返します。
func (r *EmployeeRepository) FindByCode(ctx context.Context, code string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE code = $1
         ORDER BY position, created_at, id
         LIMIT 1
    `, code)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err, employee.ErrEmployeeNotFound)
	}
	return found, nil
}

// List は表示順で全社員を返します。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY position, created_at, id
    `)
	if err != nil {
		return nil, translatePgError(err, employee.ErrEmployeeNotFound)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translatePgError(err, employee.ErrEmployeeNotFound)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, employee.ErrEmployeeNotFound)
	}
	return employees, nil
}

// Reorder は ids の並び順で position を振り直します。
func (r *EmployeeRepository) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        UPDATE employees AS e
           SET position = o.ord
          FROM unnest($1::text[]) WITH ORDINALITY AS o(id, ord)
         WHERE e.id = o.id
    `, ids); err != nil {
		return translatePgError(err, employee.ErrEmployeeNotFound)
	}
	return nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(
		&e.ID,
		&e.Code,
		&e.DepartmentID,
		&e.SalaryRef,
		&e.Name,
		&e.DateOfBirth,
		&e.Gender,
		&e.Ethnicity,
		&e.NationalID,
		&e.IDIssuePlace,
		&e.JobTitle,
		&e.HiredAt,
		&e.Position,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	e.DateOfBirth = dateOnly(e.DateOfBirth)
	return &e, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
