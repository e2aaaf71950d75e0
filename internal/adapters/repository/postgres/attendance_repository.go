package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hr-records/internal/core/attendance"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

// AttendanceRepository は attendance_check_ins テーブルを利用した出勤台帳の実装です。
// 出勤 1 回を 1 行として保持し、読み出し時に社員ごとへ集約します。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// FindByEmployeeID は社員の出勤記録を古い順に返します。
func (r *AttendanceRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*attendance.Log, error) {
	logs, err := r.query(ctx, `
        SELECT employee_id, employee_name, checked_in_at
          FROM attendance_check_ins
         WHERE employee_id = $1
         ORDER BY checked_in_at, id
    `, employeeID)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, attendance.ErrLogNotFound
	}
	return logs[0], nil
}

// List は社員 ID 順に全出勤記録を返します。
func (r *AttendanceRepository) List(ctx context.Context) ([]*attendance.Log, error) {
	return r.query(ctx, `
        SELECT employee_id, employee_name, checked_in_at
          FROM attendance_check_ins
         ORDER BY employee_id, checked_in_at, id
    `)
}

// AppendCheckIns は複数の出勤記録を 1 文で追加します。
func (r *AttendanceRepository) AppendCheckIns(ctx context.Context, checkIns []attendance.CheckIn) error {
	if len(checkIns) == 0 {
		return nil
	}

	ids := make([]string, 0, len(checkIns))
	names := make([]string, 0, len(checkIns))
	times := make([]time.Time, 0, len(checkIns))
	for _, c := range checkIns {
		ids = append(ids, c.EmployeeID)
		names = append(names, c.EmployeeName)
		times = append(times, c.At)
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `
        INSERT INTO attendance_check_ins (employee_id, employee_name, checked_in_at)
        SELECT * FROM unnest($1::text[], $2::text[], $3::timestamptz[])
    `, ids, names, times); err != nil {
		return translatePgError(err, attendance.ErrLogNotFound)
	}
	return nil
}

// DeleteByEmployeeID は社員の出勤記録をすべて削除します。
func (r *AttendanceRepository) DeleteByEmployeeID(ctx context.Context, employeeID string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM attendance_check_ins WHERE employee_id = $1`, employeeID); err != nil {
		return translatePgError(err, attendance.ErrLogNotFound)
	}
	return nil
}

// query は employee_id で整列済みの行を社員ごとの Log にまとめます。
// 表示名は空でない最新の値を採用します。
func (r *AttendanceRepository) query(ctx context.Context, sql string, args ...any) ([]*attendance.Log, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, translatePgError(err, attendance.ErrLogNotFound)
	}
	defer rows.Close()

	logs := make([]*attendance.Log, 0)
	var current *attendance.Log
	for rows.Next() {
		employeeID, name, at, err := scanCheckIn(rows)
		if err != nil {
			return nil, translatePgError(err, attendance.ErrLogNotFound)
		}

		if current == nil || current.EmployeeID != employeeID {
			current = &attendance.Log{EmployeeID: employeeID, CheckIns: []time.Time{}}
			logs = append(logs, current)
		}
		if name != "" {
			current.EmployeeName = name
		}
		current.CheckIns = append(current.CheckIns, at)
	}

	if err := rows.Err(); err != nil {
		return nil, translatePgError(err, attendance.ErrLogNotFound)
	}
	return logs, nil
}

func scanCheckIn(row pgx.Row) (string, string, time.Time, error) {
	var (
		employeeID string
		name       string
		at         time.Time
	)
	if err := row.Scan(&employeeID, &name, &at); err != nil {
		return "", "", time.Time{}, err
	}
	return employeeID, name, at, nil
}
