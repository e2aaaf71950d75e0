package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/attendance"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestAttendanceRepository_FindByEmployeeID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAttendanceRepository(mock)

	first := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	rows := pgxmock.NewRows([]string{"employee_id", "employee_name", "checked_in_at"}).
		AddRow("emp-1", "Lan", first).
		AddRow("emp-1", "", second)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE employee_id = $1")).
		WithArgs("emp-1").
		WillReturnRows(rows)

	log, err := repo.FindByEmployeeID(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("FindByEmployeeID returned error: %v", err)
	}
	if log.EmployeeName != "Lan" || len(log.CheckIns) != 2 || !log.CheckIns[1].Equal(second) {
		t.Fatalf("unexpected log: %+v", log)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_FindByEmployeeID_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAttendanceRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_check_ins")).
		WithArgs("emp-9").
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "employee_name", "checked_in_at"}))

	if _, err := repo.FindByEmployeeID(context.Background(), "emp-9"); !errors.Is(err, attendance.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_ListGroupsByEmployee(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAttendanceRepository(mock)

	at := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"employee_id", "employee_name", "checked_in_at"}).
		AddRow("a", "An", at).
		AddRow("a", "An", at.Add(24*time.Hour)).
		AddRow("b", "Binh", at)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY employee_id, checked_in_at, id")).WillReturnRows(rows)

	logs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(logs) != 2 || len(logs[0].CheckIns) != 2 || logs[1].EmployeeID != "b" {
		t.Fatalf("unexpected logs: %+v", logs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAttendanceRepository_AppendAndDelete(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewAttendanceRepository(mock)

	at := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance_check_ins")).
		WithArgs([]string{"a", "b"}, []string{"An", "Binh"}, []time.Time{at, at}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_check_ins")).
		WithArgs("never").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.AppendCheckIns(context.Background(), []attendance.CheckIn{
		{EmployeeID: "a", EmployeeName: "An", At: at},
		{EmployeeID: "b", EmployeeName: "Binh", At: at},
	})
	if err != nil {
		t.Fatalf("AppendCheckIns returned error: %v", err)
	}
	if err := repo.DeleteByEmployeeID(context.Background(), "never"); err != nil {
		t.Fatalf("expected delete of absent history to succeed, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
