package jsonfile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/attendance"
)

func TestAttendanceRepository_RoundTripToTheSecond(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	loc := time.FixedZone("ICT", 7*60*60)
	first := time.Date(2025, 4, 1, 8, 30, 15, 0, loc)
	second := time.Date(2025, 4, 2, 8, 1, 2, 0, loc)

	if err := repo.AppendCheckIns(ctx, []attendance.CheckIn{{EmployeeID: "emp-1", EmployeeName: "Lan", At: first}}); err != nil {
		t.Fatalf("AppendCheckIns returned error: %v", err)
	}
	if err := repo.AppendCheckIns(ctx, []attendance.CheckIn{{EmployeeID: "emp-1", At: second}, {EmployeeID: "emp-2", EmployeeName: "Minh", At: second}}); err != nil {
		t.Fatalf("AppendCheckIns returned error: %v", err)
	}

	log, err := NewAttendanceRepository(store).FindByEmployeeID(ctx, "emp-1")
	if err != nil {
		t.Fatalf("FindByEmployeeID returned error: %v", err)
	}
	if log.EmployeeName != "Lan" {
		t.Fatalf("expected name kept when later check-in has none, got %q", log.EmployeeName)
	}
	if len(log.CheckIns) != 2 || !log.CheckIns[0].Equal(first) || !log.CheckIns[1].Equal(second) {
		t.Fatalf("unexpected check-ins: %v", log.CheckIns)
	}

	logs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(logs) != 2 || logs[0].EmployeeID != "emp-1" || logs[1].EmployeeID != "emp-2" {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}

func TestAttendanceRepository_DeleteAndMissing(t *testing.T) {
	t.Parallel()

	repo := NewAttendanceRepository(newTestStore(t))
	ctx := context.Background()

	if _, err := repo.FindByEmployeeID(ctx, "emp-1"); !errors.Is(err, attendance.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound on empty ledger, got %v", err)
	}
	if err := repo.DeleteByEmployeeID(ctx, "emp-1"); err != nil {
		t.Fatalf("expected delete of absent history to succeed, got %v", err)
	}

	if err := repo.AppendCheckIns(ctx, []attendance.CheckIn{{EmployeeID: "emp-1", At: time.Now()}}); err != nil {
		t.Fatalf("AppendCheckIns returned error: %v", err)
	}
	if err := repo.DeleteByEmployeeID(ctx, "emp-1"); err != nil {
		t.Fatalf("DeleteByEmployeeID returned error: %v", err)
	}
	if _, err := repo.FindByEmployeeID(ctx, "emp-1"); !errors.Is(err, attendance.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound after delete, got %v", err)
	}
}

func TestAttendanceRepository_WithService(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	svc := attendance.NewService(NewAttendanceRepository(store), nil, NewTransactionManager(store), nil, time.UTC)
	ctx := context.Background()

	refs := []attendance.EmployeeRef{{ID: "emp-1", Name: "Lan"}}
	if _, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceInput{Employees: refs}); err != nil {
		t.Fatalf("MarkAttendance returned error: %v", err)
	}
	results, err := svc.MarkAttendance(ctx, attendance.MarkAttendanceInput{Employees: refs})
	if err != nil {
		t.Fatalf("second MarkAttendance returned error: %v", err)
	}
	if results[0].Result != attendance.ResultAlreadyMarked {
		t.Fatalf("expected already marked, got %s", results[0].Result)
	}

	history, err := svc.History(ctx, "emp-1")
	if err != nil || len(history) != 1 {
		t.Fatalf("expected one check-in, got %v err=%v", history, err)
	}
}
