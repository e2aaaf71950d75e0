package payroll

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/shopspring/decimal"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type recordingActivity struct {
	lines []string
}

func (r *recordingActivity) Record(_ context.Context, text string) error {
	r.lines = append(r.lines, text)
	return nil
}

type fakeFinder struct {
	employees map[string]*employee.Employee
}

func (f *fakeFinder) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	copy := *emp
	return &copy, nil
}

type fakePayrollRepo struct {
	records []*SalaryRecord
}

func (r *fakePayrollRepo) Append(_ context.Context, rec *SalaryRecord) error {
	copy := *rec
	r.records = append(r.records, &copy)
	return nil
}

func (r *fakePayrollRepo) List(_ context.Context) ([]*SalaryRecord, error) {
	out := make([]*SalaryRecord, 0, len(r.records))
	for _, rec := range r.records {
		copy := *rec
		out = append(out, &copy)
	}
	return out, nil
}

type captureExporter struct {
	records []*SalaryRecord
}

func (c *captureExporter) ExportSalaries(_ context.Context, w io.Writer, records []*SalaryRecord) error {
	c.records = records
	_, err := w.Write([]byte("ok"))
	return err
}

func newFinder() *fakeFinder {
	return &fakeFinder{employees: map[string]*employee.Employee{
		"emp-1": {ID: "emp-1", Code: "NV1", Name: "Lan", DepartmentID: "D2", SalaryRef: "1000"},
		"emp-2": {ID: "emp-2", Code: "NV2", Name: "Minh", DepartmentID: "D1", SalaryRef: "2500.50"},
		"emp-3": {ID: "emp-3", Code: "NV3", Name: "Hoa", DepartmentID: "D1", SalaryRef: "n/a"},
	}}
}

func TestService_ComputeSalary_Total(t *testing.T) {
	t.Parallel()

	repo := &fakePayrollRepo{}
	activity := &recordingActivity{}
	now := time.Date(2025, 6, 30, 17, 0, 0, 0, time.UTC)
	svc := NewService(repo, newFinder(), nil, &stubClock{now: now}, nil, activity)

	rec, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{
		EmployeeID: "emp-1",
		Bonus:      decimal.NewFromInt(100),
		Penalty:    decimal.NewFromInt(30),
	})
	if err != nil {
		t.Fatalf("ComputeSalary returned error: %v", err)
	}

	if !rec.Total.Equal(decimal.NewFromInt(1070)) {
		t.Fatalf("expected total 1070, got %s", rec.Total)
	}
	if rec.EmployeeName != "Lan" || rec.DepartmentID != "D2" || !rec.CalculatedAt.Equal(now) {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(activity.lines) != 1 || activity.lines[0] != "Salary computed for employee: Lan" {
		t.Fatalf("unexpected activity: %v", activity.lines)
	}
}

func TestService_ComputeSalary_AppendsHistory(t *testing.T) {
	t.Parallel()

	repo := &fakePayrollRepo{}
	svc := NewService(repo, newFinder(), nil, nil, nil, nil)

	first, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: "emp-1", Bonus: decimal.NewFromInt(100), Penalty: decimal.NewFromInt(30)})
	if err != nil {
		t.Fatalf("first ComputeSalary returned error: %v", err)
	}
	if _, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: "emp-1", Penalty: decimal.NewFromInt(2000)}); err != nil {
		t.Fatalf("second ComputeSalary returned error: %v", err)
	}

	records, err := svc.ListSalaries(context.Background(), ListSalariesInput{})
	if err != nil {
		t.Fatalf("ListSalaries returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected both computations kept, got %d", len(records))
	}
	if !records[0].Total.Equal(first.Total) {
		t.Fatalf("expected first record untouched, got %s", records[0].Total)
	}
	if !records[1].Total.Equal(decimal.NewFromInt(-1000)) {
		t.Fatalf("expected negative total without floor, got %s", records[1].Total)
	}
}

func TestService_ComputeSalary_Errors(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakePayrollRepo{}, newFinder(), nil, nil, nil, nil)

	if _, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: "missing"}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if _, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: "emp-3"}); !errors.Is(err, ErrInvalidSalary) {
		t.Fatalf("expected ErrInvalidSalary, got %v", err)
	}
	if _, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: " "}); !errors.Is(err, ErrInvalidEmployeeID) {
		t.Fatalf("expected ErrInvalidEmployeeID, got %v", err)
	}
}

func TestService_ListSalaries_SortedByDepartmentIsStable(t *testing.T) {
	t.Parallel()

	repo := &fakePayrollRepo{}
	svc := NewService(repo, newFinder(), nil, nil, nil, nil)

	for _, id := range []string{"emp-1", "emp-2", "emp-1", "emp-2"} {
		if _, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: id}); err != nil {
			t.Fatalf("ComputeSalary(%s) returned error: %v", id, err)
		}
	}
	repo.records[2].Bonus = decimal.NewFromInt(7)

	records, err := svc.ListSalaries(context.Background(), ListSalariesInput{SortByDepartment: true})
	if err != nil {
		t.Fatalf("ListSalaries returned error: %v", err)
	}

	wantDept := []string{"D1", "D1", "D2", "D2"}
	for i, rec := range records {
		if rec.DepartmentID != wantDept[i] {
			t.Fatalf("position %d: want %s, got %s", i, wantDept[i], rec.DepartmentID)
		}
	}
	if !records[3].Bonus.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected insertion order kept within a department")
	}
}

func TestService_ExportSalaries(t *testing.T) {
	t.Parallel()

	repo := &fakePayrollRepo{}
	exporter := &captureExporter{}
	svc := NewService(repo, newFinder(), exporter, nil, nil, nil)

	for _, id := range []string{"emp-1", "emp-2"} {
		if _, err := svc.ComputeSalary(context.Background(), ComputeSalaryInput{EmployeeID: id}); err != nil {
			t.Fatalf("ComputeSalary returned error: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := svc.ExportSalaries(context.Background(), &buf); err != nil {
		t.Fatalf("ExportSalaries returned error: %v", err)
	}
	if buf.String() != "ok" {
		t.Fatalf("exporter did not write to the given writer")
	}
	if len(exporter.records) != 2 || exporter.records[0].DepartmentID != "D1" {
		t.Fatalf("expected department-sorted records, got %+v", exporter.records)
	}

	noExport := NewService(repo, newFinder(), nil, nil, nil, nil)
	if err := noExport.ExportSalaries(context.Background(), &buf); !errors.Is(err, ErrExporterNotConfigured) {
		t.Fatalf("expected ErrExporterNotConfigured, got %v", err)
	}
}
