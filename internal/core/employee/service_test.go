package employee

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
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

type fakeEmployeeRepo struct {
	employees map[string]*Employee
	sequence  int
	order     []string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*Employee)}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *Employee) (*Employee, error) {
	clone := cloneEmployee(e)
	r.sequence++
	clone.ID = fmt.Sprintf("emp-%d", r.sequence)
	clone.Position = len(r.order) + 1
	r.employees[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneEmployee(clone), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, e *Employee) (*Employee, error) {
	if _, ok := r.employees[e.ID]; !ok {
		return nil, ErrEmployeeNotFound
	}
	r.employees[e.ID] = cloneEmployee(e)
	return cloneEmployee(e), nil
}

func (r *fakeEmployeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(r.employees, id)
	for idx, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeEmployeeRepo) FindByID(_ context.Context, id string) (*Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return cloneEmployee(emp), nil
}

func (r *fakeEmployeeRepo) FindByCode(_ context.Context, code string) (*Employee, error) {
	for _, id := range r.order {
		if r.employees[id].Code == code {
			return cloneEmployee(r.employees[id]), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]*Employee, error) {
	out := make([]*Employee, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneEmployee(r.employees[id]))
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Reorder(_ context.Context, ids []string) error {
	r.order = append([]string(nil), ids...)
	for i, id := range ids {
		r.employees[id].Position = i + 1
	}
	return nil
}

func cloneEmployee(emp *Employee) *Employee {
	if emp == nil {
		return nil
	}
	copy := *emp
	return &copy
}

func newTestService(t *testing.T) (*Service, *fakeEmployeeRepo, *recordingActivity) {
	t.Helper()
	repo := newFakeEmployeeRepo()
	activity := &recordingActivity{}
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return NewService(repo, &stubClock{now: now}, nil, activity), repo, activity
}

func TestService_AddEmployee_Success(t *testing.T) {
	t.Parallel()

	svc, _, activity := newTestService(t)

	created, err := svc.AddEmployee(context.Background(), AddEmployeeInput{
		Code:         " NV001 ",
		DepartmentID: "D01",
		SalaryRef:    "1000",
		Name:         "  Nguyen Van A  ",
		DateOfBirth:  "15/08/1990",
	})
	if err != nil {
		t.Fatalf("AddEmployee returned error: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected generated id")
	}
	if created.Code != "NV001" || created.Name != "Nguyen Van A" {
		t.Fatalf("expected trimmed fields, got %q %q", created.Code, created.Name)
	}
	if !created.DateOfBirth.Equal(time.Date(1990, 8, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date of birth: %v", created.DateOfBirth)
	}
	if !created.HiredAt.Equal(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected hired_at to default to clock now, got %v", created.HiredAt)
	}
	if len(activity.lines) != 1 || activity.lines[0] != "Added employee: Nguyen Van A" {
		t.Fatalf("unexpected activity: %v", activity.lines)
	}
}

func TestService_AddEmployee_SearchReturnsParsedDateOfBirth(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	inputs := []struct {
		code string
		dob  string
		want time.Time
	}{
		{"A1", "01/01/2000", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"A2", "29/02/1996", time.Date(1996, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"A3", "31/12/1979", time.Date(1979, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, in := range inputs {
		if _, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: in.code, Name: "N " + in.code, DateOfBirth: in.dob}); err != nil {
			t.Fatalf("AddEmployee(%s) returned error: %v", in.code, err)
		}
	}

	for _, in := range inputs {
		found, err := svc.SearchEmployee(context.Background(), SearchEmployeeInput{Code: in.code})
		if err != nil {
			t.Fatalf("SearchEmployee(%s) returned error: %v", in.code, err)
		}
		if !found.DateOfBirth.Equal(in.want) {
			t.Fatalf("code %s: expected dob %v, got %v", in.code, in.want, found.DateOfBirth)
		}
	}
}

func TestService_AddEmployee_InvalidDateLeavesDirectoryUnchanged(t *testing.T) {
	t.Parallel()

	svc, repo, activity := newTestService(t)

	_, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: "X", Name: "Bad", DateOfBirth: "1990-08-15"})
	if !errors.Is(err, ErrInvalidDateOfBirth) {
		t.Fatalf("expected ErrInvalidDateOfBirth, got %v", err)
	}
	if len(repo.order) != 0 {
		t.Fatalf("expected directory to stay empty, got %d", len(repo.order))
	}
	if len(activity.lines) != 0 {
		t.Fatalf("expected no activity, got %v", activity.lines)
	}
}

func TestService_AddEmployee_DuplicateCodeAllowed(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	first, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: "DUP", Name: "First", DateOfBirth: "01/01/1990"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: "DUP", Name: "Second", DateOfBirth: "01/01/1991"})
	if err != nil {
		t.Fatalf("unexpected error on duplicate code: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct surrogate keys")
	}

	found, err := svc.SearchEmployee(context.Background(), SearchEmployeeInput{Code: "DUP"})
	if err != nil {
		t.Fatalf("SearchEmployee returned error: %v", err)
	}
	if found.ID != first.ID {
		t.Fatalf("expected first match in display order, got %s", found.Name)
	}
}

func TestService_UpdateEmployee_Success(t *testing.T) {
	t.Parallel()

	svc, _, activity := newTestService(t)

	created, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: "E1", Name: "Old", DateOfBirth: "01/01/1990", JobTitle: "Dev"})
	if err != nil {
		t.Fatalf("AddEmployee returned error: %v", err)
	}

	newName := " New "
	newDob := "02/03/1991"
	newDept := "D9"
	updated, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{
		ID:           created.ID,
		Name:         &newName,
		DateOfBirth:  &newDob,
		DepartmentID: &newDept,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if updated.Name != "New" || updated.DepartmentID != "D9" || updated.JobTitle != "Dev" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.DateOfBirth.Equal(time.Date(1991, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date of birth: %v", updated.DateOfBirth)
	}
	if activity.lines[len(activity.lines)-1] != "Updated employee: New" {
		t.Fatalf("unexpected activity: %v", activity.lines)
	}
}

func TestService_UpdateEmployee_InvalidDateDoesNotApplyOtherFields(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newTestService(t)

	created, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: "E1", Name: "Keep", DateOfBirth: "01/01/1990"})
	if err != nil {
		t.Fatalf("AddEmployee returned error: %v", err)
	}

	newName := "Changed"
	badDob := "31/02/1990"
	_, err = svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: created.ID, Name: &newName, DateOfBirth: &badDob})
	if !errors.Is(err, ErrInvalidDateOfBirth) {
		t.Fatalf("expected ErrInvalidDateOfBirth, got %v", err)
	}

	stored := repo.employees[created.ID]
	if stored.Name != "Keep" {
		t.Fatalf("expected name to stay unchanged, got %s", stored.Name)
	}
}

func TestService_UpdateAndDelete_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	name := "x"
	if _, err := svc.UpdateEmployee(context.Background(), UpdateEmployeeInput{ID: "missing", Name: &name}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound on update, got %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: "missing"}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound on delete, got %v", err)
	}
	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: " "}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_DeleteEmployee_Success(t *testing.T) {
	t.Parallel()

	svc, _, activity := newTestService(t)

	created, err := svc.AddEmployee(context.Background(), AddEmployeeInput{Code: "E1", Name: "Gone", DateOfBirth: "01/01/1990"})
	if err != nil {
		t.Fatalf("AddEmployee returned error: %v", err)
	}

	if err := svc.DeleteEmployee(context.Background(), DeleteEmployeeInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if _, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: created.ID}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound after delete, got %v", err)
	}
	if activity.lines[len(activity.lines)-1] != "Deleted employee: Gone" {
		t.Fatalf("unexpected activity: %v", activity.lines)
	}
}

func TestService_SortEmployees_StableAndKeyAddressable(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)

	seed := []AddEmployeeInput{
		{Code: "3", Name: "Charlie", DepartmentID: "B", SalaryRef: "900", DateOfBirth: "01/01/1990"},
		{Code: "1", Name: "Alice", DepartmentID: "A", SalaryRef: "1200", DateOfBirth: "01/01/1985"},
		{Code: "2", Name: "Bob", DepartmentID: "B", SalaryRef: "300", DateOfBirth: "01/01/1995"},
	}
	ids := make([]string, 0, len(seed))
	for _, in := range seed {
		created, err := svc.AddEmployee(context.Background(), in)
		if err != nil {
			t.Fatalf("AddEmployee returned error: %v", err)
		}
		ids = append(ids, created.ID)
	}

	sorted, err := svc.SortEmployees(context.Background(), SortEmployeesInput{Key: SortByDepartment})
	if err != nil {
		t.Fatalf("SortEmployees returned error: %v", err)
	}
	got := []string{sorted[0].Name, sorted[1].Name, sorted[2].Name}
	want := []string{"Alice", "Charlie", "Bob"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stable department order %v, got %v", want, got)
		}
	}

	listed, _ := svc.ListEmployees(context.Background())
	if listed[0].Name != "Alice" || listed[0].Position != 1 {
		t.Fatalf("expected persisted display order, got %+v", listed[0])
	}

	found, err := svc.GetEmployee(context.Background(), GetEmployeeInput{ID: ids[0]})
	if err != nil || found.Name != "Charlie" {
		t.Fatalf("expected key lookup unaffected by sort, got %+v err=%v", found, err)
	}

	bySalary, err := svc.SortEmployees(context.Background(), SortEmployeesInput{Key: SortBySalary})
	if err != nil {
		t.Fatalf("SortEmployees salary returned error: %v", err)
	}
	if bySalary[0].SalaryRef != "300" || bySalary[2].SalaryRef != "1200" {
		t.Fatalf("expected numeric salary order, got %s %s %s", bySalary[0].SalaryRef, bySalary[1].SalaryRef, bySalary[2].SalaryRef)
	}
}

func TestService_SortEmployees_InvalidKey(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	if _, err := svc.SortEmployees(context.Background(), SortEmployeesInput{Key: "height"}); !errors.Is(err, ErrInvalidSortKey) {
		t.Fatalf("expected ErrInvalidSortKey, got %v", err)
	}
}
