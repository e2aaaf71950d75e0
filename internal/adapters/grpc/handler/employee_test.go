package handler

import (
	"context"
	"testing"
	"time"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type stubEmployeeUseCase struct {
	addInput employee.AddEmployeeInput
	addOut   *employee.Employee
	addErr   error

	getInput employee.GetEmployeeInput
	getOut   *employee.Employee
	getErr   error

	updateInput employee.UpdateEmployeeInput
	updateOut   *employee.Employee
	updateErr   error

	deleteInput employee.DeleteEmployeeInput
	deleteErr   error

	searchInput employee.SearchEmployeeInput
	searchOut   *employee.Employee
	searchErr   error

	sortInput employee.SortEmployeesInput
	sortOut   []*employee.Employee
	sortErr   error

	listOut []*employee.Employee
	listErr error
}

func (s *stubEmployeeUseCase) AddEmployee(ctx context.Context, in employee.AddEmployeeInput) (*employee.Employee, error) {
	s.addInput = in
	return s.addOut, s.addErr
}

func (s *stubEmployeeUseCase) GetEmployee(ctx context.Context, in employee.GetEmployeeInput) (*employee.Employee, error) {
	s.getInput = in
	return s.getOut, s.getErr
}

func (s *stubEmployeeUseCase) UpdateEmployee(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
	s.updateInput = in
	return s.updateOut, s.updateErr
}

func (s *stubEmployeeUseCase) DeleteEmployee(ctx context.Context, in employee.DeleteEmployeeInput) error {
	s.deleteInput = in
	return s.deleteErr
}

func (s *stubEmployeeUseCase) SearchEmployee(ctx context.Context, in employee.SearchEmployeeInput) (*employee.Employee, error) {
	s.searchInput = in
	return s.searchOut, s.searchErr
}

func (s *stubEmployeeUseCase) SortEmployees(ctx context.Context, in employee.SortEmployeesInput) ([]*employee.Employee, error) {
	s.sortInput = in
	return s.sortOut, s.sortErr
}

func (s *stubEmployeeUseCase) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	return s.listOut, s.listErr
}

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()

	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return s
}

func sampleEmployee() *employee.Employee {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &employee.Employee{
		ID:           "emp-1",
		Code:         "NV001",
		DepartmentID: "D1",
		SalaryRef:    "1000",
		Name:         "Nguyen Van A",
		DateOfBirth:  time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		HiredAt:      now,
		Position:     1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestEmployeeGrpcHandler_AddEmployee_Success(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{addOut: sampleEmployee()}
	h := NewEmployeeGrpcHandler(stub)

	resp, err := h.AddEmployee(context.Background(), mustStruct(t, map[string]any{
		"code":          "NV001",
		"name":          "Nguyen Van A",
		"salary":        "1000",
		"department_id": "D1",
		"date_of_birth": "17/05/1990",
		"hired_at":      "2025-01-02T03:04:05Z",
	}))
	if err != nil {
		t.Fatalf("AddEmployee returned error: %v", err)
	}

	if stub.addInput.DateOfBirth != "17/05/1990" || stub.addInput.SalaryRef != "1000" {
		t.Fatalf("unexpected input: %+v", stub.addInput)
	}
	if stub.addInput.HiredAt == nil || !stub.addInput.HiredAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("unexpected hired_at: %v", stub.addInput.HiredAt)
	}

	emp := resp.GetFields()["employee"].GetStructValue()
	if emp.GetFields()["id"].GetStringValue() != "emp-1" {
		t.Fatalf("unexpected id: %v", emp)
	}
	if emp.GetFields()["date_of_birth"].GetStringValue() != "17/05/1990" {
		t.Fatalf("unexpected date_of_birth: %v", emp.GetFields()["date_of_birth"])
	}
	if emp.GetFields()["position"].GetNumberValue() != 1 {
		t.Fatalf("unexpected position: %v", emp.GetFields()["position"])
	}
}

func TestEmployeeGrpcHandler_AddEmployee_InvalidHiredAt(t *testing.T) {
	t.Parallel()

	h := NewEmployeeGrpcHandler(&stubEmployeeUseCase{})

	_, err := h.AddEmployee(context.Background(), mustStruct(t, map[string]any{"name": "A", "hired_at": "yesterday"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestEmployeeGrpcHandler_AddEmployee_ValidationError(t *testing.T) {
	t.Parallel()

	h := NewEmployeeGrpcHandler(&stubEmployeeUseCase{addErr: employee.ErrInvalidDateOfBirth})

	_, err := h.AddEmployee(context.Background(), mustStruct(t, map[string]any{"name": "A", "date_of_birth": "1990-05-17"}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestEmployeeGrpcHandler_UpdateEmployee_OnlyGivenFields(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{updateOut: sampleEmployee()}
	h := NewEmployeeGrpcHandler(stub)

	_, err := h.UpdateEmployee(context.Background(), mustStruct(t, map[string]any{
		"id":        "emp-1",
		"job_title": "Engineer",
		"gender":    nil,
	}))
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	in := stub.updateInput
	if in.ID != "emp-1" {
		t.Fatalf("unexpected id: %s", in.ID)
	}
	if in.JobTitle == nil || *in.JobTitle != "Engineer" {
		t.Fatalf("expected job_title to be set, got %v", in.JobTitle)
	}
	if in.Name != nil || in.Gender != nil || in.DateOfBirth != nil {
		t.Fatalf("expected unspecified fields to stay nil: %+v", in)
	}
}

func TestEmployeeGrpcHandler_GetEmployee_NotFound(t *testing.T) {
	t.Parallel()

	h := NewEmployeeGrpcHandler(&stubEmployeeUseCase{getErr: employee.ErrEmployeeNotFound})

	_, err := h.GetEmployee(context.Background(), mustStruct(t, map[string]any{"id": "missing"}))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestEmployeeGrpcHandler_DeleteEmployee(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{}
	h := NewEmployeeGrpcHandler(stub)

	if _, err := h.DeleteEmployee(context.Background(), mustStruct(t, map[string]any{"id": "emp-1"})); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	if stub.deleteInput.ID != "emp-1" {
		t.Fatalf("unexpected delete input: %+v", stub.deleteInput)
	}
}

func TestEmployeeGrpcHandler_SearchAndSort(t *testing.T) {
	t.Parallel()

	emp := sampleEmployee()
	stub := &stubEmployeeUseCase{searchOut: emp, sortOut: []*employee.Employee{emp}}
	h := NewEmployeeGrpcHandler(stub)

	if _, err := h.SearchEmployee(context.Background(), mustStruct(t, map[string]any{"code": "NV001"})); err != nil {
		t.Fatalf("SearchEmployee returned error: %v", err)
	}
	if stub.searchInput.Code != "NV001" {
		t.Fatalf("unexpected search input: %+v", stub.searchInput)
	}

	resp, err := h.SortEmployees(context.Background(), mustStruct(t, map[string]any{"key": "salary"}))
	if err != nil {
		t.Fatalf("SortEmployees returned error: %v", err)
	}
	if stub.sortInput.Key != employee.SortBySalary {
		t.Fatalf("unexpected sort key: %s", stub.sortInput.Key)
	}
	if got := len(resp.GetFields()["employees"].GetListValue().GetValues()); got != 1 {
		t.Fatalf("expected 1 employee, got %d", got)
	}
}

func TestEmployeeGrpcHandler_NilRequest(t *testing.T) {
	t.Parallel()

	h := NewEmployeeGrpcHandler(&stubEmployeeUseCase{})

	if _, err := h.AddEmployee(context.Background(), nil); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}
