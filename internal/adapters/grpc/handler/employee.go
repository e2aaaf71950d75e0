package handler

import (
	"context"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// EmployeeServiceName は社員名簿サービスの完全修飾名です。
const EmployeeServiceName = ServicePrefix + "EmployeeService"

// EmployeeServiceServer は EmployeeService のサーバー側インターフェースです。
type EmployeeServiceServer interface {
	AddEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SearchEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SortEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// EmployeeServiceDesc は EmployeeService のサービス定義です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(EmployeeServiceName, "AddEmployee", EmployeeServiceServer.AddEmployee),
		unaryMethod(EmployeeServiceName, "GetEmployee", EmployeeServiceServer.GetEmployee),
		unaryMethod(EmployeeServiceName, "UpdateEmployee", EmployeeServiceServer.UpdateEmployee),
		unaryMethod(EmployeeServiceName, "DeleteEmployee", EmployeeServiceServer.DeleteEmployee),
		unaryMethod(EmployeeServiceName, "SearchEmployee", EmployeeServiceServer.SearchEmployee),
		unaryMethod(EmployeeServiceName, "SortEmployees", EmployeeServiceServer.SortEmployees),
		unaryMethod(EmployeeServiceName, "ListEmployees", EmployeeServiceServer.ListEmployees),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hr/v1/employee.proto",
}

// RegisterEmployeeServiceServer は EmployeeService をサーバーに登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// AddEmployee は社員を追加します。date_of_birth は dd/mm/yyyy 形式です。
func (h *EmployeeGrpcHandler) AddEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	hiredAt, err := optionalTimeField(req, "hired_at")
	if err != nil {
		return nil, err
	}

	created, err := h.svc.AddEmployee(ctx, employee.AddEmployeeInput{
		Code:         stringField(req, "code"),
		DepartmentID: stringField(req, "department_id"),
		SalaryRef:    stringField(req, "salary"),
		Name:         stringField(req, "name"),
		DateOfBirth:  stringField(req, "date_of_birth"),
		Gender:       stringField(req, "gender"),
		Ethnicity:    stringField(req, "ethnicity"),
		NationalID:   stringField(req, "national_id"),
		IDIssuePlace: stringField(req, "id_issue_place"),
		JobTitle:     stringField(req, "job_title"),
		HiredAt:      hiredAt,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"employee": employeeToMap(created)})
}

// GetEmployee は ID で社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	found, err := h.svc.GetEmployee(ctx, employee.GetEmployeeInput{ID: stringField(req, "id")})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"employee": employeeToMap(found)})
}

// UpdateEmployee は指定された項目だけを更新します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateEmployee(ctx, employee.UpdateEmployeeInput{
		ID:           stringField(req, "id"),
		Code:         optionalStringField(req, "code"),
		DepartmentID: optionalStringField(req, "department_id"),
		SalaryRef:    optionalStringField(req, "salary"),
		Name:         optionalStringField(req, "name"),
		DateOfBirth:  optionalStringField(req, "date_of_birth"),
		Gender:       optionalStringField(req, "gender"),
		Ethnicity:    optionalStringField(req, "ethnicity"),
		NationalID:   optionalStringField(req, "national_id"),
		IDIssuePlace: optionalStringField(req, "id_issue_place"),
		JobTitle:     optionalStringField(req, "job_title"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"employee": employeeToMap(updated)})
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	if err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: stringField(req, "id")}); err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{})
}

// SearchEmployee は社員番号で社員を検索します。
func (h *EmployeeGrpcHandler) SearchEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	found, err := h.svc.SearchEmployee(ctx, employee.SearchEmployeeInput{Code: stringField(req, "code")})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"employee": employeeToMap(found)})
}

// SortEmployees は名簿を並び替え、並び替え後の一覧を返します。
func (h *EmployeeGrpcHandler) SortEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	sorted, err := h.svc.SortEmployees(ctx, employee.SortEmployeesInput{Key: employee.SortKey(stringField(req, "key"))})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"employees": employeesToList(sorted)})
}

// ListEmployees は表示順で全社員を返します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"employees": employeesToList(employees)})
}

func employeesToList(employees []*employee.Employee) []any {
	list := make([]any, 0, len(employees))
	for _, emp := range employees {
		list = append(list, employeeToMap(emp))
	}
	return list
}

func employeeToMap(emp *employee.Employee) map[string]any {
	if emp == nil {
		return nil
	}

	dob := ""
	if !emp.DateOfBirth.IsZero() {
		dob = emp.DateOfBirth.Format(employee.DateOfBirthLayout)
	}

	return map[string]any{
		"id":             emp.ID,
		"code":           emp.Code,
		"department_id":  emp.DepartmentID,
		"salary":         emp.SalaryRef,
		"name":           emp.Name,
		"date_of_birth":  dob,
		"gender":         emp.Gender,
		"ethnicity":      emp.Ethnicity,
		"national_id":    emp.NationalID,
		"id_issue_place": emp.IDIssuePlace,
		"job_title":      emp.JobTitle,
		"hired_at":       formatTimestamp(emp.HiredAt),
		"position":       emp.Position,
		"created_at":     formatTimestamp(emp.CreatedAt),
		"updated_at":     formatTimestamp(emp.UpdatedAt),
	}
}
