package handler

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// PayrollServiceName は給与計算サービスの完全修飾名です。
const PayrollServiceName = ServicePrefix + "PayrollService"

// PayrollServiceServer は PayrollService のサーバー側インターフェースです。
type PayrollServiceServer interface {
	ComputeSalary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ExportSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// PayrollServiceDesc は PayrollService のサービス定義です。
var PayrollServiceDesc = grpc.ServiceDesc{
	ServiceName: PayrollServiceName,
	HandlerType: (*PayrollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(PayrollServiceName, "ComputeSalary", PayrollServiceServer.ComputeSalary),
		unaryMethod(PayrollServiceName, "ListSalaries", PayrollServiceServer.ListSalaries),
		unaryMethod(PayrollServiceName, "ExportSalaries", PayrollServiceServer.ExportSalaries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hr/v1/payroll.proto",
}

// RegisterPayrollServiceServer は PayrollService をサーバーに登録します。
func RegisterPayrollServiceServer(s grpc.ServiceRegistrar, srv PayrollServiceServer) {
	s.RegisterService(&PayrollServiceDesc, srv)
}

// PayrollGrpcHandler は PayrollService の gRPC 実装です。
type PayrollGrpcHandler struct {
	svc payroll.UseCase
}

// NewPayrollGrpcHandler は PayrollGrpcHandler を生成します。
func NewPayrollGrpcHandler(svc payroll.UseCase) *PayrollGrpcHandler {
	return &PayrollGrpcHandler{svc: svc}
}

// ComputeSalary は社員の支給額を計算して履歴に追記します。
func (h *PayrollGrpcHandler) ComputeSalary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	bonus, err := decimalField(req, "bonus")
	if err != nil {
		return nil, err
	}
	penalty, err := decimalField(req, "penalty")
	if err != nil {
		return nil, err
	}

	record, err := h.svc.ComputeSalary(ctx, payroll.ComputeSalaryInput{
		EmployeeID: stringField(req, "employee_id"),
		Bonus:      bonus,
		Penalty:    penalty,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"record": salaryRecordToMap(record)})
}

// ListSalaries は給与計算履歴を返します。既定では部署順で、sort_by_department: false で記録順になります。
func (h *PayrollGrpcHandler) ListSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	records, err := h.svc.ListSalaries(ctx, payroll.ListSalariesInput{SortByDepartment: boolFieldOr(req, "sort_by_department", true)})
	if err != nil {
		return nil, toStatusError(err)
	}

	list := make([]any, 0, len(records))
	for _, rec := range records {
		list = append(list, salaryRecordToMap(rec))
	}

	return newResponse(map[string]any{"records": list})
}

// ExportSalaries は給与計算履歴の xlsx を base64 で返します。
func (h *PayrollGrpcHandler) ExportSalaries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var buf bytes.Buffer
	if err := h.svc.ExportSalaries(ctx, &buf); err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{
		"filename":       "payroll.xlsx",
		"content_base64": base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}

func salaryRecordToMap(rec *payroll.SalaryRecord) map[string]any {
	if rec == nil {
		return nil
	}

	return map[string]any{
		"employee_id":   rec.EmployeeID,
		"employee_code": rec.EmployeeCode,
		"employee_name": rec.EmployeeName,
		"department_id": rec.DepartmentID,
		"salary":        rec.SalaryRef,
		"bonus":         rec.Bonus.String(),
		"penalty":       rec.Penalty.String(),
		"total":         rec.Total.String(),
		"calculated_at": formatTimestamp(rec.CalculatedAt),
	}
}
