package handler

import (
	"context"
	"strings"

	"github.com/ogurasousui/hr-records/internal/core/attendance"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// AttendanceServiceName は出勤台帳サービスの完全修飾名です。
const AttendanceServiceName = ServicePrefix + "AttendanceService"

// AttendanceServiceServer は AttendanceService のサーバー側インターフェースです。
type AttendanceServiceServer interface {
	MarkAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListLogs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// AttendanceServiceDesc は AttendanceService のサービス定義です。
var AttendanceServiceDesc = grpc.ServiceDesc{
	ServiceName: AttendanceServiceName,
	HandlerType: (*AttendanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AttendanceServiceName, "MarkAttendance", AttendanceServiceServer.MarkAttendance),
		unaryMethod(AttendanceServiceName, "DeleteHistory", AttendanceServiceServer.DeleteHistory),
		unaryMethod(AttendanceServiceName, "GetHistory", AttendanceServiceServer.GetHistory),
		unaryMethod(AttendanceServiceName, "ListLogs", AttendanceServiceServer.ListLogs),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hr/v1/attendance.proto",
}

// RegisterAttendanceServiceServer は AttendanceService をサーバーに登録します。
func RegisterAttendanceServiceServer(s grpc.ServiceRegistrar, srv AttendanceServiceServer) {
	s.RegisterService(&AttendanceServiceDesc, srv)
}

// AttendanceGrpcHandler は AttendanceService の gRPC 実装です。
// 出勤登録の対象社員は名簿から名前を引いてから台帳に渡します。
type AttendanceGrpcHandler struct {
	svc       attendance.UseCase
	employees employee.UseCase
}

// NewAttendanceGrpcHandler は AttendanceGrpcHandler を生成します。
func NewAttendanceGrpcHandler(svc attendance.UseCase, employees employee.UseCase) *AttendanceGrpcHandler {
	return &AttendanceGrpcHandler{svc: svc, employees: employees}
}

// MarkAttendance は employee_ids で指定された社員の本日の出勤を記録します。
func (h *AttendanceGrpcHandler) MarkAttendance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	ids, err := stringListField(req, "employee_ids")
	if err != nil {
		return nil, err
	}

	refs := make([]attendance.EmployeeRef, 0, len(ids))
	for _, id := range ids {
		ref := attendance.EmployeeRef{ID: strings.TrimSpace(id)}
		if h.employees != nil && ref.ID != "" {
			emp, err := h.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: ref.ID})
			if err != nil {
				return nil, toStatusError(err)
			}
			ref.Name = emp.Name
		}
		refs = append(refs, ref)
	}

	results, err := h.svc.MarkAttendance(ctx, attendance.MarkAttendanceInput{Employees: refs})
	if err != nil {
		return nil, toStatusError(err)
	}

	list := make([]any, 0, len(results))
	for _, r := range results {
		list = append(list, map[string]any{
			"employee_id":   r.EmployeeID,
			"employee_name": r.EmployeeName,
			"result":        string(r.Result),
			"checked_in_at": formatTimestamp(r.CheckedInAt),
		})
	}

	return newResponse(map[string]any{"results": list})
}

// DeleteHistory は社員の出勤履歴を削除します。
func (h *AttendanceGrpcHandler) DeleteHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	if err := h.svc.DeleteHistory(ctx, attendance.DeleteHistoryInput{EmployeeID: stringField(req, "employee_id")}); err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{})
}

// GetHistory は社員の出勤時刻を古い順に返します。
func (h *AttendanceGrpcHandler) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	employeeID := stringField(req, "employee_id")
	exists, err := h.svc.HasHistory(ctx, employeeID)
	if err != nil {
		return nil, toStatusError(err)
	}

	history, err := h.svc.History(ctx, employeeID)
	if err != nil {
		return nil, toStatusError(err)
	}

	checkIns := make([]any, 0, len(history))
	for _, at := range history {
		checkIns = append(checkIns, formatTimestamp(at))
	}

	return newResponse(map[string]any{
		"employee_id": strings.TrimSpace(employeeID),
		"has_history": exists,
		"check_ins":   checkIns,
	})
}

// ListLogs は全社員分の出勤記録を返します。
func (h *AttendanceGrpcHandler) ListLogs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	logs, err := h.svc.ListLogs(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	list := make([]any, 0, len(logs))
	for _, l := range logs {
		checkIns := make([]any, 0, len(l.CheckIns))
		for _, at := range l.CheckIns {
			checkIns = append(checkIns, formatTimestamp(at))
		}
		list = append(list, map[string]any{
			"employee_id":   l.EmployeeID,
			"employee_name": l.EmployeeName,
			"check_ins":     checkIns,
		})
	}

	return newResponse(map[string]any{"logs": list})
}
