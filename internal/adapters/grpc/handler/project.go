package handler

import (
	"context"

	"github.com/ogurasousui/hr-records/internal/core/project"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProjectServiceName はプロジェクト台帳サービスの完全修飾名です。
const ProjectServiceName = ServicePrefix + "ProjectService"

// ProjectServiceServer は ProjectService のサーバー側インターフェースです。
type ProjectServiceServer interface {
	AddProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AssignEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SearchProjects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SortProjects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListProjects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ProjectServiceDesc は ProjectService のサービス定義です。
var ProjectServiceDesc = grpc.ServiceDesc{
	ServiceName: ProjectServiceName,
	HandlerType: (*ProjectServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(ProjectServiceName, "AddProject", ProjectServiceServer.AddProject),
		unaryMethod(ProjectServiceName, "GetProject", ProjectServiceServer.GetProject),
		unaryMethod(ProjectServiceName, "UpdateProject", ProjectServiceServer.UpdateProject),
		unaryMethod(ProjectServiceName, "DeleteProject", ProjectServiceServer.DeleteProject),
		unaryMethod(ProjectServiceName, "AssignEmployees", ProjectServiceServer.AssignEmployees),
		unaryMethod(ProjectServiceName, "SetStatus", ProjectServiceServer.SetStatus),
		unaryMethod(ProjectServiceName, "SearchProjects", ProjectServiceServer.SearchProjects),
		unaryMethod(ProjectServiceName, "SortProjects", ProjectServiceServer.SortProjects),
		unaryMethod(ProjectServiceName, "ListProjects", ProjectServiceServer.ListProjects),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hr/v1/project.proto",
}

// RegisterProjectServiceServer は ProjectService をサーバーに登録します。
func RegisterProjectServiceServer(s grpc.ServiceRegistrar, srv ProjectServiceServer) {
	s.RegisterService(&ProjectServiceDesc, srv)
}

// ProjectGrpcHandler は ProjectService の gRPC 実装です。
type ProjectGrpcHandler struct {
	svc project.UseCase
}

// NewProjectGrpcHandler は ProjectGrpcHandler を生成します。
func NewProjectGrpcHandler(svc project.UseCase) *ProjectGrpcHandler {
	return &ProjectGrpcHandler{svc: svc}
}

// AddProject はプロジェクトを追加します。日付は yyyy-mm-dd 形式です。
func (h *ProjectGrpcHandler) AddProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	created, err := h.svc.AddProject(ctx, project.AddProjectInput{
		Name:        stringField(req, "name"),
		StartDate:   stringField(req, "start_date"),
		EndDate:     stringField(req, "end_date"),
		Description: stringField(req, "description"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"project": projectToMap(created)})
}

// GetProject は ID でプロジェクトを取得します。
func (h *ProjectGrpcHandler) GetProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := projectID(req)
	if err != nil {
		return nil, err
	}

	found, err := h.svc.GetProject(ctx, project.GetProjectInput{ID: id})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"project": projectToMap(found)})
}

// UpdateProject はプロジェクトの名前、期間、説明を置き換えます。
func (h *ProjectGrpcHandler) UpdateProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := projectID(req)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.UpdateProject(ctx, project.UpdateProjectInput{
		ID:          id,
		Name:        stringField(req, "name"),
		StartDate:   stringField(req, "start_date"),
		EndDate:     stringField(req, "end_date"),
		Description: stringField(req, "description"),
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"project": projectToMap(updated)})
}

// DeleteProject はプロジェクトを削除します。
func (h *ProjectGrpcHandler) DeleteProject(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := projectID(req)
	if err != nil {
		return nil, err
	}

	if err := h.svc.DeleteProject(ctx, project.DeleteProjectInput{ID: id}); err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{})
}

// AssignEmployees は社員 ID をプロジェクトに割り当てます。
func (h *ProjectGrpcHandler) AssignEmployees(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := projectID(req)
	if err != nil {
		return nil, err
	}

	employeeIDs, err := stringListField(req, "employee_ids")
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.AssignEmployees(ctx, project.AssignEmployeesInput{ID: id, EmployeeIDs: employeeIDs})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"project": projectToMap(updated)})
}

// SetStatus はプロジェクトのステータスを設定します。
func (h *ProjectGrpcHandler) SetStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := projectID(req)
	if err != nil {
		return nil, err
	}

	updated, err := h.svc.SetStatus(ctx, project.SetStatusInput{ID: id, Status: stringField(req, "status")})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"project": projectToMap(updated)})
}

// SearchProjects は名前が一致するプロジェクトを返します。
func (h *ProjectGrpcHandler) SearchProjects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	found, err := h.svc.SearchProjects(ctx, project.SearchProjectsInput{Name: stringField(req, "name")})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"projects": projectsToList(found)})
}

// SortProjects はプロジェクト一覧を並び替えます。
func (h *ProjectGrpcHandler) SortProjects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := requireRequest(req); err != nil {
		return nil, err
	}

	sorted, err := h.svc.SortProjects(ctx, project.SortProjectsInput{Key: project.SortKey(stringField(req, "key"))})
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"projects": projectsToList(sorted)})
}

// ListProjects は表示順で全プロジェクトを返します。
func (h *ProjectGrpcHandler) ListProjects(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	projects, err := h.svc.ListProjects(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	return newResponse(map[string]any{"projects": projectsToList(projects)})
}

func projectID(req *structpb.Struct) (int64, error) {
	if err := requireRequest(req); err != nil {
		return 0, err
	}
	return int64Field(req, "id")
}

func projectsToList(projects []*project.Project) []any {
	list := make([]any, 0, len(projects))
	for _, p := range projects {
		list = append(list, projectToMap(p))
	}
	return list
}

func projectToMap(p *project.Project) map[string]any {
	if p == nil {
		return nil
	}

	return map[string]any{
		"id":                 p.ID,
		"name":               p.Name,
		"start_date":         p.StartDate.Format(project.DateLayout),
		"end_date":           p.EndDate.Format(project.DateLayout),
		"description":        p.Description,
		"status":             p.Status,
		"assigned_employees": stringsToList(p.AssignedEmployees),
		"position":           p.Position,
		"created_at":         formatTimestamp(p.CreatedAt),
		"updated_at":         formatTimestamp(p.UpdatedAt),
	}
}
