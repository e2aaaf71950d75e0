package handler

import (
	"context"

	"github.com/ogurasousui/hr-records/internal/core/activity"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ActivityServiceName は操作履歴サービスの完全修飾名です。
const ActivityServiceName = ServicePrefix + "ActivityService"

// ActivityServiceServer は ActivityService のサーバー側インターフェースです。
type ActivityServiceServer interface {
	ListEntries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ActivityServiceDesc は ActivityService のサービス定義です。
var ActivityServiceDesc = grpc.ServiceDesc{
	ServiceName: ActivityServiceName,
	HandlerType: (*ActivityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(ActivityServiceName, "ListEntries", ActivityServiceServer.ListEntries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hr/v1/activity.proto",
}

// RegisterActivityServiceServer は ActivityService をサーバーに登録します。
func RegisterActivityServiceServer(s grpc.ServiceRegistrar, srv ActivityServiceServer) {
	s.RegisterService(&ActivityServiceDesc, srv)
}

// ActivityGrpcHandler は ActivityService の gRPC 実装です。
type ActivityGrpcHandler struct {
	svc activity.UseCase
}

// NewActivityGrpcHandler は ActivityGrpcHandler を生成します。
func NewActivityGrpcHandler(svc activity.UseCase) *ActivityGrpcHandler {
	return &ActivityGrpcHandler{svc: svc}
}

// ListEntries は操作履歴を古い順に返します。
func (h *ActivityGrpcHandler) ListEntries(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	entries, err := h.svc.ListEntries(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, map[string]any{
			"at":          formatTimestamp(e.At),
			"description": e.Description,
			"line":        e.Line(),
		})
	}

	return newResponse(map[string]any{"entries": list})
}
