package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServicePrefix は全サービス共通のパッケージ名です。
const ServicePrefix = "hr.v1."

// unaryMethod は google.protobuf.Struct を受け取り返す単項 RPC の MethodDesc を組み立てます。
func unaryMethod[S any](serviceName, methodName string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := FullMethodName(serviceName, methodName)
	return grpc.MethodDesc{
		MethodName: methodName,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethodName はクライアントから呼び出す際のメソッド名を返します。
func FullMethodName(serviceName, methodName string) string {
	return "/" + serviceName + "/" + methodName
}
