package server

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/ogurasousui/hr-records/internal/platform/logger"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryLoggingInterceptor はリクエストごとにメソッド名・所要時間・ステータスコードを記録します。
// ハンドラには method フィールド付きのロガーを context 経由で渡します。
func UnaryLoggingInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqLogger := base.With().Str("method", info.FullMethod).Logger()

		resp, err := next(logger.WithContext(ctx, reqLogger), req)

		code := status.Code(err)
		var event *zerolog.Event
		switch code {
		case codes.OK:
			event = reqLogger.Info()
		case codes.Internal, codes.Unknown, codes.DataLoss:
			event = reqLogger.Error().Err(err)
		default:
			event = reqLogger.Warn().Err(err)
		}
		event.
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("handled gRPC request")

		return resp, err
	}
}

// UnaryRecoveryInterceptor はハンドラ内の panic を codes.Internal に変換します。
func UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.FromContext(ctx).Error().
					Str("method", info.FullMethod).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return next(ctx, req)
	}
}
