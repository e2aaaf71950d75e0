package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/hr-records/internal/adapters/grpc/handler"
	"github.com/ogurasousui/hr-records/internal/core/activity"
	"github.com/ogurasousui/hr-records/internal/core/attendance"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"github.com/ogurasousui/hr-records/internal/core/project"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Services は gRPC で公開するユースケースの集合です。
type Services struct {
	Employees  employee.UseCase
	Projects   project.UseCase
	Attendance attendance.UseCase
	Payroll    payroll.UseCase
	Activity   activity.UseCase
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     zerolog.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// ログ出力と panic 回復のインターセプタは opts より先に適用されます。
func New(listenAddr string, services Services, logger zerolog.Logger, opts ...grpc.ServerOption) *Server {
	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			UnaryLoggingInterceptor(logger),
			UnaryRecoveryInterceptor(),
		),
	}, opts...)
	srv := grpc.NewServer(serverOpts...)

	handler.RegisterEmployeeServiceServer(srv, handler.NewEmployeeGrpcHandler(services.Employees))
	handler.RegisterProjectServiceServer(srv, handler.NewProjectGrpcHandler(services.Projects))
	handler.RegisterAttendanceServiceServer(srv, handler.NewAttendanceGrpcHandler(services.Attendance, services.Employees))
	handler.RegisterPayrollServiceServer(srv, handler.NewPayrollGrpcHandler(services.Payroll))
	handler.RegisterActivityServiceServer(srv, handler.NewActivityGrpcHandler(services.Activity))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	for _, name := range []string{
		"",
		handler.EmployeeServiceName,
		handler.ProjectServiceName,
		handler.AttendanceServiceName,
		handler.PayrollServiceName,
		handler.ActivityServiceName,
	} {
		healthSrv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	return s.Serve(lis)
}

// Serve は与えられたリスナーで待ち受けます。停止されるまで戻りません。
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	s.logger.Info().Msg("gRPC server stopped")
}
