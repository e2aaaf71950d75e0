package handler

import (
	"errors"

	"github.com/ogurasousui/hr-records/internal/core/activity"
	"github.com/ogurasousui/hr-records/internal/core/attendance"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"github.com/ogurasousui/hr-records/internal/core/project"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidCode),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidDateOfBirth),
		errors.Is(err, employee.ErrInvalidSortKey),
		errors.Is(err, project.ErrInvalidID),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, project.ErrInvalidDescription),
		errors.Is(err, project.ErrInvalidDate),
		errors.Is(err, project.ErrInvalidAssignment),
		errors.Is(err, project.ErrInvalidSortKey),
		errors.Is(err, attendance.ErrInvalidEmployeeID),
		errors.Is(err, attendance.ErrNoEmployees),
		errors.Is(err, payroll.ErrInvalidEmployeeID),
		errors.Is(err, activity.ErrInvalidDescription):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, payroll.ErrInvalidSalary), errors.Is(err, payroll.ErrExporterNotConfigured):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, attendance.ErrLogNotFound),
		errors.Is(err, payroll.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
