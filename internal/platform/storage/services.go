package storage

import (
	"time"

	"github.com/ogurasousui/hr-records/internal/core/activity"
	"github.com/ogurasousui/hr-records/internal/core/attendance"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"github.com/ogurasousui/hr-records/internal/core/project"
	"github.com/ogurasousui/hr-records/internal/platform/server"
)

// NewServices はバックエンドのリポジトリからユースケース一式を組み立てます。
// 操作履歴は各ユースケースと同じトランザクション内で追記されます。
func NewServices(b *Backend, loc *time.Location, exporter payroll.Exporter) server.Services {
	journal := activity.NewService(b.Activity, nil)

	return server.Services{
		Employees:  employee.NewService(b.Employees, nil, b.Tx, journal),
		Projects:   project.NewService(b.Projects, nil, b.Tx, journal),
		Attendance: attendance.NewService(b.Attendance, nil, b.Tx, journal, loc),
		Payroll:    payroll.NewService(b.Payroll, b.Employees, exporter, nil, b.Tx, journal),
		Activity:   journal,
	}
}
