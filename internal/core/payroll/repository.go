package payroll

import (
	"context"
	"io"

	"github.com/ogurasousui/hr-records/internal/core/employee"
)

// Repository は給与計算履歴の永続化を行うインターフェースです。
// 追記のみを行い、過去の記録を書き換えることはありません。
type Repository interface {
	Append(ctx context.Context, record *SalaryRecord) error
	// List は記録された順に全件を返します。
	List(ctx context.Context) ([]*SalaryRecord, error)
}

// EmployeeFinder は給与計算の対象社員を取得します。
type EmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

// Exporter は給与計算履歴を外部形式で書き出します。
type Exporter interface {
	ExportSalaries(ctx context.Context, w io.Writer, records []*SalaryRecord) error
}
