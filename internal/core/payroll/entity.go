package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord は給与計算 1 回分の結果です。書き込み後は変更されません。
type SalaryRecord struct {
	EmployeeID   string
	EmployeeCode string
	EmployeeName string
	DepartmentID string
	SalaryRef    string
	Bonus        decimal.Decimal
	Penalty      decimal.Decimal
	Total        decimal.Decimal
	CalculatedAt time.Time
}
