package excel

import (
	"context"
	"fmt"
	"io"

	"github.com/ogurasousui/hr-records/internal/core/payroll"
	"github.com/xuri/excelize/v2"
)

// PayrollSheet は出力するシート名です。
const PayrollSheet = "Payroll"

const calculatedAtLayout = "2006-01-02 15:04:05"

var payrollHeader = []any{
	"Employee ID", "Employee Code", "Name", "Department", "Salary", "Bonus", "Penalty", "Total", "Calculated At",
}

// PayrollExporter は給与計算履歴を xlsx 形式で書き出します。
type PayrollExporter struct{}

// NewPayrollExporter は PayrollExporter を生成します。
func NewPayrollExporter() *PayrollExporter {
	return &PayrollExporter{}
}

// ExportSalaries は records を 1 行 1 件で 1 枚のシートに書き出し、w に保存します。
func (e *PayrollExporter) ExportSalaries(ctx context.Context, w io.Writer, records []*payroll.SalaryRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PayrollSheet); err != nil {
		return fmt.Errorf("excel: rename sheet: %w", err)
	}

	header := payrollHeader
	if err := f.SetSheetRow(PayrollSheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: create header style: %w", err)
	}
	if err := f.SetRowStyle(PayrollSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("excel: apply header style: %w", err)
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: cell name for row %d: %w", i+2, err)
		}

		row := []any{
			rec.EmployeeID,
			rec.EmployeeCode,
			rec.EmployeeName,
			rec.DepartmentID,
			rec.SalaryRef,
			rec.Bonus.InexactFloat64(),
			rec.Penalty.InexactFloat64(),
			rec.Total.InexactFloat64(),
			rec.CalculatedAt.Format(calculatedAtLayout),
		}
		if err := f.SetSheetRow(PayrollSheet, cell, &row); err != nil {
			return fmt.Errorf("excel: write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(PayrollSheet, "A", "I", 18); err != nil {
		return fmt.Errorf("excel: set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel: write workbook: %w", err)
	}
	return nil
}
