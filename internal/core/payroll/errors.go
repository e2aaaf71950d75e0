package payroll

import "errors"

var (
	// ErrInvalidEmployeeID は社員 ID が空の場合に返却されます。
	ErrInvalidEmployeeID = errors.New("payroll: invalid employee id")
	// ErrEmployeeNotFound は社員が見つからない場合に返却されます。
	ErrEmployeeNotFound = errors.New("payroll: employee not found")
	// ErrInvalidSalary は社員の基本給が数値として解釈できない場合に返却されます。
	ErrInvalidSalary = errors.New("payroll: salary reference is not a number")
	// ErrExporterNotConfigured は出力先が設定されていない場合に返却されます。
	ErrExporterNotConfigured = errors.New("payroll: exporter not configured")
)
