package project

import "errors"

var (
	// ErrProjectNotFound はプロジェクトが存在しない場合に返却されます。
	ErrProjectNotFound = errors.New("project: not found")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("project: invalid id")
	// ErrInvalidName はプロジェクト名が空の場合に返却されます。
	ErrInvalidName = errors.New("project: invalid name")
	// ErrInvalidDescription は説明が空の場合に返却されます。
	ErrInvalidDescription = errors.New("project: invalid description")
	// ErrInvalidDate は日付が yyyy-mm-dd として解釈できない場合に返却されます。
	ErrInvalidDate = errors.New("project: invalid date, expected yyyy-mm-dd")
	// ErrInvalidAssignment は割り当てる社員が指定されていない場合に返却されます。
	ErrInvalidAssignment = errors.New("project: no employees to assign")
	// ErrInvalidSortKey は並び替えキーが不正な場合に返却されます。
	ErrInvalidSortKey = errors.New("project: invalid sort key")
)
