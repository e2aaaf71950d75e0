package activity

import "errors"

var (
	// ErrInvalidDescription は記録内容が空の場合に返却されます。
	ErrInvalidDescription = errors.New("activity: invalid description")
)
