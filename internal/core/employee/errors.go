package employee

import "errors"

var (
	ErrInvalidID          = errors.New("employee: invalid id")
	ErrInvalidCode        = errors.New("employee: invalid code")
	ErrInvalidName        = errors.New("employee: invalid name")
	ErrInvalidDateOfBirth = errors.New("employee: invalid date of birth, expected dd/mm/yyyy")
	ErrInvalidSortKey     = errors.New("employee: invalid sort key")
	ErrEmployeeNotFound   = errors.New("employee: not found")
)
