package attendance

import "errors"

var (
	ErrInvalidEmployeeID = errors.New("attendance: invalid employee id")
	ErrNoEmployees       = errors.New("attendance: no employees given")
	ErrLogNotFound       = errors.New("attendance: log not found")
)
