package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrProfileExists    = errors.New("employee profile already exists")
)
