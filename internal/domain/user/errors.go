package user

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrEmployeeCodeExists   = errors.New("employee code already registered")
	ErrForbidden            = errors.New("insufficient permissions")
	ErrAdminAccessRequired  = errors.New("admin access required")
	ErrCannotChangeOwnState = errors.New("cannot change the status of your own account")
)
