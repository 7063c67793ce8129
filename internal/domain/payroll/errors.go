package payroll

import "errors"

var (
	ErrPayrollNotFound = errors.New("payroll record not found")
	ErrPayrollExists   = errors.New("payroll record already exists for this period")
)
