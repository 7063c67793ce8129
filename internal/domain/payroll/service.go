package payroll

import (
	"context"
	"io"
)

type PayrollService interface {
	// ListPayroll lists records; a nil EmployeeID lists every employee
	ListPayroll(ctx context.Context, filter PayrollFilter) (ListPayrollResponse, error)
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)
	// CreatePayroll computes totals and stores a pending record (admin only)
	CreatePayroll(ctx context.Context, req CreatePayrollRequest) (PayrollResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdatePayrollStatusRequest) (PayrollResponse, error)
	// ExportPayroll writes an XLSX workbook for one period to w
	ExportPayroll(ctx context.Context, req ExportPayrollRequest, w io.Writer) error
}
