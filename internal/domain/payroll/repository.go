package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Create returns ErrPayrollExists when the employee already has a record
	// for the period.
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	// List orders by year then month, newest first.
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	// ListByPeriod returns every record of a month, ordered by employee name.
	ListByPeriod(ctx context.Context, month, year int) ([]PayrollRecord, error)
	// UpdateStatus sets paid_at to paidAt, which is nil when moving back to pending.
	UpdateStatus(ctx context.Context, id string, status PayrollStatus, paidAt *time.Time) error
}
