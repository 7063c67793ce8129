package dashboard

import (
	"context"
	"time"
)

// DashboardRepository defines the interface for dashboard data access.
// Each method is a single aggregate query so the service can run them in parallel.
type DashboardRepository interface {
	// CountActiveEmployees counts active accounts with role employee or hr
	CountActiveEmployees(ctx context.Context) (int64, error)

	// CountPresent counts employees with a present, late or half-day record on date
	CountPresent(ctx context.Context, date time.Time) (int64, error)

	// CountPendingLeaves counts pending requests; an empty employeeID counts all
	CountPendingLeaves(ctx context.Context, employeeID string) (int64, error)

	// CountDepartments counts distinct non-empty departments
	CountDepartments(ctx context.Context) (int64, error)

	// CountDaysPresent counts employeeID's present, late or half-day days in [from, to]
	CountDaysPresent(ctx context.Context, employeeID string, from, to time.Time) (int64, error)

	// ApprovedLeaveDays returns approved leave days per type whose start date falls in year
	ApprovedLeaveDays(ctx context.Context, employeeID string, year int) (map[string]int64, error)
}
