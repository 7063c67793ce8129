package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetAdminStats returns company wide counts using goroutines
	GetAdminStats(ctx context.Context) (*AdminStatsResponse, error)

	// GetEmployeeStats returns the caller's month and leave summary
	GetEmployeeStats(ctx context.Context, employeeID string) (*EmployeeStatsResponse, error)
}
