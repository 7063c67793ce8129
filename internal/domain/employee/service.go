package employee

import "context"

// EmployeeService defines business logic for employee profiles
type EmployeeService interface {
	GetProfile(ctx context.Context, userID string) (EmployeeResponse, error)

	// UpdateProfile updates the caller's personal details
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (EmployeeResponse, error)

	// ListEmployees lists employees with filters (admin/hr only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpdateStatus activates or deactivates an account (admin only)
	UpdateStatus(ctx context.Context, actorID string, id string, req UpdateStatusRequest) (EmployeeResponse, error)
}
