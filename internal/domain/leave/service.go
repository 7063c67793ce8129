package leave

import "context"

type LeaveService interface {
	// CreateRequest files a pending request for employeeID
	CreateRequest(ctx context.Context, employeeID string, req CreateLeaveRequest) (LeaveRequestResponse, error)

	// ListRequests lists requests; a nil EmployeeID lists every employee
	ListRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)

	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)

	// Decide approves or rejects a pending request exactly once
	Decide(ctx context.Context, id string, reviewerID string, req DecideLeaveRequest) (LeaveRequestResponse, error)
}
