package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// LockEmployee serializes request creation per employee for the
	// surrounding transaction.
	LockEmployee(ctx context.Context, employeeID string) error

	// HasPendingOverlap reports whether a pending request of employeeID
	// intersects [start, end].
	HasPendingOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	// GetByID returns ErrLeaveRequestNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// List returns requests ordered by created_at descending plus the total count.
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// Decide applies a review to a request that is still pending.
	// It returns false when no pending row matched.
	Decide(ctx context.Context, id string, status LeaveRequestStatus, comment *string, reviewerID string, reviewedAt time.Time) (bool, error)
}
