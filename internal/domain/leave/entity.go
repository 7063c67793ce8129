package leave

import "time"

type LeaveType string

const (
	LeaveTypePaid   LeaveType = "paid"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeUnpaid LeaveType = "unpaid"
)

func ValidLeaveTypes() []string {
	return []string{string(LeaveTypePaid), string(LeaveTypeSick), string(LeaveTypeUnpaid)}
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

func ValidStatuses() []string {
	return []string{
		string(LeaveRequestStatusPending),
		string(LeaveRequestStatusApproved),
		string(LeaveRequestStatusRejected),
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected
}

// CanTransitionTo allows only pending -> approved and pending -> rejected.
func (s LeaveRequestStatus) CanTransitionTo(next LeaveRequestStatus) bool {
	return s == LeaveRequestStatusPending && next.IsTerminal()
}

// LeaveRequest entity
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType

	StartDate time.Time
	EndDate   time.Time
	Reason    string

	Status       LeaveRequestStatus
	AdminComment *string
	ReviewedBy   *string
	ReviewedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined from the employee profile on read
	EmployeeName *string
}

// TotalDays counts calendar days, both bounds included.
func (r *LeaveRequest) TotalDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// Overlaps uses inclusive bounds on both ranges.
func (r *LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}
