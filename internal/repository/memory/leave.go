package memory

import (
	"context"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

// LockEmployee is a no-op; WithinTransaction already serializes.
func (r *leaveRequestRepository) LockEmployee(context.Context, string) error {
	return nil
}

func (r *leaveRequestRepository) HasPendingOverlap(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, lr := range r.s.leaves {
		if lr.EmployeeID != employeeID || lr.Status != leave.LeaveRequestStatusPending {
			continue
		}
		if dayKey(lr.StartDate) <= dayKey(end) && dayKey(lr.EndDate) >= dayKey(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *leaveRequestRepository) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	req.ID = r.s.newID()
	req.CreatedAt = now
	req.UpdatedAt = now
	req.EmployeeName = nil
	r.s.leaves[req.ID] = req
	return req, nil
}

func (r *leaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lr, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	lr.EmployeeName = r.s.displayName(lr.EmployeeID)
	return lr, nil
}

func (r *leaveRequestRepository) List(_ context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []leave.LeaveRequest
	for _, lr := range r.s.leaves {
		if filter.EmployeeID != nil && lr.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(lr.Status) != *filter.Status {
			continue
		}
		lr.EmployeeName = r.s.displayName(lr.EmployeeID)
		items = append(items, lr)
	}
	sortByKey(items, func(x, y leave.LeaveRequest) bool {
		if !x.CreatedAt.Equal(y.CreatedAt) {
			return x.CreatedAt.After(y.CreatedAt)
		}
		return r.s.seq[x.ID] > r.s.seq[y.ID]
	})
	return page(items, filter.Page, filter.Limit), int64(len(items)), nil
}

func (r *leaveRequestRepository) Decide(_ context.Context, id string, status leave.LeaveRequestStatus, comment *string, reviewerID string, reviewedAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lr, ok := r.s.leaves[id]
	if !ok || lr.Status != leave.LeaveRequestStatusPending {
		return false, nil
	}
	lr.Status = status
	lr.AdminComment = comment
	lr.ReviewedBy = &reviewerID
	lr.ReviewedAt = &reviewedAt
	lr.UpdatedAt = time.Now()
	r.s.leaves[id] = lr
	return true, nil
}

// onApprovedLeave must be called with mu held.
func (s *Store) onApprovedLeave(employeeID string, date time.Time) bool {
	k := dayKey(date)
	for _, lr := range s.leaves {
		if lr.EmployeeID == employeeID && lr.Status == leave.LeaveRequestStatusApproved &&
			dayKey(lr.StartDate) <= k && dayKey(lr.EndDate) >= k {
			return true
		}
	}
	return false
}
