package leave

import (
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
	Reason    string `json:"reason"`

	startDate time.Time
	endDate   time.Time
}

// Validate checks field formats. The date order is checked by the service
// and reported as ErrInvalidDateRange.
func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, ValidLeaveTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: paid, sick, unpaid",
		})
	}

	var ok bool
	if r.startDate, ok = validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	if r.endDate, ok = validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Dates returns the parsed range. Only meaningful after Validate succeeded.
func (r *CreateLeaveRequest) Dates() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type DecideLeaveRequest struct {
	Status       string  `json:"status"`
	AdminComment *string `json:"admin_comment,omitempty"`
}

func (r *DecideLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != string(LeaveRequestStatusApproved) && r.Status != string(LeaveRequestStatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: approved, rejected",
		})
	}
	if r.AdminComment != nil {
		trimmed := strings.TrimSpace(*r.AdminComment)
		if trimmed == "" {
			r.AdminComment = nil
		} else if len(trimmed) > 1000 {
			errs = append(errs, validator.ValidationError{
				Field:   "admin_comment",
				Message: "admin_comment must not exceed 1000 characters",
			})
		} else {
			r.AdminComment = &trimmed
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&f.Page, &f.Limit, 10, 100, &errs)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveRequestResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Type         string  `json:"type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    int     `json:"total_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	AdminComment *string `json:"admin_comment,omitempty"`
	ReviewedBy   *string `json:"reviewed_by,omitempty"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}
