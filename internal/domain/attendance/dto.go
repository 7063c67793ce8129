package attendance

import (
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

const maxLocationLength = 255

type CheckInRequest struct {
	Location *string `json:"location,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validateLocation(r.Location)
}

type CheckOutRequest struct {
	Location *string `json:"location,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validateLocation(r.Location)
}

func validateLocation(location *string) error {
	if location != nil && len(*location) > maxLocationLength {
		return validator.ValidationErrors{{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		}}
	}
	return nil
}

type AttendanceResponse struct {
	ID               string   `json:"id"`
	EmployeeID       string   `json:"employee_id"`
	EmployeeName     *string  `json:"employee_name,omitempty"`
	Date             string   `json:"date"`
	Day              string   `json:"day"`
	CheckIn          *string  `json:"check_in,omitempty"`
	CheckOut         *string  `json:"check_out,omitempty"`
	CheckInLocation  *string  `json:"check_in_location,omitempty"`
	CheckOutLocation *string  `json:"check_out_location,omitempty"`
	Status           string   `json:"status"`
	WorkHours        *float64 `json:"work_hours,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type WeeklyAttendanceResponse struct {
	WeekStart string               `json:"week_start"`
	WeekEnd   string               `json:"week_end"`
	Days      []AttendanceResponse `json:"days"`
}

// HistoryFilter pages through one employee's records, newest first.
type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&f.Page, &f.Limit, 30, 100, &errs)
	validateDateRange(f.StartDate, f.EndDate, &errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AttendanceFilter lists records across employees.
type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&f.Page, &f.Limit, 20, 100, &errs)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	// Status validation
	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, half-day, late, weekend, holiday",
		})
	}

	// Date validation
	if f.Date != nil {
		if _, valid := validator.IsValidDate(*f.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	validateDateRange(f.StartDate, f.EndDate, &errs)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDateRange(startDate, endDate *string, errs *validator.ValidationErrors) {
	var startOK, endOK bool
	if startDate != nil {
		if _, startOK = validator.IsValidDate(*startDate); !startOK {
			*errs = append(*errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if endDate != nil {
		if _, endOK = validator.IsValidDate(*endDate); !endOK {
			*errs = append(*errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	// Dates are ISO formatted, so string order is date order.
	if startOK && endOK && *endDate < *startDate {
		*errs = append(*errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
}
