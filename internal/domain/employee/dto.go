package employee

import (
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// UpdateProfileRequest carries the fields an employee may edit on their own
// profile. Department, position, employment type and salary are managed by HR.
type UpdateProfileRequest struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	DateOfBirth      *string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender           *string `json:"gender,omitempty"`
	MaritalStatus    *string `json:"marital_status,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`

	// Parsed by Validate
	DateOfBirthValue *time.Time `json:"-"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil {
		trimmed := strings.TrimSpace(*r.FirstName)
		r.FirstName = &trimmed
		if trimmed == "" || len(trimmed) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "first_name",
				Message: "first_name must be 1-100 characters",
			})
		}
	}
	if r.LastName != nil {
		trimmed := strings.TrimSpace(*r.LastName)
		r.LastName = &trimmed
		if trimmed == "" || len(trimmed) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "last_name",
				Message: "last_name must be 1-100 characters",
			})
		}
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be 7-15 digits with an optional leading +",
		})
	}

	if r.DateOfBirth != nil {
		dob, ok := validator.IsValidDate(*r.DateOfBirth)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_birth",
				Message: "date_of_birth must be in YYYY-MM-DD format",
			})
		} else if dob.After(time.Now()) {
			errs = append(errs, validator.ValidationError{
				Field:   "date_of_birth",
				Message: "date_of_birth cannot be in the future",
			})
		} else {
			r.DateOfBirthValue = &dob
		}
	}

	if r.Gender != nil && !validator.IsInSlice(*r.Gender, ValidGenders()) {
		errs = append(errs, validator.ValidationError{
			Field:   "gender",
			Message: "gender must be one of: male, female, other",
		})
	}
	if r.MaritalStatus != nil && !validator.IsInSlice(*r.MaritalStatus, ValidMaritalStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "marital_status",
			Message: "marital_status must be one of: single, married, divorced, widowed",
		})
	}
	if r.EmergencyContact != nil && len(*r.EmergencyContact) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "emergency_contact",
			Message: "emergency_contact must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Phone == nil && r.Address == nil &&
		r.DateOfBirth == nil && r.Gender == nil && r.MaritalStatus == nil && r.EmergencyContact == nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	if !validator.IsInSlice(r.Status, user.ValidStatuses()) {
		return validator.ValidationErrors{{
			Field:   "status",
			Message: "status must be one of: active, inactive, suspended",
		}}
	}
	return nil
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	validator.Pagination(&f.Page, &f.Limit, 10, 100, &errs)

	if f.Status != nil && !validator.IsInSlice(*f.Status, user.ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: active, inactive, suspended",
		})
	}
	if f.Search != nil && len(*f.Search) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "search",
			Message: "search must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID               string   `json:"id"`
	EmployeeCode     string   `json:"employee_code"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	Status           string   `json:"status"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	FullName         string   `json:"full_name"`
	Phone            *string  `json:"phone,omitempty"`
	Address          *string  `json:"address,omitempty"`
	Department       *string  `json:"department,omitempty"`
	Position         *string  `json:"position,omitempty"`
	DateOfJoining    *string  `json:"date_of_joining,omitempty"`
	DateOfBirth      *string  `json:"date_of_birth,omitempty"`
	Gender           *string  `json:"gender,omitempty"`
	MaritalStatus    *string  `json:"marital_status,omitempty"`
	EmergencyContact *string  `json:"emergency_contact,omitempty"`
	EmploymentType   *string  `json:"employment_type,omitempty"`
	Salary           *float64 `json:"salary,omitempty"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
