package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

// Employee is a user account joined with its profile.
type Employee struct {
	UserID       string
	EmployeeCode string
	Email        string
	Role         user.Role
	Status       user.Status

	FirstName        string
	LastName         string
	Phone            *string
	Address          *string
	Department       *string
	Position         *string
	DateOfJoining    *time.Time
	DateOfBirth      *time.Time
	Gender           *Gender
	MaritalStatus    *MaritalStatus
	EmergencyContact *string
	EmploymentType   *EmploymentType
	Salary           *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName is the display name used on leave and attendance listings.
func (e *Employee) FullName() string {
	return DisplayName(e.FirstName, e.LastName)
}

// DisplayName joins first and last name, falling back to "Unknown".
func DisplayName(firstName, lastName string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" {
		return "Unknown"
	}
	return name
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ValidGenders() []string {
	return []string{string(GenderMale), string(GenderFemale), string(GenderOther)}
}

type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "single"
	MaritalStatusMarried  MaritalStatus = "married"
	MaritalStatusDivorced MaritalStatus = "divorced"
	MaritalStatusWidowed  MaritalStatus = "widowed"
)

func ValidMaritalStatuses() []string {
	return []string{
		string(MaritalStatusSingle), string(MaritalStatusMarried),
		string(MaritalStatusDivorced), string(MaritalStatusWidowed),
	}
}

type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full-time"
	EmploymentTypePartTime EmploymentType = "part-time"
	EmploymentTypeContract EmploymentType = "contract"
	EmploymentTypeIntern   EmploymentType = "intern"
)

func ValidEmploymentTypes() []string {
	return []string{
		string(EmploymentTypeFullTime), string(EmploymentTypePartTime),
		string(EmploymentTypeContract), string(EmploymentTypeIntern),
	}
}
