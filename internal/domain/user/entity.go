package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access
	RoleHR       Role = "hr"       // Reviews leave, manages employee data
	RoleEmployee Role = "employee" // Self service only
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

type User struct {
	ID           string
	EmployeeCode string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may sign in
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsPrivileged checks if user is admin or HR
func (u *User) IsPrivileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleHR
}

func ValidRoles() []string {
	return []string{string(RoleAdmin), string(RoleHR), string(RoleEmployee)}
}

func ValidStatuses() []string {
	return []string{string(StatusActive), string(StatusInactive), string(StatusSuspended)}
}
