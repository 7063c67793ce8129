package employee

import "context"

type EmployeeRepository interface {
	// CreateProfile inserts the profile row of an existing user.
	CreateProfile(ctx context.Context, profile Employee) error
	// GetByUserID returns ErrEmployeeNotFound when no user has that id.
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	// UpdateProfile applies the non-nil fields of req.
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) error
	// List returns non-admin employees ordered by first name plus the total count.
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
}
