package user

import "context"

type UserRepository interface {
	// Create inserts a user. Duplicate email or employee code returns
	// ErrEmailExists or ErrEmployeeCodeExists.
	Create(ctx context.Context, newUser User) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	// GetByIdentifier looks a user up by email or employee code.
	GetByIdentifier(ctx context.Context, identifier string) (User, error)

	UpdateStatus(ctx context.Context, id string, status Status) error
}
