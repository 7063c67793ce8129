package auth

import (
	"context"
)

type AuthService interface {
	// Signup self-registers an employee account with its profile.
	Signup(ctx context.Context, req SignupRequest) (TokenResponse, error)

	// CreateAccount lets an admin create an account with any role.
	CreateAccount(ctx context.Context, req SignupRequest) (UserResponse, error)

	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string, identity *Identity) error
	Me(ctx context.Context, userID string) (UserResponse, error)
}
