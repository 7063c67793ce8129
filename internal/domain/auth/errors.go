package auth

import "errors"

var (
	ErrUnauthorized        = errors.New("authentication required")
	ErrInvalidCredentials  = errors.New("invalid email/employee code or password")
	ErrAccountInactive     = errors.New("account is not active")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
)
