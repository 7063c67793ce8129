package auth

import (
	"context"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Identity is the verified caller, taken from access token claims.
type Identity struct {
	UserID       string
	Email        string
	EmployeeCode string
	Role         user.Role
	TokenID      string
	ExpiresAt    time.Time
}

func (i Identity) IsPrivileged() bool {
	return i.Role == user.RoleAdmin || i.Role == user.RoleHR
}

func (i Identity) Can(permission user.Permission) bool {
	return user.HasPermission(i.Role, permission)
}

// IdentityFromContext reads the claims placed by jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Identity{}, ErrUnauthorized
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrUnauthorized
	}
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Identity{}, ErrUnauthorized
	}

	identity := Identity{
		UserID:    userID,
		Role:      user.Role(role),
		TokenID:   token.JwtID(),
		ExpiresAt: token.Expiration(),
	}
	identity.Email, _ = claims["email"].(string)
	identity.EmployeeCode, _ = claims["employee_code"].(string)

	return identity, nil
}
