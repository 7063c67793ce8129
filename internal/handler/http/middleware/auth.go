package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
)

// AuthRequired accepts verified, unrevoked access tokens of active accounts
// only. It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service, users user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			revoked, err := jwtService.IsTokenRevoked(r.Context(), token.JwtID())
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			identity, err := auth.IdentityFromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			// Status changes apply to tokens issued before them
			account, err := users.GetByID(r.Context(), identity.UserID)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					response.HandleError(w, auth.ErrInvalidToken)
					return
				}
				slog.Error("failed to load token owner", "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if !account.IsActive() {
				response.HandleError(w, auth.ErrAccountInactive)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
