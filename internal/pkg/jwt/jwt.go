package jwt

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	acceptableSkew = 30 * time.Second
)

var ErrWrongTokenType = errors.New("unexpected token type")

// AccessClaims are the identity claims carried by an access token.
type AccessClaims struct {
	UserID       string
	Email        string
	EmployeeCode string
	Role         user.Role
}

// RefreshClaims are the verified contents of a refresh token.
type RefreshClaims struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID string) (token string, expiresAt int64, err error)
	// ParseRefreshToken verifies signature, expiry and token type.
	ParseRefreshToken(tokenString string) (RefreshClaims, error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	// RevokeToken blocks the token with the given jti until it expires.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type JWTService struct {
	accessTokenExpiration  time.Duration
	refreshTokenExpiration time.Duration
	secureCookie           bool
	tokenAuth              *jwtauth.JWTAuth
	revoked                RevocationStore
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService expects durations already checked by config validation.
func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, revoked RevocationStore, secureCookie bool) (*JWTService, error) {
	accessTTL, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}

	return &JWTService{
		accessTokenExpiration:  accessTTL,
		refreshTokenExpiration: refreshTTL,
		secureCookie:           secureCookie,
		tokenAuth:              jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(acceptableSkew)),
		revoked:                revoked,
	}, nil
}

func (j *JWTService) GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":           uuid.NewString(),
		"user_id":       claims.UserID,
		"email":         claims.Email,
		"employee_code": claims.EmployeeCode,
		"role":          string(claims.Role),
		"type":          TokenTypeAccess,
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(userID string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.refreshTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":     uuid.NewString(),
		"user_id": userID,
		"type":    TokenTypeRefresh,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (RefreshClaims, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return RefreshClaims{}, err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(acceptableSkew)); err != nil {
		return RefreshClaims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeRefresh {
		return RefreshClaims{}, ErrWrongTokenType
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return RefreshClaims{}, jwt.ErrInvalidJWT()
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return RefreshClaims{}, jwt.ErrInvalidJWT()
	}

	return RefreshClaims{
		UserID:    userID,
		TokenID:   token.JwtID(),
		ExpiresAt: token.Expiration(),
	}, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	return j.revoked.Revoke(ctx, tokenID, expiresAt)
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return j.revoked.IsRevoked(ctx, tokenID)
}
