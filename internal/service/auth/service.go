package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(tx database.Transactor, userRepository user.UserRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		tx:                 tx,
		UserRepository:     userRepository,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
	}
}

var comparePassword = bcrypt.CompareHashAndPassword

// Unknown identifiers are checked against this hash so that they cost as
// much as a wrong password.
var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

func unknownUserHash() []byte {
	dummyHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("dayflow-unknown-user"), bcrypt.DefaultCost)
		if err != nil {
			slog.Error("failed to build placeholder password hash", "error", err)
			return
		}
		dummyHash = hash
	})
	return dummyHash
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Signup implements auth.AuthService.
func (a *AuthServiceImpl) Signup(ctx context.Context, req auth.SignupRequest) (auth.TokenResponse, error) {
	// Self registration never grants elevated roles
	req.Role = user.RoleEmployee

	newUser, err := a.register(ctx, req)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return a.issueTokens(newUser, req.FirstName, req.LastName)
}

// CreateAccount implements auth.AuthService.
func (a *AuthServiceImpl) CreateAccount(ctx context.Context, req auth.SignupRequest) (auth.UserResponse, error) {
	newUser, err := a.register(ctx, req)
	if err != nil {
		return auth.UserResponse{}, err
	}

	return toUserResponse(newUser, req.FirstName, req.LastName), nil
}

// register creates the user and its profile in one transaction.
func (a *AuthServiceImpl) register(ctx context.Context, req auth.SignupRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created user.User
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = a.UserRepository.Create(txCtx, user.User{
			EmployeeCode: req.EmployeeCode,
			Email:        req.Email,
			PasswordHash: hashed,
			Role:         req.Role,
			Status:       user.StatusActive,
		})
		if err != nil {
			if errors.Is(err, user.ErrEmailExists) || errors.Is(err, user.ErrEmployeeCodeExists) {
				return err
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		profile := employee.Employee{
			UserID:    created.ID,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
		}
		if department := strings.TrimSpace(req.Department); department != "" {
			profile.Department = &department
		}
		if position := strings.TrimSpace(req.Position); position != "" {
			profile.Position = &position
		}
		if err := a.EmployeeRepository.CreateProfile(txCtx, profile); err != nil {
			return fmt.Errorf("failed to create employee profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	slog.Info("account created", "user_id", created.ID, "employee_code", created.EmployeeCode, "role", created.Role)
	return created, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			_ = comparePassword(unknownUserHash(), []byte(req.Password))
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	if err := comparePassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if !userData.IsActive() {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	firstName, lastName := a.names(ctx, userData.ID)
	return a.issueTokens(userData, firstName, lastName)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	claims, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.Service.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if !userData.IsActive() {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	accessToken, expiresAt, err := a.Service.GenerateAccessToken(accessClaims(userData))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// Logout implements auth.AuthService. Unparsable tokens are ignored so
// logging out twice is harmless.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string, identity *auth.Identity) error {
	if refreshToken != "" {
		if claims, err := a.Service.ParseRefreshToken(refreshToken); err == nil {
			if err := a.Service.RevokeToken(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}

	if identity != nil && identity.ExpiresAt.After(time.Now()) {
		if err := a.Service.RevokeToken(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
		slog.Info("user logged out", "user_id", identity.UserID)
	}

	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (auth.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.UserResponse{}, err
		}
		return auth.UserResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	firstName, lastName := a.names(ctx, userID)
	return toUserResponse(userData, firstName, lastName), nil
}

// names returns the profile name, or blanks when the profile is unreadable.
func (a *AuthServiceImpl) names(ctx context.Context, userID string) (string, string) {
	profile, err := a.EmployeeRepository.GetByUserID(ctx, userID)
	if err != nil {
		slog.Warn("failed to load employee profile", "user_id", userID, "error", err)
		return "", ""
	}
	return profile.FirstName, profile.LastName
}

func (a *AuthServiceImpl) issueTokens(userData user.User, firstName, lastName string) (auth.TokenResponse, error) {
	var (
		tokenResponse auth.TokenResponse
		err           error
	)

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(accessClaims(userData))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	tokenResponse.User = toUserResponse(userData, firstName, lastName)

	return tokenResponse, nil
}

func accessClaims(u user.User) jwt.AccessClaims {
	return jwt.AccessClaims{
		UserID:       u.ID,
		Email:        u.Email,
		EmployeeCode: u.EmployeeCode,
		Role:         u.Role,
	}
}

func toUserResponse(u user.User, firstName, lastName string) auth.UserResponse {
	return auth.UserResponse{
		ID:           u.ID,
		EmployeeCode: u.EmployeeCode,
		Email:        u.Email,
		Role:         string(u.Role),
		Status:       string(u.Status),
		FirstName:    firstName,
		LastName:     lastName,
	}
}
